// SPDX-License-Identifier: Apache-2.0
package server

import (
	"encoding/json"
	"net/http"

	"github.com/donnajuce/acougue/internal/customer"
	"github.com/donnajuce/acougue/internal/errors"
	"github.com/donnajuce/acougue/internal/notify"
	"github.com/donnajuce/acougue/internal/push"
	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
)

// getPushKey hands the VAPID public key to anyone who asks. An empty key
// means push is unavailable; that's still a 200, clients treat it as
// "don't bother subscribing".
func getPushKey(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, map[string]string{"publicKey": _pushCfg.Key.Public})
}

type subscriptionRequest struct {
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
}

// saveSubscription upserts the browser's push subscription for the session
// customer, keyed by endpoint.
func saveSubscription(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	c := customer.FromContext(r)

	var body subscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	sub := &customer.Subscription{
		CustomerID: c.ID,
		Endpoint:   body.Endpoint,
		P256dh:     body.Keys.P256dh,
		Auth:       body.Keys.Auth,
	}
	if err := sub.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := customer.UpsertSubscription(_db, sub); err != nil {
		sendError(w, err)
		return
	}

	logrus.Debugf("stored subscription %s for %s", sub.Endpoint, c.ID)
	writeJSON(w, map[string]string{"status": "ok"})
}

type sendRequest struct {
	CustomerID string `json:"customer_id"`
	ToAdmins   bool   `json:"to_admins"`
	Title      string `json:"title"`
	Body       string `json:"body"`
	Link       string `json:"link"`
}

// sendPush is the ad-hoc dispatch endpoint for the back-office.
func sendPush(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body sendRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	receipt, err := _push.Dispatch(
		push.Target{CustomerID: body.CustomerID, ToAdmins: body.ToAdmins},
		push.Payload{Title: body.Title, Body: body.Body, Link: body.Link},
	)
	if err != nil {
		logrus.Errorf("dispatch failed: %s", err)
		message, code := errors.ToHTTP(err)
		w.Header().Add("content-type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]string{"error": message}) // nolint:errcheck
		return
	}

	writeJSON(w, receipt)
}

func listNotifications(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	c := customer.FromContext(r)

	inbox, err := customer.Inbox(_db, c.ID)
	if err != nil {
		sendError(w, err)
		return
	}

	writeJSON(w, inbox)
}

func readNotification(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	c := customer.FromContext(r)

	if err := customer.MarkRead(_db, c.ID, params.ByName("id")); err != nil {
		sendError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func readAllNotifications(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	c := customer.FromContext(r)

	if err := customer.MarkAllRead(_db, c.ID); err != nil {
		sendError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type orderStatusRequest struct {
	CustomerID   string `json:"customer_id"`
	Status       string `json:"status"`
	DeliveryType string `json:"delivery_type"`
}

// orderStatusEvent notifies a customer their order moved along. The order
// mutation already happened elsewhere; this endpoint always reports ok so
// notification trouble never bubbles up into the order flow.
func orderStatusEvent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body orderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if body.CustomerID == "" {
		http.Error(w, "customer_id is required", http.StatusBadRequest)
		return
	}

	notify.OrderStatusChanged(_db, _push, body.CustomerID, body.Status, body.DeliveryType)

	writeJSON(w, map[string]string{"status": "ok"})
}

// orderPlacedEvent lets the storefront ping administrators after checkout.
func orderPlacedEvent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	c := customer.FromContext(r)

	notify.NewOrderPlaced(_db, _push, c.Name)

	writeJSON(w, map[string]string{"status": "ok"})
}

type promotionRequest struct {
	Name string `json:"name"`
}

func promotionEvent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body promotionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if body.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	notify.PromotionStarted(_db, _push, body.Name)

	writeJSON(w, map[string]string{"status": "ok"})
}
