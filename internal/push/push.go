// SPDX-License-Identifier: Apache-2.0
package push

import (
	"encoding/json"
	"net/http"

	"github.com/donnajuce/acougue/internal/customer"
	"github.com/sirupsen/logrus"
	"github.com/upper/db/v4"
)

// Payload is what ends up encrypted and handed to the vendor; the service
// worker on the other side knows these three fields.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Link  string `json:"link,omitempty"`
}

// Target selects the subscriptions a dispatch fans out over: one customer's
// devices, or every administrator's.
type Target struct {
	CustomerID string
	ToAdmins   bool
}

// Receipt accounts for every row the dispatch attempted.
type Receipt struct {
	Sent    int `json:"sent"`
	Total   int `json:"total"`
	Removed int `json:"removed"`
}

type Notifier struct {
	cfg    *Config
	db     db.Session
	sender Sender
}

func NewNotifier(cfg *Config, sess db.Session) *Notifier {
	return &Notifier{cfg: cfg, db: sess, sender: &webpushSender{cfg: cfg}}
}

// NewNotifierWithSender swaps the delivery transport; tests and dry runs use
// a Recorder here.
func NewNotifierWithSender(cfg *Config, sess db.Session, sender Sender) *Notifier {
	return &Notifier{cfg: cfg, db: sess, sender: sender}
}

// Dispatch sends payload to every subscription the target resolves to.
// Endpoints the vendor reports gone are pruned from the store; any other
// per-row failure is logged and left for a future send. The returned receipt
// covers every resolved row.
func (n *Notifier) Dispatch(target Target, payload Payload) (*Receipt, error) {
	if target.CustomerID == "" && !target.ToAdmins {
		return nil, &ErrorMissingTarget{}
	}

	if !n.cfg.Key.Configured() {
		return nil, &ErrorMissingKeys{}
	}

	var subs []*customer.Subscription
	var err error
	if target.ToAdmins {
		subs, err = customer.AdminSubscriptions(n.db)
	} else {
		subs, err = customer.SubscriptionsFor(n.db, target.CustomerID)
	}
	if err != nil {
		return nil, &ErrorStore{"resolve subscriptions", err}
	}

	message, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	receipt := &Receipt{Total: len(subs)}
	for _, sub := range subs {
		status, err := n.sender.Send(message, sub)
		if err != nil {
			logrus.Errorf("push to %s failed: %s", sub.Endpoint, err)
			continue
		}

		switch {
		case status == http.StatusNotFound || status == http.StatusGone:
			logrus.Infof("pruning gone subscription %s", sub.ID)
			if err := customer.DeleteSubscription(n.db, sub.ID); err != nil {
				logrus.Errorf("could not prune subscription %s: %s", sub.ID, err)
				continue
			}
			receipt.Removed++
		case status >= http.StatusBadRequest:
			logrus.Errorf("push to %s rejected with status %d", sub.Endpoint, status)
		default:
			receipt.Sent++
		}
	}

	return receipt, nil
}
