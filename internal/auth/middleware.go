// SPDX-License-Identifier: Apache-2.0
package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/donnajuce/acougue/internal/constants"
	"github.com/donnajuce/acougue/internal/customer"
	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
)

func writeJSON(w http.ResponseWriter, data any) {
	res, err := json.Marshal(data)
	if err != nil {
		logrus.Errorf("could not marshal response: %s", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Add("content-type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(res) // nolint:errcheck
}

func (am *Manager) withCustomer(handler httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
		req = func() *http.Request {
			if req.Context().Value(constants.ContextCustomer) != nil {
				return req
			}

			id := am.sess.GetString(req.Context(), constants.SessionCustomerKey)
			if id == "" {
				return req
			}

			c, err := customer.ByID(am.db, id)
			if err != nil {
				logrus.Debugf("session names unknown customer %s: %s", id, err)
				if err := am.sess.Destroy(req.Context()); err != nil {
					logrus.Errorf("could not purge stale session: %s", err)
				}
				return req
			}

			return req.WithContext(context.WithValue(req.Context(), constants.ContextCustomer, c))
		}()

		handler(w, req, ps)
	}
}

func (am *Manager) RequireAuth(handler httprouter.Handle) httprouter.Handle {
	return am.withCustomer(func(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
		if req.Context().Value(constants.ContextCustomer) == nil {
			am.requestAuth(w, http.StatusUnauthorized)
			return
		}

		handler(w, req, ps)
	})
}

func (am *Manager) RequireAuthOrRedirect(handler httprouter.Handle, target string) httprouter.Handle {
	return am.withCustomer(func(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
		if req.Context().Value(constants.ContextCustomer) == nil {
			http.Redirect(w, req, target, http.StatusTemporaryRedirect)
			return
		}

		handler(w, req, ps)
	})
}

func (am *Manager) RequireAdmin(handler httprouter.Handle) httprouter.Handle {
	return am.RequireAuth(func(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
		c := req.Context().Value(constants.ContextCustomer).(*customer.Customer)
		if !c.IsAdmin {
			am.requestAuth(w, http.StatusUnauthorized)
			return
		}
		handler(w, req, ps)
	})
}
