// SPDX-License-Identifier: Apache-2.0
package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/donnajuce/acougue/internal/constants"
	"github.com/donnajuce/acougue/internal/customer"
	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/upper/db/v4"
)

type Manager struct {
	db   db.Session
	sess *scs.SessionManager
}

func NewManager(sess db.Session) *Manager {
	sessionManager := scs.New()
	sessionManager.Lifetime = 30 * 24 * time.Hour
	sessionManager.Cookie.Name = constants.SessionCookieName
	return &Manager{
		db:   sess,
		sess: sessionManager,
	}
}

func (am *Manager) Route(router http.Handler) http.Handler {
	return am.sess.LoadAndSave(router)
}

func (am *Manager) requestAuth(w http.ResponseWriter, status int) {
	http.Error(w, http.StatusText(status), status)
}

// NewSession logs a customer in with phone and password.
func (am *Manager) NewSession(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
	if err := req.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	phone := req.FormValue("phone")
	password := req.FormValue("password")

	c, err := customer.ByPhone(am.db, phone)
	if err != nil {
		cerr := &customer.InvalidCredentials{Status: http.StatusForbidden, Reason: fmt.Sprintf("customer not found for phone %s (%s)", phone, err)}
		logrus.Error(cerr.Reason)
		http.Error(w, cerr.Error(), cerr.Code())
		return
	}

	if err := c.Login(password); err != nil {
		code := http.StatusBadRequest
		status := http.StatusText(code)
		if cerr, ok := err.(*customer.InvalidCredentials); ok {
			code = cerr.Code()
			status = cerr.Error()
			logrus.Error(cerr.Reason)
		}
		http.Error(w, status, code)
		return
	}

	if err := am.sess.RenewToken(req.Context()); err != nil {
		http.Error(w, fmt.Sprintf("Could not create a session: %s", err), http.StatusInternalServerError)
		return
	}
	am.sess.Put(req.Context(), constants.SessionCustomerKey, c.ID)

	logrus.Infof("Created session for %s", c.Phone)

	writeJSON(w, c)
}

// Signup registers a new customer account and logs it in.
func (am *Manager) Signup(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
	if err := req.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	name := req.FormValue("name")
	phone := req.FormValue("phone")
	password := req.FormValue("password")
	if name == "" || phone == "" || password == "" {
		http.Error(w, "name, phone and password are required", http.StatusBadRequest)
		return
	}

	if _, err := customer.ByPhone(am.db, phone); err == nil {
		http.Error(w, "phone already registered", http.StatusConflict)
		return
	}

	c := &customer.Customer{Name: name, Phone: phone}
	if err := c.SetPassword(password); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if err := customer.Save(am.db, c); err != nil {
		logrus.Errorf("could not create customer: %s", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if err := am.sess.RenewToken(req.Context()); err != nil {
		http.Error(w, fmt.Sprintf("Could not create a session: %s", err), http.StatusInternalServerError)
		return
	}
	am.sess.Put(req.Context(), constants.SessionCustomerKey, c.ID)

	logrus.Infof("Created customer %s", c.Phone)

	writeJSON(w, c)
}

// DestroySession logs the current customer out.
func (am *Manager) DestroySession(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
	if err := am.sess.Destroy(req.Context()); err != nil {
		logrus.Errorf("could not destroy session: %s", err)
	}
	w.WriteHeader(http.StatusNoContent)
}
