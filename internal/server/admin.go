// SPDX-License-Identifier: Apache-2.0
package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/donnajuce/acougue/internal/customer"
	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/upper/db/v4"
)

func sendError(w http.ResponseWriter, err error) {
	logrus.Error(err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, data any) {
	res, err := json.Marshal(data)
	if err != nil {
		sendError(w, err)
		return
	}

	w.Header().Add("content-type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(res) // nolint:errcheck
}

func listCustomers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	customers, err := customer.All(_db)
	if err != nil {
		sendError(w, err)
		return
	}

	writeJSON(w, customers)
}

func customerFromRequest(r *http.Request, c *customer.Customer) (*customer.Customer, error) {
	r.ParseForm() // nolint:errcheck
	if c == nil {
		c = &customer.Customer{}
	}

	isAdmin, err := strconv.ParseBool(r.FormValue("is_admin"))
	if err != nil {
		return nil, err
	}

	c.Name = r.FormValue("name")
	c.Phone = r.FormValue("phone")
	c.IsAdmin = isAdmin

	if r.FormValue("password") != "" {
		if err := c.SetPassword(r.FormValue("password")); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func createCustomer(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	c, err := customerFromRequest(r, nil)
	if err != nil {
		sendError(w, err)
		return
	}

	if err := customer.Save(_db, c); err != nil {
		sendError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func getCustomer(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	c, err := customer.ByID(_db, params.ByName("id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	writeJSON(w, c)
}

func updateCustomer(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	c, err := customer.ByID(_db, params.ByName("id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	c, err = customerFromRequest(r, c)
	if err != nil {
		sendError(w, err)
		return
	}

	if err := _db.Collection("customer").UpdateReturning(c); err != nil {
		sendError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func deleteCustomer(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	err := _db.Collection("customer").Find(db.Cond{"id": params.ByName("id")}).Delete()
	if err != nil {
		sendError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
