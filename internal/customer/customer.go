// SPDX-License-Identifier: Apache-2.0
package customer

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/donnajuce/acougue/internal/constants"
	"github.com/donnajuce/acougue/internal/errors"
	"github.com/upper/db/v4"
	"golang.org/x/crypto/bcrypt"
)

func FromContext(req *http.Request) *Customer {
	c := req.Context().Value(constants.ContextCustomer)

	if c != nil {
		return c.(*Customer)
	}
	return nil
}

type Customer struct {
	ID       string `db:"id,omitempty" json:"id"`
	Name     string `db:"name" json:"name"`
	Phone    string `db:"phone" json:"phone"`
	Password string `db:"password" json:"password"`
	IsAdmin  bool   `db:"is_admin" json:"is_admin"`
	Created  string `db:"created" json:"created_at"`
}

func (c *Customer) Store(sess db.Session) db.Store {
	return sess.Collection("customer")
}

func (c *Customer) MarshalJSON() ([]byte, error) {
	// prevent calling ourselves by subtyping
	type alias Customer
	x := alias(*c)
	x.Password = ""
	return json.Marshal(x)
}

func (c *Customer) SetPassword(plain string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	c.Password = string(hashed)
	return nil
}

func (c *Customer) Login(password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(c.Password), []byte(password)); err != nil {
		reason := fmt.Sprintf("incorrect password for %s", c.Phone)
		return &InvalidCredentials{Status: http.StatusForbidden, Reason: reason}
	}

	return nil
}

// Save inserts a new customer, stamping id and creation time.
func Save(sess db.Session, c *Customer) error {
	if c.ID == "" {
		c.ID = newID()
	}
	if c.Created == "" {
		c.Created = time.Now().UTC().Format(time.RFC3339)
	}
	_, err := sess.Collection("customer").Insert(c)
	return err
}

func ByID(sess db.Session, id string) (*Customer, error) {
	c := &Customer{}
	if err := sess.Get(c, db.Cond{"id": id}); err != nil {
		return nil, err
	}
	return c, nil
}

func ByPhone(sess db.Session, phone string) (*Customer, error) {
	c := &Customer{}
	if err := sess.Get(c, db.Cond{"phone": phone}); err != nil {
		return nil, err
	}
	return c, nil
}

func All(sess db.Session) ([]*Customer, error) {
	list := []*Customer{}
	err := sess.Collection("customer").Find().All(&list)
	return list, err
}

type InvalidCredentials struct {
	Status int
	Reason string
}

func (err *InvalidCredentials) Error() string {
	return "Usuário ou senha desconhecidos"
}

func (err *InvalidCredentials) Code() int {
	return err.Status
}

var _ db.Record = &Customer{}
var _ json.Marshaler = &Customer{}
var _ errors.HTTPError = &InvalidCredentials{}
