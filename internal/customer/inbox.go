// SPDX-License-Identifier: Apache-2.0
package customer

import (
	"time"

	"github.com/upper/db/v4"
)

// Notification is the persisted, in-app copy of a message; push delivery is
// best-effort, this row is what the customer sees in their inbox either way.
type Notification struct {
	ID         string `db:"id,omitempty" json:"id"`
	CustomerID string `db:"customer" json:"customer_id"`
	Title      string `db:"title" json:"title"`
	Body       string `db:"body" json:"body"`
	Link       string `db:"link" json:"link,omitempty"`
	Read       bool   `db:"is_read" json:"is_read"`
	Created    string `db:"created" json:"created_at"`
}

func (n *Notification) Store(sess db.Session) db.Store {
	return sess.Collection("notification")
}

func SaveNotification(sess db.Session, n *Notification) error {
	if n.ID == "" {
		n.ID = newID()
	}
	if n.Created == "" {
		n.Created = time.Now().UTC().Format(time.RFC3339)
	}
	_, err := sess.Collection("notification").Insert(n)
	return err
}

// Inbox lists a customer's notifications, newest first.
func Inbox(sess db.Session, customerID string) ([]*Notification, error) {
	list := []*Notification{}
	err := sess.Collection("notification").
		Find(db.Cond{"customer": customerID}).
		OrderBy("-created").
		All(&list)
	return list, err
}

func MarkRead(sess db.Session, customerID, id string) error {
	return sess.Collection("notification").
		Find(db.Cond{"id": id, "customer": customerID}).
		Update(map[string]any{"is_read": true})
}

func MarkAllRead(sess db.Session, customerID string) error {
	return sess.Collection("notification").
		Find(db.Cond{"customer": customerID, "is_read": false}).
		Update(map[string]any{"is_read": true})
}

var _ db.Record = &Notification{}
