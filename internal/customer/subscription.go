// SPDX-License-Identifier: Apache-2.0
package customer

import (
	"fmt"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/upper/db/v4"
)

func newID() string {
	return uuid.NewString()
}

// Subscription is one browser/device's push registration: the vendor's
// delivery endpoint plus the key material payloads get encrypted with.
type Subscription struct {
	ID         string `db:"id,omitempty" json:"id"`
	CustomerID string `db:"customer" json:"customer_id"`
	Endpoint   string `db:"endpoint" json:"endpoint"`
	P256dh     string `db:"p256dh" json:"p256dh"`
	Auth       string `db:"auth" json:"auth"`
	Created    string `db:"created" json:"-"`
}

func (s *Subscription) Store(sess db.Session) db.Store {
	return sess.Collection("subscription")
}

// Validate rejects rows that cannot possibly receive an encrypted payload.
func (s *Subscription) Validate() error {
	if s.Endpoint == "" {
		return fmt.Errorf("subscription is missing its endpoint")
	}
	if s.P256dh == "" || s.Auth == "" {
		return fmt.Errorf("subscription %s is missing key material", s.Endpoint)
	}
	return nil
}

func (s *Subscription) AsWebPush() *webpush.Subscription {
	return &webpush.Subscription{
		Endpoint: s.Endpoint,
		Keys: webpush.Keys{
			P256dh: s.P256dh,
			Auth:   s.Auth,
		},
	}
}

// UpsertSubscription writes a subscription keyed by its endpoint: a second
// device registration for the same endpoint overwrites key material and
// owner instead of growing a duplicate row.
func UpsertSubscription(sess db.Session, sub *Subscription) error {
	if err := sub.Validate(); err != nil {
		return err
	}
	if sub.CustomerID == "" {
		return fmt.Errorf("subscription for %s has no owner", sub.Endpoint)
	}

	if sub.ID == "" {
		sub.ID = newID()
	}
	if sub.Created == "" {
		sub.Created = time.Now().UTC().Format(time.RFC3339)
	}

	_, err := sess.SQL().Exec(
		`INSERT INTO subscription (id, customer, endpoint, p256dh, auth, created)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(endpoint) DO UPDATE SET
		   customer = excluded.customer,
		   p256dh = excluded.p256dh,
		   auth = excluded.auth`,
		sub.ID, sub.CustomerID, sub.Endpoint, sub.P256dh, sub.Auth, sub.Created,
	)
	return err
}

// SubscriptionsFor returns every valid subscription owned by a customer.
// Rows missing key material are skipped and logged rather than handed to
// the dispatcher.
func SubscriptionsFor(sess db.Session, customerID string) ([]*Subscription, error) {
	rows := []*Subscription{}
	err := sess.Collection("subscription").Find(db.Cond{"customer": customerID}).All(&rows)
	if err != nil {
		return nil, err
	}
	return validSubscriptions(rows), nil
}

// AdminSubscriptions resolves administrator customers to their subscription
// rows. Zero administrators resolves to zero rows, not an error.
func AdminSubscriptions(sess db.Session) ([]*Subscription, error) {
	rows := []*Subscription{}
	q := sess.SQL().
		Select("s.*").
		From("subscription AS s").
		Join("customer AS c").On("s.customer = c.id").
		Where(db.Cond{"c.is_admin": true})

	if err := q.All(&rows); err != nil {
		return nil, err
	}
	return validSubscriptions(rows), nil
}

func DeleteSubscription(sess db.Session, id string) error {
	return sess.Collection("subscription").Find(db.Cond{"id": id}).Delete()
}

func validSubscriptions(rows []*Subscription) []*Subscription {
	valid := rows[:0]
	for _, row := range rows {
		if err := row.Validate(); err != nil {
			logrus.Errorf("dropping unusable subscription row %s: %s", row.ID, err)
			continue
		}
		valid = append(valid, row)
	}
	return valid
}

var _ db.Record = &Subscription{}
