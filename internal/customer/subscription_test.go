package customer_test

import (
	"testing"

	"github.com/donnajuce/acougue/internal/customer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upper/db/v4"
)

func saveCustomer(t *testing.T, sess db.Session, phone string, isAdmin bool) *customer.Customer {
	t.Helper()

	c := &customer.Customer{Name: "Cliente", Phone: phone, Password: "x", IsAdmin: isAdmin}
	require.NoError(t, customer.Save(sess, c))
	return c
}

func TestUpsertConflictsOnEndpoint(t *testing.T) {
	sess := testDB(t)
	first := saveCustomer(t, sess, "5511999990000", false)
	second := saveCustomer(t, sess, "5511999990001", false)

	endpoint := "https://push.example.com/device"
	require.NoError(t, customer.UpsertSubscription(sess, &customer.Subscription{
		CustomerID: first.ID,
		Endpoint:   endpoint,
		P256dh:     "old-p256dh",
		Auth:       "old-auth",
	}))

	// same endpoint again, fresh keys and a new owner
	require.NoError(t, customer.UpsertSubscription(sess, &customer.Subscription{
		CustomerID: second.ID,
		Endpoint:   endpoint,
		P256dh:     "new-p256dh",
		Auth:       "new-auth",
	}))

	rows := []*customer.Subscription{}
	require.NoError(t, sess.Collection("subscription").Find().All(&rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "new-p256dh", rows[0].P256dh)
	assert.Equal(t, "new-auth", rows[0].Auth)
	assert.Equal(t, second.ID, rows[0].CustomerID)
}

func TestUpsertRejectsIncompleteRows(t *testing.T) {
	sess := testDB(t)
	c := saveCustomer(t, sess, "5511999990000", false)

	assert.Error(t, customer.UpsertSubscription(sess, &customer.Subscription{
		CustomerID: c.ID,
		Endpoint:   "https://push.example.com/device",
		P256dh:     "p256dh",
		// no auth
	}))

	assert.Error(t, customer.UpsertSubscription(sess, &customer.Subscription{
		CustomerID: c.ID,
		P256dh:     "p256dh",
		Auth:       "auth",
		// no endpoint
	}))

	assert.Error(t, customer.UpsertSubscription(sess, &customer.Subscription{
		// no owner
		Endpoint: "https://push.example.com/device",
		P256dh:   "p256dh",
		Auth:     "auth",
	}))

	count, err := sess.Collection("subscription").Find().Count()
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestSubscriptionsForSkipsUnusableRows(t *testing.T) {
	sess := testDB(t)
	c := saveCustomer(t, sess, "5511999990000", false)

	require.NoError(t, customer.UpsertSubscription(sess, &customer.Subscription{
		CustomerID: c.ID,
		Endpoint:   "https://push.example.com/ok",
		P256dh:     "p256dh",
		Auth:       "auth",
	}))

	// a row that snuck in without key material never reaches the dispatcher
	_, err := sess.SQL().Exec(
		`INSERT INTO subscription (id, customer, endpoint, p256dh, auth, created)
		 VALUES ('legacy', ?, 'https://push.example.com/legacy', '', '', '2024-01-01T00:00:00Z')`,
		c.ID,
	)
	require.NoError(t, err)

	subs, err := customer.SubscriptionsFor(sess, c.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "https://push.example.com/ok", subs[0].Endpoint)
}

func TestAdminSubscriptions(t *testing.T) {
	sess := testDB(t)

	subs, err := customer.AdminSubscriptions(sess)
	require.NoError(t, err)
	assert.Empty(t, subs)

	shopper := saveCustomer(t, sess, "5511999990000", false)
	admin := saveCustomer(t, sess, "5511999990001", true)

	require.NoError(t, customer.UpsertSubscription(sess, &customer.Subscription{
		CustomerID: shopper.ID,
		Endpoint:   "https://push.example.com/shopper",
		P256dh:     "p",
		Auth:       "a",
	}))
	require.NoError(t, customer.UpsertSubscription(sess, &customer.Subscription{
		CustomerID: admin.ID,
		Endpoint:   "https://push.example.com/admin",
		P256dh:     "p",
		Auth:       "a",
	}))

	subs, err = customer.AdminSubscriptions(sess)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "https://push.example.com/admin", subs[0].Endpoint)
}

func TestDeleteSubscription(t *testing.T) {
	sess := testDB(t)
	c := saveCustomer(t, sess, "5511999990000", false)

	sub := &customer.Subscription{
		CustomerID: c.ID,
		Endpoint:   "https://push.example.com/device",
		P256dh:     "p",
		Auth:       "a",
	}
	require.NoError(t, customer.UpsertSubscription(sess, sub))
	require.NoError(t, customer.DeleteSubscription(sess, sub.ID))

	count, err := sess.Collection("subscription").Find().Count()
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}
