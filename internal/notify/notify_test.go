package notify_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/donnajuce/acougue/internal/customer"
	"github.com/donnajuce/acougue/internal/notify"
	"github.com/donnajuce/acougue/internal/push"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upper/db/v4"
	"github.com/upper/db/v4/adapter/sqlite"
)

const testSchema = `
CREATE TABLE customer (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  phone TEXT NOT NULL UNIQUE,
  password TEXT NOT NULL,
  is_admin BOOLEAN NOT NULL DEFAULT false,
  created TEXT NOT NULL
);
CREATE TABLE subscription (
  id TEXT PRIMARY KEY,
  customer TEXT NOT NULL,
  endpoint TEXT NOT NULL UNIQUE,
  p256dh TEXT NOT NULL,
  auth TEXT NOT NULL,
  created TEXT NOT NULL
);
CREATE TABLE notification (
  id TEXT PRIMARY KEY,
  customer TEXT NOT NULL,
  title TEXT NOT NULL,
  body TEXT NOT NULL,
  link TEXT NOT NULL DEFAULT '',
  is_read BOOLEAN NOT NULL DEFAULT false,
  created TEXT NOT NULL
);
`

func testDB(t *testing.T) db.Session {
	t.Helper()

	sess, err := sqlite.Open(sqlite.ConnectionURL{
		Database: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { sess.Close() })

	_, err = sess.SQL().Exec(testSchema)
	require.NoError(t, err)

	return sess
}

// --- stub dispatcher ---

type stubDispatcher struct {
	targets  []push.Target
	payloads []push.Payload
	err      error
}

func (s *stubDispatcher) Dispatch(target push.Target, payload push.Payload) (*push.Receipt, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.targets = append(s.targets, target)
	s.payloads = append(s.payloads, payload)
	return &push.Receipt{Sent: 1, Total: 1}, nil
}

// --- tests ---

func TestOrderStatusCopy(t *testing.T) {
	cases := []struct {
		status, deliveryType string
		title, body          string
	}{
		{"confirmed", "pickup", "Pedido Confirmado!", "Seu pedido foi confirmado e já vamos começar a preparar."},
		{"ready", "delivery", "Pedido saiu para entrega!", "Seu pedido saiu para entrega."},
		{"ready", "pickup", "Pedido pronto para retirada!", "Você já pode vir buscar seu pedido."},
		{"delivered", "delivery", "Pedido Entregue", "Obrigado pela preferência!"},
		{"preparing", "pickup", "Atualização do Pedido", "Seu pedido foi atualizado."},
	}

	for _, tc := range cases {
		sess := testDB(t)
		c := &customer.Customer{Name: "Maria", Phone: "5511999990000", Password: "x"}
		require.NoError(t, customer.Save(sess, c))

		dispatcher := &stubDispatcher{}
		notify.OrderStatusChanged(sess, dispatcher, c.ID, tc.status, tc.deliveryType)

		require.Len(t, dispatcher.payloads, 1, "status %s", tc.status)
		assert.Equal(t, tc.title, dispatcher.payloads[0].Title)
		assert.Equal(t, tc.body, dispatcher.payloads[0].Body)
		assert.Equal(t, "/meus-pedidos", dispatcher.payloads[0].Link)
		assert.Equal(t, c.ID, dispatcher.targets[0].CustomerID)

		inbox, err := customer.Inbox(sess, c.ID)
		require.NoError(t, err)
		require.Len(t, inbox, 1)
		assert.Equal(t, tc.title, inbox[0].Title)
	}
}

func TestPromotionBroadcast(t *testing.T) {
	sess := testDB(t)

	phones := []string{"5511999990000", "5511999990001", "5511999990002"}
	for _, phone := range phones {
		require.NoError(t, customer.Save(sess, &customer.Customer{Name: "Cliente", Phone: phone, Password: "x"}))
	}

	dispatcher := &stubDispatcher{}
	notify.PromotionStarted(sess, dispatcher, "Natal 2025")

	require.Len(t, dispatcher.targets, len(phones))
	for i, payload := range dispatcher.payloads {
		assert.Equal(t, "🔥 Nova Promoção!", payload.Title)
		assert.Contains(t, payload.Body, "Natal 2025")
		assert.Equal(t, "/", payload.Link)
		assert.NotEmpty(t, dispatcher.targets[i].CustomerID)
	}

	for _, target := range dispatcher.targets {
		inbox, err := customer.Inbox(sess, target.CustomerID)
		require.NoError(t, err)
		assert.Len(t, inbox, 1)
	}
}

func TestDispatchFailureIsSwallowed(t *testing.T) {
	sess := testDB(t)
	c := &customer.Customer{Name: "Maria", Phone: "5511999990000", Password: "x"}
	require.NoError(t, customer.Save(sess, c))

	dispatcher := &stubDispatcher{err: errors.New("vendor down")}

	// must not panic or surface the error; the inbox row still lands
	notify.OrderStatusChanged(sess, dispatcher, c.ID, "confirmed", "pickup")

	inbox, err := customer.Inbox(sess, c.ID)
	require.NoError(t, err)
	assert.Len(t, inbox, 1)
}

func TestNewOrderPlacedTargetsAdmins(t *testing.T) {
	sess := testDB(t)

	dispatcher := &stubDispatcher{}
	notify.NewOrderPlaced(sess, dispatcher, "Maria")

	require.Len(t, dispatcher.targets, 1)
	assert.True(t, dispatcher.targets[0].ToAdmins)
	assert.Contains(t, dispatcher.payloads[0].Body, "Maria")
}
