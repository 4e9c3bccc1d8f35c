// SPDX-License-Identifier: Apache-2.0

// Package notify turns business events into notifications. Everything here
// is best-effort: the triggering action already succeeded, so failures are
// logged and swallowed, never returned to whoever placed the order or
// created the promotion.
package notify

import (
	"fmt"

	"github.com/donnajuce/acougue/internal/customer"
	"github.com/donnajuce/acougue/internal/push"
	"github.com/sirupsen/logrus"
	"github.com/upper/db/v4"
)

// Dispatcher is the slice of push.Notifier these triggers need.
type Dispatcher interface {
	Dispatch(target push.Target, payload push.Payload) (*push.Receipt, error)
}

const (
	ordersLink = "/meus-pedidos"

	promoTitle = "🔥 Nova Promoção!"
)

// OrderStatusChanged records an inbox entry and pushes it to the order's
// customer. Status copy mirrors what the storefront shows for each state.
func OrderStatusChanged(sess db.Session, dispatcher Dispatcher, customerID, status, deliveryType string) {
	title := "Atualização do Pedido"
	body := "Seu pedido foi atualizado."

	switch status {
	case "confirmed":
		title = "Pedido Confirmado!"
		body = "Seu pedido foi confirmado e já vamos começar a preparar."
	case "ready":
		if deliveryType == "delivery" {
			title = "Pedido saiu para entrega!"
			body = "Seu pedido saiu para entrega."
		} else {
			title = "Pedido pronto para retirada!"
			body = "Você já pode vir buscar seu pedido."
		}
	case "delivered":
		title = "Pedido Entregue"
		body = "Obrigado pela preferência!"
	}

	ToCustomer(sess, dispatcher, customerID, push.Payload{Title: title, Body: body, Link: ordersLink})
}

// PromotionStarted announces a promotion to every customer, one at a time.
func PromotionStarted(sess db.Session, dispatcher Dispatcher, promoName string) {
	body := fmt.Sprintf("A promoção %q começou! Confira os preços especiais.", promoName)
	Broadcast(sess, dispatcher, promoTitle, body, "/")
}

// Broadcast fans a message out to every customer: inbox row plus push, per
// customer, serially.
func Broadcast(sess db.Session, dispatcher Dispatcher, title, body, link string) {
	customers, err := customer.All(sess)
	if err != nil {
		logrus.Errorf("could not list customers for broadcast: %s", err)
		return
	}

	for _, c := range customers {
		ToCustomer(sess, dispatcher, c.ID, push.Payload{Title: title, Body: body, Link: link})
	}
}

// NewOrderPlaced tells the administrators a customer checked out.
func NewOrderPlaced(sess db.Session, dispatcher Dispatcher, customerName string) {
	payload := push.Payload{
		Title: "Novo pedido recebido",
		Body:  fmt.Sprintf("%s acabou de fazer um pedido.", customerName),
		Link:  "/admin",
	}
	if _, err := dispatcher.Dispatch(push.Target{ToAdmins: true}, payload); err != nil {
		logrus.Errorf("could not push to admins: %s", err)
	}
}

// ToCustomer records the inbox row and pushes to one customer's devices,
// logging failures instead of returning them.
func ToCustomer(sess db.Session, dispatcher Dispatcher, customerID string, payload push.Payload) {
	entry := &customer.Notification{
		CustomerID: customerID,
		Title:      payload.Title,
		Body:       payload.Body,
		Link:       payload.Link,
	}
	if err := customer.SaveNotification(sess, entry); err != nil {
		logrus.Errorf("could not save notification for %s: %s", customerID, err)
	}

	if _, err := dispatcher.Dispatch(push.Target{CustomerID: customerID}, payload); err != nil {
		logrus.Errorf("could not push to %s: %s", customerID, err)
	}
}
