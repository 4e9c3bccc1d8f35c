// SPDX-License-Identifier: Apache-2.0
package push

import (
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/donnajuce/acougue/internal/customer"
)

// Sender performs the delivery of one encrypted payload to one vendor
// endpoint, reporting the vendor's status code.
type Sender interface {
	Send(payload []byte, sub *customer.Subscription) (int, error)
}

type webpushSender struct {
	cfg    *Config
	client *http.Client
}

func (ws *webpushSender) Send(payload []byte, sub *customer.Subscription) (int, error) {
	opts := &webpush.Options{
		Subscriber:      ws.cfg.Subscriber,
		VAPIDPublicKey:  ws.cfg.Key.Public,
		VAPIDPrivateKey: ws.cfg.Key.Private,
		TTL:             ws.cfg.TTL,
	}
	if ws.client != nil {
		opts.HTTPClient = ws.client
	}

	resp, err := webpush.SendNotification(payload, sub.AsWebPush(), opts)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	return resp.StatusCode, nil
}

// Recorder is a Sender that keeps every payload in memory, answering with a
// per-endpoint canned status. Used by tests and the dry-run CLI path.
type Recorder struct {
	Status   map[string]int
	Fail     error
	Payloads [][]byte
	Sent     []string
}

func (r *Recorder) Send(payload []byte, sub *customer.Subscription) (int, error) {
	if r.Fail != nil {
		return 0, r.Fail
	}

	r.Payloads = append(r.Payloads, payload)
	r.Sent = append(r.Sent, sub.Endpoint)

	if status, ok := r.Status[sub.Endpoint]; ok {
		return status, nil
	}
	return http.StatusCreated, nil
}

var _ Sender = &webpushSender{}
var _ Sender = &Recorder{}
