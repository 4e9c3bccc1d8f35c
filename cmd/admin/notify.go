// SPDX-License-Identifier: Apache-2.0
package admin

import (
	"git.rob.mx/nidito/chinampa/pkg/command"
	"github.com/donnajuce/acougue/internal/notify"
	"github.com/donnajuce/acougue/internal/push"
	"github.com/sirupsen/logrus"
)

var NotifyCommand = &command.Command{
	Path:        []string{"admin", "notify"},
	Summary:     "Sends a notification to customers",
	Description: "Records an in-app notification and pushes it, to one customer or to everybody. VAPID keys come from `WEB_PUSH_PUBLIC_KEY` and `WEB_PUSH_PRIVATE_KEY`.",
	Arguments: command.Arguments{
		{
			Name:        "title",
			Description: "the notification's title",
			Required:    true,
		},
		{
			Name:        "body",
			Description: "the notification's message",
			Required:    true,
		},
	},
	Options: command.Options{
		"config": {
			Type:        "string",
			Default:     "./config.yaml",
			Description: "the config to read from",
		},
		"db": {
			Type:        "string",
			Default:     "./acougue.db",
			Description: "the database to operate on",
		},
		"customer": {
			Type:        "string",
			Default:     "",
			Description: "a customer id to notify; every customer when empty",
		},
		"link": {
			Type:        "string",
			Default:     "",
			Description: "the path the notification opens",
		},
	},
	Action: func(cmd *command.Command) error {
		config := cmd.Options["config"].ToValue().(string)
		dbPath := cmd.Options["db"].ToValue().(string)
		customerID := cmd.Options["customer"].ToValue().(string)
		link := cmd.Options["link"].ToValue().(string)

		title := cmd.Arguments[0].ToString()
		body := cmd.Arguments[1].ToString()

		sess, err := openDB(config, dbPath)
		if err != nil {
			return err
		}
		defer sess.Close()

		pushCfg, err := push.ConfigFromEnv()
		if err != nil {
			return err
		}
		notifier := push.NewNotifier(pushCfg, sess)

		if customerID != "" {
			notify.ToCustomer(sess, notifier, customerID, push.Payload{Title: title, Body: body, Link: link})
		} else {
			notify.Broadcast(sess, notifier, title, body, link)
		}

		logrus.Info("notification queued")
		return nil
	},
}
