// SPDX-License-Identifier: Apache-2.0
package admin

import (
	"fmt"
	"os"

	"git.rob.mx/nidito/chinampa/pkg/command"
	"github.com/donnajuce/acougue/internal/customer"
	"github.com/donnajuce/acougue/internal/server"
	"github.com/sirupsen/logrus"
	"github.com/upper/db/v4"
	"github.com/upper/db/v4/adapter/sqlite"
	"gopkg.in/yaml.v3"
)

func openDB(configPath, dbPath string) (db.Session, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}

	cfg := server.ConfigDefaults(dbPath)

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("could not unserialize yaml at %s: %w", configPath, err)
	}

	sess, err := sqlite.Open(sqlite.ConnectionURL{
		Database: cfg.DB,
		Options: map[string]string{
			"_journal":      "WAL",
			"_busy_timeout": "5000",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("could not open connection to db: %s", err)
	}
	return sess, nil
}

var CustomerAddCommand = &command.Command{
	Path:        []string{"admin", "customer", "create"},
	Summary:     "Create a customer account",
	Description: "",
	Arguments: command.Arguments{
		{
			Name:        "phone",
			Description: "the phone number the customer logs in with",
			Required:    true,
		},
		{
			Name:        "name",
			Description: "the customer's name",
			Required:    true,
		},
		{
			Name:        "password",
			Description: "the password to set for this customer",
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
		"admin": {
			Type:        "bool",
			Description: "give this customer access to the back-office",
		},
	},
	Action: func(cmd *command.Command) error {
		config := cmd.Options["config"].ToValue().(string)
		dbPath := cmd.Options["db"].ToValue().(string)
		admin := cmd.Options["admin"].ToValue().(bool)

		sess, err := openDB(config, dbPath)
		if err != nil {
			return err
		}
		defer sess.Close()

		c := &customer.Customer{
			Phone:   cmd.Arguments[0].ToString(),
			Name:    cmd.Arguments[1].ToString(),
			IsAdmin: admin,
		}

		if err := c.SetPassword(cmd.Arguments[2].ToString()); err != nil {
			return fmt.Errorf("could not hash password: %s", err)
		}

		if err := customer.Save(sess, c); err != nil {
			return fmt.Errorf("failed to insert: %s", err)
		}

		logrus.Infof("Created customer %s with ID: %s", c.Name, c.ID)
		return nil
	},
}
