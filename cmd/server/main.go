// SPDX-License-Identifier: Apache-2.0
package server

import (
	"fmt"
	"net/http"
	"os"

	"git.rob.mx/nidito/chinampa/pkg/command"
	"github.com/donnajuce/acougue/internal/server"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var ServerCommand = &command.Command{
	Path:        []string{"server"},
	Summary:     "Runs the http server",
	Description: "",
	Options: command.Options{
		"config": {
			Type:    "string",
			Default: "./config.yaml",
		},
		"db": {
			Type:    "string",
			Default: "./acougue.db",
		},
	},
	Action: func(cmd *command.Command) error {
		config := cmd.Options["config"].ToValue().(string)
		db := cmd.Options["db"].ToValue().(string)

		data, err := os.ReadFile(config)
		if err != nil {
			return fmt.Errorf("could not read config file: %w", err)
		}

		cfg := server.ConfigDefaults(db)

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("could not unserialize yaml at %s: %w", config, err)
		}

		router, err := server.Initialize(cfg)
		if err != nil {
			return err
		}

		logrus.Infof("Listening on port %d", cfg.HTTP.Listen)
		return http.ListenAndServe(fmt.Sprintf(":%d", cfg.HTTP.Listen), router)
	},
}
