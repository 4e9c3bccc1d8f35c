// SPDX-License-Identifier: Apache-2.0
package main

import (
	"os"

	"git.rob.mx/nidito/chinampa"
	"git.rob.mx/nidito/chinampa/pkg/runtime"
	"github.com/donnajuce/acougue/cmd/admin"
	"github.com/donnajuce/acougue/cmd/db"
	"github.com/donnajuce/acougue/cmd/server"
	"github.com/donnajuce/acougue/cmd/vapid"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableLevelTruncation: true,
		DisableTimestamp:       true,
		ForceColors:            runtime.ColorEnabled(),
	})

	if runtime.DebugEnabled() {
		logrus.SetLevel(logrus.DebugLevel)
		logrus.Debug("Debugging enabled")
	}

	cfg := chinampa.Config{
		Name:        "acougue",
		Version:     "0.0.0",
		Summary:     "runs the Donna Juce storefront",
		Description: "Customer accounts, in-app notifications and web push for the catalog.",
	}

	chinampa.Register(
		admin.CustomerAddCommand,
		admin.NotifyCommand,
		server.ServerCommand,
		db.MigrationsCommand,
		vapid.GenerateCommand,
	)

	if err := chinampa.Execute(cfg); err != nil {
		logrus.Errorf("total failure: %s", err)
		os.Exit(2)
	}
}
