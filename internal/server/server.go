// SPDX-License-Identifier: Apache-2.0
package server

import (
	"embed"
	"io/fs"
	"log"
	"net/http"

	"github.com/donnajuce/acougue/internal/auth"
	"github.com/donnajuce/acougue/internal/push"
	"github.com/go-chi/cors"
	"github.com/julienschmidt/httprouter"
	"github.com/upper/db/v4"
	"github.com/upper/db/v4/adapter/sqlite"
)

//go:embed login.html
var loginTemplate []byte

//go:embed index.html
var indexTemplate []byte

//go:embed admin.html
var adminTemplate []byte

//go:embed static/*
var staticFiles embed.FS

type HTTPConfig struct {
	Listen int    `yaml:"listen"`
	Domain string `yaml:"domain"`
}

type Config struct {
	Name string      `yaml:"name"`
	HTTP *HTTPConfig `yaml:"http"`

	DB string `yaml:"db"`
}

func ConfigDefaults(dbPath string) *Config {
	return &Config{
		DB: dbPath,
		HTTP: &HTTPConfig{
			Listen: 8000,
			Domain: "localhost",
		},
	}
}

var _db db.Session
var _push *push.Notifier
var _pushCfg *push.Config

func Initialize(config *Config) (http.Handler, error) {
	router := httprouter.New()

	conn := sqlite.ConnectionURL{
		Database: config.DB,
		Options: map[string]string{
			"_journal":      "WAL",
			"_busy_timeout": "5000",
		},
	}
	var err error
	_db, err = sqlite.Open(conn)
	if err != nil {
		return nil, err
	}

	_pushCfg, err = push.ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	_push = push.NewNotifier(_pushCfg, _db)

	am := auth.NewManager(_db)

	serverRoot, err := fs.Sub(staticFiles, "static")
	if err != nil {
		log.Fatal(err)
	}

	router.ServeFiles("/static/*filepath", http.FS(serverRoot))
	// the delivery agent must be served from the root so its scope covers
	// the whole app
	router.GET("/sw.js", serveWorker)

	router.GET("/login", renderTemplate(loginTemplate))
	router.GET("/", renderTemplate(indexTemplate))
	router.GET("/admin", am.RequireAdmin(renderTemplate(adminTemplate)))

	router.POST("/api/signup", am.Signup)
	router.POST("/api/login", am.NewSession)
	router.POST("/api/logout", am.DestroySession)

	router.GET("/api/push/key", getPushKey)
	router.POST("/api/push/subscriptions", am.RequireAuth(saveSubscription))
	router.POST("/api/push/send", am.RequireAdmin(sendPush))

	router.GET("/api/notifications", am.RequireAuth(listNotifications))
	router.POST("/api/notifications/read", am.RequireAuth(readAllNotifications))
	router.POST("/api/notifications/:id/read", am.RequireAuth(readNotification))

	router.POST("/api/events/order-status", am.RequireAdmin(orderStatusEvent))
	router.POST("/api/events/order-placed", am.RequireAuth(orderPlacedEvent))
	router.POST("/api/events/promotion", am.RequireAdmin(promotionEvent))

	router.GET("/api/customers", am.RequireAdmin(listCustomers))
	router.GET("/api/customers/:id", am.RequireAdmin(getCustomer))
	router.PUT("/api/customers", am.RequireAdmin(createCustomer))
	router.POST("/api/customers/:id", am.RequireAdmin(updateCustomer))
	router.DELETE("/api/customers/:id", am.RequireAdmin(deleteCustomer))

	withCORS := cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	})

	return withCORS(am.Route(router)), nil
}

func renderTemplate(template []byte) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		w.Write(template) // nolint:errcheck
	}
}

func serveWorker(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	worker, err := staticFiles.ReadFile("static/sw.js")
	if err != nil {
		sendError(w, err)
		return
	}
	w.Header().Set("content-type", "application/javascript")
	w.Write(worker) // nolint:errcheck
}
