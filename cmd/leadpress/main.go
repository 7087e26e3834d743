// Command leadpress runs the blog + lead-capture site server.
package main

import (
	"log"

	"github.com/nomadic/leadpress"
	"github.com/nomadic/leadpress/toast"
)

func main() {
	cfg := leadpress.LoadConfig()
	if cfg.SessionSecret == "" {
		log.Fatal("SESSION_SECRET is required")
	}

	app := leadpress.New(cfg)
	defer app.Close()

	// Surface handler notifications in the server log.
	unsubscribe := app.Events.Subscribe(func(t toast.Toast) {
		log.Printf("[%s] %s", t.Type, t.Message)
	})
	defer unsubscribe()

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
