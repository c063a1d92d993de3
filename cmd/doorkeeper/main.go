package main

import (
	"errors"
	"log"
	"time"

	"github.com/aussiebroadwan/doorkeeper/internal/bot/app"
)

func main() {
	cfg := app.LoadConfig()

	// Supervisor loop: run one session at a time. A clean signal shutdown
	// exits; a fatal session fault is logged and the whole bot restarts
	// after a short pause. Misconfiguration is not retryable.
	for {
		application, err := app.New(cfg)
		if err != nil {
			if errors.Is(err, app.ErrMissingToken) {
				log.Fatalf("failed to initialize application: %v", err)
			}
			log.Printf("failed to initialize application: %v", err)
		} else if err = application.Run(); err == nil {
			return
		}

		log.Printf("session ended with error: %v; restarting in %s", err, cfg.RestartDelay)
		time.Sleep(cfg.RestartDelay)
	}
}
