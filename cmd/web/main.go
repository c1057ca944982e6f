package main

import (
	"log"

	"taskdesk/internal/apiclient"
	"taskdesk/internal/config"
	"taskdesk/internal/routes"
)

func main() {
	cfg := config.Load("8080")
	if cfg.SessionSecret == "" {
		log.Fatal("SESSION_SECRET environment variable not set")
	}

	client := apiclient.New(cfg.MockServerBaseURL, cfg.HTTPTimeout)
	r := routes.SetupRouter(cfg, client)

	// サーバー起動
	log.Printf("Server listening on port %s (mock server: %s)...", cfg.Port, cfg.MockServerBaseURL)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
