package main

import (
	"context"
	"fmt"
	"log"

	"taskdesk/internal/config"
	"taskdesk/internal/database"
	"taskdesk/internal/mockserver"
	"taskdesk/internal/repositories"
)

func main() {
	cfg := config.Load("3000")

	fixture, err := repositories.LoadFixture(cfg.FixturePath)
	if err != nil {
		log.Fatalf("Failed to load fixture: %v", err)
	}

	store, err := openStore(cfg, fixture)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.StoreDriver, err)
	}
	defer store.Close()

	r := mockserver.NewRouter(store, cfg.AllowOrigins)

	log.Printf("Mock server (%s store) listening on port %s...", cfg.StoreDriver, cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

// openStore は STORE_DRIVER に応じたストアを用意します。SQL ストアはテーブル作成とシード投入まで行います。
func openStore(cfg *config.Config, fixture *repositories.Fixture) (repositories.Store, error) {
	var dsn string
	switch cfg.StoreDriver {
	case "memory":
		return repositories.NewMemoryStore(fixture), nil
	case "mysql":
		dsn = database.MySQLDSN(cfg)
	case "postgres":
		dsn = cfg.PostgresURL
		if dsn == "" {
			return nil, fmt.Errorf("POSTGRES_URL environment variable not set")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	if err := database.Migrate(cfg.StoreDriver, dsn); err != nil {
		return nil, err
	}
	db, err := database.InitDB(cfg.StoreDriver, dsn)
	if err != nil {
		return nil, err
	}
	if err := database.SeedAdmin(db, cfg.StoreDriver, fixture.Auth); err != nil {
		db.Close()
		return nil, err
	}

	var store repositories.Store
	if cfg.StoreDriver == "mysql" {
		store = repositories.NewMySQLStore(db)
	} else {
		store = repositories.NewPostgresStore(db)
	}
	if err := repositories.Seed(context.Background(), store, fixture); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}
