package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"taskdesk/internal/models"
)

//go:embed migrations
var migrationFS embed.FS

// Migrate は driver 用の埋め込みマイグレーションを適用します。
// 専用の接続を開き、終わったら閉じます。適用済みなら何もしません。
func Migrate(driver, dsn string) error {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return fmt.Errorf("failed to open %s for migration: %w", driver, err)
	}

	var dbDriver migratedb.Driver
	switch driver {
	case "mysql":
		dbDriver, err = migratemysql.WithInstance(db, &migratemysql.Config{})
	case "postgres":
		dbDriver, err = postgres.WithInstance(db, &postgres.Config{})
	default:
		db.Close()
		return fmt.Errorf("unsupported driver %q", driver)
	}
	if err != nil {
		db.Close()
		return fmt.Errorf("could not start %s migration driver: %w", driver, err)
	}

	src, err := iofs.New(migrationFS, "migrations/"+driver)
	if err != nil {
		dbDriver.Close()
		return fmt.Errorf("failed to read migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driver, dbDriver)
	if err != nil {
		src.Close()
		dbDriver.Close()
		return fmt.Errorf("migration failed to start: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run up migrations: %w", err)
	}
	log.Printf("Migrations applied for %s", driver)
	return nil
}

// SeedAdmin は admins が空なら admin を1件投入します。
func SeedAdmin(db *sql.DB, driver string, admin *models.Admin) error {
	if admin == nil {
		return nil
	}
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM admins").Scan(&count); err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		return nil
	}
	insert := "INSERT INTO admins (username, password) VALUES (?, ?)"
	if driver == "postgres" {
		insert = "INSERT INTO admins (username, password) VALUES ($1, $2)"
	}
	if _, err := db.Exec(insert, admin.Username, admin.Password); err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	log.Printf("Seeded admin user %q", admin.Username)
	return nil
}
