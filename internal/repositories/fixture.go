package repositories

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"taskdesk/internal/models"
)

//go:embed fixture.json
var defaultFixture []byte

// Fixture は json-server の db.json と同じ形のシードデータです。
type Fixture struct {
	Users []models.User `json:"users"`
	Todo  []models.Todo `json:"todo"`
	Auth  *models.Admin `json:"auth"`
}

// LoadFixture は path の JSON を読み込みます。path が空なら組み込みのフィクスチャを使います。
func LoadFixture(path string) (*Fixture, error) {
	data := defaultFixture
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("could not read fixture %s: %w", path, err)
		}
		data = b
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("could not parse fixture: %w", err)
	}
	return &f, nil
}

// Seed は空のストアにフィクスチャを投入します。ユーザーが1件でもあれば何もしません。
// 管理者レコードは SQL ストアの Migrate 側で投入します。
func Seed(ctx context.Context, s Store, f *Fixture) error {
	existing, err := s.ListUsers(ctx, UserFilter{})
	if err != nil {
		return fmt.Errorf("could not check existing users: %w", err)
	}
	if len(existing) > 0 {
		log.Printf("Store already has %d users, skipping seed", len(existing))
		return nil
	}

	// フィクスチャの assignedUser は元のIDを指しているので、採番後のIDに付け替える
	idMap := make(map[int]int, len(f.Users))
	for _, u := range f.Users {
		oldID := u.ID
		created, err := s.CreateUser(ctx, &u)
		if err != nil {
			return fmt.Errorf("could not seed user %s: %w", u.Email, err)
		}
		idMap[oldID] = created.ID
	}
	for _, t := range f.Todo {
		if newID, ok := idMap[t.AssignedUser]; ok {
			t.AssignedUser = newID
		}
		if _, err := s.CreateTodo(ctx, &t); err != nil {
			return fmt.Errorf("could not seed todo %q: %w", t.Title, err)
		}
	}
	log.Printf("Seeded %d users and %d todos", len(f.Users), len(f.Todo))
	return nil
}
