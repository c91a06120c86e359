package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/codr1/Padelicious/internal/db"
	dbgen "github.com/codr1/Padelicious/internal/db/generated"
)

// NewTestDB creates a temporary SQLite database with migrations applied.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(dbPath)
	if err != nil {
		t.Fatalf("create test db: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})

	return database
}

// SeedCourt inserts an active court and returns its ID.
func SeedCourt(t *testing.T, database *db.DB, name string) int64 {
	t.Helper()

	court, err := database.Queries.CreateCourt(context.Background(), name)
	if err != nil {
		t.Fatalf("insert court %q: %v", name, err)
	}
	return court.ID
}

// SeedApartments registers apartments by code with no contact phone.
func SeedApartments(t *testing.T, database *db.DB, codes ...string) {
	t.Helper()

	for _, code := range codes {
		if _, err := database.Queries.CreateApartment(context.Background(), dbgen.CreateApartmentParams{
			Code:        code,
			DisplayName: "Apartment " + code,
		}); err != nil {
			t.Fatalf("insert apartment %q: %v", code, err)
		}
	}
}
