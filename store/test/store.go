package test

import (
	"context"
	"os"
	"testing"

	"github.com/hrygo/studybuddy/internal/profile"
	"github.com/hrygo/studybuddy/internal/util"
	"github.com/hrygo/studybuddy/store"
	"github.com/hrygo/studybuddy/store/db"
)

// NewTestingStore opens a migrated store on the driver named by DRIVER (sqlite by default).
func NewTestingStore(ctx context.Context, t *testing.T) *store.Store {
	t.Helper()
	profile := getTestingProfile(t)
	dbDriver, err := db.NewDBDriver(profile)
	if err != nil {
		t.Fatalf("failed to create db driver: %v", err)
	}

	ts := store.New(dbDriver, profile)
	if err := ts.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	t.Cleanup(func() {
		ts.Close()
	})
	return ts
}

func getTestingProfile(t *testing.T) *profile.Profile {
	driver := getDriverFromEnv()
	p := &profile.Profile{
		Mode:   "dev",
		Data:   t.TempDir(),
		Driver: driver,
	}
	if driver == "postgres" {
		p.DSN = GetPostgresDSN(t)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("failed to validate profile: %v", err)
	}
	return p
}

func getDriverFromEnv() string {
	driver := os.Getenv("DRIVER")
	if driver == "" {
		driver = "sqlite"
	}
	return driver
}

func createTestingUser(ctx context.Context, ts *store.Store, username string) (*store.User, error) {
	return ts.CreateUser(ctx, &store.User{
		UID:          util.GenUID(),
		Username:     username,
		Role:         store.RoleUser,
		Nickname:     username,
		PasswordHash: "hash",
	})
}
