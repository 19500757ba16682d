package store

import (
	"time"

	"github.com/hrygo/studybuddy/internal/profile"
	"github.com/hrygo/studybuddy/store/cache"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver

	// Cache settings
	cacheConfig cache.Config

	// Caches
	systemSettingCache *cache.Cache
	userCache          *cache.Cache
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	cacheConfig := cache.Config{
		DefaultTTL:      10 * time.Minute,
		CleanupInterval: 5 * time.Minute,
		MaxItems:        1000,
	}

	return &Store{
		driver:             driver,
		profile:            profile,
		cacheConfig:        cacheConfig,
		systemSettingCache: cache.New(cacheConfig),
		userCache:          cache.New(cacheConfig),
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

// Profile returns the profile the store was opened with.
func (s *Store) Profile() *profile.Profile {
	return s.profile
}

// SupportsVectorSearch reports whether semantic search over saved contents is available.
func (s *Store) SupportsVectorSearch() bool {
	return s.profile != nil && s.profile.Driver == "postgres"
}

func (s *Store) Close() error {
	// Stop all cache cleanup goroutines
	s.systemSettingCache.Close()
	s.userCache.Close()

	return s.driver.Close()
}
