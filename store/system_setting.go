package store

import "context"

// SystemSettingSchemaVersion holds the applied database schema version.
const SystemSettingSchemaVersion = "SCHEMA_VERSION"

type SystemSetting struct {
	Name        string
	Value       string
	Description string
}

type FindSystemSetting struct {
	Name *string
}

func (s *Store) UpsertSystemSetting(ctx context.Context, upsert *SystemSetting) (*SystemSetting, error) {
	setting, err := s.driver.UpsertSystemSetting(ctx, upsert)
	if err != nil {
		return nil, err
	}
	s.systemSettingCache.Set(ctx, setting.Name, setting)
	return setting, nil
}

func (s *Store) ListSystemSettings(ctx context.Context, find *FindSystemSetting) ([]*SystemSetting, error) {
	list, err := s.driver.ListSystemSettings(ctx, find)
	if err != nil {
		return nil, err
	}
	for _, setting := range list {
		s.systemSettingCache.Set(ctx, setting.Name, setting)
	}
	return list, nil
}

// GetSystemSetting returns the named setting, or nil when it has never been written.
func (s *Store) GetSystemSetting(ctx context.Context, name string) (*SystemSetting, error) {
	if cached, ok := s.systemSettingCache.Get(ctx, name); ok {
		if setting, ok := cached.(*SystemSetting); ok {
			return setting, nil
		}
	}

	list, err := s.ListSystemSettings(ctx, &FindSystemSetting{Name: &name})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}
