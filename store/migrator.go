package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/hrygo/studybuddy/internal/util"
	"github.com/hrygo/studybuddy/internal/version"
)

// Migration flow:
//  1. preMigrate applies LATEST.sql to an uninitialized database and records the schema version.
//  2. prod mode applies incremental files under migration/{driver}/{minor}/NN__description.sql
//     whose version lies between the recorded and the current schema version.
//  3. demo mode seeds a demo account with sample study data.

//go:embed migration
var migrationFS embed.FS

const (
	// MigrateFileNameSplit separates the patch number from the description, e.g. "01__add_index.sql".
	MigrateFileNameSplit = "__"
	// LatestSchemaFileName is the full schema applied to fresh installations.
	LatestSchemaFileName = "LATEST.sql"

	defaultSchemaVersion = "0.0.0"

	modeProd = "prod"
	modeDemo = "demo"

	// DemoUsername and DemoPassword are the credentials of the account seeded in demo mode.
	DemoUsername = "demo"
	DemoPassword = "secret"
)

func getSchemaVersionOrDefault(schemaVersion string) string {
	if schemaVersion == "" {
		return defaultSchemaVersion
	}
	return schemaVersion
}

func isVersionEmpty(schemaVersion string) bool {
	return schemaVersion == "" || schemaVersion == defaultSchemaVersion
}

// shouldApplyMigration reports whether fileVersion lies in (currentDBVersion, targetVersion].
func shouldApplyMigration(fileVersion, currentDBVersion, targetVersion string) bool {
	currentDBVersionSafe := getSchemaVersionOrDefault(currentDBVersion)
	return version.IsVersionGreaterThan(fileVersion, currentDBVersionSafe) &&
		version.IsVersionGreaterOrEqualThan(targetVersion, fileVersion)
}

func validateMigrationFileName(filename string) error {
	parts := strings.Split(filename, MigrateFileNameSplit)
	if len(parts) < 2 {
		return errors.Errorf("invalid migration filename format (missing %s): %s", MigrateFileNameSplit, filename)
	}
	if _, err := strconv.Atoi(parts[0]); err != nil {
		return errors.Errorf("migration filename must start with a number: %s", filename)
	}
	return nil
}

// Migrate migrates the database schema to the latest version.
// It also seeds the database with a demo account if in demo mode.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.preMigrate(ctx); err != nil {
		return errors.Wrap(err, "failed to pre-migrate")
	}

	switch s.profile.Mode {
	case modeProd:
		databaseVersion, err := s.getDatabaseSchemaVersion(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to get database schema version")
		}
		currentSchemaVersion, err := s.GetCurrentSchemaVersion()
		if err != nil {
			return errors.Wrap(err, "failed to get current schema version")
		}
		if !isVersionEmpty(databaseVersion) && version.IsVersionGreaterThan(databaseVersion, currentSchemaVersion) {
			slog.Error("cannot downgrade schema version",
				slog.String("databaseVersion", databaseVersion),
				slog.String("currentVersion", currentSchemaVersion),
			)
			return errors.Errorf("cannot downgrade schema version from %s to %s", databaseVersion, currentSchemaVersion)
		}
		if isVersionEmpty(databaseVersion) || version.IsVersionGreaterThan(currentSchemaVersion, databaseVersion) {
			if err := s.applyMigrations(ctx, databaseVersion, currentSchemaVersion); err != nil {
				return errors.Wrap(err, "failed to apply migrations")
			}
		}
	case modeDemo:
		if err := s.seed(ctx); err != nil {
			return errors.Wrap(err, "failed to seed")
		}
	default:
	}
	return nil
}

// applyMigrations runs every pending migration file in one transaction.
func (s *Store) applyMigrations(ctx context.Context, currentSchemaVersion, targetSchemaVersion string) error {
	filePaths, err := fs.Glob(migrationFS, fmt.Sprintf("%s*/*.sql", s.getMigrationBasePath()))
	if err != nil {
		return errors.Wrap(err, "failed to read migration files")
	}
	sort.Strings(filePaths)

	tx, err := s.driver.GetDB().BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to start transaction")
	}
	defer tx.Rollback()

	slog.Info("start migration",
		slog.String("currentSchemaVersion", getSchemaVersionOrDefault(currentSchemaVersion)),
		slog.String("targetSchemaVersion", targetSchemaVersion))

	migrationsApplied := 0
	for _, filePath := range filePaths {
		fileSchemaVersion, err := s.getSchemaVersionOfMigrateScript(filePath)
		if err != nil {
			return errors.Wrap(err, "failed to get schema version of migrate script")
		}
		if !shouldApplyMigration(fileSchemaVersion, currentSchemaVersion, targetSchemaVersion) {
			continue
		}
		if err := validateMigrationFileName(filepath.Base(filePath)); err != nil {
			slog.Warn("migration file has invalid name but will be applied", slog.String("file", filePath), slog.String("error", err.Error()))
		}

		slog.Info("applying migration", slog.String("file", filePath), slog.String("version", fileSchemaVersion))
		bytes, err := migrationFS.ReadFile(filePath)
		if err != nil {
			return errors.Wrapf(err, "failed to read migration file: %s", filePath)
		}
		if err := s.execute(ctx, tx, string(bytes)); err != nil {
			return errors.Wrapf(err, "failed to execute migration %s", filePath)
		}
		migrationsApplied++
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit migration transaction")
	}
	slog.Info("migration completed", slog.Int("migrationsApplied", migrationsApplied))

	if err := s.updateCurrentSchemaVersion(ctx, targetSchemaVersion); err != nil {
		return errors.Wrap(err, "failed to update current schema version")
	}
	return nil
}

// preMigrate applies the latest schema to a database that has not been initialized yet.
func (s *Store) preMigrate(ctx context.Context) error {
	initialized, err := s.driver.IsInitialized(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to check if database is initialized")
	}
	if initialized {
		return nil
	}

	filePath := s.getMigrationBasePath() + LatestSchemaFileName
	bytes, err := migrationFS.ReadFile(filePath)
	if err != nil {
		return errors.Errorf("failed to read latest schema file: %s", err)
	}
	tx, err := s.driver.GetDB().BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to start transaction")
	}
	defer tx.Rollback()

	slog.Info("initializing new database with latest schema", slog.String("file", filePath))
	if err := s.execute(ctx, tx, string(bytes)); err != nil {
		return errors.Errorf("failed to execute SQL file %s, err %s", filePath, err)
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}

	schemaVersion, err := s.GetCurrentSchemaVersion()
	if err != nil {
		return errors.Wrap(err, "failed to get current schema version")
	}
	slog.Info("database initialized successfully", slog.String("schemaVersion", schemaVersion))
	if err := s.updateCurrentSchemaVersion(ctx, schemaVersion); err != nil {
		return errors.Wrap(err, "failed to update current schema version")
	}
	return nil
}

func (s *Store) getMigrationBasePath() string {
	return fmt.Sprintf("migration/%s/", s.profile.Driver)
}

// seed creates the demo account with a little history so the dashboard has something to show.
// It is a no-op once the demo user exists.
func (s *Store) seed(ctx context.Context) error {
	username := DemoUsername
	existing, err := s.GetUser(ctx, &FindUser{Username: &username})
	if err != nil {
		return errors.Wrap(err, "failed to find demo user")
	}
	if existing != nil {
		return nil
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "failed to hash demo password")
	}
	user, err := s.CreateUser(ctx, &User{
		UID:          util.GenUID(),
		Username:     DemoUsername,
		Nickname:     "Demo Student",
		Role:         RoleUser,
		PasswordHash: string(passwordHash),
	})
	if err != nil {
		return errors.Wrap(err, "failed to create demo user")
	}

	now := time.Now().Unix()
	if _, err := s.CreateStudySession(ctx, &StudySession{
		UID:       util.GenUID(),
		CreatorID: user.ID,
		Type:      "explanation",
		Subject:   "mathematics",
		Topic:     "Derivatives",
		Duration:  45,
		Status:    SessionCompleted,
	}); err != nil {
		return errors.Wrap(err, "failed to seed study session")
	}
	if _, err := s.CreateQuizResult(ctx, &QuizResult{
		UID:            util.GenUID(),
		CreatorID:      user.ID,
		Subject:        "mathematics",
		Topic:          "Derivatives",
		TotalQuestions: 10,
		CorrectAnswers: 8,
		Score:          80,
		Difficulty:     "medium",
		TimeSpent:      420,
	}); err != nil {
		return errors.Wrap(err, "failed to seed quiz result")
	}
	if _, err := s.UpsertUserProgress(ctx, &UserProgress{
		UserID:         user.ID,
		Subject:        "mathematics",
		TotalStudyTime: 45,
		QuizzesTaken:   1,
		AverageScore:   80,
		Streak:         1,
		LastStudyTs:    now,
	}); err != nil {
		return errors.Wrap(err, "failed to seed user progress")
	}

	slog.Info("seeded demo account", slog.String("username", DemoUsername))
	return nil
}

// GetCurrentSchemaVersion returns the schema version this binary expects.
func (s *Store) GetCurrentSchemaVersion() (string, error) {
	currentVersion := version.GetCurrentVersion(s.profile.Mode)
	minorVersion := version.GetMinorVersion(currentVersion)
	filePaths, err := fs.Glob(migrationFS, fmt.Sprintf("%s%s/*.sql", s.getMigrationBasePath(), minorVersion))
	if err != nil {
		return "", errors.Wrap(err, "failed to read migration files")
	}

	sort.Strings(filePaths)
	if len(filePaths) == 0 {
		return fmt.Sprintf("%s.0", minorVersion), nil
	}
	return s.getSchemaVersionOfMigrateScript(filePaths[len(filePaths)-1])
}

// getSchemaVersionOfMigrateScript maps "migration/<driver>/1.1/02__x.sql" to "1.1.3".
func (s *Store) getSchemaVersionOfMigrateScript(filePath string) (string, error) {
	if strings.HasSuffix(filePath, LatestSchemaFileName) {
		return s.GetCurrentSchemaVersion()
	}

	elements := strings.Split(filepath.ToSlash(filePath), "/")
	if len(elements) < 2 {
		return "", errors.Errorf("invalid file path: %s", filePath)
	}
	minorVersion := elements[len(elements)-2]
	rawPatchVersion := strings.Split(elements[len(elements)-1], MigrateFileNameSplit)[0]
	patchVersion, err := strconv.Atoi(rawPatchVersion)
	if err != nil {
		return "", errors.Wrapf(err, "failed to convert patch version to int: %s", rawPatchVersion)
	}
	return fmt.Sprintf("%s.%d", minorVersion, patchVersion+1), nil
}

func (s *Store) getDatabaseSchemaVersion(ctx context.Context) (string, error) {
	setting, err := s.GetSystemSetting(ctx, SystemSettingSchemaVersion)
	if err != nil {
		return "", err
	}
	if setting == nil {
		return "", nil
	}
	return setting.Value, nil
}

func (s *Store) updateCurrentSchemaVersion(ctx context.Context, schemaVersion string) error {
	if _, err := s.UpsertSystemSetting(ctx, &SystemSetting{
		Name:        SystemSettingSchemaVersion,
		Value:       schemaVersion,
		Description: "database schema version",
	}); err != nil {
		return errors.Wrap(err, "failed to upsert schema version")
	}
	return nil
}

// execute runs stmt inside tx. lib/pq rejects multi-statement Exec calls, so PostgreSQL scripts are split first.
func (s *Store) execute(ctx context.Context, tx *sql.Tx, stmt string) error {
	if s.profile.Driver == "postgres" {
		for i, single := range splitSQL(stmt) {
			if _, err := tx.ExecContext(ctx, single); err != nil {
				return errors.Wrapf(err, "failed to execute statement %d: %s", i+1, single)
			}
		}
		return nil
	}
	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return errors.Wrap(err, "failed to execute statement")
	}
	return nil
}

// splitSQL splits a script into statements on top-level semicolons.
// Semicolons inside single quotes, $tag$ bodies and comments do not split.
func splitSQL(script string) []string {
	var statements []string
	var current strings.Builder

	inSingleQuote := false
	inBlockComment := false
	dollarTag := ""

	flush := func() {
		if stmt := strings.TrimSpace(current.String()); stmt != "" {
			statements = append(statements, stmt)
		}
		current.Reset()
	}

	for i := 0; i < len(script); i++ {
		ch := script[i]
		switch {
		case inBlockComment:
			if strings.HasPrefix(script[i:], "*/") {
				inBlockComment = false
				i++
			}
			continue
		case dollarTag != "":
			if strings.HasPrefix(script[i:], dollarTag) {
				current.WriteString(dollarTag)
				i += len(dollarTag) - 1
				dollarTag = ""
				continue
			}
		case inSingleQuote:
			if ch == '\'' {
				inSingleQuote = false
			}
		case ch == '\'':
			inSingleQuote = true
		case strings.HasPrefix(script[i:], "--"):
			for i < len(script) && script[i] != '\n' {
				i++
			}
			current.WriteByte('\n')
			continue
		case strings.HasPrefix(script[i:], "/*"):
			inBlockComment = true
			i++
			continue
		case ch == '$':
			if end := strings.IndexByte(script[i+1:], '$'); end >= 0 && isDollarTag(script[i+1:i+1+end]) {
				dollarTag = script[i : i+end+2]
				current.WriteString(dollarTag)
				i += len(dollarTag) - 1
				continue
			}
		case ch == ';':
			current.WriteByte(ch)
			flush()
			continue
		}
		current.WriteByte(ch)
	}
	flush()
	return statements
}

func isDollarTag(tag string) bool {
	for _, r := range tag {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}
