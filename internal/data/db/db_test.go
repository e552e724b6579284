package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/infinitetutor-backend/internal/platform/logger"
)

func TestDialectorFor(t *testing.T) {
	cases := map[string]string{
		"postgres://u:p@localhost:5432/db":   DialectPostgres,
		"postgresql://u:p@localhost:5432/db": DialectPostgres,
		"sqlite://tmp.db":                    DialectSQLite,
		"":                                   DialectSQLite,
		"file::memory:?cache=shared":         DialectSQLite,
	}
	for url, want := range cases {
		got, d := dialectorFor(url)
		assert.Equal(t, want, got, url)
		assert.NotNil(t, d, url)
	}
}

func TestParseGormLevel(t *testing.T) {
	assert.Equal(t, gormLogger.Silent, parseGormLevel("silent"))
	assert.Equal(t, gormLogger.Info, parseGormLevel(" INFO "))
	assert.Equal(t, gormLogger.Warn, parseGormLevel(""))
}

func TestOpenSQLiteAndMigrate(t *testing.T) {
	svc, err := Open(logger.NewNop(), Config{URL: "file::memory:", LogLevel: "silent"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })

	require.NoError(t, svc.AutoMigrate())
	for _, table := range []string{"user_courses", "lessons", "user_notes", "user_activity"} {
		assert.True(t, svc.DB().Migrator().HasTable(table), table)
	}
}
