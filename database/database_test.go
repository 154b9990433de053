package database

import (
	"path/filepath"
	"testing"

	"vereinskasse/config"
	"vereinskasse/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestOpen_SQLiteAndMigrate(t *testing.T) {
	db, err := Open(config.DatabaseConfig{
		Driver:   "sqlite",
		Path:     filepath.Join(t.TempDir(), "club.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	for _, table := range []string{"members", "costs", "notifications"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	// 迁移可重复执行
	require.NoError(t, Migrate(db))

	member := models.Member{Name: "Anna", Email: "anna@example.com", Password: "x"}
	require.NoError(t, db.Create(&member).Error)
	assert.NotZero(t, member.ID)

	// email 唯一
	dup := models.Member{Name: "Anna 2", Email: "anna@example.com", Password: "y"}
	assert.Error(t, db.Create(&dup).Error)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "oracle")
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logger.Silent, parseLogLevel("silent"))
	assert.Equal(t, logger.Warn, parseLogLevel(""))
	assert.Equal(t, logger.Info, parseLogLevel("info"))
}
