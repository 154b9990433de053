package service

import (
	"path/filepath"
	"testing"

	"vereinskasse/config"
	"vereinskasse/database"
	"vereinskasse/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{
		Driver:   "sqlite",
		Path:     filepath.Join(t.TempDir(), "club.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func createMember(t *testing.T, db *gorm.DB, name, email string) models.Member {
	t.Helper()
	m := models.Member{Name: name, Email: email, Password: "hash"}
	require.NoError(t, db.Create(&m).Error)
	return m
}

func identityOf(m models.Member) Identity {
	return Identity{MemberID: m.ID, Name: m.Name}
}

func testCatalog() *models.CategoryCatalog {
	return models.NewCategoryCatalog(1.5, 2.5)
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}
