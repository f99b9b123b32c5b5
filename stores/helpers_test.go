package stores

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gavel/models"
)

// setupTestDB 建立一個獨立的記憶體資料庫
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Discard,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, models.AutoMigrate(db))
	return db
}

func newTestIdentityStore(db *gorm.DB) *IdentityStore {
	return NewIdentityStore(db, WithBcryptCost(bcrypt.MinCost))
}

func mustRegister(t *testing.T, s *IdentityStore, username string) *models.User {
	t.Helper()
	user, err := s.Register(context.Background(), username, username+"@x.com", "pw-"+username)
	require.NoError(t, err)
	return user
}
