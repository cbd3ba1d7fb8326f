package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type uniqueRow struct {
	ID   uint   `gorm:"primaryKey"`
	Code string `gorm:"uniqueIndex"`
}

func openTestStore(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Open(Config{Path: filepath.Join(t.TempDir(), "store.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func TestOpen_Ping(t *testing.T) {
	db := openTestStore(t)

	assert.NoError(t, Ping(context.Background(), db))
}

func TestPing_NilHandle(t *testing.T) {
	assert.ErrorIs(t, Ping(context.Background(), nil), ErrNotInitialized)
}

func TestClose_NilHandle(t *testing.T) {
	assert.NoError(t, Close(nil))
}

func TestOpen_TranslatesDuplicateKey(t *testing.T) {
	db := openTestStore(t)
	require.NoError(t, db.AutoMigrate(&uniqueRow{}))

	require.NoError(t, db.Create(&uniqueRow{Code: "sofa"}).Error)

	err := db.Create(&uniqueRow{Code: "sofa"}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestOpen_RegistersUnicodeLower(t *testing.T) {
	db := openTestStore(t)

	var lowered string
	require.NoError(t, db.Raw("SELECT unicode_lower(?)", "SOFÁ ÉTAGÈRE").Scan(&lowered).Error)
	assert.Equal(t, "sofá étagère", lowered)
}
