// Package storage is the client-local durable store: a plain key→string
// table in a sqlite file, standing in for the browser's localStorage.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Record struct {
	Key   string `gorm:"primaryKey"`
	Value string `gorm:"not null"`
}

func (Record) TableName() string {
	return "local_store"
}

type Store struct {
	DB *gorm.DB
}

// Open opens (or creates) the sqlite file at path. ":memory:" gives a
// throwaway store.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	// one connection keeps ":memory:" stores coherent and sidesteps
	// SQLITE_BUSY on the file-backed store
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("migrate local store: %w", err)
	}
	return &Store{DB: db}, nil
}

// Get returns the value under key and whether the key was present.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var rec Record
	if err := s.DB.WithContext(ctx).Where("key = ?", key).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read %q: %w", key, err)
	}
	return rec.Value, true, nil
}

// Set writes value under key, overwriting any previous value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	rec := Record{Key: key, Value: value}
	err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.DB.WithContext(ctx).Where("key = ?", key).Delete(&Record{}).Error; err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
