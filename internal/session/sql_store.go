package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xfcbe/fake-news-detection/internal/model"
)

// SQLStore keeps session entries in the session_entries table.
type SQLStore struct {
	db      *gorm.DB
	profile string
}

func NewSQLStore(db *gorm.DB, profile string) *SQLStore {
	return &SQLStore{db: db, profile: profile}
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, error) {
	var entry model.SessionEntry
	err := s.db.WithContext(ctx).
		Where("profile = ? AND entry_key = ?", s.profile, key).
		Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("query session entry failed: %w", err)
	}
	return entry.Value, nil
}

func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	entry := model.SessionEntry{
		Profile:   s.profile,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"})}).
		Create(&entry).Error
	if err != nil {
		return fmt.Errorf("upsert session entry failed: %w", err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).
		Where("profile = ? AND entry_key IN ?", s.profile, keys).
		Delete(&model.SessionEntry{}).Error
	if err != nil {
		return fmt.Errorf("delete session entries failed: %w", err)
	}
	return nil
}
