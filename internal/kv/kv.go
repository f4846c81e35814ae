// Package kv persists JSON documents by key. Reads never fail: a missing or
// unreadable document falls back to the caller's default.
package kv

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"status-pulse-backend/internal/model"
)

// Store reads and writes model.KeyValue rows.
type Store struct {
	db *gorm.DB
}

// New creates a key/value store on top of db.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Load returns the value saved under key, or def if there is none, it is a JSON
// null, or it cannot be decoded.
func Load[T any](ctx context.Context, s *Store, key string, def T) T {
	var row model.KeyValue
	if err := s.db.WithContext(ctx).Where("name = ?", key).First(&row).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Warning: could not load %q, using defaults: %v", key, err)
		}
		return def
	}

	if bytes.Equal(bytes.TrimSpace(row.Value), []byte("null")) {
		log.Printf("Warning: stored value for %q is null, using defaults", key)
		return def
	}

	var v T
	if err := json.Unmarshal(row.Value, &v); err != nil {
		log.Printf("Warning: stored value for %q is corrupt, using defaults: %v", key, err)
		return def
	}
	return v
}

// Save overwrites the value stored under key.
func (s *Store) Save(ctx context.Context, key string, value any) error {
	return s.SaveAll(ctx, map[string]any{key: value})
}

// SaveAll writes several keys in one transaction; either all are stored or none.
func (s *Store) SaveAll(ctx context.Context, values map[string]any) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	now := time.Now().UTC()
	rows := make([]model.KeyValue, 0, len(keys))
	for _, k := range keys {
		payload, err := json.Marshal(values[k])
		if err != nil {
			return fmt.Errorf("failed to encode %q: %w", k, err)
		}
		rows = append(rows, model.KeyValue{Key: k, Value: payload, UpdatedAt: now})
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range rows {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&rows[i]).Error; err != nil {
				return fmt.Errorf("failed to save %q: %w", rows[i].Key, err)
			}
		}
		return nil
	})
}
