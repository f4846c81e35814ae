package model

import "time"

// KeyValue is one persisted collection, stored as a JSON document under its key.
type KeyValue struct {
	Key       string    `gorm:"column:name;primaryKey;size:64"`
	Value     []byte    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
