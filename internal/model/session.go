package model

import "time"

// SessionEntry is one persisted session value in the mysql-backed store.
// "key" is reserved in MySQL, hence the entry_key column.
type SessionEntry struct {
	Profile   string    `gorm:"size:64;primaryKey"`
	Key       string    `gorm:"column:entry_key;size:64;primaryKey"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (SessionEntry) TableName() string {
	return "session_entries"
}
