package kvstore

import (
	"time"

	"gorm.io/datatypes"
)

// Entry is one JSON document per (owner, key).
type Entry struct {
	Owner     string         `gorm:"primaryKey;size:64" json:"owner"`
	Key       string         `gorm:"column:entry_key;primaryKey;size:128" json:"key"`
	Value     datatypes.JSON `json:"value"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (Entry) TableName() string {
	return "kv_entries"
}
