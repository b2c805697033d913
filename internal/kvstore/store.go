package kvstore

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Store interface {
	// Get decodes the stored value into out. found is false when the key is absent.
	Get(ctx context.Context, owner, key string, out any) (found bool, err error)
	Set(ctx context.Context, owner, key string, value any) error
	Delete(ctx context.Context, owner, key string) error
}

type store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &store{db: db}
}

func (s *store) Get(ctx context.Context, owner, key string, out any) (bool, error) {
	var entry Entry
	res := s.db.WithContext(ctx).
		Where("owner = ? AND entry_key = ?", owner, key).
		Limit(1).
		Find(&entry)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	if err := json.Unmarshal(entry.Value, out); err != nil {
		return true, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (s *store) Set(ctx context.Context, owner, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	entry := Entry{Owner: owner, Key: key, Value: datatypes.JSON(raw)}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner"}, {Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

func (s *store) Delete(ctx context.Context, owner, key string) error {
	return s.db.WithContext(ctx).Delete(&Entry{}, "owner = ? AND entry_key = ?", owner, key).Error
}
