package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/luxe-storefront/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQLBackend stores slots in the storage_slots table.
type SQLBackend struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSQLBackend(db *gorm.DB) *SQLBackend {
	return &SQLBackend{db: db, now: time.Now}
}

func (s *SQLBackend) Get(ctx context.Context, key string) (string, bool, error) {
	var slot models.StorageSlot
	err := s.db.WithContext(ctx).Where("slot_key = ?", key).Take(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("select slot %q: %w", key, err)
	}
	return slot.Value, true, nil
}

func (s *SQLBackend) Set(ctx context.Context, key, value string) error {
	slot := models.StorageSlot{Key: key, Value: value, UpdatedAt: s.now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"slot_value", "updated_at"}),
	}).Create(&slot).Error
	if err != nil {
		return fmt.Errorf("upsert slot %q: %w", key, err)
	}
	return nil
}

func (s *SQLBackend) Delete(ctx context.Context, key string) error {
	err := s.db.WithContext(ctx).Where("slot_key = ?", key).Delete(&models.StorageSlot{}).Error
	if err != nil {
		return fmt.Errorf("delete slot %q: %w", key, err)
	}
	return nil
}
