package models

import "time"

// StorageSlot is one durable key-value slot.
type StorageSlot struct {
	Key       string    `gorm:"column:slot_key;primaryKey"`
	Value     string    `gorm:"column:slot_value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (StorageSlot) TableName() string { return "storage_slots" }
