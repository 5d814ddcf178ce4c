package models

// Counter holds the last allocated ID for one entity type.
// One row per entity name, incremented atomically on every allocation.
type Counter struct {
	Name     string `gorm:"primarykey;type:varchar(50)"`
	Sequence int64  `gorm:"not null;default:0"`
}
