package repository

import (
	"github.com/mnakayama/task-manager-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCounterRepository is a GORM implementation of CounterRepository
type GormCounterRepository struct {
	db *gorm.DB
}

// NewCounterRepository creates a new CounterRepository
func NewCounterRepository(db *gorm.DB) CounterRepository {
	return &GormCounterRepository{db: db}
}

// NextID atomically increments and returns the sequence for name. The
// increment runs as a single relative UPDATE inside a transaction, so the
// store's row-level atomicity guarantees distinct values for concurrent
// callers; the read that follows observes the transaction's own write.
func (r *GormCounterRepository) NextID(name string) (int64, error) {
	var next int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Counter{Name: name, Sequence: 0}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Counter{}).
			Where("name = ?", name).
			UpdateColumn("sequence", gorm.Expr("sequence + ?", 1)).Error; err != nil {
			return err
		}

		var counter models.Counter
		if err := tx.Where("name = ?", name).First(&counter).Error; err != nil {
			return err
		}

		next = counter.Sequence
		return nil
	})
	if err != nil {
		return 0, err
	}
	return next, nil
}
