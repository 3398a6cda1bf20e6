package database

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"universo/server/internal/models"
)

var importTables = map[string]bool{
	models.Record{}.TableName(): true,
	models.Unit{}.TableName():   true,
}

// UpsertRows inserts a batch, replacing rows whose id already exists.
// It is meant to run inside a transaction.
func UpsertRows(tx *gorm.DB, batch *models.ImportBatch) error {
	if batch.Len() == 0 {
		return nil
	}
	if !importTables[batch.Table] {
		return fmt.Errorf("table %q cannot be imported", batch.Table)
	}

	var updateColumns []string
	for _, c := range batch.Columns {
		if c != "id" {
			updateColumns = append(updateColumns, c)
		}
	}

	conflict := clause.OnConflict{Columns: []clause.Column{{Name: "id"}}}
	if len(updateColumns) == 0 {
		conflict.DoNothing = true
	} else {
		conflict.DoUpdates = clause.AssignmentColumns(updateColumns)
	}

	if err := tx.Table(batch.Table).Clauses(conflict).Create(batch.Rows).Error; err != nil {
		return fmt.Errorf("failed to upsert %d rows into %s: %w", batch.Len(), batch.Table, err)
	}
	return nil
}
