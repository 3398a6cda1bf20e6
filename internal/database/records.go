package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"universo/server/internal/models"
)

type unitKey struct {
	proyecto string
	periodo  string
}

type unitCount struct {
	Proyecto  string
	Periodo   string
	Total     int64
	Available int64
}

// recordScope applies the equality filters of a record search.
func (d *Database) recordScope(ctx context.Context, f models.RecordFilter) *gorm.DB {
	q := d.db.WithContext(ctx).Model(&models.Record{}).Where("proyecto = ?", f.Project)
	if f.Zone != "" {
		q = q.Where("zona = ?", f.Zone)
	}
	if f.Category != "" {
		q = q.Where("categoria = ?", f.Category)
	}
	if f.Period != "" {
		q = q.Where("periodo = ?", f.Period)
	}
	return q
}

// SearchRecords returns one page of records for a project, ordered by
// (proyecto, id), each carrying its total and available unit counts.
func (d *Database) SearchRecords(ctx context.Context, f models.RecordFilter, page models.PageRequest) (models.Page[models.RecordSummary], error) {
	if strings.TrimSpace(f.Project) == "" {
		return models.Page[models.RecordSummary]{}, models.NewValidationError("project", "parameter is required")
	}

	var total int64
	if err := d.recordScope(ctx, f).Count(&total).Error; err != nil {
		return models.Page[models.RecordSummary]{}, fmt.Errorf("failed to count records: %w", err)
	}

	var rows []models.RecordSummary
	err := d.recordScope(ctx, f).
		Select("id, proyecto, categoria, zona, periodo").
		Order("proyecto ASC").
		Order("id ASC").
		Offset(page.Offset()).
		Limit(page.PageSize).
		Find(&rows).Error
	if err != nil {
		return models.Page[models.RecordSummary]{}, fmt.Errorf("failed to fetch records: %w", err)
	}

	if err := d.attachUnitCounts(ctx, rows); err != nil {
		return models.Page[models.RecordSummary]{}, err
	}

	return models.NewPage(rows, page, total), nil
}

// attachUnitCounts fills the unit counts of rows with a single grouped
// query over the (proyecto, periodo) keys present on the page.
func (d *Database) attachUnitCounts(ctx context.Context, rows []models.RecordSummary) error {
	if len(rows) == 0 {
		return nil
	}

	projects := make([]string, 0, len(rows))
	periods := make([]string, 0, len(rows))
	seenProject := make(map[string]bool)
	seenPeriod := make(map[string]bool)
	for _, r := range rows {
		if !seenProject[r.Proyecto] {
			seenProject[r.Proyecto] = true
			projects = append(projects, r.Proyecto)
		}
		if !seenPeriod[r.Periodo] {
			seenPeriod[r.Periodo] = true
			periods = append(periods, r.Periodo)
		}
	}

	// The IN lists may pair a project with a period it was not listed
	// with; such groups are simply never looked up below.
	var counts []unitCount
	err := d.db.WithContext(ctx).Model(&models.Unit{}).
		Select("proyecto, periodo, COUNT(*) AS total, SUM(CASE WHEN disponibilidad = ? THEN 1 ELSE 0 END) AS available", models.AvailableStatus).
		Where("proyecto IN ? AND periodo IN ?", projects, periods).
		Group("proyecto, periodo").
		Scan(&counts).Error
	if err != nil {
		return fmt.Errorf("failed to count units: %w", err)
	}

	byKey := make(map[unitKey]unitCount, len(counts))
	for _, c := range counts {
		byKey[unitKey{c.Proyecto, c.Periodo}] = c
	}
	for i := range rows {
		c := byKey[unitKey{rows[i].Proyecto, rows[i].Periodo}]
		rows[i].TotalUnidades = c.Total
		rows[i].UnidadesDisponibles = c.Available
	}
	return nil
}

// GetRecordByID returns the full record row.
func (d *Database) GetRecordByID(ctx context.Context, id int64) (*models.Record, error) {
	var record models.Record
	err := d.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record %d: %w", id, err)
	}
	return &record, nil
}

// UpdateRecord writes the given column values and returns the stored row.
// An empty update returns the record unchanged without writing.
func (d *Database) UpdateRecord(ctx context.Context, id int64, updates map[string]interface{}) (*models.Record, error) {
	record, err := d.GetRecordByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return record, nil
	}

	result := d.db.WithContext(ctx).Model(&models.Record{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update record %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		// Deleted between the existence check and the write
		return nil, models.ErrNotFound
	}

	return d.GetRecordByID(ctx, id)
}

// RecordsWithCoordinates returns the records of a search that carry both
// latitude and longitude, ordered like SearchRecords.
func (d *Database) RecordsWithCoordinates(ctx context.Context, f models.RecordFilter) ([]models.Record, error) {
	if strings.TrimSpace(f.Project) == "" {
		return nil, models.NewValidationError("project", "parameter is required")
	}

	var records []models.Record
	err := d.recordScope(ctx, f).
		Select("id, proyecto, categoria, zona, periodo, estado, latitud, longitud").
		Where("latitud IS NOT NULL AND longitud IS NOT NULL").
		Order("proyecto ASC").
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch record coordinates: %w", err)
	}
	return records, nil
}
