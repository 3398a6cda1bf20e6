package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"universo/server/internal/models"
)

// RecordUnitKey is the (cod_proyecto, periodo) pair that links a record to
// its units.
type RecordUnitKey struct {
	CodProyecto *string
	Periodo     string
}

// ResolveUnitKey loads the unit join key of a record.
func (d *Database) ResolveUnitKey(ctx context.Context, recordID int64) (RecordUnitKey, error) {
	var record models.Record
	err := d.db.WithContext(ctx).
		Select("id, cod_proyecto, periodo").
		First(&record, "id = ?", recordID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return RecordUnitKey{}, models.ErrNotFound
	}
	if err != nil {
		return RecordUnitKey{}, fmt.Errorf("failed to resolve record %d: %w", recordID, err)
	}
	return RecordUnitKey{CodProyecto: record.CodProyecto, Periodo: record.Periodo}, nil
}

// UnitFilterFor scopes a unit filter to a record. A caller supplied period
// replaces the record's own period.
func UnitFilterFor(key RecordUnitKey, period string) models.UnitFilter {
	f := models.UnitFilter{CodProyecto: key.CodProyecto, Period: key.Periodo}
	if p := strings.TrimSpace(period); p != "" {
		f.Period = p
	}
	return f
}

func (d *Database) unitScope(ctx context.Context, f models.UnitFilter) *gorm.DB {
	q := d.db.WithContext(ctx).Model(&models.Unit{})
	if f.CodProyecto == nil {
		q = q.Where("cod_proyecto IS NULL")
	} else {
		q = q.Where("cod_proyecto = ?", *f.CodProyecto)
	}
	if f.Period != "" {
		q = q.Where("periodo = ?", f.Period)
	}
	if f.Use != "" {
		q = q.Where("uso = ?", f.Use)
	}
	if f.Status != "" {
		q = q.Where("disponibilidad = ?", f.Status)
	}
	if f.Bedrooms != nil {
		q = q.Where("cant_dormitorios = ?", *f.Bedrooms)
	}
	return q
}

// SearchUnits returns one page of units, newest id first unless
// f.OldestFirst is set.
func (d *Database) SearchUnits(ctx context.Context, f models.UnitFilter, page models.PageRequest) (models.Page[models.UnitListItem], error) {
	var total int64
	if err := d.unitScope(ctx, f).Count(&total).Error; err != nil {
		return models.Page[models.UnitListItem]{}, fmt.Errorf("failed to count units: %w", err)
	}

	order := "id DESC"
	if f.OldestFirst {
		order = "id ASC"
	}

	var items []models.UnitListItem
	err := d.unitScope(ctx, f).
		Order(order).
		Offset(page.Offset()).
		Limit(page.PageSize).
		Find(&items).Error
	if err != nil {
		return models.Page[models.UnitListItem]{}, fmt.Errorf("failed to fetch units: %w", err)
	}

	return models.NewPage(items, page, total), nil
}

// UnitCatalogs lists the uses, availabilities and bedroom counts present
// among the units matched by f. Only the record key and period of f apply.
func (d *Database) UnitCatalogs(ctx context.Context, f models.UnitFilter) (models.UnitCatalogs, error) {
	scope := models.UnitFilter{CodProyecto: f.CodProyecto, Period: f.Period}

	var uses, availabilities []string
	var bedrooms []int

	if err := d.unitScope(ctx, scope).Where("uso IS NOT NULL").Distinct().Pluck("uso", &uses).Error; err != nil {
		return models.UnitCatalogs{}, fmt.Errorf("failed to list unit uses: %w", err)
	}
	if err := d.unitScope(ctx, scope).Where("disponibilidad IS NOT NULL").Distinct().Pluck("disponibilidad", &availabilities).Error; err != nil {
		return models.UnitCatalogs{}, fmt.Errorf("failed to list unit availabilities: %w", err)
	}
	if err := d.unitScope(ctx, scope).Where("cant_dormitorios IS NOT NULL").Distinct().Pluck("cant_dormitorios", &bedrooms).Error; err != nil {
		return models.UnitCatalogs{}, fmt.Errorf("failed to list unit bedrooms: %w", err)
	}

	return models.UnitCatalogs{
		Uses:           SortedUnique(uses),
		Availabilities: SortedUnique(availabilities),
		Bedrooms:       SortedUniqueInts(bedrooms),
	}, nil
}

// GetUnitDetail returns the detail projection of a unit.
func (d *Database) GetUnitDetail(ctx context.Context, id int64) (*models.UnitDetail, error) {
	var detail models.UnitDetail
	result := d.db.WithContext(ctx).Model(&models.Unit{}).
		Where("id = ?", id).
		Limit(1).
		Find(&detail)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get unit %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, models.ErrNotFound
	}
	return &detail, nil
}

// UpdateUnit writes the given column values and returns the unit detail.
func (d *Database) UpdateUnit(ctx context.Context, id int64, updates map[string]interface{}) (*models.UnitDetail, error) {
	var exists int64
	if err := d.db.WithContext(ctx).Model(&models.Unit{}).Where("id = ?", id).Count(&exists).Error; err != nil {
		return nil, fmt.Errorf("failed to check unit %d: %w", id, err)
	}
	if exists == 0 {
		return nil, models.ErrNotFound
	}
	if len(updates) == 0 {
		return nil, models.NewValidationError("body", "no valid fields to update")
	}

	result := d.db.WithContext(ctx).Model(&models.Unit{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update unit %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, models.ErrNotFound
	}

	return d.GetUnitDetail(ctx, id)
}
