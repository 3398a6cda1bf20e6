package database

import (
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"universo/server/internal/models"
)

func TestSearchRecords_Pagination(t *testing.T) {
	d := setupTestDatabase(t)
	for id := int64(1); id <= 7; id++ {
		seedRecords(t, d, recordSeed{id: id, project: "Alta Vista"})
	}
	seedRecords(t, d,
		recordSeed{id: 8, project: "Bosque Real"},
		recordSeed{id: 9, project: "Alta Vista B"},
	)

	filter := models.RecordFilter{Project: "Alta Vista"}

	page1, err := d.SearchRecords(ctx, filter, models.PageRequest{Page: 1, PageSize: 5})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids(page1.Items, summaryID))
	assert.Equal(t, int64(7), page1.TotalItems)
	assert.Equal(t, 2, page1.TotalPages)
	assert.Equal(t, 1, page1.Page)
	assert.Equal(t, 5, page1.PageSize)

	page2, err := d.SearchRecords(ctx, filter, models.PageRequest{Page: 2, PageSize: 5})
	require.NoError(t, err)
	assert.Equal(t, []int64{6, 7}, ids(page2.Items, summaryID))
	assert.Equal(t, 2, page2.TotalPages)

	page3, err := d.SearchRecords(ctx, filter, models.PageRequest{Page: 3, PageSize: 5})
	require.NoError(t, err)
	assert.NotNil(t, page3.Items)
	assert.Empty(t, page3.Items)
	assert.Equal(t, int64(7), page3.TotalItems)
}

func TestSearchRecords_PagesPartitionResult(t *testing.T) {
	d := setupTestDatabase(t)
	// Inserted out of id order
	for _, id := range []int64{13, 2, 7, 11, 1, 5, 9, 3, 12, 4, 8, 10, 6} {
		seedRecords(t, d, recordSeed{id: id, project: "Alta Vista"})
	}

	for _, size := range []int{1, 3, 4, 5, 13, 50} {
		filter := models.RecordFilter{Project: "Alta Vista"}
		first, err := d.SearchRecords(ctx, filter, models.PageRequest{Page: 1, PageSize: size})
		require.NoError(t, err)
		assert.Equal(t, models.TotalPages(first.TotalItems, size), first.TotalPages)

		var seen []int64
		for page := 1; page <= first.TotalPages; page++ {
			result, err := d.SearchRecords(ctx, filter, models.PageRequest{Page: page, PageSize: size})
			require.NoError(t, err)
			seen = append(seen, ids(result.Items, summaryID)...)
		}

		assert.Len(t, seen, int(first.TotalItems), "page size %d", size)
		assert.True(t, sort.SliceIsSorted(seen, func(i, j int) bool { return seen[i] < seen[j] }))
		for i := 1; i < len(seen); i++ {
			assert.NotEqual(t, seen[i-1], seen[i], "duplicate id across pages")
		}
	}
}

func TestSearchRecords_Filters(t *testing.T) {
	d := setupTestDatabase(t)
	seedRecords(t, d,
		recordSeed{id: 1, project: "Alta Vista", zone: "Zona 10", category: "Vertical", period: "2024-1"},
		recordSeed{id: 2, project: "Alta Vista", zone: "Zona 15", category: "Vertical", period: "2024-1"},
		recordSeed{id: 3, project: "Alta Vista", zone: "Zona 10", category: "Horizontal", period: "2024-2"},
		recordSeed{id: 4, project: "Alta Vista", zone: "Zona 10", category: "Vertical", period: "2024-2"},
	)

	tests := []struct {
		name   string
		filter models.RecordFilter
		want   []int64
	}{
		{"project only", models.RecordFilter{Project: "Alta Vista"}, []int64{1, 2, 3, 4}},
		{"zone", models.RecordFilter{Project: "Alta Vista", Zone: "Zona 10"}, []int64{1, 3, 4}},
		{"category", models.RecordFilter{Project: "Alta Vista", Category: "Horizontal"}, []int64{3}},
		{"period", models.RecordFilter{Project: "Alta Vista", Period: "2024-2"}, []int64{3, 4}},
		{"all filters", models.RecordFilter{Project: "Alta Vista", Zone: "Zona 10", Category: "Vertical", Period: "2024-2"}, []int64{4}},
		{"no match", models.RecordFilter{Project: "Alta Vista", Zone: "Zona 1"}, []int64{}},
		{"unknown project", models.RecordFilter{Project: "Nada"}, []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := d.SearchRecords(ctx, tt.filter, models.PageRequest{Page: 1, PageSize: 50})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(result.Items, summaryID))
			assert.Equal(t, int64(len(tt.want)), result.TotalItems)
		})
	}
}

func TestSearchRecords_BlankProject(t *testing.T) {
	d := setupTestDatabase(t)
	seedRecords(t, d, recordSeed{id: 1, project: "Alta Vista"})

	for _, project := range []string{"", "   "} {
		_, err := d.SearchRecords(ctx, models.RecordFilter{Project: project}, models.PageRequest{Page: 1, PageSize: 5})
		require.Error(t, err)
		assert.True(t, models.IsValidation(err))
	}
}

func TestSearchRecords_UnitCounts(t *testing.T) {
	d := setupTestDatabase(t)
	seedRecords(t, d,
		recordSeed{id: 1, project: "Alta Vista", period: "2024-1"},
		recordSeed{id: 2, project: "Alta Vista", period: "2024-2"},
		recordSeed{id: 3, project: "Alta Vista", period: "2024-1"},
		recordSeed{id: 4, project: "Bosque Real", period: "2024-3"},
	)
	seedUnits(t, d,
		models.Unit{ID: 1, Proyecto: "Alta Vista", Periodo: strPtr("2024-1"), Disponibilidad: strPtr("Disponible")},
		models.Unit{ID: 2, Proyecto: "Alta Vista", Periodo: strPtr("2024-1"), Disponibilidad: strPtr("Disponible")},
		models.Unit{ID: 3, Proyecto: "Alta Vista", Periodo: strPtr("2024-1"), Disponibilidad: strPtr("Vendido")},
		models.Unit{ID: 4, Proyecto: "Alta Vista", Periodo: strPtr("2024-1"), Disponibilidad: strPtr("disponible")},
		models.Unit{ID: 5, Proyecto: "Alta Vista", Periodo: strPtr("2024-1")},
		// Same period, other project
		models.Unit{ID: 6, Proyecto: "Bosque Real", Periodo: strPtr("2024-1"), Disponibilidad: strPtr("Disponible")},
		// Period without an Alta Vista record
		models.Unit{ID: 7, Proyecto: "Alta Vista", Periodo: strPtr("2024-3"), Disponibilidad: strPtr("Disponible")},
	)

	result, err := d.SearchRecords(ctx, models.RecordFilter{Project: "Alta Vista"}, models.PageRequest{Page: 1, PageSize: 5})
	require.NoError(t, err)
	require.Len(t, result.Items, 3)

	byID := make(map[int64]models.RecordSummary)
	for _, item := range result.Items {
		byID[item.ID] = item
		assert.LessOrEqual(t, item.UnidadesDisponibles, item.TotalUnidades)
	}

	assert.Equal(t, int64(5), byID[1].TotalUnidades)
	assert.Equal(t, int64(2), byID[1].UnidadesDisponibles)
	assert.Equal(t, int64(5), byID[3].TotalUnidades)
	assert.Equal(t, int64(2), byID[3].UnidadesDisponibles)
	assert.Equal(t, int64(0), byID[2].TotalUnidades)
	assert.Equal(t, int64(0), byID[2].UnidadesDisponibles)
}

func TestSearchRecords_UnitCountsPerPeriod(t *testing.T) {
	d := setupTestDatabase(t)
	seedRecords(t, d,
		recordSeed{id: 1, project: "Alta Vista", period: "2024-1"},
		recordSeed{id: 2, project: "Alta Vista", period: "2024-2"},
	)
	seedUnits(t, d,
		models.Unit{ID: 1, Proyecto: "Alta Vista", Periodo: strPtr("2024-2"), Disponibilidad: strPtr("Disponible")},
	)

	result, err := d.SearchRecords(ctx, models.RecordFilter{Project: "Alta Vista"}, models.PageRequest{Page: 1, PageSize: 5})
	require.NoError(t, err)
	require.Len(t, result.Items, 2)
	assert.Equal(t, int64(0), result.Items[0].TotalUnidades)
	assert.Equal(t, int64(1), result.Items[1].TotalUnidades)
	assert.Equal(t, int64(1), result.Items[1].UnidadesDisponibles)
}

func TestGetRecordByID(t *testing.T) {
	d := setupTestDatabase(t)
	seedRecords(t, d, recordSeed{id: 42, project: "Alta Vista", zone: "Zona 10"})

	record, err := d.GetRecordByID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "Alta Vista", record.Proyecto)
	require.NotNil(t, record.Zona)
	assert.Equal(t, "Zona 10", *record.Zona)

	_, err = d.GetRecordByID(ctx, 43)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestUpdateRecord(t *testing.T) {
	d := setupTestDatabase(t)
	seedRecords(t, d, recordSeed{id: 42, project: "Alta Vista"})
	require.NoError(t, d.db.Model(&models.Record{}).Where("id = ?", 42).Update("fase", "Fase 1").Error)

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	record, err := d.UpdateRecord(ctx, 42, map[string]interface{}{
		"fase":                 nil,
		"estado":               "En construcción",
		"precio_promedio":      1250000.5,
		"unidades_disponibles": 12,
		"fecha_inicio":         start,
	})
	require.NoError(t, err)
	assert.Nil(t, record.Fase)
	require.NotNil(t, record.Estado)
	assert.Equal(t, "En construcción", *record.Estado)
	require.NotNil(t, record.PrecioPromedio)
	assert.Equal(t, 1250000.5, *record.PrecioPromedio)
	require.NotNil(t, record.UnidadesDisponibles)
	assert.Equal(t, 12, *record.UnidadesDisponibles)
	require.NotNil(t, record.FechaInicio)
	assert.True(t, start.Equal(*record.FechaInicio))

	stored, err := d.GetRecordByID(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, stored.Fase)
	assert.Equal(t, "Alta Vista", stored.Proyecto)
}

func TestUpdateRecord_NoFields(t *testing.T) {
	d := setupTestDatabase(t)
	seedRecords(t, d, recordSeed{id: 42, project: "Alta Vista"})

	before, err := d.GetRecordByID(ctx, 42)
	require.NoError(t, err)

	after, err := d.UpdateRecord(ctx, 42, map[string]interface{}{})
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUpdateRecord_NotFound(t *testing.T) {
	d := setupTestDatabase(t)

	_, err := d.UpdateRecord(ctx, 7, map[string]interface{}{"fase": "Fase 2"})
	assert.True(t, errors.Is(err, models.ErrNotFound))

	_, err = d.UpdateRecord(ctx, 7, nil)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestRecordsWithCoordinates(t *testing.T) {
	d := setupTestDatabase(t)
	seedRecords(t, d,
		recordSeed{id: 1, project: "Alta Vista"},
		recordSeed{id: 2, project: "Alta Vista"},
		recordSeed{id: 3, project: "Alta Vista"},
	)
	require.NoError(t, d.db.Model(&models.Record{}).Where("id IN ?", []int64{1, 3}).
		Updates(map[string]interface{}{"latitud": "14.6", "longitud": "-90.5"}).Error)
	require.NoError(t, d.db.Model(&models.Record{}).Where("id = ?", 2).Update("latitud", "14.6").Error)

	records, err := d.RecordsWithCoordinates(ctx, models.RecordFilter{Project: "Alta Vista"})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(1), records[0].ID)
	assert.Equal(t, int64(3), records[1].ID)

	_, err = d.RecordsWithCoordinates(ctx, models.RecordFilter{})
	assert.True(t, models.IsValidation(err))
}
