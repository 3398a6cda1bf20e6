package database

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"universo/server/internal/models"
)

func setupTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := NewTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return Wrap(db, logrus.New())
}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

func floatPtr(f float64) *float64 { return &f }

type recordSeed struct {
	id       int64
	project  string
	period   string
	category string
	zone     string
	code     string
}

func seedRecords(t *testing.T, d *Database, seeds ...recordSeed) {
	t.Helper()
	for _, s := range seeds {
		r := models.Record{
			ID:        s.id,
			Proyecto:  s.project,
			Periodo:   s.period,
			Categoria: s.category,
			Pais:      "Guatemala",
		}
		if r.Periodo == "" {
			r.Periodo = "2024-1"
		}
		if r.Categoria == "" {
			r.Categoria = "Vertical"
		}
		if s.zone != "" {
			r.Zona = strPtr(s.zone)
		}
		if s.code != "" {
			r.CodProyecto = strPtr(s.code)
		}
		require.NoError(t, d.db.Create(&r).Error)
	}
}

func seedUnits(t *testing.T, d *Database, units ...models.Unit) {
	t.Helper()
	for i := range units {
		require.NoError(t, d.db.Create(&units[i]).Error)
	}
}

func ids[T any](items []T, id func(T) int64) []int64 {
	out := make([]int64, 0, len(items))
	for _, item := range items {
		out = append(out, id(item))
	}
	return out
}

func summaryID(r models.RecordSummary) int64 { return r.ID }

func unitID(u models.UnitListItem) int64 { return u.ID }

var ctx = context.Background()
