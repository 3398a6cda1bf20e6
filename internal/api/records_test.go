package api

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"universo/server/internal/cache"
	"universo/server/internal/models"
)

func TestSearchRecords(t *testing.T) {
	s := setupServer(t)
	for id := int64(1); id <= 7; id++ {
		s.seedRecord(t, models.Record{ID: id, Proyecto: "Alta Vista", Zona: strPtr("Zona 10")})
	}
	s.seedRecord(t, models.Record{ID: 8, Proyecto: "Bosque Real"})
	s.seedUnit(t, models.Unit{ID: 1, Proyecto: "Alta Vista", Periodo: strPtr("2024-1"), Disponibilidad: strPtr("Disponible")})
	s.seedUnit(t, models.Unit{ID: 2, Proyecto: "Alta Vista", Periodo: strPtr("2024-1"), Disponibilidad: strPtr("Vendido")})

	w := s.do(t, http.MethodGet, "/api/records?project=Alta%20Vista", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Len(t, body["items"], 5)
	assert.Equal(t, float64(1), body["page"])
	assert.Equal(t, float64(5), body["pageSize"])
	assert.Equal(t, float64(7), body["totalItems"])
	assert.Equal(t, float64(2), body["totalPages"])

	first := body["items"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, float64(1), first["id"])
	assert.Equal(t, float64(2), first["total_unidades"])
	assert.Equal(t, float64(1), first["unidades_disponibles"])

	w = s.do(t, http.MethodGet, "/api/records?project=Alta%20Vista&page=2&pageSize=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["items"], 2)
}

func TestSearchRecords_PaginationParams(t *testing.T) {
	s := setupServer(t)
	for id := int64(1); id <= 60; id++ {
		s.seedRecord(t, models.Record{ID: id, Proyecto: "Alta Vista"})
	}

	tests := []struct {
		query    string
		page     float64
		pageSize float64
		items    int
	}{
		{"", 1, 5, 5},
		{"&pageSize=abc", 1, 5, 5},
		{"&pageSize=0", 1, 5, 5},
		{"&pageSize=500", 1, 50, 50},
		{"&page=-2", 1, 5, 5},
		{"&page=2&pageSize=50", 2, 50, 10},
		{"&page=9&pageSize=50", 9, 50, 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := s.do(t, http.MethodGet, "/api/records?project=Alta%20Vista"+tt.query, "")
			require.Equal(t, http.StatusOK, w.Code)
			body := decode(t, w)
			assert.Equal(t, tt.page, body["page"])
			assert.Equal(t, tt.pageSize, body["pageSize"])
			assert.Len(t, body["items"], tt.items)
		})
	}
}

func TestSearchRecords_Filters(t *testing.T) {
	s := setupServer(t)
	s.seedRecord(t, models.Record{ID: 1, Proyecto: "Alta Vista", Zona: strPtr("Zona 10"), Periodo: "2024-1"})
	s.seedRecord(t, models.Record{ID: 2, Proyecto: "Alta Vista", Zona: strPtr("Zona 15"), Periodo: "2024-1"})
	s.seedRecord(t, models.Record{ID: 3, Proyecto: "Alta Vista", Zona: strPtr("Zona 10"), Periodo: "2024-2", Categoria: "Horizontal"})

	w := s.do(t, http.MethodGet, "/api/records?project=Alta%20Vista&zone=Zona%2010&category=%20&period=2024-2", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	require.Len(t, body["items"], 1)
	assert.Equal(t, float64(3), body["items"].([]interface{})[0].(map[string]interface{})["id"])
}

func TestSearchRecords_MissingProject(t *testing.T) {
	s := setupServer(t)

	for _, path := range []string{"/api/records", "/api/records?project=", "/api/records?project=%20%20"} {
		w := s.do(t, http.MethodGet, path, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Equal(t, "project: parameter is required", decode(t, w)["error"])
	}
}

func TestGetRecord(t *testing.T) {
	s := setupServer(t)
	s.seedRecord(t, models.Record{ID: 42, Proyecto: "Alta Vista", Fase: strPtr("Fase 1")})

	w := s.do(t, http.MethodGet, "/api/records/42", "")
	require.Equal(t, http.StatusOK, w.Code)
	record := decode(t, w)["record"].(map[string]interface{})
	assert.Equal(t, "Alta Vista", record["proyecto"])
	assert.Equal(t, "Fase 1", record["fase"])

	w = s.do(t, http.MethodGet, "/api/records/43", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Record not found", decode(t, w)["error"])

	for _, id := range []string{"abc", "0", "-1", "1.5"} {
		w = s.do(t, http.MethodGet, "/api/records/"+id, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, id)
		assert.Equal(t, "id: must be a positive integer", decode(t, w)["error"])
	}
}

func TestGetRecord_UsesCache(t *testing.T) {
	s := setupServer(t)
	s.seedRecord(t, models.Record{ID: 42, Proyecto: "Alta Vista"})

	w := s.do(t, http.MethodGet, "/api/records/42", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, s.cache.Len())

	var cached models.Record
	hit, err := s.cache.Get(context.Background(), cache.RecordKey(42), &cached)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "Alta Vista", cached.Proyecto)
}

func TestGetRecord_UpdateDuringCacheFill(t *testing.T) {
	s := setupServer(t)
	s.seedRecord(t, models.Record{ID: 42, Proyecto: "Alta Vista", Fase: strPtr("Fase 1")})

	// The PUT runs after the GET has read the row and before it fills the cache
	var pending atomic.Bool
	pending.Store(true)
	var putStatus int
	err := s.db.Callback().Query().After("gorm:query").Register("test:update_after_read", func(tx *gorm.DB) {
		if tx.Statement.Table != "housing_universe" || !pending.CompareAndSwap(true, false) {
			return
		}
		putStatus = s.do(t, http.MethodPut, "/api/records/42", `{"fase": ""}`).Code
	})
	require.NoError(t, err)

	w := s.do(t, http.MethodGet, "/api/records/42", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.False(t, pending.Load())
	require.Equal(t, http.StatusOK, putStatus)
	assert.Equal(t, 0, s.cache.Len())

	w = s.do(t, http.MethodGet, "/api/records/42", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decode(t, w)["record"].(map[string]interface{})["fase"])
	assert.Equal(t, 1, s.cache.Len())
}

func TestUpdateRecord(t *testing.T) {
	s := setupServer(t)
	s.seedRecord(t, models.Record{ID: 42, Proyecto: "Alta Vista", Fase: strPtr("Fase 1")})

	// Prime the cache so the update has something to invalidate
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/records/42", "").Code)

	w := s.do(t, http.MethodPut, "/api/records/42", `{"fase": "", "precio_promedio": "1500.25", "proyecto": "Otro"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "Record updated successfully", body["message"])
	record := body["record"].(map[string]interface{})
	assert.Nil(t, record["fase"])
	assert.Equal(t, 1500.25, record["precio_promedio"])
	assert.Equal(t, "Alta Vista", record["proyecto"])

	w = s.do(t, http.MethodGet, "/api/records/42", "")
	require.Equal(t, http.StatusOK, w.Code)
	record = decode(t, w)["record"].(map[string]interface{})
	assert.Nil(t, record["fase"])
	assert.Equal(t, 1500.25, record["precio_promedio"])
}

func TestUpdateRecord_OnlyUnknownFields(t *testing.T) {
	s := setupServer(t)
	s.seedRecord(t, models.Record{ID: 42, Proyecto: "Alta Vista", Fase: strPtr("Fase 1")})

	w := s.do(t, http.MethodPut, "/api/records/42", `{"nombre": "x", "proyecto": "Otro"}`)
	require.Equal(t, http.StatusOK, w.Code)
	record := decode(t, w)["record"].(map[string]interface{})
	assert.Equal(t, "Fase 1", record["fase"])
	assert.Equal(t, "Alta Vista", record["proyecto"])
}

func TestUpdateRecord_Errors(t *testing.T) {
	s := setupServer(t)
	s.seedRecord(t, models.Record{ID: 42, Proyecto: "Alta Vista"})

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		error  string
	}{
		{"bad id", "/api/records/abc", `{"fase": "x"}`, http.StatusBadRequest, "id: must be a positive integer"},
		{"bad number", "/api/records/42", `{"precio_promedio": "abc"}`, http.StatusBadRequest, "precio_promedio: must be a number"},
		{"bad date", "/api/records/42", `{"fecha_inicio": "mañana"}`, http.StatusBadRequest, "fecha_inicio: must be a date (YYYY-MM-DD)"},
		{"not json", "/api/records/42", `fase=x`, http.StatusBadRequest, "body: must be a JSON object"},
		{"missing record", "/api/records/7", `{"fase": "x"}`, http.StatusNotFound, "Record not found"},
		// Validation comes before the existence check
		{"missing record with bad body", "/api/records/7", `{"precio_promedio": "abc"}`, http.StatusBadRequest, "precio_promedio: must be a number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPut, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.error, decode(t, w)["error"])
		})
	}
}

func TestRecordMap(t *testing.T) {
	s := setupServer(t)
	points := [][2]string{{"14.60", "-90.51"}, {"14.61", "-90.51"}, {"14.61", "-90.50"}}
	for i, p := range points {
		s.seedRecord(t, models.Record{
			ID:       int64(i + 1),
			Proyecto: "Alta Vista",
			Zona:     strPtr("Zona 10"),
			Latitud:  strPtr(p[0]),
			Longitud: strPtr(p[1]),
		})
	}
	s.seedRecord(t, models.Record{ID: 4, Proyecto: "Alta Vista", Latitud: strPtr("sin dato"), Longitud: strPtr("-90.5")})
	s.seedRecord(t, models.Record{ID: 5, Proyecto: "Alta Vista"})

	w := s.do(t, http.MethodGet, "/api/records/map?project=Alta%20Vista", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "FeatureCollection", body["type"])
	assert.Len(t, body["features"], 3)

	w = s.do(t, http.MethodGet, "/api/records/map?project=Alta%20Vista&outlines=true", "")
	require.Equal(t, http.StatusOK, w.Code)
	features := decode(t, w)["features"].([]interface{})
	require.Len(t, features, 4)
	outline := features[3].(map[string]interface{})
	assert.Equal(t, "Polygon", outline["geometry"].(map[string]interface{})["type"])

	w = s.do(t, http.MethodGet, "/api/records/map", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecordRoutesDoNotShadowEachOther(t *testing.T) {
	s := setupServer(t)
	s.seedRecord(t, models.Record{ID: 1, Proyecto: "Alta Vista"})

	for path, status := range map[string]int{
		"/api/records/map?project=Alta%20Vista": http.StatusOK,
		"/api/records/1":                        http.StatusOK,
		fmt.Sprintf("/api/records/%d", 2):       http.StatusNotFound,
	} {
		assert.Equal(t, status, s.do(t, http.MethodGet, path, "").Code, path)
	}
}
