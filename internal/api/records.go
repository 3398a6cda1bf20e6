package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"universo/server/internal/cache"
	"universo/server/internal/geometry"
	"universo/server/internal/models"
	"universo/server/internal/params"
)

func recordFilter(c *gin.Context) (models.RecordFilter, error) {
	project, err := params.Required("project", c.Query("project"))
	if err != nil {
		return models.RecordFilter{}, err
	}
	return models.RecordFilter{
		Project:  project,
		Zone:     params.Optional(c.Query("zone")),
		Category: params.Optional(c.Query("category")),
		Period:   params.Optional(c.Query("period")),
	}, nil
}

// SearchRecords returns one page of a project's records with unit counts.
func (h *Handler) SearchRecords(c *gin.Context) {
	filter, err := recordFilter(c)
	if err != nil {
		h.fail(c, err, "", "Failed to get records")
		return
	}
	page := params.Page(c.Query("page"), c.Query("pageSize"),
		h.cfg.Search.RecordsDefaultPageSize, h.cfg.Search.MaxPageSize)

	result, err := h.db.SearchRecords(c.Request.Context(), filter, page)
	if err != nil {
		h.fail(c, err, "", "Failed to get records")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) GetRecord(c *gin.Context) {
	id, err := params.PositiveID("id", c.Param("id"))
	if err != nil {
		h.fail(c, err, "", "")
		return
	}

	ctx := c.Request.Context()
	key := cache.RecordKey(id)

	var cached models.Record
	if hit, err := h.cache.Get(ctx, key, &cached); err != nil {
		h.log(c).WithError(err).Warn("Failed to read record from cache")
	} else if hit {
		c.JSON(http.StatusOK, gin.H{"record": cached})
		return
	}

	gen := h.fence.Snapshot()
	record, err := h.db.GetRecordByID(ctx, id)
	if err != nil {
		h.fail(c, err, "Record not found", "Failed to get record")
		return
	}

	if _, err := h.fence.SetIfCurrent(ctx, h.cache, gen, key, record); err != nil {
		h.log(c).WithError(err).Warn("Failed to cache record")
	}

	c.JSON(http.StatusOK, gin.H{"record": record})
}

// UpdateRecord applies the whitelisted fields of the body to a record.
func (h *Handler) UpdateRecord(c *gin.Context) {
	id, err := params.PositiveID("id", c.Param("id"))
	if err != nil {
		h.fail(c, err, "", "")
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		h.log(c).WithError(err).Error("Failed to read request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	updates, err := params.Patch(body, params.RecordFields)
	if err != nil {
		h.fail(c, err, "", "")
		return
	}

	ctx := c.Request.Context()
	record, err := h.db.UpdateRecord(ctx, id, updates)
	if err != nil {
		h.fail(c, err, "Record not found", "Failed to update record")
		return
	}

	// Advance before Delete so a read that started before the write
	// cannot put the old row back
	h.fence.Advance()
	if err := h.cache.Delete(ctx, cache.RecordKey(id)); err != nil {
		h.log(c).WithError(err).Warn("Failed to invalidate cached record")
	}

	h.log(c).WithField("record_id", id).WithField("fields", len(updates)).Info("Record updated")

	c.JSON(http.StatusOK, gin.H{
		"record":  record,
		"message": "Record updated successfully",
	})
}

// RecordMap returns the records of a search as a GeoJSON FeatureCollection.
// With outlines=true a hull polygon is added for every zone.
func (h *Handler) RecordMap(c *gin.Context) {
	filter, err := recordFilter(c)
	if err != nil {
		h.fail(c, err, "", "")
		return
	}

	records, err := h.db.RecordsWithCoordinates(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err, "", "Failed to get record map")
		return
	}

	fc := geometry.RecordFeatures(records)
	if c.Query("outlines") == "true" {
		geometry.ZoneOutlines(fc, records)
	}

	c.JSON(http.StatusOK, fc)
}
