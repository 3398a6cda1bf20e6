package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"universo/server/internal/database"
	"universo/server/internal/params"
)

// GetUnitCatalogs lists the filter values of the units of a record.
func (h *Handler) GetUnitCatalogs(c *gin.Context) {
	recordID, err := params.PositiveID("recordId", c.Query("recordId"))
	if err != nil {
		h.fail(c, err, "", "")
		return
	}

	ctx := c.Request.Context()
	key, err := h.db.ResolveUnitKey(ctx, recordID)
	if err != nil {
		h.fail(c, err, "Record not found", "Failed to get unit catalogs")
		return
	}

	catalogs, err := h.db.UnitCatalogs(ctx, database.UnitFilterFor(key, c.Query("period")))
	if err != nil {
		h.fail(c, err, "", "Failed to get unit catalogs")
		return
	}

	c.JSON(http.StatusOK, catalogs)
}

// SearchUnits returns one page of the units of a record.
func (h *Handler) SearchUnits(c *gin.Context) {
	recordID, err := params.PositiveID("recordId", c.Query("recordId"))
	if err != nil {
		h.fail(c, err, "", "")
		return
	}
	bedrooms, err := params.Bedrooms(c.Query("bedrooms"))
	if err != nil {
		h.fail(c, err, "", "")
		return
	}
	page := params.Page(c.Query("page"), c.Query("pageSize"),
		h.cfg.Search.UnitsDefaultPageSize, h.cfg.Search.MaxPageSize)

	ctx := c.Request.Context()
	key, err := h.db.ResolveUnitKey(ctx, recordID)
	if err != nil {
		h.fail(c, err, "Record not found", "Failed to search units")
		return
	}

	filter := database.UnitFilterFor(key, c.Query("period"))
	filter.Use = params.Optional(c.Query("use"))
	filter.Status = params.Optional(c.Query("availability"))
	filter.Bedrooms = bedrooms
	filter.OldestFirst = params.OldestFirst(c.Query("sort"))

	result, err := h.db.SearchUnits(ctx, filter, page)
	if err != nil {
		h.fail(c, err, "", "Failed to search units")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) GetUnit(c *gin.Context) {
	id, err := params.PositiveID("unitId", c.Param("unitId"))
	if err != nil {
		h.fail(c, err, "", "")
		return
	}

	unit, err := h.db.GetUnitDetail(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "Unit not found", "Failed to get unit")
		return
	}

	c.JSON(http.StatusOK, gin.H{"unit": unit})
}

// PatchUnit applies the whitelisted fields of the body to a unit.
func (h *Handler) PatchUnit(c *gin.Context) {
	id, err := params.PositiveID("unitId", c.Param("unitId"))
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
	updates, err := params.Patch(body, params.UnitFields)
	if err != nil {
		h.fail(c, err, "", "")
		return
	}

	unit, err := h.db.UpdateUnit(c.Request.Context(), id, updates)
	if err != nil {
		h.fail(c, err, "Unit not found", "Failed to update unit")
		return
	}

	h.log(c).WithField("unit_id", id).Info("Unit updated")
	c.JSON(http.StatusOK, gin.H{"unit": unit})
}
