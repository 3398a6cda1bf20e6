package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"universo/server/internal/database"
	"universo/server/internal/models"
	"universo/server/internal/params"
)

func (h *Handler) GetZones(c *gin.Context) {
	h.catalog(c, database.ColumnZone, "zones", "Failed to get zones")
}

func (h *Handler) GetCategories(c *gin.Context) {
	h.catalog(c, database.ColumnCategory, "categories", "Failed to get categories")
}

func (h *Handler) GetPeriods(c *gin.Context) {
	h.catalog(c, database.ColumnPeriod, "periods", "Failed to get periods")
}

// catalog answers with the distinct values of column for the project.
// Without a project the list is empty.
func (h *Handler) catalog(c *gin.Context, column, name, failure string) {
	project := params.Optional(c.Query("project"))

	values, err := h.db.DistinctRecordValues(c.Request.Context(), project, column)
	if err != nil {
		h.fail(c, err, "", failure)
		return
	}

	c.JSON(http.StatusOK, gin.H{name: values})
}

// SearchProjects is the project name autocomplete.
func (h *Handler) SearchProjects(c *gin.Context) {
	query, err := params.SearchQuery("q", c.Query("q"), h.cfg.Search.AutocompleteMaxQuery)
	if err != nil {
		h.fail(c, err, "", "")
		return
	}
	if query == "" {
		c.JSON(http.StatusOK, gin.H{"projects": []models.ProjectOption{}})
		return
	}

	projects, err := h.db.SearchProjects(c.Request.Context(), query,
		h.cfg.Search.AutocompleteLimit, h.cfg.Search.AutocompleteFetchLimit)
	if err != nil {
		h.fail(c, err, "", "Failed to search projects")
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects})
}
