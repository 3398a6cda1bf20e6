// Package params turns raw query strings and request bodies into the
// normalized inputs of the store layer.
package params

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"universo/server/internal/models"
)

// Optional returns the trimmed value, or "" when it is blank.
func Optional(raw string) string {
	return strings.TrimSpace(raw)
}

// Required returns the trimmed value or a validation error when it is blank.
func Required(field, raw string) (string, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", models.NewValidationError(field, "parameter is required")
	}
	return v, nil
}

// PositiveID parses an id path or query parameter.
func PositiveID(field, raw string) (int64, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return 0, models.NewValidationError(field, "parameter is required")
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, models.NewValidationError(field, "must be a positive integer")
	}
	return id, nil
}

// Page parses page and pageSize. Missing, non-numeric or non-positive values
// fall back to the defaults; pageSize is clamped to maxSize.
func Page(pageRaw, sizeRaw string, defaultSize, maxSize int) models.PageRequest {
	req := models.PageRequest{Page: 1, PageSize: defaultSize}

	if n, ok := positiveInt(pageRaw); ok {
		req.Page = n
	}
	if n, ok := positiveInt(sizeRaw); ok {
		req.PageSize = n
	}
	if req.PageSize > maxSize {
		req.PageSize = maxSize
	}
	return req
}

// Bedrooms parses an exact bedroom count filter. Blank means no filter.
func Bedrooms(raw string) (*int, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return nil, models.NewValidationError("bedrooms", "must be a non-negative integer")
	}
	return &n, nil
}

// OldestFirst maps the unit sort parameter; only "old" sorts ascending.
func OldestFirst(sort string) bool {
	return strings.TrimSpace(sort) == "old"
}

func positiveInt(raw string) (int, bool) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// SearchQuery validates a free-text query: blank is allowed and returned as
// "", longer than maxLen characters is rejected.
func SearchQuery(field, raw string, maxLen int) (string, error) {
	v := strings.TrimSpace(raw)
	if maxLen > 0 && utf8.RuneCountInString(v) > maxLen {
		return "", models.NewValidationError(field, "must be at most %d characters", maxLen)
	}
	return v, nil
}
