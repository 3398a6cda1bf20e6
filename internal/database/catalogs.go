package database

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"universo/server/internal/models"
)

// Record columns that may be listed as a catalog.
const (
	ColumnZone     = "zona"
	ColumnCategory = "categoria"
	ColumnPeriod   = "periodo"
)

var catalogColumns = map[string]bool{
	ColumnZone:     true,
	ColumnCategory: true,
	ColumnPeriod:   true,
}

// DistinctRecordValues lists the distinct non-blank values of column among
// the records of project. A blank project yields an empty list.
func (d *Database) DistinctRecordValues(ctx context.Context, project, column string) ([]string, error) {
	if !catalogColumns[column] {
		return nil, fmt.Errorf("column %q is not a catalog column", column)
	}

	project = strings.TrimSpace(project)
	if project == "" {
		return []string{}, nil
	}

	var values []string
	err := d.db.WithContext(ctx).Model(&models.Record{}).
		Where("proyecto = ?", project).
		Where(column+" IS NOT NULL").
		Distinct().
		Pluck(column, &values).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %s values: %w", column, err)
	}

	return SortedUnique(values), nil
}

// SearchProjects returns up to limit distinct projects whose name starts
// with query, ignoring case. fetchLimit rows are read so that collapsing
// repeated names still fills the list.
func (d *Database) SearchProjects(ctx context.Context, query string, limit, fetchLimit int) ([]models.ProjectOption, error) {
	query = strings.TrimSpace(query)
	if query == "" || limit <= 0 {
		return []models.ProjectOption{}, nil
	}
	if fetchLimit < limit {
		fetchLimit = limit
	}

	var rows []models.ProjectOption
	err := d.db.WithContext(ctx).Model(&models.Record{}).
		Select("proyecto, categoria, zona, estado").
		Where(`LOWER(proyecto) LIKE ? ESCAPE '\'`, escapeLike(strings.ToLower(query))+"%").
		Order("proyecto ASC").
		Order("id ASC").
		Limit(fetchLimit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search projects: %w", err)
	}

	projects := make([]models.ProjectOption, 0, limit)
	seen := make(map[string]bool, len(rows))
	for _, r := range rows {
		if seen[r.Proyecto] {
			continue
		}
		seen[r.Proyecto] = true
		projects = append(projects, r)
		if len(projects) == limit {
			break
		}
	}
	return projects, nil
}

// SortedUnique drops blank and repeated values and sorts the rest with
// Spanish collation.
func SortedUnique(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}

	c := collate.New(language.Spanish)
	c.SortStrings(out)
	return out
}

// SortedUniqueInts drops repeated values and sorts ascending.
func SortedUniqueInts(values []int) []int {
	out := make([]int, 0, len(values))
	seen := make(map[int]bool, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
