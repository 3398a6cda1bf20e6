// Package importer loads CSV exports of the housing tables into the
// database through the batch queue.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"universo/server/internal/models"
	"universo/server/internal/queue"
)

var timeLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"}

var timeType = reflect.TypeOf(time.Time{})

type Importer struct {
	db        *gorm.DB
	queue     *queue.BatchQueue
	batchSize int
	logger    *logrus.Logger
}

func New(db *gorm.DB, q *queue.BatchQueue, batchSize int, logger *logrus.Logger) *Importer {
	if logger == nil {
		logger = logrus.New()
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Importer{db: db, queue: q, batchSize: batchSize, logger: logger}
}

// ImportCSV reads a CSV whose header names columns of model's table and
// queues its rows in batches. It returns the number of rows queued.
func (im *Importer) ImportCSV(ctx context.Context, r io.Reader, model interface{}) (int, error) {
	stmt := &gorm.Statement{DB: im.db}
	if err := stmt.Parse(model); err != nil {
		return 0, fmt.Errorf("failed to parse model: %w", err)
	}
	table := stmt.Schema.Table

	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("failed to read %s header: %w", table, err)
	}

	fields, columns, err := resolveColumns(stmt.Schema, header)
	if err != nil {
		return 0, err
	}

	batch := newBatch(table, columns, im.batchSize)
	total := 0
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return total, fmt.Errorf("%s line %d: %w", table, line, err)
		}

		row := make(map[string]interface{}, len(fields))
		for i, field := range fields {
			value, err := convert(field, record[i])
			if err != nil {
				return total, fmt.Errorf("%s line %d column %s: %w", table, line, field.DBName, err)
			}
			row[field.DBName] = value
		}
		batch.Rows = append(batch.Rows, row)

		if len(batch.Rows) == im.batchSize {
			if err := im.queue.PushContext(ctx, batch); err != nil {
				return total, fmt.Errorf("failed to queue %s batch: %w", table, err)
			}
			total += batch.Len()
			batch = newBatch(table, columns, im.batchSize)
		}
	}

	if batch.Len() > 0 {
		if err := im.queue.PushContext(ctx, batch); err != nil {
			return total, fmt.Errorf("failed to queue %s batch: %w", table, err)
		}
		total += batch.Len()
	}

	im.logger.WithFields(logrus.Fields{"table": table, "rows": total}).Info("Queued CSV rows for import")
	return total, nil
}

func newBatch(table string, columns []string, size int) *models.ImportBatch {
	return &models.ImportBatch{
		Table:   table,
		Columns: columns,
		Rows:    make([]map[string]interface{}, 0, size),
	}
}

func resolveColumns(s *schema.Schema, header []string) ([]*schema.Field, []string, error) {
	fields := make([]*schema.Field, 0, len(header))
	columns := make([]string, 0, len(header))
	seen := make(map[string]bool, len(header))
	hasID := false

	for i, name := range header {
		name = strings.TrimSpace(name)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		field := s.LookUpField(name)
		if field == nil || field.DBName == "" {
			return nil, nil, fmt.Errorf("unknown %s column %q", s.Table, name)
		}
		if seen[field.DBName] {
			return nil, nil, fmt.Errorf("duplicate %s column %q", s.Table, name)
		}
		seen[field.DBName] = true
		if field.DBName == "id" {
			hasID = true
		}
		fields = append(fields, field)
		columns = append(columns, field.DBName)
	}

	if !hasID {
		return nil, nil, fmt.Errorf("%s CSV must include an id column", s.Table)
	}
	return fields, columns, nil
}

// convert turns a CSV cell into the Go value of field. Empty cells are NULL
// for nullable columns and the zero value otherwise.
func convert(field *schema.Field, raw string) (interface{}, error) {
	raw = strings.TrimSpace(raw)
	nullable := field.FieldType.Kind() == reflect.Ptr
	typ := field.IndirectFieldType

	if raw == "" {
		if nullable {
			return nil, nil
		}
		return reflect.Zero(typ).Interface(), nil
	}

	if typ == timeType {
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return t, nil
			}
		}
		return nil, fmt.Errorf("invalid date %q", raw)
	}

	switch typ.Kind() {
	case reflect.String:
		return raw, nil
	case reflect.Int, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", raw)
		}
		return n, nil
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", raw)
		}
		return f, nil
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid boolean %q", raw)
		}
		return b, nil
	}
	return nil, fmt.Errorf("unsupported column type %s", typ)
}
