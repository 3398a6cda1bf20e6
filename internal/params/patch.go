package params

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"universo/server/internal/models"
)

// FieldKind is the storage type an editable column is parsed into.
type FieldKind int

const (
	KindString FieldKind = iota
	KindInt
	KindFloat
	KindDate
)

// Whitelist maps editable column names to their kind.
type Whitelist map[string]FieldKind

// RecordFields are the housing_universe columns a caller may edit.
var RecordFields = Whitelist{
	"fase":                 KindString,
	"estado":               KindString,
	"fecha_inicio":         KindDate,
	"fecha_entrega":        KindDate,
	"precio_promedio":      KindFloat,
	"cuota_promedio":       KindFloat,
	"ingresos_promedio":    KindFloat,
	"unidades_disponibles": KindInt,
}

// UnitFields are the housing_units columns a caller may edit.
var UnitFields = Whitelist{
	"unidad":                     KindString,
	"modelo":                     KindString,
	"torre_fase":                 KindString,
	"cant_dormitorios":           KindInt,
	"cant_sanitarios":            KindFloat,
	"parqueo":                    KindString,
	"tipo_parqueo":               KindString,
	"cant_parqueos":              KindInt,
	"parqueo_moto":               KindString,
	"uso":                        KindString,
	"precio_total_usd":           KindFloat,
	"precio_total_qtz":           KindFloat,
	"precio_sin_iva_usd":         KindFloat,
	"precio_sin_iva_qtz":         KindFloat,
	"disponibilidad":             KindString,
	"precio_mantenimiento_total": KindFloat,
	"categoria":                  KindString,
	"cuota":                      KindFloat,
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"}

// Patch decodes a JSON object and keeps only whitelisted keys, converted to
// their column type. null and "" become nil so the column is cleared; keys
// absent from the body are left out of the result.
func Patch(body []byte, allowed Whitelist) (map[string]interface{}, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return nil, models.NewValidationError("body", "must be a JSON object")
	}

	updates := make(map[string]interface{})
	for field, kind := range allowed {
		value, ok := raw[field]
		if !ok {
			continue
		}
		parsed, err := parseValue(field, kind, value)
		if err != nil {
			return nil, err
		}
		updates[field] = parsed
	}
	return updates, nil
}

func parseValue(field string, kind FieldKind, value json.RawMessage) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(value))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, models.NewValidationError(field, "invalid value")
	}
	if v == nil {
		return nil, nil
	}
	if s, ok := v.(string); ok && s == "" {
		return nil, nil
	}

	switch kind {
	case KindString:
		s, ok := v.(string)
		if !ok {
			return nil, models.NewValidationError(field, "must be a string")
		}
		return s, nil
	case KindInt:
		text, ok := numberText(v)
		if !ok {
			return nil, models.NewValidationError(field, "must be an integer")
		}
		n, err := strconv.Atoi(text)
		if err != nil {
			// 3.0 is still an integer
			f, ferr := strconv.ParseFloat(text, 64)
			if ferr != nil || f != math.Trunc(f) || f >= math.MaxInt || f < math.MinInt {
				return nil, models.NewValidationError(field, "must be an integer")
			}
			n = int(f)
		}
		return n, nil
	case KindFloat:
		text, ok := numberText(v)
		if !ok {
			return nil, models.NewValidationError(field, "must be a number")
		}
		f, err := strconv.ParseFloat(text, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, models.NewValidationError(field, "must be a number")
		}
		return f, nil
	case KindDate:
		s, ok := v.(string)
		if !ok {
			return nil, models.NewValidationError(field, "must be a date string")
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
				return t, nil
			}
		}
		return nil, models.NewValidationError(field, "must be a date (YYYY-MM-DD)")
	}
	return nil, models.NewValidationError(field, "unsupported field")
}

func numberText(v interface{}) (string, bool) {
	switch n := v.(type) {
	case json.Number:
		return n.String(), true
	case string:
		s := strings.TrimSpace(n)
		return s, s != ""
	}
	return "", false
}
