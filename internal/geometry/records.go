// Package geometry turns housing records into GeoJSON for map views.
package geometry

import (
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"universo/server/internal/models"
)

// Point parses the latitude and longitude columns of a record. It reports
// false when either is missing, not a number, or out of range.
func Point(r models.Record) (orb.Point, bool) {
	if r.Latitud == nil || r.Longitud == nil {
		return orb.Point{}, false
	}
	lat, err := parseCoordinate(*r.Latitud)
	if err != nil || lat < -90 || lat > 90 {
		return orb.Point{}, false
	}
	lon, err := parseCoordinate(*r.Longitud)
	if err != nil || lon < -180 || lon > 180 {
		return orb.Point{}, false
	}
	return orb.Point{lon, lat}, true
}

func parseCoordinate(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrSyntax
	}
	return v, nil
}

// RecordFeatures builds a point feature per record with usable coordinates.
// Records whose coordinates do not parse are left out.
func RecordFeatures(records []models.Record) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, r := range records {
		p, ok := Point(r)
		if !ok {
			continue
		}
		feature := geojson.NewFeature(p)
		feature.ID = r.ID
		feature.Properties = geojson.Properties{
			"id":        r.ID,
			"proyecto":  r.Proyecto,
			"categoria": r.Categoria,
			"zona":      r.Zona,
			"periodo":   r.Periodo,
			"estado":    r.Estado,
		}
		fc.Append(feature)
	}
	return fc
}
