package geometry

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"universo/server/internal/models"
)

// ZoneOutlines adds one polygon feature per zone enclosing the zone's record
// points. Zones with fewer than three distinct points get no outline.
func ZoneOutlines(fc *geojson.FeatureCollection, records []models.Record) {
	byZone := make(map[string][]orb.Point)
	var zones []string
	for _, r := range records {
		if r.Zona == nil || *r.Zona == "" {
			continue
		}
		p, ok := Point(r)
		if !ok {
			continue
		}
		if _, seen := byZone[*r.Zona]; !seen {
			zones = append(zones, *r.Zona)
		}
		byZone[*r.Zona] = append(byZone[*r.Zona], p)
	}

	for _, zone := range zones {
		points := byZone[zone]
		hull := convexHull(points)
		if hull == nil {
			continue
		}
		feature := geojson.NewFeature(orb.Polygon{hull})
		feature.Properties = geojson.Properties{
			"zona":          zone,
			"point_count":   len(points),
			"geometry_type": "hull",
		}
		fc.Append(feature)
	}
}

func cross(o, a, b orb.Point) float64 {
	return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
}

// convexHull returns the closed counter-clockwise hull of points, or nil
// when the points do not span an area.
func convexHull(points []orb.Point) orb.Ring {
	pts := make([]orb.Point, len(points))
	copy(pts, points)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i][0] == pts[j][0] {
			return pts[i][1] < pts[j][1]
		}
		return pts[i][0] < pts[j][0]
	})

	unique := pts[:0]
	for i, p := range pts {
		if i == 0 || p != pts[i-1] {
			unique = append(unique, p)
		}
	}
	pts = unique
	if len(pts) < 3 {
		return nil
	}

	// Monotone chain
	hull := make([]orb.Point, 0, 2*len(pts))
	for _, p := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	// hull ends with its first point, closing the ring
	if len(hull) < 4 {
		return nil
	}
	return orb.Ring(hull)
}
