// Package geo renders spots as GeoJSON.
package geo

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/rc397/FlavorMap/internal/domain"
)

// ContentType is the registered media type for GeoJSON (RFC 7946).
const ContentType = "application/geo+json"

// FeatureCollection converts spots into a GeoJSON FeatureCollection, one
// Point feature per spot in store order. GeoJSON positions are [lng, lat].
// The collection carries a bbox when it has at least one feature.
func FeatureCollection(spots []domain.Spot) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	points := make(orb.MultiPoint, 0, len(spots))

	for _, s := range spots {
		pt := orb.Point{s.Lng, s.Lat}
		points = append(points, pt)

		f := geojson.NewFeature(pt)
		f.ID = s.ID
		f.Properties["name"] = s.Name
		f.Properties["cuisine"] = s.Cuisine
		f.Properties["emoji"] = s.Emoji
		f.Properties["note"] = s.Note
		f.Properties["createdAt"] = s.CreatedAt.UTC().Format(time.RFC3339Nano)
		fc.Append(f)
	}

	if len(points) > 0 {
		fc.BBox = geojson.NewBBox(points.Bound())
	}
	return fc
}

// Marshal renders spots as GeoJSON bytes.
func Marshal(spots []domain.Spot) ([]byte, error) {
	data, err := json.Marshal(FeatureCollection(spots))
	if err != nil {
		return nil, fmt.Errorf("geo.Marshal: %w", err)
	}
	return data, nil
}
