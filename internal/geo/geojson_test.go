package geo_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rc397/FlavorMap/internal/domain"
	"github.com/rc397/FlavorMap/internal/geo"
)

func spots() []domain.Spot {
	return []domain.Spot{
		{
			ID: "s_a", Name: "Taco Stand", Cuisine: "Mexican", Emoji: "🌮", Note: "cheap",
			Lat: 19.43, Lng: -99.13, CreatedAt: time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			ID: "s_b", Name: "Ramen Bar", Cuisine: "Japanese", Emoji: "🍜",
			Lat: 35.68, Lng: 139.69, CreatedAt: time.Date(2024, 7, 2, 8, 30, 0, 0, time.UTC),
		},
	}
}

func TestFeatureCollection_PointsAreLngLat(t *testing.T) {
	fc := geo.FeatureCollection(spots())

	require.Len(t, fc.Features, 2)
	first := fc.Features[0]
	assert.Equal(t, "s_a", first.ID)
	assert.Equal(t, orb.Point{-99.13, 19.43}, first.Geometry)
	assert.Equal(t, "Taco Stand", first.Properties.MustString("name"))
	assert.Equal(t, "Mexican", first.Properties.MustString("cuisine"))
	assert.Equal(t, "2024-07-01T12:00:00Z", first.Properties.MustString("createdAt"))
	assert.Equal(t, "s_b", fc.Features[1].ID)
}

func TestFeatureCollection_BBox(t *testing.T) {
	fc := geo.FeatureCollection(spots())

	assert.Equal(t, geojson.BBox{-99.13, 19.43, 139.69, 35.68}, fc.BBox)
}

func TestFeatureCollection_Empty(t *testing.T) {
	data, err := geo.Marshal(nil)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "FeatureCollection", doc["type"])
	assert.Equal(t, []any{}, doc["features"])
	assert.NotContains(t, doc, "bbox")
}

func TestMarshal_RoundTripsThroughOrb(t *testing.T) {
	data, err := geo.Marshal(spots())
	require.NoError(t, err)

	fc, err := geojson.UnmarshalFeatureCollection(data)
	require.NoError(t, err)
	require.Len(t, fc.Features, 2)
	assert.Equal(t, orb.Point{139.69, 35.68}, fc.Features[1].Geometry)
	assert.Equal(t, "🍜", fc.Features[1].Properties.MustString("emoji"))
}
