// Package domain contains the core data types for the FlavorMap service.
// It is imported by every other internal package (repo, service, handler)
// and depends on nothing outside the standard library.
package domain

import "time"

// Field length limits, counted in Unicode code points after normalization.
const (
	MaxNameLen    = 80
	MaxCuisineLen = 40
	MaxEmojiLen   = 4
	MaxNoteLen    = 240
)

// Spot is a single bookmarked location. Spots are append-only: once created
// and persisted they are never modified or deleted.
type Spot struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Cuisine   string    `json:"cuisine"`
	Emoji     string    `json:"emoji"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"createdAt"`
}

// SpotInput carries the six client-supplied fields of a Spot.
// ID and CreatedAt are assigned by the service when the spot is created.
type SpotInput struct {
	Name    string
	Lat     float64
	Lng     float64
	Cuisine string
	Emoji   string
	Note    string
}

// NewSpot combines a validated input with server-generated identity fields.
func NewSpot(id string, createdAt time.Time, in SpotInput) Spot {
	return Spot{
		ID:        id,
		Name:      in.Name,
		Lat:       in.Lat,
		Lng:       in.Lng,
		Cuisine:   in.Cuisine,
		Emoji:     in.Emoji,
		Note:      in.Note,
		CreatedAt: createdAt.UTC(),
	}
}
