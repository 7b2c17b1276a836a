package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/rc397/FlavorMap/internal/domain"
)

// DecodeSpotPayload turns a raw request body into a SpotInput.
// The body must be a single UTF-8 JSON object. lat and lng are checked first
// and accept JSON numbers or numeric strings; the text fields must be JSON
// strings when present. The first violation is returned as a
// *domain.ValidationError. Field bounds are checked by ValidateSpot.
func DecodeSpotPayload(body []byte) (domain.SpotInput, error) {
	if !utf8.Valid(body) {
		return domain.SpotInput{}, domain.NewValidationError("", "Invalid JSON")
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return domain.SpotInput{}, domain.NewValidationError("", "Expected JSON object")
	}
	if !json.Valid(trimmed) {
		return domain.SpotInput{}, domain.NewValidationError("", "Invalid JSON")
	}
	if trimmed[0] != '{' {
		return domain.SpotInput{}, domain.NewValidationError("", "Expected JSON object")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return domain.SpotInput{}, domain.NewValidationError("", "Expected JSON object")
	}

	var (
		in  domain.SpotInput
		err error
	)
	if in.Lat, err = coordinate(fields, "lat"); err != nil {
		return domain.SpotInput{}, err
	}
	if in.Lng, err = coordinate(fields, "lng"); err != nil {
		return domain.SpotInput{}, err
	}
	for _, f := range []struct {
		name string
		dst  *string
	}{
		{"name", &in.Name},
		{"cuisine", &in.Cuisine},
		{"note", &in.Note},
		{"emoji", &in.Emoji},
	} {
		if *f.dst, err = text(fields, f.name); err != nil {
			return domain.SpotInput{}, err
		}
	}
	return in, nil
}

// ValidateSpot normalizes and bounds-checks a decoded input.
// Text fields are NFC-normalized and trimmed; lengths count code points.
// Coordinates are not range-checked.
func ValidateSpot(in domain.SpotInput) (domain.SpotInput, error) {
	if math.IsNaN(in.Lat) || math.IsInf(in.Lat, 0) {
		return domain.SpotInput{}, domain.NewValidationError("lat", "lat must be a number")
	}
	if math.IsNaN(in.Lng) || math.IsInf(in.Lng, 0) {
		return domain.SpotInput{}, domain.NewValidationError("lng", "lng must be a number")
	}

	out := domain.SpotInput{
		Lat:     in.Lat,
		Lng:     in.Lng,
		Name:    clean(in.Name),
		Cuisine: clean(in.Cuisine),
		Note:    clean(in.Note),
		Emoji:   clean(in.Emoji),
	}

	if n := utf8.RuneCountInString(out.Name); n == 0 || n > domain.MaxNameLen {
		return domain.SpotInput{}, domain.NewValidationError("name",
			fmt.Sprintf("name is required (max %d chars)", domain.MaxNameLen))
	}
	if n := utf8.RuneCountInString(out.Cuisine); n == 0 || n > domain.MaxCuisineLen {
		return domain.SpotInput{}, domain.NewValidationError("cuisine",
			fmt.Sprintf("cuisine is required (max %d chars)", domain.MaxCuisineLen))
	}
	if utf8.RuneCountInString(out.Note) > domain.MaxNoteLen {
		return domain.SpotInput{}, domain.NewValidationError("note",
			fmt.Sprintf("note too long (max %d chars)", domain.MaxNoteLen))
	}
	if n := utf8.RuneCountInString(out.Emoji); n == 0 || n > domain.MaxEmojiLen {
		return domain.SpotInput{}, domain.NewValidationError("emoji",
			fmt.Sprintf("emoji is required (max %d chars)", domain.MaxEmojiLen))
	}
	return out, nil
}

func clean(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// decimalNumber is the only string form accepted for a coordinate.
// strconv.ParseFloat alone would also take hex floats and Inf spellings.
var decimalNumber = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// coordinate reads a finite number from a JSON number or decimal string.
func coordinate(fields map[string]json.RawMessage, key string) (float64, error) {
	invalid := domain.NewValidationError(key, key+" must be a number")

	raw, ok := fields[key]
	if !ok {
		return 0, invalid
	}

	var v float64
	switch {
	case len(raw) > 0 && raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, invalid
		}
		s = strings.TrimSpace(s)
		if !decimalNumber.MatchString(s) {
			return 0, invalid
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, invalid
		}
		v = f
	default:
		// json.Unmarshal treats null as a no-op, so reject it explicitly.
		if string(raw) == "null" {
			return 0, invalid
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return 0, invalid
		}
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, invalid
	}
	return v, nil
}

// text reads an optional string field. Absent and null both mean empty.
func text(fields map[string]json.RawMessage, key string) (string, error) {
	raw, ok := fields[key]
	if !ok || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", domain.NewValidationError(key, key+" must be a string")
	}
	return s, nil
}
