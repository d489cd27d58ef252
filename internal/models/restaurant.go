// internal/models/restaurant.go
package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Cuisines is the fixed set the dialog accepts; everything else ingests as "other".
var Cuisines = map[string]bool{
	"chinese":  true,
	"japanese": true,
	"italian":  true,
	"mexican":  true,
	"american": true,
}

const CuisineOther = "other"

// Attr is a loosely typed record attribute. Depending on which pipeline wrote
// the record, a field arrives either as a plain JSON value or wrapped in a
// single-key export shape like {"S":"0700"} or {"N":"4.5"}. Unwrapping happens
// once, at unmarshal time, so everything downstream sees plain values.
type Attr struct {
	value interface{}
}

func NewAttr(v interface{}) Attr {
	return Attr{value: Unwrap(v)}
}

func (a *Attr) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	a.value = Unwrap(v)
	return nil
}

func (a Attr) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.value)
}

// IsZero reports whether the attribute is absent or empty.
func (a Attr) IsZero() bool {
	switch v := a.value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	default:
		return false
	}
}

// String returns the attribute as a trimmed string, or "" when absent.
func (a Attr) String() string {
	switch v := a.value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		b, _ := json.Marshal(v)
		return string(b)
	}
}

// Float returns the attribute as a float64 when it is numeric or a numeric
// string; ok is false otherwise.
func (a Attr) Float() (float64, bool) {
	switch v := a.value.(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Unwrap normalizes a decoded JSON value: a single-key map tagged S, N or
// BOOL collapses to its plain value (N parses to float64 when it can).
// Everything else passes through untouched.
func Unwrap(v interface{}) interface{} {
	m, ok := v.(map[string]interface{})
	if !ok || len(m) != 1 {
		return v
	}
	for tag, inner := range m {
		switch tag {
		case "S":
			return inner
		case "BOOL":
			return inner
		case "N":
			if s, ok := inner.(string); ok {
				if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
					return f
				}
				return s
			}
			return inner
		}
	}
	return v
}

// Coordinates is a point location.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Location is the structured address shape from the directory.
type Location struct {
	Address1 Attr `json:"address1,omitempty"`
	Address2 Attr `json:"address2,omitempty"`
	City     Attr `json:"city,omitempty"`
	State    Attr `json:"state,omitempty"`
	ZipCode  Attr `json:"zip_code,omitempty"`
}

// HoursWindow is one raw business-hours entry. Start and End are 4-digit or
// colon-separated 24-hour time strings, possibly export-wrapped.
type HoursWindow struct {
	Start Attr `json:"start"`
	End   Attr `json:"end"`
}

// RestaurantRecord is the unit of data flowing through the pipeline. It is
// created by ingestion and read-only everywhere else.
type RestaurantRecord struct {
	BusinessID    string        `json:"business_id"`
	Cuisine       string        `json:"cuisine"`
	Name          Attr          `json:"name"`
	Rating        Attr          `json:"rating"`
	ReviewCount   int           `json:"review_count"`
	Price         Attr          `json:"price"`
	Address       Attr          `json:"address,omitempty"`
	Location      *Location     `json:"location,omitempty"`
	ZipCode       Attr          `json:"zip_code,omitempty"`
	Coordinates   *Coordinates  `json:"coordinates,omitempty"`
	BusinessHours []HoursWindow `json:"business_hours,omitempty"`
}

// UnmarshalJSON accepts business_hours either as a single window object or as
// a list of windows, the two shapes the store contains.
func (r *RestaurantRecord) UnmarshalJSON(b []byte) error {
	type alias RestaurantRecord
	aux := struct {
		*alias
		BusinessHours json.RawMessage `json:"business_hours,omitempty"`
	}{alias: (*alias)(r)}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	r.BusinessHours = nil
	if len(aux.BusinessHours) == 0 {
		return nil
	}

	trimmed := strings.TrimSpace(string(aux.BusinessHours))
	switch {
	case strings.HasPrefix(trimmed, "["):
		var windows []HoursWindow
		if err := json.Unmarshal(aux.BusinessHours, &windows); err != nil {
			return err
		}
		r.BusinessHours = windows
	case strings.HasPrefix(trimmed, "{"):
		var w HoursWindow
		if err := json.Unmarshal(aux.BusinessHours, &w); err != nil {
			return err
		}
		if !w.Start.IsZero() || !w.End.IsZero() {
			r.BusinessHours = []HoursWindow{w}
		}
	}
	return nil
}

// RatingValue returns the numeric rating, or 0 when absent or non-numeric.
func (r *RestaurantRecord) RatingValue() float64 {
	f, _ := r.Rating.Float()
	return f
}

// ComposeAddress prefers the pre-composed address string and otherwise joins
// the non-empty structured parts: street1, street2, "city, state", zip.
// Returns "N/A" when nothing is available.
func (r *RestaurantRecord) ComposeAddress() string {
	if s := r.Address.String(); s != "" {
		return s
	}

	var parts []string
	var city, state, zip string
	if r.Location != nil {
		if s := r.Location.Address1.String(); s != "" {
			parts = append(parts, s)
		}
		if s := r.Location.Address2.String(); s != "" {
			parts = append(parts, s)
		}
		city = r.Location.City.String()
		state = r.Location.State.String()
		zip = r.Location.ZipCode.String()
	}

	var cityState []string
	if city != "" {
		cityState = append(cityState, city)
	}
	if state != "" {
		cityState = append(cityState, state)
	}
	if len(cityState) > 0 {
		parts = append(parts, strings.Join(cityState, ", "))
	}

	if s := r.ZipCode.String(); s != "" {
		zip = s
	}
	if zip != "" {
		parts = append(parts, zip)
	}

	if len(parts) == 0 {
		return "N/A"
	}
	return strings.Join(parts, ", ")
}
