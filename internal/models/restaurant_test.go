package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnwrapExportShapes(t *testing.T) {
	assert.Equal(t, "0700", Unwrap(map[string]interface{}{"S": "0700"}))
	assert.Equal(t, 4.5, Unwrap(map[string]interface{}{"N": "4.5"}))
	assert.Equal(t, true, Unwrap(map[string]interface{}{"BOOL": true}))

	// Plain values and multi-key maps pass through untouched.
	assert.Equal(t, "plain", Unwrap("plain"))
	multi := map[string]interface{}{"S": "a", "N": "1"}
	assert.Equal(t, multi, Unwrap(multi))
	other := map[string]interface{}{"start": "0700"}
	assert.Equal(t, other, Unwrap(other))
}

func TestAttrUnmarshalUnwraps(t *testing.T) {
	var r RestaurantRecord
	raw := `{
		"business_id": "abc123",
		"cuisine": "japanese",
		"name": {"S": "Sushi Yasuda"},
		"rating": {"N": "4.5"},
		"business_hours": {"start": {"S": "1100"}, "end": {"S": "2200"}}
	}`
	require.NoError(t, json.Unmarshal([]byte(raw), &r))

	assert.Equal(t, "Sushi Yasuda", r.Name.String())
	assert.Equal(t, 4.5, r.RatingValue())
	require.Len(t, r.BusinessHours, 1)
	assert.Equal(t, "1100", r.BusinessHours[0].Start.String())
	assert.Equal(t, "2200", r.BusinessHours[0].End.String())
}

func TestRestaurantRecordHoursList(t *testing.T) {
	var r RestaurantRecord
	raw := `{
		"business_id": "abc123",
		"business_hours": [
			{"start": "0700", "end": "1500"},
			{"start": "1700", "end": "2300"}
		]
	}`
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	assert.Len(t, r.BusinessHours, 2)
}

func TestComposeAddress(t *testing.T) {
	tests := []struct {
		name     string
		record   RestaurantRecord
		expected string
	}{
		{
			name:     "precomposed address wins",
			record:   RestaurantRecord{Address: NewAttr("1 Main St, New York, NY, 10001"), Location: &Location{City: NewAttr("Boston")}},
			expected: "1 Main St, New York, NY, 10001",
		},
		{
			name: "structured parts joined",
			record: RestaurantRecord{Location: &Location{
				Address1: NewAttr("204 E 43rd St"),
				City:     NewAttr("New York"),
				State:    NewAttr("NY"),
				ZipCode:  NewAttr("10017"),
			}},
			expected: "204 E 43rd St, New York, NY, 10017",
		},
		{
			name: "top level zip overrides location zip",
			record: RestaurantRecord{
				ZipCode:  NewAttr("10001"),
				Location: &Location{City: NewAttr("New York"), ZipCode: NewAttr("99999")},
			},
			expected: "New York, 10001",
		},
		{
			name:     "nothing available",
			record:   RestaurantRecord{},
			expected: "N/A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.record.ComposeAddress())
		})
	}
}

func TestAttrFloat(t *testing.T) {
	f, ok := NewAttr("4.5").Float()
	assert.True(t, ok)
	assert.Equal(t, 4.5, f)

	_, ok = NewAttr("not a number").Float()
	assert.False(t, ok)

	_, ok = Attr{}.Float()
	assert.False(t, ok)
}
