package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMinutes(t *testing.T) {
	tests := []struct {
		input    string
		expected int
		wantErr  bool
	}{
		{input: "0930", expected: 570},
		{input: "930", expected: 570},
		{input: "09:30", expected: 570},
		{input: "9:30", expected: 570},
		{input: "0000", expected: 0},
		{input: "23:59", expected: 1439},
		{input: "2400", wantErr: true},
		{input: "12:60", wantErr: true},
		{input: "noon", wantErr: true},
		{input: "", wantErr: true},
		{input: "7", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMinutes(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFormatMinutesRoundTrip(t *testing.T) {
	for _, raw := range []string{"0700", "7:00", "07:00", "2330", "0005"} {
		m, err := ParseMinutes(raw)
		require.NoError(t, err)

		formatted := FormatMinutes(m)
		m2, err := ParseMinutes(formatted)
		require.NoError(t, err)
		assert.Equal(t, m, m2)
		assert.Equal(t, formatted, FormatMinutes(m2))
	}

	assert.Equal(t, "07:05", FormatMinutes(425))
	assert.Equal(t, "00:00", FormatMinutes(0))
}

func TestTimeWindowContains(t *testing.T) {
	overnight := TimeWindow{Start: 22 * 60, End: 2 * 60}
	assert.True(t, overnight.Contains(23*60+30))
	assert.True(t, overnight.Contains(1*60))
	assert.True(t, overnight.Contains(22*60))
	assert.False(t, overnight.Contains(2*60))
	assert.False(t, overnight.Contains(12*60))

	allDay := TimeWindow{Start: 9 * 60, End: 9 * 60}
	assert.True(t, allDay.AlwaysOpen())
	for _, m := range []int{0, 9 * 60, 12 * 60, 23*60 + 59} {
		assert.True(t, allDay.Contains(m))
	}

	daytime := TimeWindow{Start: 9 * 60, End: 17 * 60}
	assert.True(t, daytime.Contains(9*60))
	assert.True(t, daytime.Contains(16*60+59))
	assert.False(t, daytime.Contains(17*60))
	assert.False(t, daytime.Contains(8*60))
}

func TestParseWindow(t *testing.T) {
	w, err := ParseWindow(HoursWindow{Start: NewAttr("0700"), End: NewAttr("1500")})
	require.NoError(t, err)
	assert.Equal(t, TimeWindow{Start: 420, End: 900}, w)

	_, err = ParseWindow(HoursWindow{Start: NewAttr("bad"), End: NewAttr("1500")})
	assert.Error(t, err)

	_, err = ParseWindow(HoursWindow{Start: NewAttr("0700")})
	assert.Error(t, err)
}
