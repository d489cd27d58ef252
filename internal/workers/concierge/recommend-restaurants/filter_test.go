package recommendrestaurants

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sankirthk/Dining-Concierge/internal/models"
)

func recordWithHours(id string, windows ...models.HoursWindow) models.RestaurantRecord {
	return models.RestaurantRecord{
		BusinessID:    id,
		Name:          models.NewAttr("Restaurant " + id),
		BusinessHours: windows,
	}
}

func window(start, end string) models.HoursWindow {
	return models.HoursWindow{Start: models.NewAttr(start), End: models.NewAttr(end)}
}

func TestFilterOvernightWindow(t *testing.T) {
	records := []models.RestaurantRecord{recordWithHours("night", window("2200", "0200"))}
	log := createTestLogger(t)

	for _, tc := range []struct {
		queryTime string
		open      bool
	}{
		{queryTime: "23:30", open: true},
		{queryTime: "01:00", open: true},
		{queryTime: "22:00", open: true},
		{queryTime: "02:00", open: false},
		{queryTime: "12:00", open: false},
	} {
		kept, err := FilterByDiningTime(records, tc.queryTime, ExcludeUnknownHours, log)
		require.NoError(t, err)
		if tc.open {
			assert.Len(t, kept, 1, "expected open at %s", tc.queryTime)
		} else {
			assert.Empty(t, kept, "expected closed at %s", tc.queryTime)
		}
	}
}

func TestFilterEqualEndpointsMeansAlwaysOpen(t *testing.T) {
	records := []models.RestaurantRecord{recordWithHours("allday", window("0900", "0900"))}
	log := createTestLogger(t)

	for _, queryTime := range []string{"00:00", "09:00", "12:00", "23:59"} {
		kept, err := FilterByDiningTime(records, queryTime, ExcludeUnknownHours, log)
		require.NoError(t, err)
		assert.Len(t, kept, 1, "expected open at %s", queryTime)
	}
}

func TestFilterUnknownHoursPolicy(t *testing.T) {
	records := []models.RestaurantRecord{
		recordWithHours("no-hours"),
		recordWithHours("bad-hours", window("late", "later")),
		recordWithHours("open", window("0900", "1700")),
	}
	log := createTestLogger(t)

	kept, err := FilterByDiningTime(records, "12:00", ExcludeUnknownHours, log)
	require.NoError(t, err)
	require.Len(t, kept, 1)
	assert.Equal(t, "open", kept[0].BusinessID)

	kept, err = FilterByDiningTime(records, "12:00", IncludeUnknownHours, log)
	require.NoError(t, err)
	require.Len(t, kept, 3)
}

func TestFilterSkipsMalformedWindowNotRecord(t *testing.T) {
	records := []models.RestaurantRecord{
		recordWithHours("mixed", window("junk", "0200"), window("0900", "1700")),
	}
	kept, err := FilterByDiningTime(records, "12:00", ExcludeUnknownHours, createTestLogger(t))
	require.NoError(t, err)
	assert.Len(t, kept, 1)

	// The good window does not cover the evening, and an unmatched record
	// with a known window is closed regardless of policy.
	kept, err = FilterByDiningTime(records, "20:00", IncludeUnknownHours, createTestLogger(t))
	require.NoError(t, err)
	assert.Empty(t, kept)
}

func TestFilterMalformedQueryTimeFails(t *testing.T) {
	records := []models.RestaurantRecord{recordWithHours("open", window("0900", "1700"))}

	_, err := FilterByDiningTime(records, "around eight", ExcludeUnknownHours, createTestLogger(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeParseFailed)
}
