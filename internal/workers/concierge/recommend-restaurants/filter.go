// internal/workers/concierge/recommend-restaurants/filter.go
package recommendrestaurants

import (
	"fmt"

	"github.com/sankirthk/Dining-Concierge/internal/common/logger"
	"github.com/sankirthk/Dining-Concierge/internal/models"
)

// FilterByDiningTime keeps the records open at the requested time. A record
// passes when any of its hours windows contains the time. Records without a
// single parseable window are handled per the policy; malformed windows on a
// record that also has good ones are skipped, not fatal.
//
// A malformed queryTime is an error, never coerced to a default.
func FilterByDiningTime(records []models.RestaurantRecord, queryTime string, policy UnknownHoursPolicy, log logger.Logger) ([]models.RestaurantRecord, error) {
	minute, err := models.ParseMinutes(queryTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTimeParseFailed, err)
	}

	kept := records[:0:0]
	for _, rec := range records {
		open, known := openAt(rec, minute, log)
		if open || (!known && policy == IncludeUnknownHours) {
			kept = append(kept, rec)
		}
	}
	return kept, nil
}

// openAt reports whether the record is open at the given minute. known is
// false when the record had no parseable hours window at all.
func openAt(rec models.RestaurantRecord, minute int, log logger.Logger) (open, known bool) {
	for _, raw := range rec.BusinessHours {
		w, err := models.ParseWindow(raw)
		if err != nil {
			log.Warn("skipping malformed hours window", map[string]interface{}{
				"businessId": rec.BusinessID,
				"start":      raw.Start.String(),
				"end":        raw.End.String(),
			})
			continue
		}
		known = true
		if w.Contains(minute) {
			return true, true
		}
	}
	return false, known
}
