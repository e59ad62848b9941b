package services

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/smarttransit/transit-data-service/internal/models"
)

// ItineraryValidator checks that a line's stop offsets strictly increase
// along the itinerary. In strict mode a violation is an error; otherwise it
// is logged and reported back so callers can surface it without failing.
type ItineraryValidator struct {
	strict bool
	logger *logrus.Logger
}

// NewItineraryValidator creates a validator. Pass strict=true to make
// monotonicity violations hard errors.
func NewItineraryValidator(strict bool, logger *logrus.Logger) *ItineraryValidator {
	return &ItineraryValidator{strict: strict, logger: logger}
}

// ItineraryIssue describes one monotonicity violation between two adjacent
// itinerary entries.
type ItineraryIssue struct {
	Position      int    `json:"position"`
	StopID        string `json:"stop_id"`
	OffsetSeconds int    `json:"offset_seconds"`
	PrevOffset    int    `json:"prev_offset_seconds"`
}

// Validate walks the itinerary in stored order and collects every entry
// whose offset does not strictly exceed its predecessor's. In strict mode
// the first violation aborts with a validation error.
func (v *ItineraryValidator) Validate(lineID string, entries []*models.ItineraryEntry) ([]ItineraryIssue, error) {
	var issues []ItineraryIssue

	for i := 1; i < len(entries); i++ {
		prev, cur := entries[i-1], entries[i]
		if cur.OffsetSeconds > prev.OffsetSeconds {
			continue
		}

		issue := ItineraryIssue{
			Position:      i,
			StopID:        cur.StopID,
			OffsetSeconds: cur.OffsetSeconds,
			PrevOffset:    prev.OffsetSeconds,
		}

		if v.strict {
			return nil, fmt.Errorf("itinerary of line %s not strictly increasing at position %d (offset %d after %d): %w",
				lineID, i, cur.OffsetSeconds, prev.OffsetSeconds, models.ErrValidation)
		}

		v.logger.WithFields(logrus.Fields{
			"line_id":  lineID,
			"position": i,
			"offset":   cur.OffsetSeconds,
			"previous": prev.OffsetSeconds,
		}).Warn("Itinerary offsets not strictly increasing")

		issues = append(issues, issue)
	}

	return issues, nil
}
