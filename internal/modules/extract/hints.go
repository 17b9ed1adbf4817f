package extract

import (
	"regexp"
	"strings"

	"swiftcab/internal/modules/booking"
)

var (
	vehicleHintRe = regexp.MustCompile(`(?i)\b(sedan|suv|hatchback)\b`)
	tripHintRe    = regexp.MustCompile(`(?i)\b(one[\s-]?way|round[\s-]?trip|return trip)\b`)
)

// Hints are slot values stated outright in the opening utterance.
type Hints struct {
	VehicleClass booking.VehicleClass
	TripType     booking.TripType
}

// ScanHints looks for a whole-word vehicle class and trip-type phrase.
func ScanHints(utterance string) Hints {
	var h Hints
	if m := vehicleHintRe.FindString(utterance); m != "" {
		h.VehicleClass, _ = booking.ParseVehicleClass(m)
	}
	if m := tripHintRe.FindString(utterance); m != "" {
		if strings.HasPrefix(strings.ToLower(m), "one") {
			h.TripType = booking.TripOneWay
		} else {
			h.TripType = booking.TripRoundTrip
		}
	}
	return h
}
