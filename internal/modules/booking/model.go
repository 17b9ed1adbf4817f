// README: Booking request entity, slot enums and edit field names.
package booking

import (
	"errors"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"swiftcab/internal/types"
)

type VehicleClass string

const (
	VehicleSedan     VehicleClass = "Sedan"
	VehicleSuv       VehicleClass = "Suv"
	VehicleHatchback VehicleClass = "Hatchback"
)

// VehicleClasses is the closed set offered to the rider, in prompt order.
var VehicleClasses = []VehicleClass{VehicleSedan, VehicleSuv, VehicleHatchback}

type TripType string

const (
	TripOneWay    TripType = "One Way"
	TripRoundTrip TripType = "Round Trip"
)

// tripTokens are accepted anywhere in a trip-type reply. The bare "one" and
// "round" entries also match inside unrelated words ("someone", "around").
var tripTokens = []string{"one way", "round trip", "round-trip", "return", "one", "round"}

type Field string

const (
	FieldSource       Field = "source"
	FieldDestination  Field = "destination"
	FieldTravelTime   Field = "travel_time"
	FieldVehicleClass Field = "vehicle_class"
	FieldTripType     Field = "trip_type"
)

// Fields lists the editable slots in slot-filling order.
var Fields = []Field{FieldSource, FieldDestination, FieldTravelTime, FieldVehicleClass, FieldTripType}

var fieldAliases = map[string]Field{
	"source":        FieldSource,
	"pickup":        FieldSource,
	"from":          FieldSource,
	"destination":   FieldDestination,
	"dropoff":       FieldDestination,
	"to":            FieldDestination,
	"travel_time":   FieldTravelTime,
	"datetime":      FieldTravelTime,
	"date":          FieldTravelTime,
	"time":          FieldTravelTime,
	"vehicle_class": FieldVehicleClass,
	"car_type":      FieldVehicleClass,
	"car":           FieldVehicleClass,
	"vehicle":       FieldVehicleClass,
	"trip_type":     FieldTripType,
	"trip":          FieldTripType,
}

var ErrUnknownField = errors.New("unknown booking field")

// Label is the human-readable slot name used in confirmations.
func (f Field) Label() string {
	switch f {
	case FieldSource:
		return "Source"
	case FieldDestination:
		return "Destination"
	case FieldTravelTime:
		return "Travel time"
	case FieldVehicleClass:
		return "Car type"
	case FieldTripType:
		return "Trip type"
	default:
		return string(f)
	}
}

// TimeLayout renders travel times in summaries and confirmations.
const TimeLayout = "2006-01-02 03:04 PM"

// Request is the booking under construction. It is owned by one conversation
// and passed explicitly between steps.
type Request struct {
	Source       string       `json:"source,omitempty"`
	Destination  string       `json:"destination,omitempty"`
	TravelTime   time.Time    `json:"travel_time"`
	VehicleClass VehicleClass `json:"vehicle_class,omitempty"`
	TripType     TripType     `json:"trip_type,omitempty"`
	Fare         *types.Money `json:"fare,omitempty"`
}

func (r *Request) HasTravelTime() bool {
	return !r.TravelTime.IsZero()
}

// Missing returns the unset pre-fare slots in filling order.
func (r *Request) Missing() []Field {
	var out []Field
	if r.Source == "" {
		out = append(out, FieldSource)
	}
	if r.Destination == "" {
		out = append(out, FieldDestination)
	}
	if !r.HasTravelTime() {
		out = append(out, FieldTravelTime)
	}
	if r.VehicleClass == "" {
		out = append(out, FieldVehicleClass)
	}
	if r.TripType == "" {
		out = append(out, FieldTripType)
	}
	return out
}

// SetTravelTime stores t with seconds dropped so the slot always holds a minute-precision timestamp.
func (r *Request) SetTravelTime(t time.Time) {
	r.TravelTime = t.Truncate(time.Minute)
}

func (r *Request) SetFare(m types.Money) {
	r.Fare = &m
}

func (r *Request) ClearFare() {
	r.Fare = nil
}

// Value renders a slot for confirmations and the summary.
func (r *Request) Value(f Field) string {
	switch f {
	case FieldSource:
		return r.Source
	case FieldDestination:
		return r.Destination
	case FieldTravelTime:
		if !r.HasTravelTime() {
			return ""
		}
		return r.TravelTime.Format(TimeLayout)
	case FieldVehicleClass:
		return string(r.VehicleClass)
	case FieldTripType:
		return string(r.TripType)
	default:
		return ""
	}
}

// TitleCase upper-cases the first letter of each word and collapses spacing.
// Words that start with a digit ("5th", "21st") stay lower case.
func TitleCase(s string) string {
	caser := cases.Title(language.English)
	words := strings.Fields(s)
	for i, w := range words {
		if unicode.IsDigit([]rune(w)[0]) {
			words[i] = strings.ToLower(w)
			continue
		}
		words[i] = caser.String(w)
	}
	return strings.Join(words, " ")
}

// ParseVehicleClass accepts only the closed set, case-insensitively.
func ParseVehicleClass(s string) (VehicleClass, bool) {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, c := range VehicleClasses {
		if strings.ToLower(string(c)) == v {
			return c, true
		}
	}
	return "", false
}

// IsTripReply reports whether s contains any accepted trip-type token.
func IsTripReply(s string) bool {
	v := strings.ToLower(s)
	for _, tok := range tripTokens {
		if strings.Contains(v, tok) {
			return true
		}
	}
	return false
}

// NormalizeTripType maps anything mentioning "round" to Round Trip, anything
// mentioning "one" to One Way, and keeps other input title-cased.
func NormalizeTripType(s string) TripType {
	v := strings.ToLower(s)
	switch {
	case strings.Contains(v, "round"):
		return TripRoundTrip
	case strings.Contains(v, "one"):
		return TripOneWay
	default:
		return TripType(TitleCase(s))
	}
}

// ParseField resolves an edit field name or alias. Spaces and hyphens are
// treated as underscores.
func ParseField(s string) (Field, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	if f, ok := fieldAliases[key]; ok {
		return f, nil
	}
	return "", ErrUnknownField
}
