package booking

import (
	"errors"
	"testing"
	"time"

	"swiftcab/internal/types"
)

func TestParseVehicleClass(t *testing.T) {
	tests := []struct {
		in   string
		want VehicleClass
		ok   bool
	}{
		{"sedan", VehicleSedan, true},
		{" SUV ", VehicleSuv, true},
		{"Hatchback", VehicleHatchback, true},
		{"bike", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseVehicleClass(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseVehicleClass(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestTripTypeNormalization(t *testing.T) {
	tests := []struct {
		in       string
		accepted bool
		want     TripType
	}{
		{"one way", true, TripOneWay},
		{"Round trip please", true, TripRoundTrip},
		{"round-trip", true, TripRoundTrip},
		{"return", true, "Return"},
		{"someone", true, TripOneWay},
		{"around town", true, TripRoundTrip},
		{"single", false, ""},
	}
	for _, tt := range tests {
		if got := IsTripReply(tt.in); got != tt.accepted {
			t.Errorf("IsTripReply(%q) = %v, want %v", tt.in, got, tt.accepted)
		}
		if !tt.accepted {
			continue
		}
		if got := NormalizeTripType(tt.in); got != tt.want {
			t.Errorf("NormalizeTripType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseField(t *testing.T) {
	tests := []struct {
		in   string
		want Field
	}{
		{"source", FieldSource},
		{"Destination", FieldDestination},
		{"datetime", FieldTravelTime},
		{"travel time", FieldTravelTime},
		{"car_type", FieldVehicleClass},
		{"vehicle-class", FieldVehicleClass},
		{"trip", FieldTripType},
	}
	for _, tt := range tests {
		got, err := ParseField(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseField(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseField("fare"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("fare must not be editable, got %v", err)
	}
}

func TestRequestSlots(t *testing.T) {
	var r Request
	if len(r.Missing()) != len(Fields) {
		t.Fatalf("Missing() = %v", r.Missing())
	}

	loc := time.FixedZone("IST", 5*3600+1800)
	r.Source = "Airport"
	r.Destination = "Downtown"
	r.SetTravelTime(time.Date(2026, 10, 18, 18, 0, 42, 0, loc))
	r.VehicleClass = VehicleSedan
	r.TripType = TripOneWay
	if m := r.Missing(); len(m) != 0 {
		t.Fatalf("expected every slot set, missing %v", m)
	}
	if r.TravelTime.Second() != 0 {
		t.Fatalf("seconds not dropped: %v", r.TravelTime)
	}
	if got := r.Value(FieldTravelTime); got != "2026-10-18 06:00 PM" {
		t.Fatalf("Value(travel_time) = %q", got)
	}

	r.SetFare(types.Money{Amount: 3175, Currency: "INR"})
	if r.Fare == nil || r.Fare.Amount != 3175 {
		t.Fatalf("fare not set: %+v", r.Fare)
	}
	r.ClearFare()
	if r.Fare != nil {
		t.Fatal("fare not cleared")
	}
}

func TestTitleCase(t *testing.T) {
	tests := []struct{ in, want string }{
		{"  mg road  ", "Mg Road"},
		{"5th avenue", "5th Avenue"},
		{"terminal 2", "Terminal 2"},
		{"SECTOR 21st", "Sector 21st"},
	}
	for _, tt := range tests {
		if got := TitleCase(tt.in); got != tt.want {
			t.Errorf("TitleCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
