package pricing

import (
	"context"
	"math/rand/v2"
	"testing"

	"swiftcab/internal/modules/booking"
)

func TestService_EstimateStaysInRange(t *testing.T) {
	tests := []struct {
		class booking.VehicleClass
		base  int64
	}{
		{booking.VehicleSedan, 3500},
		{booking.VehicleSuv, 4000},
		{booking.VehicleHatchback, 3000},
		{"Limousine", 3500},
		{"", 3500},
	}

	s := NewService(NewStore("INR"), WithRand(rand.New(rand.NewPCG(1, 2))))

	for _, tt := range tests {
		t.Run(string(tt.class), func(t *testing.T) {
			for i := 0; i < 500; i++ {
				got, err := s.Estimate(context.Background(), tt.class)
				if err != nil {
					t.Fatalf("Estimate() error = %v", err)
				}
				if got.Amount < tt.base+JitterMin || got.Amount > tt.base+JitterMax {
					t.Fatalf("Estimate() = %d, want within [%d, %d]", got.Amount, tt.base+JitterMin, tt.base+JitterMax)
				}
				if got.Currency != "INR" {
					t.Fatalf("currency = %q", got.Currency)
				}
			}
		})
	}
}

func TestService_EstimateRedrawsEveryCall(t *testing.T) {
	s := NewService(NewStore("INR"), WithRand(rand.New(rand.NewPCG(7, 7))))
	seen := map[int64]bool{}
	for i := 0; i < 50; i++ {
		got, _ := s.Estimate(context.Background(), booking.VehicleSedan)
		seen[got.Amount] = true
	}
	if len(seen) < 2 {
		t.Fatalf("expected independent draws, got %v", seen)
	}
}

func TestService_EstimateCoversBounds(t *testing.T) {
	lowHit, highHit := false, false
	s := NewService(NewStore("INR"), WithRand(rand.New(rand.NewPCG(3, 4))))
	for i := 0; i < 20000 && !(lowHit && highHit); i++ {
		got, _ := s.Estimate(context.Background(), booking.VehicleHatchback)
		lowHit = lowHit || got.Amount == 3000+JitterMin
		highHit = highHit || got.Amount == 3000+JitterMax
	}
	if !lowHit || !highHit {
		t.Fatalf("bounds not reachable: low=%v high=%v", lowHit, highHit)
	}
}

func TestService_EstimateHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewService(NewStore("INR")).Estimate(ctx, booking.VehicleSedan); err == nil {
		t.Fatal("expected context error")
	}
}
