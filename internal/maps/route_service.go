// README: Driving time and distance between two named places via the Google Maps Directions API.
package maps

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"googlemaps.github.io/maps"
)

var (
	ErrMissingAPIKey = errors.New("maps: missing api key")
	ErrNoRoute       = errors.New("no route found")
)

// RouteEstimate is an informational drive estimate; it never feeds pricing.
type RouteEstimate struct {
	Duration time.Duration
	Distance string
}

// String renders e.g. "~42 min, 18.3 km".
func (e RouteEstimate) String() string {
	return fmt.Sprintf("~%d min, %s", int(e.Duration.Round(time.Minute).Minutes()), e.Distance)
}

// RouteService handles interactions with Google Maps API.
type RouteService struct {
	client   *maps.Client
	region   string
	language string
}

// NewRouteService creates a new RouteService with the given API Key.
// region biases place lookups (e.g. "IN"); language localizes the distance text.
func NewRouteService(apiKey, region, language string) (*RouteService, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &RouteService{client: client, region: region, language: language}, nil
}

// GetTravelEstimate returns the duration and distance for a trip from origin to destination.
// It assumes driving mode.
func (s *RouteService) GetTravelEstimate(ctx context.Context, origin, destination string) (RouteEstimate, error) {
	r := &maps.DirectionsRequest{
		Origin:      origin,
		Destination: destination,
		Mode:        maps.TravelModeDriving,
		Language:    s.language,
		Region:      s.region,
	}

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		return RouteEstimate{}, fmt.Errorf("maps api error: %w", err)
	}

	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return RouteEstimate{}, ErrNoRoute
	}

	leg := routes[0].Legs[0]
	return RouteEstimate{Duration: leg.Duration, Distance: leg.Distance.HumanReadable}, nil
}
