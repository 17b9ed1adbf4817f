package ai

import (
	"context"
)

// LocationExtractor defines the contract for an AI-backed pickup/destination extractor.
// Implementations may return nil fields when the utterance does not name a place.
type LocationExtractor interface {
	// ExtractLocations reads one rider utterance and returns the places it mentions.
	// currentContext carries dynamic hints such as "current_time" and "known_source".
	ExtractLocations(ctx context.Context, utterance string, currentContext map[string]string) (*LocationResult, error)
}
