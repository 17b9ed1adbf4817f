package ai

// LocationResult captures the structured output from the AI model.
type LocationResult struct {
	// Source is the pickup place. Nullable because many utterances only name where the rider is going.
	Source *string `json:"source,omitempty"`

	// Destination is the drop-off place extracted from the user's input.
	Destination *string `json:"destination,omitempty"`

	// Confidence is the model's own estimate in [0, 1] that both fields are right.
	Confidence float64 `json:"confidence"`
}

// Values returns the extracted places with nil fields as empty strings.
func (r *LocationResult) Values() (source, destination string) {
	if r == nil {
		return "", ""
	}
	if r.Source != nil {
		source = *r.Source
	}
	if r.Destination != nil {
		destination = *r.Destination
	}
	return source, destination
}
