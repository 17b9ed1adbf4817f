package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-2.0-flash"

var ErrEmptyResponse = errors.New("no response candidates from Gemini")

// GeminiProvider implements LocationExtractor using Google's Gemini models.
type GeminiProvider struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiProvider initializes a new Gemini client.
// apiKey should be provided from environment variables.
func NewGeminiProvider(ctx context.Context, apiKey, modelName string) (*GeminiProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("gemini: missing api key")
	}
	if modelName == "" {
		modelName = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)

	// Force JSON response for structured parsing.
	model.ResponseMIMEType = "application/json"

	// Extraction wants the same answer every time.
	model.SetTemperature(0.1)

	return &GeminiProvider{
		client: client,
		model:  model,
	}, nil
}

// Close cleans up the Gemini client resources.
func (p *GeminiProvider) Close() {
	p.client.Close()
}

// ExtractLocations asks the model for the pickup and destination named in utterance.
func (p *GeminiProvider) ExtractLocations(ctx context.Context, utterance string, currentContext map[string]string) (*LocationResult, error) {
	fullPrompt := fmt.Sprintf("%s\n\nUser Message: %s", buildSystemPrompt(currentContext), utterance)

	resp, err := p.model.GenerateContent(ctx, genai.Text(fullPrompt))
	if err != nil {
		return nil, fmt.Errorf("gemini generation error: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, ErrEmptyResponse
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		}
	}

	return parseLocationResult(responseText.String())
}

func parseLocationResult(raw string) (*LocationResult, error) {
	cleanJSON := cleanJSONString(raw)

	var result LocationResult
	if err := json.Unmarshal([]byte(cleanJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w. Raw: %s", err, cleanJSON)
	}
	result.Source = blankToNil(result.Source)
	result.Destination = blankToNil(result.Destination)
	if result.Confidence < 0 {
		result.Confidence = 0
	}
	if result.Confidence > 1 {
		result.Confidence = 1
	}
	return &result, nil
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" || strings.EqualFold(v, "null") {
		return nil
	}
	return &v
}

// buildSystemPrompt constructs the instructions for the AI.
func buildSystemPrompt(ctxMap map[string]string) string {
	currentTime := ctxMap["current_time"]
	knownSource := ctxMap["known_source"]
	knownDestination := ctxMap["known_destination"]

	if currentTime == "" {
		currentTime = "UNKNOWN_TIME"
	}
	if knownSource == "" {
		knownSource = "NONE"
	}
	if knownDestination == "" {
		knownDestination = "NONE"
	}

	return fmt.Sprintf(`Role: You extract trip endpoints for "SwiftCab", a cab booking assistant.
Context:
- Current System Time: %s
- Known Pickup: %s
- Known Destination: %s

RULES:
1. Only extract places the user actually names. Never invent or guess a place.
2. "from X" or "pick me up at X" -> source. "to X", "towards X", "drop me at X" -> destination.
3. Strip dates, times, car types and trip types from the place names
   (e.g. "Downtown tomorrow at 6pm" -> "Downtown").
4. Keep the place as the user wrote it; do not expand abbreviations.
5. If a field is not mentioned, set it to null.
6. "confidence" is your certainty in [0, 1] that both non-null fields are right.

Output JSON Schema:
{
  "source": "string or null",
  "destination": "string or null",
  "confidence": number
}
`, currentTime, knownSource, knownDestination)
}

// cleanJSONString removes markdown code blocks if present (e.g. ```json ... ```)
func cleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}

var _ LocationExtractor = (*GeminiProvider)(nil)
