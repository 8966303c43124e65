package oracle

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// Client is an Oracle backed by the OpenAI chat completions API. Every
// prompt demands a JSON object so responses parse directly into the
// result types.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient creates a new OpenAI-backed oracle.
func NewClient(apiKey, model string) *Client {
	return &Client{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// Ensure the interface is satisfied.
var _ Oracle = (*Client)(nil)

func (c *Client) completeJSON(ctx context.Context, system, prompt string, out any) error {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return fmt.Errorf("chat completion returned no choices")
	}

	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), out); err != nil {
		return fmt.Errorf("parse completion: %w", err)
	}

	return nil
}

// ScoreDriverDocuments asks the model to assess a driver's registration
// documents and recommend a verification outcome.
func (c *Client) ScoreDriverDocuments(ctx context.Context, name, licenseNumber, vehicleInfo string, documents map[string]string) (DocumentScore, error) {
	docs, err := json.Marshal(documents)
	if err != nil {
		return DocumentScore{}, fmt.Errorf("marshal documents: %w", err)
	}

	prompt := fmt.Sprintf(
		`Assess this driver registration for a ride-hailing platform.
Name: %s
License number: %s
Vehicle: %s
Documents: %s

Respond with a JSON object: {"rating": <1-10 integer>, "recommendation": "APPROVE"|"REJECT"|"MANUAL_REVIEW", "summary": "<one sentence>"}`,
		name, licenseNumber, vehicleInfo, docs,
	)

	var score DocumentScore
	if err := c.completeJSON(ctx, "You are a document verification assistant for a taxi platform. Respond only with JSON.", prompt, &score); err != nil {
		return DocumentScore{}, err
	}

	switch score.Recommendation {
	case RecommendationApprove, RecommendationReject, RecommendationManualReview:
	default:
		return DocumentScore{}, fmt.Errorf("unexpected recommendation %q", score.Recommendation)
	}
	if score.Rating < 1 || score.Rating > 10 {
		return DocumentScore{}, fmt.Errorf("rating %d out of range", score.Rating)
	}

	return score, nil
}

// OTPMessage asks the model to word a verification message carrying the code.
func (c *Client) OTPMessage(ctx context.Context, name, target, code, channel string) (string, error) {
	prompt := fmt.Sprintf(
		`Write a short verification message for %s, delivered via %s to %s. The code is %s and it must appear verbatim in the message. Respond with a JSON object: {"message": "<text>"}`,
		name, channel, target, code,
	)

	var out struct {
		Message string `json:"message"`
	}
	if err := c.completeJSON(ctx, "You write concise transactional messages. Respond only with JSON.", prompt, &out); err != nil {
		return "", err
	}
	if out.Message == "" {
		return "", fmt.Errorf("empty message")
	}

	return out.Message, nil
}

// Geocode resolves a free-text query to coordinates.
func (c *Client) Geocode(ctx context.Context, query string) (Place, error) {
	prompt := fmt.Sprintf(
		`Geocode this location query: %q. Respond with a JSON object: {"address": "<full address>", "city": "<city>", "country": "<country>", "lat": <latitude>, "lng": <longitude>}`,
		query,
	)

	var place Place
	if err := c.completeJSON(ctx, "You are a geocoding assistant. Respond only with JSON.", prompt, &place); err != nil {
		return Place{}, err
	}

	return place, nil
}

// ReverseGeocode resolves coordinates to an address.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lng float64) (Place, error) {
	prompt := fmt.Sprintf(
		`Reverse-geocode these coordinates: latitude %f, longitude %f. Respond with a JSON object: {"address": "<full address>", "city": "<city>", "country": "<country>", "lat": %f, "lng": %f}`,
		lat, lng, lat, lng,
	)

	var place Place
	if err := c.completeJSON(ctx, "You are a geocoding assistant. Respond only with JSON.", prompt, &place); err != nil {
		return Place{}, err
	}

	return place, nil
}

// SearchLocations returns autocomplete suggestions for a partial query.
func (c *Client) SearchLocations(ctx context.Context, query string) ([]Suggestion, error) {
	prompt := fmt.Sprintf(
		`Suggest up to 5 plausible locations matching the partial query %q. Respond with a JSON object: {"suggestions": [{"title": "<name>", "subtitle": "<area, city>", "lat": <latitude>, "lng": <longitude>}]}`,
		query,
	)

	var out struct {
		Suggestions []Suggestion `json:"suggestions"`
	}
	if err := c.completeJSON(ctx, "You are a location search assistant. Respond only with JSON.", prompt, &out); err != nil {
		return nil, err
	}

	return out.Suggestions, nil
}
