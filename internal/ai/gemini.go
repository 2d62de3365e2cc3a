package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const modelName = "gemini-1.5-flash"

// analystInstruction keeps summaries short and focused on the numbers.
const analystInstruction = `You are a financial analysis assistant for a construction rollout team.
Interpret the team's logged expenses.

Goals:
1. A quick summary of spending.
2. Flag deviations or spikes.
3. Points of attention.

Guidelines:
- SHORT answers (max 5 lines).
- Straight to the point, no filler.
- Focus on the numbers and the categories that spent the most.`

// GeminiClient implements Client against the Gemini API.
type GeminiClient struct {
	client      *genai.Client
	textModel   *genai.GenerativeModel
	visionModel *genai.GenerativeModel
}

// NewGeminiClient creates a Gemini-backed Client. The text model carries
// the analyst system instruction; the vision model is left unrestricted so
// structured extraction prompts are followed verbatim.
func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is empty")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	textModel := client.GenerativeModel(modelName)
	textModel.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(analystInstruction)},
	}

	return &GeminiClient{
		client:      client,
		textModel:   textModel,
		visionModel: client.GenerativeModel(modelName),
	}, nil
}

// GenerateText implements Client.
func (c *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := c.textModel.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini text generation failed: %w", err)
	}
	return responseText(resp)
}

// GenerateVision implements Client.
func (c *GeminiClient) GenerateVision(ctx context.Context, prompt string, imageFormat string, image []byte) (string, error) {
	resp, err := c.visionModel.GenerateContent(ctx, genai.Text(prompt), genai.ImageData(imageFormat, image))
	if err != nil {
		return "", fmt.Errorf("gemini vision generation failed: %w", err)
	}
	return responseText(resp)
}

// Close releases the underlying API connection.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// responseText flattens the first candidate's text parts.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("gemini returned no text parts")
	}
	return sb.String(), nil
}
