package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"armario-virtual/config"
	"armario-virtual/models"
)

// AIServiceInterface defines the contract for the multimodal AI collaborator
type AIServiceInterface interface {
	TagGarment(ctx context.Context, image []byte) (models.TagResult, error)
	RecommendOutfit(ctx context.Context, weather string, wardrobe []models.ItemSummary, bodyStyle string) (models.Recommendation, error)
	GenerateTryOn(ctx context.Context, prompt string, composite []byte) ([]byte, error)
}

const tagPrompt = `
Analyze this clothing image.
Return a JSON object with two fields:
1. "name": A short, creative name for this item in Traditional Chinese. Max 10 chars.
2. "category": One of these exact strings: "top", "bottom", "outerwear", "shoes", "accessory".
`

const recommendPrompt = `
Current Weather: %s.
User Wardrobe: %s.
User Body Style: %s.

Task:
1. Select the BEST outfit combination from the wardrobe for this weather.
2. Return a JSON object:
   {
     "selectedIds": ["id1", "id2", ...],
     "reason": "Traditional Chinese explanation of why this outfit fits the weather and style."
   }
`

// GeminiService talks to Gemini through the genai SDK.
// Calls are throttled by a shared rate limiter.
// Implements AIServiceInterface
type GeminiService struct {
	// api is nil when no API key is configured
	api        *genai.Models
	textModel  string
	imageModel string
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewGeminiService creates a new GeminiService.
// Without an API key the service is created but every call fails with ErrNetwork.
func NewGeminiService(ctx context.Context, cfg config.Gemini, httpClient *http.Client, logger *log.Logger) (*GeminiService, error) {
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	g := &GeminiService{
		textModel:  cfg.TextModel,
		imageModel: cfg.ImageModel,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
	}
	if cfg.APIKey == "" {
		return g, nil
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    cfg.BaseURL,
			APIVersion: cfg.APIVersion,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	g.api = client.Models
	return g, nil
}

// Ensure GeminiService implements AIServiceInterface
var _ AIServiceInterface = (*GeminiService)(nil)

// TagGarment asks the model for a name and category of one garment image
func (g *GeminiService) TagGarment(ctx context.Context, image []byte) (models.TagResult, error) {
	text, err := g.generateJSON(ctx, genai.NewPartFromText(tagPrompt), genai.NewPartFromBytes(image, "image/jpeg"))
	if err != nil {
		return models.TagResult{}, err
	}

	var result models.TagResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return models.TagResult{}, fmt.Errorf("%w: tag result is not JSON: %w", models.ErrPartialData, err)
	}
	result.Name = strings.TrimSpace(result.Name)
	if result.Name == "" {
		return models.TagResult{}, fmt.Errorf("%w: tag result has no name", models.ErrPartialData)
	}
	if !result.Category.Valid() {
		return models.TagResult{}, fmt.Errorf("%w: tag result has unknown category %q", models.ErrPartialData, result.Category)
	}
	return result, nil
}

// RecommendOutfit asks the model to pick an outfit for weather from wardrobe
func (g *GeminiService) RecommendOutfit(ctx context.Context, weather string, wardrobe []models.ItemSummary, bodyStyle string) (models.Recommendation, error) {
	list, err := json.Marshal(wardrobe)
	if err != nil {
		return models.Recommendation{}, fmt.Errorf("failed to encode wardrobe: %w", err)
	}

	prompt := fmt.Sprintf(recommendPrompt, weather, list, bodyStyle)
	text, err := g.generateJSON(ctx, genai.NewPartFromText(prompt))
	if err != nil {
		return models.Recommendation{}, err
	}

	var raw struct {
		SelectedIDs *[]string `json:"selectedIds"`
		Reason      string    `json:"reason"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return models.Recommendation{}, fmt.Errorf("%w: recommendation is not JSON: %w", models.ErrPartialData, err)
	}
	if raw.SelectedIDs == nil {
		return models.Recommendation{}, fmt.Errorf("%w: recommendation has no selectedIds", models.ErrPartialData)
	}
	return models.Recommendation{SelectedIDs: *raw.SelectedIDs, Reason: strings.TrimSpace(raw.Reason)}, nil
}

// GenerateTryOn sends the composite and prompt to the image model and returns the
// first generated image part, in whatever image format the model chose
func (g *GeminiService) GenerateTryOn(ctx context.Context, prompt string, composite []byte) ([]byte, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{string(genai.ModalityText), string(genai.ModalityImage)},
	}
	parts := []*genai.Part{genai.NewPartFromText(prompt), genai.NewPartFromBytes(composite, "image/jpeg")}

	resp, err := g.generate(ctx, g.imageModel, parts, cfg)
	if err != nil {
		return nil, err
	}

	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			blob := part.InlineData
			if blob == nil || len(blob.Data) == 0 || !strings.HasPrefix(blob.MIMEType, "image/") {
				continue
			}
			g.logger.Debug("🖼️  image generated", "mime", blob.MIMEType, "bytes", len(blob.Data))
			return blob.Data, nil
		}
	}
	return nil, fmt.Errorf("%w: no image generated", models.ErrPartialData)
}

func (g *GeminiService) generateJSON(ctx context.Context, parts ...*genai.Part) (string, error) {
	resp, err := g.generate(ctx, g.textModel, parts, &genai.GenerateContentConfig{ResponseMIMEType: "application/json"})
	if err != nil {
		return "", err
	}

	text := firstCandidateText(resp)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: no content generated", models.ErrPartialData)
	}
	return text, nil
}

func (g *GeminiService) generate(ctx context.Context, model string, parts []*genai.Part, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	if g.api == nil {
		return nil, fmt.Errorf("%w: gemini API key is not configured", models.ErrNetwork)
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %w", models.ErrNetwork, err)
	}

	g.logger.Debug("🤖 calling gemini", "model", model, "parts", len(parts))

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	resp, err := g.api.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return nil, g.classify(model, err)
	}
	return resp, nil
}

// classify maps SDK errors onto the retryable network and malformed-response sentinels
func (g *GeminiService) classify(model string, err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		g.logger.Warn("⚠️  gemini returned non-success status", "model", model, "status", apiErr.Code)
		return fmt.Errorf("%w: gemini returned status %d: %w", models.ErrNetwork, apiErr.Code, err)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: request failed: %w", models.ErrNetwork, err)
	}
	return fmt.Errorf("%w: malformed response: %w", models.ErrPartialData, err)
}

// firstCandidateText joins the non-thought text parts of the first candidate
func firstCandidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String()
}
