package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"armario-virtual/models"
)

// SimulatedWeather is used when a recommendation is requested without a weather string
var SimulatedWeather = []string{
	"氣溫 12°C，寒流來襲，下雨",
	"氣溫 28°C，炎熱晴朗",
	"氣溫 20°C，舒適涼爽",
	"氣溫 16°C，風大",
}

const tryOnWithBodyPrompt = `
The input image contains two parts:
1. Left side: Reference photo of the user (Focus on Face/Head).
2. Right side: Clothing items.

Task: Generate a NEW photo of the user wearing the clothes.

Instructions:
1. **Face & Identity**: Use the face and head features from the person on the Left.
2. **Body**: Must match these measurements: %s. Note the muscular shoulders.
3. **Outfit**: The person MUST BE WEARING the clothes shown on the Right. Replace any original clothes.
4. **Pose & Background**: Ignore the original photo's pose and background. Generate a new natural standing pose in a clean, bright, neutral studio background.
5. **Quality**: Photorealistic, high quality.
`

const tryOnWithoutBodyPrompt = `
The input image shows clothing items.
Task: Generate a realistic photo of a man WEARING these clothes.

Target Body Specs:
%s

Instructions:
1. Generate a photorealistic image of a man fitting these specific measurements.
2. The man must be wearing the provided clothes.
3. Use a clean, simple studio background.
`

// qualityTryOn is used when a generated image has to be re-encoded as JPEG
const qualityTryOn = 0.92

// TryOnPrompt builds the generation prompt for a composite with or without a body photo
func TryOnPrompt(hasBody bool, bodyDescription string) string {
	if hasBody {
		return fmt.Sprintf(tryOnWithBodyPrompt, bodyDescription)
	}
	return fmt.Sprintf(tryOnWithoutBodyPrompt, bodyDescription)
}

// StylistService orchestrates auto-tagging, outfit recommendation and virtual try-on
type StylistService struct {
	wardrobe   *WardrobeService
	profile    *ProfileService
	ai         AIServiceInterface
	compositor *GridCompositor
	codec      *ImageCodec
	archive    ResultArchiveInterface
	logger     *log.Logger
	pick       func(n int) int
}

// NewStylistService creates a new StylistService. archive may be nil.
func NewStylistService(
	wardrobe *WardrobeService,
	profile *ProfileService,
	ai AIServiceInterface,
	compositor *GridCompositor,
	codec *ImageCodec,
	archive ResultArchiveInterface,
	logger *log.Logger,
) *StylistService {
	return &StylistService{
		wardrobe:   wardrobe,
		profile:    profile,
		ai:         ai,
		compositor: compositor,
		codec:      codec,
		archive:    archive,
		logger:     logger,
		pick:       rand.IntN,
	}
}

// AutoTag suggests a name and category for a garment photo
func (s *StylistService) AutoTag(ctx context.Context, payload []byte) (models.TagResult, error) {
	small, err := s.codec.Optimize(payload, "medium")
	if err != nil {
		return models.TagResult{}, err
	}

	result, err := s.ai.TagGarment(ctx, small)
	if err != nil {
		s.logger.Warn("⚠️  auto-tag failed", "err", err)
		return models.TagResult{}, err
	}
	s.logger.Info("🏷️  garment tagged", "name", result.Name, "category", result.Category)
	return result, nil
}

// Recommend asks for an outfit for weather and replaces the selection with it.
// An empty weather picks one of SimulatedWeather. An empty wardrobe fails before any request.
func (s *StylistService) Recommend(ctx context.Context, weather string) (models.RecommendResponse, error) {
	summaries := s.wardrobe.Summaries()
	if len(summaries) == 0 {
		return models.RecommendResponse{}, models.ErrEmptyWardrobe
	}

	if weather == "" {
		weather = SimulatedWeather[s.pick(len(SimulatedWeather))]
	}

	rec, err := s.ai.RecommendOutfit(ctx, weather, summaries, s.profile.Profile().Description)
	if err != nil {
		s.logger.Warn("⚠️  recommendation failed", "weather", weather, "err", err)
		return models.RecommendResponse{}, err
	}

	items := s.wardrobe.ReplaceSelection(rec.SelectedIDs, rec.Reason)
	if dropped := len(rec.SelectedIDs) - len(items); dropped > 0 {
		s.logger.Debug("recommendation referenced unknown items", "dropped", dropped)
	}

	s.logger.Info("🌤️  outfit recommended", "weather", weather, "items", len(items))
	return models.RecommendResponse{Weather: weather, Reason: rec.Reason, Items: items}, nil
}

// TryOn renders the selected garments on the user's body.
// The result is archived for download when an archive is configured; archiving failures are logged only.
func (s *StylistService) TryOn(ctx context.Context) (models.TryOnResult, error) {
	selected := s.wardrobe.Selected()
	if len(selected) == 0 {
		return models.TryOnResult{}, models.ErrNoSelection
	}

	body := s.profile.Photo()
	garments := make([][]byte, len(selected))
	for i, item := range selected {
		garments[i] = item.Image
	}

	composite, _, err := s.compositor.Compose(ctx, body, garments)
	if err != nil {
		return models.TryOnResult{}, fmt.Errorf("failed to compose try-on input: %w", err)
	}

	prompt := TryOnPrompt(len(body) > 0, s.profile.Profile().Describe())
	generated, err := s.ai.GenerateTryOn(ctx, prompt, composite)
	if err != nil {
		s.logger.Warn("⚠️  try-on generation failed", "garments", len(selected), "err", err)
		return models.TryOnResult{}, err
	}

	jpegImage, err := s.toJPEG(generated)
	if err != nil {
		s.logger.Warn("⚠️  generated image is unusable", "bytes", len(generated), "err", err)
		return models.TryOnResult{}, err
	}

	result := models.TryOnResult{Image: jpegImage}
	if s.archive != nil {
		key, err := s.archive.Save(ctx, jpegImage)
		if err != nil {
			s.logger.Warn("⚠️  could not archive try-on", "err", err)
		} else {
			result.DownloadKey = key
		}
	}

	s.logger.Info("✨ try-on generated", "garments", len(selected), "body", len(body) > 0, "bytes", len(jpegImage))
	return result, nil
}

// toJPEG passes JPEG output through and re-encodes any other image format,
// so results are always served and archived as image/jpeg
func (s *StylistService) toJPEG(generated []byte) ([]byte, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(generated))
	if err != nil {
		return nil, fmt.Errorf("%w: generated image is unreadable: %v", models.ErrPartialData, err)
	}
	if format == "jpeg" {
		return generated, nil
	}

	img, err := s.codec.Decode(generated)
	if err != nil {
		return nil, fmt.Errorf("%w: generated %s image: %v", models.ErrPartialData, format, err)
	}
	return s.codec.Encode(img, qualityTryOn)
}
