package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"armario-virtual/logger"
	"armario-virtual/models"
)

type mockAI struct {
	mock.Mock
}

func (m *mockAI) TagGarment(ctx context.Context, image []byte) (models.TagResult, error) {
	args := m.Called(ctx, image)
	return args.Get(0).(models.TagResult), args.Error(1)
}

func (m *mockAI) RecommendOutfit(ctx context.Context, weather string, wardrobe []models.ItemSummary, bodyStyle string) (models.Recommendation, error) {
	args := m.Called(ctx, weather, wardrobe, bodyStyle)
	return args.Get(0).(models.Recommendation), args.Error(1)
}

func (m *mockAI) GenerateTryOn(ctx context.Context, prompt string, composite []byte) ([]byte, error) {
	args := m.Called(ctx, prompt, composite)
	if b := args.Get(0); b != nil {
		return b.([]byte), args.Error(1)
	}
	return nil, args.Error(1)
}

type memoryArchive struct {
	saved [][]byte
	err   error
}

func (a *memoryArchive) Save(_ context.Context, image []byte) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	a.saved = append(a.saved, image)
	return fmt.Sprintf("key-%d", len(a.saved)), nil
}

func (a *memoryArchive) Open(context.Context, string) (io.ReadCloser, int64, error) {
	return nil, 0, models.ErrNotFound
}

type stylistFixture struct {
	stylist  *StylistService
	wardrobe *WardrobeService
	profile  *ProfileService
	ai       *mockAI
	archive  *memoryArchive
}

func newStylistFixture(t *testing.T) stylistFixture {
	t.Helper()
	w, local, _ := newTestWardrobe(t)
	codec := newTestCodec()
	profile := NewProfileService(local, codec, logger.Discard())
	require.NoError(t, profile.Load(context.Background()))

	ai := &mockAI{}
	archive := &memoryArchive{}
	s := NewStylistService(w, profile, ai, NewGridCompositor(codec, logger.Discard()), codec, archive, logger.Discard())
	s.pick = func(int) int { return 1 }

	t.Cleanup(func() { ai.AssertExpectations(t) })
	return stylistFixture{stylist: s, wardrobe: w, profile: profile, ai: ai, archive: archive}
}

func TestStylistService_RecommendEmptyWardrobeMakesNoCall(t *testing.T) {
	f := newStylistFixture(t)

	_, err := f.stylist.Recommend(context.Background(), "")
	assert.ErrorIs(t, err, models.ErrEmptyWardrobe)
	assert.Equal(t, "衣櫃是空的，請先新增衣物！", models.UserMessage(err))
	f.ai.AssertNotCalled(t, "RecommendOutfit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestStylistService_RecommendReplacesSelection(t *testing.T) {
	f := newStylistFixture(t)
	a := addItem(t, f.wardrobe, "毛衣", models.CategoryTop)
	b := addItem(t, f.wardrobe, "短褲", models.CategoryBottom)
	c := addItem(t, f.wardrobe, "雨靴", models.CategoryShoes)
	_, err := f.wardrobe.Toggle(b.ID)
	require.NoError(t, err)

	f.ai.On("RecommendOutfit", mock.Anything, "氣溫 28°C，炎熱晴朗", f.wardrobe.Summaries(), "肩膀多肌肉，大腿結實，健壯體格").
		Return(models.Recommendation{SelectedIDs: []string{c.ID, a.ID, "ghost"}, Reason: "晴天穿輕便"}, nil).Once()

	resp, err := f.stylist.Recommend(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "氣溫 28°C，炎熱晴朗", resp.Weather)
	assert.Equal(t, "晴天穿輕便", resp.Reason)
	assert.Equal(t, []string{a.ID, c.ID}, ids(resp.Items))

	sel := f.wardrobe.Selection()
	assert.Equal(t, []string{a.ID, c.ID}, ids(sel.Items))
	assert.Equal(t, "晴天穿輕便", sel.Advice)
}

func TestStylistService_RecommendFailureKeepsSelection(t *testing.T) {
	f := newStylistFixture(t)
	a := addItem(t, f.wardrobe, "毛衣", models.CategoryTop)
	_, err := f.wardrobe.Toggle(a.ID)
	require.NoError(t, err)

	f.ai.On("RecommendOutfit", mock.Anything, "下雪", mock.Anything, mock.Anything).
		Return(models.Recommendation{}, fmt.Errorf("%w: no selectedIds", models.ErrPartialData)).Once()

	_, err = f.stylist.Recommend(context.Background(), "下雪")
	assert.ErrorIs(t, err, models.ErrPartialData)
	assert.Equal(t, []string{a.ID}, ids(f.wardrobe.Selected()))
}

func TestStylistService_TryOnRequiresSelection(t *testing.T) {
	f := newStylistFixture(t)
	addItem(t, f.wardrobe, "毛衣", models.CategoryTop)

	_, err := f.stylist.TryOn(context.Background())
	assert.ErrorIs(t, err, models.ErrNoSelection)
	f.ai.AssertNotCalled(t, "GenerateTryOn", mock.Anything, mock.Anything, mock.Anything)
}

func TestStylistService_TryOnPromptVariants(t *testing.T) {
	tests := []struct {
		name     string
		withBody bool
		marker   string
	}{
		{"with body photo", true, "Left side: Reference photo of the user"},
		{"without body photo", false, "Generate a realistic photo of a man WEARING these clothes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newStylistFixture(t)
			item := addItem(t, f.wardrobe, "外套", models.CategoryOuterwear)
			_, err := f.wardrobe.Toggle(item.ID)
			require.NoError(t, err)
			if tt.withBody {
				require.NoError(t, f.profile.SetPhoto(ctx, solidPNG(t, 300, 400, red)))
			}

			isPrompt := mock.MatchedBy(func(p string) bool {
				return assert.Contains(t, p, tt.marker) && assert.Contains(t, p, "Height: 172cm, Weight: 75kg.")
			})
			f.ai.On("GenerateTryOn", mock.Anything, isPrompt, mock.AnythingOfType("[]uint8")).
				Return(solidPNG(t, 60, 80, green), nil).Once()

			result, err := f.stylist.TryOn(ctx)
			require.NoError(t, err)
			assertJPEG(t, result.Image, 60, 80)
			assert.Equal(t, "key-1", result.DownloadKey)
			require.Len(t, f.archive.saved, 1)
			assert.Equal(t, result.Image, f.archive.saved[0])
		})
	}
}

func TestStylistService_TryOnArchiveFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	f := newStylistFixture(t)
	f.archive.err = errors.New("bucket gone")
	item := addItem(t, f.wardrobe, "帽子", models.CategoryAccessory)
	_, err := f.wardrobe.Toggle(item.ID)
	require.NoError(t, err)

	f.ai.On("GenerateTryOn", mock.Anything, mock.Anything, mock.Anything).Return(solidPNG(t, 10, 10, red), nil).Once()

	result, err := f.stylist.TryOn(ctx)
	require.NoError(t, err)
	assertJPEG(t, result.Image, 10, 10)
	assert.Empty(t, result.DownloadKey)
}

func assertJPEG(t *testing.T, data []byte, w, h int) {
	t.Helper()
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, w, cfg.Width)
	assert.Equal(t, h, cfg.Height)
}

func TestStylistService_TryOnKeepsJPEGOutput(t *testing.T) {
	ctx := context.Background()
	f := newStylistFixture(t)
	item := addItem(t, f.wardrobe, "帽子", models.CategoryAccessory)
	_, err := f.wardrobe.Toggle(item.ID)
	require.NoError(t, err)

	img, err := newTestCodec().Decode(solidPNG(t, 30, 20, blue))
	require.NoError(t, err)
	generated, err := newTestCodec().Encode(img, 0.8)
	require.NoError(t, err)
	f.ai.On("GenerateTryOn", mock.Anything, mock.Anything, mock.Anything).Return(generated, nil).Once()

	result, err := f.stylist.TryOn(ctx)
	require.NoError(t, err)
	assert.Equal(t, generated, result.Image)
}

func TestStylistService_TryOnRejectsUnreadableOutput(t *testing.T) {
	f := newStylistFixture(t)
	item := addItem(t, f.wardrobe, "帽子", models.CategoryAccessory)
	_, err := f.wardrobe.Toggle(item.ID)
	require.NoError(t, err)

	f.ai.On("GenerateTryOn", mock.Anything, mock.Anything, mock.Anything).Return([]byte("not an image"), nil).Once()

	_, err = f.stylist.TryOn(context.Background())
	assert.ErrorIs(t, err, models.ErrPartialData)
	assert.NotErrorIs(t, err, models.ErrDecode)
	assert.Empty(t, f.archive.saved)
}

func TestStylistService_TryOnGenerationFailure(t *testing.T) {
	f := newStylistFixture(t)
	item := addItem(t, f.wardrobe, "帽子", models.CategoryAccessory)
	_, err := f.wardrobe.Toggle(item.ID)
	require.NoError(t, err)

	f.ai.On("GenerateTryOn", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: status 503", models.ErrNetwork)).Once()

	_, err = f.stylist.TryOn(context.Background())
	assert.ErrorIs(t, err, models.ErrNetwork)
	assert.Empty(t, f.archive.saved)
}

func TestStylistService_AutoTag(t *testing.T) {
	f := newStylistFixture(t)
	f.ai.On("TagGarment", mock.Anything, mock.AnythingOfType("[]uint8")).
		Return(models.TagResult{Name: "格紋襯衫", Category: models.CategoryTop}, nil).Once()

	result, err := f.stylist.AutoTag(context.Background(), solidPNG(t, 1200, 900, blue))
	require.NoError(t, err)
	assert.Equal(t, "格紋襯衫", result.Name)

	_, err = f.stylist.AutoTag(context.Background(), []byte("not an image"))
	assert.ErrorIs(t, err, models.ErrDecode)
}
