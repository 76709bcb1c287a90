package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"armario-virtual/models"
)

func TestMapLabelToCategory(t *testing.T) {
	tests := map[string]models.Category{
		"上身":        models.CategoryTop,
		" Jeans ":   models.CategoryBottom,
		"外套":        models.CategoryOuterwear,
		"SNEAKERS":  models.CategoryShoes,
		"accessory": models.CategoryAccessory,
	}
	for in, want := range tests {
		got, ok := MapLabelToCategory(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := MapLabelToCategory("spaceship")
	assert.False(t, ok)
}

func TestEveryCategoryHasWords(t *testing.T) {
	for _, c := range models.AllCategories() {
		assert.NotEmpty(t, categoryWords[c], c)
		got, ok := MapLabelToCategory(c.Label())
		assert.True(t, ok, c)
		assert.Equal(t, c, got)
	}
}

func TestParseFileName(t *testing.T) {
	tests := []struct {
		file     string
		name     string
		category models.Category
		wantErr  bool
	}{
		{file: "top-white_linen_shirt.JPG", name: "white linen shirt", category: models.CategoryTop},
		{file: "外套-風衣.png", name: "風衣", category: models.CategoryOuterwear},
		{file: "photos/blue_jeans.jpeg", name: "blue jeans", category: models.CategoryBottom},
		{file: "紅色球鞋.webp", name: "紅色球鞋", category: models.CategoryShoes},
		{file: "summer-vibes.jpg", name: "summer-vibes", wantErr: true},
		{file: ".png", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			name, category, err := ParseFileName(tt.file)
			if tt.wantErr {
				assert.ErrorIs(t, err, models.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.category, category)
		})
	}
}

func TestDecodeImagePayload(t *testing.T) {
	raw, err := DecodeImagePayload("data:image/png;base64,AQID")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, raw)

	raw, err = DecodeImagePayload("AQID")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, raw)

	_, err = DecodeImagePayload("")
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = DecodeImagePayload("data:image/png,rawtext")
	assert.ErrorIs(t, err, models.ErrDecode)

	_, err = DecodeImagePayload("!!!")
	assert.ErrorIs(t, err, models.ErrDecode)

	assert.Equal(t, "data:image/jpeg;base64,AQID", EncodeDataURL([]byte{1, 2, 3}))
}
