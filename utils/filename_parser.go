package utils

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"armario-virtual/models"
)

var extRegex = regexp.MustCompile(`(?i)\.(png|jpe?g|webp|gif)$`)

// ParseFileName derives an item name and category from an image filename.
// Two patterns are understood:
//
//	CATEGORY-NAME.ext   e.g. top-white_shirt.jpg, 外套-風衣.png
//	NAME.ext            category guessed from garment words, e.g. blue_jeans.jpg
//
// Underscores in the name become spaces.
func ParseFileName(filename string) (string, models.Category, error) {
	base := extRegex.ReplaceAllString(filepath.Base(filename), "")
	if strings.TrimSpace(base) == "" {
		return "", "", fmt.Errorf("%w: empty filename", models.ErrInvalidInput)
	}

	if prefix, rest, ok := strings.Cut(base, "-"); ok {
		if c, known := MapLabelToCategory(prefix); known && strings.TrimSpace(rest) != "" {
			return cleanName(rest), c, nil
		}
	}

	c, ok := GuessCategory(base)
	if !ok {
		return cleanName(base), "", fmt.Errorf("%w: no category in filename %q", models.ErrInvalidInput, filename)
	}
	return cleanName(base), c, nil
}

func cleanName(s string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(s, "_", " ")), " ")
}
