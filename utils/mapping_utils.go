package utils

import (
	"strings"

	"armario-virtual/models"
)

// categoryWords lists the labels and garment words that identify each category
var categoryWords = map[models.Category][]string{
	models.CategoryTop:       {"上身", "上衣", "襯衫", "毛衣", "t恤", "top", "tops", "shirt", "tee", "tshirt", "blouse", "sweater", "hoodie"},
	models.CategoryBottom:    {"下身", "褲子", "長褲", "短褲", "裙子", "bottom", "bottoms", "pants", "jeans", "shorts", "skirt", "trousers"},
	models.CategoryOuterwear: {"外套", "大衣", "夾克", "outerwear", "jacket", "coat", "parka", "blazer"},
	models.CategoryShoes:     {"鞋子", "球鞋", "靴子", "shoes", "shoe", "sneakers", "sneaker", "boots", "sandals"},
	models.CategoryAccessory: {"配件", "帽子", "包包", "圍巾", "accessory", "accessories", "hat", "cap", "bag", "scarf", "belt"},
}

// categoryAliases is categoryWords inverted
var categoryAliases = func() map[string]models.Category {
	aliases := make(map[string]models.Category)
	for c, words := range categoryWords {
		for _, w := range words {
			aliases[w] = c
		}
	}
	return aliases
}()

// MapLabelToCategory maps a label or garment word to its category.
// Input is normalized to lowercase before mapping.
func MapLabelToCategory(label string) (models.Category, bool) {
	c, ok := categoryAliases[strings.ToLower(strings.TrimSpace(label))]
	return c, ok
}

// GuessCategory looks for any known garment word inside text
func GuessCategory(text string) (models.Category, bool) {
	lower := strings.ToLower(text)
	for _, word := range strings.FieldsFunc(lower, isSeparator) {
		if c, ok := categoryAliases[word]; ok {
			return c, true
		}
	}
	// CJK names are not space separated
	for _, c := range models.AllCategories() {
		for _, w := range categoryWords[c] {
			if !isASCII(w) && strings.Contains(lower, w) {
				return c, true
			}
		}
	}
	return "", false
}

func isSeparator(r rune) bool {
	return r == ' ' || r == '_' || r == '-' || r == '.'
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
