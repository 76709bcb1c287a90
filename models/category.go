package models

import (
	"fmt"
	"strings"
)

// Category is the closed set of garment categories
type Category string

const (
	CategoryTop       Category = "top"
	CategoryBottom    Category = "bottom"
	CategoryOuterwear Category = "outerwear"
	CategoryShoes     Category = "shoes"
	CategoryAccessory Category = "accessory"
)

// categoryInfo holds the display data of a category
type categoryInfo struct {
	Label string // Traditional Chinese label shown in the UI
	Color string // badge color class
}

// categoryTable is the exhaustive table for every Category.
// TestCategoryTableIsExhaustive keeps it in step with AllCategories.
var categoryTable = map[Category]categoryInfo{
	CategoryTop:       {Label: "上身", Color: "bg-blue-100 text-blue-800"},
	CategoryBottom:    {Label: "下身", Color: "bg-green-100 text-green-800"},
	CategoryOuterwear: {Label: "外套", Color: "bg-purple-100 text-purple-800"},
	CategoryShoes:     {Label: "鞋子", Color: "bg-orange-100 text-orange-800"},
	CategoryAccessory: {Label: "配件", Color: "bg-pink-100 text-pink-800"},
}

// AllCategories returns the categories in display order
func AllCategories() []Category {
	return []Category{CategoryTop, CategoryBottom, CategoryOuterwear, CategoryShoes, CategoryAccessory}
}

// Valid reports whether c is one of the five known categories
func (c Category) Valid() bool {
	_, ok := categoryTable[c]
	return ok
}

// Label returns the display label of the category
func (c Category) Label() string {
	if info, ok := categoryTable[c]; ok {
		return info.Label
	}
	return string(c)
}

// Color returns the badge color class of the category
func (c Category) Color() string {
	return categoryTable[c].Color
}

// ParseCategory normalizes s and returns the matching Category
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: unknown category %q", ErrInvalidInput, s)
	}
	return c, nil
}
