package models

// TagResult is the auto-tag answer for one garment image
type TagResult struct {
	Name     string   `json:"name"`
	Category Category `json:"category"`
}

// Recommendation is the outfit chosen by the model for the current weather
type Recommendation struct {
	SelectedIDs []string `json:"selectedIds"`
	Reason      string   `json:"reason"`
}

// RecommendRequest represents the request body for an outfit recommendation
type RecommendRequest struct {
	Weather string `json:"weather"`
}

// RecommendResponse is returned after the selection was replaced by a recommendation
type RecommendResponse struct {
	Weather string         `json:"weather"`
	Reason  string         `json:"reason"`
	Items   []ClothingItem `json:"items"`
}

// TagRequest represents the request body for auto-tagging.
// Image is base64 or a data URL.
type TagRequest struct {
	Image string `json:"image"`
}

// TryOnResult is the generated try-on photo
type TryOnResult struct {
	Image       []byte `json:"image"`
	DownloadKey string `json:"downloadKey,omitempty"`
}

// ImportStats summarizes a Drive folder import
type ImportStats struct {
	Inserted int      `json:"inserted"`
	Skipped  int      `json:"skipped"`
	Failed   int      `json:"failed"`
	Total    int      `json:"total"`
	Errors   []string `json:"errors,omitempty"`
}

// DriveImage is an image file listed in a Drive folder
type DriveImage struct {
	FileID   string
	FileName string
	MimeType string
}

// TryOnResponse is the try-on result as returned to the UI.
// Image is a JPEG data URL; DownloadURL is set when the result was archived.
type TryOnResponse struct {
	Image       string `json:"image"`
	DownloadURL string `json:"downloadUrl,omitempty"`
}
