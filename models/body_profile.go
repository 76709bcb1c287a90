package models

import (
	"fmt"
	"strconv"
)

// BodyProfile holds the user's body measurements in cm/kg.
// Exactly one profile exists per session and it is overwritten in place.
type BodyProfile struct {
	Height      float64 `json:"height"`
	Weight      float64 `json:"weight"`
	Shoulder    float64 `json:"shoulder"`
	Chest       float64 `json:"chest"`
	Waist       float64 `json:"waist"`
	LowWaist    float64 `json:"lowWaist"`
	Hips        float64 `json:"hips"`
	PantsLength float64 `json:"pantsLength"`
	Thigh       float64 `json:"thigh"`
	Calf        float64 `json:"calf"`
	Description string  `json:"description"`
}

// DefaultBodyProfile returns the profile used before the user edits anything
func DefaultBodyProfile() BodyProfile {
	return BodyProfile{
		Height:      172,
		Weight:      75,
		Shoulder:    47,
		Chest:       103,
		Waist:       82,
		LowWaist:    91,
		Hips:        94,
		PantsLength: 86,
		Thigh:       59,
		Calf:        47,
		Description: "肩膀多肌肉，大腿結實，健壯體格",
	}
}

// Validate rejects negative measurements
func (p BodyProfile) Validate() error {
	fields := map[string]float64{
		"height": p.Height, "weight": p.Weight, "shoulder": p.Shoulder, "chest": p.Chest,
		"waist": p.Waist, "lowWaist": p.LowWaist, "hips": p.Hips, "pantsLength": p.PantsLength,
		"thigh": p.Thigh, "calf": p.Calf,
	}
	for name, v := range fields {
		if v < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidInput, name)
		}
	}
	return nil
}

// Describe renders the measurement text embedded in try-on prompts
func (p BodyProfile) Describe() string {
	return fmt.Sprintf(`Height: %scm, Weight: %skg.
Shoulder width: %scm (Muscular).
Chest: %scm.
Waist: %scm, Low waist: %scm, Hips: %scm.
Pants length: %scm, Thigh: %scm, Calf: %scm.
Physique: %s.`,
		num(p.Height), num(p.Weight), num(p.Shoulder), num(p.Chest),
		num(p.Waist), num(p.LowWaist), num(p.Hips),
		num(p.PantsLength), num(p.Thigh), num(p.Calf), p.Description)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// BodyProfileResponse is the profile plus whether a reference photo is stored
type BodyProfileResponse struct {
	Profile  BodyProfile `json:"profile"`
	HasPhoto bool        `json:"hasPhoto"`
}

// ProfilePhotoRequest represents the request body for uploading the reference photo
type ProfilePhotoRequest struct {
	Image string `json:"image"`
}
