package domain

import (
	"fmt"
	"slices"
	"strings"
)

const (
	MinScenes        = 3
	MaxScenes        = 10
	DefaultScenes    = 6
	DefaultStyle     = "cartoon"
	DefaultLanguage  = "en"
	minConceptLength = 10
)

// DifficultyLevels は選択可能な学習レベルです。
var DifficultyLevels = []string{"Preschool", "Elementary", "Middle School"}

// SupportedStyles は選択可能な画風です。
var SupportedStyles = []string{"cartoon", "anime", "cute", "colorful", "realistic"}

// GenerationRequest は「ウェブトゥーン生成」操作の入力です。
type GenerationRequest struct {
	Concept    string   `json:"concept"`
	Characters []string `json:"characters"`
	SceneCount int      `json:"scene_count"`
	Difficulty string   `json:"difficulty"`
	Language   string   `json:"language,omitempty"`
	Style      string   `json:"style,omitempty"`
}

// Normalize は空の任意項目に既定値を入れ、前後の空白を除去したコピーを返します。
func (r GenerationRequest) Normalize() GenerationRequest {
	r.Concept = strings.TrimSpace(r.Concept)
	chars := make([]string, 0, len(r.Characters))
	for _, c := range r.Characters {
		if c = strings.TrimSpace(c); c != "" && !slices.Contains(chars, c) {
			chars = append(chars, c)
		}
	}
	r.Characters = chars
	if r.SceneCount == 0 {
		r.SceneCount = DefaultScenes
	}
	if r.Style == "" {
		r.Style = DefaultStyle
	}
	r.Language = strings.ToLower(strings.TrimSpace(r.Language))
	return r
}

// Validate は入力値を検証します。Normalize 済みであることを前提とします。
func (r GenerationRequest) Validate() error {
	if r.Concept == "" {
		return fmt.Errorf("%w: concept is required", ErrInvalidRequest)
	}
	if len([]rune(r.Concept)) < minConceptLength {
		return fmt.Errorf("%w: concept must be at least %d characters", ErrInvalidRequest, minConceptLength)
	}
	if len(r.Characters) == 0 {
		return fmt.Errorf("%w: at least one character is required", ErrInvalidRequest)
	}
	if r.SceneCount < MinScenes || r.SceneCount > MaxScenes {
		return fmt.Errorf("%w: scene count %d is out of range [%d, %d]", ErrInvalidRequest, r.SceneCount, MinScenes, MaxScenes)
	}
	if !slices.Contains(DifficultyLevels, r.Difficulty) {
		return fmt.Errorf("%w: unsupported difficulty %q", ErrInvalidRequest, r.Difficulty)
	}
	if !slices.Contains(SupportedStyles, r.Style) {
		return fmt.Errorf("%w: unsupported style %q", ErrInvalidRequest, r.Style)
	}
	return nil
}

// ValidateAPIKey は API キーが有効な形式に見えるかを簡易的に判定します。
func ValidateAPIKey(apiKey string) bool {
	if len(apiKey) <= 20 {
		return false
	}
	return strings.HasPrefix(apiKey, "AIza") || strings.HasPrefix(apiKey, "sk-")
}
