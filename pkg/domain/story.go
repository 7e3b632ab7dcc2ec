package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// StoryOutline は AI が生成した学習用ウェブトゥーンの構成案です。
type StoryOutline struct {
	Title              string   `json:"title" yaml:"title"`
	Concept            string   `json:"concept" yaml:"concept"`
	TargetAge          string   `json:"target_age" yaml:"target_age"`
	LearningObjectives []string `json:"learning_objectives,omitempty" yaml:"learning_objectives,omitempty"`
	Scenes             []Scene  `json:"scenes" yaml:"scenes"`
}

// Scene は1パネル分のシーン情報を保持します。
type Scene struct {
	SceneNumber       int      `json:"scene_number" yaml:"scene_number"`
	SceneTitle        string   `json:"scene_title,omitempty" yaml:"scene_title,omitempty"`
	Location          string   `json:"location" yaml:"location"`
	Characters        []string `json:"characters" yaml:"characters"`
	Dialogue          string   `json:"dialogue" yaml:"dialogue"`
	Action            string   `json:"action" yaml:"action"`
	EducationalPoint  string   `json:"educational_point" yaml:"educational_point"`
	VisualDescription string   `json:"visual_description" yaml:"visual_description"`
}

var (
	requiredStoryFields = []string{"title", "concept", "scenes"}
	requiredSceneFields = []string{
		"scene_number",
		"location",
		"characters",
		"dialogue",
		"action",
		"educational_point",
		"visual_description",
	}
)

// DisplayTitle は scene_title が無い場合に location を見出しとして返します。
func (s Scene) DisplayTitle() string {
	if s.SceneTitle != "" {
		return s.SceneTitle
	}
	return s.Location
}

// ParseStoryOutline は生成エンドポイントのペイロードを厳密にパースし、検証済みの StoryOutline を返します。
// 途中まで埋まった値を返すことはありません。
func ParseStoryOutline(payload []byte) (*StoryOutline, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, ErrEmptyResponse
	}

	var raw any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := ValidateStoryData(raw); err != nil {
		return nil, err
	}

	var outline StoryOutline
	if err := json.Unmarshal(payload, &outline); err != nil {
		// 必須フィールドは揃っているが型が合わないケースなのだ
		return nil, fmt.Errorf("%w: %v", ErrInvalidStoryShape, err)
	}
	return &outline, nil
}

// ValidateStoryData はデコード済みの構造化データが StoryOutline の形を満たすか検証します。
func ValidateStoryData(raw any) error {
	story, ok := raw.(map[string]any)
	if !ok {
		return fmt.Errorf("%w: top level is %T, not an object", ErrInvalidStoryShape, raw)
	}
	for _, field := range requiredStoryFields {
		if _, ok := story[field]; !ok {
			return fmt.Errorf("%w: missing field %q", ErrInvalidStoryShape, field)
		}
	}

	scenes, ok := story["scenes"].([]any)
	if !ok || len(scenes) == 0 {
		return fmt.Errorf("%w: scenes must be a non-empty list", ErrInvalidStoryShape)
	}

	for i, s := range scenes {
		scene, ok := s.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: scene %d is not an object", ErrInvalidStoryShape, i+1)
		}
		for _, field := range requiredSceneFields {
			if _, ok := scene[field]; !ok {
				return fmt.Errorf("%w: scene %d missing field %q", ErrInvalidStoryShape, i+1, field)
			}
		}
		if _, ok := scene["characters"].([]any); !ok {
			return fmt.Errorf("%w: scene %d characters is not a list", ErrInvalidStoryShape, i+1)
		}
	}
	return nil
}

// UnknownCharacters は allowed に含まれないキャラクター名を登場順・重複なしで返します。
func (o StoryOutline) UnknownCharacters(allowed []string) []string {
	var unknown []string
	for _, scene := range o.Scenes {
		for _, name := range scene.Characters {
			if containsFold(allowed, name) || slices.Contains(unknown, name) {
				continue
			}
			unknown = append(unknown, name)
		}
	}
	return unknown
}

func containsFold(list []string, name string) bool {
	return slices.ContainsFunc(list, func(s string) bool {
		return strings.EqualFold(strings.TrimSpace(s), strings.TrimSpace(name))
	})
}
