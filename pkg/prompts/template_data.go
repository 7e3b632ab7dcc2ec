package prompts

import (
	_ "embed"
)

const (
	ModeStory          = "story"
	ModeSceneReference = "scene_reference"
	ModeSceneText      = "scene_text"
)

// StoryTemplateData は構成案プロンプトのテンプレートに渡すデータ構造です。
type StoryTemplateData struct {
	Concept         string
	CharacterList   string
	SceneCount      int
	Difficulty      string
	DifficultyLower string
}

// SceneTemplateData はシーン画像プロンプトのテンプレートに渡すデータ構造です。
type SceneTemplateData struct {
	VisualDescription string
	CharacterList     string
	Style             string
	Language          *Language
}

var (
	//go:embed templates/story.md
	StoryPrompt string
	//go:embed templates/scene_reference.md
	SceneReferencePrompt string
	//go:embed templates/scene_text.md
	SceneTextPrompt string
)

// allTemplates はモードとテンプレート文字列を紐づけるマップなのだ。
var allTemplates = map[string]string{
	ModeStory:          StoryPrompt,
	ModeSceneReference: SceneReferencePrompt,
	ModeSceneText:      SceneTextPrompt,
}
