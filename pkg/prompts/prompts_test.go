package prompts

import (
	"testing"

	"github.com/shouni/go-webtoon-kit/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBuilder(t *testing.T) *PromptBuilder {
	t.Helper()
	b, err := NewPromptBuilder()
	require.NoError(t, err)
	return b
}

func TestBuildStoryPrompt(t *testing.T) {
	b := newBuilder(t)
	req := domain.GenerationRequest{
		Concept:    "The water cycle",
		Characters: []string{"Fox", "Owl"},
		SceneCount: 3,
		Difficulty: "Elementary",
	}

	got, err := b.BuildStoryPrompt(req)
	require.NoError(t, err)

	t.Run("入力値が埋め込まれること", func(t *testing.T) {
		assert.Contains(t, got, "about: The water cycle")
		assert.Contains(t, got, "NUMBER OF SCENES: 3")
		assert.Contains(t, got, "for elementary students")
		assert.Contains(t, got, `"concept": "The water cycle"`)
	})

	t.Run("キャラクター名の制約が含まれること", func(t *testing.T) {
		assert.Contains(t, got, "may ONLY contain names from: Fox, Owl")
	})

	t.Run("全フィールドを含むJSON形式が要求されること", func(t *testing.T) {
		for _, field := range []string{"title", "concept", "target_age", "learning_objectives", "scenes",
			"scene_number", "scene_title", "location", "characters", "dialogue", "action",
			"educational_point", "visual_description"} {
			assert.Contains(t, got, `"`+field+`"`)
		}
	})

	t.Run("決定論的であること", func(t *testing.T) {
		again, err := b.BuildStoryPrompt(req)
		require.NoError(t, err)
		assert.Equal(t, got, again)
	})
}

func TestBuildScenePrompt(t *testing.T) {
	b := newBuilder(t)
	base := SceneInput{
		VisualDescription: "Fox watches\nclouds form",
		Characters:        []string{"Fox"},
		Style:             "anime",
	}

	t.Run("参照画像が無い場合はテキスト用テンプレート", func(t *testing.T) {
		got, err := b.BuildScenePrompt(base)
		require.NoError(t, err)
		assert.Contains(t, got, "DESCRIPTION: Fox watches clouds form")
		assert.Contains(t, got, "ART STYLE: anime")
		assert.NotContains(t, got, "reference images")
		assert.NotContains(t, got, "SPELLING")
	})

	t.Run("参照画像がある場合は外見の維持を指示する", func(t *testing.T) {
		in := base
		in.HasReferences = true
		got, err := b.BuildScenePrompt(in)
		require.NoError(t, err)
		assert.Contains(t, got, "provided character reference images")
		assert.Contains(t, got, "Preserve each character's distinctive features")
	})

	t.Run("言語指定で綴りの指示が入る", func(t *testing.T) {
		in := base
		in.Language = "es"
		got, err := b.BuildScenePrompt(in)
		require.NoError(t, err)
		assert.Contains(t, got, "ALL text must be in Spanish")
		assert.Contains(t, got, "PERFECT spelling")
		assert.Contains(t, got, "¡GUAU!")

		in.HasReferences = true
		got, err = b.BuildScenePrompt(in)
		require.NoError(t, err)
		assert.Contains(t, got, "Spanish (ES) with PERFECT spelling")
	})
}

func TestLookupLanguage(t *testing.T) {
	assert.Nil(t, LookupLanguage(""))
	assert.Equal(t, "Korean", LookupLanguage("KO").Name)
	assert.Equal(t, "English", LookupLanguage("xx").Name)
	for _, code := range SupportedLanguageCodes() {
		assert.Equal(t, code, LookupLanguage(code).Code)
	}
}
