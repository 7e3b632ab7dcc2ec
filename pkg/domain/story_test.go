package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalStoryJSON = `{
	"title": "Drip's Journey",
	"concept": "The water cycle",
	"target_age": "Elementary",
	"scenes": [
		{
			"scene_number": 1,
			"location": "A sunny lake",
			"characters": ["Fox"],
			"dialogue": "Fox: Where does the water go?",
			"action": "Fox looks at the steam rising",
			"educational_point": "Evaporation turns water into vapor",
			"visual_description": "A fox by a lake with wavy lines rising"
		}
	]
}`

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestValidateStoryData(t *testing.T) {
	t.Run("必須項目が揃った最小構成を受け入れる", func(t *testing.T) {
		assert.NoError(t, ValidateStoryData(decode(t, minimalStoryJSON)))
	})

	t.Run("scenes が無いと拒否する", func(t *testing.T) {
		err := ValidateStoryData(decode(t, `{"title": "t", "concept": "c"}`))
		assert.ErrorIs(t, err, ErrInvalidStoryShape)
	})

	t.Run("scenes が空リストだと拒否する", func(t *testing.T) {
		err := ValidateStoryData(decode(t, `{"title": "t", "concept": "c", "scenes": []}`))
		assert.ErrorIs(t, err, ErrInvalidStoryShape)
	})

	t.Run("educational_point が無いシーンを拒否する", func(t *testing.T) {
		raw := decode(t, minimalStoryJSON).(map[string]any)
		scene := raw["scenes"].([]any)[0].(map[string]any)
		delete(scene, "educational_point")

		err := ValidateStoryData(raw)
		assert.ErrorIs(t, err, ErrInvalidStoryShape)
		assert.Contains(t, err.Error(), "educational_point")
	})

	t.Run("characters がリストでないと拒否する", func(t *testing.T) {
		raw := decode(t, minimalStoryJSON).(map[string]any)
		raw["scenes"].([]any)[0].(map[string]any)["characters"] = "Fox"

		assert.ErrorIs(t, ValidateStoryData(raw), ErrInvalidStoryShape)
	})

	t.Run("トップレベルがオブジェクトでないと拒否する", func(t *testing.T) {
		assert.ErrorIs(t, ValidateStoryData(decode(t, `[1, 2]`)), ErrInvalidStoryShape)
	})
}

func TestParseStoryOutline(t *testing.T) {
	t.Run("正常なペイロードから StoryOutline を返す", func(t *testing.T) {
		outline, err := ParseStoryOutline([]byte(minimalStoryJSON))
		require.NoError(t, err)
		assert.Equal(t, "The water cycle", outline.Concept)
		require.Len(t, outline.Scenes, 1)
		assert.Equal(t, []string{"Fox"}, outline.Scenes[0].Characters)
		assert.Empty(t, outline.LearningObjectives)
	})

	t.Run("空白だけのペイロードは EmptyResponse", func(t *testing.T) {
		_, err := ParseStoryOutline([]byte("  \n"))
		assert.ErrorIs(t, err, ErrEmptyResponse)
	})

	t.Run("JSONでなければ MalformedResponse", func(t *testing.T) {
		_, err := ParseStoryOutline([]byte("Here is your story: ..."))
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("型が合わないフィールドは InvalidStoryShape", func(t *testing.T) {
		raw := decode(t, minimalStoryJSON).(map[string]any)
		raw["scenes"].([]any)[0].(map[string]any)["scene_number"] = "one"
		payload, err := json.Marshal(raw)
		require.NoError(t, err)

		outline, err := ParseStoryOutline(payload)
		assert.ErrorIs(t, err, ErrInvalidStoryShape)
		assert.Nil(t, outline)
	})
}

func TestStoryOutline_UnknownCharacters(t *testing.T) {
	outline := StoryOutline{Scenes: []Scene{
		{Characters: []string{"Fox", "Owl"}},
		{Characters: []string{"fox", "Owl", "Bear"}},
	}}

	assert.Equal(t, []string{"Owl", "Bear"}, outline.UnknownCharacters([]string{"Fox"}))
	assert.Empty(t, outline.UnknownCharacters([]string{"Fox", "Owl", "Bear"}))
}

func TestScene_DisplayTitle(t *testing.T) {
	assert.Equal(t, "Rain", Scene{SceneTitle: "Rain", Location: "Cloud"}.DisplayTitle())
	assert.Equal(t, "Cloud", Scene{Location: "Cloud"}.DisplayTitle())
}
