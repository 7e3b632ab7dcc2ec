package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validRequest() GenerationRequest {
	return GenerationRequest{
		Concept:    "The water cycle",
		Characters: []string{"Fox"},
		SceneCount: 3,
		Difficulty: "Elementary",
	}.Normalize()
}

func TestGenerationRequest_Normalize(t *testing.T) {
	r := GenerationRequest{
		Concept:    "  The water cycle  ",
		Characters: []string{" Fox ", "", "Fox", "Owl"},
		Language:   " ES ",
	}.Normalize()

	assert.Equal(t, "The water cycle", r.Concept)
	assert.Equal(t, []string{"Fox", "Owl"}, r.Characters)
	assert.Equal(t, DefaultScenes, r.SceneCount)
	assert.Equal(t, DefaultStyle, r.Style)
	assert.Equal(t, "es", r.Language)
}

func TestGenerationRequest_Validate(t *testing.T) {
	assert.NoError(t, validRequest().Validate())

	cases := map[string]func(r *GenerationRequest){
		"コンセプトが空":       func(r *GenerationRequest) { r.Concept = "" },
		"コンセプトが短すぎる":    func(r *GenerationRequest) { r.Concept = "water" },
		"キャラクターが居ない":    func(r *GenerationRequest) { r.Characters = nil },
		"シーン数が少なすぎる":    func(r *GenerationRequest) { r.SceneCount = 2 },
		"シーン数が多すぎる":     func(r *GenerationRequest) { r.SceneCount = 11 },
		"未知の難易度":        func(r *GenerationRequest) { r.Difficulty = "University" },
		"未知の画風":         func(r *GenerationRequest) { r.Style = "oil painting" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			r := validRequest()
			mutate(&r)
			assert.ErrorIs(t, r.Validate(), ErrInvalidRequest)
		})
	}
}

func TestValidateAPIKey(t *testing.T) {
	assert.True(t, ValidateAPIKey("AIzaSyA-0123456789abcdefghij"))
	assert.True(t, ValidateAPIKey("sk-0123456789abcdefghijkl"))
	assert.False(t, ValidateAPIKey(""))
	assert.False(t, ValidateAPIKey("AIzaShort"))
	assert.False(t, ValidateAPIKey("xx-0123456789abcdefghijkl"))
}
