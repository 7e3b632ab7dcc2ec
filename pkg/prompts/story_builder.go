package prompts

import (
	"strings"

	"github.com/shouni/go-webtoon-kit/pkg/domain"
)

// BuildStoryPrompt は構成案を JSON で要求するプロンプトを生成します。
// シーン内のキャラクター名を指定リストに限定する指示を含みますが、ローカルでの強制はしません。
func (b *PromptBuilder) BuildStoryPrompt(req domain.GenerationRequest) (string, error) {
	return b.execute(ModeStory, StoryTemplateData{
		Concept:         sanitizeInline(req.Concept),
		CharacterList:   joinNames(req.Characters),
		SceneCount:      req.SceneCount,
		Difficulty:      req.Difficulty,
		DifficultyLower: strings.ToLower(req.Difficulty),
	})
}
