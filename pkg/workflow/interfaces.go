package workflow

import (
	"context"
	"image"

	"github.com/shouni/go-webtoon-kit/pkg/domain"
	"github.com/shouni/go-webtoon-kit/pkg/publisher"
)

// StoryPromptBuilder は生成リクエストから構成案プロンプトを組み立てる責務を持ちます。
type StoryPromptBuilder interface {
	BuildStoryPrompt(req domain.GenerationRequest) (string, error)
}

// OutlineRequester は構成案プロンプトから検証済みの構成案を得る責務を持ちます。
type OutlineRequester interface {
	Request(ctx context.Context, prompt string) (*domain.StoryOutline, error)
}

// ContentPersister は生成結果を永続化する責務を持ちます。
type ContentPersister interface {
	Persist(ctx context.Context, outline *domain.StoryOutline, images []image.Image, webtoon image.Image) (publisher.PersistResult, error)
}

// Pacer はシーン画像リクエストの間隔を空けます。*rate.Limiter が満たします。
type Pacer interface {
	Wait(ctx context.Context) error
}
