package generator

import (
	"context"

	"github.com/shouni/go-webtoon-kit/pkg/asset"
	"github.com/shouni/go-webtoon-kit/pkg/prompts"
)

// ReferenceSource はシーンのキャラクターに対応する参照画像を提供します。
type ReferenceSource interface {
	Load(ctx context.Context, names []string) []asset.Reference
}

// ScenePromptBuilder はシーン画像プロンプトを構築する契約です。
type ScenePromptBuilder interface {
	BuildScenePrompt(in prompts.SceneInput) (string, error)
}

// SceneGenerator は1シーン分の画像を必ず1枚返す契約です。
type SceneGenerator interface {
	Generate(ctx context.Context, req SceneRequest) SceneImage
}
