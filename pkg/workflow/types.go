package workflow

import (
	"image"

	"github.com/shouni/go-webtoon-kit/pkg/domain"
	"github.com/shouni/go-webtoon-kit/pkg/generator"
)

// Stage はパイプラインの工程名です。
type Stage string

const (
	StageOutline Stage = "outline"
	StageScenes  Stage = "scenes"
	StageCompose Stage = "compose"
	StageDone    Stage = "done"
)

// ProgressFunc は工程ごとの進捗を受け取ります。done/total は工程内の件数です。
type ProgressFunc func(stage Stage, done, total int)

// Percent は工程内の進捗を全体の進捗率 (0-100) に換算します。
// 構成案 10->30、シーン 30->80、合成 85、完了 100 なのだ。
func Percent(stage Stage, done, total int) int {
	ratio := 1.0
	if total > 0 {
		ratio = float64(min(done, total)) / float64(total)
	}
	switch stage {
	case StageOutline:
		return 10 + int(20*ratio)
	case StageScenes:
		return 30 + int(50*ratio)
	case StageCompose:
		return 85
	case StageDone:
		return 100
	default:
		return 0
	}
}

// Options はパイプラインの動作設定です。
type Options struct {
	// StrictCharacters が true なら、要求外のキャラクターが登場する構成案を不正として扱います。
	StrictCharacters bool
	Progress         ProgressFunc
}

// SceneFailure はプレースホルダーで置き換えたシーンの記録です。
type SceneFailure struct {
	SceneNumber int
	Attempts    int
	Err         error
}

// Result は1回の生成で得られた成果物をまとめたものです。
type Result struct {
	Request  domain.GenerationRequest // 正規化済みのリクエスト
	Outline  *domain.StoryOutline
	Images   []image.Image // シーン順。プレースホルダーを含み nil は無い
	Scenes   []generator.SceneImage
	Webtoon  image.Image // 合成画像
	Failures []SceneFailure
}

// Placeholders はプレースホルダーになったシーン数を返します。
func (r *Result) Placeholders() int {
	return len(r.Failures)
}
