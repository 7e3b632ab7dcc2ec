package workflow

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/shouni/go-webtoon-kit/pkg/compositor"
	"github.com/shouni/go-webtoon-kit/pkg/config"
	"github.com/shouni/go-webtoon-kit/pkg/domain"
	"github.com/shouni/go-webtoon-kit/pkg/generator"
	"github.com/shouni/go-webtoon-kit/pkg/publisher"
)

// ManagerArgs は Manager の依存関係です。Pacer と Persister は nil でも構いません。
type ManagerArgs struct {
	Prompts   StoryPromptBuilder
	Story     OutlineRequester
	Scenes    generator.SceneGenerator
	Pacer     Pacer
	Persister ContentPersister
	Layout    config.Layout
	Options   Options
}

// Manager は構成案の生成からシーン画像、合成までを1つのリクエスト単位で順番に実行します。
// 状態はすべて Result に載せて返し、Manager 自身は持たないのだ。
type Manager struct {
	prompts   StoryPromptBuilder
	story     OutlineRequester
	scenes    generator.SceneGenerator
	pacer     Pacer
	persister ContentPersister
	layout    config.Layout
	opts      Options
}

// New は ManagerArgs から Manager を初期化します。
func New(args ManagerArgs) (*Manager, error) {
	if args.Prompts == nil {
		return nil, fmt.Errorf("prompt builder は必須です")
	}
	if args.Story == nil {
		return nil, fmt.Errorf("story requester は必須です")
	}
	if args.Scenes == nil {
		return nil, fmt.Errorf("scene generator は必須です")
	}
	layout := args.Layout
	if layout.PanelWidth <= 0 || layout.PanelHeight <= 0 {
		layout = config.DefaultLayout()
	}
	return &Manager{
		prompts:   args.Prompts,
		story:     args.Story,
		scenes:    args.Scenes,
		pacer:     args.Pacer,
		persister: args.Persister,
		layout:    layout,
		opts:      args.Options,
	}, nil
}

// GenerateOutline はリクエストを検証し、構成案だけを生成します。
func (m *Manager) GenerateOutline(ctx context.Context, req domain.GenerationRequest) (*domain.StoryOutline, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return m.outline(ctx, req)
}

// GenerateWebtoon は構成案、シーン画像、合成画像を順に生成します。
// シーン画像の失敗はプレースホルダーで吸収され、エラーにはならないのだ。
func (m *Manager) GenerateWebtoon(ctx context.Context, req domain.GenerationRequest) (*Result, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	startTime := time.Now()

	m.progress(StageOutline, 0, 1)
	outline, err := m.outline(ctx, req)
	if err != nil {
		return nil, err
	}
	m.progress(StageOutline, 1, 1)

	result := &Result{
		Request: req,
		Outline: outline,
		Images:  make([]image.Image, 0, len(outline.Scenes)),
		Scenes:  make([]generator.SceneImage, 0, len(outline.Scenes)),
	}

	total := len(outline.Scenes)
	m.progress(StageScenes, 0, total)
	for i, scene := range outline.Scenes {
		// 1度に投げる画像リクエストは1つだけ。間隔は Pacer が空けるのだ
		if m.pacer != nil {
			if err := m.pacer.Wait(ctx); err != nil {
				return nil, fmt.Errorf("シーン %d の待機中に中断されました: %w", i+1, err)
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("シーン %d の生成前に中断されました: %w", i+1, err)
		}

		slog.Info("シーン画像を生成します", "scene", scene.SceneNumber, "title", scene.DisplayTitle(), "progress", fmt.Sprintf("%d/%d", i+1, total))
		img := m.scenes.Generate(ctx, generator.NewSceneRequest(scene, req))
		result.Scenes = append(result.Scenes, img)
		result.Images = append(result.Images, img.Image)
		if img.Placeholder {
			slog.Warn("シーン画像をプレースホルダーで代替しました", "scene", scene.SceneNumber, "title", scene.DisplayTitle(), "attempts", img.Attempts)
			result.Failures = append(result.Failures, SceneFailure{
				SceneNumber: scene.SceneNumber,
				Attempts:    img.Attempts,
				Err:         img.Err,
			})
		}
		m.progress(StageScenes, i+1, total)
	}

	m.progress(StageCompose, 0, 1)
	if webtoon := compositor.Compose(outline, result.Images, m.layout); webtoon != nil {
		result.Webtoon = webtoon
	}
	m.progress(StageDone, 1, 1)

	slog.Info("ウェブトゥーンの生成が完了しました",
		"title", outline.Title,
		"scenes", total,
		"placeholders", result.Placeholders(),
		"duration", time.Since(startTime).Round(time.Millisecond))
	return result, nil
}

// Persist は生成結果を保存します。失敗しても Result は有効なままなので、呼び出し側は警告で済ませて構いません。
func (m *Manager) Persist(ctx context.Context, result *Result) (publisher.PersistResult, error) {
	if m.persister == nil {
		return publisher.PersistResult{}, fmt.Errorf("%w: persister が設定されていません", domain.ErrPersistenceFailure)
	}
	if result == nil {
		return publisher.PersistResult{}, fmt.Errorf("%w: 生成結果がありません", domain.ErrPersistenceFailure)
	}
	res, err := m.persister.Persist(ctx, result.Outline, result.Images, result.Webtoon)
	if err != nil {
		slog.Warn("成果物の保存に失敗しました", "error", err)
		if !errors.Is(err, domain.ErrPersistenceFailure) {
			err = fmt.Errorf("%w: %v", domain.ErrPersistenceFailure, err)
		}
		return res, err
	}
	return res, nil
}

func (m *Manager) outline(ctx context.Context, req domain.GenerationRequest) (*domain.StoryOutline, error) {
	prompt, err := m.prompts.BuildStoryPrompt(req)
	if err != nil {
		return nil, fmt.Errorf("構成案プロンプトの構築に失敗しました: %w", err)
	}

	outline, err := m.story.Request(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("構成案の生成に失敗しました: %w", err)
	}

	if unknown := outline.UnknownCharacters(req.Characters); len(unknown) > 0 {
		if m.opts.StrictCharacters {
			return nil, fmt.Errorf("%w: 要求されていないキャラクターが含まれています: %v", domain.ErrInvalidStoryShape, unknown)
		}
		slog.Warn("構成案に要求外のキャラクターが含まれています", "characters", unknown)
	}
	return outline, nil
}

func (m *Manager) progress(stage Stage, done, total int) {
	if m.opts.Progress != nil {
		m.opts.Progress(stage, done, total)
	}
}
