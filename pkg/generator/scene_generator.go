package generator

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/shouni/go-webtoon-kit/pkg/ai"
	"github.com/shouni/go-webtoon-kit/pkg/config"
	"github.com/shouni/go-webtoon-kit/pkg/domain"
	"github.com/shouni/go-webtoon-kit/pkg/imaging"
	"github.com/shouni/go-webtoon-kit/pkg/prompts"

	"google.golang.org/genai"
)

const (
	// DefaultPlaceholderCaption はプレースホルダー画像に描く文言です。
	DefaultPlaceholderCaption = "Image generation failed"
	// PanelAspectRatio は 800x600 のパネルに合わせた生成時のアスペクト比です。
	PanelAspectRatio = "4:3"
)

// Options は SceneImageRequester の動作設定です。
type Options struct {
	Model              string
	MaxRetries         int // 試行回数の合計
	RetryDelay         time.Duration
	PanelWidth         int
	PanelHeight        int
	PlaceholderCaption string
	Sleep              Sleeper
}

// OptionsFromConfig は Config から Options を組み立てます。
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Model:       cfg.ImageModel,
		MaxRetries:  cfg.MaxRetries,
		RetryDelay:  cfg.RetryDelay,
		PanelWidth:  cfg.Layout.PanelWidth,
		PanelHeight: cfg.Layout.PanelHeight,
	}
}

// SceneRequest は1シーン分の画像生成リクエストです。
type SceneRequest struct {
	SceneNumber       int
	VisualDescription string
	Characters        []string
	Style             string
	Language          string
}

// NewSceneRequest はシーンと生成リクエストから SceneRequest を作ります。
func NewSceneRequest(scene domain.Scene, req domain.GenerationRequest) SceneRequest {
	return SceneRequest{
		SceneNumber:       scene.SceneNumber,
		VisualDescription: scene.VisualDescription,
		Characters:        scene.Characters,
		Style:             req.Style,
		Language:          req.Language,
	}
}

// SceneImage は1シーン分の生成結果です。Image は常に非 nil です。
type SceneImage struct {
	Image       image.Image
	Placeholder bool
	Attempts    int
	References  int
	Err         error // Placeholder のときのみ設定され、ErrImageGenerationExhausted をラップする
}

// SceneImageRequester は参照画像付きのマルチパートリクエストでシーン画像を生成し、
// 試行回数を使い切った場合はプレースホルダーで回復します。
type SceneImageRequester struct {
	client  ai.ContentGenerator
	prompts ScenePromptBuilder
	refs    ReferenceSource
	opts    Options
}

// NewSceneImageRequester は SceneImageRequester を初期化します。refs は nil でも構いません。
func NewSceneImageRequester(client ai.ContentGenerator, pb ScenePromptBuilder, refs ReferenceSource, opts Options) (*SceneImageRequester, error) {
	if client == nil {
		return nil, fmt.Errorf("client は必須です")
	}
	if pb == nil {
		return nil, fmt.Errorf("prompt builder は必須です")
	}
	if opts.Model == "" {
		return nil, fmt.Errorf("画像モデル名は必須です")
	}
	if opts.MaxRetries < 1 {
		opts.MaxRetries = config.DefaultMaxRetries
	}
	if opts.PanelWidth <= 0 || opts.PanelHeight <= 0 {
		opts.PanelWidth, opts.PanelHeight = config.DefaultPanelWidth, config.DefaultPanelHeight
	}
	if opts.PlaceholderCaption == "" {
		opts.PlaceholderCaption = DefaultPlaceholderCaption
	}
	if opts.Sleep == nil {
		opts.Sleep = SleepContext
	}
	return &SceneImageRequester{client: client, prompts: pb, refs: refs, opts: opts}, nil
}

// Generate は1シーン分の画像を返します。失敗してもエラーは返さず、プレースホルダーを返すのだ。
func (g *SceneImageRequester) Generate(ctx context.Context, req SceneRequest) SceneImage {
	logger := slog.With("scene", req.SceneNumber)

	var refs []*genai.Part
	if g.refs != nil {
		for _, r := range g.refs.Load(ctx, req.Characters) {
			refs = append(refs, genai.NewPartFromBytes(r.Data, r.MIMEType))
		}
	}

	prompt, err := g.prompts.BuildScenePrompt(prompts.SceneInput{
		VisualDescription: req.VisualDescription,
		Characters:        req.Characters,
		Style:             req.Style,
		Language:          req.Language,
		HasReferences:     len(refs) > 0,
	})
	if err != nil {
		logger.Error("シーン画像プロンプトの構築に失敗しました", "error", err)
		return g.placeholder(0, len(refs), err)
	}

	// プロンプトを先頭に、参照画像を後ろに並べた1つのマルチパートリクエストにするのだ
	parts := append([]*genai.Part{genai.NewPartFromText(prompt)}, refs...)
	contents := ai.UserContent(parts...)

	for attempt := 1; ; attempt++ {
		startTime := time.Now()
		img, err := g.attempt(ctx, contents)

		switch nextState(attempt, g.opts.MaxRetries, err) {
		case stateSuccess:
			logger.Info("シーン画像の生成が完了しました",
				"attempt", attempt,
				"references", len(refs),
				"duration", time.Since(startTime).Round(time.Millisecond))
			return SceneImage{Image: img, Attempts: attempt, References: len(refs)}

		case statePlaceholder:
			logger.Warn("試行回数を使い切ったためプレースホルダーを使用します", "attempts", attempt, "error", err)
			return g.placeholder(attempt, len(refs), err)

		case stateAttempting:
			logger.Warn("シーン画像の生成に失敗したため再試行します", "attempt", attempt, "error", err)
			if sleepErr := g.opts.Sleep(ctx, g.opts.RetryDelay); sleepErr != nil {
				logger.Warn("待機中に中断されたためプレースホルダーを使用します", "attempts", attempt, "error", sleepErr)
				return g.placeholder(attempt, len(refs), sleepErr)
			}
		}
	}
}

func (g *SceneImageRequester) attempt(ctx context.Context, contents []*genai.Content) (image.Image, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{string(genai.ModalityText), string(genai.ModalityImage)},
		ImageConfig:        &genai.ImageConfig{AspectRatio: PanelAspectRatio},
	}
	resp, err := g.client.GenerateContent(ctx, g.opts.Model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("画像生成リクエストに失敗しました: %w", err)
	}
	return extractImage(resp)
}

// placeholder はパネルと同じ寸法のプレースホルダーを返します。
func (g *SceneImageRequester) placeholder(attempts, refs int, cause error) SceneImage {
	return SceneImage{
		Image:       imaging.Placeholder(g.opts.PanelWidth, g.opts.PanelHeight, g.opts.PlaceholderCaption),
		Placeholder: true,
		Attempts:    attempts,
		References:  refs,
		Err:         fmt.Errorf("%w after %d attempts: %v", domain.ErrImageGenerationExhausted, attempts, cause),
	}
}
