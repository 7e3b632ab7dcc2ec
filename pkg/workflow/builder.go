package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/shouni/go-webtoon-kit/pkg/ai"
	"github.com/shouni/go-webtoon-kit/pkg/asset"
	"github.com/shouni/go-webtoon-kit/pkg/config"
	"github.com/shouni/go-webtoon-kit/pkg/domain"
	"github.com/shouni/go-webtoon-kit/pkg/generator"
	"github.com/shouni/go-webtoon-kit/pkg/prompts"
	"github.com/shouni/go-webtoon-kit/pkg/publisher"
	"github.com/shouni/go-webtoon-kit/pkg/story"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const (
	defaultCacheExpiration = 5 * time.Minute
	cacheCleanupInterval   = 15 * time.Minute
	defaultRateBurst       = 1
)

// BuildArgs は Build に渡す依存関係です。
type BuildArgs struct {
	Config  config.Config
	Client  ai.ContentGenerator    // 必須
	Assets  domain.CharacterAssets // nil なら参照画像なしで生成する
	Writer  publisher.OutputWriter // nil なら Persist は使えない
	Publish publisher.Options
	Options Options
}

// Build は Config とクライアントから本番用の Manager を組み立てます。
func Build(ctx context.Context, args BuildArgs) (*Manager, error) {
	if args.Client == nil {
		return nil, fmt.Errorf("aiClient は必須です")
	}
	cfg := args.Config

	pb, err := prompts.NewPromptBuilder()
	if err != nil {
		return nil, fmt.Errorf("PromptBuilder の初期化に失敗しました: %w", err)
	}

	requester, err := story.NewRequester(args.Client, cfg.GeminiModel, story.Options{
		Temperature:     cfg.Temperature,
		MaxOutputTokens: cfg.MaxOutputTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("構成案リクエスターの初期化に失敗しました: %w", err)
	}

	refs, err := initializeReferenceLoader(args.Assets, cfg.ReferenceMaxSize)
	if err != nil {
		return nil, err
	}

	var src generator.ReferenceSource
	if refs != nil {
		src = refs
	}
	scenes, err := generator.NewSceneImageRequester(args.Client, pb, src, generator.OptionsFromConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("シーン画像リクエスターの初期化に失敗しました: %w", err)
	}

	var persister ContentPersister
	if args.Writer != nil {
		publishOpts := args.Publish
		if publishOpts.OutputDir == "" {
			publishOpts.OutputDir = cfg.OutputDir
		}
		p, err := publisher.NewPersister(args.Writer, publishOpts)
		if err != nil {
			return nil, fmt.Errorf("Persister の初期化に失敗しました: %w", err)
		}
		persister = p
	}

	return New(ManagerArgs{
		Prompts:   pb,
		Story:     requester,
		Scenes:    scenes,
		Pacer:     newScenePacer(cfg.SceneInterval),
		Persister: persister,
		Layout:    cfg.Layout,
		Options:   args.Options,
	})
}

// initializeReferenceLoader は縮小済み参照画像をキャッシュする ReferenceLoader を初期化します。
func initializeReferenceLoader(assets domain.CharacterAssets, maxSize int) (*asset.ReferenceLoader, error) {
	if len(assets) == 0 {
		return nil, nil
	}
	if maxSize <= 0 {
		maxSize = config.DefaultReferenceMaxSize
	}
	imgCache := cache.New(defaultCacheExpiration, cacheCleanupInterval)
	loader, err := asset.NewReferenceLoader(assets, maxSize, imgCache, asset.WithTTL(defaultCacheExpiration))
	if err != nil {
		return nil, fmt.Errorf("ReferenceLoader の初期化に失敗しました: %w", err)
	}
	return loader, nil
}

// newScenePacer はシーン間に interval 以上の間隔を空ける Limiter を返します。
// interval が 0 以下なら待機しません。
func newScenePacer(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, defaultRateBurst)
	}
	return rate.NewLimiter(rate.Every(interval), defaultRateBurst)
}
