package builder

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/shouni/go-webtoon-kit/internal/config"

	"github.com/shouni/go-webtoon-kit/pkg/ai"
	"github.com/shouni/go-webtoon-kit/pkg/asset"
	"github.com/shouni/go-webtoon-kit/pkg/publisher"
	"github.com/shouni/go-webtoon-kit/pkg/workflow"

	awsConfig "github.com/aws/aws-sdk-go-v2/config"
)

// BuildAppContext は環境設定から AI クライアント、素材、出力先、パイプラインを組み立てるのだ。
func BuildAppContext(ctx context.Context, cfg *config.Config, progress workflow.ProgressFunc) (*AppContext, error) {
	libCfg := cfg.LibraryConfig()

	aiClient, err := InitializeAIClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	assets, err := asset.LoadCharacterAssets(ctx, libCfg.CharactersDir)
	if err != nil {
		return nil, fmt.Errorf("キャラクター素材の読み込みに失敗しました: %w", err)
	}

	writer, err := InitializeWriter(ctx, cfg, libCfg.OutputDir, cfg.Options.OutputFile)
	if err != nil {
		return nil, err
	}

	manager, err := workflow.Build(ctx, workflow.BuildArgs{
		Config: libCfg,
		Client: aiClient,
		Assets: assets,
		Writer: writer,
		Publish: publisher.Options{
			OutputDir: libCfg.OutputDir,
			Format:    cfg.Options.Format,
			WebP:      cfg.Options.WebP,
		},
		Options: workflow.Options{
			StrictCharacters: cfg.Options.StrictCharacters,
			Progress:         progress,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("パイプラインの構築に失敗しました: %w", err)
	}

	appCtx := NewAppContext(cfg, assets, writer, manager)
	return &appCtx, nil
}

// InitializeAIClient は Gemini API もしくは Vertex AI のクライアントを初期化します。
func InitializeAIClient(ctx context.Context, cfg *config.Config) (ai.ContentGenerator, error) {
	aiClient, err := ai.NewClient(ctx, ai.ClientConfig{
		APIKey:      cfg.GeminiAPIKey,
		UseVertexAI: cfg.UseVertexAI,
		ProjectID:   cfg.ProjectID,
		LocationID:  cfg.LocationID,
	})
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	return aiClient, nil
}

// InitializeWriter は出力先に応じた OutputWriter を返します。
// destinations (出力ディレクトリや --output-file) のいずれかが s3:// のときだけ AWS の設定を読み込むのだ。
func InitializeWriter(ctx context.Context, cfg *config.Config, destinations ...string) (publisher.OutputWriter, error) {
	remote, err := remoteDestinations(destinations)
	if err != nil {
		return nil, err
	}
	if len(remote) == 0 {
		return publisher.NewUniversalWriter(publisher.LocalWriter{}, nil), nil
	}

	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, awsConfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("AWS設定の読み込みに失敗しました: %w", err)
	}
	s3Writer, err := publisher.NewS3Writer(publisher.NewS3Client(awsCfg, cfg.AWSEndpointURL))
	if err != nil {
		return nil, err
	}
	slog.Info("S3 に出力します", "destinations", remote, "endpoint", cfg.AWSEndpointURL)
	return publisher.NewUniversalWriter(publisher.LocalWriter{}, s3Writer), nil
}

// remoteDestinations はリモートの出力先だけを返します。s3:// 以外のスキームはエラーなのだ。
func remoteDestinations(destinations []string) ([]string, error) {
	var remote []string
	for _, dest := range destinations {
		if dest == "" || !asset.IsRemote(dest) {
			continue
		}
		if u, err := url.Parse(dest); err != nil || !strings.EqualFold(u.Scheme, "s3") {
			return nil, fmt.Errorf("未対応の出力先です (s3:// のみ対応): %s", dest)
		}
		remote = append(remote, dest)
	}
	return remote, nil
}
