package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/shouni/go-webtoon-kit/internal/builder"
	"github.com/shouni/go-webtoon-kit/internal/config"

	"github.com/shouni/go-webtoon-kit/pkg/domain"
	"github.com/shouni/go-webtoon-kit/pkg/publisher"
	"github.com/shouni/go-webtoon-kit/pkg/workflow"
)

// Generator は CLI から使うパイプラインの操作です。*workflow.Manager が満たします。
type Generator interface {
	GenerateOutline(ctx context.Context, req domain.GenerationRequest) (*domain.StoryOutline, error)
	GenerateWebtoon(ctx context.Context, req domain.GenerationRequest) (*workflow.Result, error)
	Persist(ctx context.Context, result *workflow.Result) (publisher.PersistResult, error)
}

// Summary は generate コマンドの実行結果なのだ。
type Summary struct {
	Title        string
	Scenes       int
	Placeholders int
	Persisted    publisher.PersistResult
	PersistErr   error
}

// Execute は、構成案の生成からシーン画像、合成、保存までを一括で実行するのだ。
func Execute(ctx context.Context, cfg *config.Config) (*Summary, error) {
	appCtx, err := builder.BuildAppContext(ctx, cfg, logProgress)
	if err != nil {
		return nil, err
	}
	return Run(ctx, appCtx.Workflow, RequestFromOptions(cfg.Options))
}

// Run は Generator を使って生成と保存を行うのだ。
// 保存の失敗は生成結果を無効にしないので、警告を出して Summary に載せるだけなのだ。
func Run(ctx context.Context, gen Generator, req domain.GenerationRequest) (*Summary, error) {
	slog.Info("ウェブトゥーン生成を開始するのだ...",
		"concept", req.Concept,
		"characters", req.Characters,
		"scenes", req.SceneCount)

	result, err := gen.GenerateWebtoon(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("ウェブトゥーンの生成に失敗したのだ: %w", err)
	}

	summary := &Summary{
		Title:        result.Outline.Title,
		Scenes:       len(result.Images),
		Placeholders: result.Placeholders(),
	}
	for _, f := range result.Failures {
		slog.Warn("プレースホルダーで置き換えたシーンがあるのだ", "scene", f.SceneNumber, "attempts", f.Attempts, "error", f.Err)
	}

	persisted, err := gen.Persist(ctx, result)
	if err != nil {
		slog.Warn("保存に失敗したけれど生成結果は有効なのだ", "error", err)
		summary.PersistErr = err
		return summary, nil
	}
	summary.Persisted = persisted

	slog.Info("ウェブトゥーンが完成したのだ！",
		"title", summary.Title,
		"dir", persisted.Dir,
		"webtoon", persisted.WebtoonPath)
	return summary, nil
}

// ExecuteStory は構成案だけを生成し、w に書き出すのだ。
func ExecuteStory(ctx context.Context, cfg *config.Config, w io.Writer) error {
	appCtx, err := builder.BuildAppContext(ctx, cfg, nil)
	if err != nil {
		return err
	}

	data, err := RunStory(ctx, appCtx.Workflow, RequestFromOptions(cfg.Options), cfg.Options.Format)
	if err != nil {
		return err
	}

	if path := cfg.Options.OutputFile; path != "" {
		contentType := "application/json; charset=utf-8"
		if cfg.Options.Format == publisher.FormatYAML {
			contentType = "application/yaml; charset=utf-8"
		}
		if err := appCtx.Writer.Write(ctx, path, bytes.NewReader(data), contentType); err != nil {
			return fmt.Errorf("構成案の保存に失敗したのだ: %w", err)
		}
		slog.Info("構成案を保存したのだ", "path", path)
		return nil
	}

	_, err = w.Write(data)
	return err
}

// RunStory は構成案を生成してエンコード済みのバイト列を返すのだ。
func RunStory(ctx context.Context, gen Generator, req domain.GenerationRequest, format string) ([]byte, error) {
	outline, err := gen.GenerateOutline(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("構成案の生成に失敗したのだ: %w", err)
	}
	if format == "" {
		format = publisher.FormatJSON
	}
	if format != publisher.FormatJSON && format != publisher.FormatYAML {
		return nil, errors.New("format は json か yaml を指定してほしいのだ")
	}
	return publisher.EncodeStoryData(outline, format)
}

// RequestFromOptions は CLI フラグから生成リクエストを作るのだ。
func RequestFromOptions(opts config.GenerateOptions) domain.GenerationRequest {
	return domain.GenerationRequest{
		Concept:    opts.Concept,
		Characters: opts.Characters,
		SceneCount: opts.SceneCount,
		Difficulty: opts.Difficulty,
		Language:   opts.Language,
		Style:      opts.Style,
	}
}

// logProgress は進捗をログに流すのだ。
func logProgress(stage workflow.Stage, done, total int) {
	slog.Debug("進捗", "stage", stage, "done", done, "total", total, "percent", workflow.Percent(stage, done, total))
}
