package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-webtoon-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// newGenerateCmd は、構成案からウェブトゥーンの合成・保存までを実行するコマンドなのだ。
func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "学習用ウェブトゥーンを生成して保存するのだ。",
		Long: `構成案、シーン画像、合成画像を順に生成し、
output/webtoon_<日時>/ に story_data.json と scene_<n>.png、webtoon.png を保存するのだ。`,
		Example:     `  webtoon-kit generate -C "The water cycle" -c Fox -n 3 -d Elementary`,
		Annotations: map[string]string{requiresAPIKey: "true"},
		RunE:        generateCommand,
	}

	addRequestFlags(cmd)
	cmd.Flags().StringVarP(&opts.OutputDir, "output-dir", "o", "", "保存先ディレクトリ（ローカル or s3://...）なのだ（未指定なら OUTPUT_DIR）。")
	cmd.Flags().BoolVar(&opts.WebP, "webp", false, "webtoon.webp も書き出すのだ。")
	cmd.Flags().IntVar(&opts.MaxRetries, "max-retries", 0, "シーン画像1枚あたりの試行回数なのだ（0 なら既定の3回）。")
	cmd.Flags().DurationVar(&opts.SceneInterval, "scene-interval", 0, "シーン間の待機時間なのだ（0 なら既定の1秒）。")
	return cmd
}

func generateCommand(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
	defer cancel()

	cfg := loadConfig()
	slog.Info("ウェブトゥーン生成パイプラインを起動するのだ！",
		"text_model", cfg.LibraryConfig().GeminiModel,
		"image_model", cfg.LibraryConfig().ImageModel,
		"output", cfg.LibraryConfig().OutputDir)

	summary, err := pipeline.Execute(ctx, cfg)
	if err != nil {
		return fmt.Errorf("パイプライン実行中にエラーが発生したのだ: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Title: %s\n", summary.Title)
	fmt.Fprintf(out, "Scenes: %d (placeholders: %d)\n", summary.Scenes, summary.Placeholders)
	if summary.PersistErr != nil {
		fmt.Fprintf(out, "Warning: %v\n", summary.PersistErr)
		return nil
	}
	fmt.Fprintf(out, "Saved: %s\n", summary.Persisted.Dir)
	if summary.Persisted.WebtoonPath != "" {
		fmt.Fprintf(out, "Webtoon: %s\n", summary.Persisted.WebtoonPath)
	}
	return nil
}
