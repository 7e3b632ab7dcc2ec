package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/shouni/go-webtoon-kit/internal/config"

	"github.com/shouni/go-webtoon-kit/pkg/domain"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// requiresAPIKey を付けたコマンドだけ API キーのチェックを行うのだ。
const requiresAPIKey = "requires-api-key"

// opts はすべてのサブコマンドで共有する実行時パラメータなのだ。
var opts config.GenerateOptions

// NewRootCmd はルートコマンドとサブコマンドを組み立てて返すのだ。
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "webtoon-kit",
		Short: "学習用ウェブトゥーンを AI で生成するツールなのだ。",
		Long: `学習テーマとキャラクターから構成案を作り、シーンごとの画像を生成して
1枚の縦長ウェブトゥーンに合成するのだ。成果物は output/ か s3:// に保存されるのだよ。`,
		SilenceUsage:      true,
		PersistentPreRunE: preRunAppE,
	}

	addAppFlags(rootCmd)
	rootCmd.AddCommand(
		newGenerateCmd(),
		newStoryCmd(),
		newCharactersCmd(),
		newServeCmd(),
	)
	return rootCmd
}

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().BoolVar(&opts.Verbose, "verbose", false, "デバッグログを出力するのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.CharactersDir, "characters-dir", "", "キャラクター素材のディレクトリなのだ（未指定なら CHARACTERS_DIR）。")
	rootCmd.PersistentFlags().StringVar(&opts.AIModel, "model", "", "構成案に使う Gemini モデル名なのだ（未指定なら GEMINI_MODEL）。")
	rootCmd.PersistentFlags().StringVar(&opts.ImageModel, "image-model", "", "シーン画像に使う Gemini モデル名なのだ（未指定なら IMAGE_GEMINI_MODEL）。")
}

// addRequestFlags は生成リクエストのフラグを定義するのだ。
func addRequestFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&opts.Concept, "concept", "C", "", "学習テーマなのだ（10文字以上）。")
	cmd.Flags().StringSliceVarP(&opts.Characters, "characters", "c", nil, "登場キャラクター名（カンマ区切り）なのだ。")
	cmd.Flags().IntVarP(&opts.SceneCount, "scenes", "n", domain.DefaultScenes, fmt.Sprintf("シーン数 (%d-%d) なのだ。", domain.MinScenes, domain.MaxScenes))
	cmd.Flags().StringVarP(&opts.Difficulty, "difficulty", "d", config.DefaultDifficulty, "対象レベル (Preschool, Elementary, Middle School) なのだ。")
	cmd.Flags().StringVarP(&opts.Language, "language", "l", config.DefaultLanguage, "吹き出しの言語コードなのだ。")
	cmd.Flags().StringVarP(&opts.Style, "style", "s", domain.DefaultStyle, "画風 (cartoon, anime, cute, colorful, realistic) なのだ。")
	cmd.Flags().StringVarP(&opts.Format, "format", "F", config.DefaultStoryFormat, "構成案の保存形式 (json, yaml) なのだ。")
	cmd.Flags().BoolVar(&opts.StrictCharacters, "strict-characters", false, "要求外のキャラクターが登場する構成案を失敗扱いにするのだ。")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", config.DefaultRequestTimeout, "生成全体のタイムアウトなのだ。")
	_ = cmd.MarkFlagRequired("concept")
	_ = cmd.MarkFlagRequired("characters")
}

// preRunAppE は、コマンド実行前に .env の読み込みと必須チェックを行うのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	// .env が無くても問題ないのだ
	_ = godotenv.Load()

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if _, ok := cmd.Annotations[requiresAPIKey]; !ok {
		return nil
	}
	return checkCredentials(config.LoadConfig())
}

// checkCredentials は Gemini API か Vertex AI のどちらかが使えるか確認するのだ。
func checkCredentials(cfg *config.Config) error {
	if cfg.UseVertexAI {
		if cfg.ProjectID == "" {
			return fmt.Errorf("エラー: Vertex AI を使うには環境変数 PROJECT_ID が必須なのだ")
		}
		return nil
	}
	if cfg.GeminiAPIKey == "" {
		return fmt.Errorf("エラー: 環境変数 GEMINI_API_KEY が設定されていません。Gemini APIの利用には必須なのだ")
	}
	if !domain.ValidateAPIKey(cfg.GeminiAPIKey) {
		slog.Warn("GEMINI_API_KEY の形式が想定と異なるのだ。そのまま続行するのだ")
	}
	return nil
}

// loadConfig は環境設定に CLI フラグを載せて返すのだ。
func loadConfig() *config.Config {
	cfg := config.LoadConfig()
	cfg.Options = opts
	return cfg
}
