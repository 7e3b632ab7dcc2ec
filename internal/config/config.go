package config

import (
	"strconv"
	"strings"
	"time"

	libconfig "github.com/shouni/go-webtoon-kit/pkg/config"

	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	DefaultAWSRegion      = "us-east-1"
	DefaultServeAddr      = ":8080"
	DefaultRequestTimeout = 10 * time.Minute
	DefaultDifficulty     = "Elementary"
	DefaultStoryFormat    = "json"
	DefaultLanguage       = "en"
)

// Config はアプリケーション全体の環境設定（APIキーやクラウド設定）を保持する構造体なのだ。
type Config struct {
	GeminiAPIKey     string
	GeminiModel      string
	GeminiImageModel string
	UseVertexAI      bool
	ProjectID        string
	LocationID       string

	CharactersDir string
	OutputDir     string

	// s3:// の出力先を使うときの設定
	AWSRegion      string
	AWSEndpointURL string

	Options GenerateOptions
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() *Config {
	return &Config{
		GeminiAPIKey:     envutil.GetEnv("GEMINI_API_KEY", ""),
		GeminiModel:      envutil.GetEnv("GEMINI_MODEL", libconfig.DefaultGeminiModel),
		GeminiImageModel: envutil.GetEnv("IMAGE_GEMINI_MODEL", libconfig.DefaultImageModel),
		UseVertexAI:      parseBool(envutil.GetEnv("GOOGLE_GENAI_USE_VERTEXAI", "")),
		ProjectID:        envutil.GetEnv("PROJECT_ID", ""),
		LocationID:       envutil.GetEnv("REGION", libconfig.DefaultLocationID),
		CharactersDir:    envutil.GetEnv("CHARACTERS_DIR", libconfig.DefaultCharactersDir),
		OutputDir:        envutil.GetEnv("OUTPUT_DIR", libconfig.DefaultOutputDir),
		AWSRegion:        envutil.GetEnv("AWS_REGION", DefaultAWSRegion),
		AWSEndpointURL:   envutil.GetEnv("AWS_ENDPOINT_URL", ""),
	}
}

// LibraryConfig は環境設定と CLI フラグを反映したライブラリ用の設定を返すのだ。
func (c *Config) LibraryConfig() libconfig.Config {
	cfg := libconfig.DefaultConfig()
	cfg.GeminiAPIKey = c.GeminiAPIKey
	cfg.GeminiModel = c.GeminiModel
	cfg.ImageModel = c.GeminiImageModel
	cfg.UseVertexAI = c.UseVertexAI
	cfg.ProjectID = c.ProjectID
	cfg.LocationID = c.LocationID
	cfg.CharactersDir = c.CharactersDir
	cfg.OutputDir = c.OutputDir

	if c.Options.AIModel != "" {
		cfg.GeminiModel = c.Options.AIModel
	}
	if c.Options.ImageModel != "" {
		cfg.ImageModel = c.Options.ImageModel
	}
	if c.Options.CharactersDir != "" {
		cfg.CharactersDir = c.Options.CharactersDir
	}
	if c.Options.OutputDir != "" {
		cfg.OutputDir = c.Options.OutputDir
	}
	if c.Options.MaxRetries > 0 {
		cfg.MaxRetries = c.Options.MaxRetries
	}
	if c.Options.SceneInterval > 0 {
		cfg.SceneInterval = c.Options.SceneInterval
	}
	return cfg
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータなのだ。
type GenerateOptions struct {
	// 生成リクエスト
	Concept    string   // --concept
	Characters []string // --characters
	SceneCount int      // --scenes
	Difficulty string   // --difficulty
	Language   string   // --language
	Style      string   // --style

	// 入出力
	CharactersDir string // --characters-dir
	OutputDir     string // --output-dir
	OutputFile    string // --output-file (story コマンド)
	Format        string // --format: json | yaml
	WebP          bool   // --webp

	// AI挙動設定
	AIModel          string        // --model
	ImageModel       string        // --image-model
	MaxRetries       int           // --max-retries
	SceneInterval    time.Duration // --scene-interval
	StrictCharacters bool          // --strict-characters

	// 実行制御
	Timeout time.Duration // --timeout
	Verbose bool          // --verbose
}

func parseBool(v string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	return err == nil && b
}
