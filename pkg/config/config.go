package config

import (
	"time"
)

// デフォルト値の定義
const (
	DefaultLocationID       = "us-central1"
	DefaultGeminiModel      = "gemini-2.0-flash-001"
	DefaultImageModel       = "gemini-2.5-flash-image-preview"
	DefaultTemperature      = float32(0.7)
	DefaultMaxOutputTokens  = int32(2048)
	DefaultMaxRetries       = 3
	DefaultRetryDelay       = 1 * time.Second
	DefaultSceneInterval    = 1 * time.Second
	DefaultReferenceMaxSize = 512
	DefaultCharactersDir    = "characters"
	DefaultOutputDir        = "output"

	DefaultPanelWidth  = 800
	DefaultPanelHeight = 600
	DefaultPadding     = 20
	DefaultTitleHeight = 100
)

// Layout はウェブトゥーンのキャンバス寸法です。
type Layout struct {
	PanelWidth  int
	PanelHeight int
	Padding     int
	TitleHeight int
}

// CanvasWidth は panel_width + 2*padding を返します。
func (l Layout) CanvasWidth() int {
	return l.PanelWidth + 2*l.Padding
}

// CanvasHeight は N 枚のパネルを縦に積んだときのキャンバスの高さを返します。
// 上下の余白として padding を2つ余分に持ちます。
func (l Layout) CanvasHeight(scenes int) int {
	return l.TitleHeight + scenes*(l.PanelHeight+l.Padding) + 2*l.Padding
}

// Config は Go Webtoon Kit の各コンポーネントを動作させるための基本設定です。
type Config struct {
	// --- AI Model Settings ---
	GeminiModel string // 構成案（テキスト）用
	ImageModel  string // シーン画像用

	// --- Google AI (Gemini API) Settings ---
	GeminiAPIKey string

	// --- Vertex AI Settings ---
	UseVertexAI bool
	ProjectID   string
	LocationID  string

	// --- Story Settings ---
	Temperature     float32
	MaxOutputTokens int32

	// --- Image Settings ---
	MaxRetries       int
	RetryDelay       time.Duration
	SceneInterval    time.Duration
	ReferenceMaxSize int

	// --- Layout Settings ---
	Layout Layout

	// --- Storage Settings ---
	CharactersDir string
	OutputDir     string
}

// DefaultLayout は 800x600 のパネルを持つ既定のレイアウトを返します。
func DefaultLayout() Layout {
	return Layout{
		PanelWidth:  DefaultPanelWidth,
		PanelHeight: DefaultPanelHeight,
		Padding:     DefaultPadding,
		TitleHeight: DefaultTitleHeight,
	}
}

// DefaultConfig は推奨されるデフォルト設定を返すヘルパー関数です。
func DefaultConfig() Config {
	return Config{
		GeminiModel:      DefaultGeminiModel,
		ImageModel:       DefaultImageModel,
		LocationID:       DefaultLocationID,
		Temperature:      DefaultTemperature,
		MaxOutputTokens:  DefaultMaxOutputTokens,
		MaxRetries:       DefaultMaxRetries,
		RetryDelay:       DefaultRetryDelay,
		SceneInterval:    DefaultSceneInterval,
		ReferenceMaxSize: DefaultReferenceMaxSize,
		Layout:           DefaultLayout(),
		CharactersDir:    DefaultCharactersDir,
		OutputDir:        DefaultOutputDir,
	}
}
