package ai

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// ContentGenerator は生成エンドポイントとの通信契約です。
// *genai.Models はこのインターフェースを満たします。
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// ClientConfig は genai クライアントの接続設定です。
type ClientConfig struct {
	APIKey      string
	UseVertexAI bool
	ProjectID   string
	LocationID  string
}

// NewClient は Gemini API もしくは Vertex AI に接続する ContentGenerator を生成します。
func NewClient(ctx context.Context, cfg ClientConfig) (ContentGenerator, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.UseVertexAI {
		if cfg.ProjectID == "" {
			return nil, fmt.Errorf("Vertex AI を使うには ProjectID が必須です")
		}
		cc = &genai.ClientConfig{
			Project:  cfg.ProjectID,
			Location: cfg.LocationID,
			Backend:  genai.BackendVertexAI,
		}
	} else if cfg.APIKey == "" {
		return nil, fmt.Errorf("APIキーが設定されていません")
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	return client.Models, nil
}

// UserContent は parts を1つの user ロールのコンテンツにまとめます。
func UserContent(parts ...*genai.Part) []*genai.Content {
	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
}

// FirstCandidateParts は最初の候補の parts を返します。候補が無ければ nil です。
func FirstCandidateParts(resp *genai.GenerateContentResponse) []*genai.Part {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return nil
	}
	return candidate.Content.Parts
}

// ResponseText は最初の候補に含まれるテキスト part を連結して返します。
func ResponseText(resp *genai.GenerateContentResponse) string {
	var text string
	for _, part := range FirstCandidateParts(resp) {
		if part != nil && part.Text != "" && !part.Thought {
			text += part.Text
		}
	}
	return text
}
