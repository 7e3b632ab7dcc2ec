package story

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/shouni/go-webtoon-kit/pkg/ai"
	"github.com/shouni/go-webtoon-kit/pkg/domain"

	"google.golang.org/genai"
)

const responseMIMEType = "application/json"

// codeFenceRegex は ```json ... ``` で包まれたペイロードに一致します
var codeFenceRegex = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

// Options は構成案リクエストの生成パラメータです。
type Options struct {
	Temperature     float32
	MaxOutputTokens int32
}

// Requester は構成案プロンプトをテキスト生成エンドポイントへ送り、検証済みの StoryOutline を返します。
type Requester struct {
	client ai.ContentGenerator
	model  string
	opts   Options
}

// NewRequester は Requester の新しいインスタンスを初期化します。
func NewRequester(client ai.ContentGenerator, model string, opts Options) (*Requester, error) {
	if client == nil {
		return nil, fmt.Errorf("client は必須です")
	}
	if model == "" {
		return nil, fmt.Errorf("model は必須です")
	}
	return &Requester{client: client, model: model, opts: opts}, nil
}

// Request は構成案を1回だけ要求します。部分的な構成案を補修して返すことはありません。
func (r *Requester) Request(ctx context.Context, prompt string) (*domain.StoryOutline, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: responseMIMEType,
		Temperature:      genai.Ptr(r.opts.Temperature),
		MaxOutputTokens:  r.opts.MaxOutputTokens,
	}

	slog.Info("構成案の生成をリクエストします", "model", r.model)
	startTime := time.Now()

	resp, err := r.client.GenerateContent(ctx, r.model, ai.UserContent(genai.NewPartFromText(prompt)), cfg)
	if err != nil {
		return nil, fmt.Errorf("構成案の生成リクエストに失敗しました: %w", err)
	}

	payload := unwrapCodeFence(ai.ResponseText(resp))
	outline, err := domain.ParseStoryOutline([]byte(payload))
	if err != nil {
		if errors.Is(err, domain.ErrMalformedResponse) {
			slog.Debug("解析できなかったペイロード", "payload", payload)
		}
		return nil, fmt.Errorf("構成案の解析に失敗しました: %w", err)
	}

	slog.Info("構成案を受信しました",
		"title", outline.Title,
		"scenes", len(outline.Scenes),
		"duration", time.Since(startTime).Round(time.Millisecond))
	return outline, nil
}

// unwrapCodeFence はモデルが付けがちなコードフェンスだけを取り除きます。
func unwrapCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if m := codeFenceRegex.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}
