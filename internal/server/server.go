package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/sync/semaphore"

	"github.com/shouni/go-webtoon-kit/pkg/asset"
	"github.com/shouni/go-webtoon-kit/pkg/domain"
	"github.com/shouni/go-webtoon-kit/pkg/imaging"
	"github.com/shouni/go-webtoon-kit/pkg/prompts"
	"github.com/shouni/go-webtoon-kit/pkg/publisher"
	"github.com/shouni/go-webtoon-kit/pkg/workflow"
)

const (
	serviceName    = "go-webtoon-kit"
	maxRequestBody = 1 << 20
)

// Generator は HTTP API から使うパイプラインの操作です。*workflow.Manager が満たします。
type Generator interface {
	GenerateWebtoon(ctx context.Context, req domain.GenerationRequest) (*workflow.Result, error)
	Persist(ctx context.Context, result *workflow.Result) (publisher.PersistResult, error)
}

// Server は生成パイプラインを薄い JSON API として公開します。
// 生成は同時に1件だけ実行し、実行中に届いたリクエストは 429 で断るのだ。
type Server struct {
	gen     Generator
	assets  domain.CharacterAssets
	timeout time.Duration
	busy    *semaphore.Weighted
}

// New は Server を初期化します。timeout が 0 以下なら生成にタイムアウトを設けません。
func New(gen Generator, assets domain.CharacterAssets, timeout time.Duration) (*Server, error) {
	if gen == nil {
		return nil, errors.New("generator は必須です")
	}
	if assets == nil {
		assets = domain.CharacterAssets{}
	}
	return &Server{gen: gen, assets: assets, timeout: timeout, busy: semaphore.NewWeighted(1)}, nil
}

// Router はルーティング済みの http.Handler を返します。
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(enableCORS)

	r.HandleFunc("/health", healthCheck).Methods(http.MethodGet)
	r.HandleFunc("/api/characters", s.listCharacters).Methods(http.MethodGet)
	r.HandleFunc("/api/languages", listLanguages).Methods(http.MethodGet)
	r.HandleFunc("/api/webtoons", s.createWebtoon).Methods(http.MethodPost, http.MethodOptions)
	return r
}

// CORS ミドルウェア
func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ヘルスチェック
func healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": serviceName,
	})
}

type characterView struct {
	Name        string `json:"name"`
	Images      int    `json:"images"`
	Expressions int    `json:"expressions"`
}

func (s *Server) listCharacters(w http.ResponseWriter, r *http.Request) {
	views := make([]characterView, 0, len(s.assets))
	for _, name := range s.assets.Names() {
		c := s.assets[name]
		views = append(views, characterView{Name: c.Name, Images: len(c.ImagePaths), Expressions: len(c.ExpressionPaths)})
	}
	writeJSON(w, http.StatusOK, map[string]any{"characters": views})
}

func listLanguages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"languages": prompts.SupportedLanguageCodes()})
}

type failureView struct {
	SceneNumber int    `json:"scene_number"`
	Attempts    int    `json:"attempts"`
	Error       string `json:"error,omitempty"`
}

type webtoonResponse struct {
	Outline      *domain.StoryOutline     `json:"outline"`
	Placeholders int                      `json:"placeholders"`
	Failures     []failureView            `json:"failures"`
	Persisted    *publisher.PersistResult `json:"persisted,omitempty"`
	PersistError string                   `json:"persist_error,omitempty"`
	WebtoonPNG   string                   `json:"webtoon_png,omitempty"` // base64。?inline=true のときのみ
	Filename     string                   `json:"filename,omitempty"`    // webtoon_png を保存するときのファイル名
}

func (s *Server) createWebtoon(w http.ResponseWriter, r *http.Request) {
	var req domain.GenerationRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	if !s.busy.TryAcquire(1) {
		slog.Warn("生成中のため新しいリクエストを受け付けません")
		w.Header().Set("Retry-After", "60")
		writeError(w, http.StatusTooManyRequests, "another webtoon is being generated")
		return
	}
	defer s.busy.Release(1)

	ctx := r.Context()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	result, err := s.gen.GenerateWebtoon(ctx, req)
	if err != nil {
		status := statusFor(err)
		slog.Warn("ウェブトゥーンの生成に失敗しました", "status", status, "error", err)
		writeError(w, status, err.Error())
		return
	}

	resp := webtoonResponse{
		Outline:      result.Outline,
		Placeholders: result.Placeholders(),
		Failures:     make([]failureView, 0, len(result.Failures)),
	}
	for _, f := range result.Failures {
		v := failureView{SceneNumber: f.SceneNumber, Attempts: f.Attempts}
		if f.Err != nil {
			v.Error = f.Err.Error()
		}
		resp.Failures = append(resp.Failures, v)
	}

	if persisted, err := s.gen.Persist(ctx, result); err != nil {
		resp.PersistError = err.Error()
	} else {
		resp.Persisted = &persisted
	}

	if r.URL.Query().Get("inline") == "true" && result.Webtoon != nil {
		data, err := imaging.EncodePNG(result.Webtoon)
		if err != nil {
			slog.Warn("合成画像のエンコードに失敗しました", "error", err)
		} else {
			resp.WebtoonPNG = base64.StdEncoding.EncodeToString(data)
			resp.Filename = asset.SanitizeFilename("educational_webtoon_"+result.Outline.Title) + ".png"
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// statusFor はパイプラインのエラー分類を HTTP ステータスに対応付けます。
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrEmptyResponse),
		errors.Is(err, domain.ErrMalformedResponse),
		errors.Is(err, domain.ErrInvalidStoryShape):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("レスポンスの書き込みに失敗しました", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
