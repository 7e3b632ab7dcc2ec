package asset

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/shouni/go-webtoon-kit/pkg/domain"
	"github.com/shouni/go-webtoon-kit/pkg/imaging"

	imgkit "github.com/shouni/gemini-image-kit/imgutil"
	"golang.org/x/sync/singleflight"
)

const (
	cacheKeyReference = "reference:"
	// ReferenceCompressionQuality は参照画像を JPEG に再圧縮するときの品質です。
	ReferenceCompressionQuality = 85
	defaultReferenceTTL         = 30 * time.Minute
)

// ImageCacher は参照画像キャッシュの契約です。*cache.Cache (go-cache) はこれを満たします。
type ImageCacher interface {
	Get(k string) (any, bool)
	Set(k string, x any, d time.Duration)
}

// Reference は生成リクエストに添付する1枚の参照画像です。
type Reference struct {
	Character string
	Path      string
	Data      []byte
	MIMEType  string
}

// ReferenceLoader はシーンのキャラクターに対応する参照画像を選び、縮小して返します。
// 縮小済みのバイト列はキャッシュし、同じファイルの同時読み込みは1回にまとめるのだ。
type ReferenceLoader struct {
	assets  domain.CharacterAssets
	maxSize int
	cache   ImageCacher
	ttl     time.Duration
	pick    func(n int) int
	group   singleflight.Group
}

// ReferenceOption は ReferenceLoader の任意設定です。
type ReferenceOption func(*ReferenceLoader)

// WithPicker は素材の選び方を差し替えます。テストで選択を固定するのに使います。
func WithPicker(pick func(n int) int) ReferenceOption {
	return func(l *ReferenceLoader) { l.pick = pick }
}

// WithTTL はキャッシュの保持期間を変更します。
func WithTTL(ttl time.Duration) ReferenceOption {
	return func(l *ReferenceLoader) { l.ttl = ttl }
}

// NewReferenceLoader は ReferenceLoader を初期化します。
func NewReferenceLoader(assets domain.CharacterAssets, maxSize int, cache ImageCacher, opts ...ReferenceOption) (*ReferenceLoader, error) {
	if cache == nil {
		return nil, fmt.Errorf("cache は必須です")
	}
	if maxSize <= 0 {
		return nil, fmt.Errorf("maxSize は正の値である必要があります: %d", maxSize)
	}
	l := &ReferenceLoader{
		assets:  assets,
		maxSize: maxSize,
		cache:   cache,
		ttl:     defaultReferenceTTL,
		pick:    rand.IntN,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Load は各キャラクターについて素材を1つ選んで参照画像を返します。
// 素材が無い・読めないキャラクターは警告を出して飛ばすのだ。
func (l *ReferenceLoader) Load(ctx context.Context, names []string) []Reference {
	refs := make([]Reference, 0, len(names))
	for _, name := range names {
		if ctx.Err() != nil {
			break
		}
		asset := l.assets.Find(name)
		if asset == nil || asset.Count() == 0 {
			slog.Debug("参照画像が無いキャラクターです", "character", name)
			continue
		}

		path := asset.ImagePaths[l.pick(asset.Count())]
		data, err := l.loadFile(path)
		if err != nil {
			slog.Warn("参照画像を読み込めませんでした", "character", name, "path", path, "error", err)
			continue
		}

		slog.Info("キャラクター参照画像を使用します", "character", name, "file", filepath.Base(path))
		refs = append(refs, Reference{
			Character: asset.Name,
			Path:      path,
			Data:      data,
			MIMEType:  http.DetectContentType(data),
		})
	}
	return refs
}

func (l *ReferenceLoader) loadFile(path string) ([]byte, error) {
	key := cacheKeyReference + path
	if val, ok := l.cache.Get(key); ok {
		if data, ok := val.([]byte); ok {
			return data, nil
		}
	}

	val, err, _ := l.group.Do(key, func() (any, error) {
		data, err := l.prepare(path)
		if err != nil {
			return nil, err
		}
		l.cache.Set(key, data, l.ttl)
		return data, nil
	})
	if err != nil {
		return nil, err
	}

	data, ok := val.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected return type from singleflight: %T", val)
	}
	return data, nil
}

// prepare は画像を読み、長辺を maxSize 以下へ縮小して JPEG に圧縮します。
func (l *ReferenceLoader) prepare(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("参照画像の読み込みに失敗しました: %w", err)
	}
	img, _, err := imaging.Decode(raw)
	if err != nil {
		return nil, err
	}

	// JPEG は透過を持てないため、先に白背景へ合成しておくのだ
	flat := imaging.Flatten(imaging.Thumbnail(img, l.maxSize), imaging.CanvasBackground)
	pngData, err := imaging.EncodePNG(flat)
	if err != nil {
		return nil, err
	}

	compressed, err := imgkit.CompressToJPEG(bytes.NewReader(pngData), ReferenceCompressionQuality)
	if err != nil {
		slog.Debug("JPEG圧縮に失敗したため PNG のまま使用します", "path", path, "error", err)
		return pngData, nil
	}
	return compressed, nil
}
