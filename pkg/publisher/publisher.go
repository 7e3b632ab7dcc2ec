package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/shouni/go-webtoon-kit/pkg/asset"
	"github.com/shouni/go-webtoon-kit/pkg/domain"
	"github.com/shouni/go-webtoon-kit/pkg/imaging"

	"gopkg.in/yaml.v3"
)

const (
	// FormatJSON は story_data.json として保存します (既定)。
	FormatJSON = "json"
	// FormatYAML は story_data.yaml として保存します。
	FormatYAML = "yaml"

	// DefaultWebPQuality は webtoon.webp の既定品質です。
	DefaultWebPQuality = float32(90)

	// maxRunDirAttempts は同名の出力ディレクトリがあったときに連番を試す上限です。
	maxRunDirAttempts = 100
)

// Options はパブリッシュ動作を制御する設定項目です。
type Options struct {
	OutputDir   string
	Format      string // json | yaml
	WebP        bool   // webtoon.webp も書き出す
	WebPQuality float32
	Now         func() time.Time
}

// PersistResult は保存した成果物のパスを保持します。
type PersistResult struct {
	Dir           string   `json:"dir"`                    // 生成ごとの出力ディレクトリ
	StoryDataPath string   `json:"story_data"`             // story_data.json / story_data.yaml
	ImagePaths    []string `json:"images"`                 // scene_<n>.png
	WebtoonPath   string   `json:"webtoon,omitempty"`      // webtoon.png (合成画像が無ければ空)
	WebPPath      string   `json:"webtoon_webp,omitempty"` // webtoon.webp (書き出した場合)
}

// Persister は生成物を生成時刻付きのディレクトリに永続化します。
type Persister struct {
	writer OutputWriter
	opts   Options

	mu     sync.Mutex
	issued map[string]struct{}
}

// NewPersister は Persister を初期化します。
func NewPersister(writer OutputWriter, opts Options) (*Persister, error) {
	if writer == nil {
		return nil, fmt.Errorf("output writer は必須です")
	}
	if opts.OutputDir == "" {
		return nil, fmt.Errorf("出力ディレクトリは必須です")
	}
	opts.Format = strings.ToLower(strings.TrimSpace(opts.Format))
	switch opts.Format {
	case "":
		opts.Format = FormatJSON
	case FormatJSON, FormatYAML:
	default:
		return nil, fmt.Errorf("未対応の保存形式です: %s", opts.Format)
	}
	if opts.WebPQuality <= 0 {
		opts.WebPQuality = DefaultWebPQuality
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Persister{writer: writer, opts: opts, issued: make(map[string]struct{})}, nil
}

// Persist は構成案とシーン画像、合成画像を書き出します。
// 失敗は ErrPersistenceFailure でラップされ、生成結果そのものは有効なままなのだ。
func (p *Persister) Persist(ctx context.Context, outline *domain.StoryOutline, images []image.Image, webtoon image.Image) (PersistResult, error) {
	result := PersistResult{}
	if outline == nil {
		return result, fmt.Errorf("%w: 構成案がありません", domain.ErrPersistenceFailure)
	}

	// 1. 出力ディレクトリの確保
	dir, err := p.reserveDir(ctx)
	if err != nil {
		return result, fmt.Errorf("%w: %v", domain.ErrPersistenceFailure, err)
	}
	result.Dir = dir

	// 2. 構成案の保存
	storyPath, err := p.saveStoryData(ctx, dir, outline)
	if err != nil {
		return result, fmt.Errorf("%w: 構成案の書き込みに失敗しました: %v", domain.ErrPersistenceFailure, err)
	}
	result.StoryDataPath = storyPath

	// 3. シーン画像の保存
	paths, err := p.saveImages(ctx, dir, images)
	if err != nil {
		return result, fmt.Errorf("%w: 画像の書き込みに失敗しました: %v", domain.ErrPersistenceFailure, err)
	}
	result.ImagePaths = paths

	// 4. 合成画像の保存
	if webtoon != nil {
		if result.WebtoonPath, err = p.saveEncoded(ctx, dir, asset.DefaultWebtoonFileName, "image/png", webtoon, imaging.EncodePNG); err != nil {
			return result, fmt.Errorf("%w: 合成画像の書き込みに失敗しました: %v", domain.ErrPersistenceFailure, err)
		}
		if p.opts.WebP {
			encode := func(img image.Image) ([]byte, error) { return imaging.EncodeWebP(img, p.opts.WebPQuality) }
			if result.WebPPath, err = p.saveEncoded(ctx, dir, asset.DefaultWebtoonWebPName, "image/webp", webtoon, encode); err != nil {
				return result, fmt.Errorf("%w: WebPの書き込みに失敗しました: %v", domain.ErrPersistenceFailure, err)
			}
		}
	}

	slog.Info("成果物を保存しました",
		"dir", dir,
		"images", len(result.ImagePaths),
		"webtoon", result.WebtoonPath != "")
	return result, nil
}

// reserveDir は今回の生成専用の出力ディレクトリを確保します。
// 同じ秒に生成が重なった場合は webtoon_<ts>_2, _3 ... と連番を付けるのだ。
func (p *Persister) reserveDir(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	base := asset.RunDirName(p.opts.Now())
	creator, _ := p.writer.(DirCreator)
	for i := 1; i <= maxRunDirAttempts; i++ {
		name := base
		if i > 1 {
			name = fmt.Sprintf("%s_%d", base, i)
		}
		dir, err := asset.ResolveOutputPath(p.opts.OutputDir, name)
		if err != nil {
			return "", err
		}
		if _, ok := p.issued[dir]; ok {
			continue
		}
		if creator != nil {
			if err := creator.CreateDir(ctx, dir); err != nil {
				if errors.Is(err, os.ErrExist) {
					continue
				}
				return "", err
			}
		}
		p.issued[dir] = struct{}{}
		return dir, nil
	}
	return "", fmt.Errorf("空いている出力ディレクトリ名が見つかりません: %s", base)
}

func (p *Persister) saveStoryData(ctx context.Context, dir string, outline *domain.StoryOutline) (string, error) {
	name, contentType := asset.DefaultStoryDataJSON, "application/json; charset=utf-8"
	if p.opts.Format == FormatYAML {
		name, contentType = asset.DefaultStoryDataYAML, "application/yaml; charset=utf-8"
	}
	data, err := EncodeStoryData(outline, p.opts.Format)
	if err != nil {
		return "", err
	}

	fullPath, err := asset.ResolveOutputPath(dir, name)
	if err != nil {
		return "", err
	}
	if err := p.writer.Write(ctx, fullPath, bytes.NewReader(data), contentType); err != nil {
		return "", err
	}
	return fullPath, nil
}

// saveImages は nil でない画像だけを scene_<i+1>.png として保存します。番号は元の位置のままなのだ。
func (p *Persister) saveImages(ctx context.Context, dir string, images []image.Image) ([]string, error) {
	var paths []string
	for i, img := range images {
		if img == nil {
			continue
		}
		name, err := asset.SceneFileName(i + 1)
		if err != nil {
			return nil, err
		}
		fullPath, err := p.saveEncoded(ctx, dir, name, "image/png", img, imaging.EncodePNG)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		paths = append(paths, fullPath)
	}
	return paths, nil
}

func (p *Persister) saveEncoded(ctx context.Context, dir, name, contentType string, img image.Image, encode func(image.Image) ([]byte, error)) (string, error) {
	data, err := encode(img)
	if err != nil {
		return "", err
	}
	fullPath, err := asset.ResolveOutputPath(dir, name)
	if err != nil {
		return "", err
	}
	if err := p.writer.Write(ctx, fullPath, bytes.NewReader(data), contentType); err != nil {
		return "", err
	}
	return fullPath, nil
}

// EncodeStoryData は構成案を指定形式でエンコードします。JSON はインデント付きで非 ASCII をそのまま残します。
func EncodeStoryData(outline *domain.StoryOutline, format string) ([]byte, error) {
	if format == FormatYAML {
		data, err := yaml.Marshal(outline)
		if err != nil {
			return nil, fmt.Errorf("YAMLエンコードに失敗しました: %w", err)
		}
		return data, nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(outline); err != nil {
		return nil, fmt.Errorf("JSONエンコードに失敗しました: %w", err)
	}
	return buf.Bytes(), nil
}

// LoadStoryData は保存済みの story_data.json / story_data.yaml を読み込み、検証済みの構成案を返します。
func LoadStoryData(path string) (*domain.StoryOutline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("構成案の読み込みに失敗しました: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var raw any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
		}
		if err := domain.ValidateStoryData(raw); err != nil {
			return nil, err
		}
		var outline domain.StoryOutline
		if err := yaml.Unmarshal(data, &outline); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidStoryShape, err)
		}
		return &outline, nil
	default:
		return domain.ParseStoryOutline(data)
	}
}
