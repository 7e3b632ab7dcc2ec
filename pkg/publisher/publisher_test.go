package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shouni/go-webtoon-kit/pkg/domain"
	"github.com/shouni/go-webtoon-kit/pkg/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = func() time.Time { return time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC) }

func sampleOutline() *domain.StoryOutline {
	return &domain.StoryOutline{
		Title:   "La Photosynthèse",
		Concept: "How plants make food <from> light",
		Scenes: []domain.Scene{
			{SceneNumber: 1, Location: "Garden", Characters: []string{"Fox"}, Dialogue: "Bonjour!", Action: "waves", EducationalPoint: "Leaves", VisualDescription: "A sunny garden"},
			{SceneNumber: 2, Location: "Forest", Characters: []string{"Fox"}, Dialogue: "Wow", Action: "points", EducationalPoint: "Light", VisualDescription: "A forest"},
			{SceneNumber: 3, Location: "Lab", Characters: []string{"Fox"}, Dialogue: "Done", Action: "smiles", EducationalPoint: "Sugar", VisualDescription: "A lab"},
		},
	}
}

func panel() image.Image {
	return imaging.NewCanvas(8, 6, color.RGBA{G: 255, A: 255})
}

type mockWriter struct {
	writeFunc func(path string) error
	paths     []string
	types     map[string]string
}

func (m *mockWriter) Write(ctx context.Context, path string, r io.Reader, contentType string) error {
	if _, err := io.ReadAll(r); err != nil {
		return err
	}
	if m.writeFunc != nil {
		if err := m.writeFunc(path); err != nil {
			return err
		}
	}
	m.paths = append(m.paths, path)
	if m.types == nil {
		m.types = map[string]string{}
	}
	m.types[filepath.Base(path)] = contentType
	return nil
}

func TestNewPersister(t *testing.T) {
	_, err := NewPersister(nil, Options{OutputDir: "out"})
	assert.Error(t, err)
	_, err = NewPersister(LocalWriter{}, Options{})
	assert.Error(t, err)
	_, err = NewPersister(LocalWriter{}, Options{OutputDir: "out", Format: "xml"})
	assert.Error(t, err)

	p, err := NewPersister(LocalWriter{}, Options{OutputDir: "out", Format: " YAML "})
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, p.opts.Format)
}

func TestPersister_Persist(t *testing.T) {
	ctx := context.Background()

	t.Run("ローカルに時刻付きディレクトリを作って保存する", func(t *testing.T) {
		out := t.TempDir()
		p, err := NewPersister(LocalWriter{}, Options{OutputDir: out, Now: fixedNow})
		require.NoError(t, err)

		images := []image.Image{panel(), nil, panel()}
		webtoon := imaging.NewCanvas(20, 40, color.White)

		res, err := p.Persist(ctx, sampleOutline(), images, webtoon)
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(out, "webtoon_20250304_050607"), res.Dir)
		assert.FileExists(t, filepath.Join(res.Dir, "story_data.json"))
		assert.FileExists(t, filepath.Join(res.Dir, "scene_1.png"))
		assert.NoFileExists(t, filepath.Join(res.Dir, "scene_2.png"), "nil の画像は書き出さない")
		assert.FileExists(t, filepath.Join(res.Dir, "scene_3.png"))
		assert.FileExists(t, filepath.Join(res.Dir, "webtoon.png"))
		assert.NoFileExists(t, filepath.Join(res.Dir, "webtoon.webp"))
		assert.Len(t, res.ImagePaths, 2)

		data, err := os.ReadFile(res.StoryDataPath)
		require.NoError(t, err)
		assert.Contains(t, string(data), "La Photosynthèse", "非 ASCII はエスケープしない")
		assert.Contains(t, string(data), "<from>", "HTML もエスケープしない")
		assert.Contains(t, string(data), "\n  \"title\"", "インデント付き")

		var decoded domain.StoryOutline
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, *sampleOutline(), decoded)
	})

	t.Run("保存したファイルは画像として読み戻せる", func(t *testing.T) {
		p, err := NewPersister(LocalWriter{}, Options{OutputDir: t.TempDir(), Now: fixedNow})
		require.NoError(t, err)

		res, err := p.Persist(ctx, sampleOutline(), []image.Image{panel()}, nil)
		require.NoError(t, err)
		assert.Empty(t, res.WebtoonPath)

		data, err := os.ReadFile(res.ImagePaths[0])
		require.NoError(t, err)
		img, format, err := imaging.Decode(data)
		require.NoError(t, err)
		assert.Equal(t, "png", format)
		assert.Equal(t, 8, img.Bounds().Dx())
	})

	t.Run("WebP を有効にすると webtoon.webp も書き出す", func(t *testing.T) {
		w := &mockWriter{}
		p, err := NewPersister(w, Options{OutputDir: "s3://bucket/runs", WebP: true, Now: fixedNow})
		require.NoError(t, err)

		res, err := p.Persist(ctx, sampleOutline(), []image.Image{panel()}, panel())
		require.NoError(t, err)

		assert.Equal(t, "s3://bucket/runs/webtoon_20250304_050607", res.Dir)
		assert.Equal(t, "s3://bucket/runs/webtoon_20250304_050607/webtoon.webp", res.WebPPath)
		assert.Equal(t, "image/webp", w.types["webtoon.webp"])
		assert.Equal(t, "image/png", w.types["scene_1.png"])
		assert.Len(t, w.paths, 4)
	})

	t.Run("YAML 形式で保存できる", func(t *testing.T) {
		p, err := NewPersister(LocalWriter{}, Options{OutputDir: t.TempDir(), Format: FormatYAML, Now: fixedNow})
		require.NoError(t, err)

		res, err := p.Persist(ctx, sampleOutline(), nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "story_data.yaml", filepath.Base(res.StoryDataPath))

		loaded, err := LoadStoryData(res.StoryDataPath)
		require.NoError(t, err)
		assert.Equal(t, sampleOutline(), loaded)
	})

	t.Run("書き込み失敗は ErrPersistenceFailure になる", func(t *testing.T) {
		w := &mockWriter{writeFunc: func(path string) error {
			if filepath.Base(path) == "scene_1.png" {
				return errors.New("disk full")
			}
			return nil
		}}
		p, err := NewPersister(w, Options{OutputDir: "out", Now: fixedNow})
		require.NoError(t, err)

		res, err := p.Persist(ctx, sampleOutline(), []image.Image{panel()}, nil)

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrPersistenceFailure)
		assert.Contains(t, err.Error(), "disk full")
		assert.NotEmpty(t, res.StoryDataPath, "途中までの結果は返す")
	})

	t.Run("同じ時刻の生成でも前回の出力を上書きしない", func(t *testing.T) {
		out := t.TempDir()
		p, err := NewPersister(LocalWriter{}, Options{OutputDir: out, Now: fixedNow})
		require.NoError(t, err)

		first := sampleOutline()
		first.Title = "first run"
		second := sampleOutline()
		second.Title = "second run"

		res1, err := p.Persist(ctx, first, nil, nil)
		require.NoError(t, err)
		res2, err := p.Persist(ctx, second, nil, nil)
		require.NoError(t, err)

		assert.NotEqual(t, res1.Dir, res2.Dir)
		assert.Equal(t, filepath.Join(out, "webtoon_20250304_050607_2"), res2.Dir)
		loaded, err := LoadStoryData(res1.StoryDataPath)
		require.NoError(t, err)
		assert.Equal(t, "first run", loaded.Title)
	})

	t.Run("別プロセスが作った同名ディレクトリは使わない", func(t *testing.T) {
		out := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(out, "webtoon_20250304_050607"), 0o755))
		p, err := NewPersister(LocalWriter{}, Options{OutputDir: out, Now: fixedNow})
		require.NoError(t, err)

		res, err := p.Persist(ctx, sampleOutline(), nil, nil)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(out, "webtoon_20250304_050607_2"), res.Dir)
	})

	t.Run("ディレクトリを持たない書き込み先でも連番で一意にする", func(t *testing.T) {
		w := &mockWriter{}
		p, err := NewPersister(w, Options{OutputDir: "s3://bucket/out", Now: fixedNow})
		require.NoError(t, err)

		res1, err := p.Persist(ctx, sampleOutline(), nil, nil)
		require.NoError(t, err)
		res2, err := p.Persist(ctx, sampleOutline(), nil, nil)
		require.NoError(t, err)

		assert.Equal(t, "s3://bucket/out/webtoon_20250304_050607", res1.Dir)
		assert.Equal(t, "s3://bucket/out/webtoon_20250304_050607_2", res2.Dir)
	})

	t.Run("構成案が nil なら失敗", func(t *testing.T) {
		p, err := NewPersister(&mockWriter{}, Options{OutputDir: "out"})
		require.NoError(t, err)

		_, err = p.Persist(ctx, nil, nil, nil)
		assert.ErrorIs(t, err, domain.ErrPersistenceFailure)
	})
}

func TestLoadStoryData(t *testing.T) {
	dir := t.TempDir()

	t.Run("JSON を読み戻せる", func(t *testing.T) {
		data, err := EncodeStoryData(sampleOutline(), FormatJSON)
		require.NoError(t, err)
		path := filepath.Join(dir, "story_data.json")
		require.NoError(t, os.WriteFile(path, data, 0o644))

		got, err := LoadStoryData(path)
		require.NoError(t, err)
		assert.Equal(t, sampleOutline(), got)
	})

	t.Run("形が不正なら ErrInvalidStoryShape", func(t *testing.T) {
		path := filepath.Join(dir, "broken.yaml")
		require.NoError(t, os.WriteFile(path, []byte("title: x\nconcept: y\n"), 0o644))

		_, err := LoadStoryData(path)
		assert.ErrorIs(t, err, domain.ErrInvalidStoryShape)
	})

	t.Run("ファイルが無ければエラー", func(t *testing.T) {
		_, err := LoadStoryData(filepath.Join(dir, "missing.json"))
		assert.Error(t, err)
	})
}
