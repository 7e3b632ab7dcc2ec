package compositor

import (
	"image"
	"image/color"
	"testing"

	"github.com/shouni/go-webtoon-kit/pkg/config"
	"github.com/shouni/go-webtoon-kit/pkg/domain"
	"github.com/shouni/go-webtoon-kit/pkg/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func outlineWith(n int) *domain.StoryOutline {
	scenes := make([]domain.Scene, n)
	for i := range scenes {
		scenes[i] = domain.Scene{SceneNumber: i + 1}
	}
	return &domain.StoryOutline{Title: "The Water Cycle", Scenes: scenes}
}

func solid(w, h int, c color.Color) image.Image {
	return imaging.NewCanvas(w, h, c)
}

func TestCompose(t *testing.T) {
	layout := config.DefaultLayout()
	red := color.RGBA{R: 255, A: 255}

	t.Run("キャンバスの寸法はシーン数から決まる", func(t *testing.T) {
		images := []image.Image{solid(800, 600, red), solid(800, 600, red), solid(800, 600, red)}

		got := Compose(outlineWith(3), images, layout)

		require.NotNil(t, got)
		assert.Equal(t, 840, got.Bounds().Dx())
		assert.Equal(t, 100+3*620+40, got.Bounds().Dy())
	})

	t.Run("画像がシーンより少なければ残りの枠は白のまま", func(t *testing.T) {
		got := Compose(outlineWith(3), []image.Image{solid(800, 600, red), solid(800, 600, red)}, layout)

		require.NotNil(t, got)
		assert.Equal(t, 100+3*620+40, got.Bounds().Dy())
		third := layout.TitleHeight + layout.Padding + 2*(layout.PanelHeight+layout.Padding)
		assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, got.RGBAAt(layout.Padding+1, third+1))
	})

	t.Run("画像がシーンより多ければ余りは貼らない", func(t *testing.T) {
		got := Compose(outlineWith(1), []image.Image{solid(800, 600, red), solid(800, 600, red)}, layout)

		require.NotNil(t, got)
		assert.Equal(t, 100+620+40, got.Bounds().Dy())
	})

	t.Run("パネルは padding の位置から貼られる", func(t *testing.T) {
		got := Compose(outlineWith(1), []image.Image{solid(800, 600, red)}, layout)

		require.NotNil(t, got)
		top := layout.TitleHeight + layout.Padding
		assert.Equal(t, color.RGBA{R: 255, A: 255}, got.RGBAAt(layout.Padding, top))
		assert.Equal(t, color.RGBA{R: 255, A: 255}, got.RGBAAt(layout.Padding+799, top+599))
		assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, got.RGBAAt(layout.Padding-1, top), "余白は白")
		assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, got.RGBAAt(layout.Padding, top-1))
	})

	t.Run("寸法の違う画像はパネルサイズに拡縮される", func(t *testing.T) {
		got := Compose(outlineWith(1), []image.Image{solid(100, 50, red)}, layout)

		require.NotNil(t, got)
		top := layout.TitleHeight + layout.Padding
		assert.Equal(t, uint8(255), got.RGBAAt(layout.Padding+799, top+599).R)
		assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, got.RGBAAt(layout.Padding+801, top+300))
	})

	t.Run("nil の画像はプレースホルダーで埋める", func(t *testing.T) {
		got := Compose(outlineWith(2), []image.Image{solid(800, 600, red), nil}, layout)

		require.NotNil(t, got)
		second := layout.TitleHeight + layout.Padding + layout.PanelHeight + layout.Padding
		assert.Equal(t, imaging.PlaceholderBackground, got.RGBAAt(layout.Padding+1, second+1))
	})

	t.Run("タイトル帯に文字が描かれる", func(t *testing.T) {
		got := Compose(outlineWith(1), []image.Image{solid(800, 600, red)}, layout)

		require.NotNil(t, got)
		dark := 0
		for y := 0; y < layout.TitleHeight; y++ {
			for x := 0; x < got.Bounds().Dx(); x++ {
				if got.RGBAAt(x, y).R < 128 {
					dark++
				}
			}
		}
		assert.Greater(t, dark, 0)
	})

	t.Run("シーンか画像が空なら nil", func(t *testing.T) {
		assert.Nil(t, Compose(outlineWith(0), []image.Image{solid(1, 1, red)}, layout))
		assert.Nil(t, Compose(outlineWith(2), nil, layout))
		assert.Nil(t, Compose(nil, []image.Image{solid(1, 1, red)}, layout))
	})
}
