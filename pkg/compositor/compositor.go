package compositor

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/shouni/go-webtoon-kit/pkg/config"
	"github.com/shouni/go-webtoon-kit/pkg/domain"
	"github.com/shouni/go-webtoon-kit/pkg/imaging"

	xdraw "golang.org/x/image/draw"
)

const (
	// titleScale はタイトル文字の拡大率の上限です。横幅に収まらなければ下げます。
	titleScale = 3
)

// Compose はタイトル帯の下にパネルを縦一列に並べた1枚の縦長画像を返します。
// キャンバスの高さはシーン数で決まり、シーンと画像の短い方の数だけパネルを貼ります。
// シーンか画像が空なら nil を返すのだ。
func Compose(outline *domain.StoryOutline, images []image.Image, layout config.Layout) *image.RGBA {
	if outline == nil || len(outline.Scenes) == 0 || len(images) == 0 {
		return nil
	}

	width := layout.CanvasWidth()
	height := layout.CanvasHeight(len(outline.Scenes))
	panels := min(len(outline.Scenes), len(images))
	canvas := imaging.NewCanvas(width, height, imaging.CanvasBackground)

	// タイトルは上端から padding の位置に中央揃えで描く
	imaging.DrawCenteredText(canvas, outline.Title, canvas.Bounds(), layout.Padding, titleScale, imaging.TextColor)

	y := layout.TitleHeight + layout.Padding
	for i, img := range images[:panels] {
		if img == nil {
			slog.Warn("画像が欠けているためプレースホルダーで埋めます", "scene", i+1)
			img = imaging.Placeholder(layout.PanelWidth, layout.PanelHeight, fmt.Sprintf("Scene %d", i+1))
		}
		panel := fitPanel(img, layout.PanelWidth, layout.PanelHeight)
		rect := image.Rect(layout.Padding, y, layout.Padding+layout.PanelWidth, y+layout.PanelHeight)
		xdraw.Draw(canvas, rect, panel, panel.Bounds().Min, xdraw.Over)
		y += layout.PanelHeight + layout.Padding
	}

	slog.Info("ウェブトゥーンの合成が完了しました",
		"title", outline.Title,
		"scenes", len(outline.Scenes),
		"panels", panels,
		"width", width,
		"height", height)
	return canvas
}

// fitPanel は画像をパネル寸法に揃えます。縦横比は保持しません。
func fitPanel(img image.Image, width, height int) image.Image {
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return img
	}
	return imaging.Resize(img, width, height)
}
