package imaging

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// TextSize は scale 倍した basicfont で描画したときの文字列の幅と高さを返します。
func TextSize(text string, scale int) (width, height int) {
	face := basicfont.Face7x13
	w := font.MeasureString(face, text).Ceil()
	return w * scale, face.Metrics().Height.Ceil() * scale
}

// DrawText は (x, y) を左上として文字列を描画します。scale が 2 以上なら最近傍法で拡大するのだ。
func DrawText(dst xdraw.Image, text string, x, y, scale int, c color.Color) {
	if scale < 1 {
		scale = 1
	}
	face := basicfont.Face7x13
	w, h := TextSize(text, 1)
	if w == 0 {
		return
	}

	layer := image.NewRGBA(image.Rect(0, 0, w, h))
	d := &font.Drawer{
		Dst:  layer,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(0, face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)

	target := image.Rect(x, y, x+w*scale, y+h*scale)
	xdraw.NearestNeighbor.Scale(dst, target, layer, layer.Bounds(), xdraw.Over, nil)
}

// DrawCenteredText は rect の中で水平中央、上端 y に文字列を描画します。
// 幅に収まらない場合は倍率を下げるのだ。
func DrawCenteredText(dst xdraw.Image, text string, rect image.Rectangle, y, scale int, c color.Color) {
	for scale > 1 {
		if w, _ := TextSize(text, scale); w <= rect.Dx() {
			break
		}
		scale--
	}
	w, _ := TextSize(text, scale)
	x := rect.Min.X + (rect.Dx()-w)/2
	DrawText(dst, text, x, y, scale, c)
}

// Placeholder は width x height の lightgray 画像に caption を中央に描いて返します。
// 同じ入力からは常に同じ画像になるのだ。
func Placeholder(width, height int, caption string) *image.RGBA {
	img := NewCanvas(width, height, PlaceholderBackground)
	_, h := TextSize(caption, 1)
	DrawCenteredText(img, caption, img.Bounds(), (height-h)/2, 1, TextColor)
	return img
}
