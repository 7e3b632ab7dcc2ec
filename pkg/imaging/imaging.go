package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var (
	// PlaceholderBackground はプレースホルダー画像の背景色 (lightgray) です。
	PlaceholderBackground = color.RGBA{R: 211, G: 211, B: 211, A: 255}
	// CanvasBackground はウェブトゥーンキャンバスの背景色です。
	CanvasBackground = color.White
	// TextColor はキャプションとタイトルの文字色です。
	TextColor = color.Black
)

// Decode は PNG, JPEG, GIF, WebP のバイト列を画像にデコードします。
func Decode(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("画像のデコードに失敗しました: %w", err)
	}
	return img, format, nil
}

// NewCanvas は指定色で塗りつぶした RGBA 画像を返します。
func NewCanvas(width, height int, bg color.Color) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.Draw(canvas, canvas.Bounds(), image.NewUniform(bg), image.Point{}, xdraw.Src)
	return canvas
}

// Resize はアスペクト比を無視して src を width x height に Catmull-Rom で拡縮します。
func Resize(src image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)
	return dst
}

// Thumbnail はアスペクト比を保ったまま、縦横とも maxSize 以下に縮小します。
// すでに収まっている画像はそのまま返すのだ。
func Thumbnail(src image.Image, maxSize int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return src
	}
	if w >= h {
		h = max(1, h*maxSize/w)
		w = maxSize
	} else {
		w = max(1, w*maxSize/h)
		h = maxSize
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

// Flatten は透過部分を指定色で埋めた不透明な画像を返します。
func Flatten(src image.Image, bg color.Color) *image.RGBA {
	b := src.Bounds()
	dst := NewCanvas(b.Dx(), b.Dy(), bg)
	xdraw.Draw(dst, dst.Bounds(), src, b.Min, xdraw.Over)
	return dst
}

// EncodePNG は画像を PNG にエンコードします。
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("PNGエンコードに失敗しました: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeWebP は画像を非可逆 WebP にエンコードします。
func EncodeWebP(img image.Image, quality float32) ([]byte, error) {
	options, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, quality)
	if err != nil {
		return nil, fmt.Errorf("WebPエンコーダー設定の作成に失敗しました: %w", err)
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, options); err != nil {
		return nil, fmt.Errorf("WebPエンコードに失敗しました: %w", err)
	}
	return buf.Bytes(), nil
}
