package generator

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"

	"github.com/shouni/go-webtoon-kit/pkg/ai"
	"github.com/shouni/go-webtoon-kit/pkg/imaging"

	"google.golang.org/genai"
)

var errNoImage = errors.New("no decodable inline image in response")

// extractImage はレスポンス中で最初にデコードできた画像 part を返します。残りの part は無視します。
func extractImage(resp *genai.GenerateContentResponse) (image.Image, error) {
	for _, part := range ai.FirstCandidateParts(resp) {
		if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}
		if img, err := decodeInline(part.InlineData.Data); err == nil {
			return img, nil
		}
	}
	return nil, errNoImage
}

// decodeInline は base64 テキストならデコードしてから、そうでなければ生のバイナリとして画像を解釈します。
func decodeInline(data []byte) (image.Image, error) {
	if decoded, err := base64.StdEncoding.DecodeString(string(bytes.TrimSpace(data))); err == nil && len(decoded) > 0 {
		if img, _, err := imaging.Decode(decoded); err == nil {
			return img, nil
		}
	}
	img, _, err := imaging.Decode(data)
	return img, err
}
