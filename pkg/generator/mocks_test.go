package generator

import (
	"context"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/shouni/go-webtoon-kit/pkg/asset"
	"github.com/shouni/go-webtoon-kit/pkg/imaging"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// --- Mocks ---

type mockGenerator struct {
	generateFunc func(call int, contents []*genai.Content) (*genai.GenerateContentResponse, error)
	calls        int
	lastContents []*genai.Content
	lastConfig   *genai.GenerateContentConfig
}

func (m *mockGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.calls++
	m.lastContents = contents
	m.lastConfig = config
	return m.generateFunc(m.calls, contents)
}

type mockReferences struct {
	refs  []asset.Reference
	names []string
}

func (m *mockReferences) Load(ctx context.Context, names []string) []asset.Reference {
	m.names = names
	return m.refs
}

// mockSleeper は待機した回数と時間を記録し、実際には待たない Sleeper です。
type mockSleeper struct {
	delays []time.Duration
	err    error
}

func (m *mockSleeper) Sleep(ctx context.Context, d time.Duration) error {
	m.delays = append(m.delays, d)
	return m.err
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	data, err := imaging.EncodePNG(imaging.NewCanvas(w, h, color.RGBA{B: 255, A: 255}))
	require.NoError(t, err)
	return data
}

func imageResponse(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: parts},
	}}}
}

func inline(data []byte) *genai.Part {
	return &genai.Part{InlineData: &genai.Blob{MIMEType: "image/png", Data: data}}
}

func bounds(img image.Image) (int, int) {
	return img.Bounds().Dx(), img.Bounds().Dy()
}
