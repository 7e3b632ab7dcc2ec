package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLayout_CanvasSize(t *testing.T) {
	l := DefaultLayout()

	assert.Equal(t, 840, l.CanvasWidth())
	for _, n := range []int{1, 3, 10} {
		want := l.TitleHeight + n*(l.PanelHeight+l.Padding) + 2*l.Padding
		assert.Equal(t, want, l.CanvasHeight(n), "scenes=%d", n)
	}
	assert.Equal(t, 100+3*620+40, l.CanvasHeight(3))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, DefaultRetryDelay, cfg.RetryDelay)
	assert.Equal(t, 512, cfg.ReferenceMaxSize)
	assert.Equal(t, DefaultLayout(), cfg.Layout)
}
