package asset

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveOutputPath(t *testing.T) {
	t.Run("ローカルパスは filepath.Join で結合される", func(t *testing.T) {
		got, err := ResolveOutputPath("output/webtoon_1", "scene_1.png")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("output", "webtoon_1", "scene_1.png"), got)
	})

	t.Run("リモートURIはスキームを保ったまま結合される", func(t *testing.T) {
		got, err := ResolveOutputPath("s3://bucket/runs", "story_data.json")
		require.NoError(t, err)
		assert.Equal(t, "s3://bucket/runs/story_data.json", got)
	})
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("s3://bucket/prefix"))
	assert.True(t, IsRemote("gs://bucket"))
	assert.False(t, IsRemote("output"))
	assert.False(t, IsRemote("/tmp/output"))
	assert.False(t, IsRemote(`C:\output`))
}

func TestSceneFileName(t *testing.T) {
	got, err := SceneFileName(1)
	require.NoError(t, err)
	assert.Equal(t, "scene_1.png", got)

	got, err = SceneFileName(12)
	require.NoError(t, err)
	assert.Equal(t, "scene_12.png", got)

	_, err = SceneFileName(0)
	assert.Error(t, err)
}

func TestRunDirName(t *testing.T) {
	ts := time.Date(2024, 3, 9, 7, 5, 1, 0, time.UTC)
	assert.Equal(t, "webtoon_20240309_070501", RunDirName(ts))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "a_b_c_d_e_f_g_h_i_", SanitizeFilename(`a<b>c:d"e/f\g|h?i*`))
	assert.Len(t, SanitizeFilename(strings.Repeat("x", 150)), 100)
	assert.Equal(t, "water cycle", SanitizeFilename("water cycle"))
}
