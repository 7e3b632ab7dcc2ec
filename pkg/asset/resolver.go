package asset

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/shouni/go-utils/urlpath"
)

const (
	// DefaultStoryDataJSON は構成案を JSON で保存するときのファイル名です。
	DefaultStoryDataJSON = "story_data.json"
	// DefaultStoryDataYAML は構成案を YAML で保存するときのファイル名です。
	DefaultStoryDataYAML = "story_data.yaml"
	// DefaultSceneFileName はシーン画像の共通のベースファイル名です。
	DefaultSceneFileName = "scene.png"
	// DefaultWebtoonFileName は合成済みウェブトゥーン画像のファイル名です。
	DefaultWebtoonFileName = "webtoon.png"
	// DefaultWebtoonWebPName は WebP で書き出す合成画像のファイル名です。
	DefaultWebtoonWebPName = "webtoon.webp"
	// RunDirPrefix は1回の生成ごとに作る出力ディレクトリの接頭辞です。
	RunDirPrefix = "webtoon_"
	// RunDirTimeFormat は出力ディレクトリ名に付けるタイムスタンプの書式です。
	RunDirTimeFormat = "20060102_150405"

	maxFilenameLength = 100
	invalidFileChars  = `<>:"/\|?*`
)

// ResolveOutputPath は、ベースとなるディレクトリパスとファイル名から、
// s3:// 等のリモートとローカルを考慮した最終的な出力パスを生成します。
func ResolveOutputPath(baseDir, fileName string) (string, error) {
	if IsRemote(baseDir) {
		u, err := url.Parse(baseDir)
		if err != nil {
			return "", fmt.Errorf("無効なURIです: %w", err)
		}

		// url.JoinPath はパス部分のみを安全に結合し、スキーム部分を保護します
		u.Path, err = url.JoinPath(u.Path, fileName)
		if err != nil {
			return "", fmt.Errorf("パスの結合に失敗しました: %w", err)
		}
		return u.String(), nil
	}
	return filepath.Join(baseDir, fileName), nil
}

// IsRemote はパスがスキーム付きのリモートURIかどうかを判定します。
func IsRemote(path string) bool {
	u, err := url.Parse(path)
	return err == nil && len(u.Scheme) > 1 && u.Host != ""
}

// RunDirName は生成時刻から出力ディレクトリの基本名を作ります。
// 同名のディレクトリとの衝突回避は Persister 側で行うのだ。
func RunDirName(t time.Time) string {
	return RunDirPrefix + t.Format(RunDirTimeFormat)
}

// SceneFileName は 1 始まりの index に対応するシーン画像のファイル名を返します。
// 例: 1 -> "scene_1.png"
func SceneFileName(index int) (string, error) {
	if index < 1 {
		return "", fmt.Errorf("index は1以上である必要があります: %d", index)
	}
	return urlpath.GenerateIndexedPath(DefaultSceneFileName, index)
}

// SanitizeFilename はファイル名に使えない文字を '_' に置換し、長さを制限します。
func SanitizeFilename(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidFileChars, r) {
			return '_'
		}
		return r
	}, name)

	if runes := []rune(name); len(runes) > maxFilenameLength {
		name = string(runes[:maxFilenameLength])
	}
	return name
}
