package asset

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/shouni/go-webtoon-kit/pkg/domain"

	"golang.org/x/sync/errgroup"
)

const expressionMarker = "expression"

// SupportedFormats は参照画像として読み込む拡張子です。
var SupportedFormats = []string{".png", ".jpg", ".jpeg"}

// LoadCharacterAssets はキャラクター素材ディレクトリを走査します。
// 直下のサブディレクトリ名がキャラクター名となり、中の画像ファイルが参照素材になります。
// ディレクトリが存在しない場合は空のマップを返すのだ。
func LoadCharacterAssets(ctx context.Context, dir string) (domain.CharacterAssets, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("キャラクター素材ディレクトリが見つかりません", "dir", dir)
			return domain.CharacterAssets{}, nil
		}
		return nil, fmt.Errorf("キャラクター素材ディレクトリの読み込みに失敗しました: %w", err)
	}

	assets := make(domain.CharacterAssets)
	var mu sync.Mutex
	eg, egCtx := errgroup.WithContext(ctx)

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			asset, err := scanCharacterDir(filepath.Join(dir, name), name)
			if err != nil {
				return err
			}
			// 素材が1つも無いキャラクターは候補にしないのだ
			if asset.Count() == 0 {
				return nil
			}
			mu.Lock()
			assets[name] = asset
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	slog.Info("キャラクター素材を読み込みました", "dir", dir, "characters", len(assets))
	return assets, nil
}

func scanCharacterDir(dir, name string) (domain.CharacterAsset, error) {
	asset := domain.CharacterAsset{Name: name}

	files, err := os.ReadDir(dir)
	if err != nil {
		return asset, fmt.Errorf("キャラクター %s の素材一覧の取得に失敗しました: %w", name, err)
	}

	for _, f := range files {
		if f.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(f.Name()))
		if !slices.Contains(SupportedFormats, ext) {
			continue
		}
		path := filepath.Join(dir, f.Name())
		asset.ImagePaths = append(asset.ImagePaths, path)

		stem := strings.ToLower(strings.TrimSuffix(f.Name(), filepath.Ext(f.Name())))
		if strings.Contains(stem, expressionMarker) {
			asset.ExpressionPaths = append(asset.ExpressionPaths, path)
		}
	}
	return asset, nil
}
