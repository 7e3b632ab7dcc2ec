package domain

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// CharacterAsset はキャラクター素材ディレクトリから発見された参照画像の集合です。
// 1回の生成セッション中は変更しません。
type CharacterAsset struct {
	Name            string   `json:"name"`
	ImagePaths      []string `json:"image_paths"`
	ExpressionPaths []string `json:"expression_paths"` // ImagePaths のうちファイル名が "expression" を含むもの
}

// CharacterAssets は名前をキーとしたキャラクター素材の検索用マップなのだ。
type CharacterAssets map[string]CharacterAsset

// Count は参照画像の枚数を返します。
func (c CharacterAsset) Count() int {
	return len(c.ImagePaths)
}

// String はキャラクターの情報を文字列で返すのだ。
func (c CharacterAsset) String() string {
	return fmt.Sprintf("%s (%d assets)", c.Name, c.Count())
}

// Names は登録済みのキャラクター名を昇順で返します。
func (m CharacterAssets) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Find は名前からキャラクター素材を特定します。完全一致が無ければ大文字小文字を無視して探すのだ。
func (m CharacterAssets) Find(name string) *CharacterAsset {
	if m == nil {
		return nil
	}
	if asset, ok := m[name]; ok {
		res := asset.clone()
		return &res
	}
	for _, key := range m.Names() {
		if strings.EqualFold(key, name) {
			res := m[key].clone()
			return &res
		}
	}
	return nil
}

// clone はスライスも含めた防御的コピーを返す内部ヘルパーなのだ。
func (c CharacterAsset) clone() CharacterAsset {
	c.ImagePaths = slices.Clone(c.ImagePaths)
	c.ExpressionPaths = slices.Clone(c.ExpressionPaths)
	return c
}
