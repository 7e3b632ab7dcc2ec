package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/shouni/go-webtoon-kit/pkg/asset"

	"github.com/spf13/cobra"
)

// newCharactersCmd は、キャラクター素材の一覧を表示するコマンドなのだ。
func newCharactersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "characters",
		Short: "参照画像のあるキャラクターを一覧表示するのだ。",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := loadConfig().LibraryConfig().CharactersDir
			assets, err := asset.LoadCharacterAssets(cmd.Context(), dir)
			if err != nil {
				return fmt.Errorf("キャラクター素材の読み込みに失敗したのだ: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(assets) == 0 {
				fmt.Fprintf(out, "%s にキャラクター素材が見つからないのだ\n", dir)
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tIMAGES\tEXPRESSIONS")
			for _, name := range assets.Names() {
				c := assets[name]
				fmt.Fprintf(tw, "%s\t%d\t%d\n", c.Name, len(c.ImagePaths), len(c.ExpressionPaths))
			}
			return tw.Flush()
		},
	}
}
