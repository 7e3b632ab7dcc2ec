package cmd

import (
	"context"
	"fmt"

	"github.com/shouni/go-webtoon-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// newStoryCmd は、構成案だけを生成するコマンドなのだ。
func newStoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "story",
		Short:       "構成案だけを生成して出力するのだ。",
		Long:        `画像は生成せず、検証済みの構成案を JSON か YAML で標準出力かファイルに書き出すのだ。`,
		Example:     `  webtoon-kit story -C "Photosynthesis for kids" -c Fox,Owl -F yaml -f story.yaml`,
		Annotations: map[string]string{requiresAPIKey: "true"},
		RunE:        storyCommand,
	}

	addRequestFlags(cmd)
	cmd.Flags().StringVarP(&opts.OutputFile, "output-file", "f", "", "保存パス（ローカル or s3://...）なのだ。未指定なら標準出力なのだ。")
	return cmd
}

// storyCommand は、story サブコマンドの実行ロジック本体なのだ。
func storyCommand(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
	defer cancel()

	if err := pipeline.ExecuteStory(ctx, loadConfig(), cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("構成案の生成中にエラーが発生したのだ: %w", err)
	}
	return nil
}
