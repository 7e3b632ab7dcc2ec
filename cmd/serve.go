package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/shouni/go-webtoon-kit/internal/builder"
	"github.com/shouni/go-webtoon-kit/internal/config"
	"github.com/shouni/go-webtoon-kit/internal/server"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

// newServeCmd は、生成パイプラインを HTTP API として起動するコマンドなのだ。
func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "HTTP API サーバーを起動するのだ。",
		Long: `POST /api/webtoons で生成と保存、GET /api/characters で素材一覧、
GET /health でヘルスチェックを提供するのだ。`,
		Example:     "  webtoon-kit serve --addr :8080",
		Annotations: map[string]string{requiresAPIKey: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			appCtx, err := builder.BuildAppContext(cmd.Context(), cfg, nil)
			if err != nil {
				return err
			}

			srv, err := server.New(appCtx.Workflow, appCtx.Assets, cfg.Options.Timeout)
			if err != nil {
				return err
			}
			httpServer := &http.Server{
				Addr:              addr,
				Handler:           srv.Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			serverErr := make(chan error, 1)
			go func() {
				slog.Info("HTTP サーバーを起動したのだ", "addr", addr)
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			select {
			case <-cmd.Context().Done():
				slog.Info("サーバーを停止するのだ...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := httpServer.Shutdown(shutdownCtx); err != nil {
					return fmt.Errorf("サーバーの停止に失敗したのだ: %w", err)
				}
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", config.DefaultServeAddr, "待ち受けアドレスなのだ。")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", config.DefaultRequestTimeout, "1リクエストあたりの生成タイムアウトなのだ。")
	cmd.Flags().StringVarP(&opts.OutputDir, "output-dir", "o", "", "保存先ディレクトリ（ローカル or s3://...）なのだ。")
	cmd.Flags().StringVarP(&opts.Format, "format", "F", config.DefaultStoryFormat, "構成案の保存形式 (json, yaml) なのだ。")
	cmd.Flags().BoolVar(&opts.WebP, "webp", false, "webtoon.webp も書き出すのだ。")
	return cmd
}
