package builder

import (
	"github.com/shouni/go-webtoon-kit/internal/config"

	"github.com/shouni/go-webtoon-kit/pkg/domain"
	"github.com/shouni/go-webtoon-kit/pkg/publisher"
	"github.com/shouni/go-webtoon-kit/pkg/workflow"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持する
// これを各コマンドに渡すことで、依存関係の注入を簡素化します。
type AppContext struct {
	Config   *config.Config         // Configは、環境変数から読み込まれたグローバルな設定です（APIキー、プロジェクトIDなど）。
	Options  config.GenerateOptions // Optionsは、コマンドラインから渡された実行時の設定です（コンセプト、モデル名など）。
	Assets   domain.CharacterAssets // Assetsは、characters ディレクトリから読み込んだ参照画像の一覧です。
	Writer   publisher.OutputWriter // Writerは、生成物をローカルまたは s3:// へ保存するための出力先です。
	Workflow *workflow.Manager      // Workflowは、構成案から合成までを実行するパイプラインです。
}

// NewAppContext は AppContext の新しいインスタンスを生成する
func NewAppContext(
	cfg *config.Config,
	assets domain.CharacterAssets,
	writer publisher.OutputWriter,
	manager *workflow.Manager,
) AppContext {
	return AppContext{
		Config:   cfg,
		Options:  cfg.Options,
		Assets:   assets,
		Writer:   writer,
		Workflow: manager,
	}
}
