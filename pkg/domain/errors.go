package domain

import "errors"

// 生成パイプラインの各工程が返すエラーの分類です。
// 呼び出し側は errors.Is で判定します。
var (
	// ErrEmptyResponse はテキスト生成エンドポイントが空のペイロードを返したことを示します。
	ErrEmptyResponse = errors.New("empty response")
	// ErrMalformedResponse はペイロードを構造化データとして解釈できなかったことを示します。
	ErrMalformedResponse = errors.New("malformed response")
	// ErrInvalidStoryShape は解釈できたデータが StoryOutline の形を満たしていないことを示します。
	ErrInvalidStoryShape = errors.New("invalid story shape")
	// ErrImageGenerationExhausted は試行回数を使い切っても画像が得られなかったことを示します。
	// パイプラインはプレースホルダーで回復するため、呼び出し元へは伝播しません。
	ErrImageGenerationExhausted = errors.New("image generation exhausted")
	// ErrPersistenceFailure は成果物の保存に失敗したことを示します。生成結果自体は有効なままです。
	ErrPersistenceFailure = errors.New("persistence failure")
	// ErrInvalidRequest は生成リクエストの入力値が不正であることを示します。
	ErrInvalidRequest = errors.New("invalid request")
)
