package generator

import (
	"context"
	"time"
)

// attemptState は1シーン分の画像生成の状態です。
// Attempting(n) -> Success | Attempting(n+1) | Placeholder の遷移だけを持ちます。
type attemptState int

const (
	stateAttempting attemptState = iota
	stateSuccess
	statePlaceholder
)

func (s attemptState) String() string {
	switch s {
	case stateAttempting:
		return "attempting"
	case stateSuccess:
		return "success"
	case statePlaceholder:
		return "placeholder"
	default:
		return "unknown"
	}
}

// nextState は attempt 回目の結果から次の状態を決めます。
// 試行間で保持するのは試行回数だけなのだ。
func nextState(attempt, maxAttempts int, err error) attemptState {
	if err == nil {
		return stateSuccess
	}
	if attempt >= maxAttempts {
		return statePlaceholder
	}
	return stateAttempting
}

// Sleeper は試行間の待機を行います。ctx が終了したらエラーを返します。
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext は ctx を考慮して d だけ待機する既定の Sleeper です。
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
