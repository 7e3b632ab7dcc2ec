package publisher

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/shouni/go-webtoon-kit/pkg/asset"
)

// OutputWriter はデータを外部ストレージに保存するためのインターフェースです。
type OutputWriter interface {
	Write(ctx context.Context, path string, r io.Reader, contentType string) error
}

// DirCreator は出力ディレクトリを排他的に作成できる書き込み先です。
// 既に存在する場合は os.ErrExist をラップしたエラーを返します。
type DirCreator interface {
	CreateDir(ctx context.Context, path string) error
}

// LocalWriter はローカルファイルシステムに書き込みます。親ディレクトリは自動で作るのだ。
type LocalWriter struct{}

// CreateDir は path を新規に作成します。既存のディレクトリは再利用しません。
func (LocalWriter) CreateDir(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ディレクトリの作成に失敗しました: %w", err)
	}
	if err := os.Mkdir(path, 0o755); err != nil {
		return fmt.Errorf("ディレクトリの作成に失敗しました: %w", err)
	}
	return nil
}

// Write は path にデータを書き込みます。
func (LocalWriter) Write(ctx context.Context, path string, r io.Reader, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ディレクトリの作成に失敗しました: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ファイルの作成に失敗しました: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return fmt.Errorf("ファイルの書き込みに失敗しました: %w", err)
	}
	return f.Close()
}

// S3PutAPI は S3Writer が使う S3 クライアントの操作です。*s3.Client が満たします。
type S3PutAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NewS3Client は path-style アドレッシングの S3 クライアントを作ります。
// endpoint が空でなければ LocalStack 等の互換エンドポイントを使います。
func NewS3Client(cfg aws.Config, endpoint string) *s3.Client {
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
}

// S3Writer は s3://bucket/key 形式のパスへ PutObject します。
type S3Writer struct {
	client S3PutAPI
}

// NewS3Writer は S3Writer を初期化します。
func NewS3Writer(client S3PutAPI) (*S3Writer, error) {
	if client == nil {
		return nil, fmt.Errorf("s3 client は必須です")
	}
	return &S3Writer{client: client}, nil
}

// Write は path が指すオブジェクトにデータをアップロードします。
func (w *S3Writer) Write(ctx context.Context, path string, r io.Reader, contentType string) error {
	bucket, key, err := ParseS3URI(path)
	if err != nil {
		return err
	}
	_, err = w.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("s3://%s/%s へのアップロードに失敗しました: %w", bucket, key, err)
	}
	return nil
}

// ParseS3URI は s3://bucket/key をバケットとキーに分解します。
func ParseS3URI(uri string) (bucket, key string, err error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", "", fmt.Errorf("無効なURIです: %w", err)
	}
	if !strings.EqualFold(u.Scheme, "s3") || u.Host == "" {
		return "", "", fmt.Errorf("s3:// 形式のURIではありません: %s", uri)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", "", fmt.Errorf("オブジェクトキーがありません: %s", uri)
	}
	return u.Host, key, nil
}

// UniversalWriter はパスのスキームを見てローカルと S3 の書き込み先を振り分けます。
type UniversalWriter struct {
	local  OutputWriter
	remote OutputWriter
}

// NewUniversalWriter は UniversalWriter を初期化します。remote は nil でも構いません。
func NewUniversalWriter(local, remote OutputWriter) *UniversalWriter {
	if local == nil {
		local = LocalWriter{}
	}
	return &UniversalWriter{local: local, remote: remote}
}

// CreateDir は path に応じた書き込み先が DirCreator なら委譲します。
// S3 のようにディレクトリを持たない書き込み先では何もしないのだ。
func (w *UniversalWriter) CreateDir(ctx context.Context, path string) error {
	target := w.local
	if asset.IsRemote(path) {
		target = w.remote
	}
	if dc, ok := target.(DirCreator); ok {
		return dc.CreateDir(ctx, path)
	}
	return nil
}

// Write は path に応じた書き込み先へ委譲します。
func (w *UniversalWriter) Write(ctx context.Context, path string, r io.Reader, contentType string) error {
	if !asset.IsRemote(path) {
		return w.local.Write(ctx, path, r, contentType)
	}
	if w.remote == nil {
		return fmt.Errorf("リモートの書き込み先が設定されていません: %s", path)
	}
	return w.remote.Write(ctx, path, r, contentType)
}
