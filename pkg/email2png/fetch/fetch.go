package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultBaseURL は google-webfonts-helper のエンドポイントです
const DefaultBaseURL = "https://gwfh.mranftl.com"

// DefaultTimeout はリクエスト全体のタイムアウトです
const DefaultTimeout = 30 * time.Second

var (
	// ErrNotFound はフォントプロバイダが成功以外のステータスを返した場合に返されます
	ErrNotFound = errors.New("fetch: font not found")

	// ErrTransport は接続・DNS・URL・タイムアウトなど通信層の失敗を表します
	ErrTransport = errors.New("fetch: transport failure")
)

// NotFoundError は取得できなかったフォントを表します
type NotFoundError struct {
	Font       string // 正規化前のフォント名
	StatusCode int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Font %s not found (HTTP %d)", e.Font, e.StatusCode)
}

// Is は errors.Is(err, ErrNotFound) を満たします
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Fetcher はフォントパッケージ（zip）をダウンロードします
type Fetcher struct {
	BaseURL string
	Client  *http.Client
	Logger  *slog.Logger
}

// NewFetcher は既定値で Fetcher を作成します
func NewFetcher() *Fetcher {
	return &Fetcher{
		BaseURL: DefaultBaseURL,
		Client:  &http.Client{Timeout: DefaultTimeout},
	}
}

// NormalizeName はフォント名を小文字化し、空白をハイフンに置換します
func NormalizeName(name string) string {
	lowered := cases.Lower(language.Und).String(name)
	return strings.ReplaceAll(lowered, " ", "-")
}

// URL は指定フォントのダウンロードURLを組み立てます
func (f *Fetcher) URL(fontName string) string {
	base := strings.TrimSuffix(f.baseURL(), "/")
	return fmt.Sprintf("%s/api/fonts/%s?download=zip&formats=ttf&variants=regular",
		base, url.PathEscape(NormalizeName(fontName)))
}

// Fetch はフォントパッケージを1回のGETで取得し、レスポンス全体を返します
func (f *Fetcher) Fetch(ctx context.Context, fontName string) ([]byte, error) {
	uri := f.URL(fontName)
	log := f.logger()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	log.Debug("requesting font package", "font", fontName, "url", uri)

	resp, err := f.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// 接続を再利用できるようにボディを読み捨てる
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &NotFoundError{Font: fontName, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response body: %w", ErrTransport, err)
	}

	log.Info("font package downloaded", "font", fontName, "bytes", len(body))
	return body, nil
}

func (f *Fetcher) baseURL() string {
	if f.BaseURL == "" {
		return DefaultBaseURL
	}
	return f.BaseURL
}

func (f *Fetcher) client() *http.Client {
	if f.Client == nil {
		return &http.Client{Timeout: DefaultTimeout}
	}
	return f.Client
}

func (f *Fetcher) logger() *slog.Logger {
	if f.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return f.Logger
}
