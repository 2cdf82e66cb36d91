package email2png

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler はすべてのログを破棄する slog.Handler です
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger はパッケージ全体で使うロガーを設定します。
// 既定では何も出力しません。nil を渡すと既定に戻ります。
//
// ログレベル:
//   - [slog.LevelDebug]: 状態遷移・リクエストURL
//   - [slog.LevelInfo]: ダウンロード・展開・書き出しの完了
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger は現在のロガーを返します
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
