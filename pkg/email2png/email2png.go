package email2png

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log/slog"

	"github.com/shinya/email2png/pkg/email2png/archive"
	"github.com/shinya/email2png/pkg/email2png/fetch"
)

// 既定値
const (
	DefaultFont     = "inconsolata"
	DefaultFontSize = 16
	DefaultOutput   = "email.png"
)

var (
	// DefaultFontColor は不透明の黒です
	DefaultFontColor = color.NRGBA{0, 0, 0, 255}

	// DefaultBackground は完全に透明な黒です
	DefaultBackground = color.NRGBA{0, 0, 0, 0}
)

// ErrInvalidConfig は Config の値が不正な場合に返されます
var ErrInvalidConfig = errors.New("email2png: invalid config")

// Config は1回の描画に必要な設定を表します
type Config struct {
	Email      string
	Font       string // フォント名（例: "Inconsolata", "Open Sans"）
	Output     string // 出力先。拡張子で形式が決まる
	FontSize   int    // ピクセル単位。キャンバスの高さになる
	FontColor  color.NRGBA
	Background color.NRGBA
}

// DefaultConfig は既定値で埋めた Config を返します
func DefaultConfig(email string) Config {
	return Config{
		Email:      email,
		Font:       DefaultFont,
		Output:     DefaultOutput,
		FontSize:   DefaultFontSize,
		FontColor:  DefaultFontColor,
		Background: DefaultBackground,
	}
}

// Validate は設定値を検証します
func (c Config) Validate() error {
	if c.FontSize <= 0 {
		return fmt.Errorf("%w: font size must be positive, got %d", ErrInvalidConfig, c.FontSize)
	}
	if c.Output == "" {
		return fmt.Errorf("%w: output file is empty", ErrInvalidConfig)
	}
	if c.Font == "" {
		return fmt.Errorf("%w: font name is empty", ErrInvalidConfig)
	}
	return nil
}

// Stage はパイプラインの状態を表します
type Stage int

const (
	StageIdle Stage = iota
	StageFetching
	StageExtracting
	StageRendering
	StageDone
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageFetching:
		return "fetching"
	case StageExtracting:
		return "extracting"
	case StageRendering:
		return "rendering"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// StageError は失敗した段階とその原因を表します
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// FontFetcher はフォントパッケージの取得元です
type FontFetcher interface {
	Fetch(ctx context.Context, fontName string) ([]byte, error)
}

// Option は Pipeline の設定を変更します
type Option func(*Pipeline)

// WithFetcher は取得元を差し替えます
func WithFetcher(f FontFetcher) Option {
	return func(p *Pipeline) { p.fetcher = f }
}

// WithLogger はパイプラインのロガーを設定します
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// Pipeline は取得・展開・描画を順に実行します
type Pipeline struct {
	fetcher FontFetcher
	logger  *slog.Logger
	state   Stage
	failed  Stage // state == StageFailed のとき失敗した段階
}

// NewPipeline は新しいパイプラインを作成します
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = Logger()
	}
	if p.fetcher == nil {
		f := fetch.NewFetcher()
		f.Logger = p.logger
		p.fetcher = f
	}
	return p
}

// State は現在の状態を返します
func (p *Pipeline) State() Stage {
	return p.state
}

// FailedStage は失敗した段階を返します。失敗していなければ StageIdle です
func (p *Pipeline) FailedStage() Stage {
	if p.state != StageFailed {
		return StageIdle
	}
	return p.failed
}

func (p *Pipeline) enter(s Stage) {
	p.logger.Debug("pipeline transition", "from", p.state, "to", s)
	p.state = s
}

func (p *Pipeline) fail(err error) error {
	stage := p.state
	p.failed = stage
	p.enter(StageFailed)
	return &StageError{Stage: stage, Err: err}
}

// Run は cfg に従ってフォントを取得し、画像を書き出します。
// どの段階の失敗も *StageError として返します。
func (p *Pipeline) Run(ctx context.Context, cfg Config) error {
	p.state = StageIdle
	if err := cfg.Validate(); err != nil {
		return err
	}

	p.enter(StageFetching)
	pkg, err := p.fetcher.Fetch(ctx, cfg.Font)
	if err != nil {
		return p.fail(err)
	}

	p.enter(StageExtracting)
	name, fontData, err := archive.ExtractEntry(pkg)
	if err != nil {
		return p.fail(err)
	}
	p.logger.Info("font extracted", "entry", name, "bytes", len(fontData))

	p.enter(StageRendering)
	if err := render(cfg, fontData, p.logger); err != nil {
		return p.fail(err)
	}

	p.enter(StageDone)
	return nil
}

// Run は既定のパイプラインで cfg を実行します
func Run(ctx context.Context, cfg Config) error {
	return NewPipeline().Run(ctx, cfg)
}
