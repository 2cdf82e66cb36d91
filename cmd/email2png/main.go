package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/shinya/email2png/pkg/email2png"
	"github.com/shinya/email2png/pkg/email2png/fetch"
	"github.com/shinya/email2png/pkg/email2png/style"
)

// providerEnv はフォントプロバイダのURLを上書きする環境変数です
const providerEnv = "EMAIL2PNG_PROVIDER"

// options はコマンドラインオプションを表します
type options struct {
	font       string
	size       int
	output     string
	textColor  string
	background string
	provider   string
	timeout    time.Duration
	verbose    bool
}

func main() {
	log.SetFlags(0)

	opts, email, err := parseArgs(flag.CommandLine, os.Args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}

	email2png.SetLogger(newLogger(os.Stderr, opts.verbose))

	cfg, err := buildConfig(opts, email)
	if err != nil {
		log.Fatal(err)
	}

	client := &http.Client{Timeout: opts.timeout}
	fetcher := &fetch.Fetcher{
		BaseURL: opts.provider,
		Client:  client,
		Logger:  email2png.Logger(),
	}

	p := email2png.NewPipeline(email2png.WithFetcher(fetcher))
	if err := p.Run(context.Background(), cfg); err != nil {
		log.Fatal(err)
	}

	fmt.Println("Success!")
}

// parseArgs はフラグと位置引数（メールアドレス）を解析します
func parseArgs(fs *flag.FlagSet, args []string) (options, string, error) {
	opts := options{}

	stringFlag(fs, &opts.font, "font", "f", email2png.DefaultFont, "フォント名")
	intFlag(fs, &opts.size, "size", "s", email2png.DefaultFontSize, "フォントサイズ（ピクセル）")
	stringFlag(fs, &opts.output, "output", "o", email2png.DefaultOutput, "出力ファイル（拡張子で形式を決定）")
	stringFlag(fs, &opts.textColor, "text-color", "c", "#000000ff", "文字色（#rrggbb(aa)形式）")
	stringFlag(fs, &opts.background, "background-color", "b", "#00000000", "背景色（#rrggbb(aa)形式）")
	fs.StringVar(&opts.provider, "provider", envOr(providerEnv, fetch.DefaultBaseURL), "フォントプロバイダのURL（環境変数 "+providerEnv+"）")
	fs.DurationVar(&opts.timeout, "timeout", fetch.DefaultTimeout, "ダウンロードのタイムアウト")
	fs.BoolVar(&opts.verbose, "v", false, "詳細ログを出力")
	fs.BoolVar(&opts.verbose, "verbose", false, "詳細ログを出力")

	fs.Usage = func() { printUsage(fs) }

	if err := fs.Parse(args); err != nil {
		return opts, "", err
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(fs.Output(), "メールアドレスを1つ指定してください")
		fs.Usage()
		return opts, "", fmt.Errorf("expected exactly one email address, got %d arguments", fs.NArg())
	}

	return opts, fs.Arg(0), nil
}

// buildConfig はオプションから描画設定を作成します。色はネットワークアクセスの前に検証します
func buildConfig(opts options, email string) (email2png.Config, error) {
	fg, err := style.ParseColor(opts.textColor, 255)
	if err != nil {
		return email2png.Config{}, err
	}
	bg, err := style.ParseColor(opts.background, 255)
	if err != nil {
		return email2png.Config{}, err
	}

	cfg := email2png.Config{
		Email:      email,
		Font:       opts.font,
		Output:     opts.output,
		FontSize:   opts.size,
		FontColor:  fg,
		Background: bg,
	}
	if err := cfg.Validate(); err != nil {
		return email2png.Config{}, err
	}
	return cfg, nil
}

// newLogger は端末ならテキスト形式、それ以外はJSON形式のロガーを作成します
func newLogger(w *os.File, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	hopts := &slog.HandlerOptions{Level: level}

	if term.IsTerminal(int(w.Fd())) {
		return slog.New(slog.NewTextHandler(w, hopts))
	}
	return slog.New(slog.NewJSONHandler(w, hopts))
}

func stringFlag(fs *flag.FlagSet, p *string, long, short, value, usage string) {
	fs.StringVar(p, long, value, usage)
	fs.StringVar(p, short, value, usage+"（-"+long+" の短縮形）")
}

func intFlag(fs *flag.FlagSet, p *int, long, short string, value int, usage string) {
	fs.IntVar(p, long, value, usage)
	fs.IntVar(p, short, value, usage+"（-"+long+" の短縮形）")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// printUsage は使用方法を表示します
func printUsage(fs *flag.FlagSet) {
	w := fs.Output()
	fmt.Fprint(w, `email2png - メールアドレスをWebフォントで画像化するツール

使用方法:
  email2png [オプション] <メールアドレス>

オプション:
`)
	fs.PrintDefaults()
	printExamples(w)
}

func printExamples(w io.Writer) {
	fmt.Fprint(w, `
例:
  email2png someone@example.com
  email2png --font "Open Sans" --size 24 -o contact.png someone@example.com
  email2png -c '#ffffff' -b '#336699ff' -o contact.bmp someone@example.com
`)
}
