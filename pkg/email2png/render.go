package email2png

import (
	"fmt"
	"log/slog"

	"github.com/shinya/email2png/pkg/email2png/font"
	"github.com/shinya/email2png/pkg/email2png/raster"
)

// Render はフォントデータでメールアドレスを描画し、cfg.Output に保存します
func Render(cfg Config, fontData []byte) error {
	return render(cfg, fontData, Logger())
}

// RenderFrame はファイルに保存せずにキャンバスを返します。
// キャンバスの高さはフォントサイズ、幅は最後のグリフの右端です。
func RenderFrame(cfg Config, fontData []byte) (*raster.FrameBuffer, error) {
	f, err := font.Parse(fontData)
	if err != nil {
		return nil, err
	}

	run, err := f.Layout(cfg.Email, cfg.FontSize)
	if err != nil {
		return nil, err
	}

	fb := raster.NewFrameBuffer(run.Width, run.Height, cfg.Background)
	if err := f.Draw(fb.Image(), cfg.Email, cfg.FontSize, cfg.FontColor); err != nil {
		return nil, fmt.Errorf("failed to draw text: %w", err)
	}
	return fb, nil
}

func render(cfg Config, fontData []byte, log *slog.Logger) error {
	fb, err := RenderFrame(cfg, fontData)
	if err != nil {
		return err
	}

	if err := fb.Save(cfg.Output); err != nil {
		return err
	}

	b := fb.Bounds()
	log.Info("image written", "path", cfg.Output, "width", b.Dx(), "height", b.Dy())
	return nil
}
