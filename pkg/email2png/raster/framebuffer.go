package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

var (
	// ErrUnsupportedFormat は出力ファイルの拡張子に対応するエンコーダが無い場合に返されます
	ErrUnsupportedFormat = errors.New("raster: unsupported image format")

	// ErrWrite は出力ファイルの作成・エンコード・書き込みに失敗した場合に返されます
	ErrWrite = errors.New("raster: failed to write image")
)

// Encoder は画像を書き出す関数です
type Encoder func(w io.Writer, img image.Image) error

// encoders は拡張子ごとのエンコーダです
var encoders = map[string]Encoder{
	".png":  png.Encode,
	".jpg":  encodeJPEG,
	".jpeg": encodeJPEG,
	".gif":  encodeGIF,
	".bmp":  bmp.Encode,
	".tif":  encodeTIFF,
	".tiff": encodeTIFF,
}

func encodeJPEG(w io.Writer, img image.Image) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
}

func encodeGIF(w io.Writer, img image.Image) error {
	return gif.Encode(w, img, nil)
}

func encodeTIFF(w io.Writer, img image.Image) error {
	return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
}

// EncoderFor はファイル名の拡張子からエンコーダを返します
func EncoderFor(path string) (Encoder, error) {
	ext := strings.ToLower(filepath.Ext(path))
	enc, ok := encoders[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return enc, nil
}

// FrameBuffer は画像の描画バッファを表します
type FrameBuffer struct {
	img        *image.NRGBA
	background color.NRGBA
}

// NewFrameBuffer は背景色で塗りつぶした新しいフレームバッファを作成します
func NewFrameBuffer(width, height int, background color.NRGBA) *FrameBuffer {
	img := image.NewNRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))

	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = background.R
		img.Pix[i+1] = background.G
		img.Pix[i+2] = background.B
		img.Pix[i+3] = background.A
	}

	return &FrameBuffer{
		img:        img,
		background: background,
	}
}

// GetPixel は指定された座標のピクセルを取得します
func (fb *FrameBuffer) GetPixel(x, y int) color.NRGBA {
	if image.Pt(x, y).In(fb.img.Bounds()) {
		return fb.img.NRGBAAt(x, y)
	}
	return color.NRGBA{}
}

// Bounds はフレームバッファの境界を返します
func (fb *FrameBuffer) Bounds() image.Rectangle {
	return fb.img.Bounds()
}

// Background は塗りつぶしに使った背景色を返します
func (fb *FrameBuffer) Background() color.NRGBA {
	return fb.background
}

// Image は内部の画像を返します
func (fb *FrameBuffer) Image() *image.NRGBA {
	return fb.img
}

// Encode は path の拡張子で決まる形式で w に書き出します
func (fb *FrameBuffer) Encode(w io.Writer, path string) error {
	enc, err := EncoderFor(path)
	if err != nil {
		return err
	}
	if err := enc(w, fb.img); err != nil {
		return fmt.Errorf("%w %s: %w", ErrWrite, path, err)
	}
	return nil
}

// Save はフレームバッファを path に保存します。形式は拡張子で決まります
func (fb *FrameBuffer) Save(path string) (err error) {
	// エンコードできない画像（幅0など）で空ファイルを残さないよう先にメモリへ書き出す
	var buf bytes.Buffer
	if err := fb.Encode(&buf, path); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrWrite, path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w %s: %w", ErrWrite, path, cerr)
		}
	}()

	if _, err := f.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("%w %s: %w", ErrWrite, path, err)
	}
	return nil
}
