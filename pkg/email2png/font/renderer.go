package font

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// ErrFontParse はフォントデータを読み込めない場合に返されます
var ErrFontParse = errors.New("font: error loading font")

// Font は読み込み済みのフォントを表します
type Font struct {
	otf *opentype.Font
}

// Parse はTTF/OTFのバイト列からフォントを読み込みます
func Parse(data []byte) (*Font, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty font data", ErrFontParse)
	}

	otf, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFontParse, err)
	}

	return &Font{otf: otf}, nil
}

// Family はnameテーブルのファミリ名を返します（無い場合は空文字）
func (f *Font) Family() string {
	name, err := f.otf.Name(nil, sfnt.NameIDFamily)
	if err != nil {
		return ""
	}
	return name
}

// PPEM は size をアセンダからディセンダまでのピクセル高さとした場合の
// em あたりのピクセル数を返します
func (f *Font) PPEM(size int) float64 {
	upem := f.otf.UnitsPerEm()
	m, err := f.otf.Metrics(nil, fixed.I(int(upem)), font.HintingNone)
	if err != nil {
		return float64(size)
	}

	// ppem = upem のとき Ascent/Descent はフォント単位の値になる
	extent := float64(m.Ascent+m.Descent) / 64
	if extent <= 0 {
		return float64(size)
	}
	return float64(size) * float64(upem) / extent
}

// NewFace は size ピクセル高さのフェイスを作成します
func (f *Font) NewFace(size int) (font.Face, error) {
	face, err := opentype.NewFace(f.otf, &opentype.FaceOptions{
		Size:    f.PPEM(size),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	return face, nil
}

// Layout は1行のテキストを原点 (0,0) から配置し、キャンバスサイズを計算します
func (f *Font) Layout(text string, size int) (*TextRun, error) {
	face, err := f.NewFace(size)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	return layoutRun(face, text, size), nil
}

// layoutRun はベースラインを y=0 に置いてグリフを並べます
func layoutRun(face font.Face, text string, size int) *TextRun {
	run := &TextRun{
		Text:   text,
		Size:   size,
		Height: size,
	}

	var dot fixed.Point26_6
	prev := rune(-1)
	for _, r := range text {
		if prev >= 0 {
			dot.X += face.Kern(prev, r)
		}

		dr, _, _, advance, ok := face.Glyph(dot, r)
		glyph := GlyphInfo{
			Rune:    r,
			Dot:     dot,
			Advance: advance,
		}
		if ok && !dr.Empty() {
			glyph.Bounds = dr
			glyph.HasBounds = true
		}
		run.Glyphs = append(run.Glyphs, glyph)

		dot.X += advance
		prev = r
	}

	run.Width = lastGlyphEdge(run.Glyphs)
	return run
}

// lastGlyphEdge は最後に境界を持つグリフの右端を返します
func lastGlyphEdge(glyphs []GlyphInfo) int {
	for i := len(glyphs) - 1; i >= 0; i-- {
		if glyphs[i].HasBounds {
			return max(glyphs[i].Bounds.Max.X, 0)
		}
	}
	return 0
}

// Draw はテキストの上端（アセンダ）を y=0 に合わせて dst に描画します
func (f *Font) Draw(dst draw.Image, text string, size int, textColor color.Color) error {
	face, err := f.NewFace(size)
	if err != nil {
		return err
	}
	defer face.Close()

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(textColor),
		Face: face,
		Dot:  fixed.Point26_6{X: 0, Y: face.Metrics().Ascent},
	}
	d.DrawString(text)
	return nil
}
