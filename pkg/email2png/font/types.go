package font

import (
	"image"

	"golang.org/x/image/math/fixed"
)

// GlyphInfo は配置済みグリフの情報を表します
type GlyphInfo struct {
	Rune      rune
	Dot       fixed.Point26_6 // ペン位置（ベースライン上）
	Advance   fixed.Int26_6
	Bounds    image.Rectangle // ピクセル境界（ベースライン y=0 基準）
	HasBounds bool            // 空白など輪郭の無いグリフは false
}

// TextRun は1行分のレイアウト結果を表します
type TextRun struct {
	Text   string
	Size   int
	Glyphs []GlyphInfo
	Width  int
	Height int
}
