package style

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ErrColorFormat は色指定の書式が不正な場合に返されます
var ErrColorFormat = errors.New("incorrect color format")

// ParseColor は "#rrggbb" または "#rrggbbaa" 形式の色指定を解析します。
// アルファが省略された場合は defaultFill で埋めます。
func ParseColor(spec string, defaultFill uint8) (color.NRGBA, error) {
	lowered := strings.ToLower(spec)

	groups, ok := splitGroups(lowered)
	if !ok {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrColorFormat, spec)
	}

	channels := [4]uint8{defaultFill, defaultFill, defaultFill, defaultFill}
	for i, g := range groups {
		channels[i] = parseHexByte(g)
	}

	return color.NRGBA{R: channels[0], G: channels[1], B: channels[2], A: channels[3]}, nil
}

// splitGroups は '#' の後ろを2文字ずつのグループに分割します（3または4グループ）
func splitGroups(s string) ([]string, bool) {
	if !strings.HasPrefix(s, "#") {
		return nil, false
	}
	body := s[1:]
	if len(body) != 6 && len(body) != 8 {
		return nil, false
	}

	for i := 0; i < len(body); i++ {
		c := body[i]
		if !(c >= 'a' && c <= 'z' || c >= '0' && c <= '9') {
			return nil, false
		}
	}

	groups := make([]string, 0, 4)
	for i := 0; i < len(body); i += 2 {
		groups = append(groups, body[i:i+2])
	}
	return groups, true
}

// parseHexByte は2文字の16進数を解析します。解析できない場合は0を返します
func parseHexByte(hex string) uint8 {
	v, err := strconv.ParseUint(hex, 16, 8)
	if err != nil {
		return 0
	}
	return uint8(v)
}
