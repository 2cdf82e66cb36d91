package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

var (
	// ErrCorrupt はzipヘッダが不正な場合に返されます
	ErrCorrupt = errors.New("archive: corrupt zip archive")

	// ErrReadFailure はエントリを最後まで読み込めなかった場合に返されます
	ErrReadFailure = errors.New("archive: failed to read entry")

	// ErrNoFont は複数エントリ中にフォントファイルが無い場合に返されます
	ErrNoFont = errors.New("archive: no font file in archive")
)

// fontExtensions はフォントとして扱う拡張子です
var fontExtensions = map[string]bool{
	".ttf": true,
	".otf": true,
	".ttc": true,
}

// maxPrealloc は展開バッファの事前確保の上限です
const maxPrealloc = 16 << 20

// Extract はzipアーカイブからフォントファイルを1つ取り出します
func Extract(data []byte) ([]byte, error) {
	_, content, err := ExtractEntry(data)
	return content, err
}

// ExtractEntry は Extract と同じ選択を行い、エントリ名も返します。
// ファイルが1つだけの場合は名前に関わらずそのエントリを返し、
// 複数ある場合はアーカイブ順で最初のフォント拡張子のエントリを返します。
func ExtractEntry(data []byte) (name string, content []byte, err error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	entry, err := selectEntry(r.File)
	if err != nil {
		return "", nil, err
	}

	content, err = readEntry(entry)
	if err != nil {
		return "", nil, err
	}
	return entry.Name, content, nil
}

// selectEntry は取り出すエントリを選択します
func selectEntry(files []*zip.File) (*zip.File, error) {
	var regular []*zip.File
	for _, f := range files {
		if f.FileInfo().IsDir() {
			continue
		}
		regular = append(regular, f)
	}

	switch len(regular) {
	case 0:
		return nil, ErrNoFont
	case 1:
		return regular[0], nil
	}

	for _, f := range regular {
		if IsFontFile(f.Name) {
			return f, nil
		}
	}
	return nil, ErrNoFont
}

// IsFontFile はファイル名がフォント拡張子を持つかどうかを返します
func IsFontFile(name string) bool {
	return fontExtensions[strings.ToLower(path.Ext(name))]
}

// readEntry はエントリを展開して全内容を返します
func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrReadFailure, f.Name, err)
	}
	defer rc.Close()

	buf := bytes.NewBuffer(make([]byte, 0, min(f.UncompressedSize64, maxPrealloc)))
	if _, err := io.Copy(buf, rc); err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrReadFailure, f.Name, err)
	}
	return buf.Bytes(), nil
}
