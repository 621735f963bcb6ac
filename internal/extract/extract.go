// Package extract converts uploaded file bytes into plain text.
package extract

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// FromFile extracts plain text from an uploaded file based on its
// extension. PDFs go through the PDF reader; known text formats decode
// as UTF-8 with a Latin-1 fallback; unrecognized extensions are treated
// as UTF-8 text and fail if they are not valid UTF-8.
func FromFile(content []byte, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".pdf":
		return fromPDF(content)
	case ".txt", ".md", ".json", ".csv":
		if utf8.Valid(content) {
			return string(content), nil
		}
		return decodeLatin1(content), nil
	default:
		if utf8.Valid(content) {
			return string(content), nil
		}
		return "", fmt.Errorf("unsupported file type or encoding: %s", filename)
	}
}

func fromPDF(content []byte) (string, error) {
	if len(content) == 0 {
		return "", nil
	}
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("read pdf failed: %w", err)
	}
	plainReader, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text failed: %w", err)
	}
	out, err := io.ReadAll(plainReader)
	if err != nil {
		return "", fmt.Errorf("read pdf text failed: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// decodeLatin1 maps each byte to the corresponding code point. Every
// byte sequence is valid Latin-1, so this cannot fail.
func decodeLatin1(content []byte) string {
	runes := make([]rune, len(content))
	for i, b := range content {
		runes[i] = rune(b)
	}
	return string(runes)
}
