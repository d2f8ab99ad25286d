// Package extract converts uploaded documents into plain text suitable
// for prompting.
package extract

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"rfpworks.com/pid-backend/internal/apperr"
)

var (
	tagPattern     = regexp.MustCompile(`<[^>]+>`)
	hspacePattern  = regexp.MustCompile(`[ \t]+`)
	newlinePattern = regexp.MustCompile(`\n{3,}`)
)

// FromBytes extracts plain text from content, dispatching on the file
// extension of name. Text and markdown pass through verbatim, HTML has
// its tag markup stripped (no entity decoding), and PDFs go through the
// pdf library with the extracted text normalized afterwards. The content
// is never modified.
func FromBytes(content []byte, name string) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".txt", ".md":
		return string(content), nil
	case ".html", ".htm":
		return tagPattern.ReplaceAllString(string(content), " "), nil
	case ".pdf":
		text, err := pdfText(content)
		if err != nil {
			return "", fmt.Errorf("%w: %v", apperr.ErrExtractionFailed, err)
		}
		// A parse that yields only whitespace is a failure: returning
		// the raw bytes instead would hand the caller garbage.
		if strings.TrimSpace(text) == "" {
			return "", fmt.Errorf("%w: pdf contained no extractable text", apperr.ErrExtractionFailed)
		}
		return normalize(text), nil
	default:
		return "", fmt.Errorf("%w: %q", apperr.ErrUnsupportedType, ext)
	}
}

// pdfText runs the PDF parser over content. The library panics on some
// malformed inputs, so recover and report that as a parse error.
func pdfText(content []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parser panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", err
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// normalize converts CRLF to LF, collapses runs of horizontal whitespace
// and reduces 3+ consecutive newlines to exactly two, keeping paragraph
// breaks intact.
func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = hspacePattern.ReplaceAllString(s, " ")
	s = newlinePattern.ReplaceAllString(s, "\n\n")
	return s
}
