package extraction

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// extractHTML pulls visible text out of an HTML resume without calling the
// parsing service.
func extractHTML(content []byte, filename string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return "", &ParseError{Filename: filename, Message: "invalid HTML", Cause: err}
	}

	doc.Find("script, style, noscript").Remove()

	var lines []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}

	text := strings.Join(lines, "\n")
	if text == "" {
		return "", &ParseError{Filename: filename, Message: "extraction produced no text"}
	}
	return text, nil
}
