package extraction

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"path/filepath"
	"regexp"
	"strings"
)

// Matches page object markers without catching the /Pages tree node.
var pdfPagePattern = regexp.MustCompile(`/Type\s*/Page[^s]`)

// CountPages estimates the page count of an uploaded document for quota
// charging. PDF pages are counted from object markers; DOCX pages come from
// the document's app properties. Anything unrecognized counts as one page.
func CountPages(content []byte, filename string) int {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		if n := len(pdfPagePattern.FindAll(content, -1)); n > 0 {
			return n
		}
		return 1
	case ".docx":
		if n := docxPages(content); n > 0 {
			return n
		}
		return 1
	default:
		return 1
	}
}

func docxPages(content []byte) int {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return 0
	}

	for _, file := range reader.File {
		if file.Name != "docProps/app.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return 0
		}
		data, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return 0
		}

		var props struct {
			Pages int `xml:"Pages"`
		}
		if xml.Unmarshal(data, &props) == nil {
			return props.Pages
		}
		return 0
	}
	return 0
}
