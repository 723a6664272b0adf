package extraction

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// parserStub simulates the parsing service: upload, one pending poll, then
// per-mode results.
type parserStub struct {
	jsonText string
	textText string
	polled   bool
}

func (p *parserStub) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/parsing/upload", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "job-1"})
	})
	mux.HandleFunc("GET /api/parsing/job/job-1", func(w http.ResponseWriter, r *http.Request) {
		status := "SUCCESS"
		if !p.polled {
			p.polled = true
			status = "PENDING"
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"status": status})
	})
	mux.HandleFunc("GET /api/parsing/job/job-1/result/json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprintf(w, `{"pages": [{"text": %q}]}`, p.jsonText)
	})
	mux.HandleFunc("GET /api/parsing/job/job-1/result/text", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"text": p.textText})
	})
	return mux
}

func newTestService(t *testing.T, stub *parserStub) *Service {
	t.Helper()
	server := httptest.NewServer(stub.handler())
	t.Cleanup(server.Close)

	svc := NewService(server.URL, "test-key", zap.NewNop())
	svc.pollInterval = time.Millisecond
	return svc
}

func TestExtractText_StructuredMode(t *testing.T) {
	svc := newTestService(t, &parserStub{jsonText: "resume body", textText: "unused"})

	text, err := svc.ExtractText(context.Background(), []byte("%PDF"), "resume.pdf")
	require.NoError(t, err)
	assert.Equal(t, "resume body", text)
}

func TestExtractText_FallsBackToTextMode(t *testing.T) {
	svc := newTestService(t, &parserStub{jsonText: "   ", textText: "plain text body"})

	text, err := svc.ExtractText(context.Background(), []byte("%PDF"), "resume.pdf")
	require.NoError(t, err)
	assert.Equal(t, "plain text body", text)
}

func TestExtractText_BothModesBlank(t *testing.T) {
	svc := newTestService(t, &parserStub{jsonText: "", textText: "  "})

	_, err := svc.ExtractText(context.Background(), []byte("%PDF"), "resume.pdf")
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "resume.pdf", parseErr.Filename)
}

func TestExtractText_HTMLStaysLocal(t *testing.T) {
	// No parsing service is running; HTML must not need one.
	svc := NewService("http://127.0.0.1:1", "key", zap.NewNop())

	html := []byte(`<html><head><style>p{color:red}</style></head>
		<body><p>Priya Sharma</p><script>alert(1)</script><p>Engineer</p></body></html>`)
	text, err := svc.ExtractText(context.Background(), html, "resume.html")
	require.NoError(t, err)
	assert.Contains(t, text, "Priya Sharma")
	assert.Contains(t, text, "Engineer")
	assert.NotContains(t, text, "alert")
	assert.NotContains(t, text, "color:red")
}

func TestCountPages_PDF(t *testing.T) {
	pdf := []byte("%PDF-1.4\n1 0 obj\n<< /Type /Pages /Count 2 >>\n" +
		"2 0 obj\n<< /Type /Page >>\n3 0 obj\n<< /Type /Page >>\n")
	assert.Equal(t, 2, CountPages(pdf, "resume.pdf"))
}

func TestCountPages_PDFWithoutMarkers(t *testing.T) {
	assert.Equal(t, 1, CountPages([]byte("%PDF-1.4"), "resume.pdf"))
}

func TestCountPages_DOCX(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("docProps/app.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(`<?xml version="1.0"?><Properties><Pages>3</Pages></Properties>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	assert.Equal(t, 3, CountPages(buf.Bytes(), "resume.docx"))
}

func TestCountPages_UnknownExtension(t *testing.T) {
	assert.Equal(t, 1, CountPages([]byte("plain"), "resume.txt"))
	assert.Equal(t, 1, CountPages(nil, "resume.docx"))
}
