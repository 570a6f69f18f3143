package render

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"sync"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdf-gateway/internal/config"
	"pdf-gateway/internal/infra/chrome"
)

// chromeBinary finds a local Chrome for integration tests.
func chromeBinary(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}
	for _, name := range []string{"chromium", "chromium-browser", "google-chrome", "google-chrome-stable", "headless-shell"} {
		if p, err := exec.LookPath(name); err == nil {
			return p
		}
	}
	t.Skip("no chrome binary available")
	return ""
}

func integrationGateway(t *testing.T) (*Gateway, *chrome.Tracker) {
	cfg := config.Default()
	cfg.PDF.ChromePath = chromeBinary(t)
	cfg.PDF.UserDataDir = t.TempDir()
	cfg.PDF.TimeoutSecs = 30
	tracker := chrome.NewTracker()
	return New(cfg, tracker), tracker
}

type pdfInfo struct {
	pages int
	text  string
}

func inspectPDF(t *testing.T, data []byte) pdfInfo {
	t.Helper()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	plain, err := r.GetPlainText()
	require.NoError(t, err)
	text, err := io.ReadAll(plain)
	require.NoError(t, err)
	return pdfInfo{pages: r.NumPage(), text: string(text)}
}

func TestIntegration_HelloA4(t *testing.T) {
	g, tracker := integrationGateway(t)

	out, err := g.Generate(context.Background(), helloRequest())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte("%PDF-")), "missing PDF signature")

	info := inspectPDF(t, out)
	assert.Equal(t, 1, info.pages)
	assert.Contains(t, info.text, "hello")

	assert.Equal(t, int64(0), tracker.Stats().Active)
}

func TestIntegration_IdempotentPageCount(t *testing.T) {
	g, _ := integrationGateway(t)
	req := helloRequest()
	req.HTML = "<div style='page-break-after:always'>one</div><div>two</div>"

	first, err := g.Generate(context.Background(), req)
	require.NoError(t, err)
	second, err := g.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 2, inspectPDF(t, first).pages)
	assert.Equal(t, inspectPDF(t, first).pages, inspectPDF(t, second).pages)
}

func TestIntegration_ConcurrentRequestsAreIsolated(t *testing.T) {
	g, tracker := integrationGateway(t)

	words := []string{"alpha", "bravo", "charlie"}
	results := make([][]byte, len(words))
	errs := make([]error, len(words))

	var wg sync.WaitGroup
	for i, w := range words {
		wg.Add(1)
		go func(i int, w string) {
			defer wg.Done()
			req := helloRequest()
			req.HTML = "<p>" + w + "</p>"
			out, err := g.Generate(context.Background(), req)
			if err != nil {
				errs[i] = err
				return
			}
			results[i] = out
		}(i, w)
	}
	wg.Wait()

	for i, w := range words {
		require.NoError(t, errs[i])
		text := inspectPDF(t, results[i]).text
		assert.Contains(t, text, w)
		for j, other := range words {
			if i != j {
				assert.NotContains(t, text, other)
			}
		}
	}
	assert.Equal(t, int64(0), tracker.Stats().Active)
}
