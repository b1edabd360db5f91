package printing

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrintParams(t *testing.T) {
	params := buildPrintParams(&RenderRequest{
		HTML:      "<p>x</p>",
		PaperSize: PaperSizeA4,
		Margins:   Margins{Top: 10, Right: 10, Bottom: 5, Left: 10},
	})
	assert.InDelta(t, mmToInches(210), params.PaperWidth, 0.001)
	assert.InDelta(t, mmToInches(297), params.PaperHeight, 0.001)
	assert.InDelta(t, mmToInches(5), params.MarginBottom, 0.001)
	assert.True(t, params.PrintBackground)
	assert.False(t, params.DisplayHeaderFooter)

	params = buildPrintParams(&RenderRequest{
		PaperSize:  PaperSizeLetter,
		Landscape:  true,
		Margins:    Margins{Bottom: 5},
		FooterHTML: "<span class=pageNumber></span>",
	})
	assert.InDelta(t, 8.5, params.PaperWidth, 0.001)
	assert.True(t, params.Landscape)
	assert.True(t, params.DisplayHeaderFooter)
	assert.InDelta(t, mmToInches(12), params.MarginBottom, 0.001, "footer needs room")
}

func TestBuildCompleteHTML(t *testing.T) {
	full := "<!DOCTYPE html><html><body>x</body></html>"
	assert.Equal(t, full, buildCompleteHTML(&RenderRequest{HTML: full}))

	wrapped := buildCompleteHTML(&RenderRequest{HTML: "<p>x</p>", Title: "A & B"})
	assert.Contains(t, wrapped, "<title>A &amp; B</title>")
	assert.Contains(t, wrapped, "<body><p>x</p></body>")
}

func TestPaperSize(t *testing.T) {
	assert.Equal(t, PaperSizeLetter, ParsePaperSize("letter"))
	assert.Equal(t, PaperSizeA4, ParsePaperSize("A4"))
	assert.Equal(t, PaperSizeA4, ParsePaperSize("tabloid"))
	assert.False(t, PaperSize("A3").IsValid())
}

func TestEstimatePageCount(t *testing.T) {
	pdf := []byte("/Type /Pages /Kids [] /Type /Page ... /Type /Page")
	assert.Equal(t, 2, estimatePageCount(pdf))
	assert.Equal(t, 1, estimatePageCount(nil))
}

func TestChromedpRenderer_RejectsBadRequests(t *testing.T) {
	r, err := NewChromedpRenderer(nil)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Render(context.Background(), &RenderRequest{HTML: "  ", PaperSize: PaperSizeA4})
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeInvalidHTML, renderErr.Code)

	_, err = r.Render(context.Background(), &RenderRequest{HTML: "<p>x</p>", PaperSize: "A3"})
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeInvalidPaperSize, renderErr.Code)
}

func TestChromedpRenderer_RendersPDF(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	var chrome string
	for _, name := range []string{"chromium", "chromium-browser", "google-chrome", "headless-shell"} {
		if path, err := exec.LookPath(name); err == nil {
			chrome = path
			break
		}
	}
	if chrome == "" {
		t.Skip("no Chrome binary on PATH")
	}

	r, err := NewChromedpRenderer(&ChromedpConfig{ExecPath: chrome, NoSandbox: true, DefaultTimeout: 30 * time.Second})
	require.NoError(t, err)
	defer r.Close()

	result, err := r.Render(context.Background(), &RenderRequest{
		HTML:      "<h1>Statement</h1>",
		PaperSize: PaperSizeA4,
		Margins:   DefaultMargins(),
	})
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(result.PDFData[:4]))
	assert.GreaterOrEqual(t, result.PageCount, 1)
}
