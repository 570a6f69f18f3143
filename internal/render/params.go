package render

import (
	"fmt"
	"strings"

	"github.com/chromedp/cdproto/page"

	"pdf-gateway/internal/config"
	"pdf-gateway/internal/domain"
)

// resolvePaper looks up a format token case-insensitively. Empty selects the default paper.
func resolvePaper(format string, sizes map[string]config.PaperSize, defaultPaper string) (config.PaperSize, error) {
	key := strings.ToUpper(strings.TrimSpace(format))
	if key == "" {
		key = defaultPaper
	}
	paper, ok := sizes[key]
	if !ok {
		return config.PaperSize{}, fmt.Errorf("%w: %q", domain.ErrUnknownFormat, format)
	}
	return paper, nil
}

// buildPrintParams maps a request onto Page.printToPDF parameters.
func buildPrintParams(req domain.RenderRequest, sizes map[string]config.PaperSize, defaultPaper string) (*page.PrintToPDFParams, error) {
	paper, err := resolvePaper(req.Format, sizes, defaultPaper)
	if err != nil {
		return nil, err
	}

	var margins [4]float64
	for i, v := range []string{req.PageMarginTop, req.PageMarginBottom, req.PageMarginLeft, req.PageMarginRight} {
		if margins[i], err = parseLengthInches(v); err != nil {
			return nil, err
		}
	}

	return page.PrintToPDF().
		WithPaperWidth(paper.Width).
		WithPaperHeight(paper.Height).
		WithPrintBackground(true).
		WithDisplayHeaderFooter(true).
		WithHeaderTemplate(headerTemplate(req.CSS)).
		WithFooterTemplate(footerTemplate(req.CSS)).
		WithMarginTop(margins[0]).
		WithMarginBottom(margins[1]).
		WithMarginLeft(margins[2]).
		WithMarginRight(margins[3]), nil
}
