// Package render turns a RenderRequest into PDF bytes using a dedicated
// headless Chrome session per call.
package render

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"pdf-gateway/internal/config"
	"pdf-gateway/internal/domain"
	"pdf-gateway/internal/infra/chrome"
	"pdf-gateway/internal/infra/logging"
)

// Gateway renders HTML to PDF. It holds no per-request state and is safe for
// concurrent use; every Generate call launches and releases its own browser.
type Gateway struct {
	launchOpts     chrome.Options
	sessions       *chrome.Tracker
	paperSizes     map[string]config.PaperSize
	defaultPaper   string
	timeout        time.Duration
	networkIdle    time.Duration
	showHTMLReport bool
}

// New builds a Gateway from configuration. sessions may be shared with the
// HTTP layer to expose live session counts.
func New(cfg config.Config, sessions *chrome.Tracker) *Gateway {
	if sessions == nil {
		sessions = chrome.NewTracker()
	}
	return &Gateway{
		launchOpts:     chrome.OptionsFromConfig(cfg),
		sessions:       sessions,
		paperSizes:     cfg.PDF.PaperSizes,
		defaultPaper:   cfg.PDF.DefaultPaper,
		timeout:        time.Duration(cfg.PDF.TimeoutSecs) * time.Second,
		networkIdle:    time.Duration(cfg.PDF.NetworkIdleMs) * time.Millisecond,
		showHTMLReport: cfg.PDF.ShowHTMLReport,
	}
}

// Generate renders req and returns the PDF bytes. The browser session is
// released before Generate returns, whatever the outcome.
func (g *Gateway) Generate(ctx context.Context, req domain.RenderRequest) ([]byte, error) {
	if g.showHTMLReport {
		logging.Info("Request input", "html", req.HTML)
	}

	params, err := buildPrintParams(req, g.paperSizes, g.defaultPaper)
	if err != nil {
		return nil, err
	}

	sess, err := chrome.Launch(ctx, g.launchOpts, g.sessions)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			logging.Warn("Browser session close failed", "error", cerr)
		}
	}()

	runCtx, cancel := context.WithTimeout(sess.Ctx, g.timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := loadContent(runCtx, sess.TrackNetwork(), req.HTML, g.networkIdle); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrContentLoad, err)
	}

	pdf, err := printPDF(runCtx, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPDFExport, err)
	}
	return pdf, nil
}

// loadContent replaces the page document with html and waits until the
// network has been quiet for idle.
func loadContent(ctx context.Context, tracker *chrome.IdleTracker, html string, idle time.Duration) error {
	return chromedp.Run(ctx,
		network.Enable(),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frame, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frame.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			return tracker.Wait(ctx, idle)
		}),
	)
}

func printPDF(ctx context.Context, params *page.PrintToPDFParams) ([]byte, error) {
	var buf []byte
	err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		buf, _, err = params.Do(ctx)
		return err
	}))
	if err != nil {
		return nil, err
	}
	return buf, nil
}
