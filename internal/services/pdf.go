package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// PDFRenderer : HTML en entrée, octets PDF en sortie
type PDFRenderer interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}

// ChromeRenderer imprime le HTML en PDF avec Chrome headless
type ChromeRenderer struct {
	remoteURL string
	timeout   time.Duration
}

// NewChromeRenderer : remoteURL vide = Chrome lancé localement
func NewChromeRenderer(remoteURL string, timeout time.Duration) *ChromeRenderer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ChromeRenderer{remoteURL: remoteURL, timeout: timeout}
}

func (r *ChromeRenderer) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	if html == "" {
		return nil, errors.New("contenu HTML vide")
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var allocCtx context.Context
	var allocCancel context.CancelFunc
	if r.remoteURL != "" {
		allocCtx, allocCancel = chromedp.NewRemoteAllocator(ctx, r.remoteURL)
	} else {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.DisableGPU,
			chromedp.NoSandbox,
		)
		allocCtx, allocCancel = chromedp.NewExecAllocator(ctx, opts...)
	}
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = data
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("génération PDF: %w", err)
	}
	return pdf, nil
}
