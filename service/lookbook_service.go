package service

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"armario-virtual/models"
	"armario-virtual/utils"
)

//go:embed templates/lookbook.html
var templateFS embed.FS

var lookbookTemplate = template.Must(template.ParseFS(templateFS, "templates/lookbook.html"))

const itemsPerLookbookPage = 9

// LookbookServiceInterface defines the contract for wardrobe lookbook export
type LookbookServiceInterface interface {
	RenderHTML(ctx context.Context) (string, error)
	GeneratePDF(ctx context.Context) ([]byte, error)
}

type lookbookItem struct {
	Name     string
	ImageURL template.URL
}

type lookbookPage struct {
	Label     string
	Color     string
	Continued bool
	Items     []lookbookItem
}

// LookbookService renders the wardrobe grouped by category as HTML and PDF
// Implements LookbookServiceInterface
type LookbookService struct {
	wardrobe   WardrobeServiceInterface
	thumbs     *ThumbnailCache
	baseURL    string // where headless Chrome reaches this server, e.g. http://localhost:8080
	chromePath string
	logger     *log.Logger
	now        func() time.Time
}

// NewLookbookService creates a new LookbookService
func NewLookbookService(wardrobe WardrobeServiceInterface, thumbs *ThumbnailCache, baseURL, chromePath string, logger *log.Logger) *LookbookService {
	return &LookbookService{
		wardrobe:   wardrobe,
		thumbs:     thumbs,
		baseURL:    baseURL,
		chromePath: chromePath,
		logger:     logger,
		now:        time.Now,
	}
}

// Ensure LookbookService implements LookbookServiceInterface
var _ LookbookServiceInterface = (*LookbookService)(nil)

// detectChromePath returns configured when it exists, else the first common Chrome/Chromium install found
func detectChromePath(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// paginateLookbook groups items by category in display order, nine per page.
// Categories without items get no page.
func (s *LookbookService) paginateLookbook(items []models.ClothingItem) []lookbookPage {
	var pages []lookbookPage
	for _, c := range models.AllCategories() {
		var cards []lookbookItem
		for _, item := range items {
			if item.Category == c {
				cards = append(cards, s.card(item))
			}
		}

		for i := 0; i < len(cards); i += itemsPerLookbookPage {
			end := min(i+itemsPerLookbookPage, len(cards))
			pages = append(pages, lookbookPage{
				Label:     c.Label(),
				Color:     c.Color(),
				Continued: i > 0,
				Items:     cards[i:end],
			})
		}
	}
	return pages
}

func (s *LookbookService) card(item models.ClothingItem) lookbookItem {
	card := lookbookItem{Name: item.Name}
	thumb, err := s.thumbs.Get(item.ID, "thumb", item.Image)
	if err != nil {
		s.logger.Warn("⚠️  lookbook image skipped", "id", item.ID, "err", err)
		return card
	}
	card.ImageURL = template.URL(utils.EncodeDataURL(thumb))
	return card
}

// RenderHTML renders every visible item, images inlined as data URLs
func (s *LookbookService) RenderHTML(ctx context.Context) (string, error) {
	items := s.wardrobe.List("")
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data := struct {
		Title       string
		GeneratedAt string
		Pages       []lookbookPage
	}{
		Title:       "我的衣櫃",
		GeneratedAt: s.now().Format("2006-01-02"),
		Pages:       s.paginateLookbook(items),
	}

	var buf bytes.Buffer
	if err := lookbookTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// GeneratePDF prints the rendered lookbook page to A4 with headless Chrome
func (s *LookbookService) GeneratePDF(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.NoSandbox)
	if chromePath := detectChromePath(s.chromePath); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	defer chromedpCancel()

	renderURL := s.baseURL + "/wardrobe/lookbook"
	s.logger.Info("🖨️  generating lookbook PDF", "url", renderURL)

	var pdfBuf []byte
	err := chromedp.Run(chromedpCtx,
		chromedp.EmulateViewport(794, 1123),
		chromedp.Navigate(renderURL),
		chromedp.WaitReady("body"),
		chromedp.Evaluate(`document.fonts.ready`, nil, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// 210mm x 297mm
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	s.logger.Info("✓ lookbook PDF generated", "bytes", len(pdfBuf))
	return pdfBuf, nil
}
