package receipt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"
)

// ErrReceiptGeneration is returned when a font or the PDF writer fails
var ErrReceiptGeneration = errors.New("receipt generation failed")

const (
	embeddedFamily = "receipt"
	coreFamily     = "Helvetica"
	producer       = "pos-checkout"
)

// FontLoader supplies TrueType font bytes used to draw receipt text.
type FontLoader interface {
	LoadFont(ctx context.Context) ([]byte, error)
}

// FontLoaderFunc adapts a function to FontLoader
type FontLoaderFunc func(ctx context.Context) ([]byte, error)

// LoadFont calls f
func (f FontLoaderFunc) LoadFont(ctx context.Context) ([]byte, error) {
	return f(ctx)
}

// CachedFont wraps a loader so that the first successful load is reused.
// Failed loads are not cached.
type CachedFont struct {
	mu     sync.Mutex
	loader FontLoader
	data   []byte
}

// NewCachedFont creates a caching loader around loader
func NewCachedFont(loader FontLoader) *CachedFont {
	return &CachedFont{loader: loader}
}

// LoadFont returns the cached font or loads it
func (c *CachedFont) LoadFont(ctx context.Context) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.data != nil {
		return c.data, nil
	}
	data, err := c.loader.LoadFont(ctx)
	if err != nil {
		return nil, err
	}
	c.data = data
	return data, nil
}

// RendererOptions configures a Renderer
type RendererOptions struct {
	// Fonts provides an embeddable TrueType font. Nil uses the core Helvetica font.
	Fonts FontLoader
	// DisableCompression writes uncompressed content streams.
	DisableCompression bool
}

// Renderer draws plans onto a single PDF page.
type Renderer struct {
	fonts    FontLoader
	compress bool
	log      *slog.Logger
}

// NewRenderer creates a PDF renderer
func NewRenderer(opts RendererOptions, log *slog.Logger) *Renderer {
	return &Renderer{
		fonts:    opts.Fonts,
		compress: !opts.DisableCompression,
		log:      log,
	}
}

// Render replays plan in order and returns the finished PDF. It returns either
// a complete document or an error wrapping ErrReceiptGeneration, never both.
func (r *Renderer) Render(ctx context.Context, plan Plan) (doc []byte, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			doc = nil
			err = fmt.Errorf("%w: pdf writer panic: %v", ErrReceiptGeneration, rec)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReceiptGeneration, err)
	}

	var fontBytes []byte
	if r.fonts != nil {
		fontBytes, err = r.fonts.LoadFont(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to load font: %w", ErrReceiptGeneration, err)
		}
	}

	start := time.Now()
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: plan.Width, Ht: plan.Height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(r.compress)
	pdf.SetCatalogSort(true)
	pdf.SetProducer(producer, false)
	pdf.SetTitle(plan.Title, true)
	if !plan.CreatedAt.IsZero() {
		pdf.SetCreationDate(plan.CreatedAt)
		pdf.SetModificationDate(plan.CreatedAt)
	}

	family := coreFamily
	translate := func(s string) string { return s }
	if fontBytes != nil {
		family = embeddedFamily
		pdf.AddUTF8FontFromBytes(family, "", fontBytes)
	} else {
		if err := checkCoreEncodable(plan); err != nil {
			return nil, err
		}
		translate = pdf.UnicodeTranslatorFromDescriptor("")
	}
	if pdf.Err() {
		return nil, fmt.Errorf("%w: failed to register font: %w", ErrReceiptGeneration, pdf.Error())
	}

	pdf.AddPage()
	pdf.SetTextColor(0, 0, 0)
	for _, ins := range plan.Instructions() {
		pdf.SetFont(family, "", ins.Size)
		// fpdf measures y from the top edge
		pdf.Text(ins.X, plan.Height-ins.Y, translate(ins.Text))
	}
	if pdf.Err() {
		return nil, fmt.Errorf("%w: failed to draw text: %w", ErrReceiptGeneration, pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: failed to finalize document: %w", ErrReceiptGeneration, err)
	}

	r.log.Debug("receipt rendered",
		"rows", len(plan.Rows),
		"height", plan.Height,
		"bytes", buf.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// checkCoreEncodable fails when any text in plan has a rune outside cp1252,
// the only encoding the core fonts can draw.
func checkCoreEncodable(plan Plan) error {
	for _, ins := range plan.Instructions() {
		for _, r := range ins.Text {
			if _, ok := charmap.Windows1252.EncodeRune(r); !ok {
				return fmt.Errorf("%w: %q cannot be drawn without an embedded font (set a receipt font)", ErrReceiptGeneration, ins.Text)
			}
		}
	}
	return nil
}
