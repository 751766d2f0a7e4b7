// Package receipt turns order records into printable receipt documents.
//
// Layout and rendering are separate steps. LayoutEngine computes page geometry
// and every text placement without touching I/O; Renderer replays the resulting
// Plan onto a PDF page.
package receipt

import (
	"strconv"
	"time"

	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/internal/models"
)

// Page geometry in PDF points. The page grows with the item count so the
// receipt never needs a second page.
const (
	PageWidth     = 270.0
	LineHeight    = 20.0
	PaddingTop    = 40.0
	PaddingBottom = 30.0

	// FixedLineCount is the number of rows that do not depend on the item count:
	// title, order id, two rules, date/time, column headers, totals rule,
	// total amount and the closing message.
	FixedLineCount = 9
)

const (
	titleSize   = 20.0
	headerSize  = 12.0
	bodySize    = 10.0
	totalSize   = 14.0
	closingSize = 10.0

	leftX        = 20.0
	titleX       = 100.0
	timeX        = 190.0
	qtyHeaderX   = 150.0
	qtyX         = 155.0
	priceX       = 180.0
	lineTotalX   = 220.0
	grandTotalX  = 200.0
	closingX     = 85.0
	totalsGap    = 10.0
	closingGap   = 30.0
	rule         = "-----------------------------------------------------------------------------"
	closingText  = "Thank you for Visiting!"
	dateLayout   = "Mon, Jan 2, 2006"
	timeLayout   = "03:04:05 PM"
	ellipsis     = "…"
	currencySign = "$"
)

// DefaultMaxNameRunes is the item name budget that fits the name column at body size.
const DefaultMaxNameRunes = 24

// RowKind identifies what a plan row represents.
type RowKind int

const (
	RowTitle RowKind = iota
	RowOrderID
	RowRule
	RowDateTime
	RowColumnHeaders
	RowItem
	RowTotal
	RowClosing
)

var rowKindNames = map[RowKind]string{
	RowTitle:         "title",
	RowOrderID:       "order_id",
	RowRule:          "rule",
	RowDateTime:      "date_time",
	RowColumnHeaders: "column_headers",
	RowItem:          "item",
	RowTotal:         "total",
	RowClosing:       "closing",
}

func (k RowKind) String() string {
	if name, ok := rowKindNames[k]; ok {
		return name
	}
	return "row(" + strconv.Itoa(int(k)) + ")"
}

// Instruction places Text with its baseline at (X, Y), origin bottom-left, at font Size.
type Instruction struct {
	Text string
	X    float64
	Y    float64
	Size float64
}

// Row is one horizontal line of the receipt.
type Row struct {
	Kind  RowKind
	Y     float64
	Cells []Instruction
}

// Plan is the renderer-independent description of a receipt page.
type Plan struct {
	Width  float64
	Height float64
	Rows   []Row
	// CreatedAt is the order date; renderers stamp it as document metadata.
	CreatedAt time.Time
	Title     string
}

// Instructions flattens the rows into the ordered draw stream
func (p Plan) Instructions() []Instruction {
	n := 0
	for _, r := range p.Rows {
		n += len(r.Cells)
	}

	out := make([]Instruction, 0, n)
	for _, r := range p.Rows {
		out = append(out, r.Cells...)
	}
	return out
}

// PageHeight returns the page height needed for itemCount item rows
func PageHeight(itemCount int) float64 {
	return PaddingTop + float64(FixedLineCount+itemCount)*LineHeight + PaddingBottom
}

// LayoutOptions tunes formatting. The zero value uses UTC and DefaultMaxNameRunes.
type LayoutOptions struct {
	// Location is the zone in which the order date and time are printed.
	Location *time.Location
	// MaxNameRunes truncates longer item names with an ellipsis. Zero selects
	// DefaultMaxNameRunes; a negative value disables truncation.
	MaxNameRunes int
}

// LayoutEngine computes receipt plans. It holds no mutable state.
type LayoutEngine struct {
	loc          *time.Location
	maxNameRunes int
}

// NewLayoutEngine creates a layout engine
func NewLayoutEngine(opts LayoutOptions) *LayoutEngine {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	maxRunes := opts.MaxNameRunes
	if maxRunes == 0 {
		maxRunes = DefaultMaxNameRunes
	}
	return &LayoutEngine{loc: loc, maxNameRunes: maxRunes}
}

// Layout builds the plan for order. The same order always yields the same plan.
func (e *LayoutEngine) Layout(order models.OrderRecord) Plan {
	height := PageHeight(len(order.Items))
	b := &planBuilder{y: height - PaddingTop}

	b.row(RowTitle, LineHeight*1.5, text("RECEIPT", titleX, titleSize))
	b.row(RowOrderID, LineHeight, text("Order ID : "+order.ID.String(), leftX, headerSize))
	b.row(RowRule, LineHeight, text(rule, leftX, headerSize))

	date := order.OrderDate.In(e.loc)
	b.row(RowDateTime, LineHeight,
		text("Date: "+date.Format(dateLayout), leftX, headerSize),
		text(date.Format(timeLayout), timeX, headerSize),
	)
	b.row(RowRule, LineHeight, text(rule, leftX, headerSize))

	b.row(RowColumnHeaders, LineHeight,
		text("Name", leftX, bodySize),
		text("Qty", qtyHeaderX, bodySize),
		text("Price", priceX, bodySize),
		text("Total", lineTotalX, bodySize),
	)

	for _, item := range order.Items {
		b.row(RowItem, LineHeight,
			text(e.truncate(item.Name), leftX, bodySize),
			text(strconv.Itoa(item.Quantity), qtyX, bodySize),
			text(item.UnitPrice.StringFixed(2), priceX, bodySize),
			text(item.LineTotal().StringFixed(2), lineTotalX, bodySize),
		)
	}

	b.y -= totalsGap
	b.row(RowRule, LineHeight, text(rule, leftX, headerSize))
	b.row(RowTotal, closingGap,
		text("Total Amount", leftX, totalSize),
		text(currencySign+order.TotalAmount.StringFixed(2), grandTotalX, totalSize),
	)
	b.row(RowClosing, 0, text(closingText, closingX, closingSize))

	return Plan{
		Width:     PageWidth,
		Height:    height,
		Rows:      b.rows,
		CreatedAt: order.OrderDate.Time,
		Title:     "Receipt " + order.ID.String(),
	}
}

func (e *LayoutEngine) truncate(name string) string {
	if e.maxNameRunes < 0 {
		return name
	}
	runes := []rune(name)
	if len(runes) <= e.maxNameRunes {
		return name
	}
	if e.maxNameRunes <= 1 {
		return string(runes[:e.maxNameRunes])
	}
	return string(runes[:e.maxNameRunes-1]) + ellipsis
}

type planBuilder struct {
	y    float64
	rows []Row
}

// row emits cells at the current cursor, then moves the cursor down by advance
func (b *planBuilder) row(kind RowKind, advance float64, cells ...Instruction) {
	for i := range cells {
		cells[i].Y = b.y
	}
	b.rows = append(b.rows, Row{Kind: kind, Y: b.y, Cells: cells})
	b.y -= advance
}

func text(s string, x, size float64) Instruction {
	return Instruction{Text: s, X: x, Size: size}
}
