// Package invoice builds the printable model of an order invoice and renders
// it to PDF.
package invoice

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"trendz_shop/internal/models"

	"github.com/shopspring/decimal"
)

const (
	DocumentLabel  = "INVOICE"
	ThankYouLine   = "Thank you for shopping with us!"
	DateLayout     = "02 Jan 2006 15:04"
	MaxProductName = 40
	truncateMarker = "..."
)

// Columns of the line-item table, left to right.
var Columns = []string{"Product", "Unit Price", "Qty", "Line Total"}

type Settings struct {
	ShopName       string
	SupportEmail   string
	CurrencySymbol string
	TaxRate        decimal.Decimal

	// Row capacity of the first page (below the header and bill-to block)
	// and of every following page.
	FirstPageRows int
	PageRows      int
	// Space the totals block and footer need, in rows.
	TotalsRows int
}

func DefaultSettings() Settings {
	return Settings{
		ShopName:       "Trendz Shop",
		SupportEmail:   "support@trendzshop.example",
		CurrencySymbol: "Rs. ",
		TaxRate:        decimal.New(10, -2),
		FirstPageRows:  21,
		PageRows:       28,
		TotalsRows:     7,
	}
}

type Row struct {
	Product   string
	UnitPrice decimal.Decimal
	Quantity  int
	LineTotal decimal.Decimal
}

type Totals struct {
	Subtotal   decimal.Decimal
	Tax        decimal.Decimal
	GrandTotal decimal.Decimal
}

type Page struct {
	Number int
	Rows   []Row
	// Last marks the page carrying the totals block and the footer.
	Last bool
}

// ShowsTable reports whether the table header is drawn on the page.
func (p Page) ShowsTable() bool {
	return p.Number == 1 || len(p.Rows) > 0
}

// Document is everything printed on an invoice, already laid out into pages.
type Document struct {
	OrderID       uint
	Title         string
	Number        string
	IssuedAt      time.Time
	CustomerName  string
	CustomerEmail string
	TaxRate       decimal.Decimal
	Totals        Totals
	Pages         []Page
	SupportLine   string

	currency string
}

// NewDocument lays out the invoice for detail. Totals are computed from the
// printed rows, not from the stored order total.
func NewDocument(settings Settings, detail *models.OrderDetail, issuedAt time.Time) *Document {
	rows := make([]Row, 0, len(detail.Items))
	subtotal := decimal.Zero
	for _, item := range detail.Items {
		lineTotal := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2)
		rows = append(rows, Row{
			Product:   Truncate(item.Name, MaxProductName),
			UnitPrice: item.Price,
			Quantity:  item.Quantity,
			LineTotal: lineTotal,
		})
		subtotal = subtotal.Add(lineTotal)
	}

	tax := subtotal.Mul(settings.TaxRate).Round(2)

	customerName, customerEmail := detail.UserName, detail.UserEmail
	if customerName == "" {
		customerName = models.GuestName
	}
	if customerEmail == "" {
		customerEmail = models.GuestEmail
	}

	return &Document{
		OrderID:       detail.OrderID,
		Title:         settings.ShopName,
		Number:        fmt.Sprintf("#%d", detail.OrderID),
		IssuedAt:      issuedAt,
		CustomerName:  customerName,
		CustomerEmail: customerEmail,
		TaxRate:       settings.TaxRate,
		Totals: Totals{
			Subtotal:   subtotal,
			Tax:        tax,
			GrandTotal: subtotal.Add(tax),
		},
		Pages:       paginate(rows, settings),
		SupportLine: fmt.Sprintf("Questions? Contact %s", settings.SupportEmail),
		currency:    settings.CurrencySymbol,
	}
}

func (d *Document) IssueDate() string {
	return d.IssuedAt.Format(DateLayout)
}

func (d *Document) Money(amount decimal.Decimal) string {
	return FormatMoney(d.currency, amount)
}

// TaxLabel renders the tax line caption, e.g. "Tax (10%)".
func (d *Document) TaxLabel() string {
	return fmt.Sprintf("Tax (%s%%)", d.TaxRate.Mul(decimal.NewFromInt(100)).String())
}

func paginate(rows []Row, settings Settings) []Page {
	firstRows := max(settings.FirstPageRows, 1)
	pageRows := max(settings.PageRows, 1)

	var pages []Page
	capacity := firstRows
	for {
		n := min(capacity, len(rows))
		pages = append(pages, Page{Number: len(pages) + 1, Rows: rows[:n]})
		rows = rows[n:]
		if len(rows) == 0 {
			break
		}
		capacity = pageRows
	}

	last := &pages[len(pages)-1]
	lastCapacity := pageRows
	if last.Number == 1 {
		lastCapacity = firstRows
	}
	if len(last.Rows)+settings.TotalsRows > lastCapacity {
		pages = append(pages, Page{Number: len(pages) + 1})
	}
	pages[len(pages)-1].Last = true
	return pages
}

// Truncate shortens s to at most limit runes, ending with "..." when cut.
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	keep := limit - utf8.RuneCountInString(truncateMarker)
	if keep < 0 {
		keep = 0
	}
	return string([]rune(s)[:keep]) + truncateMarker
}

// FormatMoney prints amount with two decimals and thousands separators,
// prefixed by symbol.
func FormatMoney(symbol string, amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	whole, frac, _ := strings.Cut(fixed, ".")
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + symbol + b.String() + "." + frac
}
