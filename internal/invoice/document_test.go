package invoice

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"trendz_shop/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var issuedAt = time.Date(2025, time.March, 4, 9, 30, 0, 0, time.UTC)

func detailWithItems(n int) *models.OrderDetail {
	detail := &models.OrderDetail{OrderID: 12, UserName: "Asha", UserEmail: "asha@example.com"}
	for i := 0; i < n; i++ {
		detail.Items = append(detail.Items, models.OrderDetailItem{
			ProductID: uint(i + 1),
			Name:      fmt.Sprintf("Item %d", i+1),
			Price:     decimal.RequireFromString("1.00"),
			Quantity:  1,
		})
	}
	return detail
}

func TestNewDocument_Totals(t *testing.T) {
	detail := &models.OrderDetail{
		OrderID:   7,
		UserName:  "Asha",
		UserEmail: "asha@example.com",
		Items: []models.OrderDetailItem{
			{ProductID: 1, Name: "Shirt", Price: decimal.RequireFromString("19.99"), Quantity: 2},
			{ProductID: 2, Name: "Hat", Price: decimal.RequireFromString("9.50"), Quantity: 1},
		},
	}

	doc := NewDocument(DefaultSettings(), detail, issuedAt)

	assert.Equal(t, "49.48", doc.Totals.Subtotal.StringFixed(2))
	assert.Equal(t, "4.95", doc.Totals.Tax.StringFixed(2))
	assert.Equal(t, "54.43", doc.Totals.GrandTotal.StringFixed(2))
	assert.Equal(t, "#7", doc.Number)
	assert.Equal(t, "04 Mar 2025 09:30", doc.IssueDate())
	assert.Equal(t, "Tax (10%)", doc.TaxLabel())

	require.Len(t, doc.Pages, 1)
	rows := doc.Pages[0].Rows
	require.Len(t, rows, 2)
	assert.Equal(t, "Shirt", rows[0].Product)
	assert.Equal(t, "39.98", rows[0].LineTotal.StringFixed(2))
	assert.Equal(t, "Hat", rows[1].Product)
}

func TestNewDocument_IsRepeatable(t *testing.T) {
	detail := detailWithItems(3)
	first := NewDocument(DefaultSettings(), detail, issuedAt)
	second := NewDocument(DefaultSettings(), detail, issuedAt)

	assert.True(t, first.Totals.Subtotal.Equal(second.Totals.Subtotal))
	assert.True(t, first.Totals.Tax.Equal(second.Totals.Tax))
	assert.True(t, first.Totals.GrandTotal.Equal(second.Totals.GrandTotal))
}

func TestNewDocument_GuestFallback(t *testing.T) {
	doc := NewDocument(DefaultSettings(), &models.OrderDetail{OrderID: 3}, issuedAt)

	assert.Equal(t, models.GuestName, doc.CustomerName)
	assert.Equal(t, models.GuestEmail, doc.CustomerEmail)
	require.Len(t, doc.Pages, 1)
	assert.True(t, doc.Pages[0].Last)
	assert.True(t, doc.Pages[0].ShowsTable())
	assert.True(t, doc.Totals.GrandTotal.IsZero())
}

func TestNewDocument_TruncatesLongNames(t *testing.T) {
	detail := detailWithItems(1)
	detail.Items[0].Name = strings.Repeat("a", 60)

	doc := NewDocument(DefaultSettings(), detail, issuedAt)

	name := doc.Pages[0].Rows[0].Product
	assert.Len(t, []rune(name), MaxProductName)
	assert.True(t, strings.HasSuffix(name, "..."))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 40))
	assert.Equal(t, strings.Repeat("x", 40), Truncate(strings.Repeat("x", 40), 40))
	assert.Equal(t, "héllo w...", Truncate("héllo wörld, again", 10))
	assert.Equal(t, "...", Truncate("abcdef", 2))
}

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":          "Rs. 0.00",
		"9.5":        "Rs. 9.50",
		"999.999":    "Rs. 1,000.00",
		"1234567.89": "Rs. 1,234,567.89",
		"-1234.5":    "-Rs. 1,234.50",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatMoney("Rs. ", decimal.RequireFromString(in)), in)
	}
}

func TestPaginate(t *testing.T) {
	settings := DefaultSettings()

	t.Run("totals fit on the first page", func(t *testing.T) {
		doc := NewDocument(settings, detailWithItems(14), issuedAt)
		require.Len(t, doc.Pages, 1)
		assert.Len(t, doc.Pages[0].Rows, 14)
		assert.True(t, doc.Pages[0].Last)
	})

	t.Run("totals move to a fresh page", func(t *testing.T) {
		doc := NewDocument(settings, detailWithItems(15), issuedAt)
		require.Len(t, doc.Pages, 2)
		assert.Len(t, doc.Pages[0].Rows, 15)
		assert.False(t, doc.Pages[0].Last)
		assert.Empty(t, doc.Pages[1].Rows)
		assert.False(t, doc.Pages[1].ShowsTable())
		assert.True(t, doc.Pages[1].Last)
	})

	t.Run("rows spill onto later pages", func(t *testing.T) {
		doc := NewDocument(settings, detailWithItems(60), issuedAt)
		require.Len(t, doc.Pages, 3)
		assert.Len(t, doc.Pages[0].Rows, 21)
		assert.Len(t, doc.Pages[1].Rows, 28)
		assert.Len(t, doc.Pages[2].Rows, 11)
		for i, page := range doc.Pages {
			assert.Equal(t, i+1, page.Number)
			assert.True(t, page.ShowsTable())
		}
		assert.True(t, doc.Pages[2].Last)
		assert.Equal(t, "Item 22", doc.Pages[1].Rows[0].Product)
		assert.Equal(t, "60.00", doc.Totals.Subtotal.StringFixed(2))
	})
}
