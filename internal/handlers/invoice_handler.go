package handlers

import (
	"trendz_shop/internal/invoice"
	"trendz_shop/internal/services"

	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct {
	invoiceService services.InvoiceService
}

func NewInvoiceHandler(invoiceService services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// Generate handles POST /api/invoices/:order_id and returns the PDF.
func (h *InvoiceHandler) Generate(c *gin.Context) {
	orderID, ok := parseID(c, "order_id")
	if !ok {
		return
	}

	result, err := h.invoiceService.Generate(c.Request.Context(), orderID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.FileAttachment(result.Path, invoice.FileName(orderID))
}
