package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"bizbooks/config"
	"bizbooks/models"
)

func newTestEmailService() *EmailService {
	return NewEmailService(&config.EmailConfig{})
}

func testInvoice() models.Invoice {
	inv := models.Invoice{
		InvoiceNumber: "INV-0042",
		ClientName:    "Acme <Ltd>",
		TaxRate:       decimal.NewFromInt(10),
		Status:        models.InvoiceStatusUnpaid,
		Items: []models.InvoiceItem{
			{Description: "Bookkeeping", Price: decimal.NewFromInt(500), Quantity: decimal.NewFromInt(2)},
		},
	}
	inv.ComputeTotals()
	return inv
}

func TestGenerateReminderBody(t *testing.T) {
	s := newTestEmailService()
	body := s.generateReminderBody("Lanka Books", "LKR", testInvoice())

	assert.Contains(t, body, "INV-0042")
	assert.Contains(t, body, "Acme &lt;Ltd&gt;")
	assert.Contains(t, body, "Bookkeeping")
	assert.Contains(t, body, "LKR 1100.00")
	assert.Contains(t, body, "due on receipt")
	assert.NotContains(t, body, "overdue")
}

func TestGenerateReminderBody_Overdue(t *testing.T) {
	s := newTestEmailService()
	inv := testInvoice()
	due := time.Now().AddDate(0, 0, -3)
	inv.DueDate = &due

	body := s.generateReminderBody("Lanka Books", "LKR", inv)
	assert.Contains(t, body, due.Format("2006-01-02"))
	assert.Contains(t, body, "overdue")
}

func TestSendInvoiceReminder_Disabled(t *testing.T) {
	s := newTestEmailService()
	err := s.SendInvoiceReminder("client@example.com", "Lanka Books", "LKR", testInvoice())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "未启用")
}

func TestSendInvoiceReminder_AlreadyPaid(t *testing.T) {
	s := NewEmailService(&config.EmailConfig{Enabled: true})
	inv := testInvoice()
	inv.Status = models.InvoiceStatusPaid

	err := s.SendInvoiceReminder("client@example.com", "Lanka Books", "LKR", inv)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "已付款")
}
