package api

import (
	"errors"
	"testing"
	"time"

	"bizbooks/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var invoiceColumns = []string{"id", "user_id", "invoice_number", "client_name", "client_email", "subtotal", "tax_rate", "tax_amount", "total", "status", "due_date", "created_at"}

func invoiceRouter(cfg *config.Config) *gin.Engine {
	h := NewInvoiceHandler(cfg)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/invoices", h.Create)
	router.PUT("/invoices/:id", h.Update)
	router.POST("/invoices/:id/pay", h.Pay)
	router.POST("/invoices/:id/remind", h.Remind)
	return router
}

func TestInvoiceHandler_Create_ComputesTotals(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	// 发票号重复检查
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `invoices`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `invoices`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO `invoice_items`").
		WillReturnResult(sqlmock.NewResult(1, 2))
	mock.ExpectCommit()

	body := `{
		"invoice_number": "INV-100",
		"client_name": "Acme",
		"tax_rate": "10",
		"items": [
			{"description": "Design", "price": "100", "quantity": "2"},
			{"description": "Hosting", "price": "50"}
		]
	}`
	w := doRequest(invoiceRouter(&config.Config{}), "POST", "/invoices", body)

	assert.Equal(t, 200, w.Code)
	data := responseData(t, w)
	assert.Equal(t, "INV-100", data["invoice_number"])
	assert.Equal(t, "250", data["subtotal"])
	assert.Equal(t, "25", data["tax_amount"])
	assert.Equal(t, "275", data["total"])
	assert.Equal(t, "unpaid", data["status"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceHandler_Create_UsesSettingsTaxRate(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `settings`").
		WillReturnRows(sqlmock.NewRows(settingsColumns).
			AddRow(1, 1, "LKR", "15.00", true, "0", "0", "0", "", now, now))
	// 自动生成发票号
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `invoices`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(6))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `invoices`").
		WithArgs(1, "INV-0007").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `invoices`").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec("INSERT INTO `invoice_items`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	w := doRequest(invoiceRouter(&config.Config{}), "POST", "/invoices", `{"items":[{"description":"Cut","price":"200","quantity":"1"}]}`)

	assert.Equal(t, 200, w.Code)
	data := responseData(t, w)
	assert.Equal(t, "INV-0007", data["invoice_number"])
	assert.Equal(t, "30", data["tax_amount"])
	assert.Equal(t, "230", data["total"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceHandler_Create_DeletedNumberCountsAsTaken(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	// 已软删除的发票仍占用唯一索引，查询不能带 deleted_at 条件
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `invoices` WHERE user_id = \\? AND invoice_number = \\?$").
		WithArgs(1, "INV-0002").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	body := `{"invoice_number":"INV-0002","tax_rate":"0","items":[{"description":"Cut","price":"20"}]}`
	w := doRequest(invoiceRouter(&config.Config{}), "POST", "/invoices", body)

	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "发票号已存在", decodeResponse(t, w)["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceHandler_Create_SkipsManuallyUsedNumber(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `invoices` WHERE user_id = \\?$").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `invoices`").
		WithArgs(1, "INV-0003").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `invoices`").
		WithArgs(1, "INV-0004").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `invoices`").
		WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectExec("INSERT INTO `invoice_items`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	w := doRequest(invoiceRouter(&config.Config{}), "POST", "/invoices", `{"tax_rate":"0","items":[{"description":"Cut","price":"20"}]}`)

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "INV-0004", responseData(t, w)["invoice_number"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceHandler_Create_RequiresItems(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	w := doRequest(invoiceRouter(&config.Config{}), "POST", "/invoices", `{"invoice_number":"X","items":[]}`)
	assert.Equal(t, 400, w.Code)
}

func TestInvoiceHandler_Pay(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `invoices`").
		WillReturnRows(sqlmock.NewRows(invoiceColumns).
			AddRow(3, 1, "INV-0003", "Acme", "", "100", "0", "0", "100", "unpaid", nil, now))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `invoices` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := doRequest(invoiceRouter(&config.Config{}), "POST", "/invoices/3/pay", `{"payment_method":"cash"}`)

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "paid", responseData(t, w)["status"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceHandler_Pay_AlreadyPaidCaseInsensitive(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `invoices`").
		WillReturnRows(sqlmock.NewRows(invoiceColumns).
			AddRow(3, 1, "INV-0003", "Acme", "", "100", "0", "0", "100", "PAID", nil, time.Now()))

	w := doRequest(invoiceRouter(&config.Config{}), "POST", "/invoices/3/pay", "")

	assert.Equal(t, 400, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceHandler_Update_ManualTotalKept(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `invoices`").
		WillReturnRows(sqlmock.NewRows(invoiceColumns).
			AddRow(3, 1, "INV-0003", "Acme", "", "100", "0", "0", "100", "unpaid", nil, now))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `invoices` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT .* FROM `invoices`").
		WillReturnRows(sqlmock.NewRows(invoiceColumns).
			AddRow(3, 1, "INV-0003", "Acme", "", "100", "0", "0", "90", "unpaid", nil, now))

	w := doRequest(invoiceRouter(&config.Config{}), "PUT", "/invoices/3", `{"total":"90"}`)

	assert.Equal(t, 200, w.Code)
	data := responseData(t, w)
	assert.Equal(t, "90", data["total"])
	assert.Equal(t, "100", data["subtotal"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceHandler_Update_ReloadFailure(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `invoices`").
		WillReturnRows(sqlmock.NewRows(invoiceColumns).
			AddRow(3, 1, "INV-0003", "Acme", "", "100", "0", "0", "100", "unpaid", nil, now))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `invoices` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT .* FROM `invoices`").
		WillReturnError(errors.New("connection reset"))

	w := doRequest(invoiceRouter(&config.Config{}), "PUT", "/invoices/3", `{"notes":"net 30"}`)

	assert.Equal(t, 500, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceHandler_Remind_EmailDisabled(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `invoices`").
		WillReturnRows(sqlmock.NewRows(invoiceColumns).
			AddRow(3, 1, "INV-0003", "Acme", "billing@acme.example", "100", "0", "0", "100", "unpaid", nil, time.Now()))
	mock.ExpectQuery("SELECT .* FROM `invoice_items`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "invoice_id", "description", "price", "quantity"}).
			AddRow(1, 3, "Design", "100", "1"))

	cfg := &config.Config{Email: config.EmailConfig{Enabled: false}}
	w := doRequest(invoiceRouter(cfg), "POST", "/invoices/3/remind", "")

	assert.Equal(t, 503, w.Code)
	assert.Equal(t, "邮件服务未启用", decodeResponse(t, w)["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceHandler_Remind_MissingClientEmail(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `invoices`").
		WillReturnRows(sqlmock.NewRows(invoiceColumns).
			AddRow(3, 1, "INV-0003", "Acme", "", "100", "0", "0", "100", "unpaid", nil, time.Now()))
	mock.ExpectQuery("SELECT .* FROM `invoice_items`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "invoice_id"}))

	w := doRequest(invoiceRouter(&config.Config{Email: config.EmailConfig{Enabled: true}}), "POST", "/invoices/3/remind", "")

	assert.Equal(t, 400, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
