package api

import (
	"strings"
	"errors"
	"testing"
	"time"

	"bizbooks/ledger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, time.October, 15, 10, 0, 0, 0, time.UTC)

func ledgerRouter() *gin.Engine {
	h := NewLedgerHandler(ledger.FixedClock(testNow))
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/summary", h.Summary)
	router.GET("/balance-sheet", h.BalanceSheet)
	router.GET("/statement", h.Statement)
	return router
}

// expectBook 按表名设置账套查询结果，查询并发执行，不校验顺序
func expectBook(mock sqlmock.Sqlmock, rows map[string]*sqlmock.Rows) {
	mock.MatchExpectationsInOrder(false)
	for _, table := range []string{"settings", "incomes", "expenses", "invoices", "transfers", "assets", "loans"} {
		r, ok := rows[table]
		if !ok {
			r = sqlmock.NewRows([]string{"id"})
		}
		mock.ExpectQuery("SELECT .* FROM `" + table + "`").WillReturnRows(r)
	}
}

func sampleBookRows() map[string]*sqlmock.Rows {
	day := func(d int) time.Time { return time.Date(2026, time.October, d, 9, 0, 0, 0, time.UTC) }
	return map[string]*sqlmock.Rows{
		"settings": sqlmock.NewRows(settingsColumns).
			AddRow(1, 1, "LKR", nil, true, "1000.00", "500.00", "100.00", "", testNow, testNow),
		"incomes": sqlmock.NewRows([]string{"id", "user_id", "payment_method", "amount", "date"}).
			AddRow(1, 1, "cash", "500.00", day(5)).
			AddRow(2, 1, "Online Transfer", "300.00", day(6)),
		"expenses": sqlmock.NewRows([]string{"id", "user_id", "category", "payment_method", "amount", "date"}).
			AddRow(1, 1, "Rent", "bank", "200.00", day(7)),
		"invoices": sqlmock.NewRows([]string{"id", "user_id", "invoice_number", "total", "status", "created_at"}).
			AddRow(1, 1, "INV-0001", "300.00", "unpaid", day(8)).
			AddRow(2, 1, "INV-0002", "999.00", "Paid", day(8)),
		"transfers": sqlmock.NewRows([]string{"id", "user_id", "from_account", "to_account", "amount", "date"}).
			AddRow(1, 1, "cash", "bank", "100.00", day(9)),
	}
}

func TestLedgerHandler_Summary(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	expectBook(mock, sampleBookRows())

	w := doRequest(ledgerRouter(), "GET", "/summary", "")

	require.Equal(t, 200, w.Code, w.Body.String())
	data := responseData(t, w)
	assert.Equal(t, true, data["has_data"])
	assert.Equal(t, "LKR", data["currency"])
	assert.Equal(t, "1400", data["cash_in_hand"])
	assert.Equal(t, "200", data["bank_balance"])
	assert.Equal(t, "800", data["monthly_income"])
	assert.Equal(t, "200", data["monthly_expenses"])
	assert.Equal(t, "600", data["yearly_profit"])
	assert.Equal(t, "300", data["pending_payments"])
	// 税率未设置时按 10%
	assert.Equal(t, "60", data["estimated_tax_monthly"])
	assert.Equal(t, map[string]interface{}{"Rent": "200"}, data["expense_breakdown"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerHandler_Summary_NoData(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	expectBook(mock, map[string]*sqlmock.Rows{
		"settings": sqlmock.NewRows(settingsColumns).
			AddRow(1, 1, "LKR", "10.00", false, "0", "0", "0", "", testNow, testNow),
	})

	w := doRequest(ledgerRouter(), "GET", "/summary", "")

	require.Equal(t, 200, w.Code)
	data := responseData(t, w)
	assert.Equal(t, false, data["has_data"])
	assert.Equal(t, "0", data["cash_in_hand"])
	assert.Equal(t, map[string]interface{}{}, data["expense_breakdown"])
}

func TestLedgerHandler_Summary_DataUnavailable(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.MatchExpectationsInOrder(false)
	mock.ExpectQuery("SELECT .* FROM `settings`").
		WillReturnError(errors.New("dial tcp 127.0.0.1:3306: connect: connection refused"))
	for _, table := range []string{"incomes", "expenses", "invoices", "transfers", "assets", "loans"} {
		mock.ExpectQuery("SELECT .* FROM `" + table + "`").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
	}

	w := doRequest(ledgerRouter(), "GET", "/summary", "")

	assert.Equal(t, 503, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "数据暂不可用，请稍后重试", resp["message"])
	assert.Nil(t, resp["data"])
}

func TestLedgerHandler_BalanceSheet(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	rows := sampleBookRows()
	rows["assets"] = sqlmock.NewRows([]string{"id", "user_id", "name", "amount", "date"}).
		AddRow(1, 1, "Chair", "250.00", time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC))
	rows["loans"] = sqlmock.NewRows([]string{"id", "user_id", "name", "amount", "date"}).
		AddRow(1, 1, "Bank loan", "400.00", time.Date(2026, time.October, 10, 0, 0, 0, 0, time.UTC))
	expectBook(mock, rows)

	w := doRequest(ledgerRouter(), "GET", "/balance-sheet?as_of=2026-10-07", "")

	require.Equal(t, 200, w.Code, w.Body.String())
	data := responseData(t, w)
	assets := data["assets"].(map[string]interface{})
	liabilities := data["liabilities"].(map[string]interface{})

	// 截止 10-07：收入 800，支出 200，发票 10-08 开具不计入
	assert.Equal(t, "1600", assets["cash_and_bank"])
	assert.Equal(t, "0", assets["receivables"])
	assert.Equal(t, "250", assets["equipment"])
	assert.Equal(t, "1850", assets["total"])
	assert.Equal(t, "100", liabilities["payables"])
	assert.Equal(t, "0", liabilities["loans"])
	assert.Equal(t, "60", liabilities["taxes"])
	assert.Equal(t, "160", liabilities["total"])
	assert.Equal(t, "1690", data["owners_equity"])
	assert.Equal(t, "1190", data["retained_profit"])
	assert.Equal(t, true, data["is_balanced"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerHandler_BalanceSheet_DefaultsToToday(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	rows := sampleBookRows()
	rows["loans"] = sqlmock.NewRows([]string{"id", "user_id", "name", "amount", "date"}).
		AddRow(1, 1, "Bank loan", "400.00", time.Date(2026, time.October, 10, 0, 0, 0, 0, time.UTC))
	expectBook(mock, rows)

	w := doRequest(ledgerRouter(), "GET", "/balance-sheet", "")

	require.Equal(t, 200, w.Code, w.Body.String())
	data := responseData(t, w)
	assert.True(t, strings.HasPrefix(data["as_of"].(string), "2026-10-15"), data["as_of"])
	// 10-10 的借款在今天之前，计入负债
	assert.Equal(t, "400", data["liabilities"].(map[string]interface{})["loans"])
}

func TestLedgerHandler_BalanceSheet_InvalidDate(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	w := doRequest(ledgerRouter(), "GET", "/balance-sheet?as_of=yesterday", "")
	assert.Equal(t, 400, w.Code)
}

func TestLedgerHandler_Statement(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	expectBook(mock, sampleBookRows())

	w := doRequest(ledgerRouter(), "GET", "/statement?start_time=2026-10-06&end_time=2026-10-07", "")

	require.Equal(t, 200, w.Code, w.Body.String())
	data := responseData(t, w)
	opening := data["opening"].(map[string]interface{})
	closing := data["closing"].(map[string]interface{})
	assert.Equal(t, "1500", opening["cash_in_hand"])
	assert.Equal(t, "0", opening["bank_balance"])
	assert.Equal(t, "1500", closing["cash_in_hand"])
	assert.Equal(t, "100", closing["bank_balance"])
	assert.Equal(t, "300", data["income"])
	assert.Equal(t, "200", data["expenses"])
	assert.Equal(t, "100", data["profit"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerHandler_Statement_Validation(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	for _, q := range []string{
		"",
		"?start_time=2026-10-01",
		"?start_time=2026-10-10&end_time=2026-10-01",
		"?start_time=10/01/2026&end_time=2026-10-05",
	} {
		w := doRequest(ledgerRouter(), "GET", "/statement"+q, "")
		assert.Equal(t, 400, w.Code, q)
	}
}
