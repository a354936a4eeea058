package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"sort"
	"time"

	"bizbooks/ledger"
	"bizbooks/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ExportHandler 导出处理器
type ExportHandler struct {
	ledger *LedgerHandler
}

// NewExportHandler 创建导出处理器
func NewExportHandler(clock ledger.Clock) *ExportHandler {
	return &ExportHandler{ledger: NewLedgerHandler(clock)}
}

// ledgerRow 导出用的收支流水
type ledgerRow struct {
	date     time.Time
	kind     string
	id       uint
	category string
	party    string
	method   string
	amount   decimal.Decimal
	notes    string
}

func ledgerRows(incomes []models.Income, expenses []models.Expense) []ledgerRow {
	rows := make([]ledgerRow, 0, len(incomes)+len(expenses))
	for _, in := range incomes {
		rows = append(rows, ledgerRow{in.Date, "收入", in.ID, in.ServiceType, in.ClientName, in.PaymentMethod, in.Amount, in.Notes})
	}
	for _, e := range expenses {
		rows = append(rows, ledgerRow{e.Date, "支出", e.ID, e.Category, "", e.PaymentMethod, e.Amount.Neg(), e.Notes})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].date.Before(rows[j].date)
	})
	return rows
}

// ExportCSV 导出收支流水为 CSV
// @Summary 导出收支流水
// @Description 根据时间范围导出收入与支出流水为 CSV 文件，支出金额为负数
// @Tags 导出
// @Produce text/csv
// @Security BearerAuth
// @Param start_time query string true "开始时间 (2024-01-01)"
// @Param end_time query string true "结束时间 (2024-12-31)"
// @Success 200 {file} file "CSV 文件"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Failure 503 {object} Response "数据暂不可用"
// @Router /api/v1/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	start, end, ok := requireDateRange(c)
	if !ok {
		return
	}
	book, ok := h.ledger.loadBook(c)
	if !ok {
		return
	}

	window := ledger.Range(start, end)
	incomes := ledger.Filter(book.Incomes, window)
	expenses := ledger.Filter(book.Expenses, window)

	buf := new(bytes.Buffer)
	// 添加 BOM 以支持 Excel 中文显示
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(buf)

	headers := []string{"日期", "类型", "ID", "类别/服务", "客户", "付款方式", "金额", "备注"}
	if err := writer.Write(headers); err != nil {
		InternalError(c, "生成 CSV 失败")
		return
	}

	for _, r := range ledgerRows(incomes, expenses) {
		row := []string{
			r.date.Format(dateLayout),
			r.kind,
			fmt.Sprintf("%d", r.id),
			r.category,
			r.party,
			r.method,
			r.amount.StringFixed(2),
			r.notes,
		}
		if err := writer.Write(row); err != nil {
			InternalError(c, "生成 CSV 失败")
			return
		}
	}

	net := ledger.Profit(ledger.SumIncome(incomes), ledger.SumExpenses(expenses))
	if err := writer.Write([]string{"合计", "", "", "", "", "", net.StringFixed(2), book.Settings.Currency}); err != nil {
		InternalError(c, "生成 CSV 失败")
		return
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		InternalError(c, "生成 CSV 失败")
		return
	}

	filename := fmt.Sprintf("ledger_%s_%s.csv", start.Format(dateLayout), end.Format(dateLayout))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportExcel 导出资产负债表为 Excel
// @Summary 导出资产负债表
// @Description 不传 as_of 则截止今天
// @Tags 导出
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param as_of query string false "截止日期 (2024-12-31)"
// @Success 200 {file} file "Excel 文件"
// @Failure 400 {object} Response "日期格式错误"
// @Failure 503 {object} Response "数据暂不可用"
// @Router /api/v1/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	bs, ok := h.ledger.balanceSheet(c)
	if !ok {
		return
	}

	f, err := balanceSheetWorkbook(bs)
	if err != nil {
		InternalError(c, "生成 Excel 失败")
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("balance_sheet_%s.xlsx", bs.AsOf.Format(dateLayout))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "生成 Excel 失败")
		return
	}
}

// balanceSheetWorkbook 生成资产负债表工作簿
func balanceSheetWorkbook(bs ledger.BalanceSheet) (*excelize.File, error) {
	f := excelize.NewFile()
	sheetName := "资产负债表"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		f.Close()
		return nil, err
	}

	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	dataStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "center"},
		Border:    border,
	})
	totalStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Alignment: &excelize.Alignment{Vertical: "center"},
		Border:    border,
	})

	f.SetColWidth(sheetName, "A", "A", 28)
	f.SetColWidth(sheetName, "B", "B", 18)

	money := func(d decimal.Decimal) float64 {
		v, _ := d.Round(2).Float64()
		return v
	}

	type line struct {
		label string
		value interface{}
		style int
	}
	lines := []line{
		{"截止日期", bs.AsOf.Format(dateLayout), dataStyle},
		{"币种", bs.Currency, dataStyle},
		{"资产", "", headerStyle},
		{"现金及银行存款", money(bs.Assets.CashAndBank), dataStyle},
		{"应收账款", money(bs.Assets.Receivables), dataStyle},
		{"设备及其他资产", money(bs.Assets.Equipment), dataStyle},
		{"资产合计", money(bs.Assets.Total), totalStyle},
		{"负债", "", headerStyle},
		{"应付账款", money(bs.Liabilities.Payables), dataStyle},
		{"贷款", money(bs.Liabilities.Loans), dataStyle},
		{"应交税费", money(bs.Liabilities.Taxes), dataStyle},
		{"负债合计", money(bs.Liabilities.Total), totalStyle},
		{"所有者权益", "", headerStyle},
		{"投入资本", money(bs.OwnerCapital), dataStyle},
		{"留存利润", money(bs.RetainedProfit), dataStyle},
		{"所有者权益合计", money(bs.OwnersEquity), totalStyle},
		{"是否平衡", balancedLabel(bs.IsBalanced), dataStyle},
	}

	for i, l := range lines {
		row := i + 1
		a, b := fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row)
		f.SetCellValue(sheetName, a, l.label)
		f.SetCellValue(sheetName, b, l.value)
		f.SetCellStyle(sheetName, a, b, l.style)
	}
	return f, nil
}

func balancedLabel(ok bool) string {
	if ok {
		return "是"
	}
	return "否"
}
