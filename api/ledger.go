package api

import (
	"strings"
	"time"

	"bizbooks/database"
	"bizbooks/ledger"
	"bizbooks/middleware"
	"bizbooks/store"

	"github.com/gin-gonic/gin"
)

// LedgerHandler 汇总、资产负债表与区间报表
type LedgerHandler struct {
	clock ledger.Clock
}

// NewLedgerHandler 创建汇总处理器；clock 为 nil 时使用系统时钟
func NewLedgerHandler(clock ledger.Clock) *LedgerHandler {
	return &LedgerHandler{clock: clock}
}

func (h *LedgerHandler) engine() *ledger.Engine {
	return ledger.NewEngine(h.clock, ledgerLocation())
}

// loadBook 读取当前用户的账套，失败时已写响应
func (h *LedgerHandler) loadBook(c *gin.Context) (*ledger.Book, bool) {
	book, err := store.New(database.DB).LoadBook(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		respondLedgerError(c, err)
		return nil, false
	}
	return book, true
}

// Summary 仪表盘汇总
// @Summary 仪表盘汇总
// @Description 现金/银行余额、本月与本年收支利润、待收款、预估税额和支出分类。has_data=false 表示尚无任何记录
// @Tags 报表
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=ledger.Summary} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Failure 503 {object} Response "数据暂不可用"
// @Router /api/v1/summary [get]
func (h *LedgerHandler) Summary(c *gin.Context) {
	book, ok := h.loadBook(c)
	if !ok {
		return
	}
	Success(c, h.engine().Summarize(book))
}

// BalanceSheet 资产负债表
// @Summary 资产负债表
// @Description 截止日当天的记录包含在内，不传 as_of 则截止今天
// @Tags 报表
// @Produce json
// @Security BearerAuth
// @Param as_of query string false "截止日期 (2024-12-31)"
// @Success 200 {object} Response{data=ledger.BalanceSheet} "获取成功"
// @Failure 400 {object} Response "日期格式错误"
// @Failure 503 {object} Response "数据暂不可用"
// @Router /api/v1/balance-sheet [get]
func (h *LedgerHandler) BalanceSheet(c *gin.Context) {
	bs, ok := h.balanceSheet(c)
	if !ok {
		return
	}
	Success(c, bs)
}

// Statement 区间报表
// @Summary 区间报表
// @Description 期初余额按开始日之前的记录计算，期末余额含结束日当天
// @Tags 报表
// @Produce json
// @Security BearerAuth
// @Param start_time query string true "开始日期 (2024-01-01)"
// @Param end_time query string true "结束日期 (2024-12-31)"
// @Success 200 {object} Response{data=ledger.Statement} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 503 {object} Response "数据暂不可用"
// @Router /api/v1/statement [get]
func (h *LedgerHandler) Statement(c *gin.Context) {
	start, end, ok := requireDateRange(c)
	if !ok {
		return
	}
	book, ok := h.loadBook(c)
	if !ok {
		return
	}
	Success(c, h.engine().Statement(book, start, end))
}

// balanceSheet 按 as_of 计算资产负债表，缺省截止今天；失败时已写响应
func (h *LedgerHandler) balanceSheet(c *gin.Context) (ledger.BalanceSheet, bool) {
	var asOf time.Time
	raw := strings.TrimSpace(c.Query("as_of"))
	if raw != "" {
		t, err := time.ParseInLocation(dateLayout, raw, ledgerLocation())
		if err != nil {
			BadRequest(c, "截止日期格式错误，应为: "+dateLayout)
			return ledger.BalanceSheet{}, false
		}
		asOf = t
	}
	book, ok := h.loadBook(c)
	if !ok {
		return ledger.BalanceSheet{}, false
	}
	engine := h.engine()
	if raw == "" {
		return engine.BalanceSheetToday(book), true
	}
	return engine.BalanceSheet(book, asOf), true
}

// requireDateRange 解析必填的 start_time / end_time
func requireDateRange(c *gin.Context) (time.Time, time.Time, bool) {
	startStr, endStr := c.Query("start_time"), c.Query("end_time")
	if startStr == "" || endStr == "" {
		BadRequest(c, "请提供开始时间和结束时间")
		return time.Time{}, time.Time{}, false
	}
	loc := ledgerLocation()
	start, err := time.ParseInLocation(dateLayout, startStr, loc)
	if err != nil {
		BadRequest(c, "开始时间格式错误，应为: "+dateLayout)
		return time.Time{}, time.Time{}, false
	}
	end, err := time.ParseInLocation(dateLayout, endStr, loc)
	if err != nil {
		BadRequest(c, "结束时间格式错误，应为: "+dateLayout)
		return time.Time{}, time.Time{}, false
	}
	if end.Before(start) {
		BadRequest(c, "结束时间不能早于开始时间")
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}
