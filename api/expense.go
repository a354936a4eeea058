package api

import (
	"sort"
	"strings"

	"bizbooks/database"
	"bizbooks/ledger"
	"bizbooks/middleware"
	"bizbooks/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ExpenseHandler 支出记录处理器
type ExpenseHandler struct{}

// NewExpenseHandler 创建支出记录处理器
func NewExpenseHandler() *ExpenseHandler {
	return &ExpenseHandler{}
}

// CreateExpenseRequest 创建支出记录请求
type CreateExpenseRequest struct {
	Amount        decimal.Decimal `json:"amount" swaggertype:"string" example:"99.99"`
	Category      string          `json:"category" binding:"required,max=50" example:"Rent"`
	Date          string          `json:"date" binding:"required" example:"2024-01-15"`
	PaymentMethod string          `json:"payment_method" example:"bank"`
	Receipt       string          `json:"receipt" binding:"max=255"`
	Notes         string          `json:"notes" binding:"max=500"`
	RecurrenceRequest
}

// UpdateExpenseRequest 更新支出记录请求
type UpdateExpenseRequest struct {
	Amount        *decimal.Decimal   `json:"amount" swaggertype:"string"`
	Category      *string            `json:"category"`
	Date          *string            `json:"date"`
	PaymentMethod *string            `json:"payment_method"`
	Receipt       *string            `json:"receipt"`
	Notes         *string            `json:"notes"`
	Recurrence    *RecurrenceRequest `json:"recurrence"`
}

// Create 创建支出记录
// @Summary 创建支出记录
// @Description 类别可使用默认类别，也可自定义
// @Tags 支出
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateExpenseRequest true "支出信息"
// @Success 200 {object} Response{data=models.Expense} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	req.Category = strings.TrimSpace(req.Category)
	if req.Category == "" {
		BadRequest(c, "类别不能为空")
		return
	}
	if !requirePositive(c, req.Amount) {
		return
	}
	loc := ledgerLocation()
	date, err := parseDate(req.Date, loc)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	rec, err := req.toRecurrence(loc)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	expense := models.Expense{
		UserID:        userID,
		Category:      req.Category,
		Amount:        req.Amount,
		Date:          date,
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		Receipt:       req.Receipt,
		Notes:         req.Notes,
		Recurrence:    rec,
	}
	if err := database.DB.Create(&expense).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建失败"))
		return
	}

	SuccessWithMessage(c, "创建成功", expense)
}

// List 获取支出记录列表
// @Summary 获取支出记录列表
// @Tags 支出
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Param category query string false "类别筛选"
// @Param start_time query string false "开始时间 (2024-01-01)"
// @Param end_time query string false "结束时间 (2024-12-31)"
// @Success 200 {object} Response{data=PageResponse{list=[]models.Expense}} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	category := c.Query("category")
	listOwned(c, &models.Expense{}, "date", ledgerLocation(), func(q *gorm.DB) *gorm.DB {
		if category != "" {
			q = q.Where("category = ?", category)
		}
		return q
	})
}

// Get 获取支出记录详情
// @Summary 获取支出记录详情
// @Tags 支出
// @Produce json
// @Security BearerAuth
// @Param id path int true "支出记录ID"
// @Success 200 {object} Response{data=models.Expense} "获取成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/expenses/{id} [get]
func (h *ExpenseHandler) Get(c *gin.Context) {
	var expense models.Expense
	if !findOwned(c, &expense) {
		return
	}
	Success(c, expense)
}

// Update 更新支出记录
// @Summary 更新支出记录
// @Tags 支出
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "支出记录ID"
// @Param request body UpdateExpenseRequest true "支出信息"
// @Success 200 {object} Response{data=models.Expense} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/expenses/{id} [put]
func (h *ExpenseHandler) Update(c *gin.Context) {
	var expense models.Expense
	if !findOwned(c, &expense) {
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	loc := ledgerLocation()
	updates := make(map[string]interface{})
	if req.Amount != nil {
		if !requirePositive(c, *req.Amount) {
			return
		}
		updates["amount"] = *req.Amount
	}
	if req.Category != nil {
		category := strings.TrimSpace(*req.Category)
		if category == "" {
			BadRequest(c, "类别不能为空")
			return
		}
		updates["category"] = category
	}
	if req.Date != nil {
		t, err := parseDate(*req.Date, loc)
		if err != nil {
			BadRequest(c, err.Error())
			return
		}
		updates["date"] = t
	}
	if req.PaymentMethod != nil {
		updates["payment_method"] = strings.TrimSpace(*req.PaymentMethod)
	}
	if req.Receipt != nil {
		updates["receipt"] = *req.Receipt
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.Recurrence != nil {
		rec, err := req.Recurrence.toRecurrence(loc)
		if err != nil {
			BadRequest(c, err.Error())
			return
		}
		updates["is_recurring"] = rec.IsRecurring
		updates["recurring_frequency"] = rec.RecurringFrequency
		updates["recurring_end_date"] = rec.RecurringEndDate
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&expense).Updates(updates).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "更新失败"))
			return
		}
		if !reloadOwned(c, &expense, expense.ID) {
			return
		}
	}

	SuccessWithMessage(c, "更新成功", expense)
}

// Delete 删除支出记录
// @Summary 删除支出记录
// @Tags 支出
// @Produce json
// @Security BearerAuth
// @Param id path int true "支出记录ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	deleteOwned[models.Expense](c)
}

// GetCategories 获取默认支出类别
// @Summary 获取默认支出类别
// @Tags 支出
// @Produce json
// @Success 200 {object} Response{data=[]string} "获取成功"
// @Router /api/v1/categories [get]
func (h *ExpenseHandler) GetCategories(c *gin.Context) {
	Success(c, models.GetCategories())
}

// CategoryStat 类别统计
type CategoryStat struct {
	Category   string          `json:"category"`
	Total      decimal.Decimal `json:"total" swaggertype:"string"`
	Count      int             `json:"count"`
	Percentage decimal.Decimal `json:"percentage" swaggertype:"string"`
}

// GetStatistics 获取支出统计
// @Summary 获取支出统计
// @Description 按类别汇总指定时间范围内的支出，不传时间则统计全部历史
// @Tags 支出
// @Produce json
// @Security BearerAuth
// @Param start_time query string false "开始时间 (2024-01-01)"
// @Param end_time query string false "结束时间 (2024-12-31)"
// @Success 200 {object} Response "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/expenses/statistics [get]
func (h *ExpenseHandler) GetStatistics(c *gin.Context) {
	req := PageRequest{StartTime: c.Query("start_time"), EndTime: c.Query("end_time")}
	query := applyDateRange(tenantDB(c).Model(&models.Expense{}), "date", req, ledgerLocation())

	var expenses []models.Expense
	if err := query.Find(&expenses).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	total := ledger.SumExpenses(expenses)
	counts := make(map[string]int)
	for _, e := range expenses {
		counts[e.Category]++
	}
	stats := make([]CategoryStat, 0, len(counts))
	for category, sum := range ledger.ExpenseBreakdown(expenses) {
		pct := decimal.Zero
		if total.IsPositive() {
			pct = sum.Div(total).Mul(decimal.NewFromInt(100)).Round(2)
		}
		stats = append(stats, CategoryStat{Category: category, Total: sum, Count: counts[category], Percentage: pct})
	}
	sort.Slice(stats, func(i, j int) bool {
		if !stats[i].Total.Equal(stats[j].Total) {
			return stats[i].Total.GreaterThan(stats[j].Total)
		}
		return stats[i].Category < stats[j].Category
	})

	Success(c, gin.H{
		"total_amount":   total,
		"total_count":    len(expenses),
		"category_stats": stats,
	})
}
