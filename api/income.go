package api

import (
	"strings"

	"bizbooks/database"
	"bizbooks/middleware"
	"bizbooks/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// IncomeHandler 收入处理器
type IncomeHandler struct{}

func NewIncomeHandler() *IncomeHandler {
	return &IncomeHandler{}
}

type CreateIncomeRequest struct {
	Amount        decimal.Decimal `json:"amount" swaggertype:"string" example:"5000.00"`
	Date          string          `json:"date" binding:"required" example:"2024-01-15"`
	PaymentMethod string          `json:"payment_method" example:"cash"`
	ClientID      *uint           `json:"client_id"`
	ClientName    string          `json:"client_name" binding:"max=100" example:"Acme Ltd"`
	ServiceType   string          `json:"service_type" binding:"max=100" example:"Haircut"`
	Notes         string          `json:"notes" binding:"max=500"`
	RecurrenceRequest
}

type UpdateIncomeRequest struct {
	Amount        *decimal.Decimal   `json:"amount" swaggertype:"string"`
	Date          *string            `json:"date"`
	PaymentMethod *string            `json:"payment_method"`
	ClientName    *string            `json:"client_name"`
	ServiceType   *string            `json:"service_type"`
	Notes         *string            `json:"notes"`
	Recurrence    *RecurrenceRequest `json:"recurrence"`
}

// Create 创建收入
// @Summary 创建收入
// @Description 创建一条新的收入记录，payment_method 为空视为现金
// @Tags 收入
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateIncomeRequest true "收入信息"
// @Success 200 {object} Response{data=models.Income} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/incomes [post]
func (h *IncomeHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	var req CreateIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
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
	in := models.Income{
		UserID:        userID,
		ClientID:      req.ClientID,
		ClientName:    strings.TrimSpace(req.ClientName),
		ServiceType:   strings.TrimSpace(req.ServiceType),
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		Amount:        req.Amount,
		Date:          date,
		Notes:         req.Notes,
		Recurrence:    rec,
	}
	if err := database.DB.Create(&in).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建收入失败"))
		return
	}
	SuccessWithMessage(c, "创建成功", in)
}

// List 获取收入列表
// @Summary 获取收入列表
// @Description 获取当前用户的收入列表，支持分页与筛选
// @Tags 收入
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Param payment_method query string false "付款方式筛选"
// @Param start_time query string false "开始时间 (2024-01-01)"
// @Param end_time query string false "结束时间 (2024-12-31)"
// @Success 200 {object} Response{data=PageResponse{list=[]models.Income}} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/incomes [get]
func (h *IncomeHandler) List(c *gin.Context) {
	method := c.Query("payment_method")
	listOwned(c, &models.Income{}, "date", ledgerLocation(), func(q *gorm.DB) *gorm.DB {
		if method != "" {
			q = q.Where("payment_method = ?", method)
		}
		return q
	})
}

// Get 获取单条收入
// @Summary 获取单条收入
// @Tags 收入
// @Produce json
// @Security BearerAuth
// @Param id path int true "收入ID"
// @Success 200 {object} Response{data=models.Income} "获取成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/incomes/{id} [get]
func (h *IncomeHandler) Get(c *gin.Context) {
	var in models.Income
	if !findOwned(c, &in) {
		return
	}
	Success(c, in)
}

// Update 更新收入
// @Summary 更新收入
// @Description 只更新请求中出现的字段
// @Tags 收入
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "收入ID"
// @Param request body UpdateIncomeRequest true "收入信息"
// @Success 200 {object} Response{data=models.Income} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/incomes/{id} [put]
func (h *IncomeHandler) Update(c *gin.Context) {
	var in models.Income
	if !findOwned(c, &in) {
		return
	}
	var req UpdateIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	loc := ledgerLocation()
	updates := map[string]interface{}{}
	if req.Amount != nil {
		if !requirePositive(c, *req.Amount) {
			return
		}
		updates["amount"] = *req.Amount
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
	if req.ClientName != nil {
		updates["client_name"] = strings.TrimSpace(*req.ClientName)
	}
	if req.ServiceType != nil {
		updates["service_type"] = strings.TrimSpace(*req.ServiceType)
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
		if err := database.DB.Model(&in).Updates(updates).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "更新失败"))
			return
		}
		if !reloadOwned(c, &in, in.ID) {
			return
		}
	}
	SuccessWithMessage(c, "更新成功", in)
}

// Delete 删除收入
// @Summary 删除收入
// @Tags 收入
// @Produce json
// @Security BearerAuth
// @Param id path int true "收入ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/incomes/{id} [delete]
func (h *IncomeHandler) Delete(c *gin.Context) {
	deleteOwned[models.Income](c)
}
