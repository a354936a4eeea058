package api

import (
	"fmt"
	"strings"

	"bizbooks/config"
	"bizbooks/database"
	"bizbooks/middleware"
	"bizbooks/models"
	"bizbooks/service"
	"bizbooks/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InvoiceHandler 发票处理器
type InvoiceHandler struct {
	emailService *service.EmailService
}

// NewInvoiceHandler 创建发票处理器
func NewInvoiceHandler(cfg *config.Config) *InvoiceHandler {
	return &InvoiceHandler{emailService: service.NewEmailService(&cfg.Email)}
}

// InvoiceItemRequest 发票明细
type InvoiceItemRequest struct {
	Description string          `json:"description" binding:"required,max=255" example:"Consulting"`
	Price       decimal.Decimal `json:"price" swaggertype:"string" example:"100.00"`
	Quantity    decimal.Decimal `json:"quantity" swaggertype:"string" example:"2"`
}

// CreateInvoiceRequest 创建发票请求
type CreateInvoiceRequest struct {
	InvoiceNumber string               `json:"invoice_number" binding:"max=50" example:"INV-0001"`
	ClientID      *uint                `json:"client_id"`
	ClientName    string               `json:"client_name" binding:"max=100" example:"Acme Ltd"`
	ClientEmail   string               `json:"client_email" binding:"omitempty,email" example:"billing@acme.example"`
	Items         []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
	TaxRate       *decimal.Decimal     `json:"tax_rate" swaggertype:"string" example:"10"`
	PaymentMethod string               `json:"payment_method" example:"bank"`
	DueDate       string               `json:"due_date" example:"2024-02-15"`
	Notes         string               `json:"notes" binding:"max=500"`
}

// UpdateInvoiceRequest 更新发票请求；Total 可手工修改，不会重新计算
type UpdateInvoiceRequest struct {
	ClientName    *string          `json:"client_name"`
	ClientEmail   *string          `json:"client_email" binding:"omitempty,email"`
	PaymentMethod *string          `json:"payment_method"`
	DueDate       *string          `json:"due_date"`
	Notes         *string          `json:"notes"`
	Total         *decimal.Decimal `json:"total" swaggertype:"string"`
}

// PayInvoiceRequest 标记已付款
type PayInvoiceRequest struct {
	PaymentMethod string `json:"payment_method" example:"cash"`
}

// Create 创建发票
// @Summary 创建发票
// @Description 根据明细计算小计、税额与总额；未传 tax_rate 时按账套设置（未启用税则为 0）
// @Tags 发票
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateInvoiceRequest true "发票信息"
// @Success 200 {object} Response{data=models.Invoice} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 503 {object} Response "数据暂不可用"
// @Router /api/v1/invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	items := make([]models.InvoiceItem, 0, len(req.Items))
	for _, it := range req.Items {
		if it.Quantity.IsZero() {
			it.Quantity = decimal.NewFromInt(1)
		}
		if it.Price.IsNegative() || !it.Quantity.IsPositive() {
			BadRequest(c, "明细单价不能为负，数量必须大于0")
			return
		}
		items = append(items, models.InvoiceItem{Description: it.Description, Price: it.Price, Quantity: it.Quantity})
	}

	dueDate, err := parseOptionalDate(req.DueDate, ledgerLocation())
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	taxRate := decimal.Zero
	if req.TaxRate != nil {
		if req.TaxRate.IsNegative() {
			BadRequest(c, "税率不能为负数")
			return
		}
		taxRate = *req.TaxRate
	} else {
		settings, err := store.New(database.DB).LoadSettings(c.Request.Context(), userID)
		if err != nil {
			respondLedgerError(c, err)
			return
		}
		if settings.TaxEnabled {
			taxRate = settings.EffectiveTaxRate()
		}
	}

	number := strings.TrimSpace(req.InvoiceNumber)
	if number == "" {
		number, err = nextInvoiceNumber(database.DB, userID)
		if err != nil {
			InternalError(c, SafeErrorMessage(err, "生成发票号失败"))
			return
		}
	} else {
		taken, err := invoiceNumberTaken(database.DB, userID, number)
		if err != nil {
			InternalError(c, SafeErrorMessage(err, "校验发票号失败"))
			return
		}
		if taken {
			BadRequest(c, "发票号已存在")
			return
		}
	}

	inv := models.Invoice{
		UserID:        userID,
		InvoiceNumber: number,
		ClientID:      req.ClientID,
		ClientName:    strings.TrimSpace(req.ClientName),
		ClientEmail:   strings.TrimSpace(req.ClientEmail),
		Items:         items,
		TaxRate:       taxRate,
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		Status:        models.InvoiceStatusUnpaid,
		DueDate:       dueDate,
		Notes:         req.Notes,
	}
	inv.ComputeTotals()

	if err := database.DB.Create(&inv).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建发票失败"))
		return
	}
	SuccessWithMessage(c, "创建成功", inv)
}

const maxInvoiceNumberAttempts = 50

// invoiceNumberTaken 唯一索引包含已删除的发票，查询需 Unscoped
func invoiceNumberTaken(db *gorm.DB, userID uint, number string) (bool, error) {
	var count int64
	err := db.Unscoped().Model(&models.Invoice{}).
		Where("user_id = ? AND invoice_number = ?", userID, number).
		Count(&count).Error
	return count > 0, err
}

// nextInvoiceNumber 按该用户已有发票数量（含已删除）顺延，跳过手工占用的编号
func nextInvoiceNumber(db *gorm.DB, userID uint) (string, error) {
	var count int64
	if err := db.Unscoped().Model(&models.Invoice{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return "", err
	}
	for n := count + 1; n <= count+maxInvoiceNumberAttempts; n++ {
		number := fmt.Sprintf("INV-%04d", n)
		taken, err := invoiceNumberTaken(db, userID, number)
		if err != nil {
			return "", err
		}
		if !taken {
			return number, nil
		}
	}
	return "", fmt.Errorf("连续 %d 个发票号已被占用", maxInvoiceNumberAttempts)
}

// List 发票列表
// @Summary 发票列表
// @Tags 发票
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Param status query string false "状态筛选 (unpaid/paid)"
// @Param start_time query string false "开票开始时间 (2024-01-01)"
// @Param end_time query string false "开票结束时间 (2024-12-31)"
// @Success 200 {object} Response{data=PageResponse{list=[]models.Invoice}} "获取成功"
// @Router /api/v1/invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	status := strings.ToLower(strings.TrimSpace(c.Query("status")))
	listOwned(c, &models.Invoice{}, "created_at", ledgerLocation(), func(q *gorm.DB) *gorm.DB {
		if status != "" {
			q = q.Where("LOWER(status) = ?", status)
		}
		return q
	})
}

// findInvoice 读取当前用户的发票及明细
func findInvoice(c *gin.Context) (models.Invoice, bool) {
	var inv models.Invoice
	id, ok := parseID(c)
	if !ok {
		return inv, false
	}
	if err := tenantDB(c).Preload("Items").Where("id = ?", id).First(&inv).Error; err != nil {
		NotFound(c, "发票不存在")
		return inv, false
	}
	return inv, true
}

// Get 发票详情
// @Summary 发票详情
// @Tags 发票
// @Produce json
// @Security BearerAuth
// @Param id path int true "发票ID"
// @Success 200 {object} Response{data=models.Invoice} "获取成功"
// @Failure 404 {object} Response "发票不存在"
// @Router /api/v1/invoices/{id} [get]
func (h *InvoiceHandler) Get(c *gin.Context) {
	inv, ok := findInvoice(c)
	if !ok {
		return
	}
	Success(c, inv)
}

// Update 更新发票
// @Summary 更新发票
// @Description 手工修改的 total 直接保存，待收款按保存的 total 计算
// @Tags 发票
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "发票ID"
// @Param request body UpdateInvoiceRequest true "发票信息"
// @Success 200 {object} Response{data=models.Invoice} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "发票不存在"
// @Router /api/v1/invoices/{id} [put]
func (h *InvoiceHandler) Update(c *gin.Context) {
	var inv models.Invoice
	if !findOwned(c, &inv) {
		return
	}
	var req UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	updates := map[string]interface{}{}
	if req.ClientName != nil {
		updates["client_name"] = strings.TrimSpace(*req.ClientName)
	}
	if req.ClientEmail != nil {
		updates["client_email"] = strings.TrimSpace(*req.ClientEmail)
	}
	if req.PaymentMethod != nil {
		updates["payment_method"] = strings.TrimSpace(*req.PaymentMethod)
	}
	if req.DueDate != nil {
		due, err := parseOptionalDate(*req.DueDate, ledgerLocation())
		if err != nil {
			BadRequest(c, err.Error())
			return
		}
		updates["due_date"] = due
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.Total != nil {
		if !requireNonNegative(c, *req.Total) {
			return
		}
		updates["total"] = *req.Total
	}
	if len(updates) > 0 {
		if err := database.DB.Model(&inv).Updates(updates).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "更新失败"))
			return
		}
		if !reloadOwned(c, &inv, inv.ID) {
			return
		}
	}
	SuccessWithMessage(c, "更新成功", inv)
}

// Delete 删除发票
// @Summary 删除发票
// @Tags 发票
// @Security BearerAuth
// @Param id path int true "发票ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	deleteOwned[models.Invoice](c)
}

// Pay 标记发票已付款
// @Summary 标记发票已付款
// @Tags 发票
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "发票ID"
// @Param request body PayInvoiceRequest false "付款方式"
// @Success 200 {object} Response{data=models.Invoice} "操作成功"
// @Failure 400 {object} Response "发票已付款"
// @Failure 404 {object} Response "发票不存在"
// @Router /api/v1/invoices/{id}/pay [post]
func (h *InvoiceHandler) Pay(c *gin.Context) {
	var inv models.Invoice
	if !findOwned(c, &inv) {
		return
	}
	if inv.IsPaid() {
		BadRequest(c, "发票已付款")
		return
	}
	var req PayInvoiceRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			BadRequest(c, "参数错误: "+err.Error())
			return
		}
	}
	updates := map[string]interface{}{"status": models.InvoiceStatusPaid}
	if method := strings.TrimSpace(req.PaymentMethod); method != "" {
		updates["payment_method"] = method
	}
	if err := database.DB.Model(&inv).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新失败"))
		return
	}
	inv.Status = models.InvoiceStatusPaid
	SuccessWithMessage(c, "已标记为已付款", inv)
}

// Remind 发送付款提醒邮件
// @Summary 发送付款提醒
// @Description 向发票上的客户邮箱发送付款提醒，需要启用邮件服务
// @Tags 发票
// @Produce json
// @Security BearerAuth
// @Param id path int true "发票ID"
// @Success 200 {object} Response "发送成功"
// @Failure 400 {object} Response "发票已付款或缺少客户邮箱"
// @Failure 404 {object} Response "发票不存在"
// @Failure 429 {object} Response "请求过于频繁"
// @Failure 503 {object} Response "邮件服务未启用"
// @Router /api/v1/invoices/{id}/remind [post]
func (h *InvoiceHandler) Remind(c *gin.Context) {
	inv, ok := findInvoice(c)
	if !ok {
		return
	}
	if inv.IsPaid() {
		BadRequest(c, "发票已付款，无需提醒")
		return
	}
	if inv.ClientEmail == "" {
		BadRequest(c, "发票缺少客户邮箱")
		return
	}
	if !h.emailService.Enabled() {
		ServiceUnavailable(c, "邮件服务未启用")
		return
	}

	userID := middleware.GetCurrentUserID(c)
	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		NotFound(c, "用户不存在")
		return
	}
	settings, err := store.New(database.DB).LoadSettings(c.Request.Context(), userID)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	businessName := user.BusinessName
	if businessName == "" {
		businessName = user.Username
	}
	if err := h.emailService.SendInvoiceReminder(inv.ClientEmail, businessName, settings.Currency, inv); err != nil {
		log.Error().Err(err).Uint("user_id", userID).Str("invoice", inv.InvoiceNumber).Msg("付款提醒发送失败")
		InternalError(c, SafeErrorMessage(err, "邮件发送失败"))
		return
	}
	log.Info().Uint("user_id", userID).Str("invoice", inv.InvoiceNumber).Msg("付款提醒已发送")
	SuccessWithMessage(c, "提醒已发送", nil)
}
