package api

import (
	"strings"

	"bizbooks/database"
	"bizbooks/middleware"
	"bizbooks/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// HoldingRequest 资产/贷款通用请求
type HoldingRequest struct {
	Name   string          `json:"name" binding:"required,max=100" example:"Laptop"`
	Amount decimal.Decimal `json:"amount" swaggertype:"string" example:"2000.00"`
	Date   string          `json:"date" binding:"required" example:"2024-01-15"`
}

// UpdateHoldingRequest 部分更新
type UpdateHoldingRequest struct {
	Name   *string          `json:"name" binding:"omitempty,max=100"`
	Amount *decimal.Decimal `json:"amount" swaggertype:"string"`
	Date   *string          `json:"date"`
}

// holdingUpdates 校验并生成更新字段，失败时已写响应
func holdingUpdates(c *gin.Context) (map[string]interface{}, bool) {
	var req UpdateHoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return nil, false
	}
	updates := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			BadRequest(c, "名称不能为空")
			return nil, false
		}
		updates["name"] = name
	}
	if req.Amount != nil {
		if !requireNonNegative(c, *req.Amount) {
			return nil, false
		}
		updates["amount"] = *req.Amount
	}
	if req.Date != nil {
		t, err := parseDate(*req.Date, ledgerLocation())
		if err != nil {
			BadRequest(c, err.Error())
			return nil, false
		}
		updates["date"] = t
	}
	return updates, true
}

// bindHolding 校验创建请求，失败时已写响应
func bindHolding(c *gin.Context) (HoldingRequest, bool) {
	var req HoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return req, false
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		BadRequest(c, "名称不能为空")
		return req, false
	}
	return req, requireNonNegative(c, req.Amount)
}

// AssetHandler 设备/资产
type AssetHandler struct{}

func NewAssetHandler() *AssetHandler {
	return &AssetHandler{}
}

// Create 新增资产
// @Summary 新增资产
// @Tags 资产
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body HoldingRequest true "资产信息"
// @Success 200 {object} Response{data=models.Asset} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/assets [post]
func (h *AssetHandler) Create(c *gin.Context) {
	req, ok := bindHolding(c)
	if !ok {
		return
	}
	date, err := parseDate(req.Date, ledgerLocation())
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	asset := models.Asset{UserID: middleware.GetCurrentUserID(c), Name: req.Name, Amount: req.Amount, Date: date}
	if err := database.DB.Create(&asset).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建失败"))
		return
	}
	SuccessWithMessage(c, "创建成功", asset)
}

// List 资产列表
// @Summary 资产列表
// @Tags 资产
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} Response{data=PageResponse{list=[]models.Asset}} "获取成功"
// @Router /api/v1/assets [get]
func (h *AssetHandler) List(c *gin.Context) {
	listOwned(c, &models.Asset{}, "date", ledgerLocation(), nil)
}

// Update 更新资产
// @Summary 更新资产
// @Tags 资产
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "资产ID"
// @Param request body UpdateHoldingRequest true "资产信息"
// @Success 200 {object} Response{data=models.Asset} "更新成功"
// @Router /api/v1/assets/{id} [put]
func (h *AssetHandler) Update(c *gin.Context) {
	var asset models.Asset
	if !findOwned(c, &asset) {
		return
	}
	updates, ok := holdingUpdates(c)
	if !ok {
		return
	}
	if len(updates) > 0 {
		if err := database.DB.Model(&asset).Updates(updates).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "更新失败"))
			return
		}
		if !reloadOwned(c, &asset, asset.ID) {
			return
		}
	}
	SuccessWithMessage(c, "更新成功", asset)
}

// Delete 删除资产
// @Summary 删除资产
// @Tags 资产
// @Security BearerAuth
// @Param id path int true "资产ID"
// @Success 200 {object} Response "删除成功"
// @Router /api/v1/assets/{id} [delete]
func (h *AssetHandler) Delete(c *gin.Context) {
	deleteOwned[models.Asset](c)
}

// LoanHandler 贷款
type LoanHandler struct{}

func NewLoanHandler() *LoanHandler {
	return &LoanHandler{}
}

// Create 新增贷款
// @Summary 新增贷款
// @Tags 贷款
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body HoldingRequest true "贷款信息"
// @Success 200 {object} Response{data=models.Loan} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/loans [post]
func (h *LoanHandler) Create(c *gin.Context) {
	req, ok := bindHolding(c)
	if !ok {
		return
	}
	date, err := parseDate(req.Date, ledgerLocation())
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	loan := models.Loan{UserID: middleware.GetCurrentUserID(c), Name: req.Name, Amount: req.Amount, Date: date}
	if err := database.DB.Create(&loan).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建失败"))
		return
	}
	SuccessWithMessage(c, "创建成功", loan)
}

// List 贷款列表
// @Summary 贷款列表
// @Tags 贷款
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=PageResponse{list=[]models.Loan}} "获取成功"
// @Router /api/v1/loans [get]
func (h *LoanHandler) List(c *gin.Context) {
	listOwned(c, &models.Loan{}, "date", ledgerLocation(), nil)
}

// Update 更新贷款
// @Summary 更新贷款
// @Tags 贷款
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "贷款ID"
// @Param request body UpdateHoldingRequest true "贷款信息"
// @Success 200 {object} Response{data=models.Loan} "更新成功"
// @Router /api/v1/loans/{id} [put]
func (h *LoanHandler) Update(c *gin.Context) {
	var loan models.Loan
	if !findOwned(c, &loan) {
		return
	}
	updates, ok := holdingUpdates(c)
	if !ok {
		return
	}
	if len(updates) > 0 {
		if err := database.DB.Model(&loan).Updates(updates).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "更新失败"))
			return
		}
		if !reloadOwned(c, &loan, loan.ID) {
			return
		}
	}
	SuccessWithMessage(c, "更新成功", loan)
}

// Delete 删除贷款
// @Summary 删除贷款
// @Tags 贷款
// @Security BearerAuth
// @Param id path int true "贷款ID"
// @Success 200 {object} Response "删除成功"
// @Router /api/v1/loans/{id} [delete]
func (h *LoanHandler) Delete(c *gin.Context) {
	deleteOwned[models.Loan](c)
}
