package api

import (
	"strings"

	"bizbooks/database"
	"bizbooks/middleware"
	"bizbooks/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// TransferHandler 现金与银行互转
type TransferHandler struct{}

func NewTransferHandler() *TransferHandler {
	return &TransferHandler{}
}

type CreateTransferRequest struct {
	FromAccount string          `json:"from_account" binding:"required,oneof=cash bank" example:"cash"`
	ToAccount   string          `json:"to_account" binding:"required,oneof=cash bank" example:"bank"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"string" example:"1000.00"`
	Date        string          `json:"date" binding:"required" example:"2024-01-15"`
	Notes       string          `json:"notes" binding:"max=255"`
}

// Create 创建转账
// @Summary 创建转账
// @Description 转出与转入账户必须不同
// @Tags 转账
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTransferRequest true "转账信息"
// @Success 200 {object} Response{data=models.Transfer} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/transfers [post]
func (h *TransferHandler) Create(c *gin.Context) {
	var req CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	if req.FromAccount == req.ToAccount {
		BadRequest(c, "转出与转入账户不能相同")
		return
	}
	if !requirePositive(c, req.Amount) {
		return
	}
	date, err := parseDate(req.Date, ledgerLocation())
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	tr := models.Transfer{
		UserID:      middleware.GetCurrentUserID(c),
		FromAccount: req.FromAccount,
		ToAccount:   req.ToAccount,
		Amount:      req.Amount,
		Date:        date,
		Notes:       strings.TrimSpace(req.Notes),
	}
	if err := database.DB.Create(&tr).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建转账失败"))
		return
	}
	SuccessWithMessage(c, "创建成功", tr)
}

// List 转账列表
// @Summary 转账列表
// @Tags 转账
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Param start_time query string false "开始时间 (2024-01-01)"
// @Param end_time query string false "结束时间 (2024-12-31)"
// @Success 200 {object} Response{data=PageResponse{list=[]models.Transfer}} "获取成功"
// @Router /api/v1/transfers [get]
func (h *TransferHandler) List(c *gin.Context) {
	listOwned(c, &models.Transfer{}, "date", ledgerLocation(), nil)
}

// Get 转账详情
// @Summary 转账详情
// @Tags 转账
// @Produce json
// @Security BearerAuth
// @Param id path int true "转账ID"
// @Success 200 {object} Response{data=models.Transfer} "获取成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/transfers/{id} [get]
func (h *TransferHandler) Get(c *gin.Context) {
	var tr models.Transfer
	if !findOwned(c, &tr) {
		return
	}
	Success(c, tr)
}

// Delete 删除转账
// @Summary 删除转账
// @Tags 转账
// @Produce json
// @Security BearerAuth
// @Param id path int true "转账ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/transfers/{id} [delete]
func (h *TransferHandler) Delete(c *gin.Context) {
	deleteOwned[models.Transfer](c)
}
