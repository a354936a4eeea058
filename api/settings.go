package api

import (
	"errors"
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
)

// SettingsHandler 账套设置
type SettingsHandler struct {
	secrets *service.SecretBox
}

// NewSettingsHandler 创建设置处理器
func NewSettingsHandler(cfg *config.Config) *SettingsHandler {
	return &SettingsHandler{secrets: service.NewSecretBox(cfg.Security.BankDetailsKey)}
}

// SettingsResponse 设置详情，银行信息单独解密返回
type SettingsResponse struct {
	models.Settings
	EffectiveTaxRate decimal.Decimal `json:"effective_tax_rate" swaggertype:"string"`
	HasBankDetails   bool            `json:"has_bank_details"`
	BankDetails      string          `json:"bank_details,omitempty"`
}

// UpdateSettingsRequest 只更新出现的字段
type UpdateSettingsRequest struct {
	Currency     *string          `json:"currency" binding:"omitempty,min=1,max=10" example:"LKR"`
	TaxRate      *decimal.Decimal `json:"tax_rate" swaggertype:"string" example:"10"`
	TaxEnabled   *bool            `json:"tax_enabled" example:"true"`
	OpeningCash  *decimal.Decimal `json:"opening_cash" swaggertype:"string" example:"1000.00"`
	OwnerCapital *decimal.Decimal `json:"owner_capital" swaggertype:"string" example:"5000.00"`
	Payables     *decimal.Decimal `json:"payables" swaggertype:"string" example:"0"`
	BankDetails  *string          `json:"bank_details" example:"Bank of Ceylon 0001234567"`
}

func (h *SettingsHandler) respond(c *gin.Context, message string, settings models.Settings) {
	resp := SettingsResponse{
		Settings:         settings,
		EffectiveTaxRate: settings.EffectiveTaxRate(),
		HasBankDetails:   settings.BankDetails != "",
	}
	if resp.HasBankDetails {
		plain, err := h.secrets.Open(settings.BankDetails)
		if err != nil {
			log.Warn().Err(err).Uint("user_id", settings.UserID).Msg("银行信息解密失败")
		} else {
			resp.BankDetails = plain
		}
	}
	SuccessWithMessage(c, message, resp)
}

// Get 获取账套设置
// @Summary 获取账套设置
// @Description 首次读取时按默认值创建（币种 LKR，税率 10%，不计税）
// @Tags 设置
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=SettingsResponse} "获取成功"
// @Failure 503 {object} Response "数据暂不可用"
// @Router /api/v1/settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := store.New(database.DB).LoadSettings(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	h.respond(c, "success", settings)
}

// Update 更新账套设置
// @Summary 更新账套设置
// @Tags 设置
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateSettingsRequest true "设置信息"
// @Success 200 {object} Response{data=SettingsResponse} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 503 {object} Response "数据暂不可用"
// @Router /api/v1/settings [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*req.Currency))
		if currency == "" {
			BadRequest(c, "币种不能为空")
			return
		}
		updates["currency"] = currency
	}
	if req.TaxRate != nil {
		if req.TaxRate.IsNegative() || req.TaxRate.GreaterThan(decimal.NewFromInt(100)) {
			BadRequest(c, "税率必须在 0 到 100 之间")
			return
		}
		updates["tax_rate"] = decimal.NewNullDecimal(*req.TaxRate)
	}
	if req.TaxEnabled != nil {
		updates["tax_enabled"] = *req.TaxEnabled
	}
	if req.OpeningCash != nil {
		updates["opening_cash"] = *req.OpeningCash
	}
	if req.OwnerCapital != nil {
		updates["owner_capital"] = *req.OwnerCapital
	}
	if req.Payables != nil {
		if !requireNonNegative(c, *req.Payables) {
			return
		}
		updates["payables"] = *req.Payables
	}
	if req.BankDetails != nil {
		sealed, err := h.secrets.Seal(strings.TrimSpace(*req.BankDetails))
		if errors.Is(err, service.ErrSecretKeyMissing) {
			BadRequest(c, err.Error())
			return
		}
		if err != nil {
			InternalError(c, SafeErrorMessage(err, "银行信息加密失败"))
			return
		}
		updates["bank_details"] = sealed
	}

	userID := middleware.GetCurrentUserID(c)
	st := store.New(database.DB)
	settings, err := st.LoadSettings(c.Request.Context(), userID)
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	if len(updates) > 0 {
		if err := database.DB.Model(&settings).Updates(updates).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "更新失败"))
			return
		}
	}
	h.respond(c, "更新成功", settings)
}
