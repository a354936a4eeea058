package api

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"bizbooks/config"
	"bizbooks/database"
	"bizbooks/middleware"
	"bizbooks/models"
	"bizbooks/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// PageRequest 列表分页与时间筛选参数
type PageRequest struct {
	Page      int    `form:"page" example:"1"`
	PageSize  int    `form:"page_size" example:"10"`
	StartTime string `form:"start_time" example:"2024-01-01"`
	EndTime   string `form:"end_time" example:"2024-12-31"`
}

func (r *PageRequest) normalize() {
	if r.Page <= 0 {
		r.Page = 1
	}
	if r.PageSize <= 0 {
		r.PageSize = 10
	}
	if r.PageSize > 100 {
		r.PageSize = 100
	}
}

// parseDate 支持 "2006-01-02" 和 "2006-01-02 15:04:05"
func parseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(dateTimeLayout, s, loc); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("时间格式错误，应为: %s 或 %s", dateLayout, dateTimeLayout)
	}
	return t, nil
}

// parseOptionalDate 空字符串返回 nil
func parseOptionalDate(s string, loc *time.Location) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := parseDate(s, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// applyDateRange 按日期列追加时间筛选，结束日期包含当天
func applyDateRange(query *gorm.DB, column string, req PageRequest, loc *time.Location) *gorm.DB {
	if req.StartTime != "" {
		if t, err := time.ParseInLocation(dateLayout, req.StartTime, loc); err == nil {
			query = query.Where(column+" >= ?", t)
		}
	}
	if req.EndTime != "" {
		if t, err := time.ParseInLocation(dateLayout, req.EndTime, loc); err == nil {
			query = query.Where(column+" < ?", t.AddDate(0, 0, 1))
		}
	}
	return query
}

// tenantDB 当前用户的数据范围
func tenantDB(c *gin.Context) *gorm.DB {
	return database.DB.WithContext(c.Request.Context()).
		Where("user_id = ?", middleware.GetCurrentUserID(c))
}

// parseID 解析路径中的 id
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return 0, false
	}
	return uint(id), true
}

// findOwned 读取当前用户的一条记录，不存在时写 404
func findOwned[T any](c *gin.Context, dest *T) bool {
	id, ok := parseID(c)
	if !ok {
		return false
	}
	if err := tenantDB(c).Where("id = ?", id).First(dest).Error; err != nil {
		NotFound(c, "记录不存在")
		return false
	}
	return true
}

// listOwned 分页查询当前用户的记录
func listOwned[T any](c *gin.Context, model *T, dateColumn string, loc *time.Location, filter func(*gorm.DB) *gorm.DB) {
	var req PageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	req.normalize()

	query := tenantDB(c).Model(model)
	query = applyDateRange(query, dateColumn, req, loc)
	if filter != nil {
		query = filter(query)
	}

	var total int64
	query.Count(&total)
	var list []T
	offset := (req.Page - 1) * req.PageSize
	if err := query.Order(dateColumn + " DESC").Offset(offset).Limit(req.PageSize).Find(&list).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Page(c, req, total, list)
}

// reloadOwned 更新后按租户重新读取，失败时已写响应
func reloadOwned[T any](c *gin.Context, dest *T, id uint) bool {
	if err := tenantDB(c).Where("id = ?", id).First(dest).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "读取更新结果失败"))
		return false
	}
	return true
}

// deleteOwned 软删除当前用户的一条记录
func deleteOwned[T any](c *gin.Context) {
	var rec T
	if !findOwned(c, &rec) {
		return
	}
	if err := database.DB.WithContext(c.Request.Context()).Delete(&rec).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "删除失败"))
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}

// requirePositive 金额必须大于 0
func requirePositive(c *gin.Context, amount decimal.Decimal) bool {
	if !amount.IsPositive() {
		BadRequest(c, "金额必须大于0")
		return false
	}
	return true
}

// requireNonNegative 金额不能为负
func requireNonNegative(c *gin.Context, amount decimal.Decimal) bool {
	if amount.IsNegative() {
		BadRequest(c, "金额不能为负数")
		return false
	}
	return true
}

// respondLedgerError 数据读取失败与其他错误分开处理
func respondLedgerError(c *gin.Context, err error) {
	userID := middleware.GetCurrentUserID(c)
	if errors.Is(err, store.ErrDataUnavailable) {
		log.Error().Err(err).Uint("user_id", userID).Msg("账务数据不可用")
		ServiceUnavailable(c, "数据暂不可用，请稍后重试")
		return
	}
	log.Error().Err(err).Uint("user_id", userID).Msg("账务计算失败")
	InternalError(c, SafeErrorMessage(err, "计算失败"))
}

// ledgerLocation 账务时区，未加载配置时为 UTC
func ledgerLocation() *time.Location {
	if config.GlobalConfig == nil {
		return time.UTC
	}
	return config.GlobalConfig.Ledger.Location()
}

// RecurrenceRequest 周期标记请求
type RecurrenceRequest struct {
	IsRecurring        bool   `json:"is_recurring" example:"false"`
	RecurringFrequency string `json:"recurring_frequency" example:"monthly"`
	RecurringEndDate   string `json:"recurring_end_date" example:"2025-12-31"`
}

// toRecurrence 转换并校验周期设置
func (r RecurrenceRequest) toRecurrence(loc *time.Location) (models.Recurrence, error) {
	end, err := parseOptionalDate(r.RecurringEndDate, loc)
	if err != nil {
		return models.Recurrence{}, err
	}
	rec := models.Recurrence{
		IsRecurring:        r.IsRecurring,
		RecurringFrequency: models.Frequency(strings.ToLower(strings.TrimSpace(r.RecurringFrequency))),
		RecurringEndDate:   end,
	}
	if err := rec.Validate(); err != nil {
		return models.Recurrence{}, err
	}
	return rec, nil
}
