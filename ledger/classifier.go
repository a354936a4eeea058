package ledger

import (
	"strings"
)

var bankMethods = map[string]bool{
	"bank":            true,
	"card":            true,
	"online":          true,
	"online_transfer": true,
	"online_payment":  true,
}

// NormalizePaymentMethod 转小写，去掉首尾空白，中间连续空白替换为单个下划线
// 纯空白视为空（按现金处理）
func NormalizePaymentMethod(pm string) string {
	return strings.Join(strings.Fields(strings.ToLower(pm)), "_")
}

// IsCash 空支付方式视为现金
func IsCash(pm string) bool {
	n := NormalizePaymentMethod(pm)
	return n == "" || n == "cash"
}

// IsBank 银行类支付方式：bank、card、online 等
//
// 既不是现金也不是银行的支付方式（拼写错误、未知方式）不计入任何一边。
func IsBank(pm string) bool {
	return bankMethods[NormalizePaymentMethod(pm)]
}
