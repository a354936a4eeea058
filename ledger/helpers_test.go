package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"bizbooks/models"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(y int, m time.Month, dd int) time.Time {
	return time.Date(y, m, dd, 12, 0, 0, 0, time.UTC)
}

func income(amount, pm string, at time.Time) models.Income {
	return models.Income{Amount: d(amount), PaymentMethod: pm, Date: at}
}

func expense(amount, pm, category string, at time.Time) models.Expense {
	return models.Expense{Amount: d(amount), PaymentMethod: pm, Category: category, Date: at}
}

func transfer(from, to, amount string, at time.Time) models.Transfer {
	return models.Transfer{FromAccount: from, ToAccount: to, Amount: d(amount), Date: at}
}

func invoice(total, status string, created time.Time) models.Invoice {
	return models.Invoice{Total: d(total), Status: status, CreatedAt: created}
}

func assertDecimal(t interface {
	Helper()
	Errorf(string, ...interface{})
}, want string, got decimal.Decimal) {
	t.Helper()
	if !got.Equal(d(want)) {
		t.Errorf("want %s, got %s", want, got.String())
	}
}
