package store

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"bizbooks/ledger"
	"bizbooks/models"
)

// ErrDataUnavailable 账务数据读取失败（连接错误、表缺失等）
// 调用方据此与"确实没有数据"区分开
var ErrDataUnavailable = errors.New("ledger data unavailable")

// Store 单个账套的数据读取
type Store struct {
	db *gorm.DB
}

// New 创建 Store
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func unavailable(what string, err error) error {
	return fmt.Errorf("%w: 读取%s失败: %v", ErrDataUnavailable, what, err)
}

// LoadSettings 读取账套设置，不存在时按默认值创建
func (s *Store) LoadSettings(ctx context.Context, userID uint) (models.Settings, error) {
	var settings models.Settings
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Attrs(models.DefaultSettings(userID)).
		FirstOrCreate(&settings).Error
	if err != nil {
		return models.Settings{}, unavailable("设置", err)
	}
	return settings, nil
}

// LoadBook 并发读取账套的全部记录
//
// 任一查询失败都返回 ErrDataUnavailable，不会返回部分数据。
func (s *Store) LoadBook(ctx context.Context, userID uint) (*ledger.Book, error) {
	book := &ledger.Book{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		settings, err := s.LoadSettings(gctx, userID)
		if err != nil {
			return err
		}
		book.Settings = settings
		return nil
	})
	g.Go(func() error {
		return s.find(gctx, userID, "收入", &book.Incomes, "date ASC, id ASC")
	})
	g.Go(func() error {
		return s.find(gctx, userID, "支出", &book.Expenses, "date ASC, id ASC")
	})
	g.Go(func() error {
		return s.find(gctx, userID, "发票", &book.Invoices, "created_at ASC, id ASC")
	})
	g.Go(func() error {
		return s.find(gctx, userID, "转账", &book.Transfers, "date ASC, id ASC")
	})
	g.Go(func() error {
		return s.find(gctx, userID, "资产", &book.Assets, "date ASC, id ASC")
	})
	g.Go(func() error {
		return s.find(gctx, userID, "贷款", &book.Loans, "date ASC, id ASC")
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *Store) find(ctx context.Context, userID uint, what string, dest interface{}, order string) error {
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order(order).Find(dest).Error; err != nil {
		return unavailable(what, err)
	}
	return nil
}
