package database

import (
	"fmt"
	"net/url"
	"time"

	"bizbooks/config"
	"bizbooks/models"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// DSN 构建 MySQL 连接字符串，时间按账务时区解析
func DSN(cfg *config.Config) string {
	tz := cfg.Ledger.Timezone
	if tz == "" {
		tz = "UTC"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=%s",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
		url.QueryEscape(tz),
	)
}

// Init 初始化数据库连接
func Init(cfg *config.Config) error {
	level := logger.Warn
	if cfg.Server.Mode == "debug" {
		level = logger.Info
	}

	var err error
	DB, err = gorm.Open(mysql.Open(DSN(cfg)), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := Migrate(DB); err != nil {
		return err
	}

	log.Info().Str("database", cfg.Database.DBName).Msg("数据库初始化成功")
	return nil
}

// Migrate 自动迁移账务相关表
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Settings{},
		&models.Income{},
		&models.Expense{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.Transfer{},
		&models.Asset{},
		&models.Loan{},
	); err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}

	// 兼容历史数据：status 为空的用户视为正常
	if err := db.Model(&models.User{}).
		Where("status IS NULL OR status = ''").
		Update("status", models.UserStatusActive).Error; err != nil {
		log.Warn().Err(err).Msg("补全用户状态失败")
	}
	return nil
}
