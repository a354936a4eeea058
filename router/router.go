package router

import (
	"time"

	"bizbooks/api"
	"bizbooks/config"
	_ "bizbooks/docs"
	"bizbooks/ledger"
	"bizbooks/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	loginMaxAttempts  = 10
	loginWindow       = 15 * time.Minute
	remindMaxAttempts = 5
	remindWindow      = time.Hour
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config) *gin.Engine {
	return setupRouter(cfg, ledger.SystemClock{Location: cfg.Ledger.Location()})
}

func setupRouter(cfg *config.Config, clock ledger.Clock) *gin.Engine {
	// 设置运行模式
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())

	// CORS 中间件
	r.Use(CORSMiddleware())

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		// 认证相关路由（无需登录）
		authHandler := api.NewAuthHandler(cfg)
		auth := v1.Group("/auth")
		auth.Use(middleware.LoginRateLimit(loginMaxAttempts, loginWindow))
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// 支出类别（无需登录）
		expenseHandler := api.NewExpenseHandler()
		v1.GET("/categories", expenseHandler.GetCategories)

		// 需要 JWT 认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth())
		{
			// 用户相关
			authorized.GET("/auth/profile", authHandler.GetProfile)
			authorized.PUT("/auth/profile", authHandler.UpdateProfile)
			authorized.PUT("/auth/password", authHandler.ChangePassword)

			// 支出
			expenses := authorized.Group("/expenses")
			{
				expenses.POST("", expenseHandler.Create)
				expenses.GET("", expenseHandler.List)
				expenses.GET("/statistics", expenseHandler.GetStatistics)
				expenses.GET("/:id", expenseHandler.Get)
				expenses.PUT("/:id", expenseHandler.Update)
				expenses.DELETE("/:id", expenseHandler.Delete)
			}

			// 收入
			incomeHandler := api.NewIncomeHandler()
			incomes := authorized.Group("/incomes")
			{
				incomes.POST("", incomeHandler.Create)
				incomes.GET("", incomeHandler.List)
				incomes.GET("/:id", incomeHandler.Get)
				incomes.PUT("/:id", incomeHandler.Update)
				incomes.DELETE("/:id", incomeHandler.Delete)
			}

			// 现金/银行互转
			transferHandler := api.NewTransferHandler()
			transfers := authorized.Group("/transfers")
			{
				transfers.POST("", transferHandler.Create)
				transfers.GET("", transferHandler.List)
				transfers.GET("/:id", transferHandler.Get)
				transfers.DELETE("/:id", transferHandler.Delete)
			}

			// 固定资产
			assetHandler := api.NewAssetHandler()
			assets := authorized.Group("/assets")
			{
				assets.POST("", assetHandler.Create)
				assets.GET("", assetHandler.List)
				assets.PUT("/:id", assetHandler.Update)
				assets.DELETE("/:id", assetHandler.Delete)
			}

			// 借款
			loanHandler := api.NewLoanHandler()
			loans := authorized.Group("/loans")
			{
				loans.POST("", loanHandler.Create)
				loans.GET("", loanHandler.List)
				loans.PUT("/:id", loanHandler.Update)
				loans.DELETE("/:id", loanHandler.Delete)
			}

			// 发票
			invoiceHandler := api.NewInvoiceHandler(cfg)
			invoices := authorized.Group("/invoices")
			{
				invoices.POST("", invoiceHandler.Create)
				invoices.GET("", invoiceHandler.List)
				invoices.GET("/:id", invoiceHandler.Get)
				invoices.PUT("/:id", invoiceHandler.Update)
				invoices.DELETE("/:id", invoiceHandler.Delete)
				invoices.POST("/:id/pay", invoiceHandler.Pay)
				invoices.POST("/:id/remind", middleware.PerUserRateLimit(remindMaxAttempts, remindWindow), invoiceHandler.Remind)
			}

			// 账套设置
			settingsHandler := api.NewSettingsHandler(cfg)
			authorized.GET("/settings", settingsHandler.Get)
			authorized.PUT("/settings", settingsHandler.Update)

			// 汇总报表
			ledgerHandler := api.NewLedgerHandler(clock)
			authorized.GET("/summary", ledgerHandler.Summary)
			authorized.GET("/balance-sheet", ledgerHandler.BalanceSheet)
			authorized.GET("/statement", ledgerHandler.Statement)

			// 导出
			exportHandler := api.NewExportHandler(clock)
			export := authorized.Group("/export")
			{
				export.GET("/csv", exportHandler.ExportCSV)
				export.GET("/excel", exportHandler.ExportExcel)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return r
}

// CORSMiddleware CORS 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
