package main

import (
	"bizbooks/cmd"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// @title 小微企业记账 API
// @version 1.0
// @description 收入、支出、发票、现金/银行互转与资产负债汇总
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// .env 可选，存在时注入 BIZBOOKS_* 环境变量
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("未加载 .env 文件")
	}

	cmd.Execute()
}
