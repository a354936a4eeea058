package cmd

import (
	"fmt"
	"os"

	"bizbooks/config"
	"bizbooks/logger"
	"bizbooks/middleware"

	"github.com/spf13/cobra"
)

var version = "1.0.0"

var (
	configFile string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "bizbooks",
	Short: "小微企业记账服务",
	Long: `bizbooks 记录收入、支出、发票、现金/银行互转、固定资产与借款，
并按账套汇总现金余额、利润、预估税额与资产负债表。`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 加载配置（内置配置 + 可选的外部配置覆盖）
		loaded, err := config.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}
		if err := logger.Setup(loaded.Log); err != nil {
			return fmt.Errorf("初始化日志失败: %w", err)
		}
		middleware.InitJWT(loaded)
		cfg = loaded
		return nil
	},
}

// Execute 执行根命令
func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("命令执行失败")
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "外部配置文件路径（可选）")
}
