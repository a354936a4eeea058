package cmd

import (
	"fmt"
	"strings"

	"bizbooks/config"
	"bizbooks/database"
	"bizbooks/logger"
	"bizbooks/router"

	"github.com/spf13/cobra"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动 HTTP API 服务",
	Example: `  bizbooks serve
  bizbooks serve --port 9090 --config ./config.yaml`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "监听端口，如: 8080 或 :8080")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("serve")

	// 命令行参数覆盖端口配置
	if servePort != "" {
		cfg.Server.Port = normalizePort(servePort)
		log.Info().Str("port", cfg.Server.Port).Msg("命令行指定端口")
	}

	config.PrintConfig()

	if err := database.Init(cfg); err != nil {
		return fmt.Errorf("数据库初始化失败: %w", err)
	}

	r := router.SetupRouter(cfg)

	log.Info().
		Str("api", fmt.Sprintf("http://localhost%s/api/v1/", cfg.Server.Port)).
		Str("swagger", fmt.Sprintf("http://localhost%s/swagger/index.html", cfg.Server.Port)).
		Msg("记账服务已启动")

	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("服务器启动失败: %w", err)
	}
	return nil
}

// normalizePort 自动添加冒号前缀
func normalizePort(port string) string {
	if !strings.HasPrefix(port, ":") {
		return ":" + port
	}
	return port
}
