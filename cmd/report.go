package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"bizbooks/database"
	"bizbooks/ledger"
	"bizbooks/logger"
	"bizbooks/store"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "输出某个账套的汇总与资产负债表（JSON）",
	Example: `  bizbooks report --user 1
  bizbooks report --user 1 --as-of 2025-06-30`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().Uint("user", 0, "账套所属用户 ID")
	reportCmd.Flags().String("as-of", "", "资产负债表截止日期 (YYYY-MM-DD，默认今天)")
	_ = reportCmd.MarkFlagRequired("user")
}

// Report report 命令输出
type Report struct {
	UserID       uint                `json:"user_id"`
	Summary      ledger.Summary      `json:"summary"`
	BalanceSheet ledger.BalanceSheet `json:"balance_sheet"`
}

func runReport(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("report")

	userID, _ := cmd.Flags().GetUint("user")
	asOfStr, _ := cmd.Flags().GetString("as-of")

	engine := ledger.NewEngine(nil, cfg.Ledger.Location())
	asOf, err := parseAsOf(asOfStr, engine)
	if err != nil {
		return err
	}

	if err := database.Init(cfg); err != nil {
		return fmt.Errorf("数据库初始化失败: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	book, err := store.New(database.DB).LoadBook(ctx, userID)
	if err != nil {
		return err
	}

	log.Info().Uint("user_id", userID).Str("as_of", asOf.Format("2006-01-02")).Msg("生成报表")
	return writeReport(cmd.OutOrStdout(), engine, userID, book, asOf)
}

// parseAsOf 空值取引擎当前时间
func parseAsOf(s string, engine *ledger.Engine) (time.Time, error) {
	if s == "" {
		return engine.Now(), nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, engine.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("截止日期格式错误，应为 YYYY-MM-DD: %w", err)
	}
	return t, nil
}

func writeReport(w io.Writer, engine *ledger.Engine, userID uint, book *ledger.Book, asOf time.Time) error {
	report := Report{
		UserID:       userID,
		Summary:      engine.Summarize(book),
		BalanceSheet: engine.BalanceSheet(book, asOf),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
