package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/syssam/tabula/dialect"
	sqlx "github.com/syssam/tabula/dialect/sql"
)

func newQueryCmd() *cobra.Command {
	var (
		configPath string
		dsn        string
		sqlDriver  string
		format     string
		paging     pagingFlags
	)
	cmd := &cobra.Command{
		Use:   "query [flags] <sql>",
		Short: "Execute a statement and print its rows",
		Example: `  tabula query --config db.yaml "SELECT * FROM users"
  tabula query --config db.yaml --format json --limit 5 --order id "SELECT * FROM users"
  tabula query --sql-driver sqlite --dsn app.db "DELETE FROM sessions"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := newWriter(format, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			cfg := dialect.DefaultConfig()
			if configPath != "" {
				if cfg, err = dialect.LoadConfig(configPath); err != nil {
					return err
				}
			}
			if dsn != "" {
				cfg.DSN = dsn
			}
			if sqlDriver != "" {
				cfg.SQLDriver = sqlDriver
			}

			ctx := cmd.Context()
			statsDrv, stats, err := sqlx.ConnectWithStats(ctx, cfg, sqlx.WithSlowQueryLog())
			if err != nil {
				return err
			}
			drv := sqlx.NewDebugDriver(statsDrv, sqlx.DebugWithLog(func(ctx context.Context, v ...any) {
				slog.DebugContext(ctx, fmt.Sprint(v...))
			}))
			defer func() {
				slog.Debug("tabula: statements", "stats", stats.Stats().String())
				if err := drv.Disconnect(); err != nil {
					slog.Warn("tabula: disconnect", "error", err)
				}
			}()

			query := args[0]
			if paging.paged() {
				order, err := paging.orderSpec()
				if err != nil {
					return err
				}
				if query, err = drv.ApplyLimit(query, order, paging.limit, paging.offset); err != nil {
					return err
				}
			}
			res, err := drv.Execute(ctx, query)
			if err != nil {
				return err
			}
			if res == nil {
				n, err := drv.AffectedRows(ctx)
				if err != nil {
					return err
				}
				return w.affected(n)
			}
			defer res.Free()
			return w.result(res)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML connection config")
	cmd.Flags().StringVar(&dsn, "dsn", "", "Connection string, overrides the config")
	cmd.Flags().StringVar(&sqlDriver, "sql-driver", "", `database/sql driver, overrides the config (e.g. "sqlserver", "sqlite")`)
	cmd.Flags().StringVarP(&format, "format", "f", formatText, fmt.Sprintf("Output format (%s|%s|%s)", formatText, formatJSON, formatMsgpack))
	paging.register(cmd)
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{formatText, formatJSON, formatMsgpack}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}
