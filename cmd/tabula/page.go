package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/syssam/tabula/dialect"
	"github.com/syssam/tabula/dialect/mssql"
)

type pagingFlags struct {
	limit  int
	offset int
	order  string
}

func (f *pagingFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.limit, "limit", dialect.NoLimit, "Maximum number of rows (negative for no limit)")
	cmd.Flags().IntVar(&f.offset, "offset", 0, "Number of rows to skip")
	cmd.Flags().StringVar(&f.order, "order", "", `Ordering as "column[:direction],..." (direction asc, desc or a number)`)
}

func (f *pagingFlags) paged() bool {
	return f.limit >= 0 || f.offset > 0
}

func (f *pagingFlags) orderSpec() (dialect.OrderSpec, error) {
	return dialect.ParseOrderSpec(f.order)
}

func newPageCmd() *cobra.Command {
	var flags pagingFlags
	cmd := &cobra.Command{
		Use:   "page [flags] <sql>",
		Short: "Rewrite a query to return one page of rows",
		Example: `  tabula page --limit 10 "SELECT * FROM users"
  tabula page --limit 10 --offset 30 --order "name:desc,id" "SELECT * FROM users"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := flags.orderSpec()
			if err != nil {
				return err
			}
			query, err := mssql.Rewrite(args[0], order, flags.limit, flags.offset)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), query)
			return err
		},
	}
	flags.register(cmd)
	return cmd
}
