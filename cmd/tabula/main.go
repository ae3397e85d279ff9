// Command tabula rewrites paged queries for SQL Server and runs statements
// through the tabula dialects.
//
//	tabula page --limit 10 --offset 20 --order "created:desc,id" "SELECT * FROM orders"
//	tabula query --config db.yaml --format json "SELECT TOP 5 * FROM orders"
package main

import (
	"context"
	"fmt"
	"os"

	_ "github.com/microsoft/go-mssqldb"
	_ "modernc.org/sqlite"

	_ "github.com/syssam/tabula/dialect/mssql"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "tabula:", err)
		os.Exit(1)
	}
}
