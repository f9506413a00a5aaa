package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joacominatel/omnidb/internal/database"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Format string
	Input  string
}

// NewQueryCommand creates the query command.
func NewQueryCommand(root *RootOptions) *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Run a SQL statement and print the result",
		Long: `Run one SQL statement. Statements starting with SELECT print their rows;
anything else prints the number of affected rows.`,
		Example: `  omnidb query --dsn mysql://root@localhost/shop "SELECT * FROM orders"
  omnidb query -c local -i cleanup.sql
  omnidb query --dsn sqlite://app.db --format json "SELECT id, name FROM users"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, root, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", FormatTable, "Output format: table, json, csv, md")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")

	return cmd
}

func runQuery(cmd *cobra.Command, root *RootOptions, opts *QueryOptions, args []string) error {
	if err := validateFormat(opts.Format); err != nil {
		return err
	}

	var query string
	switch {
	case opts.Input != "":
		b, err := os.ReadFile(opts.Input)
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		query = string(b)
	case len(args) == 1:
		query = args[0]
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return fmt.Errorf("no SQL given: pass it as an argument or with --input")
	}

	e, err := setup(root, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.Close()

	svc, err := connect(cmd.Context(), e, root)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Disconnect() }()

	res, err := svc.Execute(cmd.Context(), query)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if res.Kind == database.ResultWrite {
		_, _ = fmt.Fprintf(w, "%d row(s) affected\n", res.UpdatedRows)
		return nil
	}
	return renderRows(w, "", res.Headers, res.Rows, opts.Format)
}
