package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joacominatel/omnidb/internal/app"
	"github.com/joacominatel/omnidb/internal/database"
)

// DescribeOptions holds options for the describe command.
type DescribeOptions struct {
	Database string
	Schema   string
	Only     string
	Format   string
}

var rowKinds = map[string]database.RowKind{
	"columns":      database.RowColumn,
	"constraints":  database.RowConstraint,
	"foreign-keys": database.RowForeignKey,
	"indexes":      database.RowIndex,
}

// NewDescribeCommand creates the describe command.
func NewDescribeCommand(root *RootOptions) *cobra.Command {
	opts := &DescribeOptions{}

	cmd := &cobra.Command{
		Use:   "describe TABLE",
		Short: "Show a table's columns, constraints, foreign keys and indexes",
		Long: `Show the catalog metadata of one table. TABLE may be schema-qualified.
Without --database the target must expose exactly one database.`,
		Example: `  omnidb describe --dsn sqlite://app.db users
  omnidb describe -c prod --database app public.orders --only indexes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDescribe(cmd, root, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.Database, "database", "d", "", "Database holding the table")
	cmd.Flags().StringVarP(&opts.Schema, "schema", "s", "", "Schema holding the table")
	cmd.Flags().StringVar(&opts.Only, "only", "", "Show one section: columns, constraints, foreign-keys, indexes")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", FormatTable, "Output format: table, json, csv, md")

	return cmd
}

func runDescribe(cmd *cobra.Command, root *RootOptions, opts *DescribeOptions, name string) error {
	if err := validateFormat(opts.Format); err != nil {
		return err
	}
	if opts.Only != "" {
		if _, ok := rowKinds[opts.Only]; !ok {
			return fmt.Errorf("unknown section %q", opts.Only)
		}
	}

	table := database.Table{Name: name, Schema: opts.Schema}
	if schema, rest, ok := strings.Cut(name, "."); ok && opts.Schema == "" {
		table = database.Table{Name: rest, Schema: schema}
	}

	e, err := setup(root, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := cmd.Context()
	svc, err := connect(ctx, e, root)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Disconnect() }()

	db, err := resolveDatabase(ctx, svc, opts.Database)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if opts.Only != "" {
		kind := rowKinds[opts.Only]
		rows, err := svc.LoadMetadata(ctx, kind, db, table)
		if err != nil {
			return err
		}
		return renderTableRows(w, kind, rows, opts.Format)
	}

	meta, err := svc.LoadTableMetadata(ctx, db, table)
	if err != nil {
		return err
	}
	return renderMetadata(w, meta, opts.Format)
}

func renderMetadata(w io.Writer, meta *app.TableMetadata, format string) error {
	for _, kind := range []database.RowKind{database.RowColumn, database.RowConstraint, database.RowForeignKey, database.RowIndex} {
		if err := renderTableRows(w, kind, meta.Rows(kind), format); err != nil {
			return err
		}
	}
	return nil
}

// resolveDatabase returns the named database, or the only one the target
// exposes when name is empty.
func resolveDatabase(ctx context.Context, svc *app.Service, name string) (database.Database, error) {
	if name != "" {
		return database.NewDatabase(name, nil), nil
	}
	dbs, err := svc.LoadDatabases(ctx)
	if err != nil {
		return database.Database{}, err
	}
	if len(dbs) != 1 {
		return database.Database{}, fmt.Errorf("target has %d databases: pass --database", len(dbs))
	}
	return dbs[0], nil
}
