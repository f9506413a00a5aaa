package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/joacominatel/omnidb/internal/database"
)

type treeTable struct {
	Name   string `json:"name"`
	Schema string `json:"schema,omitempty"`
	Engine string `json:"engine,omitempty"`
}

type treeDatabase struct {
	Name   string      `json:"name"`
	Tables []treeTable `json:"tables"`
}

// NewDatabasesCommand creates the databases command.
func NewDatabasesCommand(root *RootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "databases",
		Aliases: []string{"dbs", "tree"},
		Short:   "List databases with their schemas and tables",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			dbs, err := svc.LoadDatabases(cmd.Context())
			if err != nil {
				return err
			}

			if format == FormatJSON {
				return writeTreeJSON(cmd, dbs)
			}
			renderTree(cmd.OutOrStdout(), dbs)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", FormatTable, "Output format: table, json")
	return cmd
}

func writeTreeJSON(cmd *cobra.Command, dbs []database.Database) error {
	out := make([]treeDatabase, 0, len(dbs))
	for _, db := range dbs {
		tables := []treeTable{}
		for _, t := range db.Tables() {
			tables = append(tables, treeTable{Name: t.Name, Schema: t.Schema, Engine: t.Engine})
		}
		out = append(out, treeDatabase{Name: db.Name, Tables: tables})
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
