package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"sqlitepad"
	"sqlitepad/internal/store"
)

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the database files in the data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := a.workspace().List()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func (a *app) createCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name.db>",
		Short: "Create a new database seeded with the default items table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.workspace().Create(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", sess.Path())
			return nil
		},
	}
}

func (a *app) schemaCmd() *cobra.Command {
	var (
		url        string
		format     string
		outputFile string
		tables     string
		exclude    string
		schemaName string
	)

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			databaseURL, err := a.databaseURL(cmd, url)
			if err != nil {
				return err
			}

			s, err := sqlitepad.ExtractSchema(cmd.Context(), databaseURL, &sqlitepad.Options{
				Tables:        splitList(tables),
				ExcludeTables: splitList(exclude),
				SchemaName:    schemaName,
			})
			if err != nil {
				return fmt.Errorf("failed to extract schema: %w", err)
			}

			writer, closeFn, err := outputWriter(cmd, outputFile)
			if err != nil {
				return err
			}
			defer closeFn()

			return sqlitepad.FormatSchema(s, &sqlitepad.OutputOptions{Writer: writer, Format: format})
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "database connection URL (postgres://, mysql:// or sqlite://; default: the --db file)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text or markdown")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&tables, "tables", "t", "", "specific tables (comma-separated, optional)")
	cmd.Flags().StringVar(&exclude, "exclude", "", "tables to exclude (comma-separated, optional)")
	cmd.Flags().StringVarP(&schemaName, "schema", "s", "", "database schema name (PostgreSQL/MySQL)")
	return cmd
}

func (a *app) sqlCmd() *cobra.Command {
	var scriptFile string

	cmd := &cobra.Command{
		Use:   "sql [script]",
		Short: "Run an ad-hoc SQL script (separate statements with semicolons)",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			script := strings.Join(args, " ")
			switch {
			case scriptFile == "-":
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read script from stdin: %w", err)
				}
				script = string(data)
			case scriptFile != "":
				data, err := os.ReadFile(scriptFile)
				if err != nil {
					return fmt.Errorf("failed to read script: %w", err)
				}
				script = string(data)
			}
			if strings.TrimSpace(script) == "" {
				return fmt.Errorf("no SQL given (pass a script argument or --file)")
			}

			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}

			res, err := store.New(sess).RunScript(cmd.Context(), script)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(res.Columns) > 0 {
				printResult(out, res)
				return nil
			}
			fmt.Fprintf(out, "OK. Rows affected: %d\n", res.Affected)
			return nil
		},
	}

	cmd.Flags().StringVarP(&scriptFile, "file", "f", "", "read the script from a file (- for stdin)")
	return cmd
}

func (a *app) browseCmd() *cobra.Command {
	var whereExpr string

	cmd := &cobra.Command{
		Use:   "browse <table>",
		Short: "Print the rows of a table, optionally filtered",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}

			res, err := store.New(sess).Browse(cmd.Context(), args[0], whereExpr)
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), res)
			fmt.Fprintf(cmd.OutOrStdout(), "%d rows from %q\n", len(res.Rows), args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&whereExpr, "where", "", "raw WHERE filter expression")
	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "export <table>",
		Short: "Export a table as semicolon-delimited CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}

			writer, closeFn, err := outputWriter(cmd, outputFile)
			if err != nil {
				return err
			}
			defer closeFn()

			n, err := store.New(sess).ExportCSV(cmd.Context(), args[0], writer)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%d rows from %q exported\n", n, args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func (a *app) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <table> <pk-value>",
		Short: "Delete one row by its primary key value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}

			n, err := store.New(sess).DeleteRow(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d row(s) deleted from %q\n", n, args[0])
			return nil
		},
	}
}

func (a *app) itemCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage the default items table",
	}

	var name, description string
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a row to the items table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			if err := store.New(sess).AddItem(cmd.Context(), name, description); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "item added")
			return nil
		},
	}
	add.Flags().StringVarP(&name, "name", "n", "", "item name (required)")
	add.Flags().StringVarP(&description, "description", "d", "", "item description")
	_ = add.MarkFlagRequired("name")

	list := &cobra.Command{
		Use:   "list",
		Short: "List the items table, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			res, err := store.New(sess).ListItems(cmd.Context())
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}

	cmd.AddCommand(add, list)
	return cmd
}

func (a *app) diagramCmd() *cobra.Command {
	var (
		url        string
		format     string
		outputFile string
		width      int
		schemaName string
	)

	cmd := &cobra.Command{
		Use:   "diagram",
		Short: "Render the ER diagram of the current schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			databaseURL, err := a.databaseURL(cmd, url)
			if err != nil {
				return err
			}

			s, err := sqlitepad.ExtractSchema(cmd.Context(), databaseURL, &sqlitepad.Options{
				SchemaName: schemaName,
			})
			if err != nil {
				return fmt.Errorf("failed to extract schema: %w", err)
			}

			writer, closeFn, err := outputWriter(cmd, outputFile)
			if err != nil {
				return err
			}
			defer closeFn()

			geometry := a.cfg.Geometry()
			if width > 0 {
				geometry.CanvasWidth = width
			}
			return sqlitepad.RenderDiagram(s, &sqlitepad.DiagramOptions{
				Writer:   writer,
				Format:   format,
				Geometry: geometry,
			})
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "database connection URL (postgres://, mysql:// or sqlite://; default: the --db file)")
	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: svg or text")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().IntVarP(&width, "width", "w", 0, "canvas width in pixels (default from config)")
	cmd.Flags().StringVarP(&schemaName, "schema", "s", "", "database schema name (PostgreSQL/MySQL)")
	return cmd
}

// databaseURL resolves the --url flag, defaulting to the workspace database
// selected by --db.
func (a *app) databaseURL(cmd *cobra.Command, url string) (string, error) {
	if url != "" {
		return url, nil
	}
	sess, err := a.session(cmd.Context())
	if err != nil {
		return "", err
	}
	return "sqlite://" + sess.Path(), nil
}

// outputWriter opens the -o target, or hands back the command's stdout with a
// no-op closer.
func outputWriter(cmd *cobra.Command, outputFile string) (io.Writer, func(), error) {
	if outputFile == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}
	f, err := os.Create(outputFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() {
		if err := f.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: failed to close output file: %v\n", err)
		}
	}, nil
}

// printResult writes a query result as an aligned table.
func printResult(w io.Writer, res *store.Result) {
	if len(res.Columns) == 0 {
		return
	}
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(res.Columns, "\t"))
	for _, row := range res.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	_ = tw.Flush()
}

// splitList parses a comma-separated flag value.
func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
