// Command sqlitepad is an educational SQLite workbench: it manages a
// directory of database files, browses their schemas, runs ad-hoc SQL,
// exports tables to CSV and renders an auto-generated ER diagram.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"sqlitepad/internal/config"
	"sqlitepad/internal/workspace"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries the persistent flags and the loaded configuration across
// subcommands.
type app struct {
	cfgPath string
	dataDir string
	dbName  string
	verbose bool

	cfg config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "sqlitepad",
		Short: "Educational SQLite workbench: schemas, ad-hoc SQL, CSV export, ER diagrams",
		Long: `sqlitepad manages a directory of SQLite database files for learning SQL:
it browses schemas, runs ad-hoc SQL, manages a default items table, exports
tables to CSV and renders an auto-generated ER diagram (SVG or text).

The schema and diagram commands also accept PostgreSQL and MySQL connection
URLs via --url.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "config file (default: "+config.DefaultFile+" if present)")
	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "directory holding the .db files (overrides config)")
	root.PersistentFlags().StringVar(&a.dbName, "db", workspace.DefaultDatabase, "database file name inside the data directory")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		a.listCmd(),
		a.createCmd(),
		a.schemaCmd(),
		a.sqlCmd(),
		a.browseCmd(),
		a.exportCmd(),
		a.rmCmd(),
		a.itemCmd(),
		a.diagramCmd(),
		a.examplesCmd(),
	)
	return root
}

func (a *app) init() error {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	path := a.cfgPath
	explicit := path != ""
	if path == "" {
		path = config.DefaultFile
	}
	cfg, err := config.Load(path, explicit)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if a.dataDir != "" {
		a.cfg.DataDir = a.dataDir
	}
	slog.Debug("configuration loaded", "data_dir", a.cfg.DataDir)
	return nil
}

func (a *app) workspace() *workspace.Workspace {
	return workspace.New(a.cfg.DataDir)
}

// session resolves the --db flag to a session, creating the default database
// on first use so the tool works out of the box.
func (a *app) session(ctx context.Context) (*workspace.Session, error) {
	ws := a.workspace()
	if a.dbName == workspace.DefaultDatabase {
		return ws.Ensure(ctx)
	}
	return ws.Session(a.dbName)
}
