/* Copyright 2018 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package main is a command-line tool for case tables.
//
//	choose render -t pages.yaml -s about -s '"5"' -d '{"user":"homer"}'
//	choose js -e 'return choose(2, [[1, () => "one"], [2, () => "two"]]);'
//	choose --db tables.db put pages pages.yaml
//	choose --db tables.db render -n pages -s home
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/Comcast/choose/interpreters/goja"
	"github.com/Comcast/choose/storage"
	"github.com/Comcast/choose/storage/bolt"
	"github.com/Comcast/choose/table"
	"github.com/Comcast/choose/tools"
	"github.com/Comcast/choose/util"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		os.Exit(1)
	}
}

// run executes the command line and then releases whatever the
// command opened, even if the command failed.
func run(args []string, out io.Writer) error {
	app := &App{}
	cmd := app.rootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(out)

	err := cmd.Execute()
	if cerr := app.close(); err == nil {
		err = cerr
	}
	return err
}

// App is the state shared by all subcommands.
type App struct {
	configPath string
	dbPath     string
	verbose    bool
	timeout    time.Duration

	config  *Config
	logger  *zap.Logger
	storage storage.Storage
}

func (app *App) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           path.Base(os.Args[0]),
		Short:         "Render the first matching case of a case table",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&app.configPath, "config", "c", "", "Path to a config file.")
	flags.StringVar(&app.dbPath, "db", "", "BoltDB file for stored tables (overrides the config).")
	flags.BoolVarP(&app.verbose, "verbose", "v", false, "Log at debug level.")
	flags.DurationVar(&app.timeout, "timeout", 10*time.Second, "Limit for each command.")

	cmd.AddCommand(
		app.renderCmd(),
		app.jsCmd(),
		app.htmlCmd(),
		app.checkCmd(),
		app.putCmd(),
		app.getCmd(),
		app.lsCmd(),
		app.rmCmd(),
	)

	return cmd
}

func (app *App) init() error {
	config, err := LoadConfig(app.configPath)
	if err != nil {
		return err
	}
	if app.verbose {
		config.Logging.Level = zap.DebugLevel
	}
	if app.dbPath != "" {
		config.Storage.Bolt = app.dbPath
	}
	app.config = config

	if app.logger, err = NewLogger(config.Logging); err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	return nil
}

func (app *App) close() error {
	if app.storage != nil {
		if err := app.storage.Close(context.Background()); err != nil {
			return err
		}
		app.storage = nil
	}
	if app.logger != nil {
		// Syncing stderr can fail harmlessly on some platforms.
		_ = app.logger.Sync()
	}
	return nil
}

func (app *App) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), app.timeout)
}

var NoStorage = errors.New("no storage configured (see --db)")

func (app *App) openStorage(ctx context.Context) (storage.Storage, error) {
	if app.storage != nil {
		return app.storage, nil
	}
	if app.config.Storage.Bolt == "" {
		return nil, NoStorage
	}
	s, err := bolt.NewStorage(app.config.Storage.Bolt)
	if err != nil {
		return nil, err
	}
	s.Logger = app.logger
	if err = s.Open(ctx); err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", app.config.Storage.Bolt, err)
	}
	app.storage = s
	return s, nil
}

func (app *App) interpreter() *goja.Interpreter {
	i := goja.NewInterpreter()
	i.Logger = app.logger
	return i
}

// loadTable reads a table from a file or, given a name, from storage.
func (app *App) loadTable(ctx context.Context, filename, name string) (*table.Table, error) {
	var (
		t   *table.Table
		err error
	)
	switch {
	case filename != "" && name != "":
		return nil, errors.New("give a table file or a table name, not both")
	case filename != "":
		t, err = table.ReadFile(filename)
	case name != "":
		var s storage.Storage
		if s, err = app.openStorage(ctx); err != nil {
			return nil, err
		}
		t, err = storage.LoadTable(ctx, s, name)
	default:
		return nil, errors.New("no table given")
	}
	if err != nil {
		return nil, err
	}

	t.Logger = app.logger
	if err = t.Compile(ctx, app.interpreter()); err != nil {
		return nil, err
	}
	return t, nil
}

func parseData(s string) (interface{}, error) {
	if s == "" {
		return nil, nil
	}
	data, err := table.ParseValue(s)
	if err != nil {
		return nil, fmt.Errorf("bad data: %w", err)
	}
	return data, nil
}

func (app *App) renderCmd() *cobra.Command {
	var (
		filename string
		name     string
		subjects []string
		dataSrc  string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a table for each subject",
		Long: `Render a table for each subject.

Subjects are parsed as YAML, so 5 is a number and '"5"' is a string.
Outputs are written in the order of the subjects.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.context()
			defer cancel()

			t, err := app.loadTable(ctx, filename, name)
			if err != nil {
				return err
			}

			data, err := parseData(dataSrc)
			if err != nil {
				return err
			}

			if len(subjects) == 0 {
				subjects = []string{""}
			}

			outputs, err := app.renderAll(ctx, t, subjects, data)
			if err != nil {
				return err
			}

			return writeOutputs(cmd.OutOrStdout(), outputs)
		},
	}

	cmd.Flags().StringVarP(&filename, "table", "t", "", "Table file.")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Name of a stored table.")
	cmd.Flags().StringArrayVarP(&subjects, "subject", "s", nil, "Subject (repeatable).")
	cmd.Flags().StringVarP(&dataSrc, "data", "d", "", "Data for the bodies in JSON or YAML.")

	return cmd
}

// writeOutputs writes each non-empty output on its own line(s) and
// returns the first write error.
func writeOutputs(w io.Writer, outputs []string) error {
	for _, out := range outputs {
		if out == "" {
			continue
		}
		if !strings.HasSuffix(out, "\n") {
			out += "\n"
		}
		if _, err := io.WriteString(w, out); err != nil {
			return fmt.Errorf("write: %w", err)
		}
	}
	return nil
}

// renderAll renders each subject concurrently.
func (app *App) renderAll(ctx context.Context, t *table.Table, subjects []string, data interface{}) ([]string, error) {
	outputs := make([]string, len(subjects))

	g, ctx := errgroup.WithContext(ctx)
	for i, src := range subjects {
		i, src := i, src
		g.Go(func() error {
			subject, err := table.ParseValue(src)
			if err != nil {
				return fmt.Errorf("bad subject %q: %w", src, err)
			}
			out, ok, err := t.RenderString(ctx, subject, data)
			if err != nil {
				return fmt.Errorf("subject %q: %w", src, err)
			}
			if !ok {
				app.logger.Info("no case matched", zap.String("table", t.Name), zap.String("subject", src))
			}
			outputs[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outputs, nil
}

func (app *App) jsCmd() *cobra.Command {
	var (
		code     string
		requires []string
		libDir   string
		dataSrc  string
	)

	cmd := &cobra.Command{
		Use:   "js [file]",
		Short: "Evaluate JavaScript that can call choose() and print the result as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.context()
			defer cancel()

			switch {
			case code != "" && len(args) == 1:
				return errors.New("give code or a file, not both")
			case len(args) == 1:
				bs, err := os.ReadFile(args[0])
				if err != nil {
					return err
				}
				code = string(bs)
			case code == "":
				return errors.New("no code given")
			}

			data, err := parseData(dataSrc)
			if err != nil {
				return err
			}

			i := app.interpreter()
			i.LibraryProvider = goja.MakeFileLibraryProvider(libDir)

			libs := make([]interface{}, len(requires))
			for n, lib := range requires {
				libs[n] = lib
			}

			x, err := i.Eval(ctx, map[string]interface{}{
				"code":     code,
				"requires": libs,
			}, data)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), util.JS(x))
			return nil
		},
	}

	cmd.Flags().StringVarP(&code, "eval", "e", "", "Code (a function body).")
	cmd.Flags().StringArrayVarP(&requires, "require", "r", nil, "Library URL like file://lib.js (repeatable).")
	cmd.Flags().StringVarP(&libDir, "libs", "l", ".", "Directory for file:// libraries.")
	cmd.Flags().StringVarP(&dataSrc, "data", "d", "", "Data (at _.data) in JSON or YAML.")

	return cmd
}

func (app *App) htmlCmd() *cobra.Command {
	var (
		filename string
		name     string
		cssFiles []string
	)

	cmd := &cobra.Command{
		Use:   "html",
		Short: "Write an HTML page documenting a table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.context()
			defer cancel()

			t, err := app.loadTable(ctx, filename, name)
			if err != nil {
				return err
			}
			return tools.RenderTablePage(t, cmd.OutOrStdout(), cssFiles)
		},
	}

	cmd.Flags().StringVarP(&filename, "table", "t", "", "Table file.")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Name of a stored table.")
	cmd.Flags().StringArrayVar(&cssFiles, "css", nil, "Stylesheet URL (repeatable).")

	return cmd
}

func (app *App) checkCmd() *cobra.Command {
	var (
		filename string
		name     string
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Compile a table and print any warnings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.context()
			defer cancel()

			t, err := app.loadTable(ctx, filename, name)
			if err != nil {
				return err
			}

			a := tools.Analyze(t)
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s: %d cases, default %v\n", a.Name, a.Cases, a.HasDefault)
			for _, warning := range a.Warnings {
				fmt.Fprintf(w, "warning: %s\n", warning)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&filename, "table", "t", "", "Table file.")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Name of a stored table.")

	return cmd
}

func (app *App) putCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "put NAME FILE",
		Short: "Check a table and store it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.context()
			defer cancel()

			name, filename := args[0], args[1]

			// Check before storing.
			if _, err := app.loadTable(ctx, filename, ""); err != nil {
				return err
			}

			src, err := os.ReadFile(filename)
			if err != nil {
				return err
			}

			s, err := app.openStorage(ctx)
			if err != nil {
				return err
			}
			if err = s.PutTable(ctx, name, src); err != nil {
				return err
			}
			app.logger.Info("stored", zap.String("table", name), zap.String("from", filename))
			return nil
		},
	}
}

func (app *App) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get NAME",
		Short: "Print a stored table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.context()
			defer cancel()

			s, err := app.openStorage(ctx)
			if err != nil {
				return err
			}
			src, err := s.GetTable(ctx, args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			_, err = cmd.OutOrStdout().Write(src)
			return err
		},
	}
}

func (app *App) lsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List stored tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.context()
			defer cancel()

			s, err := app.openStorage(ctx)
			if err != nil {
				return err
			}
			names, err := s.ListTables(ctx)
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

func (app *App) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm NAME...",
		Short: "Remove stored tables",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.context()
			defer cancel()

			s, err := app.openStorage(ctx)
			if err != nil {
				return err
			}
			for _, name := range args {
				if err := s.RemTable(ctx, name); err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
			}
			return nil
		},
	}
}
