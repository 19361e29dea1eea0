// Command bookpage serves and exports the "Un Andrés Más" pre-order site.
package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/patagonia-pages/bookpage/internal/config"
	"github.com/patagonia-pages/bookpage/internal/errors"
	"github.com/patagonia-pages/bookpage/internal/logging"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	dir        string
	logLevel   string
	logFormat  string
	noColor    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var coded *errors.Error
		if stderrors.As(err, &coded) {
			fmt.Fprint(os.Stderr, coded.Format())
		} else {
			fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "bookpage",
		Short: "Pre-order site for the book Un Andrés Más",
		Long: `bookpage serves the bilingual pre-order page of "Un Andrés Más",
a motorcycle memoir from Colombia to Patagonia.

The page renders on the server; a small live client keeps language,
navigation, the waitlist form and toasts in sync over a WebSocket.
The same page can be exported to static files for GitHub Pages.

Configuration comes from bookpage.json, then BOOKPAGE_* environment
variables, then command line flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&g.configPath, "config", "c", "", "Config file (default ./bookpage.json if present)")
	pf.StringVar(&g.dir, "dir", ".", "Directory to look for bookpage.json in")
	pf.StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&g.logFormat, "log-format", "", "Log format: text or json")
	pf.BoolVar(&g.noColor, "no-color", false, "Disable colored output")

	root.AddCommand(
		serveCmd(g),
		exportCmd(g),
		catalogCmd(),
		versionCmd(),
	)
	return root
}

// load resolves the configuration and applies the global flags.
func (g *globalFlags) load() (*config.Config, error) {
	cfg, err := config.Resolve(g.configPath, g.dir)
	if err != nil {
		return nil, err
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if g.logFormat != "" {
		cfg.Log.Format = g.logFormat
	}
	if g.noColor {
		errors.DisableColors()
	}
	return cfg, cfg.Validate()
}

// logger builds the logger for cfg and installs it as the default.
func (g *globalFlags) logger(w io.Writer, cfg *config.Config) (*slog.Logger, error) {
	logger, err := logging.New(w, logging.Options{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		NoColor: g.noColor,
	})
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return logger, nil
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
