package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/az-ai-labs/ru-numtext/internal/config"
	"github.com/az-ai-labs/ru-numtext/numtext"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// app holds state shared by all subcommands.
type app struct {
	cfgFile string
	manager *config.Manager
	level   slog.LevelVar
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "runum",
		Short: "Replace spelled-out Russian numbers with digits",
		Long: `runum finds runs of Russian numeral words in text and replaces each run
with its decimal value, leaving everything else byte-for-byte intact.

  "стоимость составляет две тысячи триста рублей" -> "стоимость составляет 2300 рублей"

Cardinals, ordinals in any gender and case, and the scale words тысяча,
миллион and миллиард are recognized. Configuration is read from
./runum.yaml, ~/.runum/runum.yaml or --config, and RUNUM_* variables.`,
		Version:       version,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVar(
		&a.cfgFile, "config", "", "config file (default: ./runum.yaml or ~/.runum/runum.yaml)",
	)

	root.AddCommand(
		newConvertCmd(a),
		newParseCmd(a),
		newWordCmd(a),
		newDatesCmd(a),
		newSelftestCmd(a),
		newServeCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return root
}

// load reads configuration and sets up the logger.
func (a *app) load(stderr io.Writer) error {
	m, err := config.NewManager(a.cfgFile)
	if err != nil {
		return err
	}
	a.manager = m

	cfg := m.Get()
	a.setLevel(cfg)
	opts := &slog.HandlerOptions{Level: &a.level}
	var h slog.Handler
	if cfg.Log.Format == "json" {
		h = slog.NewJSONHandler(stderr, opts)
	} else {
		h = slog.NewTextHandler(stderr, opts)
	}
	a.logger = slog.New(h)
	a.logger.Debug("configuration loaded", "file", m.File())
	return nil
}

func (a *app) setLevel(cfg *config.Config) {
	if lv, err := cfg.Log.SlogLevel(); err == nil {
		a.level.Set(lv)
	}
}

// converter builds a Converter from the current configuration.
func (a *app) converter(extra ...numtext.Option) *numtext.Converter {
	cfg := a.manager.Get()
	opts := []numtext.Option{
		numtext.WithCacheSize(cfg.Converter.CacheSize),
		numtext.WithPunctuationSplit(cfg.Converter.SplitPunctuation),
		numtext.WithLogger(a.logger),
	}
	return numtext.New(append(opts, extra...)...)
}
