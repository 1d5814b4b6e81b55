// Package main provides the repochunk CLI application.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/repochunk/repochunk/pkg/config"
	"github.com/repochunk/repochunk/pkg/observability"
	"github.com/repochunk/repochunk/pkg/serialize"
	"github.com/repochunk/repochunk/pkg/version"
)

// rootFlags holds the flags of the default serialize command.
type rootFlags struct {
	maxSize   string
	tokens    bool
	stream    bool
	outputDir string
	config    string
	ignore    []string
	debug     bool
}

// newRootCmd builds the command tree. The root command serializes the
// directories given as arguments.
func newRootCmd() *cobra.Command {
	opts := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "repochunk [dirs...]",
		Short: "Serialize a repository into prioritized chunks for LLM context",
		Long: `repochunk walks one or more directories and packs their text files into
size-bounded chunks, least important first, so the most important files
end up last, closest to the question.

Importance comes from priority_rules in the config file plus a boost for
files changed recently in git. Chunks go to stdout when it is not a
terminal (or with --stream), otherwise to files in --output-dir.`,
		Version:       version.FullString(),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSerialize(cmd, args, opts)
		},
	}

	f := rootCmd.Flags()
	f.StringVar(&opts.maxSize, "max-size", config.DefaultMaxSize, "Chunk capacity, e.g. 10MB, or 128K in token mode")
	f.BoolVar(&opts.tokens, "tokens", false, "Measure content in whitespace-separated tokens instead of bytes")
	f.BoolVar(&opts.stream, "stream", false, "Write chunks to stdout (default when stdout is not a terminal)")
	f.StringVar(&opts.outputDir, "output-dir", "", "Directory for chunk files (default is a temp directory)")
	f.StringVarP(&opts.config, "config", "c", "", "Path to configuration file")
	f.StringSliceVar(&opts.ignore, "ignore", nil, "Additional ignore patterns")
	f.BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd())
	return rootCmd
}

// runSerialize loads configuration, applies flags and runs the pipeline.
func runSerialize(cmd *cobra.Command, args []string, opts *rootFlags) error {
	cfg, path, err := loadConfig(args, opts.config)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg, opts)

	out := cmd.OutOrStdout()
	if !cmd.Flags().Changed("stream") && !cfg.Stream && cfg.OutputDir == "" && !isTerminal(out) {
		cfg.Stream = true
	}

	logger := observability.NewRunLogger(cfg.LogLevel())
	if path != "" {
		logger.Debug("loaded config file", observability.String("path", path))
	}
	logger.Debug("starting run",
		observability.Any("dirs", cfg.InputDirs),
		observability.String("mode", cfg.Mode().String()),
		observability.String("max_size", cfg.EffectiveSize()),
		observability.Bool("stream", cfg.Stream),
	)

	res, err := serialize.New(cfg, out, logger).Run(cmd.Context())
	if err != nil {
		return err
	}
	if res.ManifestPath != "" {
		fmt.Fprintln(out, res.ManifestPath)
	}
	return nil
}

// loadConfig discovers configuration starting at the first input directory.
func loadConfig(args []string, explicit string) (*config.Config, string, error) {
	dirs := args
	if len(dirs) == 0 {
		dirs = []string{"."}
	}

	loader := config.NewLoader().WithStartDir(dirs[0])
	if explicit != "" {
		loader.WithConfigFile(explicit)
	}
	cfg, path, err := loader.Load()
	if err != nil {
		return nil, path, err
	}
	cfg.InputDirs = dirs
	return cfg, path, nil
}

// applyFlags overrides cfg with every flag set on the command line.
func applyFlags(cmd *cobra.Command, cfg *config.Config, opts *rootFlags) {
	flags := cmd.Flags()
	if flags.Changed("max-size") {
		cfg.MaxSize = opts.maxSize
	}
	if flags.Changed("tokens") {
		cfg.TokenMode = opts.tokens
	}
	if flags.Changed("stream") {
		cfg.Stream = opts.stream
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir = opts.outputDir
	}
	if flags.Changed("debug") {
		cfg.Debug = opts.debug
	}
	cfg.IgnorePatterns = append(cfg.IgnorePatterns, opts.ignore...)
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
