package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ironsheep/wordtile-ocr/internal/config"
	"github.com/ironsheep/wordtile-ocr/internal/ocr"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// app carries the settings shared by all subcommands.
type app struct {
	cfg *config.Config

	envFile    string
	letters    string
	bonus      string
	noBinarize bool
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "wordtile-ocr: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "wordtile-ocr",
		Short:         "Read word game boards from screenshots",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.envFile, "env-file", ".env", "optional file of environment variables")
	flags.StringVar(&a.letters, "letters", "", "directory of letter templates (env "+config.EnvLetters+")")
	flags.StringVar(&a.bonus, "bonus", "", "directory of bonus templates (env "+config.EnvBonus+")")
	flags.BoolVar(&a.noBinarize, "no-binarize", false, "match letters on gray tiles")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (env "+config.EnvLogLevel+")")

	root.AddCommand(
		newRecognizeCmd(a),
		newLayoutCmd(a),
		newCollageCmd(a),
		newSaveTemplatesCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)

	return root
}

// setup loads the configuration and applies the command line overrides.
func (a *app) setup(cmd *cobra.Command) error {
	// Logs go to stderr; stdout carries results and the MCP protocol.
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if err := config.LoadDotEnv(a.envFile); err != nil {
		log.WithError(err).Warnf("could not load %s", a.envFile)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("letters") {
		cfg.LettersDir = a.letters
	}
	if flags.Changed("bonus") {
		cfg.BonusDir = a.bonus
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if a.noBinarize {
		cfg.Binarize = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log.SetLevel(cfg.Level())
	a.cfg = cfg
	return nil
}

// recognizer loads both template sets.
func (a *app) recognizer() (*ocr.Recognizer, error) {
	letters, err := ocr.LoadTemplateDir(a.cfg.LettersDir)
	if err != nil {
		return nil, fmt.Errorf("letter templates: %w", err)
	}
	bonus, err := ocr.LoadTemplateDir(a.cfg.BonusDir)
	if err != nil {
		return nil, fmt.Errorf("bonus templates: %w", err)
	}
	log.WithFields(log.Fields{
		"letters": letters.Len(),
		"bonus":   bonus.Len(),
	}).Debug("templates loaded")

	opts := ocr.DefaultOptions()
	opts.Binarize = a.cfg.Binarize
	return ocr.NewRecognizer(letters, bonus, opts)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "wordtile-ocr %s\n", Version)
			fmt.Fprintf(out, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(out, "  Git commit: %s\n", GitCommit)
		},
	}
}
