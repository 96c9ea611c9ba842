package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/catmerge/internal/config"
	"github.com/dusk-indust/catmerge/internal/logging"
	"github.com/dusk-indust/catmerge/internal/orchestrator"
)

// app carries the settings shared by every command.
type app struct {
	configDir string
	logLevel  string
	logFormat string

	workers          int
	keepBackup       bool
	preferNewerShell bool
	diagramCommand   string

	cfg *config.ProjectConfig
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "catmerge",
		Short: "Merge conformance test catalog artifacts",
		Long: "catmerge merges the engines registry, the feature tree and the engine-dependent\n" +
			"and engine-independent test collections of a conformance test catalog,\n" +
			"moving referenced files into the canonical files/ layout on the way.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configDir, "config", ".", "directory holding catmerge.yml")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error (default from config, else info)")
	pf.StringVar(&a.logFormat, "log-format", "", "log format: text or json (default from config, else text)")
	pf.IntVar(&a.workers, "workers", 0, "concurrent file copies (default from config, else 8)")
	pf.BoolVar(&a.keepBackup, "keep-backup", true, "write orig-<name> before remapping an artifact")
	pf.BoolVar(&a.preferNewerShell, "prefer-newer-shell", false, "keep the newer node's fields when a tree node is on both sides")
	pf.StringVar(&a.diagramCommand, "diagram-command", "", "command that renders the diagrams of a directory")

	root.AddCommand(
		newMergeCmd(a),
		newMergeRunsCmd(a),
		newRemapCmd(a),
		newCheckCmd(a),
		newServeMCPCmd(a),
	)
	return root
}

// setup loads the project config and initialises logging. Flags that were
// set explicitly override the config file.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configDir)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = a.logFormat
	}
	if flags.Changed("workers") {
		cfg.CopyWorkers = a.workers
	}
	if flags.Changed("keep-backup") {
		cfg.KeepBackup = &a.keepBackup
	}
	if flags.Changed("prefer-newer-shell") {
		cfg.PreferNewerShell = a.preferNewerShell
	}
	if flags.Changed("diagram-command") {
		cfg.Diagram.Command = a.diagramCommand
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logging.Init(level, cfg.LogFormat, cmd.ErrOrStderr())
	a.cfg = cfg
	return nil
}

// options builds the orchestrator options from the loaded config.
func (a *app) options() orchestrator.Options {
	return orchestrator.Options{
		KeepBackup:       a.cfg.Backup(),
		Workers:          a.cfg.Workers(),
		ImageExt:         a.cfg.ImageExt(),
		Renderer:         a.cfg.Renderer(),
		PreferNewerShell: a.cfg.PreferNewerShell,
	}
}

// streamProgress prints progress events to w until stop is called. Events
// may be emitted from several goroutines; none are dropped, so emit waits
// when the printer falls behind.
func streamProgress(w io.Writer) (emit func(orchestrator.ProgressEvent), stop func()) {
	pr := orchestrator.NewProgressReporter()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range pr.Subscribe() {
			fmt.Fprintln(w, orchestrator.FormatProgress(ev))
		}
	}()
	return pr.Send, func() {
		pr.Close()
		<-done
	}
}
