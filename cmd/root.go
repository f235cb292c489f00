package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/creativeprojects/onesecmail/cfg"
	"github.com/creativeprojects/onesecmail/term"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "onesecmail",
	Short: "Disposable mailboxes from the command line",
	Long:  "\nCreate disposable mailboxes, read their messages and download attachments",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initLog)
	flag := rootCmd.PersistentFlags()
	flag.StringVarP(&global.configFile, "config", "c", cfg.DefaultFileName, "configuration file")
	flag.BoolVarP(&global.quiet, "quiet", "q", false, "only display warnings and errors")
	flag.BoolVarP(&global.verbose, "verbose", "v", false, "display debugging information")
}

func initConfig() error {
	var err error
	config, err = cfg.LoadFromFile(global.configFile)
	if err != nil {
		term.Errorf("cannot open or read configuration file: %s", err)
		return err
	}
	term.Debugf("API endpoint: %s", config.API.BaseURL)
	return nil
}

func initLog() {
	switch {
	case global.verbose:
		term.SetLevel(term.LevelDebug)
	case global.quiet:
		term.SetLevel(term.LevelWarn)
	}
}

func Execute(version, commit, date, builtBy string) {
	setApp(version, commit, date, builtBy)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		term.Error(err)
		cancel()
		os.Exit(1)
	}
}
