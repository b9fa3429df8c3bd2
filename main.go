// Command batterytext shows the battery charge percentage as a coloured text
// in a small window and the system tray, or on the terminal with --cli.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"batterytext/internal/config"
	"batterytext/internal/logging"
)

var Version = "dev"

// loadConfig reads the file named by --config, or the default location.
func loadConfig(path string) (*config.Config, string, error) {
	if path == "" {
		p, err := config.Path()
		if err != nil {
			return nil, "", err
		}
		path = p
	}
	conf, err := config.Load(path)
	return conf, path, err
}

func newLogger(conf *config.Config, debug bool) zerolog.Logger {
	cfg := logging.DefaultConfig()
	if conf != nil {
		cfg.Level = logging.ParseLevel(conf.LogLevel, cfg.Level)
		if conf.LogFormat != "" {
			cfg.Format = strings.ToLower(conf.LogFormat)
		}
	}
	cfg = logging.ApplyEnv(cfg)
	if debug {
		cfg.Level = zerolog.DebugLevel
	}
	return logging.New(cfg)
}

func main() {

	var rootCmd = &cobra.Command{
		Use:   "batterytext",
		Short: "batterytext shows the battery percentage as a text that follows the status bar settings.",
		Long:  "batterytext shows the battery charge percentage as a text. Whether the text is shown follows the battery percent and meter style settings, and its colour fades to the configured text colour. Settings are stored per user and can be changed with the get and set commands while the text is running.",
	}
	rootCmd.SilenceUsage = true

	hidePtr := rootCmd.PersistentFlags().BoolP("minimize", "m", false, "Start the application minimized in the system tray")
	debugPtr := rootCmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	versionPtr := rootCmd.PersistentFlags().BoolP("version", "v", false, "Show version information")
	cliPtr := rootCmd.PersistentFlags().BoolP("cli", "c", false, "Run in CLI mode without UI")
	configPtr := rootCmd.PersistentFlags().String("config", "", "Path to the configuration file")

	rootCmd.RunE = func(cmd *cobra.Command, _ []string) error {

		if *versionPtr {
			fmt.Fprintf(cmd.OutOrStdout(), "batterytext version %s\n", Version)
			return nil
		}

		conf, confPath, err := loadConfig(*configPtr)
		log := newLogger(conf, *debugPtr)
		if err != nil {
			log.Error().Err(err).Msg("Error loading configuration")
			return err
		}

		if *cliPtr {
			log.Info().Msg("Starting in CLI mode without UI")
			return runCLI(conf, log, cmd.OutOrStdout())
		}
		return runGUI(conf, confPath, log, *hidePtr)
	}

	rootCmd.AddCommand(newGetCmd(configPtr), newSetCmd(configPtr))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
