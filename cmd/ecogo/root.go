package main

import (
	"ecogo/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	v       = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "ecogo",
	Short: "Track appliance runs and shut them down when their time is up",
	Long: `EcoGo keeps a timer per running appliance, prompts the user when the
requested duration elapses and shuts the appliance down if nobody answers.
Finished runs become usage records that feed the energy summary.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./configs/config.yml)")
	rootCmd.PersistentFlags().String("log-level", logger.InfoLevel, "log level: debug, info, warn, error")
	_ = v.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}
