// Package main is the entry point for the folio server CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eringen/folio"
)

// version is set at build time via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Headless portfolio and blog content server",
	Long: `folio serves a personal portfolio site's content as JSON: normalized
profile, education, experience, research, achievements, and portfolio data
from local content files, cached blog posts from a third-party CMS, and a
spam-resistant contact form pipeline.`,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the content server",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := buildLogger(viper.GetBool("debug"))
		if err != nil {
			return err
		}
		defer log.Sync()

		app, err := folio.New(configFromViper(), log)
		if err != nil {
			return err
		}
		defer app.Close()
		return app.Start()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the folio version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("folio %s\n", version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./folio.yaml or ~/.config/folio/config.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("folio")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "folio"))
		}
	}

	viper.SetEnvPrefix("FOLIO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func configFromViper() folio.Config {
	return folio.Config{
		Name:        viper.GetString("site.name"),
		URL:         viper.GetString("site.url"),
		Description: viper.GetString("site.description"),
		Author:      viper.GetString("site.author"),

		Addr:        viper.GetString("addr"),
		Environment: viper.GetString("environment"),

		ContentDir:   viper.GetString("content.dir"),
		WatchContent: viper.GetBool("content.watch"),

		CMSToken:      viper.GetString("cms.token"),
		CMSDatabaseID: viper.GetString("cms.database_id"),
		ListCacheTTL:  viper.GetDuration("cache.list_ttl"),
		PostCacheTTL:  viper.GetDuration("cache.post_ttl"),

		RevalidationSecret: viper.GetString("revalidation_secret"),

		RecaptchaSecret:   viper.GetString("recaptcha.secret"),
		RecaptchaMinScore: viper.GetFloat64("recaptcha.min_score"),

		RateLimitDBPath:    viper.GetString("ratelimit.db_path"),
		ContactIPLimit:     viper.GetInt("ratelimit.ip_limit"),
		ContactGlobalLimit: viper.GetInt("ratelimit.global_limit"),
		ContactLimitWindow: viper.GetDuration("ratelimit.window"),

		ContactFromEmail:      viper.GetString("contact.from"),
		ContactRecipientEmail: viper.GetString("contact.to"),
		ResendAPIKey:          viper.GetString("contact.resend_api_key"),
	}
}

func buildLogger(debug bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
