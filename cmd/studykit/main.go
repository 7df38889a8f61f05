// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the studykit CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/studykit/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ and .env at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when set, otherwise the loaded secret for key.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the studykit CLI.
var rootCmd = &cobra.Command{
	Use:   "studykit",
	Short: "Turn study material into summaries, flashcards, mind maps and quizzes",
	Long: `studykit turns an uploaded file (notes, slides, a PDF, audio or video) into
a study kit: a summary, flashcards, a mind map, a multiple-choice quiz and a
few related videos. Kits are stored locally and can be reviewed, edited,
quizzed and exported from the command line or served over HTTP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dirSecrets, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		envSecrets, err := secrets.LoadEnv(".env")
		if err != nil {
			return err
		}
		loadedSecrets = secrets.Merge(dirSecrets, envSecrets)
		if len(loadedSecrets) > 0 {
			keys := make([]string, 0, len(loadedSecrets))
			for k := range loadedSecrets {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./studykit.yaml or ~/.config/studykit/studykit.yaml)")
	rootCmd.PersistentFlags().String("log-mode", "", "log mode: dev or prod")
	rootCmd.PersistentFlags().String("store-dir", "", "directory holding the SQLite database")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("studykit")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "studykit"))
		}
	}

	viper.SetEnvPrefix("STUDYKIT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
