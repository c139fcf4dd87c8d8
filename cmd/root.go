/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var log = logrus.New()

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cost-tracker",
	Short: "Track month-to-date Azure costs per resource from the terminal",
	Long: `cost-tracker fetches the month-to-date cost of every Azure resource in a subscription,
ranks and categorizes them, links them to the Azure Portal and can ask a local language
model (Ollama or llama.cpp) for cost optimization advice.

Running cost-tracker without a subcommand starts the interactive menu.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")

	rootCmd.PersistentFlags().StringP("verbosity", "v", "warn", "Log level (trace, debug, info, warn, error)")
	viper.BindPFlag("verbosity", rootCmd.PersistentFlags().Lookup("verbosity"))
	rootCmd.PersistentFlags().Bool("structuredLogs", false, "Write logs as JSON")
	viper.BindPFlag("structuredLogs", rootCmd.PersistentFlags().Lookup("structuredLogs"))

	rootCmd.PersistentFlags().StringP("source", "s", "cli", "Cost source to use (cli, sdk, file, demo)")
	viper.BindPFlag("source", rootCmd.PersistentFlags().Lookup("source"))
	rootCmd.PersistentFlags().String("subscriptionID", "", "Subscription ID to query if not using the az cli default subscription")
	viper.BindPFlag("subscriptionID", rootCmd.PersistentFlags().Lookup("subscriptionID"))
	rootCmd.PersistentFlags().StringP("queryFile", "f", "", "Saved cost management query response to read when the source is file")
	viper.BindPFlag("queryFile", rootCmd.PersistentFlags().Lookup("queryFile"))

	rootCmd.PersistentFlags().String("ollamaURL", "http://127.0.0.1:11434", "Ollama API address")
	viper.BindPFlag("ollamaURL", rootCmd.PersistentFlags().Lookup("ollamaURL"))
	rootCmd.PersistentFlags().String("modelName", "tinyllama", "Ollama model name")
	viper.BindPFlag("modelName", rootCmd.PersistentFlags().Lookup("modelName"))
	rootCmd.PersistentFlags().String("modelPath", "models/tinyllama.gguf", "GGUF model file for llama.cpp")
	viper.BindPFlag("modelPath", rootCmd.PersistentFlags().Lookup("modelPath"))
	rootCmd.PersistentFlags().Int("contextSize", 512, "llama.cpp context window")
	viper.BindPFlag("contextSize", rootCmd.PersistentFlags().Lookup("contextSize"))
	rootCmd.PersistentFlags().Int("maxTokens", 300, "llama.cpp completion token limit")
	viper.BindPFlag("maxTokens", rootCmd.PersistentFlags().Lookup("maxTokens"))
	rootCmd.PersistentFlags().String("llamaServer", "llama-server", "llama.cpp server executable")
	viper.BindPFlag("llamaServer", rootCmd.PersistentFlags().Lookup("llamaServer"))
	rootCmd.PersistentFlags().Bool("disableAI", false, "Do not look for an AI backend")
	viper.BindPFlag("disableAI", rootCmd.PersistentFlags().Lookup("disableAI"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	viper.SetEnvPrefix("COST_TRACKER")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		if err := viper.ReadInConfig(); err != nil {
			log.Fatalf("Error reading config file %s: %v", cfgFile, err)
		}
	}
}

func setupLogger() {
	logVerbosity := viper.GetString("verbosity")
	logLevel, err := logrus.ParseLevel(logVerbosity)
	if err != nil {
		log.Fatalf("Invalid log level: %s", logVerbosity)
	}
	log.SetLevel(logLevel)
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{})
	if viper.GetBool("structuredLogs") {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	for key, value := range viper.GetViper().AllSettings() {
		log.Debugf("Command Flag: %s = %v", key, value)
	}
}
