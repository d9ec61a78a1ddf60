package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mimicry-ai/mimic/internal/provider"
)

// modelsCmd represents the models command
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List models available from the configured provider",
	Long: `List the models the configured provider exposes to the current API key.

Examples:
  mimic models
  mimic models --provider anthropic
  mimic models --output json`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		listModels()
	},
}

var modelsProvider string

func init() {
	rootCmd.AddCommand(modelsCmd)

	modelsCmd.Flags().StringVar(&modelsProvider, "provider", "openai", "model provider (openai, anthropic)")
}

func listModels() {
	synth, err := newSynthesizer(modelsProvider, "")
	if err != nil {
		Error(fmt.Sprintf("Failed to initialize provider: %v", err))
		os.Exit(1)
	}
	defer func() {
		if err := synth.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close provider")
		}
	}()

	lister, ok := synth.(provider.ModelLister)
	if !ok {
		Error(fmt.Sprintf("Provider %s does not support listing models", synth.Name()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	models, err := lister.ListModels(ctx)
	if err != nil {
		Error(fmt.Sprintf("Failed to list models: %v", err))
		os.Exit(1)
	}

	switch viper.GetString("output") {
	case "json":
		printJSON(models)
	case "yaml":
		printYAML(models)
	default:
		rows := make([][]string, len(models))
		for i, model := range models {
			rows[i] = []string{model.ID, model.Name, model.Provider, model.CreatedAt}
		}
		printTable([]string{"ID", "NAME", "PROVIDER", "CREATED"}, rows)
	}
}
