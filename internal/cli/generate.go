package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mimicry-ai/mimic/internal/collector"
	"github.com/mimicry-ai/mimic/internal/pipeline"
	"github.com/mimicry-ai/mimic/internal/provider"
	"github.com/mimicry-ai/mimic/internal/provider/anthropic"
	"github.com/mimicry-ai/mimic/internal/provider/openai"
	"github.com/mimicry-ai/mimic/internal/style"
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate fine-tuning data from a directory of response files",
	Long: `Generate a chat fine-tuning dataset from a directory of plain-text files.

For every matching file, the configured model provider is asked to synthesize
the user query that would plausibly have produced the file's content as a
response. Each (persona, query, response) triple is appended to the output
file as one JSONL record the moment it is ready, so an interrupted run still
leaves a usable dataset.

A synthesis failure for one file is reported and that file skipped; pass
--fail-fast to abort the run on the first failure instead. A missing input
directory or an unwritable output path always aborts the run.

Examples:
  mimic generate --persona "A patient math tutor" --data-dir ./responses --out train.jsonl
  mimic generate --persona-file persona.txt --data-dir ./responses --out train.jsonl
  mimic generate --persona "..." --data-dir ./responses --out train.jsonl --provider anthropic
  mimic generate --persona "..." --data-dir ./responses --out train.jsonl --concurrency 4`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runGenerate()
	},
}

var (
	persona        string
	personaFile    string
	dataDir        string
	outPath        string
	providerName   string
	modelName      string
	extension      string
	failFast       bool
	concurrency    int
	requestTimeout time.Duration
)

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&persona, "persona", "", "system persona for the fine-tuned model")
	generateCmd.Flags().StringVar(&personaFile, "persona-file", "", "file containing the system persona")
	generateCmd.Flags().StringVar(&dataDir, "data-dir", "", "directory containing the response text files")
	generateCmd.Flags().StringVar(&outPath, "out", "", "output file for the training data")
	generateCmd.Flags().StringVar(&providerName, "provider", "openai", "model provider (openai, anthropic)")
	generateCmd.Flags().StringVar(&modelName, "model", "", "model to use for query synthesis (provider default if empty)")
	generateCmd.Flags().StringVar(&extension, "ext", ".txt", "input file extension to match")
	generateCmd.Flags().BoolVar(&failFast, "fail-fast", false, "abort the run on the first synthesis failure")
	generateCmd.Flags().IntVar(&concurrency, "concurrency", 1, "number of concurrent synthesis calls")
	generateCmd.Flags().DurationVar(&requestTimeout, "request-timeout", 60*time.Second, "timeout for each synthesis call")

	_ = generateCmd.MarkFlagRequired("data-dir")
	_ = generateCmd.MarkFlagRequired("out")
}

func runGenerate() {
	personaText, err := resolvePersona(persona, personaFile)
	if err != nil {
		Error(err.Error())
		os.Exit(1)
	}

	synth, err := newSynthesizer(providerName, modelName)
	if err != nil {
		Error(fmt.Sprintf("Failed to initialize provider: %v", err))
		os.Exit(1)
	}
	defer func() {
		if err := synth.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close provider")
		}
	}()

	// Graceful shutdown on interruption
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info().Msg("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	opts := pipeline.Options{
		Persona:        personaText,
		DataDir:        dataDir,
		OutputPath:     outPath,
		Extension:      extension,
		FailFast:       failFast,
		Workers:        concurrency,
		RequestTimeout: requestTimeout,
	}

	var spin style.Spinner
	if !viper.GetBool("quiet") && viper.GetString("output") == "text" {
		spin = style.NewSpinner(os.Stderr)
		opts.Progress = func(name string, index, total int) {
			spin.SetSuffix(fmt.Sprintf(" synthesizing query for %s (%d/%d)", name, index, total))
		}
		spin.Start()
	}

	result, err := pipeline.New(synth).Run(ctx, opts)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		if result != nil && result.Written > 0 {
			Warning(fmt.Sprintf("Run aborted after writing %d record(s) to %s", result.Written, outPath))
		}
		if collector.IsNotFound(err) {
			Error(fmt.Sprintf("Input directory not found: %s", dataDir))
		} else {
			Error(fmt.Sprintf("Generation failed: %v", err))
		}
		os.Exit(1)
	}

	renderGenerateResult(result)
}

func renderGenerateResult(result *pipeline.Result) {
	switch viper.GetString("output") {
	case "json":
		printJSON(result)
	case "yaml":
		printYAML(result)
	default:
		for _, failure := range result.Failures {
			Warning(fmt.Sprintf("Skipped %s: %s", failure.File, failure.Error))
		}
		if result.Collected == 0 {
			Info(fmt.Sprintf("No %s files found in %s; wrote an empty dataset to %s", extension, result.DataDir, result.OutputPath))
			return
		}
		Success(fmt.Sprintf("Wrote %d of %d record(s) to %s in %s",
			result.Written, result.Collected, result.OutputPath, result.Duration.Round(time.Millisecond)))
	}
}

// resolvePersona enforces that exactly one persona source is given and
// returns the persona text.
func resolvePersona(inline, file string) (string, error) {
	switch {
	case inline != "" && file != "":
		return "", fmt.Errorf("--persona and --persona-file are mutually exclusive")
	case inline != "":
		return inline, nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading persona file: %w", err)
		}
		text := strings.TrimSpace(string(data))
		if text == "" {
			return "", fmt.Errorf("persona file %s is empty", file)
		}
		return text, nil
	default:
		return "", fmt.Errorf("either --persona or --persona-file is required")
	}
}

// newSynthesizer builds the provider backend selected by name.
func newSynthesizer(name, model string) (provider.Synthesizer, error) {
	switch name {
	case "openai":
		return openai.New(&openai.Config{Model: model})
	case "anthropic":
		return anthropic.New(&anthropic.Config{Model: model})
	default:
		return nil, fmt.Errorf("unknown provider %q (expected openai or anthropic)", name)
	}
}
