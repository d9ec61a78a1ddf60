package cli

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mimicry-ai/mimic/internal/dataset"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [dataset.jsonl]",
	Short: "Validate a generated dataset file",
	Long: `Validate that every line of a JSONL dataset is a well-formed training record.

Each line must parse as JSON, match the training record schema, and carry
exactly three turns in system/user/assistant order with non-empty content.

Examples:
  mimic validate train.jsonl
  mimic validate train.jsonl --output json`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		validateDataset(args[0])
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// DatasetReport is the result of validating one dataset file.
type DatasetReport struct {
	File     string        `json:"file" yaml:"file"`
	Valid    bool          `json:"valid" yaml:"valid"`
	Records  int           `json:"records" yaml:"records"`
	Duration time.Duration `json:"duration" yaml:"duration"`
	Errors   []string      `json:"errors,omitempty" yaml:"errors,omitempty"`
}

func validateDataset(path string) {
	start := time.Now()

	report, err := checkDataset(path)
	if err != nil {
		Error(fmt.Sprintf("Failed to validate %s: %v", path, err))
		os.Exit(1)
	}
	report.Duration = time.Since(start)

	switch viper.GetString("output") {
	case "json":
		printJSON(report)
	case "yaml":
		printYAML(report)
	default:
		for _, msg := range report.Errors {
			Warning(msg)
		}
		if report.Valid {
			Success(fmt.Sprintf("%s: %d valid record(s)", path, report.Records))
		} else {
			Error(fmt.Sprintf("%s: %d problem(s) in %d line(s)", path, len(report.Errors), report.Records))
		}
	}

	if !report.Valid {
		os.Exit(1)
	}
}

func checkDataset(path string) (*DatasetReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	validator, err := dataset.NewValidator()
	if err != nil {
		return nil, err
	}

	report := &DatasetReport{File: path, Valid: true}

	scanner := bufio.NewScanner(f)
	// Records embed whole response files, so lines can be large.
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		report.Records++
		if err := validator.ValidateLine(scanner.Bytes()); err != nil {
			report.Valid = false
			report.Errors = append(report.Errors, fmt.Sprintf("line %d: %v", lineNo, err))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return report, nil
}
