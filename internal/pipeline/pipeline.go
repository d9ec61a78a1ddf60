// Package pipeline drives the generation run: collect response files,
// synthesize a query for each, and append the resulting training records to
// the output file.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"

	"github.com/mimicry-ai/mimic/internal/collector"
	"github.com/mimicry-ai/mimic/internal/dataset"
	"github.com/mimicry-ai/mimic/internal/provider"
)

// Options configures a single generation run.
type Options struct {
	// Persona is the system-role text carried by every record.
	Persona string
	// DataDir holds the response example files.
	DataDir string
	// OutputPath is the JSONL file to write.
	OutputPath string
	// Extension filters input files, e.g. ".txt".
	Extension string
	// FailFast aborts the run on the first synthesis failure instead of
	// skipping the file.
	FailFast bool
	// Workers is the number of concurrent synthesis calls. Values below 2
	// run strictly sequentially.
	Workers int
	// RequestTimeout bounds each synthesis call. Zero means no per-call
	// deadline beyond the run context.
	RequestTimeout time.Duration
	// Progress, when set, is invoked before each file is processed.
	Progress func(name string, index, total int)
}

// FileFailure records a synthesis failure for one input file.
type FileFailure struct {
	File  string `json:"file" yaml:"file"`
	Error string `json:"error" yaml:"error"`
}

// Result summarizes a completed (or aborted) run.
type Result struct {
	Persona    string        `json:"persona" yaml:"persona"`
	DataDir    string        `json:"data_dir" yaml:"data_dir"`
	OutputPath string        `json:"output_path" yaml:"output_path"`
	Collected  int           `json:"collected" yaml:"collected"`
	Written    int           `json:"written" yaml:"written"`
	Skipped    int           `json:"skipped" yaml:"skipped"`
	Failures   []FileFailure `json:"failures,omitempty" yaml:"failures,omitempty"`
	Duration   time.Duration `json:"duration" yaml:"duration"`
}

// Pipeline wires the collector, synthesizer, and writer together.
type Pipeline struct {
	synth provider.Synthesizer
}

// New creates a pipeline around the given synthesizer.
func New(synth provider.Synthesizer) *Pipeline {
	return &Pipeline{synth: synth}
}

// Run executes one generation run. A missing input directory or a write
// failure aborts the run; a synthesis failure for one file is reported and
// skipped unless FailFast is set. The input directory is verified before the
// output file is created, so a bad input path never truncates an existing
// dataset.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()

	scanner, err := collector.NewScanner(opts.DataDir, opts.Extension)
	if err != nil {
		return nil, err
	}

	writer, err := dataset.NewWriter(opts.OutputPath)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Persona:    opts.Persona,
		DataDir:    opts.DataDir,
		OutputPath: opts.OutputPath,
	}

	if opts.Workers > 1 {
		err = p.runConcurrent(ctx, opts, scanner, writer, result)
	} else {
		err = p.runSequential(ctx, opts, scanner, writer, result)
	}

	if closeErr := writer.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	result.Written = writer.Count()
	result.Duration = time.Since(start)
	return result, err
}

func (p *Pipeline) runSequential(ctx context.Context, opts Options, scanner *collector.Scanner, writer *dataset.Writer, result *Result) error {
	total := scanner.Len()

	for scanner.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}

		example := scanner.Example()
		result.Collected++

		if opts.Progress != nil {
			opts.Progress(example.Name, result.Collected, total)
		}

		query, err := p.synthesize(ctx, opts, example.Text)
		if err != nil {
			if ferr := p.recordFailure(opts, result, example.Name, err); ferr != nil {
				return ferr
			}
			continue
		}

		record := dataset.NewRecord(opts.Persona, query, example.Text)
		if err := writer.Write(record); err != nil {
			return err
		}

		log.Debug().
			Str("file", example.Name).
			Int("written", writer.Count()).
			Msg("record written")
	}

	return scanner.Err()
}

type synthResult struct {
	query string
	err   error
}

// runConcurrent fans synthesis calls out over a bounded worker pool. Each
// task writes into its submission slot, so records land in the output file
// in the same order a sequential run would produce regardless of call
// latency.
func (p *Pipeline) runConcurrent(ctx context.Context, opts Options, scanner *collector.Scanner, writer *dataset.Writer, result *Result) error {
	total := scanner.Len()

	var examples []collector.Example
	for scanner.Next() {
		examples = append(examples, scanner.Example())
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	results := make([]synthResult, len(examples))
	workers := pool.New().WithMaxGoroutines(opts.Workers)

	for i, example := range examples {
		if opts.Progress != nil {
			opts.Progress(example.Name, i+1, total)
		}

		workers.Go(func() {
			if err := ctx.Err(); err != nil {
				results[i] = synthResult{err: err}
				return
			}
			query, err := p.synthesize(ctx, opts, example.Text)
			results[i] = synthResult{query: query, err: err}
		})
	}

	workers.Wait()

	for i, res := range results {
		result.Collected++

		if res.err != nil {
			if ferr := p.recordFailure(opts, result, examples[i].Name, res.err); ferr != nil {
				return ferr
			}
			continue
		}

		record := dataset.NewRecord(opts.Persona, res.query, examples[i].Text)
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return ctx.Err()
}

func (p *Pipeline) synthesize(ctx context.Context, opts Options, responseText string) (string, error) {
	if opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.RequestTimeout)
		defer cancel()
	}

	return p.synth.Synthesize(ctx, opts.Persona, responseText)
}

func (p *Pipeline) recordFailure(opts Options, result *Result, name string, err error) error {
	log.Error().
		Str("file", name).
		Err(err).
		Msg("query synthesis failed")

	result.Failures = append(result.Failures, FileFailure{File: name, Error: err.Error()})
	result.Skipped++

	if opts.FailFast {
		return fmt.Errorf("synthesis failed for %s: %w", name, err)
	}
	return nil
}
