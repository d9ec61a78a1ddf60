package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mimicry-ai/mimic/internal/dataset"
	_ "github.com/mimicry-ai/mimic/internal/testhelper"
)

func TestResolvePersona(t *testing.T) {
	dir := t.TempDir()
	personaPath := filepath.Join(dir, "persona.txt")
	require.NoError(t, os.WriteFile(personaPath, []byte("A careful editor.\n"), 0o644))
	emptyPath := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(emptyPath, []byte("  \n"), 0o644))

	tests := []struct {
		name     string
		inline   string
		file     string
		expected string
		wantErr  string
	}{
		{
			name:     "inline_persona",
			inline:   "A wise owl.",
			expected: "A wise owl.",
		},
		{
			name:     "persona_from_file_is_trimmed",
			file:     personaPath,
			expected: "A careful editor.",
		},
		{
			name:    "both_sources_rejected",
			inline:  "x",
			file:    personaPath,
			wantErr: "mutually exclusive",
		},
		{
			name:    "neither_source_rejected",
			wantErr: "required",
		},
		{
			name:    "missing_file",
			file:    filepath.Join(dir, "nope.txt"),
			wantErr: "reading persona file",
		},
		{
			name:    "empty_file",
			file:    emptyPath,
			wantErr: "empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolvePersona(tt.inline, tt.file)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNewSynthesizer_UnknownProvider(t *testing.T) {
	_, err := newSynthesizer("hal9000", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown provider "hal9000"`)
}

func TestNewSynthesizer_KnownProviders(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")

	openaiSynth, err := newSynthesizer("openai", "")
	require.NoError(t, err)
	assert.Equal(t, "openai", openaiSynth.Name())

	anthropicSynth, err := newSynthesizer("anthropic", "")
	require.NoError(t, err)
	assert.Equal(t, "anthropic", anthropicSynth.Name())
}

func TestCheckDataset(t *testing.T) {
	dir := t.TempDir()

	writeDataset := func(t *testing.T, name string, lines ...string) string {
		t.Helper()
		path := filepath.Join(dir, name)
		content := ""
		for _, line := range lines {
			content += line + "\n"
		}
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	validLine := func(t *testing.T) string {
		t.Helper()
		data, err := json.Marshal(dataset.NewRecord("p", "q", "r"))
		require.NoError(t, err)
		return string(data)
	}

	t.Run("valid_file", func(t *testing.T) {
		path := writeDataset(t, "valid.jsonl", validLine(t), validLine(t))
		report, err := checkDataset(path)
		require.NoError(t, err)
		assert.True(t, report.Valid)
		assert.Equal(t, 2, report.Records)
		assert.Empty(t, report.Errors)
	})

	t.Run("invalid_line_reported", func(t *testing.T) {
		path := writeDataset(t, "invalid.jsonl", validLine(t), `{"messages":[]}`)
		report, err := checkDataset(path)
		require.NoError(t, err)
		assert.False(t, report.Valid)
		assert.Equal(t, 2, report.Records)
		require.Len(t, report.Errors, 1)
		assert.Contains(t, report.Errors[0], "line 2")
	})

	t.Run("blank_lines_ignored", func(t *testing.T) {
		path := writeDataset(t, "blank.jsonl", validLine(t), "", validLine(t))
		report, err := checkDataset(path)
		require.NoError(t, err)
		assert.True(t, report.Valid)
		assert.Equal(t, 2, report.Records)
	})

	t.Run("missing_file", func(t *testing.T) {
		_, err := checkDataset(filepath.Join(dir, "nope.jsonl"))
		require.Error(t, err)
	})
}
