package dataset

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/mimicry-ai/mimic/internal/testhelper"
)

func TestNewRecord_TurnOrder(t *testing.T) {
	record := NewRecord("persona text", "query text", "response text")

	require.Len(t, record.Messages, 3)
	assert.Equal(t, Message{Role: RoleSystem, Content: "persona text"}, record.Messages[0])
	assert.Equal(t, Message{Role: RoleUser, Content: "query text"}, record.Messages[1])
	assert.Equal(t, Message{Role: RoleAssistant, Content: "response text"}, record.Messages[2])
}

func TestRecord_SerializationIsStable(t *testing.T) {
	record := NewRecord("p", "q", "r")

	first, err := json.Marshal(record)
	require.NoError(t, err)
	second, err := json.Marshal(record)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.JSONEq(t, `{"messages":[
		{"role":"system","content":"p"},
		{"role":"user","content":"q"},
		{"role":"assistant","content":"r"}
	]}`, string(first))
}

func TestRecord_ExactWireFormat(t *testing.T) {
	data, err := json.Marshal(NewRecord("p", "q", "r"))
	require.NoError(t, err)

	// The fine-tuning API requires this exact shape, keys included.
	expected := `{"messages":[{"role":"system","content":"p"},{"role":"user","content":"q"},{"role":"assistant","content":"r"}]}`
	assert.Equal(t, expected, string(data))
}

func TestWriter_AppendsOneLinePerRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")

	w, err := NewWriter(path)
	require.NoError(t, err)

	require.NoError(t, w.Write(NewRecord("p", "q1", "r1")))
	require.NoError(t, w.Write(NewRecord("p", "q2", "r2")))
	assert.Equal(t, 2, w.Count())
	require.NoError(t, w.Close())

	lines := readLines(t, path)
	require.Len(t, lines, 2)
	for _, line := range lines {
		var record Record
		require.NoError(t, json.Unmarshal([]byte(line), &record))
		assert.Len(t, record.Messages, 3)
	}
}

func TestWriter_PartialOutputIsWellFormed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")

	w, err := NewWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(NewRecord("p", "q", "r")))

	// Every written line must already be durable and parseable, even though
	// the writer is still open.
	lines := readLines(t, path)
	require.Len(t, lines, 1)
	var record Record
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))

	require.NoError(t, w.Close())
}

func TestWriter_RoundTripPreservesContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")
	persona := "A meticulous archivist."
	response := "Multi-line\nresponse with \"quotes\", unicode ✓,\n\tand tabs."

	w, err := NewWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(NewRecord(persona, "What is this?", response)))
	require.NoError(t, w.Close())

	lines := readLines(t, path)
	require.Len(t, lines, 1)

	var record Record
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	assert.Equal(t, persona, record.Messages[0].Content)
	assert.Equal(t, response, record.Messages[2].Content)
}

func TestWriter_UnwritablePath(t *testing.T) {
	_, err := NewWriter(filepath.Join(t.TempDir(), "missing", "out.jsonl"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating output file")
}

func TestValidator(t *testing.T) {
	validator, err := NewValidator()
	require.NoError(t, err)

	valid, err := json.Marshal(NewRecord("p", "q", "r"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		line    string
		wantErr string
	}{
		{
			name: "valid_record",
			line: string(valid),
		},
		{
			name:    "not_json",
			line:    "{not json",
			wantErr: "not valid JSON",
		},
		{
			name:    "missing_messages",
			line:    `{"conversations":[]}`,
			wantErr: "schema violation",
		},
		{
			name:    "too_few_turns",
			line:    `{"messages":[{"role":"system","content":"p"},{"role":"user","content":"q"}]}`,
			wantErr: "expected 3 messages",
		},
		{
			name:    "wrong_role_order",
			line:    `{"messages":[{"role":"user","content":"q"},{"role":"system","content":"p"},{"role":"assistant","content":"r"}]}`,
			wantErr: `expected role "system"`,
		},
		{
			name:    "empty_content",
			line:    `{"messages":[{"role":"system","content":"p"},{"role":"user","content":""},{"role":"assistant","content":"r"}]}`,
			wantErr: "empty content",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateLine([]byte(tt.line))
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	require.NoError(t, scanner.Err())
	return lines
}
