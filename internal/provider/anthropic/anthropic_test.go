package anthropic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/mimicry-ai/mimic/internal/testhelper"
)

func TestNew_RequiresAPIKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("ANTHROPIC_KEY", "")

	_, err := New(&Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestNew_AppliesDefaults(t *testing.T) {
	s, err := New(&Config{APIKey: "sk-ant-test"})
	require.NoError(t, err)

	assert.Equal(t, "anthropic", s.Name())
	assert.Equal(t, DefaultModel, s.config.Model)
	assert.Equal(t, "https://api.anthropic.com", s.config.BaseURL)
	assert.Equal(t, 60*time.Second, s.config.Timeout)
}

func TestAPIKeyFromEnv(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("ANTHROPIC_KEY", "")
	assert.Empty(t, APIKeyFromEnv())

	t.Setenv("ANTHROPIC_KEY", "sk-ant-fallback")
	assert.Equal(t, "sk-ant-fallback", APIKeyFromEnv())

	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-primary")
	assert.Equal(t, "sk-ant-primary", APIKeyFromEnv())
}
