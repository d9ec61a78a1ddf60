package provider

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/mimicry-ai/mimic/internal/testhelper"
)

func TestQueryPrompt_ContainsPersona(t *testing.T) {
	persona := "A gruff pirate captain who answers in nautical metaphors."
	prompt := QueryPrompt(persona)

	assert.Contains(t, prompt, persona)
	assert.Contains(t, prompt, "query generator")
	assert.True(t, strings.HasPrefix(prompt, "You are a query generator"))
}

func TestServiceError_WrapsCause(t *testing.T) {
	cause := errors.New("rate limited")
	err := &ServiceError{Provider: "openai", Model: "gpt-4-1106-preview", Err: cause}

	assert.Contains(t, err.Error(), "openai")
	assert.Contains(t, err.Error(), "gpt-4-1106-preview")
	assert.Contains(t, err.Error(), "rate limited")
	assert.ErrorIs(t, err, cause)

	var svcErr *ServiceError
	require.ErrorAs(t, error(err), &svcErr)
	assert.Equal(t, "openai", svcErr.Provider)
}
