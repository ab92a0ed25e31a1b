package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"recipe-suggester/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDCommand(t *testing.T) {
	t.Setenv("EMPL_ID", "87654321")
	t.Setenv("LAST_NAME", "Smith")

	var out bytes.Buffer
	err := newApp(&out).Run(context.Background(), []string{"recipectl", "id"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"EMPL_ID":"87654321","LAST_NAME":"Smith"}`, out.String())
}

func TestSuggestRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "description too long", args: []string{"--description", strings.Repeat("x", 121)}},
		{name: "max time out of range", args: []string{"--description", "soup", "--max-time", "500"}},
		{name: "unknown flow", args: []string{"--description", "soup", "--flow", "scrape"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			args := append([]string{"recipectl", "suggest"}, tt.args...)
			err := newApp(&out).Run(context.Background(), args)
			require.Error(t, err)

			ce, ok := common.AsCustomError(err)
			require.True(t, ok)
			assert.Equal(t, common.ErrCodeInvalidRequest, ce.Code)
			assert.Empty(t, out.String())
		})
	}
}

func TestSuggestGenerateWithoutKey(t *testing.T) {
	t.Setenv("GOOGLE_AI_STUDIO_API_KEY", "")
	t.Setenv("AI_PROVIDER", "gemini")

	var out bytes.Buffer
	err := newApp(&out).Run(context.Background(),
		[]string{"recipectl", "suggest", "-d", "tomato soup", "--flow", "generate"})
	require.Error(t, err)
	assert.Equal(t, "CONFIG_ERROR: Server missing GOOGLE_AI_STUDIO_API_KEY.", formatError(err))
}

func TestFormatError(t *testing.T) {
	assert.Equal(t, "NOT_FOUND: nothing", formatError(common.NewNotFoundError("nothing")))
	assert.Equal(t, assert.AnError.Error(), formatError(assert.AnError))
}
