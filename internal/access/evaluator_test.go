package access

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequiresSession_DefaultPolicy(t *testing.T) {
	ctx := context.Background()
	e, err := NewEvaluator(ctx, "", nil)
	require.NoError(t, err)
	require.NoError(t, e.HealthCheck(ctx))

	testCases := []struct {
		path string
		want bool
	}{
		{"/team", true},
		{"/", true},
		{"/auth/login", false},
		{"/auth/register", false},
		{"/authors", true},
	}
	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.want, e.RequiresSession(ctx, tc.path))
		})
	}
}

func TestRequiresSession_CustomPolicyFile(t *testing.T) {
	policy := `package hackathon.access

default requires_session := false

requires_session if {
	input.path == "/team"
}
`
	path := filepath.Join(t.TempDir(), "access.rego")
	require.NoError(t, os.WriteFile(path, []byte(policy), 0o600))

	ctx := context.Background()
	e, err := LoadEvaluator(ctx, path, nil)
	require.NoError(t, err)
	assert.True(t, e.RequiresSession(ctx, "/team"))
	assert.False(t, e.RequiresSession(ctx, "/about"))
}

func TestRequiresSession_FailsClosed(t *testing.T) {
	ctx := context.Background()

	var nilEval *Evaluator
	assert.True(t, nilEval.RequiresSession(ctx, "/auth/login"))
	assert.Error(t, nilEval.HealthCheck(ctx))

	// Undefined rule: no result.
	e, err := NewEvaluator(ctx, "package hackathon.access\n\nother := 1\n", nil)
	require.NoError(t, err)
	assert.True(t, e.RequiresSession(ctx, "/auth/login"))

	// Non-boolean result.
	e, err = NewEvaluator(ctx, "package hackathon.access\n\nrequires_session := \"no\"\n", nil)
	require.NoError(t, err)
	assert.True(t, e.RequiresSession(ctx, "/auth/login"))
}

func TestNewEvaluator_CompileError(t *testing.T) {
	_, err := NewEvaluator(context.Background(), "package broken\n\nthis is not rego", nil)
	assert.Error(t, err)

	_, err = LoadEvaluator(context.Background(), filepath.Join(t.TempDir(), "missing.rego"), nil)
	assert.Error(t, err)
}
