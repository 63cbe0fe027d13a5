// Package access decides which views require an authenticated session, using an OPA Rego policy.
package access

import (
	"context"
	"fmt"
	"os"

	"github.com/open-policy-agent/opa/v1/ast"
	"github.com/open-policy-agent/opa/v1/rego"
	"github.com/sirupsen/logrus"

	"github.com/verrloren/hackathon-evrz/internal/logging"
)

const query = "data.hackathon.access.requires_session"

// DefaultPolicy gates every view except the auth surfaces.
const DefaultPolicy = `package hackathon.access

default requires_session := true

requires_session := false if {
	startswith(input.path, "/auth/")
}
`

// Evaluator answers RequiresSession from a compiled policy. It is safe for concurrent use.
type Evaluator struct {
	prepared *rego.PreparedEvalQuery
	log      logrus.FieldLogger
}

// NewEvaluator compiles policy (DefaultPolicy when empty). A compile error is returned so startup can
// fail loudly; a nil *Evaluator is still usable and requires a session everywhere.
func NewEvaluator(ctx context.Context, policy string, log logrus.FieldLogger) (*Evaluator, error) {
	if log == nil {
		log = logging.Discard()
	}
	if policy == "" {
		policy = DefaultPolicy
	}
	compiler, err := ast.CompileModules(map[string]string{"access.rego": policy})
	if err != nil {
		return nil, fmt.Errorf("compile access policy: %w", err)
	}
	pq, err := rego.New(rego.Query(query), rego.Compiler(compiler)).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("prepare access policy: %w", err)
	}
	return &Evaluator{prepared: &pq, log: log}, nil
}

// LoadEvaluator reads a Rego policy from path, or uses DefaultPolicy when path is empty.
func LoadEvaluator(ctx context.Context, path string, log logrus.FieldLogger) (*Evaluator, error) {
	if path == "" {
		return NewEvaluator(ctx, "", log)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read access policy: %w", err)
	}
	return NewEvaluator(ctx, string(raw), log)
}

// RequiresSession reports whether path may only be shown to an authenticated viewer.
// Evaluation errors and non-boolean results fail closed.
func (e *Evaluator) RequiresSession(ctx context.Context, path string) bool {
	if e == nil || e.prepared == nil {
		return true
	}
	rs, err := e.prepared.Eval(ctx, rego.EvalInput(map[string]interface{}{"path": path}))
	if err != nil {
		e.log.WithError(err).WithField("path", path).Warn("access: policy evaluation failed")
		return true
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		e.log.WithField("path", path).Warn("access: policy returned no result")
		return true
	}
	v, ok := rs[0].Expressions[0].Value.(bool)
	if !ok {
		e.log.WithField("path", path).Warn("access: policy result is not a boolean")
		return true
	}
	return v
}

// HealthCheck evaluates the policy for a known protected path.
func (e *Evaluator) HealthCheck(ctx context.Context) error {
	if e == nil || e.prepared == nil {
		return fmt.Errorf("access policy not loaded")
	}
	rs, err := e.prepared.Eval(ctx, rego.EvalInput(map[string]interface{}{"path": "/team"}))
	if err != nil {
		return fmt.Errorf("eval access policy: %w", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return fmt.Errorf("access policy returned no result")
	}
	return nil
}
