package ledger

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"
)

// filter wraps a compiled CEL program evaluated against each listed entry.
// When disabled, Eval always returns true.
type filter struct {
	prog    cel.Program
	enabled bool
}

func newFilter(expr string) (filter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return filter{}, nil
	}
	env, err := cel.NewEnv(
		cel.Variable("kind", cel.StringType),
		cel.Variable("number", cel.StringType),
		cel.Variable("worker", cel.IntType),
		cel.Variable("datacenter", cel.IntType),
		cel.Variable("sequence", cel.IntType),
		cel.Variable("ts_ms", cel.IntType),
		cel.Variable("issued_ms", cel.IntType),
		cel.Variable("request_id", cel.StringType),
		cel.Variable("now_ms", cel.IntType),
	)
	if err != nil {
		return filter{}, err
	}
	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return filter{}, fmt.Errorf("%w: %v", ErrInvalidFilter, iss.Err())
	}
	if t := ast.OutputType(); t.String() != "bool" {
		return filter{}, fmt.Errorf("%w: expression must be bool, got %s", ErrInvalidFilter, t)
	}
	prog, err := env.Program(ast)
	if err != nil {
		return filter{}, err
	}
	return filter{prog: prog, enabled: true}, nil
}

// Eval reports whether e matches. Evaluation errors count as no match.
func (f filter) Eval(e Entry, nowMs int64) bool {
	if !f.enabled {
		return true
	}
	p := e.Parts()
	out, _, err := f.prog.Eval(map[string]any{
		"kind":       string(e.Kind),
		"number":     e.Number(),
		"worker":     int64(p.WorkerID),
		"datacenter": int64(p.DatacenterID),
		"sequence":   int64(p.Sequence),
		"ts_ms":      p.TimestampMs,
		"issued_ms":  e.IssuedAtMs,
		"request_id": e.RequestID,
		"now_ms":     nowMs,
	})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}
