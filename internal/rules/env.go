// Package rules evaluates user supplied CEL expressions against catalog entries.
package rules

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/ext"
)

// Registry manages the CEL environment and provides helper methods for evaluation.
type Registry struct {
	env *cel.Env
}

// NewRegistry initializes the CEL environment with the entry variables and
// the gamemode_value function backed by valueFunc.
func NewRegistry(valueFunc func(string) int) (*Registry, error) {
	if valueFunc == nil {
		valueFunc = func(string) int { return 0 }
	}
	env, err := cel.NewEnv(
		cel.Variable("entry", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("stats", cel.MapType(cel.StringType, cel.DynType)),
		ext.Strings(),
		ext.Lists(),

		cel.Function("gamemode_value",
			cel.Overload("gamemode_value_string",
				[]*cel.Type{cel.StringType},
				cel.IntType,
				cel.UnaryBinding(func(arg ref.Val) ref.Val {
					s, ok := arg.Value().(string)
					if !ok {
						return types.NewErr("gamemode_value expects a string")
					}
					return types.Int(valueFunc(s))
				}),
			),
		),
	)
	if err != nil {
		return nil, err
	}
	return &Registry{env: env}, nil
}

// Predicate is a compiled boolean expression.
type Predicate struct {
	expression string
	prog       cel.Program
}

// Compile checks that expression is valid and yields a bool.
func (r *Registry) Compile(expression string) (*Predicate, error) {
	ast, iss := r.env.Compile(expression)
	if iss.Err() != nil {
		return nil, fmt.Errorf("invalid expression %q: %w", expression, iss.Err())
	}
	if out := ast.OutputType(); !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("expression %q must yield a bool, got %s", expression, ast.OutputType())
	}
	prog, err := r.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("invalid expression %q: %w", expression, err)
	}
	return &Predicate{expression: expression, prog: prog}, nil
}

// Match evaluates the predicate. A non-bool result is an error.
func (p *Predicate) Match(context map[string]any) (bool, error) {
	out, _, err := p.prog.Eval(context)
	if err != nil {
		return false, fmt.Errorf("evaluating %q: %w", p.expression, err)
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression %q yielded %T, not bool", p.expression, out.Value())
	}
	return b, nil
}

// String returns the source expression.
func (p *Predicate) String() string {
	return p.expression
}
