// Package filter evaluates user supplied CEL expressions against saved contents,
// e.g. `type == "quiz" && topic.contains("algebra") && created_ts > 1700000000`.
package filter

import (
	"github.com/google/cel-go/cel"
	"github.com/pkg/errors"

	"github.com/hrygo/studybuddy/store"
)

// ErrInvalidFilter wraps compile errors and non-boolean expressions.
var ErrInvalidFilter = errors.New("invalid filter")

// Program is a compiled filter expression. It is safe for concurrent use.
type Program struct {
	expr string
	prg  cel.Program
}

func newEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("type", cel.StringType),
		cel.Variable("topic", cel.StringType),
		cel.Variable("is_favorite", cel.BoolType),
		cel.Variable("created_ts", cel.IntType),
	)
}

// Compile parses and type-checks expr. The expression must evaluate to a bool.
func Compile(expr string) (*Program, error) {
	env, err := newEnv()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create filter environment")
	}
	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, errors.Wrapf(ErrInvalidFilter, "%s", iss.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, errors.Wrapf(ErrInvalidFilter, "expression must return bool, got %s", ast.OutputType())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidFilter, "%s", err)
	}
	return &Program{expr: expr, prg: prg}, nil
}

// String returns the source expression.
func (p *Program) String() string {
	return p.expr
}

// Match reports whether content satisfies the expression.
func (p *Program) Match(content *store.SavedContent) (bool, error) {
	out, _, err := p.prg.Eval(map[string]any{
		"type":        string(content.Type),
		"topic":       content.Topic,
		"is_favorite": content.IsFavorite,
		"created_ts":  content.CreatedTs,
	})
	if err != nil {
		return false, errors.Wrap(err, "failed to evaluate filter")
	}
	matched, ok := out.Value().(bool)
	if !ok {
		return false, errors.Errorf("filter returned %T, want bool", out.Value())
	}
	return matched, nil
}

// Apply returns the contents matching the expression, preserving order.
func (p *Program) Apply(list []*store.SavedContent) ([]*store.SavedContent, error) {
	matched := make([]*store.SavedContent, 0, len(list))
	for _, content := range list {
		ok, err := p.Match(content)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, content)
		}
	}
	return matched, nil
}
