package cel

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
)

// VarApplicant is the variable name conditions use to reach applicant fields
const VarApplicant = "applicant"

// Evaluator evaluates CEL expressions
type Evaluator struct {
	env   *cel.Env
	cache map[string]cel.Program
	mu    sync.RWMutex
}

// NewEvaluator creates a new CEL evaluator
func NewEvaluator() *Evaluator {
	env, err := cel.NewEnv(
		cel.Variable(VarApplicant, cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		panic(fmt.Sprintf("failed to create CEL environment: %v", err))
	}

	return &Evaluator{
		env:   env,
		cache: make(map[string]cel.Program),
	}
}

// Evaluate evaluates a CEL expression with the given variables
func (e *Evaluator) Evaluate(ctx context.Context, expression string, vars map[string]interface{}) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	program, err := e.getProgram(expression)
	if err != nil {
		return nil, fmt.Errorf("failed to compile expression: %w", err)
	}

	out, _, err := program.Eval(vars)
	if err != nil {
		return nil, fmt.Errorf("evaluation failed: %w", err)
	}

	return out.Value(), nil
}

// getProgram gets a compiled program from cache or compiles it
func (e *Evaluator) getProgram(expression string) (cel.Program, error) {
	e.mu.RLock()
	if program, ok := e.cache[expression]; ok {
		e.mu.RUnlock()
		return program, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	// Check again in case another goroutine compiled it
	if program, ok := e.cache[expression]; ok {
		return program, nil
	}

	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("parse error: %w", issues.Err())
	}

	program, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program generation error: %w", err)
	}

	e.cache[expression] = program

	return program, nil
}

// ValidateExpression type-checks an expression without evaluating it.
// The expression must produce a bool, or a dyn value that may be one at runtime.
func (e *Evaluator) ValidateExpression(expression string) error {
	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return issues.Err()
	}

	outputType := ast.OutputType()
	if !outputType.IsExactType(cel.BoolType) && !outputType.IsExactType(cel.DynType) {
		return fmt.Errorf("expression must return bool, got %s", outputType)
	}

	return nil
}

// ClearCache clears the compiled program cache
func (e *Evaluator) ClearCache() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cache = make(map[string]cel.Program)
}

// CacheSize returns the number of compiled programs held
func (e *Evaluator) CacheSize() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.cache)
}
