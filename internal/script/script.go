// Package script evaluates user-supplied predicates that gate wizard
// behavior: navigation rules deciding whether a transition is permitted,
// and custom validators run after schema validation. Scripts are compiled
// once and cached; evaluation is sandboxed
package script

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/kode4food/arran/pkg/api"
)

type (
	// Env compiles and evaluates predicate scripts. It is safe for
	// concurrent use by multiple sessions
	Env struct {
		cache     map[string]*Compiled
		statePool chan *luaState
		mu        sync.Mutex
	}

	// Compiled is a predicate script compiled to reusable form
	Compiled struct {
		bytecode []byte
		argNames []string
	}
)

const (
	scriptCacheSize = 4096

	cacheKeySeparator = "\x00"
)

var (
	ErrUnsupportedLanguage = errors.New("unsupported script language")
	ErrScriptCompile       = errors.New("script compile error")
	ErrScriptExecution     = errors.New("script execution error")
)

// NewEnv creates a script environment with an empty compilation cache
func NewEnv() *Env {
	return &Env{
		cache:     map[string]*Compiled{},
		statePool: make(chan *luaState, luaStatePoolSize),
	}
}

// Compile turns a script configuration into an evaluable predicate. The
// provided argument names are bound as locals, in order, when the
// predicate runs. Results are cached by script text and argument list
func (e *Env) Compile(
	cfg *api.ScriptConfig, argNames []string,
) (*Compiled, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Language != api.ScriptLangLua {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, cfg.Language)
	}

	key := cacheKey(cfg, argNames)
	e.mu.Lock()
	defer e.mu.Unlock()
	if c, ok := e.cache[key]; ok {
		return c, nil
	}

	c, err := e.compileLua(cfg.Script, argNames)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScriptCompile, err)
	}
	if len(e.cache) >= scriptCacheSize {
		e.cache = map[string]*Compiled{}
	}
	e.cache[key] = c
	return c, nil
}

// EvaluatePredicate runs a compiled predicate against the provided inputs
// and returns its boolean result. Missing inputs are bound as nil
func (e *Env) EvaluatePredicate(c *Compiled, inputs api.Args) (bool, error) {
	return e.evaluateLua(c, inputs)
}

// EvaluateConfig compiles the configuration if necessary and evaluates it
// against the inputs, binding the sorted input names as locals
func (e *Env) EvaluateConfig(
	_ context.Context, cfg *api.ScriptConfig, inputs api.Args,
) (bool, error) {
	names := make([]string, 0, len(inputs))
	for name := range inputs {
		names = append(names, string(name))
	}
	slices.Sort(names)
	c, err := e.Compile(cfg, names)
	if err != nil {
		return false, err
	}
	return e.EvaluatePredicate(c, inputs)
}

func cacheKey(cfg *api.ScriptConfig, argNames []string) string {
	return strings.Join(
		append([]string{cfg.Script}, argNames...), cacheKeySeparator,
	)
}
