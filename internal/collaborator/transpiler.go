package collaborator

import (
	"errors"
	"fmt"

	"github.com/juliuspleunes4/mamba/internal/ast"
)

// ErrNotImplemented is returned by stages that document a contract without
// fulfilling it yet.
var ErrNotImplemented = errors.New("mamba: not implemented")

// Transpiler documents the shape a future source-to-source translator would
// have: take a parsed module and emit a target-language source file. This
// implementation performs no translation and always reports the contract as
// unimplemented, so callers building against it today get a typed error
// rather than a silently wrong file.
type Transpiler struct {
	// Target names the systems language a real implementation would emit,
	// e.g. "rust" or "go". Recorded for error messages only.
	Target string
}

// Transpile returns an error wrapping ErrNotImplemented for any non-nil
// module, and a separate error for a nil one; it exists so the interface a
// real transpiler would satisfy can be exercised end-to-end today.
func (t Transpiler) Transpile(mod *ast.Module) ([]byte, error) {
	if mod == nil {
		return nil, errors.New("mamba: cannot transpile a nil module")
	}
	target := t.Target
	if target == "" {
		target = "<unconfigured target>"
	}
	return nil, fmt.Errorf("transpile to %s: %w", target, ErrNotImplemented)
}
