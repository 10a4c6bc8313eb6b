package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/samber/oops"

	"github.com/juliuspleunes4/mamba/internal/diagnostics"
)

// readSource reads a source file, wrapping I/O failures with a structured
// CLI-layer error. Diagnostics produced by lexing or parsing are never
// wrapped this way; only this outer boundary is.
func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", oops.Code("FILE_NOT_FOUND").With("path", path).Wrap(err)
		}
		return "", oops.Code("FILE_UNREADABLE").With("path", path).Wrap(err)
	}
	return string(data), nil
}

// diagnosticView is the JSON-serializable shape of a diagnostics.Error.
type diagnosticView struct {
	Phase      string `json:"phase"`
	Kind       string `json:"kind"`
	File       string `json:"file,omitempty"`
	Line       int    `json:"line"`
	Column     int    `json:"column"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

func toDiagnosticViews(errs []*diagnostics.Error) []diagnosticView {
	views := make([]diagnosticView, len(errs))
	for i, e := range errs {
		views[i] = diagnosticView{
			Phase:      string(e.Phase),
			Kind:       string(e.Kind),
			File:       e.File,
			Line:       e.Pos.Line,
			Column:     e.Pos.Column,
			Message:    e.Message,
			Suggestion: e.Suggestion,
		}
	}
	return views
}

// renderDiagnostics writes diagnostics either as JSON or as one line per
// error in the lexer/parser's own Error() format, depending on the --json flag.
func renderDiagnostics(cmd interface{ Println(...interface{}) }, errs []*diagnostics.Error, asJSON bool) error {
	if asJSON {
		data, err := json.MarshalIndent(toDiagnosticViews(errs), "", "  ")
		if err != nil {
			return fmt.Errorf("marshal diagnostics: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}
	for _, e := range errs {
		cmd.Println(e.Error())
	}
	return nil
}
