package engine

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/chazu/wrlmesh/pkg/kernel/sdfx"
)

// newTestEngine returns an engine with a coarse kernel so solids mesh fast.
func newTestEngine() *Engine {
	return NewEngine(sdfx.NewWithCells(16))
}

func TestEvaluateEmptyString(t *testing.T) {
	eng := newTestEngine()

	for _, src := range []string{"", "   \n\t  \n  "} {
		g, evalErrs, err := eng.Evaluate(src)
		if err != nil {
			t.Fatalf("unexpected fatal error: %v", err)
		}
		if len(evalErrs) > 0 {
			t.Fatalf("unexpected eval errors: %v", evalErrs)
		}
		if g == nil {
			t.Fatal("expected non-nil scene")
		}
		if g.NodeCount() != 0 {
			t.Errorf("expected empty scene, got %d nodes", g.NodeCount())
		}
	}
}

func TestEvaluatePlainExpressions(t *testing.T) {
	eng := newTestEngine()

	source := `
(def x 10)
(def y 20)
(+ x y)
`
	g, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if g == nil || g.NumChildren() != 0 {
		t.Fatal("expected empty non-nil scene")
	}
}

func TestEvaluateSyntaxError(t *testing.T) {
	eng := newTestEngine()

	g, evalErrs, err := eng.Evaluate("(+ 1 2")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if g != nil {
		t.Fatal("expected nil scene on syntax error")
	}
	if len(evalErrs) == 0 || evalErrs[0].Message == "" {
		t.Fatalf("expected a populated eval error, got %v", evalErrs)
	}
}

func TestEvaluateUndefinedSymbol(t *testing.T) {
	eng := newTestEngine()

	g, evalErrs, err := eng.Evaluate("(+ 1 undefined-symbol)")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if g != nil {
		t.Fatal("expected nil scene on eval error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error for undefined symbol")
	}
}

func TestEvaluateBuiltinErrorIsNotFatal(t *testing.T) {
	eng := newTestEngine()

	g, evalErrs, err := eng.Evaluate(`(sphere :radius -1)`)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if g != nil {
		t.Fatal("expected nil scene on eval error")
	}
	if len(evalErrs) == 0 || !strings.Contains(evalErrs[0].Error(), "must be positive") {
		t.Fatalf("expected radius error, got %v", evalErrs)
	}
}

func TestEvalErrorImplementsError(t *testing.T) {
	e := EvalError{Line: 5, Message: "something went wrong"}
	s := e.Error()
	if !strings.Contains(s, "line 5") || !strings.Contains(s, "something went wrong") {
		t.Errorf("Error() = %q", s)
	}

	e2 := EvalError{Message: "no location"}
	if strings.Contains(e2.Error(), "line") {
		t.Errorf("Error() with no line should not contain 'line', got: %s", e2.Error())
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	eng := newTestEngine()
	source := `(shape "tri" (indexed-face-set :coord [0 0 0 1 0 0 0 1 0] :coord-index [0 1 2 -1]))`

	for i := 0; i < 5; i++ {
		g, evalErrs, err := eng.Evaluate(source)
		if err != nil {
			t.Fatalf("iteration %d: unexpected fatal error: %v", i, err)
		}
		if len(evalErrs) > 0 {
			t.Fatalf("iteration %d: unexpected eval errors: %v", i, evalErrs)
		}
		if g.NumChildren() != 1 || g.NodeCount() != 4 {
			t.Errorf("iteration %d: got %d children, %d nodes", i, g.NumChildren(), g.NodeCount())
		}
	}
}

func TestRunReportsFindings(t *testing.T) {
	eng := newTestEngine()

	// The second face has only two corners.
	res, err := eng.Run(`(shape "m" (indexed-face-set :coord [0 0 0 1 0 0 0 1 0] :coord-index [0 1 2 -1 0 1 -1]))`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Errors) > 0 {
		t.Fatalf("eval errors: %v", res.Errors)
	}
	if len(res.Findings) != 1 || !strings.Contains(res.Findings[0].Message, "fewer than 3 corners") {
		t.Errorf("findings = %v", res.Findings)
	}
}

func TestNewEngineWithOptionsDefaultsTimeout(t *testing.T) {
	eng := NewEngineWithOptions(sdfx.New(), Options{})
	if eng.opts.Timeout != EvalTimeout {
		t.Errorf("Timeout = %s, want %s", eng.opts.Timeout, EvalTimeout)
	}
}

func TestWaitWithTimeout(t *testing.T) {
	var mu sync.Mutex
	var gen uint64 = 1
	ch := make(chan evalResult) // never sends

	start := time.Now()
	_, _, err := waitWithTimeout(ch, 1, &mu, &gen, 20*time.Millisecond)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if !strings.Contains(err.Error(), "20ms") {
		t.Errorf("timeout error should name the limit: %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("waitWithTimeout did not honour the timeout")
	}
}

func TestEvaluateGenerationDiscardsStale(t *testing.T) {
	var mu sync.Mutex
	gen := uint64(2)

	ch := make(chan evalResult, 1)
	ch <- evalResult{}

	_, _, err := waitWithTimeout(ch, 1, &mu, &gen, time.Second)
	if !errors.Is(err, ErrSuperseded) {
		t.Fatalf("expected ErrSuperseded, got %v", err)
	}
}

func TestParseZygomysError(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		wantLine int
		wantMsg  string
	}{
		{"error on line format", "Error on line 5: unexpected token\n", 5, "unexpected token"},
		{"no line info", "some generic error", 0, "some generic error"},
		{"line format lowercase", "error on line 12: missing paren", 12, "missing paren"},
		{"short line format", "line 3: bad coord", 3, "bad coord"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := parseZygomysError(errors.New(tt.msg))
			if len(errs) == 0 {
				t.Fatal("expected at least one error")
			}
			e := errs[0]
			if e.Line != tt.wantLine {
				t.Errorf("line = %d, want %d", e.Line, tt.wantLine)
			}
			if !strings.Contains(e.Message, tt.wantMsg) {
				t.Errorf("message = %q, want containing %q", e.Message, tt.wantMsg)
			}
		})
	}
}
