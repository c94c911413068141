package domain

import (
	"context"
	"fmt"
	"log/slog"

	m "spruce.dev/pkg/spruce/internal/model"
)

// Refactorer applies a RuleSelection to source text, one mutator at a time,
// keeping only the changes that still parse.
//
// Each step runs on a tree parsed from the last accepted text. A step that
// reports a change is rendered and re-parsed; if that fails the step is
// rejected and the tree is restored from the last accepted text. The output
// is therefore never less parseable than the input.
type Refactorer[T any] struct {
	grammar Grammar[T]
}

// NewRefactorer creates a Refactorer for grammar.
func NewRefactorer[T any](grammar Grammar[T]) *Refactorer[T] {
	return &Refactorer[T]{grammar: grammar}
}

// Grammar returns the id of the grammar the Refactorer parses with.
func (r *Refactorer[T]) Grammar() m.GrammarID {
	return r.grammar.ID()
}

// Apply runs selection over text. It fails with a *ParseError when text does
// not parse; rejected steps are reported in the Outcome, not as errors. When
// no step is accepted the Outcome carries text unchanged.
func (r *Refactorer[T]) Apply(ctx context.Context, path m.Path, text string, selection RuleSelection[T]) (m.Outcome, error) {
	tree, err := r.grammar.Parse(path, text)
	if err != nil {
		slog.Warn("Failed to parse input", "path", path, "grammar", r.grammar.ID(), "error", err)
		return m.Outcome{}, &ParseError{Path: path, Grammar: r.grammar.ID(), Err: err}
	}

	run := &refactorRun[T]{
		grammar: r.grammar,
		path:    path,
		text:    text,
		tree:    tree,
	}
	target := Target{Version: selection.Target, Path: path}
	outcome := m.Outcome{}

	for _, mutator := range selection.Mutators {
		if err := ctx.Err(); err != nil {
			return m.Outcome{}, err
		}

		step, err := run.step(target, mutator)
		if err != nil {
			return m.Outcome{}, err
		}

		outcome.Steps = append(outcome.Steps, step)

		switch step.Status {
		case m.StepAccepted:
			outcome.Accepted = append(outcome.Accepted, step.MutatorID)
		case m.StepRejected:
			outcome.Rejected = append(outcome.Rejected, m.Rejection{MutatorID: step.MutatorID, Reason: step.Reason})
		case m.StepUnchanged:
		}
	}

	outcome.Text = run.text
	outcome.Changed = len(outcome.Accepted) > 0

	if outcome.Changed {
		slog.Debug("Accepted mutators", "path", path, "mutators", outcome.Accepted)
	}

	return outcome, nil
}

// refactorRun is the state of one Apply call. At the start of every step
// tree is a fresh parse of text, the last accepted text.
type refactorRun[T any] struct {
	grammar Grammar[T]
	path    m.Path
	text    string
	tree    T

	// baseline is render(tree) for baselineOf; it lets the run notice a
	// mutator that changed the tree but reported no change.
	baseline    string
	baselineOf  string
	hasBaseline bool
}

func (run *refactorRun[T]) step(target Target, mutator Mutator[T]) (m.StepResult, error) {
	id := mutator.ID()
	baseline, baselineOK := run.pristineRendering()

	changed, err := safeApply(mutator, target, run.tree)
	if err != nil {
		return run.reject(id, fmt.Sprintf("mutator failed: %v", err))
	}

	if !changed {
		return run.settleUnchanged(id, baseline, baselineOK)
	}

	candidate, err := safeRender(run.grammar, run.tree)
	if err != nil {
		return run.reject(id, fmt.Sprintf("render failed: %v", err))
	}

	if candidate == run.text {
		if err := run.restore(); err != nil {
			return m.StepResult{}, err
		}

		return m.StepResult{MutatorID: id, Status: m.StepUnchanged}, nil
	}

	next, err := run.grammar.Parse(run.path, candidate)
	if err != nil {
		return run.reject(id, fmt.Sprintf("result does not parse: %v", err))
	}

	if validator, ok := run.grammar.(Validator[T]); ok {
		if err := validator.Validate(next); err != nil {
			return run.reject(id, fmt.Sprintf("result is invalid: %v", err))
		}
	}

	run.text = candidate
	run.tree = next

	return m.StepResult{MutatorID: id, Status: m.StepAccepted}, nil
}

// settleUnchanged handles a mutator that reported no change. If the tree was
// modified anyway the modification is discarded and the step is reported as
// rejected, so the next mutator starts from the accepted state.
func (run *refactorRun[T]) settleUnchanged(id, baseline string, baselineOK bool) (m.StepResult, error) {
	if baselineOK {
		after, err := safeRender(run.grammar, run.tree)
		if err == nil && after == baseline {
			return m.StepResult{MutatorID: id, Status: m.StepUnchanged}, nil
		}
	}

	if !baselineOK {
		// Without a baseline a silent change cannot be detected; start over
		// from the accepted text.
		if err := run.restore(); err != nil {
			return m.StepResult{}, err
		}

		return m.StepResult{MutatorID: id, Status: m.StepUnchanged}, nil
	}

	slog.Warn("Mutator modified the tree but reported no change", "mutator", id, "path", run.path)

	return run.reject(id, "modified the tree but reported no change")
}

func (run *refactorRun[T]) reject(id, reason string) (m.StepResult, error) {
	slog.Debug("Rejected mutator", "mutator", id, "path", run.path, "reason", reason)

	if err := run.restore(); err != nil {
		return m.StepResult{}, err
	}

	return m.StepResult{MutatorID: id, Status: m.StepRejected, Reason: reason}, nil
}

// restore re-parses the last accepted text, dropping whatever the current
// step did to the tree.
func (run *refactorRun[T]) restore() error {
	tree, err := run.grammar.Parse(run.path, run.text)
	if err != nil {
		slog.Error("Failed to restore accepted state", "path", run.path, "error", err)
		return fmt.Errorf("restore %s: %w", run.path, err)
	}

	run.tree = tree

	return nil
}

// pristineRendering returns render(tree) for the current accepted text,
// computing it at most once per accepted text.
func (run *refactorRun[T]) pristineRendering() (string, bool) {
	if run.hasBaseline && run.baselineOf == run.text {
		return run.baseline, true
	}

	rendered, err := safeRender(run.grammar, run.tree)
	if err != nil {
		slog.Debug("Failed to render accepted state", "path", run.path, "error", err)

		run.hasBaseline = false

		return "", false
	}

	run.baseline = rendered
	run.baselineOf = run.text
	run.hasBaseline = true

	return rendered, true
}

func safeApply[T any](mutator Mutator[T], target Target, tree T) (changed bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			changed = false
			err = &PanicError{Value: r}
		}
	}()

	return mutator.Apply(target, tree)
}

func safeRender[T any](grammar Grammar[T], tree T) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &PanicError{Value: r}
		}
	}()

	return grammar.Render(tree)
}
