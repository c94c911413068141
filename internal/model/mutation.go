package model

//go:generate go tool stringer -type=StepStatus -linecomment

// StepStatus is the result of applying one mutator during a Refactorer run.
type StepStatus int

const (
	// StepUnchanged means the mutator reported no change.
	StepUnchanged StepStatus = iota // unchanged
	// StepAccepted means the mutator changed the tree and the result parsed.
	StepAccepted // accepted
	// StepRejected means the change was discarded; Reason says why.
	StepRejected // rejected
)

// StepResult records what happened to one mutator of a selection.
type StepResult struct {
	MutatorID string
	Status    StepStatus
	Reason    string
}

// Rejection is a mutator whose change was discarded, with the reason.
type Rejection struct {
	MutatorID string
	Reason    string
}

// Outcome is the result of a Refactorer run over one source text.
type Outcome struct {
	Text     string
	Changed  bool
	Accepted []string
	Rejected []Rejection
	Steps    []StepResult
}

// StepOutput is what a formatting pipeline step hands to the next one.
// Applied lists the mutator ids that produced accepted changes, if any.
type StepOutput struct {
	Text    string
	Applied []string
}
