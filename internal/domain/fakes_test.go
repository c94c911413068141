package domain_test

import (
	"errors"
	"strings"

	domain "spruce.dev/pkg/spruce/internal/domain"
	m "spruce.dev/pkg/spruce/internal/model"
)

// textTree is the syntax tree of the toy text grammar: the document itself.
type textTree struct {
	text string
}

// textGrammar accepts any text that does not contain "unparseable".
type textGrammar struct{}

func (textGrammar) ID() m.GrammarID {
	return "text"
}

func (textGrammar) Parse(_ m.Path, text string) (*textTree, error) {
	if strings.Contains(text, "unparseable") {
		return nil, errors.New("syntax error near unparseable")
	}

	return &textTree{text: text}, nil
}

func (textGrammar) Render(tree *textTree) (string, error) {
	return tree.text, nil
}

// strictGrammar additionally refuses trees containing "invalid".
type strictGrammar struct {
	textGrammar
}

func (strictGrammar) Validate(tree *textTree) error {
	if strings.Contains(tree.text, "invalid") {
		return errors.New("tree contains invalid node")
	}

	return nil
}

// replaceMutator swaps the whole document when it equals from.
type replaceMutator struct {
	domain.Descriptor

	from string
	to   string
}

func newReplace(id, from, to string) *replaceMutator {
	return &replaceMutator{Descriptor: domain.Descriptor{Name: id}, from: from, to: to}
}

func (r *replaceMutator) Apply(_ domain.Target, tree *textTree) (bool, error) {
	if tree.text != r.from {
		return false, nil
	}

	tree.text = r.to

	return true, nil
}

// recordingMutator appends its id to a shared log and reports a change
// without touching the tree.
type recordingMutator struct {
	domain.Descriptor

	log *[]string
}

func newRecording(id, since string, log *[]string, tags ...string) *recordingMutator {
	return &recordingMutator{
		Descriptor: domain.Descriptor{Name: id, Labels: tags, Since: m.MustParseVersion(since)},
		log:        log,
	}
}

func (r *recordingMutator) Apply(_ domain.Target, _ *textTree) (bool, error) {
	*r.log = append(*r.log, r.ID())

	return true, nil
}

// funcMutator runs fn as its Apply.
type funcMutator struct {
	domain.Descriptor

	fn func(tree *textTree) (bool, error)
}

func newFunc(id string, fn func(tree *textTree) (bool, error)) *funcMutator {
	return &funcMutator{Descriptor: domain.Descriptor{Name: id}, fn: fn}
}

func (f *funcMutator) Apply(_ domain.Target, tree *textTree) (bool, error) {
	return f.fn(tree)
}

func selectionOf(mutators ...domain.Mutator[*textTree]) domain.RuleSelection[*textTree] {
	return domain.RuleSelection[*textTree]{
		Target:   m.MustParseVersion("1.21"),
		Mutators: mutators,
	}
}
