// Package question builds multiple-choice IPv4 questions.
//
// Generators work on structured facts (an address and what the classifier says
// about it) and hand those facts to a Renderer for display text. Every generator
// runs the same pipeline: find a candidate by bounded rejection sampling, fall
// back to a known-good constant, then collect distractors by harvesting,
// drawing from a fixed pool and finally synthesizing, deduplicated on the
// rendered string and shuffled.
package question

import (
	"github.com/pkg/errors"

	"github.com/mensylisir/ipsprint/common"
	"github.com/mensylisir/ipsprint/ip"
)

var (
	ErrUnknownLevel     = errors.New("unknown level")
	ErrEmptyPool        = errors.New("level has no question generators")
	ErrInvalidQuestion  = errors.New("generator returned a malformed question")
	ErrOptionsExhausted = errors.New("could not collect enough distinct options")
)

// Kind identifies a generator.
type Kind string

const (
	KindClass       Kind = "class"
	KindType        Kind = "type"
	KindMask        Kind = "mask"
	KindPickClass   Kind = "pick-class"
	KindPickPrivate Kind = "pick-private"
	KindPickMask    Kind = "pick-mask"

	KindClassType    Kind = "class-type"
	KindClassMask    Kind = "class-mask"
	KindClassNetwork Kind = "class-network"
	KindClassHost    Kind = "class-host"
)

// Option counts per question shape.
const (
	ClassOptionCount  = 5
	BinaryOptionCount = 2
	OptionCount       = 4
)

// Facts is the structured content a question was built from.
type Facts struct {
	Address        ip.Address        `json:"address"`
	Classification ip.Classification `json:"classification"`
	Portions       *ip.Portions      `json:"portions,omitempty"`
	// TargetClass and TargetMask are what "select an address" questions ask for.
	TargetClass ip.Class `json:"targetClass,omitempty"`
	TargetMask  ip.Mask  `json:"targetMask,omitempty"`
}

func factsFor(a ip.Address) Facts {
	c := ip.Classify(a)
	f := Facts{Address: a, Classification: c}
	if p, ok := ip.SplitPortions(a, c.DefaultMask); ok {
		f.Portions = &p
	}
	return f
}

// Question is one multiple-choice step of a round. It is not modified after
// a generator returns it.
type Question struct {
	Kind        Kind         `json:"kind"`
	Level       common.Level `json:"level"`
	Prompt      string       `json:"prompt"`
	Options     []string     `json:"options"`
	Answer      string       `json:"answer"`
	Explanation string       `json:"explanation"`
	Facts       Facts        `json:"facts"`
}

// IsCorrect reports whether choice is the right option.
func (q *Question) IsCorrect(choice string) bool {
	return q != nil && choice == q.Answer
}

// Validate checks the shape the presentation layer relies on. want is the
// declared option count; zero skips the length check.
func (q *Question) Validate(want int) error {
	if q == nil {
		return errors.Wrap(ErrInvalidQuestion, "nil question")
	}
	if q.Prompt == "" {
		return errors.Wrap(ErrInvalidQuestion, "empty prompt")
	}
	if len(q.Options) == 0 {
		return errors.Wrap(ErrInvalidQuestion, "no options")
	}
	if want > 0 && len(q.Options) != want {
		return errors.Wrapf(ErrInvalidQuestion, "%d options, want %d", len(q.Options), want)
	}
	seen := make(map[string]struct{}, len(q.Options))
	hits := 0
	for _, opt := range q.Options {
		if _, dup := seen[opt]; dup {
			return errors.Wrapf(ErrInvalidQuestion, "duplicate option %q", opt)
		}
		seen[opt] = struct{}{}
		if opt == q.Answer {
			hits++
		}
	}
	if hits != 1 {
		return errors.Wrapf(ErrInvalidQuestion, "answer %q appears %d times", q.Answer, hits)
	}
	return nil
}
