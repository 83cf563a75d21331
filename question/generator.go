package question

import (
	"math/rand/v2"
	"net"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mensylisir/ipsprint/common"
	"github.com/mensylisir/ipsprint/hook"
	"github.com/mensylisir/ipsprint/ip"
	"github.com/mensylisir/ipsprint/logger"
)

// Retry budgets. Exhausting a candidate budget switches to a fallback constant;
// exhausting MaxSynthesizeAttempts fails the generator.
const (
	MaxCandidateAttempts  = 100
	MaxSelectiveAttempts  = 300
	MaxHarvestAttempts    = 50
	MaxSynthesizeAttempts = 1000
)

// Fallback values, each known to satisfy the predicate it stands in for.
var (
	FallbackUnicast = ip.MustParse("172.16.5.9")
	FallbackPrivate = ip.MustParse("192.168.1.100")
	FallbackPublic  = ip.MustParse("8.8.8.8")

	FallbackByClass = map[ip.Class]ip.Address{
		ip.ClassA: ip.MustParse("12.34.56.78"),
		ip.ClassB: ip.MustParse("150.20.30.40"),
		ip.ClassC: ip.MustParse("200.100.50.25"),
		ip.ClassD: ip.MustParse("230.1.2.3"),
		ip.ClassE: ip.MustParse("245.6.7.8"),
	}

	// FallbackDistractors spans every class and type.
	FallbackDistractors = []ip.Address{
		ip.MustParse("8.8.8.8"),
		ip.MustParse("10.1.2.3"),
		ip.MustParse("127.0.0.1"),
		ip.MustParse("150.20.30.40"),
		ip.MustParse("172.20.1.1"),
		ip.MustParse("192.168.0.10"),
		ip.MustParse("200.100.50.25"),
		ip.MustParse("230.1.2.3"),
		ip.MustParse("245.6.7.8"),
	}
)

// GenerateFunc produces one question or an error explaining why it could not.
type GenerateFunc func(g *Generator) (*Question, error)

// Generator carries the randomness and rendering shared by all question kinds.
// It is not safe for concurrent use.
type Generator struct {
	rng    *rand.Rand
	render Renderer
	log    *logrus.Entry
}

// NewGenerator builds a Generator. A nil rng is seeded from the clock and a nil
// renderer defaults to Spanish.
func NewGenerator(rng *rand.Rand, render Renderer) *Generator {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	if render == nil {
		render = Spanish{}
	}
	return &Generator{
		rng:    rng,
		render: render,
		log:    logger.Log.ForGenerator("question"),
	}
}

// findAddress draws up to attempts candidates and returns the first one accept
// allows, or fallback once the budget is spent.
func (g *Generator) findAddress(kind Kind, attempts int, draw func() ip.Address, accept func(ip.Address, ip.Classification) bool, fallback ip.Address) ip.Address {
	for i := 0; i < attempts; i++ {
		a := draw()
		if accept(a, ip.Classify(a)) {
			return a
		}
	}
	g.log.WithField(common.GeneratorName, string(kind)).Debugf("no candidate after %d draws, using fallback %s", attempts, fallback)
	return fallback
}

func (g *Generator) randomAddress() ip.Address {
	return ip.RandomAddress(g.rng)
}

func (g *Generator) pickClass(from []ip.Class) ip.Class {
	return from[g.rng.IntN(len(from))]
}

// otherClass picks a class from from that is not c.
func (g *Generator) otherClass(c ip.Class, from []ip.Class) ip.Class {
	others := make([]ip.Class, 0, len(from))
	for _, cand := range from {
		if cand != c {
			others = append(others, cand)
		}
	}
	return others[g.rng.IntN(len(others))]
}

var unicastClasses = []ip.Class{ip.ClassA, ip.ClassB, ip.ClassC}

// build renders facts and the collected options into a Question.
func (g *Generator) build(kind Kind, level common.Level, facts Facts, answer string, want int, d distractors) (*Question, error) {
	set := newOptionSet(answer, want)
	if err := g.fill(set, d); err != nil {
		return nil, errors.Wrapf(err, "%s", kind)
	}
	return &Question{
		Kind:        kind,
		Level:       level,
		Prompt:      g.render.Prompt(kind, facts),
		Options:     set.shuffled(g.rng),
		Answer:      answer,
		Explanation: g.render.Explanation(kind, facts),
		Facts:       facts,
	}, nil
}

// Generate runs fn and turns a panic into an error.
func (g *Generator) Generate(fn GenerateFunc) (*Question, error) {
	var q *Question
	err := hook.Call(hook.Func{
		TryFn: func() (err error) {
			q, err = fn(g)
			return err
		},
		CatchFn: func(err error) error {
			return errors.Wrap(err, "question generator failed")
		},
	})
	if err != nil {
		return nil, err
	}
	return q, nil
}

// dottedPrefix renders an arbitrary prefix length as a dotted mask, for
// synthesized mask distractors.
func dottedPrefix(bits int) string {
	return net.IP(net.CIDRMask(bits, 32)).String()
}
