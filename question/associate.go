package question

import (
	"github.com/mensylisir/ipsprint/common"
	"github.com/mensylisir/ipsprint/ip"
)

// AssociatePool is the generator pool of the Associate level.
var AssociatePool = []Entry{
	{Kind: KindClassType, Options: OptionCount, Generate: GenerateClassType},
	{Kind: KindClassMask, Options: OptionCount, Generate: GenerateClassMask},
	{Kind: KindClassNetwork, Options: OptionCount, Generate: GenerateClassNetwork},
	{Kind: KindClassHost, Options: OptionCount, Generate: GenerateClassHost},
}

// realizableTypes lists every class/type pair some address actually has.
var realizableTypes = map[ip.Class][]ip.Type{
	ip.ClassA: {ip.TypePublic, ip.TypePrivate, ip.TypeLoopback},
	ip.ClassB: {ip.TypePublic, ip.TypePrivate},
	ip.ClassC: {ip.TypePublic, ip.TypePrivate},
	ip.ClassD: {ip.TypeNotApplicable},
	ip.ClassE: {ip.TypeNotApplicable},
}

// vary returns a compound option that changes the class, the facet value, or
// both, each drawn from its own value space.
func (g *Generator) vary(class ip.Class, value string, classes []ip.Class, values []string, facet Facet) string {
	c, v := class, value
	switch g.rng.IntN(3) {
	case 0:
		c = g.pickClass(classes)
	case 1:
		v = values[g.rng.IntN(len(values))]
	default:
		c = g.pickClass(classes)
		v = values[g.rng.IntN(len(values))]
	}
	return g.render.Pair(c, facet, v)
}

// realizablePair pairs c with one of the types an address of class c can have.
func (g *Generator) realizablePair(c ip.Class) string {
	types := realizableTypes[c]
	return g.render.Pair(c, FacetType, g.render.Type(types[g.rng.IntN(len(types))]))
}

// GenerateClassType asks for class and type together.
func GenerateClassType(g *Generator) (*Question, error) {
	var addr ip.Address
	if g.rng.IntN(3) == 0 {
		addr = ip.RandomPrivateAddress(g.rng)
	} else {
		addr = g.findAddress(KindClassType, MaxCandidateAttempts, g.randomAddress,
			func(_ ip.Address, c ip.Classification) bool { return c.Class.Unicast() },
			FallbackUnicast)
	}
	facts := factsFor(addr)
	cls := facts.Classification

	var pool []string
	for _, c := range ip.Classes {
		for _, t := range realizableTypes[c] {
			pool = append(pool, g.render.Pair(c, FacetType, g.render.Type(t)))
		}
	}

	answer := g.render.Pair(cls.Class, FacetType, g.render.Type(cls.Type))
	return g.build(KindClassType, common.LevelAssociate, facts, answer, OptionCount, distractors{
		harvest: func() string {
			// a real neighbour first, then other types the subject's class can have
			if g.rng.IntN(2) == 0 {
				other := ip.Classify(g.randomAddress())
				return g.render.Pair(other.Class, FacetType, g.render.Type(other.Type))
			}
			c := cls.Class
			if g.rng.IntN(2) == 0 {
				c = g.pickClass(ip.Classes)
			}
			return g.realizablePair(c)
		},
		harvestAttempts: MaxHarvestAttempts,
		pool:            pool,
		synthesize: func() string {
			return g.realizablePair(g.pickClass(ip.Classes))
		},
	})
}

// GenerateClassMask asks for class and default mask together.
func GenerateClassMask(g *Generator) (*Question, error) {
	addr := g.findAddress(KindClassMask, MaxCandidateAttempts, g.randomAddress, unicastNotLoopback, FallbackUnicast)
	facts := factsFor(addr)
	cls := facts.Classification

	masks := []string{g.render.Mask(ip.MaskNone)}
	for _, m := range ip.Masks {
		masks = append(masks, g.render.Mask(m))
	}
	var pool []string
	for _, c := range ip.Classes {
		pool = append(pool, g.render.Pair(c, FacetMask, g.render.Mask(c.DefaultMask())))
		pool = append(pool, g.render.Pair(c, FacetMask, g.render.Mask(cls.DefaultMask)))
	}

	answer := g.render.Pair(cls.Class, FacetMask, g.render.Mask(cls.DefaultMask))
	return g.build(KindClassMask, common.LevelAssociate, facts, answer, OptionCount, distractors{
		harvest: func() string {
			return g.vary(cls.Class, g.render.Mask(cls.DefaultMask), ip.Classes, masks, FacetMask)
		},
		harvestAttempts: MaxHarvestAttempts,
		pool:            pool,
		synthesize: func() string {
			return g.render.Pair(g.pickClass(ip.Classes), FacetMask, masks[g.rng.IntN(len(masks))])
		},
	})
}

// GenerateClassNetwork asks for class and network portion together.
func GenerateClassNetwork(g *Generator) (*Question, error) {
	return g.classPortion(KindClassNetwork, FacetNetwork, func(p ip.Portions) string { return p.Network })
}

// GenerateClassHost asks for class and host portion together.
func GenerateClassHost(g *Generator) (*Question, error) {
	return g.classPortion(KindClassHost, FacetHost, func(p ip.Portions) string { return p.Host })
}

// classPortion builds both portion questions. Every portion string offered is a
// real octet-boundary split of either the subject address or another generated
// address; only the class label it is paired with may be wrong.
func (g *Generator) classPortion(kind Kind, facet Facet, side func(ip.Portions) string) (*Question, error) {
	addr := g.findAddress(kind, MaxCandidateAttempts, g.randomAddress, unicastNotLoopback, FallbackUnicast)
	facts := factsFor(addr)
	cls := facts.Classification
	if facts.Portions == nil {
		// unreachable: the predicate only admits classes with a default mask
		addr = FallbackUnicast
		facts = factsFor(addr)
		cls = facts.Classification
	}

	splits := portionValues(addr, side)
	fallback := portionValues(FallbackByClass[g.otherClass(cls.Class, unicastClasses)], side)
	var pool []string
	for _, c := range unicastClasses {
		for _, v := range fallback {
			pool = append(pool, g.render.Pair(c, facet, v))
		}
	}

	answer := g.render.Pair(cls.Class, facet, side(*facts.Portions))
	return g.build(kind, common.LevelAssociate, facts, answer, OptionCount, distractors{
		harvest: func() string {
			return g.vary(cls.Class, side(*facts.Portions), unicastClasses, splits, facet)
		},
		harvestAttempts: MaxHarvestAttempts,
		pool:            pool,
		synthesize: func() string {
			other := ip.RandomAddressInClass(g.rng, g.pickClass(unicastClasses))
			values := portionValues(other, side)
			return g.render.Pair(g.pickClass(unicastClasses), facet, values[g.rng.IntN(len(values))])
		},
	})
}

// portionValues splits a at every classful boundary.
func portionValues(a ip.Address, side func(ip.Portions) string) []string {
	out := make([]string, 0, len(ip.Masks))
	for _, m := range ip.Masks {
		if p, ok := ip.SplitPortions(a, m); ok {
			out = append(out, side(p))
		}
	}
	return out
}
