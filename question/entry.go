package question

import (
	"github.com/mensylisir/ipsprint/common"
	"github.com/mensylisir/ipsprint/ip"
)

// EntryPool is the generator pool of the Entry level.
var EntryPool = []Entry{
	{Kind: KindClass, Options: ClassOptionCount, Generate: GenerateClass},
	{Kind: KindType, Options: BinaryOptionCount, Generate: GenerateType},
	{Kind: KindMask, Options: OptionCount, Generate: GenerateMask},
	{Kind: KindPickClass, Options: OptionCount, Generate: GeneratePickClass},
	{Kind: KindPickPrivate, Options: OptionCount, Generate: GeneratePickPrivate},
	{Kind: KindPickMask, Options: OptionCount, Generate: GeneratePickMask},
}

func unicastNotLoopback(_ ip.Address, c ip.Classification) bool {
	return c.Class.Unicast() && c.Type != ip.TypeLoopback
}

// GenerateClass asks for the class of an address. All five classes are offered.
func GenerateClass(g *Generator) (*Question, error) {
	target := g.pickClass(ip.Classes)
	addr := g.findAddress(KindClass, MaxSelectiveAttempts, g.randomAddress,
		func(_ ip.Address, c ip.Classification) bool {
			return c.Class == target && c.Type != ip.TypeLoopback
		},
		FallbackByClass[target])
	facts := factsFor(addr)

	pool := make([]string, 0, len(ip.Classes))
	for _, c := range ip.Classes {
		pool = append(pool, g.render.Class(c))
	}
	return g.build(KindClass, common.LevelEntry, facts, g.render.Class(facts.Classification.Class), ClassOptionCount, distractors{
		pool: pool,
		synthesize: func() string {
			return g.render.Class(g.pickClass(ip.Classes))
		},
	})
}

// GenerateType asks whether a unicast address is public or private.
func GenerateType(g *Generator) (*Question, error) {
	var addr ip.Address
	if g.rng.IntN(2) == 0 {
		addr = ip.RandomPrivateAddress(g.rng)
	} else {
		var ok bool
		if addr, ok = ip.RandomPublicAddress(g.rng, MaxCandidateAttempts); !ok {
			g.log.WithField(common.GeneratorName, string(KindType)).Debug("no public draw, using fallback")
			addr = FallbackPublic
		}
	}
	facts := factsFor(addr)

	binary := []string{g.render.Type(ip.TypePublic), g.render.Type(ip.TypePrivate)}
	return g.build(KindType, common.LevelEntry, facts, g.render.Type(facts.Classification.Type), BinaryOptionCount, distractors{
		pool: binary,
		synthesize: func() string {
			return binary[g.rng.IntN(len(binary))]
		},
	})
}

// GenerateMask asks for the default mask of a class A, B or C address.
func GenerateMask(g *Generator) (*Question, error) {
	addr := g.findAddress(KindMask, MaxCandidateAttempts, g.randomAddress, unicastNotLoopback, FallbackUnicast)
	facts := factsFor(addr)

	pool := []string{g.render.Mask(ip.MaskNone)}
	for _, m := range ip.Masks {
		pool = append(pool, g.render.Mask(m))
	}
	return g.build(KindMask, common.LevelEntry, facts, g.render.Mask(facts.Classification.DefaultMask), OptionCount, distractors{
		harvest: func() string {
			return g.render.Mask(ip.Classify(g.randomAddress()).DefaultMask)
		},
		harvestAttempts: MaxHarvestAttempts,
		pool:            pool,
		synthesize: func() string {
			// any contiguous mask between /1 and /30 looks like a plausible answer
			return dottedPrefix(1 + g.rng.IntN(30))
		},
	})
}

// GeneratePickClass asks which of four addresses belongs to a given class.
func GeneratePickClass(g *Generator) (*Question, error) {
	target := g.pickClass(ip.Classes)
	addr := g.findAddress(KindPickClass, MaxSelectiveAttempts, g.randomAddress,
		func(_ ip.Address, c ip.Classification) bool {
			return c.Class == target && c.Type != ip.TypeLoopback
		},
		FallbackByClass[target])
	facts := factsFor(addr)
	facts.TargetClass = target

	return g.build(KindPickClass, common.LevelEntry, facts, g.render.Address(addr), OptionCount, distractors{
		harvest: func() string {
			a := g.randomAddress()
			if ip.ClassOf(a) == target {
				return ""
			}
			return g.render.Address(a)
		},
		harvestAttempts: MaxHarvestAttempts,
		pool:            g.addressPool(func(c ip.Classification) bool { return c.Class != target }),
		synthesize: func() string {
			return g.render.Address(ip.RandomAddressInClass(g.rng, g.otherClass(target, ip.Classes)))
		},
	})
}

// GeneratePickPrivate asks which of four addresses is private.
func GeneratePickPrivate(g *Generator) (*Question, error) {
	addr := ip.RandomPrivateAddress(g.rng)
	if ip.Classify(addr).Type != ip.TypePrivate {
		addr = FallbackPrivate
	}
	facts := factsFor(addr)

	notPrivate := func(a ip.Address) string {
		if ip.Classify(a).Type == ip.TypePrivate {
			return ""
		}
		return g.render.Address(a)
	}
	return g.build(KindPickPrivate, common.LevelEntry, facts, g.render.Address(addr), OptionCount, distractors{
		harvest: func() string {
			return notPrivate(g.randomAddress())
		},
		harvestAttempts: MaxHarvestAttempts,
		pool:            g.addressPool(func(c ip.Classification) bool { return c.Type != ip.TypePrivate }),
		synthesize: func() string {
			return notPrivate(ip.RandomAddressInClass(g.rng, g.pickClass(unicastClasses)))
		},
	})
}

// GeneratePickMask asks which of four addresses uses a given default mask.
func GeneratePickMask(g *Generator) (*Question, error) {
	targetClass := g.pickClass(unicastClasses)
	target := targetClass.DefaultMask()
	addr := g.findAddress(KindPickMask, MaxCandidateAttempts, g.randomAddress,
		func(_ ip.Address, c ip.Classification) bool {
			return c.DefaultMask == target && c.Type != ip.TypeLoopback
		},
		FallbackByClass[targetClass])
	facts := factsFor(addr)
	facts.TargetMask = target

	return g.build(KindPickMask, common.LevelEntry, facts, g.render.Address(addr), OptionCount, distractors{
		harvest: func() string {
			a := g.randomAddress()
			if ip.Classify(a).DefaultMask == target {
				return ""
			}
			return g.render.Address(a)
		},
		harvestAttempts: MaxHarvestAttempts,
		pool:            g.addressPool(func(c ip.Classification) bool { return c.DefaultMask != target }),
		synthesize: func() string {
			return g.render.Address(ip.RandomAddressInClass(g.rng, g.otherClass(targetClass, ip.Classes)))
		},
	})
}

// addressPool renders the fallback distractors that keep passes.
func (g *Generator) addressPool(keep func(ip.Classification) bool) []string {
	out := make([]string, 0, len(FallbackDistractors))
	for _, a := range FallbackDistractors {
		if keep(ip.Classify(a)) {
			out = append(out, g.render.Address(a))
		}
	}
	return out
}
