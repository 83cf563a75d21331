package question

import (
	"math/rand/v2"
	"net"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mensylisir/ipsprint/ip"
)

const iterations = 500

func newTestGenerator(seed uint64) *Generator {
	return NewGenerator(rand.New(rand.NewPCG(seed, seed+1)), Spanish{})
}

func allEntries() []Entry {
	return append(append([]Entry{}, EntryPool...), AssociatePool...)
}

func TestGenerators_Shape(t *testing.T) {
	g := newTestGenerator(42)
	for _, e := range allEntries() {
		e := e
		t.Run(string(e.Kind), func(t *testing.T) {
			for i := 0; i < iterations; i++ {
				q, err := g.Generate(e.Generate)
				require.NoError(t, err)
				require.NoError(t, q.Validate(e.Options), "prompt %q options %v", q.Prompt, q.Options)
				assert.Equal(t, e.Kind, q.Kind)
				assert.NotEmpty(t, q.Prompt)
				assert.NotEmpty(t, q.Explanation)
				assert.True(t, q.IsCorrect(q.Answer))
			}
		})
	}
}

func TestPoolsDeclareOptionCounts(t *testing.T) {
	require.Len(t, EntryPool, 6)
	require.Len(t, AssociatePool, 4)

	counts := map[Kind]int{}
	for _, e := range allEntries() {
		counts[e.Kind] = e.Options
	}
	assert.Equal(t, 5, counts[KindClass])
	assert.Equal(t, 2, counts[KindType])
	for _, k := range []Kind{KindMask, KindPickClass, KindPickPrivate, KindPickMask, KindClassType, KindClassMask, KindClassNetwork, KindClassHost} {
		assert.Equal(t, 4, counts[k], "%s", k)
	}
}

func TestGenerateClass(t *testing.T) {
	g := newTestGenerator(1)
	r := Spanish{}
	want := []string{"Clase A", "Clase B", "Clase C", "Clase D", "Clase E"}
	classes := map[ip.Class]bool{}
	for i := 0; i < iterations; i++ {
		q, err := GenerateClass(g)
		require.NoError(t, err)
		assert.ElementsMatch(t, want, q.Options)
		assert.Equal(t, r.Class(ip.Classify(q.Facts.Address).Class), q.Answer)
		assert.NotEqual(t, ip.TypeLoopback, q.Facts.Classification.Type)
		classes[q.Facts.Classification.Class] = true
	}
	assert.Len(t, classes, 5, "every class should be asked")
}

func TestGenerateType(t *testing.T) {
	g := newTestGenerator(2)
	var private, public int
	for i := 0; i < iterations; i++ {
		q, err := GenerateType(g)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Pública", "Privada"}, q.Options)
		switch q.Facts.Classification.Type {
		case ip.TypePrivate:
			private++
			assert.Equal(t, "Privada", q.Answer)
		case ip.TypePublic:
			public++
			assert.Equal(t, "Pública", q.Answer)
		default:
			t.Fatalf("unexpected type %s for %s", q.Facts.Classification.Type, q.Facts.Address)
		}
	}
	assert.Positive(t, private)
	assert.Positive(t, public)
}

func TestGenerateMask(t *testing.T) {
	g := newTestGenerator(3)
	for i := 0; i < iterations; i++ {
		q, err := GenerateMask(g)
		require.NoError(t, err)
		c := ip.Classify(q.Facts.Address)
		require.True(t, c.Class.Unicast())
		assert.Equal(t, c.DefaultMask.String(), q.Answer)
		for _, opt := range q.Options {
			if opt == "N/A" {
				continue
			}
			parsed := net.ParseIP(opt)
			require.NotNil(t, parsed, "option %q is not dotted-decimal", opt)
			_, bits := net.IPMask(parsed.To4()).Size()
			assert.Equal(t, 32, bits, "option %q is not a contiguous mask", opt)
		}
	}
}

func TestGeneratePickClass(t *testing.T) {
	g := newTestGenerator(4)
	for i := 0; i < iterations; i++ {
		q, err := GeneratePickClass(g)
		require.NoError(t, err)
		matches := 0
		for _, opt := range q.Options {
			a, err := ip.Parse(opt)
			require.NoError(t, err)
			if ip.ClassOf(a) == q.Facts.TargetClass {
				matches++
				assert.Equal(t, q.Answer, opt)
			}
		}
		assert.Equal(t, 1, matches, "options %v for class %s", q.Options, q.Facts.TargetClass)
	}
}

func TestGeneratePickPrivate(t *testing.T) {
	g := newTestGenerator(5)
	for i := 0; i < iterations; i++ {
		q, err := GeneratePickPrivate(g)
		require.NoError(t, err)
		for _, opt := range q.Options {
			a, err := ip.Parse(opt)
			require.NoError(t, err)
			isPrivate := ip.Classify(a).Type == ip.TypePrivate
			assert.Equal(t, opt == q.Answer, isPrivate, "option %s", opt)
		}
	}
}

func TestGeneratePickMask(t *testing.T) {
	g := newTestGenerator(6)
	for i := 0; i < iterations; i++ {
		q, err := GeneratePickMask(g)
		require.NoError(t, err)
		require.True(t, q.Facts.TargetMask.Applicable())
		for _, opt := range q.Options {
			a, err := ip.Parse(opt)
			require.NoError(t, err)
			uses := ip.Classify(a).DefaultMask == q.Facts.TargetMask
			assert.Equal(t, opt == q.Answer, uses, "option %s mask %s", opt, q.Facts.TargetMask)
		}
	}
}

func TestGenerateClassType(t *testing.T) {
	g := newTestGenerator(7)
	r := Spanish{}
	for i := 0; i < iterations; i++ {
		q, err := GenerateClassType(g)
		require.NoError(t, err)
		c := ip.Classify(q.Facts.Address)
		assert.Equal(t, r.Pair(c.Class, FacetType, r.Type(c.Type)), q.Answer)
		for _, opt := range q.Options {
			assert.True(t, strings.HasPrefix(opt, "Clase "), opt)
			assert.Contains(t, opt, ", tipo ")
		}
	}
}

func TestGenerateClassType_OnlyRealizablePairs(t *testing.T) {
	r := Spanish{}
	valid := map[string]bool{}
	for c, types := range realizableTypes {
		for _, typ := range types {
			valid[r.Pair(c, FacetType, r.Type(typ))] = true
		}
	}
	for _, seed := range []uint64{7, 11, 23} {
		g := newTestGenerator(seed)
		for i := 0; i < iterations; i++ {
			q, err := GenerateClassType(g)
			require.NoError(t, err)
			for _, opt := range q.Options {
				assert.True(t, valid[opt], "no address is %q", opt)
			}
		}
	}
}

func TestGenerateClassMask(t *testing.T) {
	g := newTestGenerator(8)
	for i := 0; i < iterations; i++ {
		q, err := GenerateClassMask(g)
		require.NoError(t, err)
		c := q.Facts.Classification
		assert.Equal(t, "Clase "+string(c.Class)+", máscara "+c.DefaultMask.String(), q.Answer)
	}
}

func TestGenerateClassPortions(t *testing.T) {
	g := newTestGenerator(9)
	for _, tc := range []struct {
		fn    GenerateFunc
		label string
		side  func(ip.Portions) string
	}{
		{GenerateClassNetwork, ", red ", func(p ip.Portions) string { return p.Network }},
		{GenerateClassHost, ", host ", func(p ip.Portions) string { return p.Host }},
	} {
		for i := 0; i < iterations; i++ {
			q, err := tc.fn(g)
			require.NoError(t, err)
			require.NotNil(t, q.Facts.Portions)
			assert.Equal(t, q.Facts.Address.String(), q.Facts.Portions.Join())
			want := "Clase " + string(q.Facts.Classification.Class) + tc.label + tc.side(*q.Facts.Portions)
			assert.Equal(t, want, q.Answer)

			for _, opt := range q.Options {
				idx := strings.Index(opt, tc.label)
				require.Positive(t, idx, opt)
				value := opt[idx+len(tc.label):]
				octets := strings.Split(value, ".")
				assert.True(t, len(octets) >= 1 && len(octets) <= 3, "portion %q", value)
			}
		}
	}
}

func TestFindAddress_Fallback(t *testing.T) {
	g := newTestGenerator(10)
	draws := 0
	got := g.findAddress(KindClass, 7, func() ip.Address {
		draws++
		return ip.MustParse("1.2.3.4")
	}, func(ip.Address, ip.Classification) bool { return false }, FallbackPrivate)
	assert.Equal(t, FallbackPrivate, got)
	assert.Equal(t, 7, draws)
}

func TestFallbacksSatisfyPredicates(t *testing.T) {
	assert.True(t, unicastNotLoopback(FallbackUnicast, ip.Classify(FallbackUnicast)))
	assert.Equal(t, ip.TypePrivate, ip.Classify(FallbackPrivate).Type)
	assert.Equal(t, ip.TypePublic, ip.Classify(FallbackPublic).Type)
	for c, a := range FallbackByClass {
		assert.Equal(t, c, ip.ClassOf(a), "%s", a)
		assert.NotEqual(t, ip.TypeLoopback, ip.Classify(a).Type)
	}
}

func TestFill_Exhausted(t *testing.T) {
	g := newTestGenerator(11)
	set := newOptionSet("a", 3)
	err := g.fill(set, distractors{
		pool:       []string{"a", "b"},
		synthesize: func() string { return "b" },
	})
	assert.True(t, errors.Is(err, ErrOptionsExhausted))
}

func TestFill_Order(t *testing.T) {
	g := newTestGenerator(12)
	set := newOptionSet("answer", 4)
	harvested := 0
	err := g.fill(set, distractors{
		harvest: func() string {
			harvested++
			if harvested == 1 {
				return "h1"
			}
			return "answer"
		},
		harvestAttempts: 5,
		pool:            []string{"p1", "answer"},
		synthesize:      func() string { return "s1" },
	})
	require.NoError(t, err)
	assert.Equal(t, 5, harvested)
	assert.Equal(t, []string{"answer", "h1", "p1", "s1"}, set.options)
}

func TestValidate(t *testing.T) {
	good := &Question{Prompt: "p", Options: []string{"a", "b"}, Answer: "a"}
	assert.NoError(t, good.Validate(2))
	assert.Error(t, good.Validate(4))

	cases := map[string]*Question{
		"nil":       nil,
		"no prompt": {Options: []string{"a"}, Answer: "a"},
		"no opts":   {Prompt: "p", Answer: "a"},
		"missing":   {Prompt: "p", Options: []string{"b", "c"}, Answer: "a"},
		"duplicate": {Prompt: "p", Options: []string{"a", "a"}, Answer: "a"},
	}
	for name, q := range cases {
		t.Run(name, func(t *testing.T) {
			assert.True(t, errors.Is(q.Validate(0), ErrInvalidQuestion))
		})
	}
}

func TestSpanishRenderer(t *testing.T) {
	r := Spanish{}
	f := factsFor(ip.MustParse("172.16.5.9"))
	assert.Equal(t, "¿A qué clase pertenece la dirección IP 172.16.5.9?", r.Prompt(KindClass, f))
	assert.Equal(t, "Clase B, tipo Privada", r.Pair(ip.ClassB, FacetType, r.Type(ip.TypePrivate)))
	assert.Equal(t, "Clase C, red 192.168.1", r.Pair(ip.ClassC, FacetNetwork, "192.168.1"))
	assert.Contains(t, r.Explanation(KindType, f), "172.16.0.0/12")
	assert.Contains(t, r.Explanation(KindClassHost, f), "5.9")
}
