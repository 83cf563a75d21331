package ip

import (
	"net/netip"

	"go4.org/netipx"
)

// Class is the legacy classful category of an address.
type Class string

const (
	ClassA Class = "A"
	ClassB Class = "B"
	ClassC Class = "C"
	ClassD Class = "D"
	ClassE Class = "E"
)

// Classes lists every class in first-octet order.
var Classes = []Class{ClassA, ClassB, ClassC, ClassD, ClassE}

// Unicast reports whether the class carries a default mask.
func (c Class) Unicast() bool {
	return c == ClassA || c == ClassB || c == ClassC
}

// DefaultMask is the classful mask for c.
func (c Class) DefaultMask() Mask {
	switch c {
	case ClassA:
		return MaskA
	case ClassB:
		return MaskB
	case ClassC:
		return MaskC
	}
	return MaskNone
}

// Type is the reachability category of an address.
type Type string

const (
	TypePublic        Type = "Public"
	TypePrivate       Type = "Private"
	TypeLoopback      Type = "Loopback"
	TypeNotApplicable Type = "N/A"
)

// Types lists every type.
var Types = []Type{TypePublic, TypePrivate, TypeLoopback, TypeNotApplicable}

// Classification is everything the quiz derives from a single address.
type Classification struct {
	Class       Class `json:"class" yaml:"class"`
	Type        Type  `json:"type" yaml:"type"`
	DefaultMask Mask  `json:"defaultMask" yaml:"defaultMask"`
}

const loopbackOctet = 127

// PrivateBlocks are the RFC1918 ranges.
var PrivateBlocks = []netip.Prefix{
	netip.MustParsePrefix("10.0.0.0/8"),
	netip.MustParsePrefix("172.16.0.0/12"),
	netip.MustParsePrefix("192.168.0.0/16"),
}

var privateSet = mustIPSet(PrivateBlocks)

func mustIPSet(prefixes []netip.Prefix) *netipx.IPSet {
	var b netipx.IPSetBuilder
	for _, p := range prefixes {
		b.AddPrefix(p)
	}
	set, err := b.IPSet()
	if err != nil {
		panic(err)
	}
	return set
}

// IsPrivate reports whether a falls inside one of the RFC1918 blocks.
func IsPrivate(a Address) bool {
	return privateSet.Contains(a.Netip())
}

// ClassOf returns the class implied by the first octet.
func ClassOf(a Address) Class {
	switch o1 := a[0]; {
	case o1 < 128:
		return ClassA
	case o1 < 192:
		return ClassB
	case o1 < 224:
		return ClassC
	case o1 < 240:
		return ClassD
	default:
		return ClassE
	}
}

// Classify derives class, type and default mask from a. It is total:
// every address maps to exactly one classification.
func Classify(a Address) Classification {
	class := ClassOf(a)
	c := Classification{
		Class:       class,
		DefaultMask: class.DefaultMask(),
		Type:        TypePublic,
	}
	switch {
	case !class.Unicast():
		c.Type = TypeNotApplicable
	case a[0] == loopbackOctet:
		c.Type = TypeLoopback
	case IsPrivate(a):
		c.Type = TypePrivate
	}
	return c
}

// FirstOctetRange is the inclusive first-octet range that defines c.
func FirstOctetRange(c Class) (lo, hi int) {
	switch c {
	case ClassA:
		return 0, 127
	case ClassB:
		return 128, 191
	case ClassC:
		return 192, 223
	case ClassD:
		return 224, 239
	default:
		return 240, 255
	}
}

// PrivateBlockOf returns the RFC1918 block containing a.
func PrivateBlockOf(a Address) (netip.Prefix, bool) {
	for _, p := range PrivateBlocks {
		if p.Contains(a.Netip()) {
			return p, true
		}
	}
	return netip.Prefix{}, false
}
