package question

import (
	"fmt"
	"strings"

	"github.com/mensylisir/ipsprint/ip"
)

// Facet is the second half of a compound associate-level answer.
type Facet int

const (
	FacetType Facet = iota
	FacetMask
	FacetNetwork
	FacetHost
)

// Renderer turns facts into display strings. Option deduplication happens on
// the strings a Renderer produces, so two facts that render the same are the
// same option.
type Renderer interface {
	Prompt(k Kind, f Facts) string
	Explanation(k Kind, f Facts) string
	Class(c ip.Class) string
	Type(t ip.Type) string
	Mask(m ip.Mask) string
	Address(a ip.Address) string
	Pair(c ip.Class, facet Facet, value string) string
}

// Spanish is the built-in Renderer. The game ships no other language.
type Spanish struct{}

var _ Renderer = Spanish{}

func (Spanish) Class(c ip.Class) string {
	return "Clase " + string(c)
}

func (Spanish) Type(t ip.Type) string {
	switch t {
	case ip.TypePublic:
		return "Pública"
	case ip.TypePrivate:
		return "Privada"
	case ip.TypeLoopback:
		return "Loopback"
	default:
		return "N/A"
	}
}

func (Spanish) Mask(m ip.Mask) string {
	return m.String()
}

func (Spanish) Address(a ip.Address) string {
	return a.String()
}

func (s Spanish) Pair(c ip.Class, facet Facet, value string) string {
	var label string
	switch facet {
	case FacetType:
		label = "tipo"
	case FacetMask:
		label = "máscara"
	case FacetNetwork:
		label = "red"
	case FacetHost:
		label = "host"
	}
	return fmt.Sprintf("%s, %s %s", s.Class(c), label, value)
}

func (s Spanish) Prompt(k Kind, f Facts) string {
	addr := f.Address.String()
	switch k {
	case KindClass:
		return fmt.Sprintf("¿A qué clase pertenece la dirección IP %s?", addr)
	case KindType:
		return fmt.Sprintf("¿La dirección IP %s es pública o privada?", addr)
	case KindMask:
		return fmt.Sprintf("¿Cuál es la máscara de subred por defecto de la dirección IP %s?", addr)
	case KindPickClass:
		return fmt.Sprintf("¿Cuál de las siguientes direcciones IP pertenece a la %s?", s.Class(f.TargetClass))
	case KindPickPrivate:
		return "¿Cuál de las siguientes direcciones IP es privada?"
	case KindPickMask:
		return fmt.Sprintf("¿Cuál de las siguientes direcciones IP usa la máscara por defecto %s?", s.Mask(f.TargetMask))
	case KindClassType:
		return fmt.Sprintf("Indica la clase y el tipo de la dirección IP %s.", addr)
	case KindClassMask:
		return fmt.Sprintf("Indica la clase y la máscara por defecto de la dirección IP %s.", addr)
	case KindClassNetwork:
		return fmt.Sprintf("Indica la clase y la porción de red de la dirección IP %s.", addr)
	case KindClassHost:
		return fmt.Sprintf("Indica la clase y la porción de host de la dirección IP %s.", addr)
	}
	return ""
}

func (s Spanish) Explanation(k Kind, f Facts) string {
	c := f.Classification
	lo, hi := ip.FirstOctetRange(c.Class)

	var b strings.Builder
	fmt.Fprintf(&b, "%s es de %s: su primer octeto (%d) está entre %d y %d.",
		f.Address, s.Class(c.Class), f.Address[0], lo, hi)

	switch k {
	case KindType, KindPickPrivate, KindClassType:
		b.WriteString(" " + s.typeReason(f))
	case KindMask, KindPickMask, KindClassMask:
		fmt.Fprintf(&b, " Su máscara por defecto es %s.", s.Mask(c.DefaultMask))
	case KindClassNetwork, KindClassHost:
		if f.Portions != nil {
			fmt.Fprintf(&b, " Con la máscara %s, la porción de red es %s y la porción de host es %s.",
				s.Mask(c.DefaultMask), f.Portions.Network, f.Portions.Host)
		}
	}
	return b.String()
}

func (s Spanish) typeReason(f Facts) string {
	switch f.Classification.Type {
	case ip.TypePrivate:
		if block, ok := ip.PrivateBlockOf(f.Address); ok {
			return fmt.Sprintf("Es privada porque está dentro del bloque %s.", block)
		}
		return "Es privada."
	case ip.TypeLoopback:
		return "Es de loopback: todo el rango 127.0.0.0/8 está reservado para el propio equipo."
	case ip.TypePublic:
		return "Es pública: no está en 10.0.0.0/8, 172.16.0.0/12 ni 192.168.0.0/16."
	default:
		return "Las clases D y E no se clasifican como públicas o privadas."
	}
}
