package ip

import (
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrInvalidAddress = errors.New("invalid IPv4 address")
	ErrInvalidMask    = errors.New("invalid default subnet mask")
)

// Address is an IPv4 address held as its four octets.
type Address [4]byte

// Parse reads a dotted-decimal IPv4 address such as "192.168.1.100".
func Parse(s string) (Address, error) {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil || !addr.Is4() {
		return Address{}, errors.Wrapf(ErrInvalidAddress, "%q", s)
	}
	return Address(addr.As4()), nil
}

// MustParse is Parse for literals known to be valid. It panics otherwise.
func MustParse(s string) Address {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Address) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", a[0], a[1], a[2], a[3])
}

// MarshalText renders a in dotted-decimal form.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Netip converts a to the standard library representation.
func (a Address) Netip() netip.Addr {
	return netip.AddrFrom4(a)
}

// Mask is a classful default subnet mask expressed as its prefix length.
// Only octet-aligned masks exist in this model.
type Mask int

const (
	MaskNone Mask = 0
	MaskA    Mask = 8
	MaskB    Mask = 16
	MaskC    Mask = 24
)

// Masks lists every applicable default mask, widest first.
var Masks = []Mask{MaskA, MaskB, MaskC}

const notApplicable = "N/A"

// Applicable reports whether m is a real mask (classes A, B and C).
func (m Mask) Applicable() bool {
	return m == MaskA || m == MaskB || m == MaskC
}

// Octets is the number of leading octets covered by the mask.
func (m Mask) Octets() int {
	if !m.Applicable() {
		return 0
	}
	return int(m) / 8
}

// String renders the mask in dotted-decimal form, or "N/A".
func (m Mask) String() string {
	if !m.Applicable() {
		return notApplicable
	}
	return net.IP(net.CIDRMask(int(m), 32)).String()
}

// MarshalText renders m as its dotted-decimal string.
func (m Mask) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mask) UnmarshalText(text []byte) error {
	parsed, err := ParseMask(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMask accepts "255.255.0.0", "/16", "16" or "N/A".
func ParseMask(s string) (Mask, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, notApplicable) || s == "" {
		return MaskNone, nil
	}

	var bits int
	if strings.Contains(s, ".") {
		maskIP := net.ParseIP(s)
		if maskIP == nil || maskIP.To4() == nil {
			return MaskNone, errors.Wrapf(ErrInvalidMask, "%q", s)
		}
		ones, size := net.IPMask(maskIP.To4()).Size()
		if size == 0 { // non-contiguous
			return MaskNone, errors.Wrapf(ErrInvalidMask, "%q is not contiguous", s)
		}
		bits = ones
	} else {
		n, err := strconv.Atoi(strings.TrimPrefix(s, "/"))
		if err != nil {
			return MaskNone, errors.Wrapf(ErrInvalidMask, "%q", s)
		}
		bits = n
	}

	m := Mask(bits)
	if !m.Applicable() {
		return MaskNone, errors.Wrapf(ErrInvalidMask, "/%d is not a classful default mask", bits)
	}
	return m, nil
}

// Portions is an address split at its mask boundary.
type Portions struct {
	Network string `json:"network" yaml:"network"`
	Host    string `json:"host" yaml:"host"`
}

// Join reassembles the dotted address.
func (p Portions) Join() string {
	return p.Network + "." + p.Host
}

// SplitPortions splits a into the dotted octets covered by the mask (network)
// and the rest (host). ok is false when the mask is not applicable.
func SplitPortions(a Address, m Mask) (p Portions, ok bool) {
	n := m.Octets()
	if n == 0 {
		return Portions{}, false
	}
	return Portions{
		Network: joinOctets(a[:n]),
		Host:    joinOctets(a[n:]),
	}, true
}

func joinOctets(octets []byte) string {
	parts := make([]string, len(octets))
	for i, o := range octets {
		parts[i] = strconv.Itoa(int(o))
	}
	return strings.Join(parts, ".")
}
