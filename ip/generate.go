package ip

import (
	"math/rand/v2"

	"go4.org/netipx"
)

// Generated addresses keep their first and last octets away from the
// all-zeros and all-ones values.
const (
	MinEdgeOctet = 1
	MaxEdgeOctet = 254
)

// classFirstOctet holds the inclusive first-octet range generated for each class.
// Class A skips 0 and the loopback octet.
var classFirstOctet = map[Class][2]int{
	ClassA: {1, 126},
	ClassB: {128, 191},
	ClassC: {192, 223},
	ClassD: {224, 239},
	ClassE: {240, MaxEdgeOctet},
}

func between(r *rand.Rand, lo, hi int) byte {
	return byte(lo + r.IntN(hi-lo+1))
}

// RandomAddress draws octet1 and octet4 from [1,254] and the middle octets from [0,255].
func RandomAddress(r *rand.Rand) Address {
	return Address{
		between(r, MinEdgeOctet, MaxEdgeOctet),
		between(r, 0, 255),
		between(r, 0, 255),
		between(r, MinEdgeOctet, MaxEdgeOctet),
	}
}

// RandomPrivateAddress picks one RFC1918 block uniformly and fills the rest of the
// address uniformly inside it.
func RandomPrivateAddress(r *rand.Rand) Address {
	block := PrivateBlocks[r.IntN(len(PrivateBlocks))]
	rng := netipx.RangeOfPrefix(block)
	from, to := rng.From().As4(), rng.To().As4()

	var a Address
	for i := 0; i < 3; i++ {
		a[i] = between(r, int(from[i]), int(to[i]))
	}
	a[3] = between(r, MinEdgeOctet, MaxEdgeOctet)
	return a
}

// RandomAddressInClass returns an address whose first octet falls in c's range.
// Loopback is never produced. Private ranges may be.
func RandomAddressInClass(r *rand.Rand, c Class) Address {
	bounds, ok := classFirstOctet[c]
	if !ok {
		return RandomAddress(r)
	}
	a := RandomAddress(r)
	a[0] = between(r, bounds[0], bounds[1])
	return a
}

// RandomPublicAddress returns a class A, B or C address that is neither private nor loopback.
// It samples at most maxAttempts times and reports false when every draw was rejected.
func RandomPublicAddress(r *rand.Rand, maxAttempts int) (Address, bool) {
	for i := 0; i < maxAttempts; i++ {
		a := RandomAddressInClass(r, Classes[r.IntN(3)])
		if Classify(a).Type == TypePublic {
			return a, true
		}
	}
	return Address{}, false
}
