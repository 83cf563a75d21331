package ip

import (
	"math/rand/v2"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Address
		wantErr bool
	}{
		{"plain", "192.168.1.100", Address{192, 168, 1, 100}, false},
		{"with spaces", " 10.0.0.1 ", Address{10, 0, 0, 1}, false},
		{"octet out of range", "256.1.1.1", Address{}, true},
		{"ipv6", "2001:db8::1", Address{}, true},
		{"garbage", "not.an.ip", Address{}, true},
		{"empty", "", Address{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidAddress))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.String(), got.String())
		})
	}
}

func TestParseMask(t *testing.T) {
	tests := []struct {
		input   string
		want    Mask
		wantErr bool
	}{
		{"255.0.0.0", MaskA, false},
		{"255.255.0.0", MaskB, false},
		{"255.255.255.0", MaskC, false},
		{"/16", MaskB, false},
		{"24", MaskC, false},
		{"N/A", MaskNone, false},
		{"n/a", MaskNone, false},
		{"255.255.255.128", MaskNone, true},
		{"255.0.255.0", MaskNone, true},
		{"/12", MaskNone, true},
		{"0.0.0.0", MaskNone, true},
		{"mask", MaskNone, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMask(tt.input)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidMask), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMaskString(t *testing.T) {
	assert.Equal(t, "255.0.0.0", MaskA.String())
	assert.Equal(t, "255.255.0.0", MaskB.String())
	assert.Equal(t, "255.255.255.0", MaskC.String())
	assert.Equal(t, "N/A", MaskNone.String())
	assert.Equal(t, "N/A", Mask(12).String())
}

func TestSplitPortions(t *testing.T) {
	p, ok := SplitPortions(MustParse("192.168.1.100"), MaskC)
	require.True(t, ok)
	assert.Equal(t, Portions{Network: "192.168.1", Host: "100"}, p)

	p, ok = SplitPortions(MustParse("172.16.5.9"), MaskB)
	require.True(t, ok)
	assert.Equal(t, Portions{Network: "172.16", Host: "5.9"}, p)

	p, ok = SplitPortions(MustParse("10.20.30.40"), MaskA)
	require.True(t, ok)
	assert.Equal(t, Portions{Network: "10", Host: "20.30.40"}, p)

	_, ok = SplitPortions(MustParse("230.1.2.3"), MaskNone)
	assert.False(t, ok, "class D has no portions")
}

func TestSplitPortions_RoundTrip(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 2000; i++ {
		a := RandomAddress(r)
		c := Classify(a)
		p, ok := SplitPortions(a, c.DefaultMask)
		if !c.Class.Unicast() {
			assert.False(t, ok, "%s", a)
			continue
		}
		require.True(t, ok, "%s", a)
		assert.Equal(t, a.String(), p.Join())
	}
}

func TestRandomAddress_Bounds(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 7))
	for i := 0; i < 5000; i++ {
		a := RandomAddress(r)
		if a[0] < MinEdgeOctet || a[0] > MaxEdgeOctet {
			t.Fatalf("octet1 out of range: %s", a)
		}
		if a[3] < MinEdgeOctet || a[3] > MaxEdgeOctet {
			t.Fatalf("octet4 out of range: %s", a)
		}
	}
}

func TestRandomPrivateAddress(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	seen := map[byte]bool{}
	for i := 0; i < 3000; i++ {
		a := RandomPrivateAddress(r)
		c := Classify(a)
		if c.Type != TypePrivate {
			t.Fatalf("RandomPrivateAddress produced %s classified as %s", a, c.Type)
		}
		if a[3] < MinEdgeOctet || a[3] > MaxEdgeOctet {
			t.Fatalf("octet4 out of range: %s", a)
		}
		seen[a[0]] = true
	}
	assert.True(t, seen[10] && seen[172] && seen[192], "all three blocks should be drawn, got %v", seen)
}

func TestRandomAddressInClass(t *testing.T) {
	r := rand.New(rand.NewPCG(5, 6))
	for _, c := range Classes {
		for i := 0; i < 500; i++ {
			a := RandomAddressInClass(r, c)
			assert.Equal(t, c, ClassOf(a), "%s", a)
			assert.NotEqual(t, byte(loopbackOctet), a[0])
		}
	}
}

func TestRandomPublicAddress(t *testing.T) {
	r := rand.New(rand.NewPCG(8, 9))
	for i := 0; i < 500; i++ {
		a, ok := RandomPublicAddress(r, 50)
		require.True(t, ok)
		assert.Equal(t, TypePublic, Classify(a).Type, "%s", a)
	}
	_, ok := RandomPublicAddress(r, 0)
	assert.False(t, ok)
}
