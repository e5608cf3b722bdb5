package sip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParseURI(t *testing.T, s string) Uri {
	t.Helper()
	u, err := ParseURI(s)
	require.NoError(t, err, s)
	return u
}

// Equal implies matching Hash for every pair this file exercises (spec §8.2
// rule 4).
func assertEqualAndSameHash(t *testing.T, a, b Uri) {
	t.Helper()
	assert.True(t, a.Equal(b), "%s should equal %s", a, b)
	assert.True(t, b.Equal(a), "Equal must be symmetric")
	assert.Equal(t, a.Hash(), b.Hash())
}

func assertNotEqual(t *testing.T, a, b Uri) {
	t.Helper()
	assert.False(t, a.Equal(b), "%s should not equal %s", a, b)
	assert.False(t, b.Equal(a), "Equal must be symmetric")
}

func TestURIEquivalence_MustCompareEqual(t *testing.T) {
	cases := [][2]string{
		{"sip:%61lice@atlanta.com;transport=TCP", "sip:alice@AtLanTa.CoM;Transport=tcp"},
		{"sip:carol@chicago.com", "sip:carol@chicago.com;newparam=5"},
		{"sip:carol@chicago.com", "sip:carol@chicago.com;security=on"},
		{"sip:biloxi.com;transport=tcp;method=REGISTER?to=sip:bob%40biloxi.com", "sip:biloxi.com;method=REGISTER;transport=tcp?to=sip:bob%40biloxi.com"},
		{"sip:alice@atlanta.com?subject=project%20x&priority=urgent", "sip:alice@atlanta.com?priority=urgent&subject=project%20x"},
	}
	for _, c := range cases {
		a := mustParseURI(t, c[0])
		b := mustParseURI(t, c[1])
		assertEqualAndSameHash(t, a, b)
	}
}

func TestURIEquivalence_MustCompareUnequal(t *testing.T) {
	cases := [][2]string{
		{"SIP:ALICE@AtLanTa.CoM;Transport=udp", "sip:alice@AtLanTa.CoM;Transport=UDP"},
		{"sip:bob@biloxi.com", "sip:bob@biloxi.com:5060"},
		{"sip:bob@biloxi.com", "sip:bob@biloxi.com;transport=udp"},
		{"sip:carol@chicago.com", "sip:carol@chicago.com?Subject=next%20meeting"},
		{"sip:bob@phone21.boxesbybob.com", "sip:bob@192.0.2.4"},
	}
	for _, c := range cases {
		a := mustParseURI(t, c[0])
		b := mustParseURI(t, c[1])
		assertNotEqual(t, a, b)
	}
}

// Equivalence is deliberately not transitive (spec §8.2 rule 6 / §8.3
// witness): two URIs can each equal a common third without equaling each
// other, since non-required parameter asymmetry is ignored pairwise.
func TestURIEquivalence_IntransitivityWitness(t *testing.T) {
	base := mustParseURI(t, "sip:carol@chicago.com")
	on := mustParseURI(t, "sip:carol@chicago.com;security=on")
	off := mustParseURI(t, "sip:carol@chicago.com;security=off")

	assertEqualAndSameHash(t, base, on)
	assertEqualAndSameHash(t, base, off)
	assertNotEqual(t, on, off)
}

func TestURIEquivalence_ReflexiveAndSymmetric(t *testing.T) {
	inputs := []string{
		"sip:alice@atlanta.com",
		"sips:bob@biloxi.com:5061;transport=tls",
		"sip:carol@chicago.com;security=on?Subject=x",
		"tel:+1-212-555-0101",
	}
	for _, s := range inputs {
		u := mustParseURI(t, s)
		assert.True(t, u.Equal(u), "Equal must be reflexive for %s", s)
	}
}
