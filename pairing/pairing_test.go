package pairing

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"

	"github.com/zkbridgelab/bitgroth/curves"
	"github.com/zkbridgelab/bitgroth/fields"
)

func randomScalar(t *testing.T) *big.Int {
	t.Helper()
	k, err := rand.Int(rand.Reader, fr.Modulus())
	require.NoError(t, err)
	return k
}

func randomPair(t *testing.T) (curves.G1Affine, curves.G2Affine) {
	t.Helper()
	var p curves.G1Affine
	var q curves.G2Affine
	g1 := curves.G1Generator()
	g2 := curves.G2Generator()
	p.ScalarMul(&g1, randomScalar(t))
	q.ScalarMul(&g2, randomScalar(t))
	return p, q
}

func toGnarkG1(p *curves.G1Affine) bn254.G1Affine {
	return bn254.G1Affine{X: p.X, Y: p.Y}
}

func toGnarkG2(p *curves.G2Affine) bn254.G2Affine {
	return bn254.G2Affine{X: p.X.ToGnark(), Y: p.Y.ToGnark()}
}

func TestPairAgainstReference(t *testing.T) {
	for i := 0; i < 3; i++ {
		p, q := randomPair(t)
		got, err := Pair([]curves.G1Affine{p}, []curves.G2Affine{q})
		require.NoError(t, err)

		want, err := bn254.Pair(
			[]bn254.G1Affine{toGnarkG1(&p)},
			[]bn254.G2Affine{toGnarkG2(&q)})
		require.NoError(t, err)
		require.Equal(t, want, got.ToGnark())
	}
}

func TestPairMulti(t *testing.T) {
	p1, q1 := randomPair(t)
	p2, q2 := randomPair(t)
	got, err := Pair([]curves.G1Affine{p1, p2}, []curves.G2Affine{q1, q2})
	require.NoError(t, err)

	want, err := bn254.Pair(
		[]bn254.G1Affine{toGnarkG1(&p1), toGnarkG1(&p2)},
		[]bn254.G2Affine{toGnarkG2(&q1), toGnarkG2(&q2)})
	require.NoError(t, err)
	require.Equal(t, want, got.ToGnark())
}

func TestBilinearity(t *testing.T) {
	g1 := curves.G1Generator()
	g2 := curves.G2Generator()
	a, b := randomScalar(t), randomScalar(t)

	var pa curves.G1Affine
	var qb curves.G2Affine
	pa.ScalarMul(&g1, a)
	qb.ScalarMul(&g2, b)

	lhs, err := Pair([]curves.G1Affine{pa}, []curves.G2Affine{qb})
	require.NoError(t, err)

	ab := new(big.Int).Mul(a, b)
	ab.Mod(ab, fr.Modulus())
	var pab curves.G1Affine
	pab.ScalarMul(&g1, ab)
	rhs, err := Pair([]curves.G1Affine{pab}, []curves.G2Affine{g2})
	require.NoError(t, err)
	require.True(t, lhs.Equal(&rhs))
}

func TestPairingCheck(t *testing.T) {
	p, q := randomPair(t)
	var pNeg curves.G1Affine
	pNeg.Neg(&p)

	ok, err := PairingCheck(
		[]curves.G1Affine{p, pNeg},
		[]curves.G2Affine{q, q})
	require.NoError(t, err)
	require.True(t, ok, "e(P,Q)·e(-P,Q) must be 1")

	ok, err = PairingCheck([]curves.G1Affine{p}, []curves.G2Affine{q})
	require.NoError(t, err)
	require.False(t, ok, "a single nondegenerate pairing is never 1")
}

func TestPairSkipsInfinity(t *testing.T) {
	p, q := randomPair(t)
	var infG1 curves.G1Affine
	infG1.SetInfinity()

	got, err := Pair([]curves.G1Affine{p, infG1}, []curves.G2Affine{q, q})
	require.NoError(t, err)
	want, err := Pair([]curves.G1Affine{p}, []curves.G2Affine{q})
	require.NoError(t, err)
	require.True(t, got.Equal(&want))
}

func TestMismatchedSizes(t *testing.T) {
	p, q := randomPair(t)
	_, err := MillerLoop([]curves.G1Affine{p}, []curves.G2Affine{q, q})
	require.Error(t, err)
}

// The optimized final exponentiation must agree with the plain big
// exponent f^(s·(q¹²-1)/r), s = 2x(6x²+3x+1).
func TestFinalExponentiationExponent(t *testing.T) {
	p, q := randomPair(t)
	f, err := MillerLoop([]curves.G1Affine{p}, []curves.G2Affine{q})
	require.NoError(t, err)

	got, err := FinalExponentiation(&f)
	require.NoError(t, err)

	x := new(big.Int).SetUint64(curves.SeedX)
	s := new(big.Int).Mul(x, x)
	s.Mul(s, big.NewInt(6))
	s.Add(s, new(big.Int).Mul(x, big.NewInt(3)))
	s.Add(s, big.NewInt(1))
	s.Mul(s, x)
	s.Mul(s, big.NewInt(2))

	exp := new(big.Int).Mul(bigH, s)
	var want fields.E12
	want.Exp(&f, exp)
	require.True(t, got.Equal(&want))
}

func TestTraceRecording(t *testing.T) {
	p, q := randomPair(t)
	var tr Trace
	_, err := MillerLoopWithTrace(
		[]curves.G1Affine{p}, []curves.G2Affine{q}, &tr)
	require.NoError(t, err)
	require.Len(t, tr.YInv, 1)
	require.Len(t, tr.XOverY, 1)
	require.NotEmpty(t, tr.Slopes)

	// replay with the same inputs is deterministic
	var tr2 Trace
	_, err = MillerLoopWithTrace(
		[]curves.G1Affine{p}, []curves.G2Affine{q}, &tr2)
	require.NoError(t, err)
	require.Equal(t, tr.Slopes, tr2.Slopes)
}
