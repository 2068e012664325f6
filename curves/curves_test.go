package curves

import (
	"crypto/rand"
	"errors"
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"
)

func randomScalar(t *testing.T) *big.Int {
	t.Helper()
	k, err := rand.Int(rand.Reader, fr.Modulus())
	require.NoError(t, err)
	return k
}

func randomG1(t *testing.T) G1Affine {
	t.Helper()
	var p G1Affine
	g := G1Generator()
	p.ScalarMul(&g, randomScalar(t))
	return p
}

func randomG2(t *testing.T) G2Affine {
	t.Helper()
	var p G2Affine
	g := G2Generator()
	p.ScalarMul(&g, randomScalar(t))
	return p
}

func toGnarkG1(p *G1Affine) bn254.G1Affine {
	return bn254.G1Affine{X: p.X, Y: p.Y}
}

func toGnarkG2(p *G2Affine) bn254.G2Affine {
	return bn254.G2Affine{X: p.X.ToGnark(), Y: p.Y.ToGnark()}
}

func TestG1AgainstReference(t *testing.T) {
	g := G1Generator()
	gg := toGnarkG1(&g)
	require.True(t, gg.IsOnCurve())

	for i := 0; i < 10; i++ {
		k := randomScalar(t)
		var p G1Affine
		p.ScalarMul(&g, k)
		var gp bn254.G1Affine
		gp.ScalarMultiplication(&gg, k)
		require.Equal(t, gp, toGnarkG1(&p), "scalar mul")
		require.True(t, p.IsOnCurve())
		require.True(t, p.IsInSubgroup())

		q := randomG1(t)
		var sum G1Affine
		sum.Add(&p, &q)
		gq := toGnarkG1(&q)
		var gsum bn254.G1Affine
		gsum.Add(&gp, &gq)
		require.Equal(t, gsum, toGnarkG1(&sum), "add")

		var dbl G1Affine
		dbl.Double(&p)
		var gdbl bn254.G1Affine
		gdbl.Double(&gp)
		require.Equal(t, gdbl, toGnarkG1(&dbl), "double")
	}
}

func TestG1EdgeCases(t *testing.T) {
	g := G1Generator()
	var inf, p, q G1Affine
	inf.SetInfinity()

	p.Add(&inf, &g)
	require.True(t, p.Equal(&g), "0 + g")
	p.Add(&g, &inf)
	require.True(t, p.Equal(&g), "g + 0")

	q.Neg(&g)
	p.Add(&g, &q)
	require.True(t, p.IsInfinity(), "g + (-g)")

	p.Add(&g, &g)
	q.Double(&g)
	require.True(t, p.Equal(&q), "g + g = 2g")
}

func TestG2AgainstReference(t *testing.T) {
	g := G2Generator()
	gg := toGnarkG2(&g)
	require.True(t, gg.IsOnCurve())
	require.True(t, gg.IsInSubGroup())

	for i := 0; i < 5; i++ {
		k := randomScalar(t)
		var p G2Affine
		p.ScalarMul(&g, k)
		var gp bn254.G2Affine
		gp.ScalarMultiplication(&gg, k)
		require.Equal(t, gp, toGnarkG2(&p), "scalar mul")
		require.True(t, p.IsOnCurve())
		require.True(t, p.IsInSubgroup())
	}
}

// Craft on-curve points outside the r-order subgroup by sweeping x
// coordinates; with cofactor ~q they are never in the subgroup.
func TestG2SubgroupRejectsCrafted(t *testing.T) {
	found := 0
	var x bn254.E2
	for i := uint64(1); i < 50 && found < 3; i++ {
		x.A0.SetUint64(i)
		x.A1.SetUint64(i + 1)
		var rhs bn254.E2
		rhs.Square(&x).Mul(&rhs, &x)
		tw := bTwistCoeff.ToGnark()
		rhs.Add(&rhs, &tw)
		if rhs.Legendre() != 1 {
			continue
		}
		var y bn254.E2
		y.Sqrt(&rhs)

		var p G2Affine
		p.X.FromGnark(&x)
		p.Y.FromGnark(&y)
		require.True(t, p.IsOnCurve())
		require.False(t, p.IsInSubgroup(), "x sweep %d", i)

		gp := toGnarkG2(&p)
		require.True(t, gp.IsOnCurve())
		require.False(t, gp.IsInSubGroup(), "reference disagrees at x sweep %d", i)

		// serialization must reject it too
		b := p.Bytes()
		var q G2Affine
		err := q.SetBytes(b[:])
		require.ErrorIs(t, err, ErrPointNotInSubgroup)
		found++
	}
	require.GreaterOrEqual(t, found, 1, "no test points found in sweep")
}

func TestPsiEigenvalue(t *testing.T) {
	// on the subgroup, psi acts as multiplication by 6x².
	p := randomG2(t)
	var lhs, rhs G2Affine
	lhs.Psi(&p)
	k := new(big.Int).SetUint64(SeedX)
	k.Mul(k, k).Mul(k, big.NewInt(6))
	rhs.ScalarMul(&p, k)
	require.True(t, lhs.Equal(&rhs))
}

func TestG1Marshal(t *testing.T) {
	pts := []G1Affine{G1Generator(), randomG1(t)}
	var inf G1Affine
	inf.SetInfinity()
	pts = append(pts, inf)

	for _, p := range pts {
		b := p.Bytes()
		var q G1Affine
		require.NoError(t, q.SetBytes(b[:]))
		require.True(t, p.Equal(&q))
	}

	var q G1Affine
	require.ErrorIs(t, q.SetBytes(make([]byte, 63)), ErrInvalidLength)

	// limb >= p
	bad := make([]byte, SizeOfG1Affine)
	for i := 0; i < 32; i++ {
		bad[i] = 0xff
	}
	require.ErrorIs(t, q.SetBytes(bad), ErrNonCanonical)

	// tampered y
	g := G1Generator()
	b := g.Bytes()
	b[SizeOfG1Affine-1] ^= 1
	require.ErrorIs(t, q.SetBytes(b[:]), ErrPointNotOnCurve)
}

func TestG2Marshal(t *testing.T) {
	pts := []G2Affine{G2Generator(), randomG2(t)}
	var inf G2Affine
	inf.SetInfinity()
	pts = append(pts, inf)

	for _, p := range pts {
		b := p.Bytes()
		var q G2Affine
		require.NoError(t, q.SetBytes(b[:]))
		require.True(t, p.Equal(&q))
	}

	var q G2Affine
	require.ErrorIs(t, q.SetBytes(make([]byte, SizeOfG2Affine+1)), ErrInvalidLength)

	g := G2Generator()
	b := g.Bytes()
	b[SizeOfG2Affine-1] ^= 1
	err := q.SetBytes(b[:])
	require.Error(t, err)
	require.True(t,
		errors.Is(err, ErrPointNotOnCurve) || errors.Is(err, ErrPointNotInSubgroup))
}
