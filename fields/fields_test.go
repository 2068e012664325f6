package fields

import (
	"errors"
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fp"
	"github.com/stretchr/testify/require"
)

func randomE2(t *testing.T) E2 {
	t.Helper()
	var g bn254.E2
	_, err := g.SetRandom()
	require.NoError(t, err)
	var z E2
	z.FromGnark(&g)
	return z
}

func randomE6(t *testing.T) E6 {
	t.Helper()
	var g bn254.E6
	_, err := g.SetRandom()
	require.NoError(t, err)
	var z E6
	z.FromGnark(&g)
	return z
}

func randomE12(t *testing.T) E12 {
	t.Helper()
	var g bn254.E12
	_, err := g.SetRandom()
	require.NoError(t, err)
	var z E12
	z.FromGnark(&g)
	return z
}

func TestE2AgainstReference(t *testing.T) {
	for i := 0; i < 20; i++ {
		a, b := randomE2(t), randomE2(t)
		ga, gb := a.ToGnark(), b.ToGnark()

		var got E2
		var want bn254.E2

		got.Mul(&a, &b)
		want.Mul(&ga, &gb)
		require.Equal(t, want, got.ToGnark(), "mul")

		got.Square(&a)
		want.Square(&ga)
		require.Equal(t, want, got.ToGnark(), "square")

		got.MulByNonResidue(&a)
		want.MulByNonResidue(&ga)
		require.Equal(t, want, got.ToGnark(), "mul by non-residue")

		require.NoError(t, got.Inverse(&a))
		want.Inverse(&ga)
		require.Equal(t, want, got.ToGnark(), "inverse")
	}
}

func TestE6AgainstReference(t *testing.T) {
	for i := 0; i < 20; i++ {
		a, b := randomE6(t), randomE6(t)
		ga, gb := a.ToGnark(), b.ToGnark()

		var got E6
		var want bn254.E6

		got.Mul(&a, &b)
		want.Mul(&ga, &gb)
		require.Equal(t, want, got.ToGnark(), "mul")

		got.Square(&a)
		want.Square(&ga)
		require.Equal(t, want, got.ToGnark(), "square")

		got.MulByNonResidue(&a)
		want.MulByNonResidue(&ga)
		require.Equal(t, want, got.ToGnark(), "mul by v")

		require.NoError(t, got.Inverse(&a))
		want.Inverse(&ga)
		require.Equal(t, want, got.ToGnark(), "inverse")
	}
}

func TestE12AgainstReference(t *testing.T) {
	for i := 0; i < 20; i++ {
		a, b := randomE12(t), randomE12(t)
		ga, gb := a.ToGnark(), b.ToGnark()

		var got E12
		var want bn254.E12

		got.Mul(&a, &b)
		want.Mul(&ga, &gb)
		require.Equal(t, want, got.ToGnark(), "mul")

		got.Square(&a)
		want.Square(&ga)
		require.Equal(t, want, got.ToGnark(), "square")

		got.Conjugate(&a)
		want.Conjugate(&ga)
		require.Equal(t, want, got.ToGnark(), "conjugate")

		require.NoError(t, got.Inverse(&a))
		want.Inverse(&ga)
		require.Equal(t, want, got.ToGnark(), "inverse")

		got.Frobenius(&a)
		want.Frobenius(&ga)
		require.Equal(t, want, got.ToGnark(), "frobenius")

		got.FrobeniusSquare(&a)
		want.FrobeniusSquare(&ga)
		require.Equal(t, want, got.ToGnark(), "frobenius square")

		got.FrobeniusCube(&a)
		want.FrobeniusCube(&ga)
		require.Equal(t, want, got.ToGnark(), "frobenius cube")
	}
}

// Frobenius maps must agree with plain exponentiation by powers of q.
func TestFrobeniusIsPowerOfQ(t *testing.T) {
	q := fp.Modulus()
	q2 := new(big.Int).Mul(q, q)
	q3 := new(big.Int).Mul(q2, q)

	x := randomE12(t)
	var frob, pow E12

	frob.Frobenius(&x)
	pow.Exp(&x, q)
	require.True(t, frob.Equal(&pow), "x^q")

	frob.FrobeniusSquare(&x)
	pow.Exp(&x, q2)
	require.True(t, frob.Equal(&pow), "x^(q^2)")

	frob.FrobeniusCube(&x)
	pow.Exp(&x, q3)
	require.True(t, frob.Equal(&pow), "x^(q^3)")
}

func TestCyclotomicSquare(t *testing.T) {
	// map a random element into the cyclotomic subgroup:
	// y = (conj(x)/x)^(q^2+1) has order dividing Phi_12(q).
	x := randomE12(t)
	var y, inv, cyc E12
	require.NoError(t, inv.Inverse(&x))
	y.Conjugate(&x).Mul(&y, &inv)
	cyc.FrobeniusSquare(&y).Mul(&cyc, &y)

	var plain, fast E12
	plain.Square(&cyc)
	fast.CyclotomicSquare(&cyc)
	require.True(t, plain.Equal(&fast))

	// conjugate inverts cyclotomic elements
	var conj, prod E12
	conj.Conjugate(&cyc)
	prod.Mul(&conj, &cyc)
	require.True(t, prod.IsOne())
}

func TestSparseMul(t *testing.T) {
	for i := 0; i < 10; i++ {
		z := randomE12(t)
		c0, c3, c4 := randomE2(t), randomE2(t), randomE2(t)
		d0, d3, d4 := randomE2(t), randomE2(t), randomE2(t)

		line := E12{
			C0: E6{B0: c0},
			C1: E6{B0: c3, B1: c4},
		}
		lineD := E12{
			C0: E6{B0: d0},
			C1: E6{B0: d3, B1: d4},
		}

		var want, got E12
		want.Mul(&z, &line)
		got.Set(&z)
		got.MulBy034(&c0, &c3, &c4)
		require.True(t, want.Equal(&got), "MulBy034")

		prod := Mul034By034(&c0, &c3, &c4, &d0, &d3, &d4)
		want.Mul(&line, &lineD)
		got = E12{
			C0: E6{B0: prod[0], B1: prod[1], B2: prod[2]},
			C1: E6{B0: prod[3], B1: prod[4]},
		}
		require.True(t, want.Equal(&got), "Mul034By034")

		want.Mul(&z, &got)
		res := z
		res.MulBy01234(&prod)
		require.True(t, want.Equal(&res), "MulBy01234")
	}
}

func TestInverseOfZero(t *testing.T) {
	var e2 E2
	var e6 E6
	var e12 E12
	require.True(t, errors.Is(e2.Inverse(&E2{}), ErrDivisionByZero))
	require.True(t, errors.Is(e6.Inverse(&E6{}), ErrDivisionByZero))
	require.True(t, errors.Is(e12.Inverse(&E12{}), ErrDivisionByZero))
}

func TestMulBy01(t *testing.T) {
	for i := 0; i < 10; i++ {
		z := randomE6(t)
		c0, c1 := randomE2(t), randomE2(t)
		sparse := E6{B0: c0, B1: c1}

		var want E6
		want.Mul(&z, &sparse)
		got := z
		got.MulBy01(&c0, &c1)
		require.True(t, want.Equal(&got), "MulBy01")

		d0, d1 := randomE2(t), randomE2(t)
		sparseD := E6{B0: d0, B1: d1}
		want.Mul(&sparse, &sparseD)
		var prod E6
		prod.Mul01By01(&c0, &c1, &d0, &d1)
		require.True(t, want.Equal(&prod), "Mul01By01")
	}
}
