package pairing

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zkbridgelab/bitgroth/curves"
	"github.com/zkbridgelab/bitgroth/fields"
)

// accepting Miller output: e(P,Q)·e(-P,Q) has f^h = 1
func acceptingMillerOutput(t *testing.T) fields.E12 {
	t.Helper()
	p, q := randomPair(t)
	var pNeg curves.G1Affine
	pNeg.Neg(&p)
	f, err := MillerLoop(
		[]curves.G1Affine{p, pNeg},
		[]curves.G2Affine{q, q})
	require.NoError(t, err)
	return f
}

func TestResidueWitnessRoundTrip(t *testing.T) {
	f := acceptingMillerOutput(t)

	c, wi, err := ComputeFinalExpWitness(&f)
	require.NoError(t, err)

	// the scaling factor has 3-power order
	var chk fields.E12
	chk.Exp(&wi, pow3V)
	require.True(t, chk.IsOne())

	ok, err := CheckFinalExpWitness(&f, &c, &wi)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestResidueWitnessFailsClosed(t *testing.T) {
	// a single nondegenerate pairing never satisfies f^h = 1
	p, q := randomPair(t)
	f, err := MillerLoop([]curves.G1Affine{p}, []curves.G2Affine{q})
	require.NoError(t, err)

	_, _, err = ComputeFinalExpWitness(&f)
	require.ErrorIs(t, err, ErrNoFinalExpWitness)
}

func TestResidueWitnessRejectsTampered(t *testing.T) {
	f := acceptingMillerOutput(t)
	c, wi, err := ComputeFinalExpWitness(&f)
	require.NoError(t, err)

	var bad fields.E12
	bad.Square(&c)
	ok, err := CheckFinalExpWitness(&f, &bad, &wi)
	require.NoError(t, err)
	require.False(t, ok, "tampered c must not verify")

	// shifting the scaling factor inside the 3-power subgroup breaks
	// the identity
	w0 := sylowGenerator()
	var wiBad fields.E12
	wiBad.Mul(&wi, &w0)
	ok, err = CheckFinalExpWitness(&f, &c, &wiBad)
	require.NoError(t, err)
	require.False(t, ok, "tampered wi must not verify")
}

// a valid witness certifies exactly the classic acceptance condition
func TestResidueWitnessSoundness(t *testing.T) {
	f := acceptingMillerOutput(t)
	c, wi, err := ComputeFinalExpWitness(&f)
	require.NoError(t, err)
	ok, err := CheckFinalExpWitness(&f, &c, &wi)
	require.NoError(t, err)
	require.True(t, ok)

	fe, err := FinalExponentiation(&f)
	require.NoError(t, err)
	require.True(t, fe.IsOne())
}

func TestLambdaConstants(t *testing.T) {
	// λ = m·r must hold exactly
	r := new(big.Int).Quo(bigLambda, bigM)
	require.Equal(t, 0, new(big.Int).Mul(bigM, r).Cmp(bigLambda))
	require.True(t, val3H >= 1)

	// h' must be coprime to 3
	require.NotEqual(t, 0, new(big.Int).Mod(bigHPrime, big.NewInt(3)).Sign())

	// sylow generator has order exactly 3^v
	w0 := sylowGenerator()
	var chk fields.E12
	chk.Exp(&w0, pow3V)
	require.True(t, chk.IsOne())
	chk.Exp(&w0, pow3(val3H-1))
	require.False(t, chk.IsOne())
}
