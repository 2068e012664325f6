package verifier

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/backend/groth16"
	groth16_bn254 "github.com/consensys/gnark/backend/groth16/bn254"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/stretchr/testify/require"

	"github.com/zkbridgelab/bitgroth/pairing"
)

// y = x³ + x + 5 with x secret
type cubicCircuit struct {
	X frontend.Variable
	Y frontend.Variable `gnark:",public"`
}

func (c *cubicCircuit) Define(api frontend.API) error {
	x3 := api.Mul(c.X, c.X, c.X)
	api.AssertIsEqual(c.Y, api.Add(x3, c.X, 5))
	return nil
}

type testSetup struct {
	vk     *VerifyingKey
	proof  *Proof
	inputs []fr.Element
}

func proveCubic(t *testing.T) testSetup {
	t.Helper()
	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &cubicCircuit{})
	require.NoError(t, err)

	pk, gvk, err := groth16.Setup(ccs)
	require.NoError(t, err)

	assignment := &cubicCircuit{X: 3, Y: 35}
	w, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	require.NoError(t, err)
	gproof, err := groth16.Prove(ccs, pk, w)
	require.NoError(t, err)

	vk, err := VerifyingKeyFromGnark(gvk.(*groth16_bn254.VerifyingKey))
	require.NoError(t, err)
	proof, err := ProofFromGnark(gproof.(*groth16_bn254.Proof))
	require.NoError(t, err)

	var y fr.Element
	y.SetUint64(35)
	return testSetup{vk: vk, proof: proof, inputs: []fr.Element{y}}
}

func TestVerify(t *testing.T) {
	s := proveCubic(t)

	ok, err := Verify(s.vk, s.proof, s.inputs)
	require.NoError(t, err)
	require.True(t, ok)

	// a wrong public input is a false outcome, not an error
	var bad fr.Element
	bad.SetUint64(36)
	ok, err = Verify(s.vk, s.proof, []fr.Element{bad})
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVerifyInputCount(t *testing.T) {
	s := proveCubic(t)
	_, err := Verify(s.vk, s.proof, nil)
	require.ErrorIs(t, err, ErrInputCount)
	_, err = Verify(s.vk, s.proof, append(s.inputs, s.inputs[0]))
	require.ErrorIs(t, err, ErrInputCount)
}

func TestVerifyHinted(t *testing.T) {
	s := proveCubic(t)

	hint, err := ComputeFinalExpHint(s.vk, s.proof, s.inputs)
	require.NoError(t, err)

	ok, err := VerifyHinted(s.vk, s.proof, s.inputs, hint)
	require.NoError(t, err)
	require.True(t, ok)

	// hint generation for a non-verifying statement fails closed
	var bad fr.Element
	bad.SetUint64(36)
	_, err = ComputeFinalExpHint(s.vk, s.proof, []fr.Element{bad})
	require.ErrorIs(t, err, pairing.ErrNoFinalExpWitness)

	// a hint for a different statement does not transfer
	ok, err = VerifyHinted(s.vk, s.proof, []fr.Element{bad}, hint)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestProofRoundTrip(t *testing.T) {
	s := proveCubic(t)

	b := s.proof.Bytes()
	require.Len(t, b, ProofSize)
	var p Proof
	require.NoError(t, p.SetBytes(b))
	require.True(t, p.A.Equal(&s.proof.A))
	require.True(t, p.B.Equal(&s.proof.B))
	require.True(t, p.C.Equal(&s.proof.C))

	vb := s.vk.Bytes()
	var vk VerifyingKey
	require.NoError(t, vk.SetBytes(vb))
	require.Equal(t, len(s.vk.IC), len(vk.IC))
	ok, err := Verify(&vk, &p, s.inputs)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestHintRoundTrip(t *testing.T) {
	s := proveCubic(t)
	hint, err := ComputeFinalExpHint(s.vk, s.proof, s.inputs)
	require.NoError(t, err)

	b := hint.Bytes()
	require.Len(t, b, HintSize)
	var h FinalExpHint
	require.NoError(t, h.SetBytes(b))
	require.True(t, h.C.Equal(&hint.C))
	require.True(t, h.Wi.Equal(&hint.Wi))
}

// every single-bit corruption of the proof must fail to verify, either
// by decode rejection or by a false outcome
func TestProofTamper(t *testing.T) {
	s := proveCubic(t)
	good := s.proof.Bytes()

	for i := 0; i < len(good); i++ {
		tampered := make([]byte, len(good))
		copy(tampered, good)
		tampered[i] ^= 1 << uint(i%8)

		var p Proof
		if err := p.SetBytes(tampered); err != nil {
			continue // rejected at ingestion
		}
		ok, err := Verify(s.vk, &p, s.inputs)
		if err == nil && ok {
			t.Fatalf("tampered proof at byte %d verified", i)
		}
	}
}

func TestPublicInputBytes(t *testing.T) {
	s := proveCubic(t)
	b := PublicInputsToBytes(s.inputs)
	got, err := PublicInputsFromBytes(b)
	require.NoError(t, err)
	require.Equal(t, s.inputs, got)

	_, err = PublicInputsFromBytes(b[:len(b)-1])
	require.Error(t, err)

	bad := make([]byte, fr.Bytes)
	for i := range bad {
		bad[i] = 0xff
	}
	_, err = PublicInputsFromBytes(bad)
	require.Error(t, err)
}
