package script

import (
	"bytes"
	"sync"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254/fp"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/backend/groth16"
	groth16_bn254 "github.com/consensys/gnark/backend/groth16/bn254"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/stretchr/testify/require"

	"github.com/zkbridgelab/bitgroth/verifier"
)

// x·a = b with x secret and two public inputs, so the input sum walks
// more than one double-and-add chain
type mulCircuit struct {
	X frontend.Variable
	A frontend.Variable `gnark:",public"`
	B frontend.Variable `gnark:",public"`
}

func (c *mulCircuit) Define(api frontend.API) error {
	api.AssertIsEqual(api.Mul(c.X, c.A), c.B)
	return nil
}

type testSetup struct {
	vk     *verifier.VerifyingKey
	proof  *verifier.Proof
	inputs []fr.Element
	hint   *verifier.FinalExpHint
}

var (
	setupOnce sync.Once
	setupVal  testSetup
	setupErr  error
)

func proveMul(t *testing.T) testSetup {
	t.Helper()
	setupOnce.Do(func() {
		ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &mulCircuit{})
		if err != nil {
			setupErr = err
			return
		}
		pk, gvk, err := groth16.Setup(ccs)
		if err != nil {
			setupErr = err
			return
		}
		assignment := &mulCircuit{X: 3, A: 4, B: 12}
		w, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
		if err != nil {
			setupErr = err
			return
		}
		gproof, err := groth16.Prove(ccs, pk, w)
		if err != nil {
			setupErr = err
			return
		}
		vk, err := verifier.VerifyingKeyFromGnark(gvk.(*groth16_bn254.VerifyingKey))
		if err != nil {
			setupErr = err
			return
		}
		proof, err := verifier.ProofFromGnark(gproof.(*groth16_bn254.Proof))
		if err != nil {
			setupErr = err
			return
		}
		var a, b fr.Element
		a.SetUint64(4)
		b.SetUint64(12)
		inputs := []fr.Element{a, b}
		hint, err := verifier.ComputeFinalExpHint(vk, proof, inputs)
		if err != nil {
			setupErr = err
			return
		}
		setupVal = testSetup{vk: vk, proof: proof, inputs: inputs, hint: hint}
	})
	require.NoError(t, setupErr)
	return setupVal
}

func findHint(p *Program, kind HintKind) int {
	for i, h := range p.Hints {
		if h.Kind == kind {
			return i
		}
	}
	return -1
}

func TestEmitAndExecute(t *testing.T) {
	s := proveMul(t)

	prog, err := EmitVerifier(s.vk, DefaultBudget)
	require.NoError(t, err)
	require.Equal(t, 2, prog.NumInputs)

	w, err := BuildWitness(prog, s.vk, s.proof, s.inputs, s.hint)
	require.NoError(t, err)

	ok, err := Execute(prog, w)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestWitnessFailsClosedOnWrongStatement(t *testing.T) {
	s := proveMul(t)

	prog, err := EmitVerifier(s.vk, DefaultBudget)
	require.NoError(t, err)

	// the residue hint for the true statement does not carry over to a
	// different input vector
	var bad fr.Element
	bad.SetUint64(13)
	_, err = BuildWitness(prog, s.vk, s.proof, []fr.Element{s.inputs[0], bad}, s.hint)
	require.Error(t, err)

	_, err = BuildWitness(prog, s.vk, s.proof, s.inputs[:1], s.hint)
	require.ErrorIs(t, err, verifier.ErrInputCount)
}

func TestTamperedWitnessRejected(t *testing.T) {
	s := proveMul(t)

	prog, err := EmitVerifier(s.vk, DefaultBudget)
	require.NoError(t, err)
	good, err := BuildWitness(prog, s.vk, s.proof, s.inputs, s.hint)
	require.NoError(t, err)

	for _, kind := range []HintKind{
		HintProofWord, HintInputBit, HintYInv, HintXOverY,
		HintMillerSlope, HintMSMDouble, HintAccAdd, HintResidueWord,
	} {
		i := findHint(prog, kind)
		require.GreaterOrEqual(t, i, 0)

		w := &Witness{Hints: append([]fp.Element{}, good.Hints...), Restores: good.Restores}
		var one fp.Element
		one.SetOne()
		w.Hints[i].Add(&w.Hints[i], &one)

		ok, err := Execute(prog, w)
		require.NoError(t, err)
		require.False(t, ok, "tampered hint kind %d accepted", kind)
	}
}

func TestChunkedExecution(t *testing.T) {
	s := proveMul(t)

	budget := Budget{MaxOpsPerChunk: 100_000, MaxStackDepth: 1_000, MaxChunks: 1_024}
	prog, err := EmitVerifier(s.vk, budget)
	require.NoError(t, err)
	require.Greater(t, len(prog.Chunks), 1)
	for _, c := range prog.Chunks {
		require.LessOrEqual(t, len(c.Code), budget.MaxOpsPerChunk)
	}

	w, err := BuildWitness(prog, s.vk, s.proof, s.inputs, s.hint)
	require.NoError(t, err)
	ok, err := Execute(prog, w)
	require.NoError(t, err)
	require.True(t, ok)

	// a tampered restore word breaks the commitment chain
	var found bool
	for ci := range w.Restores {
		if len(w.Restores[ci]) == 0 {
			continue
		}
		tampered := &Witness{Hints: w.Hints, Restores: make([][]fp.Element, len(w.Restores))}
		copy(tampered.Restores, w.Restores)
		words := append([]fp.Element{}, w.Restores[ci]...)
		var one fp.Element
		one.SetOne()
		words[0].Add(&words[0], &one)
		tampered.Restores[ci] = words

		ok, err := Execute(prog, tampered)
		require.NoError(t, err)
		require.False(t, ok)
		found = true
		break
	}
	require.True(t, found)

	// missing restores are a malformed witness, not a false outcome
	_, err = Execute(prog, &Witness{Hints: w.Hints})
	require.Error(t, err)
}

func TestBudgetExceeded(t *testing.T) {
	s := proveMul(t)

	_, err := EmitVerifier(s.vk, Budget{MaxOpsPerChunk: 50, MaxStackDepth: 1_000, MaxChunks: 8})
	require.ErrorIs(t, err, ErrBudgetExceeded)

	_, err = EmitVerifier(s.vk, Budget{MaxOpsPerChunk: 4_000_000, MaxStackDepth: 10, MaxChunks: 1_024})
	require.ErrorIs(t, err, ErrBudgetExceeded)
}

func TestProgramRoundTrip(t *testing.T) {
	s := proveMul(t)

	prog, err := EmitVerifier(s.vk, DefaultBudget)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = prog.WriteTo(&buf)
	require.NoError(t, err)

	var decoded Program
	_, err = decoded.ReadFrom(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, prog.Budget, decoded.Budget)
	require.Equal(t, prog.NumInputs, decoded.NumInputs)
	require.Equal(t, prog.Consts, decoded.Consts)
	require.Equal(t, prog.Hints, decoded.Hints)
	require.Equal(t, prog.Chunks, decoded.Chunks)

	w, err := BuildWitness(&decoded, s.vk, s.proof, s.inputs, s.hint)
	require.NoError(t, err)
	ok, err := Execute(&decoded, w)
	require.NoError(t, err)
	require.True(t, ok)

	bad := buf.Bytes()
	bad[0] ^= 0xff
	_, err = decoded.ReadFrom(bytes.NewReader(bad))
	require.Error(t, err)
}

func TestExecuteMalformedProgram(t *testing.T) {
	p := &Program{
		Budget: DefaultBudget,
		Chunks: []Chunk{{Code: []Instruction{{Op: OpPick, Arg: 5}}}},
	}
	_, err := Execute(p, &Witness{})
	require.Error(t, err)

	p = &Program{
		Budget: DefaultBudget,
		Hints:  []HintRef{{Kind: HintProofWord}},
		Chunks: []Chunk{{Code: []Instruction{{Op: OpPushWitness}, {Op: OpDrop}}}},
	}
	_, err = Execute(p, &Witness{})
	require.Error(t, err)
}
