package verifier

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	groth16_bn254 "github.com/consensys/gnark/backend/groth16/bn254"

	"github.com/zkbridgelab/bitgroth/curves"
	"github.com/zkbridgelab/bitgroth/fields"
	"github.com/zkbridgelab/bitgroth/pairing"
)

var (
	// ErrInputCount reports a public input vector that does not match
	// the verifying key's input basis.
	ErrInputCount = errors.New("public input count does not match verifying key")
	// ErrInfinityPoint reports a proof point at infinity; degenerate
	// proofs are rejected at ingestion.
	ErrInfinityPoint = errors.New("proof point at infinity")
	// ErrUnsupportedKey reports a gnark key using features outside the
	// plain Groth16 equation.
	ErrUnsupportedKey = errors.New("unsupported verifying key features")
)

// VerifyingKey is the Groth16 verification key: the pairing anchors
// α, β, γ, δ and the public-input basis IC (length = one more than the
// number of public inputs).
type VerifyingKey struct {
	Alpha curves.G1Affine
	Beta  curves.G2Affine
	Gamma curves.G2Affine
	Delta curves.G2Affine
	IC    []curves.G1Affine
}

// Proof is a Groth16 proof.
type Proof struct {
	A curves.G1Affine
	B curves.G2Affine
	C curves.G1Affine
}

// FinalExpHint is the residue witness accompanying a proof for hinted
// verification.
type FinalExpHint struct {
	C  fields.E12
	Wi fields.E12
}

// VerifyingKeyFromGnark converts and validates a gnark Groth16
// verifying key.
func VerifyingKeyFromGnark(vk *groth16_bn254.VerifyingKey) (*VerifyingKey, error) {
	if len(vk.PublicAndCommitmentCommitted) > 0 {
		for _, c := range vk.PublicAndCommitmentCommitted {
			if len(c) > 0 {
				return nil, fmt.Errorf("%w: commitment wires", ErrUnsupportedKey)
			}
		}
	}
	out := &VerifyingKey{
		Alpha: curves.G1Affine{X: vk.G1.Alpha.X, Y: vk.G1.Alpha.Y},
		IC:    make([]curves.G1Affine, len(vk.G1.K)),
	}
	out.Beta.X.FromGnark(&vk.G2.Beta.X)
	out.Beta.Y.FromGnark(&vk.G2.Beta.Y)
	out.Gamma.X.FromGnark(&vk.G2.Gamma.X)
	out.Gamma.Y.FromGnark(&vk.G2.Gamma.Y)
	out.Delta.X.FromGnark(&vk.G2.Delta.X)
	out.Delta.Y.FromGnark(&vk.G2.Delta.Y)
	for i := range vk.G1.K {
		out.IC[i] = curves.G1Affine{X: vk.G1.K[i].X, Y: vk.G1.K[i].Y}
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// ProofFromGnark converts and validates a gnark Groth16 proof.
func ProofFromGnark(p *groth16_bn254.Proof) (*Proof, error) {
	if len(p.Commitments) > 0 {
		return nil, fmt.Errorf("%w: proof commitments", ErrUnsupportedKey)
	}
	out := &Proof{
		A: curves.G1Affine{X: p.Ar.X, Y: p.Ar.Y},
		C: curves.G1Affine{X: p.Krs.X, Y: p.Krs.Y},
	}
	out.B.X.FromGnark(&p.Bs.X)
	out.B.Y.FromGnark(&p.Bs.Y)
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// Validate checks every key point for curve and subgroup membership.
func (vk *VerifyingKey) Validate() error {
	if len(vk.IC) == 0 {
		return fmt.Errorf("%w: empty input basis", ErrUnsupportedKey)
	}
	g1pts := append([]curves.G1Affine{vk.Alpha}, vk.IC...)
	for i := range g1pts {
		if !g1pts[i].IsOnCurve() {
			return fmt.Errorf("verifying key G1 point %d: %w", i, curves.ErrPointNotOnCurve)
		}
	}
	for _, q := range []*curves.G2Affine{&vk.Beta, &vk.Gamma, &vk.Delta} {
		if !q.IsOnCurve() {
			return curves.ErrPointNotOnCurve
		}
		if !q.IsInSubgroup() {
			return curves.ErrPointNotInSubgroup
		}
	}
	if vk.Gamma.IsInfinity() || vk.Delta.IsInfinity() {
		return ErrInfinityPoint
	}
	return nil
}

// Validate checks the proof points: on curve, in subgroup, not at
// infinity. Verification-false is never reported from here; these are
// malformed-input failures.
func (p *Proof) Validate() error {
	if p.A.IsInfinity() || p.B.IsInfinity() || p.C.IsInfinity() {
		return ErrInfinityPoint
	}
	if !p.A.IsOnCurve() || !p.C.IsOnCurve() {
		return curves.ErrPointNotOnCurve
	}
	if !p.B.IsOnCurve() {
		return curves.ErrPointNotOnCurve
	}
	if !p.B.IsInSubgroup() {
		return curves.ErrPointNotInSubgroup
	}
	return nil
}

// publicInputTerm folds the public inputs into the γ-side point
// L = IC[0] + Σ inputs[i]·IC[i+1].
func (vk *VerifyingKey) publicInputTerm(inputs []fr.Element) (curves.G1Affine, error) {
	if len(inputs) != len(vk.IC)-1 {
		return curves.G1Affine{}, fmt.Errorf("%w: got %d inputs, key expects %d",
			ErrInputCount, len(inputs), len(vk.IC)-1)
	}
	acc := vk.IC[0]
	k := new(big.Int)
	var term curves.G1Affine
	for i := range inputs {
		inputs[i].BigInt(k)
		term.ScalarMul(&vk.IC[i+1], k)
		acc.Add(&acc, &term)
	}
	return acc, nil
}

// pairingInputs assembles the four pairs of the Groth16 product
// e(-A, B) · e(α, β) · e(L, γ) · e(C, δ).
func (vk *VerifyingKey) pairingInputs(proof *Proof, inputs []fr.Element) ([]curves.G1Affine, []curves.G2Affine, error) {
	if err := vk.Validate(); err != nil {
		return nil, nil, err
	}
	if err := proof.Validate(); err != nil {
		return nil, nil, err
	}
	l, err := vk.publicInputTerm(inputs)
	if err != nil {
		return nil, nil, err
	}
	var aNeg curves.G1Affine
	aNeg.Neg(&proof.A)
	P := []curves.G1Affine{aNeg, vk.Alpha, l, proof.C}
	Q := []curves.G2Affine{proof.B, vk.Beta, vk.Gamma, vk.Delta}
	return P, Q, nil
}

// Verify runs the classic Groth16 check with the full final
// exponentiation.
func Verify(vk *VerifyingKey, proof *Proof, inputs []fr.Element) (bool, error) {
	P, Q, err := vk.pairingInputs(proof, inputs)
	if err != nil {
		return false, err
	}
	ok, err := pairing.PairingCheck(P, Q)
	if err != nil {
		return false, fmt.Errorf("pairing check: %v", err)
	}
	return ok, nil
}

// ComputeFinalExpHint produces the residue witness for a proof. It
// fails closed: an invalid proof has no witness and yields
// pairing.ErrNoFinalExpWitness.
func ComputeFinalExpHint(vk *VerifyingKey, proof *Proof, inputs []fr.Element) (*FinalExpHint, error) {
	P, Q, err := vk.pairingInputs(proof, inputs)
	if err != nil {
		return nil, err
	}
	f, err := pairing.MillerLoop(P, Q)
	if err != nil {
		return nil, fmt.Errorf("miller loop: %v", err)
	}
	c, wi, err := pairing.ComputeFinalExpWitness(&f)
	if err != nil {
		return nil, err
	}
	return &FinalExpHint{C: c, Wi: wi}, nil
}

// VerifyHinted runs the Groth16 check using a residue witness instead
// of the final exponentiation. A wrong or missing witness makes the
// outcome false, never an error.
func VerifyHinted(vk *VerifyingKey, proof *Proof, inputs []fr.Element, hint *FinalExpHint) (bool, error) {
	P, Q, err := vk.pairingInputs(proof, inputs)
	if err != nil {
		return false, err
	}
	f, err := pairing.MillerLoop(P, Q)
	if err != nil {
		return false, fmt.Errorf("miller loop: %v", err)
	}
	ok, err := pairing.CheckFinalExpWitness(&f, &hint.C, &hint.Wi)
	if err != nil {
		return false, fmt.Errorf("residue witness check: %v", err)
	}
	return ok, nil
}
