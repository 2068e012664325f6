package script

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fp"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/zkbridgelab/bitgroth/curves"
	"github.com/zkbridgelab/bitgroth/fields"
	"github.com/zkbridgelab/bitgroth/pairing"
	"github.com/zkbridgelab/bitgroth/verifier"
)

// ErrDegenerateHint reports a hint slot whose value does not exist for
// these inputs, such as a chord through two points sharing an
// x-coordinate. Witness generation fails closed rather than emit a
// slope the script cannot check soundly.
var ErrDegenerateHint = errors.New("degenerate hint value")

// BuildWitness evaluates every hint slot of the program for a concrete
// proof and derives the chunk-boundary restores by replaying the
// machine. The verifying key must be the one the program was emitted
// for.
func BuildWitness(p *Program, vk *verifier.VerifyingKey, proof *verifier.Proof,
	inputs []fr.Element, hint *verifier.FinalExpHint) (*Witness, error) {

	if len(inputs) != p.NumInputs {
		return nil, fmt.Errorf("%w: got %d inputs, program expects %d",
			verifier.ErrInputCount, len(inputs), p.NumInputs)
	}
	if len(vk.IC) != p.NumInputs+1 {
		return nil, fmt.Errorf("%w: key has %d basis points, program expects %d",
			verifier.ErrInputCount, len(vk.IC), p.NumInputs+1)
	}
	if err := vk.Validate(); err != nil {
		return nil, err
	}
	if err := proof.Validate(); err != nil {
		return nil, err
	}
	n := p.NumInputs

	proofWords := [8]fp.Element{
		proof.A.X, proof.A.Y,
		proof.B.X.A0, proof.B.X.A1, proof.B.Y.A0, proof.B.Y.A1,
		proof.C.X, proof.C.Y,
	}

	scalars := make([]*big.Int, n)
	for i := range inputs {
		scalars[i] = new(big.Int)
		inputs[i].BigInt(scalars[i])
	}

	// replay the offset double-and-add chains
	h := msmOffset()
	msmDouble := make([][]fp.Element, n)
	msmAdd := make([][]fp.Element, n)
	sums := make([]curves.G1Affine, n)
	for i := 0; i < n; i++ {
		msmDouble[i] = make([]fp.Element, scalarBits)
		msmAdd[i] = make([]fp.Element, scalarBits)
		acc := h
		base := vk.IC[i+1]
		for j := scalarBits - 1; j >= 0; j-- {
			lam, err := tangentSlope(&acc)
			if err != nil {
				return nil, fmt.Errorf("input %d bit %d: %w", i, j, err)
			}
			msmDouble[i][j] = lam
			acc.Double(&acc)

			lam, err = chordSlope(&acc, &base)
			if err != nil {
				return nil, fmt.Errorf("input %d bit %d: %w", i, j, err)
			}
			msmAdd[i][j] = lam
			if scalars[i].Bit(j) == 1 {
				acc.Add(&acc, &base)
			}
		}
		sums[i] = acc
	}

	// fold the per-input sums and the offset correction into IC[0]
	accAdd := make([]fp.Element, n+1)
	l := vk.IC[0]
	if n > 0 {
		for i := 0; i < n; i++ {
			lam, err := chordSlope(&l, &sums[i])
			if err != nil {
				return nil, fmt.Errorf("input %d fold: %w", i, err)
			}
			accAdd[i] = lam
			l.Add(&l, &sums[i])
		}
		corr := correctionPoint(n)
		lam, err := chordSlope(&l, &corr)
		if err != nil {
			return nil, fmt.Errorf("offset correction: %w", err)
		}
		accAdd[n] = lam
		l.Add(&l, &corr)
	}

	// Miller trace for the variable pair (-A, B)
	var negA curves.G1Affine
	negA.Neg(&proof.A)
	var tr pairing.Trace
	if _, err := pairing.MillerLoopWithTrace(
		[]curves.G1Affine{negA}, []curves.G2Affine{proof.B}, &tr); err != nil {
		return nil, err
	}

	var yInv, xOverY [3]fp.Element
	yInv[0], xOverY[0] = tr.YInv[0], tr.XOverY[0]
	for k, pt := range []*curves.G1Affine{&l, &proof.C} {
		if pt.IsInfinity() {
			return nil, fmt.Errorf("miller pair %d: %w: point at infinity", k+1, ErrDegenerateHint)
		}
		yInv[k+1].Inverse(&pt.Y)
		xOverY[k+1].Mul(&pt.X, &yInv[k+1])
	}

	var cInv fields.E12
	if err := cInv.Inverse(&hint.C); err != nil {
		return nil, fmt.Errorf("residue hint: %w", err)
	}
	var resWords [36]fp.Element
	copy(resWords[0:12], e12Words(&hint.C))
	copy(resWords[12:24], e12Words(&hint.Wi))
	copy(resWords[24:36], e12Words(&cInv))

	var one fp.Element
	one.SetOne()
	hints := make([]fp.Element, len(p.Hints))
	for idx, ref := range p.Hints {
		switch ref.Kind {
		case HintProofWord:
			if int(ref.A) >= len(proofWords) {
				return nil, fmt.Errorf("hint %d: proof word %d out of range", idx, ref.A)
			}
			hints[idx] = proofWords[ref.A]
		case HintInputBit:
			if int(ref.A) >= n || int(ref.B) >= scalarBits {
				return nil, fmt.Errorf("hint %d: input bit (%d,%d) out of range", idx, ref.A, ref.B)
			}
			if scalars[ref.A].Bit(int(ref.B)) == 1 {
				hints[idx] = one
			}
		case HintYInv, HintXOverY:
			if ref.A >= 3 {
				return nil, fmt.Errorf("hint %d: miller pair %d out of range", idx, ref.A)
			}
			if ref.Kind == HintYInv {
				hints[idx] = yInv[ref.A]
			} else {
				hints[idx] = xOverY[ref.A]
			}
		case HintMillerSlope:
			if int(ref.A) >= len(tr.Slopes) || ref.B > 1 {
				return nil, fmt.Errorf("hint %d: miller slope (%d,%d) out of range", idx, ref.A, ref.B)
			}
			if ref.B == 0 {
				hints[idx] = tr.Slopes[ref.A].A0
			} else {
				hints[idx] = tr.Slopes[ref.A].A1
			}
		case HintMSMDouble, HintMSMAdd:
			if int(ref.A) >= n || int(ref.B) >= scalarBits {
				return nil, fmt.Errorf("hint %d: sum slope (%d,%d) out of range", idx, ref.A, ref.B)
			}
			if ref.Kind == HintMSMDouble {
				hints[idx] = msmDouble[ref.A][ref.B]
			} else {
				hints[idx] = msmAdd[ref.A][ref.B]
			}
		case HintAccAdd:
			if int(ref.A) >= len(accAdd) {
				return nil, fmt.Errorf("hint %d: fold slope %d out of range", idx, ref.A)
			}
			hints[idx] = accAdd[ref.A]
		case HintResidueWord:
			if int(ref.A) >= len(resWords) {
				return nil, fmt.Errorf("hint %d: residue word %d out of range", idx, ref.A)
			}
			hints[idx] = resWords[ref.A]
		default:
			return nil, fmt.Errorf("hint %d: unknown kind %d", idx, ref.Kind)
		}
	}

	restores, err := BuildRestores(p, hints)
	if err != nil {
		return nil, err
	}
	return &Witness{Hints: hints, Restores: restores}, nil
}

// tangentSlope returns 3x²/2y.
func tangentSlope(p *curves.G1Affine) (fp.Element, error) {
	if p.Y.IsZero() {
		return fp.Element{}, fmt.Errorf("%w: tangent at two-torsion point", ErrDegenerateHint)
	}
	var num, den, t fp.Element
	t.Square(&p.X)
	num.Double(&t).Add(&num, &t)
	den.Double(&p.Y)
	den.Inverse(&den)
	num.Mul(&num, &den)
	return num, nil
}

// chordSlope returns (yq-yp)/(xq-xp), refusing a vertical or undefined
// chord.
func chordSlope(p, q *curves.G1Affine) (fp.Element, error) {
	if p.X.Equal(&q.X) {
		return fp.Element{}, fmt.Errorf("%w: chord through colliding x-coordinates", ErrDegenerateHint)
	}
	var num, den fp.Element
	num.Sub(&q.Y, &p.Y)
	den.Sub(&q.X, &p.X)
	den.Inverse(&den)
	num.Mul(&num, &den)
	return num, nil
}

// e12Words flattens an E12 into field words in tower order.
func e12Words(x *fields.E12) []fp.Element {
	return []fp.Element{
		x.C0.B0.A0, x.C0.B0.A1, x.C0.B1.A0, x.C0.B1.A1, x.C0.B2.A0, x.C0.B2.A1,
		x.C1.B0.A0, x.C1.B0.A1, x.C1.B1.A0, x.C1.B1.A1, x.C1.B2.A0, x.C1.B2.A1,
	}
}
