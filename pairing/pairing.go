package pairing

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/consensys/gnark-crypto/ecc/bn254/fp"

	"github.com/zkbridgelab/bitgroth/curves"
	"github.com/zkbridgelab/bitgroth/fields"
)

// loopCounter is 6x+2 in 2-NAF, least significant digit first.
var loopCounter = [66]int8{
	0, 0, 0, 1, 0, 1, 0, -1, 0, 0, -1,
	0, 0, 0, 1, 0, 0, -1, 0, -1, 0, 0,
	0, 1, 0, -1, 0, 0, 0, 0, -1, 0, 0,
	1, 0, -1, 0, 0, 1, 0, 0, 0, 0, 0,
	-1, 0, 0, -1, 0, 1, 0, -1, 0, 0, 0,
	-1, 0, -1, 0, 0, 0, 1, 0, -1, 0, 1,
}

// LineEvaluation is the sparse line 1 + R0·(x/y)·w + R1·(1/y)·v·w
// before scaling by the G1 coordinates.
type LineEvaluation struct {
	R0, R1 fields.E2
}

// Trace records every division the Miller loop performs, in consumption
// order: the per-input G1 normalizations and each line slope. The script
// witness generator replays the loop with these as hints, each checked
// in-script by a single multiplication.
type Trace struct {
	YInv   []fp.Element
	XOverY []fp.Element
	Slopes []fields.E2
}

// MillerLoop computes the multi-Miller loop over the given pairs. Pairs
// containing a point at infinity contribute the neutral factor and are
// skipped. Inputs are assumed subgroup-checked by the caller.
func MillerLoop(P []curves.G1Affine, Q []curves.G2Affine) (fields.E12, error) {
	return MillerLoopWithTrace(P, Q, nil)
}

// MillerLoopWithTrace is MillerLoop with hint recording. tr may be nil.
func MillerLoopWithTrace(P []curves.G1Affine, Q []curves.G2Affine, tr *Trace) (fields.E12, error) {
	if len(P) != len(Q) {
		return fields.E12{}, errors.New("mismatched input sizes")
	}

	// drop neutral pairs
	var p []curves.G1Affine
	var q []curves.G2Affine
	for k := range P {
		if P[k].IsInfinity() || Q[k].IsInfinity() {
			continue
		}
		p = append(p, P[k])
		q = append(q, Q[k])
	}
	n := len(p)

	var res fields.E12
	res.SetOne()
	if n == 0 {
		return res, nil
	}

	var one fields.E2
	one.SetOne()

	qAcc := make([]curves.G2Affine, n)
	qNeg := make([]curves.G2Affine, n)
	yInv := make([]fp.Element, n)
	xOverY := make([]fp.Element, n)
	for k := 0; k < n; k++ {
		qAcc[k] = q[k]
		qNeg[k].Neg(&q[k])
		yInv[k].Inverse(&p[k].Y)
		xOverY[k].Mul(&p[k].X, &yInv[k])
		if tr != nil {
			tr.YInv = append(tr.YInv, yInv[k])
			tr.XOverY = append(tr.XOverY, xOverY[k])
		}
	}

	var l1, l2 LineEvaluation

	// first squaring-free iteration: fold the initial doubling lines
	// into the sparse coefficients directly
	qAcc[0], l1 = doubleStep(&qAcc[0], tr)
	res.C1.B0.MulByElement(&l1.R0, &xOverY[0])
	res.C1.B1.MulByElement(&l1.R1, &yInv[0])

	if n >= 2 {
		qAcc[1], l1 = doubleStep(&qAcc[1], tr)
		l1.R0.MulByElement(&l1.R0, &xOverY[1])
		l1.R1.MulByElement(&l1.R1, &yInv[1])
		prod := fields.Mul034By034(&one, &l1.R0, &l1.R1, &one, &res.C1.B0, &res.C1.B1)
		res = fields.E12{
			C0: fields.E6{B0: prod[0], B1: prod[1], B2: prod[2]},
			C1: fields.E6{B0: prod[3], B1: prod[4]},
		}
	}

	for k := 2; k < n; k++ {
		qAcc[k], l1 = doubleStep(&qAcc[k], tr)
		l1.R0.MulByElement(&l1.R0, &xOverY[k])
		l1.R1.MulByElement(&l1.R1, &yInv[k])
		res.MulBy034(&one, &l1.R0, &l1.R1)
	}

	for i := len(loopCounter) - 3; i >= 0; i-- {
		res.Square(&res)

		switch loopCounter[i] {
		case 0:
			for k := 0; k < n; k++ {
				qAcc[k], l1 = doubleStep(&qAcc[k], tr)
				l1.R0.MulByElement(&l1.R0, &xOverY[k])
				l1.R1.MulByElement(&l1.R1, &yInv[k])
				res.MulBy034(&one, &l1.R0, &l1.R1)
			}
		case 1:
			for k := 0; k < n; k++ {
				qAcc[k], l1, l2 = doubleAndAddStep(&qAcc[k], &q[k], tr)
				l1.R0.MulByElement(&l1.R0, &xOverY[k])
				l1.R1.MulByElement(&l1.R1, &yInv[k])
				res.MulBy034(&one, &l1.R0, &l1.R1)
				l2.R0.MulByElement(&l2.R0, &xOverY[k])
				l2.R1.MulByElement(&l2.R1, &yInv[k])
				res.MulBy034(&one, &l2.R0, &l2.R1)
			}
		case -1:
			for k := 0; k < n; k++ {
				qAcc[k], l1, l2 = doubleAndAddStep(&qAcc[k], &qNeg[k], tr)
				l1.R0.MulByElement(&l1.R0, &xOverY[k])
				l1.R1.MulByElement(&l1.R1, &yInv[k])
				res.MulBy034(&one, &l1.R0, &l1.R1)
				l2.R0.MulByElement(&l2.R0, &xOverY[k])
				l2.R1.MulByElement(&l2.R1, &yInv[k])
				res.MulBy034(&one, &l2.R0, &l2.R1)
			}
		}
	}

	// Frobenius tail: lines through Q1 = π(Q) and Q2 = -π²(Q)
	var q1, q2 curves.G2Affine
	for k := 0; k < n; k++ {
		q1.X.Conjugate(&q[k].X)
		q1.X.MulByNonResidue1Power2(&q1.X)
		q1.Y.Conjugate(&q[k].Y)
		q1.Y.MulByNonResidue1Power3(&q1.Y)

		q2.X.MulByNonResidue2Power2(&q[k].X)
		q2.Y.MulByNonResidue2Power3(&q[k].Y)
		q2.Y.Neg(&q2.Y)

		qAcc[k], l1 = addStep(&qAcc[k], &q1, tr)
		l1.R0.MulByElement(&l1.R0, &xOverY[k])
		l1.R1.MulByElement(&l1.R1, &yInv[k])
		res.MulBy034(&one, &l1.R0, &l1.R1)

		l2 = addStepLineOnly(&qAcc[k], &q2, tr)
		l2.R0.MulByElement(&l2.R0, &xOverY[k])
		l2.R1.MulByElement(&l2.R1, &yInv[k])
		res.MulBy034(&one, &l2.R0, &l2.R1)
	}

	return res, nil
}

// FinalExponentiation raises the Miller output to (q¹²-1)/r, up to the
// harmless cofactor 2x(6x²+3x+1): easy part (q⁶-1)(q²+1) followed by
// the Fuentes et al. hard part (eprint 2015/192, alg. 10).
func FinalExponentiation(e *fields.E12) (fields.E12, error) {
	var inv, t0, t1, t2, t3, result fields.E12
	if err := inv.Inverse(e); err != nil {
		return fields.E12{}, fmt.Errorf("final exponentiation easy part: %w", err)
	}
	t0.Conjugate(e).Mul(&t0, &inv)
	result.FrobeniusSquare(&t0).Mul(&result, &t0)

	t0 = expt(&result)
	t0.Conjugate(&t0)
	t0.CyclotomicSquare(&t0)
	t2 = expt(&t0)
	t2.Conjugate(&t2)
	t1.CyclotomicSquare(&t2)
	t2.Mul(&t2, &t1)
	t2.Mul(&t2, &result)
	t1 = expt(&t2)
	t1.CyclotomicSquare(&t1)
	t1.Mul(&t1, &t2)
	t1.Conjugate(&t1)
	t3.Conjugate(&t1)
	t1.CyclotomicSquare(&t0)
	t1.Mul(&t1, &result)
	t1.Conjugate(&t1)
	t1.Mul(&t1, &t3)
	t0.Mul(&t0, &t1)
	t2.Mul(&t2, &t1)
	t3.FrobeniusSquare(&t1)
	t2.Mul(&t2, &t3)
	t3.Conjugate(&result)
	t3.Mul(&t3, &t0)
	t1.FrobeniusCube(&t3)
	t2.Mul(&t2, &t1)
	t1.Frobenius(&t0)
	t1.Mul(&t1, &t2)
	return t1, nil
}

// Pair computes the product of the optimal ate pairings over the pairs.
func Pair(P []curves.G1Affine, Q []curves.G2Affine) (fields.E12, error) {
	f, err := MillerLoop(P, Q)
	if err != nil {
		return fields.E12{}, fmt.Errorf("miller loop: %w", err)
	}
	return FinalExponentiation(&f)
}

// PairingCheck reports whether the pairing product over all pairs is
// the identity.
func PairingCheck(P []curves.G1Affine, Q []curves.G2Affine) (bool, error) {
	f, err := Pair(P, Q)
	if err != nil {
		return false, err
	}
	return f.IsOne(), nil
}

// expt raises a cyclotomic-subgroup element to the curve seed x.
func expt(x *fields.E12) fields.E12 {
	var res fields.E12
	res.Set(x)
	msb := bits.Len64(curves.SeedX) - 1
	for i := msb - 1; i >= 0; i-- {
		res.CyclotomicSquare(&res)
		if (curves.SeedX>>uint(i))&1 == 1 {
			res.Mul(&res, x)
		}
	}
	return res
}

// slope records a hinted division and returns num/den. The step
// formulas only divide by values the group structure keeps nonzero.
func slope(num, den *fields.E2, tr *Trace) fields.E2 {
	var l fields.E2
	if err := l.Inverse(den); err != nil {
		panic("pairing: zero line denominator for prime-order inputs")
	}
	l.Mul(&l, num)
	if tr != nil {
		tr.Slopes = append(tr.Slopes, l)
	}
	return l
}

// doubleStep doubles the accumulator and evaluates the tangent line
// (eprint 2022/1162, section 6.1).
func doubleStep(p1 *curves.G2Affine, tr *Trace) (curves.G2Affine, LineEvaluation) {
	var p curves.G2Affine
	var line LineEvaluation
	var n, d, t, xr, yr fields.E2

	// λ = 3x²/2y
	t.Square(&p1.X)
	n.Double(&t).Add(&n, &t)
	d.Double(&p1.Y)
	l := slope(&n, &d, tr)

	xr.Square(&l).Sub(&xr, &p1.X).Sub(&xr, &p1.X)
	yr.Sub(&p1.X, &xr).Mul(&yr, &l).Sub(&yr, &p1.Y)

	p.X = xr
	p.Y = yr

	line.R0.Neg(&l)
	line.R1.Mul(&l, &p1.X).Sub(&line.R1, &p1.Y)
	return p, line
}

// doubleAndAddStep computes 2·p1 + p2 sharing the intermediate point,
// evaluating both lines.
func doubleAndAddStep(p1, p2 *curves.G2Affine, tr *Trace) (curves.G2Affine, LineEvaluation, LineEvaluation) {
	var p curves.G2Affine
	var line1, line2 LineEvaluation
	var n, d, x3, x4, y4 fields.E2

	// λ1 = (y1-y2)/(x1-x2)
	n.Sub(&p1.Y, &p2.Y)
	d.Sub(&p1.X, &p2.X)
	l1 := slope(&n, &d, tr)

	// x3 = λ1² - x1 - x2, y3 not needed
	x3.Square(&l1).Sub(&x3, &p1.X).Sub(&x3, &p2.X)

	line1.R0.Neg(&l1)
	line1.R1.Mul(&l1, &p1.X).Sub(&line1.R1, &p1.Y)

	// λ2 = -λ1 - 2y1/(x3-x1)
	n.Double(&p1.Y)
	d.Sub(&x3, &p1.X)
	l2 := slope(&n, &d, tr)
	l2.Add(&l2, &l1).Neg(&l2)

	x4.Square(&l2).Sub(&x4, &p1.X).Sub(&x4, &x3)
	y4.Sub(&p1.X, &x4).Mul(&y4, &l2).Sub(&y4, &p1.Y)

	p.X = x4
	p.Y = y4

	line2.R0.Neg(&l2)
	line2.R1.Mul(&l2, &p1.X).Sub(&line2.R1, &p1.Y)
	return p, line1, line2
}

// addStep adds q to the accumulator and evaluates the chord line.
func addStep(p, q *curves.G2Affine, tr *Trace) (curves.G2Affine, LineEvaluation) {
	var res curves.G2Affine
	var line LineEvaluation
	var n, d, xr, yr fields.E2

	n.Sub(&q.Y, &p.Y)
	d.Sub(&q.X, &p.X)
	l := slope(&n, &d, tr)

	xr.Square(&l).Sub(&xr, &p.X).Sub(&xr, &q.X)
	yr.Sub(&p.X, &xr).Mul(&yr, &l).Sub(&yr, &p.Y)

	res.X = xr
	res.Y = yr

	line.R0.Neg(&l)
	line.R1.Mul(&l, &p.X).Sub(&line.R1, &p.Y)
	return res, line
}

// addStepLineOnly evaluates the chord through p and q without updating
// the accumulator.
func addStepLineOnly(p, q *curves.G2Affine, tr *Trace) LineEvaluation {
	var line LineEvaluation
	var n, d fields.E2

	n.Sub(&q.Y, &p.Y)
	d.Sub(&q.X, &p.X)
	l := slope(&n, &d, tr)

	line.R0.Neg(&l)
	line.R1.Mul(&l, &p.X).Sub(&line.R1, &p.Y)
	return line
}
