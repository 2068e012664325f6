package pairing

import (
	"github.com/zkbridgelab/bitgroth/curves"
)

// PrecomputeLines evaluates every Miller-loop line for a fixed G2
// point, in the exact order MillerLoop consumes them: the initial
// doubling, then per 2-NAF digit one line (digit 0) or two (digit ±1),
// then the two Frobenius-tail lines. Callers pairing against a fixed
// point (the verifying key anchors) fold these as constants; only the
// scaling by the G1 coordinates remains variable.
func PrecomputeLines(q *curves.G2Affine) []LineEvaluation {
	var lines []LineEvaluation
	var l1, l2 LineEvaluation

	acc := *q
	var qNeg curves.G2Affine
	qNeg.Neg(q)

	acc, l1 = doubleStep(&acc, nil)
	lines = append(lines, l1)

	for i := len(loopCounter) - 3; i >= 0; i-- {
		switch loopCounter[i] {
		case 0:
			acc, l1 = doubleStep(&acc, nil)
			lines = append(lines, l1)
		case 1:
			acc, l1, l2 = doubleAndAddStep(&acc, q, nil)
			lines = append(lines, l1, l2)
		case -1:
			acc, l1, l2 = doubleAndAddStep(&acc, &qNeg, nil)
			lines = append(lines, l1, l2)
		}
	}

	var q1, q2 curves.G2Affine
	q1.X.Conjugate(&q.X)
	q1.X.MulByNonResidue1Power2(&q1.X)
	q1.Y.Conjugate(&q.Y)
	q1.Y.MulByNonResidue1Power3(&q1.Y)

	q2.X.MulByNonResidue2Power2(&q.X)
	q2.Y.MulByNonResidue2Power3(&q.Y)
	q2.Y.Neg(&q2.Y)

	acc, l1 = addStep(&acc, &q1, nil)
	lines = append(lines, l1)
	l2 = addStepLineOnly(&acc, &q2, nil)
	lines = append(lines, l2)
	return lines
}

// ScalingFactorOrder returns 3^v, the order bound of the residue
// witness scaling subgroup checked by CheckFinalExpWitness.
func ScalingFactorOrder() uint64 {
	return pow3V.Uint64()
}

// LoopDigits returns the 2-NAF digits of 6x+2, least significant
// first, for code that mirrors the Miller loop or the c^λ chain.
func LoopDigits() []int8 {
	out := make([]int8, len(loopCounter))
	copy(out, loopCounter[:])
	return out
}
