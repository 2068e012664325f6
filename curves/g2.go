package curves

import (
	"math/big"

	"github.com/zkbridgelab/bitgroth/fields"
)

// bTwistCoeff is the D-twist coefficient 3/(9+u): y² = x³ + b'.
var bTwistCoeff = fields.NewE2(
	"19485874751759354771024239261021720505790618469301721065564631296452457478373",
	"266929791119991161246907387137283842545076965332900288569378510910307636690")

// TwistB returns the twist coefficient, for code that spells out the
// curve equation elsewhere.
func TwistB() fields.E2 {
	return bTwistCoeff
}

// G2Affine is a point on E'(Fp2): y² = x³ + 3/(9+u), with the point at
// infinity encoded as (0, 0).
type G2Affine struct {
	X, Y fields.E2
}

// G2Generator returns the canonical generator of the r-order subgroup
// of the twist.
func G2Generator() G2Affine {
	return G2Affine{
		X: fields.NewE2(
			"10857046999023057135944570762232829481370756359578518086990519993285655852781",
			"11559732032986387107991004021392285783925812861821192530917403151452391805634"),
		Y: fields.NewE2(
			"8495653923123431417604973247489272438418190587263600148770280649306958101930",
			"4082367875863433681332203403145435568316851327593401208105741076214120093531"),
	}
}

func (p *G2Affine) SetInfinity() *G2Affine {
	p.X.SetZero()
	p.Y.SetZero()
	return p
}

func (p *G2Affine) IsInfinity() bool {
	return p.X.IsZero() && p.Y.IsZero()
}

func (p *G2Affine) Equal(q *G2Affine) bool {
	return p.X.Equal(&q.X) && p.Y.Equal(&q.Y)
}

func (p *G2Affine) Set(q *G2Affine) *G2Affine {
	p.X = q.X
	p.Y = q.Y
	return p
}

func (p *G2Affine) Neg(q *G2Affine) *G2Affine {
	p.X = q.X
	p.Y.Neg(&q.Y)
	return p
}

// IsOnCurve reports whether p satisfies y² = x³ + 3/(9+u). The point at
// infinity is on the curve.
func (p *G2Affine) IsOnCurve() bool {
	if p.IsInfinity() {
		return true
	}
	var lhs, rhs fields.E2
	lhs.Square(&p.Y)
	rhs.Square(&p.X).Mul(&rhs, &p.X).Add(&rhs, &bTwistCoeff)
	return lhs.Equal(&rhs)
}

// Psi applies the twist-untwist-Frobenius endomorphism:
// psi(x, y) = (conj(x)·u^((q-1)/3), conj(y)·u^((q-1)/2)). Its eigenvalue
// on the r-order subgroup is the Frobenius trace minus one.
func (p *G2Affine) Psi(q *G2Affine) *G2Affine {
	var x, y fields.E2
	x.Conjugate(&q.X)
	x.MulByNonResidue1Power2(&x)
	y.Conjugate(&q.Y)
	y.MulByNonResidue1Power3(&y)
	p.X = x
	p.Y = y
	return p
}

// IsInSubgroup reports whether p is in the r-order subgroup, using the
// eigenvalue criterion psi(p) = [6x²]p. The twist has a large cofactor,
// so on-curve alone is not enough.
func (p *G2Affine) IsInSubgroup() bool {
	if !p.IsOnCurve() {
		return false
	}
	if p.IsInfinity() {
		return true
	}
	x := new(big.Int).SetUint64(SeedX)
	k := new(big.Int).Mul(x, x)
	k.Mul(k, big.NewInt(6))
	var lhs, rhs G2Affine
	lhs.Psi(p)
	rhs.ScalarMul(p, k)
	return lhs.Equal(&rhs)
}

// Add sets p to q + s with full affine case analysis.
func (p *G2Affine) Add(q, s *G2Affine) *G2Affine {
	if q.IsInfinity() {
		return p.Set(s)
	}
	if s.IsInfinity() {
		return p.Set(q)
	}
	if q.X.Equal(&s.X) {
		if q.Y.Equal(&s.Y) && !q.Y.IsZero() {
			return p.Double(q)
		}
		return p.SetInfinity()
	}
	var lambda, num, den, x3, y3 fields.E2
	num.Sub(&s.Y, &q.Y)
	den.Sub(&s.X, &q.X)
	mustInverseE2(&lambda, &den)
	lambda.Mul(&lambda, &num)
	x3.Square(&lambda).Sub(&x3, &q.X).Sub(&x3, &s.X)
	y3.Sub(&q.X, &x3).Mul(&y3, &lambda).Sub(&y3, &q.Y)
	p.X = x3
	p.Y = y3
	return p
}

// Double sets p to 2q.
func (p *G2Affine) Double(q *G2Affine) *G2Affine {
	if q.IsInfinity() || q.Y.IsZero() {
		return p.SetInfinity()
	}
	var lambda, num, den, t, x3, y3 fields.E2
	t.Square(&q.X)
	num.Double(&t).Add(&num, &t) // 3x²
	den.Double(&q.Y)
	mustInverseE2(&lambda, &den)
	lambda.Mul(&lambda, &num)
	x3.Square(&lambda).Sub(&x3, &q.X).Sub(&x3, &q.X)
	y3.Sub(&q.X, &x3).Mul(&y3, &lambda).Sub(&y3, &q.Y)
	p.X = x3
	p.Y = y3
	return p
}

// ScalarMul sets p to [k]q, MSB-first double-and-add.
func (p *G2Affine) ScalarMul(q *G2Affine, k *big.Int) *G2Affine {
	var acc G2Affine
	acc.SetInfinity()
	kk := new(big.Int).Abs(k)
	for i := kk.BitLen() - 1; i >= 0; i-- {
		acc.Double(&acc)
		if kk.Bit(i) == 1 {
			acc.Add(&acc, q)
		}
	}
	if k.Sign() < 0 {
		acc.Neg(&acc)
	}
	return p.Set(&acc)
}

// mustInverseE2 inverts a denominator the surrounding case analysis has
// already proven nonzero.
func mustInverseE2(z, x *fields.E2) {
	if err := z.Inverse(x); err != nil {
		panic("curves: inversion of zero denominator past case analysis")
	}
}
