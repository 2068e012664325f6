package curves

import (
	"errors"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fp"
)

var (
	// ErrPointNotOnCurve reports coordinates that do not satisfy the
	// curve equation.
	ErrPointNotOnCurve = errors.New("point not on curve")
	// ErrPointNotInSubgroup reports an on-curve point outside the
	// prime-order subgroup.
	ErrPointNotInSubgroup = errors.New("point not in prime-order subgroup")
	// ErrInvalidLength reports a serialized point of the wrong size.
	ErrInvalidLength = errors.New("invalid serialized length")
	// ErrNonCanonical reports a serialized field element >= the modulus.
	ErrNonCanonical = errors.New("non-canonical field element encoding")
)

// SeedX is the BN254 curve parameter x0; q, r and the Miller loop bound
// 6x+2 all derive from it.
const SeedX uint64 = 4965661367192848881

// bCurveCoeff is the G1 curve coefficient: y² = x³ + 3.
var bCurveCoeff fp.Element

func init() {
	bCurveCoeff.SetUint64(3)
}

// G1Affine is a point on E(Fp): y² = x³ + 3, with the point at infinity
// encoded as (0, 0).
type G1Affine struct {
	X, Y fp.Element
}

// G1Generator returns the canonical generator (1, 2).
func G1Generator() G1Affine {
	var g G1Affine
	g.X.SetOne()
	g.Y.SetUint64(2)
	return g
}

func (p *G1Affine) SetInfinity() *G1Affine {
	p.X.SetZero()
	p.Y.SetZero()
	return p
}

func (p *G1Affine) IsInfinity() bool {
	return p.X.IsZero() && p.Y.IsZero()
}

func (p *G1Affine) Equal(q *G1Affine) bool {
	return p.X.Equal(&q.X) && p.Y.Equal(&q.Y)
}

func (p *G1Affine) Neg(q *G1Affine) *G1Affine {
	p.X = q.X
	p.Y.Neg(&q.Y)
	return p
}

// IsOnCurve reports whether p satisfies y² = x³ + 3. The point at
// infinity is on the curve.
func (p *G1Affine) IsOnCurve() bool {
	if p.IsInfinity() {
		return true
	}
	var lhs, rhs fp.Element
	lhs.Square(&p.Y)
	rhs.Square(&p.X).Mul(&rhs, &p.X).Add(&rhs, &bCurveCoeff)
	return lhs.Equal(&rhs)
}

// IsInSubgroup reports whether p is in the r-order subgroup. G1 has
// cofactor 1, so every curve point qualifies.
func (p *G1Affine) IsInSubgroup() bool {
	return p.IsOnCurve()
}

// Add sets p to q + s with full affine case analysis. The slope
// denominators are nonzero in every branch that divides.
func (p *G1Affine) Add(q, s *G1Affine) *G1Affine {
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
		// q = -s
		return p.SetInfinity()
	}
	var lambda, num, den, x3, y3 fp.Element
	num.Sub(&s.Y, &q.Y)
	den.Sub(&s.X, &q.X)
	lambda.Inverse(&den).Mul(&lambda, &num)
	x3.Square(&lambda).Sub(&x3, &q.X).Sub(&x3, &s.X)
	y3.Sub(&q.X, &x3).Mul(&y3, &lambda).Sub(&y3, &q.Y)
	p.X = x3
	p.Y = y3
	return p
}

// Double sets p to 2q.
func (p *G1Affine) Double(q *G1Affine) *G1Affine {
	if q.IsInfinity() || q.Y.IsZero() {
		return p.SetInfinity()
	}
	var lambda, num, den, t, x3, y3 fp.Element
	t.Square(&q.X)
	num.Double(&t).Add(&num, &t) // 3x²
	den.Double(&q.Y)
	lambda.Inverse(&den).Mul(&lambda, &num)
	x3.Square(&lambda).Sub(&x3, &q.X).Sub(&x3, &q.X)
	y3.Sub(&q.X, &x3).Mul(&y3, &lambda).Sub(&y3, &q.Y)
	p.X = x3
	p.Y = y3
	return p
}

func (p *G1Affine) Set(q *G1Affine) *G1Affine {
	p.X = q.X
	p.Y = q.Y
	return p
}

// ScalarMul sets p to [k]q, MSB-first double-and-add. Negative scalars
// multiply by |k| and negate.
func (p *G1Affine) ScalarMul(q *G1Affine, k *big.Int) *G1Affine {
	var acc G1Affine
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
