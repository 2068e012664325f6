package fields

import (
	"errors"

	"github.com/consensys/gnark-crypto/ecc/bn254/fp"
)

// ErrDivisionByZero is returned when inverting the zero element of any
// tower level. Callers must treat it as a hard failure, never as a
// verification-false outcome.
var ErrDivisionByZero = errors.New("inverse of zero field element")

// E2 is an element of Fp2 = Fp[u]/(u²+1), represented as A0 + A1·u.
type E2 struct {
	A0, A1 fp.Element
}

// NewE2 builds an element from decimal strings. It panics on malformed
// input and is meant for constants.
func NewE2(a0, a1 string) E2 {
	var z E2
	if _, err := z.A0.SetString(a0); err != nil {
		panic("invalid fp constant: " + a0)
	}
	if _, err := z.A1.SetString(a1); err != nil {
		panic("invalid fp constant: " + a1)
	}
	return z
}

func (z *E2) Set(x *E2) *E2 {
	z.A0 = x.A0
	z.A1 = x.A1
	return z
}

func (z *E2) SetZero() *E2 {
	z.A0.SetZero()
	z.A1.SetZero()
	return z
}

func (z *E2) SetOne() *E2 {
	z.A0.SetOne()
	z.A1.SetZero()
	return z
}

func (z *E2) IsZero() bool {
	return z.A0.IsZero() && z.A1.IsZero()
}

func (z *E2) IsOne() bool {
	return z.A0.IsOne() && z.A1.IsZero()
}

func (z *E2) Equal(x *E2) bool {
	return z.A0.Equal(&x.A0) && z.A1.Equal(&x.A1)
}

func (z *E2) Add(x, y *E2) *E2 {
	z.A0.Add(&x.A0, &y.A0)
	z.A1.Add(&x.A1, &y.A1)
	return z
}

func (z *E2) Sub(x, y *E2) *E2 {
	z.A0.Sub(&x.A0, &y.A0)
	z.A1.Sub(&x.A1, &y.A1)
	return z
}

func (z *E2) Double(x *E2) *E2 {
	z.A0.Double(&x.A0)
	z.A1.Double(&x.A1)
	return z
}

func (z *E2) Neg(x *E2) *E2 {
	z.A0.Neg(&x.A0)
	z.A1.Neg(&x.A1)
	return z
}

// Conjugate sets z to A0 - A1·u.
func (z *E2) Conjugate(x *E2) *E2 {
	z.A0 = x.A0
	z.A1.Neg(&x.A1)
	return z
}

// Mul sets z to x·y using the Karatsuba shortcut over u²=-1:
// (a0+a1u)(b0+b1u) = (a0b0 - a1b1) + ((a0+a1)(b0+b1) - a0b0 - a1b1)u.
func (z *E2) Mul(x, y *E2) *E2 {
	var a, b, c, d fp.Element
	a.Add(&x.A0, &x.A1)
	b.Add(&y.A0, &y.A1)
	a.Mul(&a, &b)
	c.Mul(&x.A0, &y.A0)
	d.Mul(&x.A1, &y.A1)
	z.A1.Sub(&a, &c).Sub(&z.A1, &d)
	z.A0.Sub(&c, &d)
	return z
}

// Square sets z to x² via (a0+a1)(a0-a1) + 2a0a1·u.
func (z *E2) Square(x *E2) *E2 {
	var a, b fp.Element
	a.Add(&x.A0, &x.A1)
	b.Sub(&x.A0, &x.A1)
	a.Mul(&a, &b)
	b.Mul(&x.A0, &x.A1).Double(&b)
	z.A0 = a
	z.A1 = b
	return z
}

// MulByElement multiplies both coordinates by a base-field element.
func (z *E2) MulByElement(x *E2, y *fp.Element) *E2 {
	z.A0.Mul(&x.A0, y)
	z.A1.Mul(&x.A1, y)
	return z
}

// MulByNonResidue multiplies x by the Fp6 non-residue 9+u:
// (9+u)(a0+a1u) = (9a0 - a1) + (a0 + 9a1)u.
func (z *E2) MulByNonResidue(x *E2) *E2 {
	var a, b fp.Element
	a.Double(&x.A0).Double(&a).Double(&a).Add(&a, &x.A0).Sub(&a, &x.A1)
	b.Double(&x.A1).Double(&b).Double(&b).Add(&b, &x.A1).Add(&b, &x.A0)
	z.A0 = a
	z.A1 = b
	return z
}

// Inverse sets z to 1/x. Inverting zero is a domain error.
func (z *E2) Inverse(x *E2) error {
	if x.IsZero() {
		return ErrDivisionByZero
	}
	// 1/(a0+a1u) = (a0-a1u)/(a0²+a1²)
	var t0, t1 fp.Element
	t0.Square(&x.A0)
	t1.Square(&x.A1)
	t0.Add(&t0, &t1)
	t1.Inverse(&t0)
	z.A0.Mul(&x.A0, &t1)
	z.A1.Mul(&x.A1, &t1).Neg(&z.A1)
	return nil
}

