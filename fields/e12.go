package fields

import "math/big"

// E12 is an element of Fp12 = Fp6[w]/(w²-v), represented as C0 + C1·w.
// The sextic twist places Miller-loop line evaluations in the sparse
// coefficients (C0.B0, C1.B0, C1.B1), see MulBy034.
type E12 struct {
	C0, C1 E6
}

func (z *E12) Set(x *E12) *E12 {
	z.C0 = x.C0
	z.C1 = x.C1
	return z
}

func (z *E12) SetOne() *E12 {
	z.C0.SetOne()
	z.C1.SetZero()
	return z
}

func (z *E12) IsZero() bool {
	return z.C0.IsZero() && z.C1.IsZero()
}

func (z *E12) IsOne() bool {
	var one E12
	one.SetOne()
	return z.Equal(&one)
}

func (z *E12) Equal(x *E12) bool {
	return z.C0.Equal(&x.C0) && z.C1.Equal(&x.C1)
}

func (z *E12) Mul(x, y *E12) *E12 {
	var a, b, c E6
	a.Add(&x.C0, &x.C1)
	b.Add(&y.C0, &y.C1)
	a.Mul(&a, &b)
	b.Mul(&x.C0, &y.C0)
	c.Mul(&x.C1, &y.C1)
	z.C1.Sub(&a, &b).Sub(&z.C1, &c)
	z.C0.MulByNonResidue(&c).Add(&z.C0, &b)
	return z
}

// Square sets z to x², algorithm 22 of eprint 2010/354.
func (z *E12) Square(x *E12) *E12 {
	var c0, c2, c3 E6
	c0.Sub(&x.C0, &x.C1)
	c3.MulByNonResidue(&x.C1).Neg(&c3).Add(&x.C0, &c3)
	c2.Mul(&x.C0, &x.C1)
	c0.Mul(&c0, &c3).Add(&c0, &c2)
	z.C1.Double(&c2)
	c2.MulByNonResidue(&c2)
	z.C0.Add(&c0, &c2)
	return z
}

// CyclotomicSquare sets z to x² for x in the cyclotomic subgroup
// (Granger-Scott). Undefined outside the subgroup.
func (z *E12) CyclotomicSquare(x *E12) *E12 {
	var t [9]E2

	t[0].Square(&x.C1.B1)
	t[1].Square(&x.C0.B0)
	t[6].Add(&x.C1.B1, &x.C0.B0).Square(&t[6]).Sub(&t[6], &t[0]).Sub(&t[6], &t[1])
	t[2].Square(&x.C0.B2)
	t[3].Square(&x.C1.B0)
	t[7].Add(&x.C0.B2, &x.C1.B0).Square(&t[7]).Sub(&t[7], &t[2]).Sub(&t[7], &t[3])
	t[4].Square(&x.C1.B2)
	t[5].Square(&x.C0.B1)
	t[8].Add(&x.C1.B2, &x.C0.B1).Square(&t[8]).Sub(&t[8], &t[4]).Sub(&t[8], &t[5]).MulByNonResidue(&t[8])

	t[0].MulByNonResidue(&t[0]).Add(&t[0], &t[1])
	t[2].MulByNonResidue(&t[2]).Add(&t[2], &t[3])
	t[4].MulByNonResidue(&t[4]).Add(&t[4], &t[5])

	z.C0.B0.Sub(&t[0], &x.C0.B0).Double(&z.C0.B0).Add(&z.C0.B0, &t[0])
	z.C0.B1.Sub(&t[2], &x.C0.B1).Double(&z.C0.B1).Add(&z.C0.B1, &t[2])
	z.C0.B2.Sub(&t[4], &x.C0.B2).Double(&z.C0.B2).Add(&z.C0.B2, &t[4])

	z.C1.B0.Add(&t[8], &x.C1.B0).Double(&z.C1.B0).Add(&z.C1.B0, &t[8])
	z.C1.B1.Add(&t[6], &x.C1.B1).Double(&z.C1.B1).Add(&z.C1.B1, &t[6])
	z.C1.B2.Add(&t[7], &x.C1.B2).Double(&z.C1.B2).Add(&z.C1.B2, &t[7])
	return z
}

// Conjugate negates the C1 half. For cyclotomic elements this is the
// inverse.
func (z *E12) Conjugate(x *E12) *E12 {
	z.C0 = x.C0
	z.C1.Neg(&x.C1)
	return z
}

// Inverse sets z to 1/x. Inverting zero is a domain error.
func (z *E12) Inverse(x *E12) error {
	if x.IsZero() {
		return ErrDivisionByZero
	}
	var t0, t1, tmp E6
	t0.Square(&x.C0)
	t1.Square(&x.C1)
	tmp.MulByNonResidue(&t1)
	t0.Sub(&t0, &tmp)
	if err := t1.Inverse(&t0); err != nil {
		return err
	}
	z.C0.Mul(&x.C0, &t1)
	z.C1.Mul(&x.C1, &t1).Neg(&z.C1)
	return nil
}

// MulBy034 multiplies z in place by the sparse element
// c0 + c3·w + c4·v·w, the shape of an affine Miller-loop line.
func (z *E12) MulBy034(c0, c3, c4 *E2) *E12 {
	var a, b, d E6
	var t E2

	a.MulByE2(&z.C0, c0)

	b.Set(&z.C1)
	b.MulBy01(c3, c4)

	t.Add(c0, c3)
	d.Add(&z.C0, &z.C1)
	d.MulBy01(&t, c4)

	z.C1.Add(&a, &b).Neg(&z.C1).Add(&z.C1, &d)
	z.C0.MulByNonResidue(&b).Add(&z.C0, &a)
	return z
}

// Mul034By034 multiplies two sparse 034 elements, returning the five
// nonzero coefficients of the product (coefficient of v²·w vanishes).
func Mul034By034(d0, d3, d4, c0, c3, c4 *E2) [5]E2 {
	var z00, tmp, x0, x3, x4, x04, x03, x34 E2
	x0.Mul(c0, d0)
	x3.Mul(c3, d3)
	x4.Mul(c4, d4)
	tmp.Add(c0, c4)
	x04.Add(d0, d4).Mul(&x04, &tmp).Sub(&x04, &x0).Sub(&x04, &x4)
	tmp.Add(c0, c3)
	x03.Add(d0, d3).Mul(&x03, &tmp).Sub(&x03, &x0).Sub(&x03, &x3)
	tmp.Add(c3, c4)
	x34.Add(d3, d4).Mul(&x34, &tmp).Sub(&x34, &x3).Sub(&x34, &x4)
	z00.MulByNonResidue(&x4).Add(&z00, &x0)
	return [5]E2{z00, x3, x34, x03, x04}
}

// MulBy01234 multiplies z in place by an element with nonzero
// coefficients x[0..4] (v²·w coefficient zero), as produced by
// Mul034By034.
func (z *E12) MulBy01234(x *[5]E2) *E12 {
	var c1, a, b, c, z0, z1 E6
	c0 := E6{B0: x[0], B1: x[1], B2: x[2]}
	c1.B0 = x[3]
	c1.B1 = x[4]
	a.Add(&z.C0, &z.C1)
	b.Add(&c0, &c1)
	a.Mul(&a, &b)
	b.Mul(&z.C0, &c0)
	c.Set(&z.C1)
	c.MulBy01(&x[3], &x[4])
	z1.Sub(&a, &b)
	z1.Sub(&z1, &c)
	z0.MulByNonResidue(&c)
	z0.Add(&z0, &b)
	z.C0 = z0
	z.C1 = z1
	return z
}

// Frobenius sets z to x^q.
func (z *E12) Frobenius(x *E12) *E12 {
	var t [6]E2
	t[0].Conjugate(&x.C0.B0)
	t[1].Conjugate(&x.C0.B1)
	t[2].Conjugate(&x.C0.B2)
	t[3].Conjugate(&x.C1.B0)
	t[4].Conjugate(&x.C1.B1)
	t[5].Conjugate(&x.C1.B2)

	t[1].MulByNonResidue1Power2(&t[1])
	t[2].MulByNonResidue1Power4(&t[2])
	t[3].MulByNonResidue1Power1(&t[3])
	t[4].MulByNonResidue1Power3(&t[4])
	t[5].MulByNonResidue1Power5(&t[5])

	z.C0.B0 = t[0]
	z.C0.B1 = t[1]
	z.C0.B2 = t[2]
	z.C1.B0 = t[3]
	z.C1.B1 = t[4]
	z.C1.B2 = t[5]
	return z
}

// FrobeniusSquare sets z to x^(q²).
func (z *E12) FrobeniusSquare(x *E12) *E12 {
	z.C0.B0 = x.C0.B0
	z.C0.B1.MulByNonResidue2Power2(&x.C0.B1)
	z.C0.B2.MulByNonResidue2Power4(&x.C0.B2)
	z.C1.B0.MulByNonResidue2Power1(&x.C1.B0)
	z.C1.B1.MulByNonResidue2Power3(&x.C1.B1)
	z.C1.B2.MulByNonResidue2Power5(&x.C1.B2)
	return z
}

// FrobeniusCube sets z to x^(q³).
func (z *E12) FrobeniusCube(x *E12) *E12 {
	var t [6]E2
	t[0].Conjugate(&x.C0.B0)
	t[1].Conjugate(&x.C0.B1)
	t[2].Conjugate(&x.C0.B2)
	t[3].Conjugate(&x.C1.B0)
	t[4].Conjugate(&x.C1.B1)
	t[5].Conjugate(&x.C1.B2)

	t[1].MulByNonResidue3Power2(&t[1])
	t[2].MulByNonResidue3Power4(&t[2])
	t[3].MulByNonResidue3Power1(&t[3])
	t[4].MulByNonResidue3Power3(&t[4])
	t[5].MulByNonResidue3Power5(&t[5])

	z.C0.B0 = t[0]
	z.C0.B1 = t[1]
	z.C0.B2 = t[2]
	z.C1.B0 = t[3]
	z.C1.B1 = t[4]
	z.C1.B2 = t[5]
	return z
}

// Exp sets z to x^k for a non-negative exponent, square-and-multiply.
func (z *E12) Exp(x *E12, k *big.Int) *E12 {
	var res E12
	res.SetOne()
	b := k.Bytes()
	for i := 0; i < len(b); i++ {
		w := b[i]
		for j := 0; j < 8; j++ {
			res.Square(&res)
			if (w & 0x80) != 0 {
				res.Mul(&res, x)
			}
			w <<= 1
		}
	}
	return z.Set(&res)
}
