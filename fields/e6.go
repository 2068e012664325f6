package fields

// E6 is an element of Fp6 = Fp2[v]/(v³-(9+u)), represented as
// B0 + B1·v + B2·v².
type E6 struct {
	B0, B1, B2 E2
}

func (z *E6) Set(x *E6) *E6 {
	z.B0 = x.B0
	z.B1 = x.B1
	z.B2 = x.B2
	return z
}

func (z *E6) SetZero() *E6 {
	z.B0.SetZero()
	z.B1.SetZero()
	z.B2.SetZero()
	return z
}

func (z *E6) SetOne() *E6 {
	z.B0.SetOne()
	z.B1.SetZero()
	z.B2.SetZero()
	return z
}

func (z *E6) IsZero() bool {
	return z.B0.IsZero() && z.B1.IsZero() && z.B2.IsZero()
}

func (z *E6) Equal(x *E6) bool {
	return z.B0.Equal(&x.B0) && z.B1.Equal(&x.B1) && z.B2.Equal(&x.B2)
}

func (z *E6) Add(x, y *E6) *E6 {
	z.B0.Add(&x.B0, &y.B0)
	z.B1.Add(&x.B1, &y.B1)
	z.B2.Add(&x.B2, &y.B2)
	return z
}

func (z *E6) Sub(x, y *E6) *E6 {
	z.B0.Sub(&x.B0, &y.B0)
	z.B1.Sub(&x.B1, &y.B1)
	z.B2.Sub(&x.B2, &y.B2)
	return z
}

func (z *E6) Double(x *E6) *E6 {
	z.B0.Double(&x.B0)
	z.B1.Double(&x.B1)
	z.B2.Double(&x.B2)
	return z
}

func (z *E6) Neg(x *E6) *E6 {
	z.B0.Neg(&x.B0)
	z.B1.Neg(&x.B1)
	z.B2.Neg(&x.B2)
	return z
}

// Mul sets z to x·y (Karatsuba over E2 with reduction by v³ = 9+u).
func (z *E6) Mul(x, y *E6) *E6 {
	var t0, t1, t2, c0, c1, c2, tmp E2
	t0.Mul(&x.B0, &y.B0)
	t1.Mul(&x.B1, &y.B1)
	t2.Mul(&x.B2, &y.B2)

	c0.Add(&x.B1, &x.B2)
	tmp.Add(&y.B1, &y.B2)
	c0.Mul(&c0, &tmp).Sub(&c0, &t1).Sub(&c0, &t2).MulByNonResidue(&c0).Add(&c0, &t0)

	c1.Add(&x.B0, &x.B1)
	tmp.Add(&y.B0, &y.B1)
	c1.Mul(&c1, &tmp).Sub(&c1, &t0).Sub(&c1, &t1)
	tmp.MulByNonResidue(&t2)
	c1.Add(&c1, &tmp)

	tmp.Add(&x.B0, &x.B2)
	c2.Add(&y.B0, &y.B2).Mul(&c2, &tmp).Sub(&c2, &t0).Sub(&c2, &t2).Add(&c2, &t1)

	z.B0 = c0
	z.B1 = c1
	z.B2 = c2
	return z
}

// Square sets z to x² (CH-SQR2).
func (z *E6) Square(x *E6) *E6 {
	var c0, c1, c2, c3, c4, c5 E2
	c4.Mul(&x.B0, &x.B1).Double(&c4)
	c5.Square(&x.B2)
	c1.MulByNonResidue(&c5).Add(&c1, &c4)
	c2.Sub(&c4, &c5)
	c3.Square(&x.B0)
	c4.Sub(&x.B0, &x.B1).Add(&c4, &x.B2)
	c5.Mul(&x.B1, &x.B2).Double(&c5)
	c4.Square(&c4)
	c0.MulByNonResidue(&c5).Add(&c0, &c3)
	z.B2.Add(&c2, &c4).Add(&z.B2, &c5).Sub(&z.B2, &c3)
	z.B0 = c0
	z.B1 = c1
	return z
}

// MulByNonResidue multiplies x by v.
func (z *E6) MulByNonResidue(x *E6) *E6 {
	z.B2, z.B1, z.B0 = x.B1, x.B0, x.B2
	z.B0.MulByNonResidue(&z.B0)
	return z
}

// MulByE2 scales every coordinate of x by y.
func (z *E6) MulByE2(x *E6, y *E2) *E6 {
	z.B0.Mul(&x.B0, y)
	z.B1.Mul(&x.B1, y)
	z.B2.Mul(&x.B2, y)
	return z
}

// MulBy01 multiplies z in place by the sparse element c0 + c1·v.
func (z *E6) MulBy01(c0, c1 *E2) *E6 {
	var a, b, tmp, t0, t1, t2 E2
	a.Mul(&z.B0, c0)
	b.Mul(&z.B1, c1)

	tmp.Add(&z.B1, &z.B2)
	t0.Mul(c1, &tmp).Sub(&t0, &b).MulByNonResidue(&t0).Add(&t0, &a)

	tmp.Add(&z.B0, &z.B2)
	t2.Mul(c0, &tmp).Sub(&t2, &a).Add(&t2, &b)

	t1.Add(c0, c1)
	tmp.Add(&z.B0, &z.B1)
	t1.Mul(&t1, &tmp).Sub(&t1, &a).Sub(&t1, &b)

	z.B0 = t0
	z.B1 = t1
	z.B2 = t2
	return z
}

// Mul01By01 sets z to (c0 + c1·v)·(d0 + d1·v).
func (z *E6) Mul01By01(c0, c1, d0, d1 *E2) *E6 {
	var x0, x1, t E2
	x0.Mul(c0, d0)
	x1.Mul(c1, d1)
	t.Add(c0, c1)
	z.B1.Add(d0, d1).Mul(&z.B1, &t).Sub(&z.B1, &x0).Sub(&z.B1, &x1)
	z.B0 = x0
	z.B2 = x1
	return z
}

// Inverse sets z to 1/x. Inverting zero is a domain error.
func (z *E6) Inverse(x *E6) error {
	if x.IsZero() {
		return ErrDivisionByZero
	}
	var t0, t1, t2, t3, t4, t5, t6, c0, c1, c2, d1, d2 E2
	t0.Square(&x.B0)
	t1.Square(&x.B1)
	t2.Square(&x.B2)
	t3.Mul(&x.B0, &x.B1)
	t4.Mul(&x.B0, &x.B2)
	t5.Mul(&x.B1, &x.B2)
	c0.MulByNonResidue(&t5).Neg(&c0).Add(&c0, &t0)
	c1.MulByNonResidue(&t2).Sub(&c1, &t3)
	c2.Sub(&t1, &t4)
	t6.Mul(&x.B0, &c0)
	d1.Mul(&x.B2, &c1)
	d2.Mul(&x.B1, &c2)
	d1.Add(&d1, &d2).MulByNonResidue(&d1)
	t6.Add(&t6, &d1)
	if err := t6.Inverse(&t6); err != nil {
		return err
	}
	z.B0.Mul(&c0, &t6)
	z.B1.Mul(&c1, &t6)
	z.B2.Mul(&c2, &t6)
	return nil
}
