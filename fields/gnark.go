package fields

import "github.com/consensys/gnark-crypto/ecc/bn254"

// Conversions to and from gnark-crypto's tower types. Both towers use
// the same basis (1, u, v, w) and the same fp.Element limbs, so these
// are plain coordinate copies. They exist so the pairing tests can
// cross-check against gnark-crypto and so the residue-witness engine
// can borrow its exponentiation.

func (z *E2) ToGnark() bn254.E2 {
	return bn254.E2{A0: z.A0, A1: z.A1}
}

func (z *E2) FromGnark(x *bn254.E2) *E2 {
	z.A0 = x.A0
	z.A1 = x.A1
	return z
}

func (z *E6) ToGnark() bn254.E6 {
	return bn254.E6{B0: z.B0.ToGnark(), B1: z.B1.ToGnark(), B2: z.B2.ToGnark()}
}

func (z *E6) FromGnark(x *bn254.E6) *E6 {
	z.B0.FromGnark(&x.B0)
	z.B1.FromGnark(&x.B1)
	z.B2.FromGnark(&x.B2)
	return z
}

func (z *E12) ToGnark() bn254.E12 {
	return bn254.E12{C0: z.C0.ToGnark(), C1: z.C1.ToGnark()}
}

func (z *E12) FromGnark(x *bn254.E12) *E12 {
	z.C0.FromGnark(&x.C0)
	z.C1.FromGnark(&x.C1)
	return z
}
