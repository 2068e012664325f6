package pairing

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fp"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/zkbridgelab/bitgroth/curves"
	"github.com/zkbridgelab/bitgroth/fields"
)

// ErrNoFinalExpWitness is returned when no residue witness exists for a
// Miller output, i.e. when the pairing product would not survive the
// final exponentiation. Witness generation fails closed.
var ErrNoFinalExpWitness = errors.New("no residue witness: pairing product is not an r-th residue")

// Residue witness protocol, after Novakovic-Eagen (eprint 2024/640):
// instead of raising the Miller output f to h = (q¹²-1)/r, the prover
// supplies c and a scaling factor wi of 3-power order such that
//
//	f · wi = c^λ,  λ = 6x+2 + q - q² + q³  (r | λ)
//
// The verifier recomputes c^λ with one seed-length square chain and
// three Frobenius maps. Soundness: wi^(3^v) = 1 and f·wi = c^λ give
// f^h = c^(λh) · wi^(-h) = (c^(q¹²-1))^m · 1 = 1, exactly the classic
// acceptance condition.
var (
	bigQ       *big.Int // base field modulus
	bigLambda  *big.Int // 6x+2 + q - q² + q³
	bigM       *big.Int // λ / r
	bigH       *big.Int // (q¹² - 1) / r
	bigHPrime  *big.Int // h / 3^v
	bigN       *big.Int // q¹² - 1
	val3H      uint     // v, 3-adic valuation of h
	val3M      uint     // t, 3-adic valuation of m
	pow3V      *big.Int // 3^v, order bound of the scaling subgroup
	residueExp *big.Int // h / 3^min(t,v): x is a λ-th power iff x^residueExp = 1
	sylowExp   *big.Int // (q¹²-1) / 3^v, projects onto the 3-Sylow subgroup
)

func init() {
	q := fp.Modulus()
	r := fr.Modulus()
	x := new(big.Int).SetUint64(curves.SeedX)

	q2 := new(big.Int).Mul(q, q)
	q3 := new(big.Int).Mul(q2, q)
	lambda := new(big.Int).Mul(x, big.NewInt(6))
	lambda.Add(lambda, big.NewInt(2))
	lambda.Add(lambda, q)
	lambda.Sub(lambda, q2)
	lambda.Add(lambda, q3)

	m, rem := new(big.Int).QuoRem(lambda, r, new(big.Int))
	if rem.Sign() != 0 {
		panic("pairing: r does not divide lambda")
	}

	n := new(big.Int).Exp(q, big.NewInt(12), nil)
	n.Sub(n, big.NewInt(1))
	h, rem := new(big.Int).QuoRem(n, r, new(big.Int))
	if rem.Sign() != 0 {
		panic("pairing: r does not divide q^12 - 1")
	}

	v := val3(h)
	if v == 0 {
		panic("pairing: h has no 3-part")
	}
	t := val3(m)
	k := v
	if t < v {
		k = t
	}
	// the λ-power obstruction must be purely a 3-power for the scaling
	// subgroup to cancel it
	g := new(big.Int).GCD(nil, nil, m, h)
	if g.Cmp(pow3(k)) != 0 {
		panic("pairing: gcd(m, h) is not 3^min(t,v)")
	}

	bigQ = q
	bigLambda = lambda
	bigM = m
	bigH = h
	bigN = n
	val3H = v
	val3M = t
	pow3V = pow3(v)
	bigHPrime = new(big.Int).Quo(h, pow3V)
	residueExp = new(big.Int).Quo(h, pow3(k))
	sylowExp = new(big.Int).Quo(n, pow3V)
}

func val3(n *big.Int) uint {
	var v uint
	q, rem := new(big.Int), new(big.Int)
	t := new(big.Int).Set(n)
	three := big.NewInt(3)
	for {
		q.QuoRem(t, three, rem)
		if rem.Sign() != 0 {
			return v
		}
		t.Set(q)
		v++
	}
}

func pow3(k uint) *big.Int {
	return new(big.Int).Exp(big.NewInt(3), new(big.Int).SetUint64(uint64(k)), nil)
}

// sylowGenerator finds an element of order exactly 3^v by projecting
// deterministic field elements onto the 3-Sylow subgroup.
func sylowGenerator() fields.E12 {
	ordCheck := pow3(val3H - 1)
	var cand, w0, chk fields.E12
	for i := uint64(2); ; i++ {
		cand.SetOne()
		cand.C0.B0.A0.SetUint64(i)
		cand.C1.B0.A0.SetUint64(1)
		cand.C1.B1.A1.SetUint64(i)
		w0.Exp(&cand, sylowExp)
		if chk.Exp(&w0, ordCheck); !chk.IsOne() {
			return w0
		}
	}
}

// ComputeFinalExpWitness computes the residue witness (c, wi) for a
// Miller output f, with f·wi = c^λ and wi of order dividing 3^v. It
// returns ErrNoFinalExpWitness when f would not pass the final
// exponentiation, and never returns an unverified witness.
func ComputeFinalExpWitness(f *fields.E12) (c, wi fields.E12, err error) {
	var chk fields.E12
	if chk.Exp(f, bigH); !chk.IsOne() {
		return c, wi, ErrNoFinalExpWitness
	}

	w0 := sylowGenerator()

	// cancel the 3-power obstruction: find wi = w0^e making f·wi a
	// λ-th power, detected by the residue test u^(h/3^k) = 1
	var u fields.E12
	found := false
	bound := new(big.Int).Set(pow3V)
	e := new(big.Int)
	var wiPow fields.E12
	wiPow.SetOne()
	for ; e.Cmp(bound) < 0; e.Add(e, big.NewInt(1)) {
		u.Mul(f, &wiPow)
		if chk.Exp(&u, residueExp); chk.IsOne() {
			wi.Set(&wiPow)
			found = true
			break
		}
		wiPow.Mul(&wiPow, &w0)
	}
	if !found {
		return fields.E12{}, fields.E12{}, ErrNoFinalExpWitness
	}

	c, err = lambdaRoot(&u, &w0)
	if err != nil {
		return fields.E12{}, fields.E12{}, err
	}

	// fail closed: the returned witness must satisfy the identity
	var cl fields.E12
	cl.Exp(&c, bigLambda)
	if !cl.Equal(&u) {
		return fields.E12{}, fields.E12{}, ErrNoFinalExpWitness
	}
	return c, wi, nil
}

// lambdaRoot computes c with c^λ = u for u a λ-th power with
// u^(h/3^k) = 1, splitting u across the coprime factors h'·3^v of its
// order: the h' component inverts λ directly, the 3-power component
// solves a discrete log in the cyclic group generated by w0.
func lambdaRoot(u, w0 *fields.E12) (fields.E12, error) {
	// CRT idempotents for h' and 3^v
	invP := new(big.Int).ModInverse(pow3V, bigHPrime)
	invH := new(big.Int).ModInverse(bigHPrime, pow3V)
	if invP == nil || invH == nil {
		return fields.E12{}, fmt.Errorf("residue witness: order factors not coprime")
	}
	eB := new(big.Int).Mul(pow3V, invP) // ≡ 1 mod h', ≡ 0 mod 3^v
	eA := new(big.Int).Mul(bigHPrime, invH)

	var uB, uA fields.E12
	uB.Exp(u, eB)
	uA.Exp(u, eA)

	// h' component: λ is invertible mod h'
	lambdaInv := new(big.Int).ModInverse(new(big.Int).Mod(bigLambda, bigHPrime), bigHPrime)
	if lambdaInv == nil {
		return fields.E12{}, fmt.Errorf("residue witness: lambda not invertible mod h'")
	}
	var cB fields.E12
	cB.Exp(&uB, lambdaInv)

	// 3-power component: uA = w0^b, solve γ·λ ≡ b (mod 3^v)
	b, err := dlog3(&uA, w0)
	if err != nil {
		return fields.E12{}, err
	}
	gamma, err := solve3adic(b, bigLambda)
	if err != nil {
		return fields.E12{}, err
	}
	var cA fields.E12
	cA.Exp(w0, gamma)

	var c fields.E12
	c.Mul(&cB, &cA)
	return c, nil
}

// dlog3 computes the discrete log of a in the cyclic 3-group generated
// by w0 (order 3^v), one base-3 digit at a time.
func dlog3(a, w0 *fields.E12) (*big.Int, error) {
	v := val3H
	// s generates the order-3 subgroup
	var s, s2 fields.E12
	s.Exp(w0, pow3(v-1))
	s2.Mul(&s, &s)

	b := new(big.Int)
	var rest, w0Inv, probe fields.E12
	rest.Set(a)
	if err := w0Inv.Inverse(w0); err != nil {
		return nil, fmt.Errorf("residue witness: %v", err)
	}
	for j := uint(0); j < v; j++ {
		probe.Exp(&rest, pow3(v-1-j))
		var digit int64
		switch {
		case probe.IsOne():
			digit = 0
		case probe.Equal(&s):
			digit = 1
		case probe.Equal(&s2):
			digit = 2
		default:
			return nil, ErrNoFinalExpWitness
		}
		if digit != 0 {
			d := new(big.Int).Mul(big.NewInt(digit), pow3(j))
			b.Add(b, d)
			var adj fields.E12
			adj.Exp(&w0Inv, d)
			rest.Mul(&rest, &adj)
		}
	}
	return b, nil
}

// solve3adic solves γ·λ ≡ b (mod 3^v) for γ, exploiting that the
// residue test already forced 3^t | b.
func solve3adic(b, lambda *big.Int) (*big.Int, error) {
	t := val3M
	v := val3H
	if t >= v {
		if new(big.Int).Mod(b, pow3V).Sign() != 0 {
			return nil, ErrNoFinalExpWitness
		}
		return new(big.Int), nil
	}
	p3t := pow3(t)
	bq, brem := new(big.Int).QuoRem(b, p3t, new(big.Int))
	if brem.Sign() != 0 {
		return nil, ErrNoFinalExpWitness
	}
	mu := new(big.Int).Quo(lambda, p3t) // λ = 3^t·μ·r/..., here λ/3^t with 3 ∤ λ/3^t
	mod := pow3(v - t)
	muInv := new(big.Int).ModInverse(new(big.Int).Mod(mu, mod), mod)
	if muInv == nil {
		return nil, fmt.Errorf("residue witness: unit inverse failed mod 3^(v-t)")
	}
	gamma := new(big.Int).Mul(bq, muInv)
	gamma.Mod(gamma, mod)
	return gamma, nil
}

// CheckFinalExpWitness verifies f·wi = c^λ with wi^(3^v) = 1. It is
// multiplication-dominated: one seed-length 2-NAF chain for c^(6x+2)
// plus three Frobenius maps, the shape the script emitter lowers.
func CheckFinalExpWitness(f, c, wi *fields.E12) (bool, error) {
	var chk fields.E12
	if chk.Exp(wi, pow3V); !chk.IsOne() {
		return false, nil
	}

	var cInv fields.E12
	if err := cInv.Inverse(c); err != nil {
		return false, fmt.Errorf("residue witness check: %w", err)
	}

	// c^(6x+2) over the same 2-NAF digits the Miller loop walks
	var res fields.E12
	res.Set(c)
	for i := len(loopCounter) - 2; i >= 0; i-- {
		res.Square(&res)
		switch loopCounter[i] {
		case 1:
			res.Mul(&res, c)
		case -1:
			res.Mul(&res, &cInv)
		}
	}

	// c^λ = c^(6x+2) · c^q · c^(-q²) · c^(q³)
	var frob fields.E12
	frob.Frobenius(c)
	res.Mul(&res, &frob)
	frob.FrobeniusSquare(&cInv)
	res.Mul(&res, &frob)
	frob.FrobeniusCube(c)
	res.Mul(&res, &frob)

	var lhs fields.E12
	lhs.Mul(f, wi)
	return lhs.Equal(&res), nil
}
