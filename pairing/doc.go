// Package pairing implements the optimal ate pairing on BN254 with
// affine Miller-loop arithmetic: lines are evaluated in the sparse
// 1 - λ·(x/y)·w + (λ·x_R - y_R)·(1/y)·v·w form so that every step costs
// one sparse Fp12 multiplication, and every division the loop performs
// can be exported as a hint for the script emitter.
//
// Besides the classic final exponentiation it provides the residue
// witness protocol: a prover-side witness (c, wi) with f·wi = c^λ that
// lets a verifier replace the full exponentiation by a short
// multiplication-only check.
package pairing
