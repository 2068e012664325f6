// Package fields implements the BN254 extension-field tower Fp2/Fp6/Fp12
// used by the pairing engine and mirrored, operation for operation, by the
// script emitter. The base field is gnark-crypto's fp.Element; everything
// above it is built here so that every multiplication the verifier performs
// has a known lowering to stack-machine instructions.
//
// The tower is Fp2 = Fp[u]/(u²+1), Fp6 = Fp2[v]/(v³-(9+u)),
// Fp12 = Fp6[w]/(w²-v).
package fields
