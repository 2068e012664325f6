// Package curves implements affine BN254 G1 and G2 arithmetic over the
// fields tower, with the ingestion-time checks the verifier relies on:
// on-curve membership, subgroup membership (G2 via the psi-endomorphism
// eigenvalue test), and canonical fixed-width serialization.
//
// All group operations use explicit affine case analysis, so every field
// inversion they perform has a provably nonzero denominator. The script
// emitter mirrors the same case-free formulas with hinted slopes.
package curves
