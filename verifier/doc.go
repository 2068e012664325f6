/*
Package verifier implements a native Groth16 verifier over BN254.

It deliberately does not call into a proving library for verification:
every group operation and pairing runs through the curves and pairing
packages of this module, so the computation is the exact one the script
emitter lowers to the constrained stack machine. Keys and proofs can be
ingested either from gnark backend objects (the path used when
compiling and proving in-process) or from fixed-width byte encodings
(the path used by the bridge operator).

Two verification modes exist:

Verify runs the classic check
e(-A, B) · e(α, β) · e(L, γ) · e(C, δ) = 1 with the full final
exponentiation.

VerifyHinted replaces the final exponentiation with the residue
witness check of the pairing package, the multiplication-only shape
that fits the script budget. The hint is produced with
ComputeFinalExpHint and travels with the proof.

A false verification outcome is reported as a boolean, never as an
error. Errors are reserved for malformed inputs: wrong lengths,
non-canonical field encodings, points off the curve or outside their
subgroup, and mismatched public-input counts.
*/
package verifier
