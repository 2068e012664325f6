/*
Package script lowers the hinted Groth16 verifier to a constrained
stack machine: a fixed instruction set over field words (values mod p),
no loops, no division, bounded instruction count and stack depth per
chunk.

The pipeline has four parts:

The Builder tracks named values on the machine stack, schedules
pick/roll moves, enforces the chunk budgets at emission time and cuts
chunks by committing the live stack to a blake3 digest that the next
chunk restores and re-checks.

EmitVerifier lowers the whole verification computation for a fixed
verifying key: in-script on-curve checks for the proof points, booleany
public-input bits, the offset double-and-add input sum, the three
variable Miller pairs with the α/β pair and all fixed-point lines
folded to constants, and the residue witness check in place of the
final exponentiation. Every division becomes a witness hint checked by
one multiplication.

BuildWitness produces the matching witness for a concrete proof by
replaying the native verifier; each hint slot in the program names the
semantic value it carries, so the generator cannot drift out of sync
with the emitted code. Degenerate hint cases fail closed.

Execute is the reference interpreter used by tests and by the witness
generator to derive the chunk-boundary restores.
*/
package script
