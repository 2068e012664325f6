/*
Package setup runs the Groth16 key generation for a compiled circuit.

Groth16 keys are circuit specific
====================================================================================================
To secure the Groth16 protocol, Prover and Verifier need shared parameters (the proving and
verifying keys). The creation of these parameters requires a "trusted setup" procedure, so called
because it is critical to run the procedure correctly to ensure the security of proof
verifications: whoever knows the randomness used during key generation can forge proofs.

Unlike universal-setup schemes, a Groth16 setup binds to one circuit. There is no perpetual
powers-of-tau output to embed here; every circuit that goes to production needs its own
multi-party ceremony, which is secure as long as at least one participant is honest.

This package therefore offers two configurations:

  - TestOnly runs gnark's local setup. The toxic waste is generated in-process, so the keys are
    only good for tests and development.
  - Trusted is rejected with an error pointing at the ceremony requirement. Production deployments
    run a per-circuit MPC ceremony (for example with semaphore-mtb-setup or snarkjs) and load the
    resulting keys directly.

Learn more about per-circuit ceremonies here:
https://github.com/privacy-scaling-explorations/perpetualpowersoftau
https://github.com/worldcoin/semaphore-mtb-setup
*/
package setup
