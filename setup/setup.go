package setup

import (
	"fmt"

	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
)

// Conf specifies what setup to run, either trusted as per doc.go or a test
// only setup not suitable for production.
type Conf int

const (
	Trusted Conf = iota
	TestOnly
)

// Run sets up a Groth16 system for the compiled circuit.
// TestOnly derives the keys from local randomness; the toxic waste lives in
// this process, so the resulting keys secure nothing. Trusted is rejected:
// Groth16 has no universal reference string, so production keys must come
// out of a per-circuit ceremony and be imported, not generated here.
func Run(ccs constraint.ConstraintSystem, setup Conf) (
	groth16.ProvingKey, groth16.VerifyingKey, error) {

	switch setup {
	case TestOnly:
		provingKey, verifyingKey, err := groth16.Setup(ccs)
		if err != nil {
			return nil, nil, fmt.Errorf("error running test setup: %v", err)
		}
		return provingKey, verifyingKey, nil
	case Trusted:
		return nil, nil, fmt.Errorf("trusted setup requires a per-circuit " +
			"ceremony; run one for this circuit and import its keys instead")
	default:
		return nil, nil, fmt.Errorf("unsupported setup configuration: %v", setup)
	}
}
