package bitgroth

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/backend/witness"
)

// publicInputsFromWitness extracts the public part of a witness as BN254
// scalars, in circuit definition order.
func publicInputsFromWitness(w witness.Witness) ([]fr.Element, error) {
	public, err := w.Public()
	if err != nil {
		return nil, fmt.Errorf("error extracting public witness: %v", err)
	}
	vector, ok := public.Vector().(fr.Vector)
	if !ok {
		return nil, fmt.Errorf("unexpected witness vector type %T", public.Vector())
	}
	return vector, nil
}
