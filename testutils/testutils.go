// package testutils contains test helper functions
package testutils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"os"

	"github.com/consensys/gnark/frontend"

	bg "github.com/zkbridgelab/bitgroth"
	"github.com/zkbridgelab/bitgroth/script"
	"github.com/zkbridgelab/bitgroth/setup"
)

// RandomBigInt returns a random big integer bigger than 1 of up to
// maxBits bits. If maxBits is less than 1, it defaults to 32.
func RandomBigInt(maxBits int64) *big.Int {
	if maxBits < 1 {
		maxBits = 32
	}
	var max *big.Int = big.NewInt(0).Exp(big.NewInt(2), big.NewInt(maxBits), nil)
	for {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		if n.Cmp(big.NewInt(2)) > 0 {
			return n
		}
	}
}

// TestCircuitWithGnark compiles a circuit with a test only setup and proves
// and verifies an assignment with the bridge verifier (no script emission)
func TestCircuitWithGnark(circuit frontend.Circuit, assignment frontend.Circuit) (
	*bg.CompiledCircuit, *bg.VerifiedProof, error) {

	cc, err := bg.Compile(circuit, setup.TestOnly)
	if err != nil {
		return nil, nil, fmt.Errorf("error compiling circuit: %v", err)
	}
	vp, err := cc.Verify(assignment)
	if err != nil {
		return cc, nil, fmt.Errorf("error proving circuit: %v", err)
	}
	return cc, vp, nil
}

// RunProofThroughScript emits the script verifier for the circuit, builds
// the witness for the verified proof and runs the program on the reference
// interpreter, returning the script outcome.
func RunProofThroughScript(cc *bg.CompiledCircuit, vp *bg.VerifiedProof,
	budget script.Budget) (bool, error) {

	vk, err := cc.VerifyingKey()
	if err != nil {
		return false, err
	}
	program, err := script.EmitVerifier(vk, budget)
	if err != nil {
		return false, fmt.Errorf("error emitting script verifier: %v", err)
	}
	proof, err := vp.BridgeProof()
	if err != nil {
		return false, err
	}
	publicInputs, err := vp.PublicInputs()
	if err != nil {
		return false, err
	}
	hint, err := vp.FinalExpHint(vk)
	if err != nil {
		return false, fmt.Errorf("error computing residue witness: %v", err)
	}
	witness, err := script.BuildWitness(program, vk, proof, publicInputs, hint)
	if err != nil {
		return false, fmt.Errorf("error building script witness: %v", err)
	}
	return script.Execute(program, witness)
}

func CreateDirectoryIfNeeded(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		err = os.Mkdir(dir, 0755)
		if err != nil {
			return fmt.Errorf("error creating folder: %v", err)
		}
	} else if !info.IsDir() {
		return fmt.Errorf("file %s exists but is not a directory", dir)
	}
	return nil
}
