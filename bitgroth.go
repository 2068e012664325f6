package bitgroth

import (
	"fmt"
	"io"
	"os"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/backend/groth16"
	groth16_bn254 "github.com/consensys/gnark/backend/groth16/bn254"
	"github.com/consensys/gnark/backend/witness"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"

	"github.com/zkbridgelab/bitgroth/script"
	"github.com/zkbridgelab/bitgroth/setup"
	"github.com/zkbridgelab/bitgroth/verifier"
)

// CompiledCircuit is a compiled circuit with its proving and verifying keys
type CompiledCircuit struct {
	Ccs constraint.ConstraintSystem
	Pk  groth16.ProvingKey
	Vk  groth16.VerifyingKey
}

// VerifiedProof is a proof and its witness, generated after verifying the proof
type VerifiedProof struct {
	Proof   groth16.Proof
	Witness witness.Witness
}

// Compile generates a CompiledCircuit from a circuit definition over BN254.
// setupConf specifies whether to run a `Trusted` setup or a `TestOnly` setup,
// the latter not suitable for production.
func Compile(circuit frontend.Circuit, setupConf setup.Conf) (
	*CompiledCircuit, error) {
	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, circuit)
	if err != nil {
		return nil, fmt.Errorf("error compiling circuit: %v", err)
	}
	provingKey, verifyingKey, err := setup.Run(ccs, setupConf)
	if err != nil {
		return nil, fmt.Errorf("error setting up Groth16: %v", err)
	}
	return &CompiledCircuit{ccs, provingKey, verifyingKey}, nil
}

// VerifyingKey converts the gnark verifying key to the bridge verifier's
// representation, validating subgroup membership of every point.
func (cc *CompiledCircuit) VerifyingKey() (*verifier.VerifyingKey, error) {
	gvk, ok := cc.Vk.(*groth16_bn254.VerifyingKey)
	if !ok {
		return nil, fmt.Errorf("%w: %T", verifier.ErrUnsupportedKey, cc.Vk)
	}
	return verifier.VerifyingKeyFromGnark(gvk)
}

// WriteScriptVerifier emits the script verifier program for the circuit's
// verifying key and writes its binary encoding to w.
func (cc *CompiledCircuit) WriteScriptVerifier(w io.Writer, budget script.Budget) error {
	vk, err := cc.VerifyingKey()
	if err != nil {
		return err
	}
	program, err := script.EmitVerifier(vk, budget)
	if err != nil {
		return fmt.Errorf("error emitting script verifier: %v", err)
	}
	if _, err := program.WriteTo(w); err != nil {
		return fmt.Errorf("error writing script verifier: %v", err)
	}
	return nil
}

// Verify generates a proof from a circuit assignment and verifies it with
// the bridge verifier
func (cc *CompiledCircuit) Verify(assignment frontend.Circuit,
) (*VerifiedProof, error) {
	witness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("error creating witness: %v", err)
	}
	proof, err := groth16.Prove(cc.Ccs, cc.Pk, witness)
	if err != nil {
		return nil, fmt.Errorf("error creating Groth16 proof: %v", err)
	}
	vp := &VerifiedProof{proof, witness}

	vk, err := cc.VerifyingKey()
	if err != nil {
		return nil, err
	}
	bridgeProof, err := vp.BridgeProof()
	if err != nil {
		return nil, err
	}
	publicInputs, err := vp.PublicInputs()
	if err != nil {
		return nil, err
	}
	ok, err := verifier.Verify(vk, bridgeProof, publicInputs)
	if err != nil {
		return nil, fmt.Errorf("error verifying Groth16 proof: %v", err)
	}
	if !ok {
		return nil, fmt.Errorf("proof does not verify")
	}
	return vp, nil
}

// BridgeProof converts the gnark proof to the bridge verifier's
// representation, validating subgroup membership of every point.
func (vp *VerifiedProof) BridgeProof() (*verifier.Proof, error) {
	gproof, ok := vp.Proof.(*groth16_bn254.Proof)
	if !ok {
		return nil, fmt.Errorf("%w: %T", verifier.ErrUnsupportedKey, vp.Proof)
	}
	return verifier.ProofFromGnark(gproof)
}

// PublicInputs returns the public inputs of the proof as field scalars.
func (vp *VerifiedProof) PublicInputs() ([]fr.Element, error) {
	return publicInputsFromWitness(vp.Witness)
}

// FinalExpHint computes the residue witness for the proof, the auxiliary
// input that lets the script verifier skip the final exponentiation.
func (vp *VerifiedProof) FinalExpHint(vk *verifier.VerifyingKey) (
	*verifier.FinalExpHint, error) {
	proof, err := vp.BridgeProof()
	if err != nil {
		return nil, err
	}
	publicInputs, err := vp.PublicInputs()
	if err != nil {
		return nil, err
	}
	return verifier.ComputeFinalExpHint(vk, proof, publicInputs)
}

// ExportProofAndPublicInputs writes a proof and its public inputs to files
// as binary blobs for the script witness generator
func (vp *VerifiedProof) ExportProofAndPublicInputs(proofFileName string,
	publicInputsFileName string) error {

	proofFile, err := os.Create(proofFileName)
	if err != nil {
		return fmt.Errorf("error creating proof file: %v", err)
	}
	defer proofFile.Close()

	publicInputsFile, err := os.Create(publicInputsFileName)
	if err != nil {
		return fmt.Errorf("error creating public inputs file: %v", err)
	}
	defer publicInputsFile.Close()

	err = vp.WriteProof(proofFile)
	if err != nil {
		return err
	}
	err = vp.WritePublicInputs(publicInputsFile)
	if err != nil {
		return err
	}
	return nil
}

// WriteProof writes a proof as a binary blob in the bridge encoding
func (vp *VerifiedProof) WriteProof(w io.Writer) error {
	proof, err := vp.BridgeProof()
	if err != nil {
		return err
	}
	_, err = w.Write(proof.Bytes())
	if err != nil {
		return fmt.Errorf("error writing proof: %v", err)
	}
	return nil
}

// WritePublicInputs writes the public inputs as a binary blob in the bridge
// encoding
func (vp *VerifiedProof) WritePublicInputs(w io.Writer) error {
	publicInputs, err := vp.PublicInputs()
	if err != nil {
		return fmt.Errorf("error extracting public inputs: %v", err)
	}
	_, err = w.Write(verifier.PublicInputsToBytes(publicInputs))
	if err != nil {
		return fmt.Errorf("error writing public inputs: %v", err)
	}
	return nil
}
