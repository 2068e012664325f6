package setup

import (
	"strings"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
)

type squareCircuit struct {
	X frontend.Variable
	Y frontend.Variable `gnark:",public"`
}

func (c *squareCircuit) Define(api frontend.API) error {
	api.AssertIsEqual(api.Mul(c.X, c.X), c.Y)
	return nil
}

func TestTestOnlySetup(t *testing.T) {
	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder,
		&squareCircuit{})
	if err != nil {
		t.Fatalf("error compiling circuit: %v", err)
	}
	pk, vk, err := Run(ccs, TestOnly)
	if err != nil {
		t.Fatalf("error running test setup: %v", err)
	}

	witness, err := frontend.NewWitness(&squareCircuit{X: 3, Y: 9},
		ecc.BN254.ScalarField())
	if err != nil {
		t.Fatalf("error creating witness: %v", err)
	}
	proof, err := groth16.Prove(ccs, pk, witness)
	if err != nil {
		t.Fatalf("error proving: %v", err)
	}
	public, err := witness.Public()
	if err != nil {
		t.Fatalf("error extracting public witness: %v", err)
	}
	if err := groth16.Verify(proof, vk, public); err != nil {
		t.Fatalf("error verifying: %v", err)
	}
}

func TestTrustedSetupRejected(t *testing.T) {
	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder,
		&squareCircuit{})
	if err != nil {
		t.Fatalf("error compiling circuit: %v", err)
	}
	_, _, err = Run(ccs, Trusted)
	if err == nil {
		t.Fatal("expected an error for a trusted setup request")
	}
	if !strings.Contains(err.Error(), "ceremony") {
		t.Fatalf("error does not point at the ceremony requirement: %v", err)
	}
}
