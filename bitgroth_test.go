package bitgroth

import (
	"bytes"
	"testing"

	"github.com/consensys/gnark/frontend"

	"github.com/zkbridgelab/bitgroth/script"
	"github.com/zkbridgelab/bitgroth/setup"
	"github.com/zkbridgelab/bitgroth/verifier"
)

type pythagoreanCircuit struct {
	A frontend.Variable `gnark:",public"`
	B frontend.Variable `gnark:",public"`
	C frontend.Variable
}

func (c *pythagoreanCircuit) Define(api frontend.API) error {
	aa := api.Mul(c.A, c.A)
	bb := api.Mul(c.B, c.B)
	cc := api.Mul(c.C, c.C)
	api.AssertIsEqual(api.Add(aa, bb), cc)
	return nil
}

func TestCompileVerifyExport(t *testing.T) {
	cc, err := Compile(&pythagoreanCircuit{}, setup.TestOnly)
	if err != nil {
		t.Fatalf("error compiling circuit: %v", err)
	}
	vp, err := cc.Verify(&pythagoreanCircuit{A: 3, B: 4, C: 5})
	if err != nil {
		t.Fatalf("error verifying assignment: %v", err)
	}

	var proofBuf bytes.Buffer
	if err := vp.WriteProof(&proofBuf); err != nil {
		t.Fatalf("error writing proof: %v", err)
	}
	var proof verifier.Proof
	if err := proof.SetBytes(proofBuf.Bytes()); err != nil {
		t.Fatalf("exported proof does not parse: %v", err)
	}

	var inputsBuf bytes.Buffer
	if err := vp.WritePublicInputs(&inputsBuf); err != nil {
		t.Fatalf("error writing public inputs: %v", err)
	}
	inputs, err := verifier.PublicInputsFromBytes(inputsBuf.Bytes())
	if err != nil {
		t.Fatalf("exported public inputs do not parse: %v", err)
	}
	if len(inputs) != 2 {
		t.Fatalf("expected 2 public inputs, got %d", len(inputs))
	}

	vk, err := cc.VerifyingKey()
	if err != nil {
		t.Fatalf("error converting verifying key: %v", err)
	}
	ok, err := verifier.Verify(vk, &proof, inputs)
	if err != nil {
		t.Fatalf("error verifying exported proof: %v", err)
	}
	if !ok {
		t.Fatal("exported proof does not verify")
	}
}

func TestWriteScriptVerifier(t *testing.T) {
	cc, err := Compile(&pythagoreanCircuit{}, setup.TestOnly)
	if err != nil {
		t.Fatalf("error compiling circuit: %v", err)
	}
	var buf bytes.Buffer
	if err := cc.WriteScriptVerifier(&buf, script.DefaultBudget); err != nil {
		t.Fatalf("error writing script verifier: %v", err)
	}
	var program script.Program
	if _, err := program.ReadFrom(bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("exported program does not parse: %v", err)
	}
	if program.NumInputs != 2 {
		t.Fatalf("expected a 2-input program, got %d", program.NumInputs)
	}
}

func TestVerifyRejectsWrongAssignment(t *testing.T) {
	cc, err := Compile(&pythagoreanCircuit{}, setup.TestOnly)
	if err != nil {
		t.Fatalf("error compiling circuit: %v", err)
	}
	if _, err := cc.Verify(&pythagoreanCircuit{A: 3, B: 4, C: 6}); err == nil {
		t.Fatal("expected an error for a wrong assignment")
	}
}
