package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/consensys/gnark/frontend"

	bg "github.com/zkbridgelab/bitgroth"
	"github.com/zkbridgelab/bitgroth/setup"
)

type squareCircuit struct {
	X frontend.Variable
	Y frontend.Variable `gnark:",public"`
}

func (c *squareCircuit) Define(api frontend.API) error {
	api.AssertIsEqual(api.Mul(c.X, c.X), c.Y)
	return nil
}

func TestSerializeCompiledCircuit(t *testing.T) {
	cc, err := bg.Compile(&squareCircuit{}, setup.TestOnly)
	if err != nil {
		t.Fatalf("error compiling circuit: %v", err)
	}
	path := filepath.Join(t.TempDir(), "square.ccs")
	if err := SerializeCompiledCircuit(cc, path); err != nil {
		t.Fatalf("error serializing compiled circuit: %v", err)
	}
	restored, err := DeserializeCompiledCircuit(path)
	if err != nil {
		t.Fatalf("error deserializing compiled circuit: %v", err)
	}

	// the restored keys must prove and verify like the originals
	if _, err := restored.Verify(&squareCircuit{X: 3, Y: 9}); err != nil {
		t.Fatalf("restored circuit does not verify: %v", err)
	}
}

func TestShouldRecompile(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "source")
	target := filepath.Join(dir, "target")

	if err := os.WriteFile(source, []byte("a"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(target, []byte("b"), 0644); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(source, old, old); err != nil {
		t.Fatal(err)
	}
	if ShouldRecompile(source, target) {
		t.Fatal("target newer than source should not trigger a recompile")
	}

	now := time.Now()
	if err := os.Chtimes(source, now, now); err != nil {
		t.Fatal(err)
	}
	oldTarget := now.Add(-time.Minute)
	if err := os.Chtimes(target, oldTarget, oldTarget); err != nil {
		t.Fatal(err)
	}
	if !ShouldRecompile(source, target) {
		t.Fatal("source newer than target should trigger a recompile")
	}

	if !ShouldRecompile(filepath.Join(dir, "missing"), target) {
		t.Fatal("missing source should trigger a recompile")
	}
}
