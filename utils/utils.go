// package utils contains functions and types to aid compilation and serialization /
// deserialization
package utils

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"

	bg "github.com/zkbridgelab/bitgroth"
)

// ShouldRecompile returns true if sourcePath is more recent than any of the
// files in targetPaths or if it encounters any error
func ShouldRecompile(sourcePath string, targetPaths ...string) bool {
	sourceFile, err := os.Stat(sourcePath)
	if err != nil {
		return true
	}
	sourceModTime := sourceFile.ModTime()

	for _, targetPath := range targetPaths {
		outputFile, err := os.Stat(targetPath)
		if err != nil {
			return true
		}
		outputModTime := outputFile.ModTime()
		if sourceModTime.After(outputModTime) {
			return true
		}
	}
	return false
}

// CompiledCircuitBytes contains the compiled circuit pre-serialized to bytes
type CompiledCircuitBytes struct {
	Ccs []byte
	Pk  []byte
	Vk  []byte
}

// SerializeCompiledCircuit serializes a compiled circuit to file
func SerializeCompiledCircuit(cc *bg.CompiledCircuit, filepath string) error {
	var ccsB, pkb, vkb bytes.Buffer
	cc.Ccs.WriteTo(&ccsB)
	cc.Pk.WriteTo(&pkb)
	cc.Vk.WriteTo(&vkb)

	c := CompiledCircuitBytes{
		Ccs: ccsB.Bytes(),
		Pk:  pkb.Bytes(),
		Vk:  vkb.Bytes(),
	}
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("error encoding compiled circuit: %v", err)
	}

	err := os.WriteFile(filepath, buf.Bytes(), 0644)
	if err != nil {
		return fmt.Errorf("error writing compiled circuit to file: %v", err)
	}

	return nil
}

// DeserializeCompiledCircuit deserializes a compiled circuit from file
func DeserializeCompiledCircuit(filepath string) (*bg.CompiledCircuit, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("error reading compiled circuit file: %v", err)
	}

	var c CompiledCircuitBytes
	dec := gob.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("error decoding compiled circuit: %v", err)
	}

	cc := &bg.CompiledCircuit{
		Ccs: groth16.NewCS(ecc.BN254),
		Pk:  groth16.NewProvingKey(ecc.BN254),
		Vk:  groth16.NewVerifyingKey(ecc.BN254),
	}
	ccsReader := bytes.NewReader(c.Ccs)
	pkReader := bytes.NewReader(c.Pk)
	vkReader := bytes.NewReader(c.Vk)

	if _, err := cc.Ccs.ReadFrom(ccsReader); err != nil {
		return nil, fmt.Errorf("error reading CCS data: %v", err)
	}
	if _, err := cc.Pk.ReadFrom(pkReader); err != nil {
		return nil, fmt.Errorf("error reading PK data: %v", err)
	}
	if _, err := cc.Vk.ReadFrom(vkReader); err != nil {
		return nil, fmt.Errorf("error reading VK data: %v", err)
	}

	return cc, nil
}
