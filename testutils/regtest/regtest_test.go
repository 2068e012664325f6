package regtest

import (
	"strings"
	"testing"
)

func TestConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	want := DefaultConfig()
	want.MinerAddress = "bcrt1qw508d6qejxtdg4y5r3zarvary0c5xw7kygt080"
	if err := WriteConfig(want, dir); err != nil {
		t.Fatalf("error writing configuration: %v", err)
	}
	got, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("error loading configuration: %v", err)
	}
	if got != want {
		t.Fatalf("configuration changed across the round trip:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestMissingConfigPointsAtSetup(t *testing.T) {
	_, err := LoadConfig(t.TempDir())
	if err == nil {
		t.Fatal("expected an error for a missing configuration")
	}
	if !strings.Contains(err.Error(), "run the regtest setup first") {
		t.Fatalf("error does not tell the operator to run setup: %v", err)
	}
}
