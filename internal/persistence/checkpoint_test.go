package persistence

import (
	"os"
	"testing"

	"github.com/townsim/townsim/internal/policy"
)

func TestCheckpointRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(cwd)

	c := policy.NewLinearPolicyCollaborator()
	c.Weights.Set(0, 0, 4.2)

	if err := SaveCheckpoint(c, "dual", "baseline", 3); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadCheckpoint("dual", "baseline", 3)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Weights.At(0, 0) != 4.2 {
		t.Fatalf("expected restored weight 4.2, got %v", loaded.Weights.At(0, 0))
	}
}

func TestTempCheckpointRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(cwd)

	c := policy.NewLinearPolicyCollaborator()
	if err := SaveTempCheckpoint(c); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTempCheckpoint(); err != nil {
		t.Fatal(err)
	}
}
