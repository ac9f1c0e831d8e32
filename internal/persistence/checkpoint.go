package persistence

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/townsim/townsim/internal/policy"
	"gonum.org/v1/gonum/mat"
)

// checkpointPayload is the on-disk representation of a
// LinearPolicyCollaborator: gonum's Dense/VecDense don't gob-encode
// directly, so weights travel as flat slices plus shape.
type checkpointPayload struct {
	WeightRows, WeightCols int
	Weights                []float64
	Bias                   []float64
	LearningRate           float64
}

// networkPath builds <cwd>/networks/<rewardPolicy>/<subkind>/<episode>.net.
func networkPath(rewardPolicy, subkind string, episode int) string {
	return filepath.Join("networks", rewardPolicy, subkind, fmt.Sprintf("%d.net", episode))
}

// tempPath builds the single rolling temporary checkpoint path.
func tempPath() string {
	return filepath.Join("temp", "temp.net")
}

// SaveCheckpoint writes a named episode checkpoint for a reward policy and
// subkind (e.g. a training variant label).
func SaveCheckpoint(c *policy.LinearPolicyCollaborator, rewardPolicy, subkind string, episode int) error {
	return saveTo(c, networkPath(rewardPolicy, subkind, episode))
}

// SaveTempCheckpoint overwrites the single rolling temporary checkpoint.
func SaveTempCheckpoint(c *policy.LinearPolicyCollaborator) error {
	return saveTo(c, tempPath())
}

func saveTo(c *policy.LinearPolicyCollaborator, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("persistence: mkdir for checkpoint: %w", err)
	}
	rows, cols := c.Weights.Dims()
	payload := checkpointPayload{
		WeightRows:   rows,
		WeightCols:   cols,
		Weights:      append([]float64(nil), c.Weights.RawMatrix().Data...),
		Bias:         append([]float64(nil), c.Bias.RawVector().Data...),
		LearningRate: c.LearningRate,
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("persistence: create checkpoint %s: %w", path, err)
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(payload); err != nil {
		return fmt.Errorf("persistence: encode checkpoint %s: %w", path, err)
	}
	return nil
}

// LoadCheckpoint reads a named episode checkpoint back into a fresh
// LinearPolicyCollaborator.
func LoadCheckpoint(rewardPolicy, subkind string, episode int) (*policy.LinearPolicyCollaborator, error) {
	return loadFrom(networkPath(rewardPolicy, subkind, episode))
}

// LoadTempCheckpoint reads the rolling temporary checkpoint.
func LoadTempCheckpoint() (*policy.LinearPolicyCollaborator, error) {
	return loadFrom(tempPath())
}

func loadFrom(path string) (*policy.LinearPolicyCollaborator, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("persistence: open checkpoint %s: %w", path, err)
	}
	defer f.Close()
	var payload checkpointPayload
	if err := gob.NewDecoder(f).Decode(&payload); err != nil {
		return nil, fmt.Errorf("persistence: decode checkpoint %s: %w", path, err)
	}
	return &policy.LinearPolicyCollaborator{
		Weights:      mat.NewDense(payload.WeightRows, payload.WeightCols, payload.Weights),
		Bias:         mat.NewVecDense(len(payload.Bias), payload.Bias),
		LearningRate: payload.LearningRate,
	}, nil
}
