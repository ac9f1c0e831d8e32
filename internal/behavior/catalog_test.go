package behavior

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/townsim/townsim/internal/town"
)

func writeChart(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadCatalogValid(t *testing.T) {
	dir := t.TempDir()
	writeChart(t, dir, "adult_worker.json", `{
		"Probability": 3,
		"0": "Home",
		"8": "Work",
		"18": {"Home": 70, "Leisure": 30}
	}`)
	writeChart(t, dir, "child_student.json", `{
		"Probability": 1,
		"0": "Home",
		"8": "School",
		"15": "No Change"
	}`)

	cat, err := LoadCatalog(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cat.Adult) != 1 || len(cat.Child) != 1 {
		t.Fatalf("expected one adult and one child chart, got %d/%d", len(cat.Adult), len(cat.Child))
	}

	class, noChange := cat.Adult[0].AssignmentAt(8)
	if noChange || class != town.WORK {
		t.Fatalf("expected WORK at hour 8, got %v noChange=%v", class, noChange)
	}
	if _, noChange := cat.Child[0].AssignmentAt(15); !noChange {
		t.Fatal("expected explicit No Change to resolve to NO_CHANGE")
	}
	if _, noChange := cat.Child[0].AssignmentAt(3); !noChange {
		t.Fatal("expected missing hour to resolve to NO_CHANGE")
	}
}

func TestLoadCatalogMissingHourZero(t *testing.T) {
	dir := t.TempDir()
	writeChart(t, dir, "adult_bad.json", `{"Probability": 1, "8": "Work"}`)
	writeChart(t, dir, "child_ok.json", `{"Probability": 1, "0": "Home"}`)

	_, err := LoadCatalog(dir)
	if err == nil {
		t.Fatal("expected CatalogInvalidError for missing hour 0")
	}
	var invalid *CatalogInvalidError
	if !isCatalogInvalid(err, &invalid) {
		t.Fatalf("expected CatalogInvalidError, got %T: %v", err, err)
	}
}

func TestLoadCatalogUnknownLabel(t *testing.T) {
	dir := t.TempDir()
	writeChart(t, dir, "adult_bad.json", `{"Probability": 1, "0": "Park"}`)
	writeChart(t, dir, "child_ok.json", `{"Probability": 1, "0": "Home"}`)

	_, err := LoadCatalog(dir)
	if err == nil {
		t.Fatal("expected CatalogInvalidError for unknown destination label")
	}
}

func TestSampleDistribution(t *testing.T) {
	dir := t.TempDir()
	writeChart(t, dir, "adult_heavy.json", `{"Probability": 9, "0": "Home"}`)
	writeChart(t, dir, "adult_light.json", `{"Probability": 1, "0": "Work"}`)
	writeChart(t, dir, "child_only.json", `{"Probability": 1, "0": "Home"}`)

	cat, err := LoadCatalog(dir)
	if err != nil {
		t.Fatal(err)
	}
	counts := map[string]int{}
	const n = 20000
	for i := 0; i < n; i++ {
		counts[cat.Sample(true).Name]++
	}
	heavyFrac := float64(counts["adult_heavy.json"]) / n
	if heavyFrac < 0.8 || heavyFrac > 0.95 {
		t.Fatalf("expected ~0.9 selection frequency for heavy chart, got %v", heavyFrac)
	}
}

func isCatalogInvalid(err error, target **CatalogInvalidError) bool {
	if ci, ok := err.(*CatalogInvalidError); ok {
		*target = ci
		return true
	}
	return false
}
