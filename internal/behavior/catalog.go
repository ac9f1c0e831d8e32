package behavior

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/townsim/townsim/internal/town"
)

// CatalogInvalidError reports a behavior chart that is missing hour 0 or
// names an unknown destination label. It is fatal: the simulator refuses
// to start.
type CatalogInvalidError struct {
	File   string
	Reason string
}

func (e *CatalogInvalidError) Error() string {
	return fmt.Sprintf("behavior catalog: %s: %s", e.File, e.Reason)
}

// Catalog is the immutable, loaded-once set of adult and child behavior
// charts, each pool carrying a cumulative-weight table for O(log n)
// weighted selection.
type Catalog struct {
	Adult []*Chart
	Child []*Chart

	adultCumulative []float64
	childCumulative []float64
	adultTotal      float64
	childTotal      float64
}

// LoadCatalog reads every chart descriptor in dir. Files named
// "adult_*.json" populate the adult pool, "child_*.json" the child pool.
func LoadCatalog(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("behavior catalog: read dir %s: %w", dir, err)
	}

	cat := &Catalog{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		isAdult := strings.HasPrefix(name, "adult_")
		isChild := strings.HasPrefix(name, "child_")
		if !isAdult && !isChild {
			continue
		}
		path := filepath.Join(dir, name)
		chart, err := loadChart(path)
		if err != nil {
			return nil, err
		}
		if isAdult {
			cat.Adult = append(cat.Adult, chart)
		} else {
			cat.Child = append(cat.Child, chart)
		}
	}
	if len(cat.Adult) == 0 {
		return nil, &CatalogInvalidError{File: dir, Reason: "no adult_* charts found"}
	}
	if len(cat.Child) == 0 {
		return nil, &CatalogInvalidError{File: dir, Reason: "no child_* charts found"}
	}
	cat.rebuildCumulative()
	return cat, nil
}

type chartDescriptor map[string]json.RawMessage

func loadChart(path string) (*Chart, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("behavior catalog: read %s: %w", path, err)
	}
	var desc chartDescriptor
	if err := json.Unmarshal(raw, &desc); err != nil {
		return nil, &CatalogInvalidError{File: path, Reason: "invalid JSON: " + err.Error()}
	}

	chart := &Chart{Name: filepath.Base(path), Hours: make(map[int]*Assignment)}

	probRaw, ok := desc["Probability"]
	if !ok {
		return nil, &CatalogInvalidError{File: path, Reason: "missing Probability"}
	}
	if err := json.Unmarshal(probRaw, &chart.Weight); err != nil {
		return nil, &CatalogInvalidError{File: path, Reason: "invalid Probability: " + err.Error()}
	}

	for hour := 0; hour < 24; hour++ {
		key := strconv.Itoa(hour)
		hourRaw, present := desc[key]
		if !present {
			continue
		}
		assignment, err := parseAssignment(hourRaw)
		if err != nil {
			return nil, &CatalogInvalidError{File: path, Reason: fmt.Sprintf("hour %d: %v", hour, err)}
		}
		chart.Hours[hour] = assignment
	}

	if _, ok := chart.Hours[0]; !ok {
		return nil, &CatalogInvalidError{File: path, Reason: "missing required hour 0"}
	}
	return chart, nil
}

func parseAssignment(raw json.RawMessage) (*Assignment, error) {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		if single == "No Change" {
			return nil, nil
		}
		class, ok := town.ParseRegionClass(single)
		if !ok {
			return nil, fmt.Errorf("unknown destination label %q", single)
		}
		return &Assignment{Single: &class}, nil
	}

	var weighted map[string]float64
	if err := json.Unmarshal(raw, &weighted); err != nil {
		return nil, fmt.Errorf("assignment is neither a label nor a weight map: %w", err)
	}
	weights := make(map[town.RegionClass]float64, len(weighted))
	for label, w := range weighted {
		class, ok := town.ParseRegionClass(label)
		if !ok {
			return nil, fmt.Errorf("unknown destination label %q", label)
		}
		weights[class] = w
	}
	return &Assignment{Weights: weights}, nil
}

func (c *Catalog) rebuildCumulative() {
	c.adultCumulative, c.adultTotal = cumulativeWeights(c.Adult)
	c.childCumulative, c.childTotal = cumulativeWeights(c.Child)
}

func cumulativeWeights(charts []*Chart) ([]float64, float64) {
	cumulative := make([]float64, len(charts))
	total := 0.0
	for i, chart := range charts {
		total += chart.Weight
		cumulative[i] = total
	}
	return cumulative, total
}

// Sample draws a chart from the adult pool if isAdult, else the child pool,
// weighted by each chart's selection weight. Draw a uniform value in
// [0, total_weight) and return the first chart whose cumulative weight
// exceeds it.
func (c *Catalog) Sample(isAdult bool) *Chart {
	charts, cumulative, total := c.Child, c.childCumulative, c.childTotal
	if isAdult {
		charts, cumulative, total = c.Adult, c.adultCumulative, c.adultTotal
	}
	if len(charts) == 0 {
		return nil
	}
	draw := rand.Float64() * total
	lo, hi := 0, len(cumulative)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if cumulative[mid] > draw {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return charts[lo]
}
