package persistence

import (
	"path/filepath"
	"testing"
	"time"
)

func TestSaveAndLoadHourlyStats(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	runID, err := db.SaveRun(RunRecord{
		StartedAt:        time.Unix(0, 0),
		SimulationMode:   "dual",
		InitialNumAgents: 200,
		FramesPerHour:    30,
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := db.SaveHourlyStats(HourlyStats{
		RunID: runID, Year: 0, Day: 1, Hour: 5,
		Susceptible: 90, Exposed: 5, Infected: 3, Recovered: 2,
		Homeless: 1, Unemployed: 2, TotalValue: 10000, Gini: 0.3,
	}); err != nil {
		t.Fatal(err)
	}

	rows, err := db.LoadHourlyStats(runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Infected != 3 {
		t.Fatalf("expected infected=3, got %d", rows[0].Infected)
	}
}

func TestSaveAndLoadEvents(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	runID, err := db.SaveRun(RunRecord{StartedAt: time.Unix(0, 0), SimulationMode: "pandemic", InitialNumAgents: 50, FramesPerHour: 15})
	if err != nil {
		t.Fatal(err)
	}
	if err := db.SaveEvent(Event{RunID: runID, Year: 0, Day: 2, Hour: 3, Kind: "bankruptcy", Detail: "WORK#4"}); err != nil {
		t.Fatal(err)
	}
	events, err := db.LoadEvents(runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Kind != "bankruptcy" {
		t.Fatalf("unexpected events: %+v", events)
	}
}
