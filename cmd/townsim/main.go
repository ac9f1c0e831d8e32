// Command townsim runs the headless synthetic-town simulator.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/townsim/townsim/internal/api"
	"github.com/townsim/townsim/internal/behavior"
	"github.com/townsim/townsim/internal/engine"
	"github.com/townsim/townsim/internal/entropy"
	"github.com/townsim/townsim/internal/persistence"
	"github.com/townsim/townsim/internal/policy"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	fs := flag.NewFlagSet("townsim", flag.ExitOnError)
	modeFlag := fs.String("mode", "dual", "simple, economic, pandemic, or dual")
	rewardFlag := fs.String("reward", "dual", "pandemic, economic, or dual")
	paceFlag := fs.String("pace", "60", "unpaced, 15, 30, or 60")
	agentsFlag := fs.Int("agents", 400, "initial agent count")
	locationsFlag := fs.Int("locations-per-region", 6, "locations generated per region")
	initialValueFlag := fs.Float64("initial-value", 1000, "starting agent/business value")
	lagFlag := fs.Int("lag-period", 3, "days before initial infection seeding")
	initialInfectedFlag := fs.Int("initial-infected", 5, "agents exposed at seeding/reintroduction")
	hospitalFlag := fs.Int("hospital-capacity", 40, "infected count above which overflow mortality applies")
	framesFlag := fs.Int("frames-per-hour", 60, "render frames per simulated hour")
	seedFlag := fs.Int64("seed", 42, "world generation seed")
	chartsFlag := fs.String("charts", "charts", "directory of behavior chart JSON descriptors")
	dbFlag := fs.String("db", "data/townsim.db", "sqlite database path")
	apiPortFlag := fs.Int("api-port", 8080, "HTTP API port")
	entropyFlag := fs.Bool("entropy", false, "let the simulation's entropy client use random.org instead of crypto/rand (no simulation draw reads from that client)")
	checkpointFlag := fs.String("load-checkpoint", "", "non-empty enables the policy collaborator, loaded from the rolling temp/temp.net checkpoint (the value is not read as a path); empty disables it")
	_ = fs.Parse(os.Args[1:])

	mode, ok := engine.ParseMode(*modeFlag)
	if !ok {
		slog.Error("invalid mode", "mode", *modeFlag)
		os.Exit(1)
	}
	rewardPolicy, ok := policy.ParseRewardPolicy(*rewardFlag)
	if !ok {
		slog.Error("invalid reward policy", "reward", *rewardFlag)
		os.Exit(1)
	}
	paceMode, ok := engine.ParsePaceMode(*paceFlag)
	if !ok {
		slog.Error("invalid pace", "pace", *paceFlag)
		os.Exit(1)
	}

	cat, err := behavior.LoadCatalog(*chartsFlag)
	if err != nil {
		slog.Error("failed to load behavior catalog", "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll("data", 0o755); err != nil {
		slog.Error("failed to create data directory", "error", err)
		os.Exit(1)
	}
	db, err := persistence.Open(*dbFlag)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	runID, err := db.SaveRun(persistence.RunRecord{
		StartedAt:        time.Now(),
		SimulationMode:   *modeFlag,
		InitialNumAgents: *agentsFlag,
		FramesPerHour:    *framesFlag,
	})
	if err != nil {
		slog.Error("failed to save run record", "error", err)
		os.Exit(1)
	}

	var collaborator policy.PolicyCollaborator
	if *checkpointFlag != "" {
		loaded, err := persistence.LoadTempCheckpoint()
		if err != nil {
			slog.Warn("failed to load policy checkpoint, running without a collaborator", "error", err)
		} else {
			collaborator = loaded
		}
	}

	ent := entropy.NewClient(*entropyFlag, logger)

	cfg := engine.Config{
		InitialNumAgents:      *agentsFlag,
		NumLocationsPerRegion: *locationsFlag,
		InitialValue:          *initialValueFlag,
		LagPeriod:             *lagFlag,
		InitialInfected:       *initialInfectedFlag,
		HospitalCapacity:      *hospitalFlag,
		FramesPerHour:         *framesFlag,
		Mode:                  mode,
		RewardPolicy:          rewardPolicy,
		Seed:                  *seedFlag,
	}

	sim, err := engine.New(cfg, cat, collaborator, ent, logger)
	if err != nil {
		slog.Error("failed to build simulation", "error", err)
		os.Exit(1)
	}

	eng := engine.NewEngine(sim, engine.NewPacer(paceMode), logger)
	eng.OnHour = func(s *engine.Simulation) {
		stats := s.Stats()
		if err := db.SaveHourlyStats(persistence.HourlyStats{
			RunID: runID, Year: stats.Year, Day: stats.Day, Hour: stats.Hour,
			Susceptible: stats.Susceptible, Exposed: stats.Exposed, Infected: stats.Infected, Recovered: stats.Recovered,
			Homeless: stats.Homeless, Unemployed: stats.Unemployed,
			TotalValue: stats.TotalValue, Gini: stats.Gini,
		}); err != nil {
			slog.Error("failed to save hourly stats", "error", err)
		}
	}

	apiServer := &api.Server{Sim: sim, Eng: eng, DB: db, Port: *apiPortFlag, RunID: runID}
	apiServer.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		eng.Pacer.Pause()
	}()

	fmt.Printf("townsim running: %d agents, mode=%s, API on :%d\n", *agentsFlag, *modeFlag, *apiPortFlag)
	eng.Run()
	fmt.Println("townsim stopped")
}
