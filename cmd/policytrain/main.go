// Command policytrain runs REINFORCE training episodes for a
// LinearPolicyCollaborator against the dual-mode coupled simulation,
// checkpointing progress to disk.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/townsim/townsim/internal/behavior"
	"github.com/townsim/townsim/internal/engine"
	"github.com/townsim/townsim/internal/entropy"
	"github.com/townsim/townsim/internal/persistence"
	"github.com/townsim/townsim/internal/policy"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	fs := flag.NewFlagSet("policytrain", flag.ExitOnError)
	rewardFlag := fs.String("reward", "dual", "pandemic, economic, or dual")
	subkindFlag := fs.String("subkind", "baseline", "checkpoint subdirectory name")
	episodesFlag := fs.Int("episodes", 200, "number of training episodes")
	episodeLengthFlag := fs.Int("episode-length", 24*30, "simulated hours per episode")
	agentsFlag := fs.Int("agents", 200, "initial agent count per episode")
	locationsFlag := fs.Int("locations-per-region", 5, "locations generated per region")
	chartsFlag := fs.String("charts", "charts", "directory of behavior chart JSON descriptors")
	checkpointEveryFlag := fs.Int("checkpoint-every", 10, "episodes between numbered checkpoints")
	seedFlag := fs.Int64("seed", 1, "base world generation seed; bumped by episode index")
	_ = fs.Parse(os.Args[1:])

	rewardPolicy, ok := policy.ParseRewardPolicy(*rewardFlag)
	if !ok {
		slog.Error("invalid reward policy", "reward", *rewardFlag)
		os.Exit(1)
	}

	cat, err := behavior.LoadCatalog(*chartsFlag)
	if err != nil {
		slog.Error("failed to load behavior catalog", "error", err)
		os.Exit(1)
	}

	collaborator := policy.NewLinearPolicyCollaborator()
	collaborator.Explore = true

	ent := entropy.NewClient(false, logger)

	for episode := 0; episode < *episodesFlag; episode++ {
		cfg := engine.Config{
			InitialNumAgents:      *agentsFlag,
			NumLocationsPerRegion: *locationsFlag,
			InitialValue:          1000,
			LagPeriod:             3,
			InitialInfected:       5,
			HospitalCapacity:      30,
			FramesPerHour:         1,
			Mode:                  engine.ModeDual,
			RewardPolicy:          rewardPolicy,
			Seed:                  *seedFlag + int64(episode),
		}

		sim, err := engine.New(cfg, cat, collaborator, ent, logger)
		if err != nil {
			slog.Error("failed to build episode simulation", "episode", episode, "error", err)
			os.Exit(1)
		}

		eng := engine.NewEngine(sim, engine.NewPacer(engine.PaceUnpaced), logger)
		eng.OnHour = func(s *engine.Simulation) {
			collaborator.Step(s.LastState(), s.Flags, s.LastReward())
		}

		for hour := 0; hour < *episodeLengthFlag; hour++ {
			eng.Tick()
		}

		finalStats := sim.Stats()
		slog.Info("episode complete",
			"episode", episode,
			"infected", finalStats.Infected,
			"homeless", finalStats.Homeless,
			"unemployed", finalStats.Unemployed,
			"total_value", finalStats.TotalValue,
		)

		if err := persistence.SaveTempCheckpoint(collaborator); err != nil {
			slog.Error("failed to save temp checkpoint", "error", err)
		}
		if *checkpointEveryFlag > 0 && episode%*checkpointEveryFlag == 0 {
			if err := persistence.SaveCheckpoint(collaborator, *rewardFlag, *subkindFlag, episode); err != nil {
				slog.Error("failed to save numbered checkpoint", "episode", episode, "error", err)
			}
		}
	}

	slog.Info("training complete", "episodes", *episodesFlag)
}
