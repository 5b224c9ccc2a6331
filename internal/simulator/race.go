package simulator

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/OldStager01/f1-predictor/pkg/models"
)

// RaceConfig controls one generated session.
type RaceConfig struct {
	Laps      int
	Seed      int64
	Condition Condition
}

// stint is one tyre run; the compound applies from startLap until the next
// stint begins. The first lap of a non-opening stint carries pit loss.
type stint struct {
	startLap int
	compound string
}

// GenerateRace produces a full race session: per-lap telemetry for the whole
// grid plus the final classification. The same seed, season and event always
// produce the same session.
func GenerateRace(season int, event string, cfg RaceConfig) *models.Session {
	if cfg.Laps <= 0 {
		cfg.Laps = 52
	}
	if cfg.Condition == nil {
		cfg.Condition = ConditionDry
	}

	rng := rand.New(rand.NewSource(raceSeed(cfg.Seed, season, event)))

	// Track character: roughly 82-94 second laps.
	basePace := 82.0 + rng.Float64()*12.0

	type driverRun struct {
		entry     rosterEntry
		stints    []stint
		retiresAt int
		total     float64
		best      float64
	}

	runs := make([]*driverRun, len(roster))
	for i, entry := range roster {
		runs[i] = &driverRun{
			entry:  entry,
			stints: planStints(rng, cfg.Laps),
			best:   math.MaxFloat64,
		}
	}

	// Up to two retirements keep the classification sheet shorter than the
	// lap sheet, so the merge path with unclassified laps stays exercised.
	for _, idx := range rng.Perm(len(runs))[:rng.Intn(3)] {
		runs[idx].retiresAt = cfg.Laps/4 + rng.Intn(cfg.Laps/2)
	}

	var laps []models.Lap
	for _, run := range runs {
		clock := 0.0

		for lap := 1; lap <= cfg.Laps; lap++ {
			if run.retiresAt > 0 && lap > run.retiresAt {
				break
			}

			compound, pitting := stintAt(run.stints, lap)

			pace := cfg.Condition.Apply(lap, cfg.Laps, basePace)
			pace += teamPace[run.entry.team] + run.entry.pace
			pace += compoundOffset(compound)
			pace += 0.035 * float64(lapsIntoStint(run.stints, lap))
			pace -= 0.018 * float64(lap)
			pace += (rng.Float64() - 0.5) * 0.7
			if pitting {
				pace += 19.0 + rng.Float64()*4.0
			}

			s1 := pace * (0.305 + (rng.Float64()-0.5)*0.01)
			s2 := pace * (0.345 + (rng.Float64()-0.5)*0.01)
			s3 := pace - s1 - s2

			personalBest := false
			if !pitting && pace < run.best {
				run.best = pace
				personalBest = true
			}

			clock += pace
			run.total += pace

			row := models.Lap{
				Season:         season,
				Event:          event,
				Time:           f64(clock),
				Driver:         run.entry.code,
				DriverNumber:   run.entry.number,
				Team:           run.entry.team,
				LapNumber:      lap,
				LapTime:        f64(pace),
				Sector1Time:    f64(s1),
				Sector2Time:    f64(s2),
				Sector3Time:    f64(s3),
				Compound:       strPtr(compound),
				IsPersonalBest: boolPtr(personalBest),
			}

			// Timing dropouts: occasionally a sector or compound reading
			// is lost, which downstream imputation has to absorb.
			if rng.Float64() < 0.025 {
				switch rng.Intn(3) {
				case 0:
					row.Sector1Time = nil
				case 1:
					row.Sector2Time = nil
				default:
					row.Sector3Time = nil
				}
			}
			if rng.Float64() < 0.012 {
				row.Compound = nil
			}

			laps = append(laps, row)
		}
	}

	// Timing-feed order: by lap, then by elapsed time within the lap.
	sort.SliceStable(laps, func(i, j int) bool {
		if laps[i].LapNumber != laps[j].LapNumber {
			return laps[i].LapNumber < laps[j].LapNumber
		}
		return *laps[i].Time < *laps[j].Time
	})

	finishers := make([]*driverRun, 0, len(runs))
	for _, run := range runs {
		if run.retiresAt == 0 {
			finishers = append(finishers, run)
		}
	}
	sort.Slice(finishers, func(i, j int) bool {
		return finishers[i].total < finishers[j].total
	})

	results := make([]models.Result, len(finishers))
	for i, run := range finishers {
		points := 0.0
		if i < len(racePoints) {
			points = racePoints[i]
		}
		results[i] = models.Result{
			DriverNumber: run.entry.number,
			Driver:       run.entry.code,
			Position:     i + 1,
			Points:       points,
		}
	}

	return &models.Session{
		Season:      season,
		Event:       event,
		Type:        models.SessionTypeRace,
		Laps:        laps,
		Results:     results,
		CollectedAt: time.Now(),
	}
}

// planStints picks a one-stop or two-stop strategy with jittered windows.
func planStints(rng *rand.Rand, laps int) []stint {
	jitter := func(at float64) int {
		lap := int(float64(laps)*at) + rng.Intn(7) - 3
		if lap < 2 {
			lap = 2
		}
		if lap > laps {
			lap = laps
		}
		return lap
	}

	if rng.Float64() < 0.45 {
		return []stint{
			{1, "MEDIUM"},
			{jitter(0.55), "HARD"},
		}
	}

	plans := [][3]string{
		{"SOFT", "MEDIUM", "HARD"},
		{"SOFT", "HARD", "MEDIUM"},
		{"MEDIUM", "HARD", "SOFT"},
	}
	plan := plans[rng.Intn(len(plans))]
	return []stint{
		{1, plan[0]},
		{jitter(0.3), plan[1]},
		{jitter(0.65), plan[2]},
	}
}

func stintAt(stints []stint, lap int) (compound string, pitting bool) {
	current := stints[0]
	for _, s := range stints[1:] {
		if lap >= s.startLap {
			current = s
		}
	}
	return current.compound, lap == current.startLap && current.startLap > 1
}

func lapsIntoStint(stints []stint, lap int) int {
	start := stints[0].startLap
	for _, s := range stints[1:] {
		if lap >= s.startLap {
			start = s.startLap
		}
	}
	return lap - start
}

func raceSeed(seed int64, season int, event string) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d|%s", season, event)
	return seed ^ int64(h.Sum64())
}

func f64(v float64) *float64 { return &v }

func strPtr(v string) *string { return &v }

func boolPtr(v bool) *bool { return &v }
