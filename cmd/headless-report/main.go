package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/Garsondee/Light-Cycles/internal/config"
	"github.com/Garsondee/Light-Cycles/internal/logging"
	"github.com/Garsondee/Light-Cycles/internal/sim"
)

type runStats struct {
	runIndex int
	seed     int64

	firstCollisionTick int
	firstCrashTick     int
	lastCrashTick      int

	turns      int
	collisions int
	crashes    int
	respawns   int

	total     int
	survivors int

	windowSummary *sim.WindowReport
	grades        []sim.CycleGrade
}

func main() {
	var configDir string
	flag.StringVar(&configDir, "config", ".", "directory holding "+config.FileName)

	// The config file supplies the flag defaults, so it is read up front.
	if dir := lookupConfigDir(os.Args[1:]); dir != "" {
		configDir = dir
	}
	if err := config.Load(configDir); err != nil {
		fmt.Println("error:", err)
		return
	}

	var runs int
	var ticks int
	var every int
	var cycles int
	var seedBase int64
	var seedStep int64
	var respawn bool
	var broadphase string

	flag.IntVar(&runs, "runs", config.GetInt("report.runs"), "number of headless simulation runs")
	flag.IntVar(&ticks, "ticks", config.GetInt("report.ticks"), "ticks per run")
	flag.IntVar(&every, "every", config.GetInt("report.every"), "ticks between arena samples")
	flag.IntVar(&cycles, "cycles", config.GetInt("ai.opponents")+1, "AI cycles per run")
	flag.Int64Var(&seedBase, "seed-base", config.GetInt64("seed"), "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.BoolVar(&respawn, "respawn", false, "respawn collapsed cycles")
	flag.StringVar(&broadphase, "broadphase", config.GetString("collision.broadphase"), "collision broadphase (scan|rtree)")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}
	if cycles <= 0 {
		fmt.Println("error: -cycles must be > 0")
		return
	}
	if !validBroadphase(broadphase) {
		fmt.Printf("error: unsupported broadphase %q (supported: %s, %s)\n", broadphase, sim.BroadphaseScan, sim.BroadphaseRTree)
		return
	}

	tuning, err := config.Tuning()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	tuning.Broadphase = broadphase

	log := logging.New(os.Stderr, nil, config.GetString("logLevel"))
	log.Debug().Int("runs", runs).Int("ticks", ticks).Str("broadphase", broadphase).Msg("headless report starting")

	fmt.Printf("=== Headless Arena Report ===\n")
	fmt.Printf("cycles=%d runs=%d ticks=%d seed_base=%d seed_step=%d respawn=%t broadphase=%s\n\n",
		cycles, runs, ticks, seedBase, seedStep, respawn, broadphase)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats, err := runFreeForAll(i+1, seed, ticks, every, cycles, respawn, tuning)
		if err != nil {
			log.Error().Err(err).Int("run", i+1).Int64("seed", seed).Msg("run aborted")
			fmt.Printf("error: run %d: %v\n", i+1, err)
			return
		}
		all = append(all, stats)
		printRun(stats)
	}

	printAggregate(all)
}

func validBroadphase(name string) bool {
	return name == sim.BroadphaseScan || name == sim.BroadphaseRTree
}

// lookupConfigDir finds -config ahead of flag.Parse.
func lookupConfigDir(args []string) string {
	for i, a := range args {
		name, value, hasValue := strings.Cut(strings.TrimLeft(a, "-"), "=")
		if name != "config" || !strings.HasPrefix(a, "-") {
			continue
		}
		if hasValue {
			return value
		}
		if i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func runFreeForAll(runIndex int, seed int64, ticks, every, cycles int, respawn bool, tuning sim.Tuning) (runStats, error) {
	ids := make([]int, cycles)
	for i := range ids {
		ids[i] = i + 1
	}
	opts := []sim.SimOption{
		sim.WithRunSeed(seed),
		sim.WithTuning(func(t *sim.Tuning) { *t = tuning }),
		sim.WithReportEvery(every),
		sim.WithRandomAI(ids...),
	}
	if respawn {
		opts = append(opts, sim.WithAutoRespawn())
	}
	ts := sim.NewTestSim(opts...)
	ts.RunTicks(ticks)
	if ts.Err != nil {
		return runStats{}, ts.Err
	}

	crashes := ts.SimLog.Filter(sim.EventCrash)
	grades := ts.Grades()
	total, survivors := survivalCounts(grades)

	rs := runStats{
		runIndex:           runIndex,
		seed:               seed,
		firstCollisionTick: firstTick(ts.SimLog.Entries(), sim.EventCollision),
		firstCrashTick:     firstTick(crashes, sim.EventCrash),
		lastCrashTick:      -1,
		turns:              ts.SimLog.Count(sim.EventTurn, -1),
		collisions:         ts.SimLog.Count(sim.EventCollision, -1),
		crashes:            len(crashes),
		respawns:           ts.SimLog.Count(sim.EventSpawn, -1) - cycles,
		total:              total,
		survivors:          survivors,
		windowSummary:      ts.Reporter.WindowSummary(),
		grades:             grades,
	}
	if len(crashes) > 0 {
		rs.lastCrashTick = crashes[len(crashes)-1].Tick
	}
	return rs, nil
}

func firstTick(entries []sim.Event, kind sim.EventKind) int {
	for _, e := range entries {
		if e.Kind == kind {
			return e.Tick
		}
	}
	return -1
}

func survivalCounts(grades []sim.CycleGrade) (total, survivors int) {
	for _, g := range grades {
		total++
		if g.Survived {
			survivors++
		}
	}
	return total, survivors
}

// classifyRun labels how a run ended.
func classifyRun(rs runStats) (string, string) {
	switch {
	case rs.total == 0:
		return "empty", "no cycles graded"
	case rs.crashes == 0:
		return "no_attrition", fmt.Sprintf("all %d cycles ran clean", rs.total)
	case rs.survivors == 0:
		return "wipeout", fmt.Sprintf("last crash at T=%d", rs.lastCrashTick)
	case rs.survivors == 1:
		for _, g := range rs.grades {
			if g.Survived {
				return "last_standing", g.Name
			}
		}
	}
	return "open", fmt.Sprintf("%d/%d still riding", rs.survivors, rs.total)
}

func printRun(rs runStats) {
	outcome, reason := classifyRun(rs)
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("outcome: %s (%s)\n", outcome, reason)
	fmt.Printf("phase_markers: first_collision=%d first_crash=%d last_crash=%d\n",
		rs.firstCollisionTick, rs.firstCrashTick, rs.lastCrashTick)
	fmt.Printf("event_totals: turn=%d collision=%d crash=%d respawn=%d survivors=%d/%d\n",
		rs.turns, rs.collisions, rs.crashes, rs.respawns, rs.survivors, rs.total)
	if rs.windowSummary != nil {
		fmt.Printf("window_samples=%d window_tick_range=%d..%d\n",
			rs.windowSummary.SampleCount, rs.windowSummary.FromTick, rs.windowSummary.ToTick)
		fmt.Printf("window_avg: alive=%.1f colliding=%.1f wall_accel=%.1f speed=%.2f rubber=%.2f peak_trail=%.0f\n",
			rs.windowSummary.AvgAlive,
			rs.windowSummary.AvgColliding,
			rs.windowSummary.AvgWallAccel,
			rs.windowSummary.AvgSpeed,
			rs.windowSummary.AvgRubber,
			rs.windowSummary.PeakLength,
		)
	}
	fmt.Print(sim.FormatGrades(rs.grades))
	fmt.Println()
}

func printAggregate(all []runStats) {
	totalTurns := 0
	totalCollisions := 0
	totalCrashes := 0
	totalRespawns := 0
	crashTicks := make([]int, 0, len(all))
	outcomes := map[string]int{}

	type cycleAgg struct {
		distSum  float64
		count    int
		survived int
		crashes  int
	}
	cycleAggs := map[string]*cycleAgg{}

	for _, rs := range all {
		totalTurns += rs.turns
		totalCollisions += rs.collisions
		totalCrashes += rs.crashes
		totalRespawns += rs.respawns
		if rs.firstCrashTick >= 0 {
			crashTicks = append(crashTicks, rs.firstCrashTick)
		}
		outcome, _ := classifyRun(rs)
		outcomes[outcome]++

		for _, g := range rs.grades {
			ag, ok := cycleAggs[g.Name]
			if !ok {
				ag = &cycleAgg{}
				cycleAggs[g.Name] = ag
			}
			ag.distSum += g.Distance
			ag.count++
			ag.crashes += g.Crashes
			if g.Survived {
				ag.survived++
			}
		}
	}

	fmt.Println("=== Aggregate Arena Stats ===")
	fmt.Printf("runs=%d\n", len(all))
	fmt.Printf("avg_events_per_run: turn=%.1f collision=%.1f crash=%.1f respawn=%.1f\n",
		avg(totalTurns, len(all)), avg(totalCollisions, len(all)), avg(totalCrashes, len(all)), avg(totalRespawns, len(all)))
	fmt.Printf("phase_marker_avg_ticks: first_crash=%s\n", avgTickString(crashTicks))
	fmt.Printf("outcomes: %s\n", joinCounts(outcomes))

	fmt.Println("\n=== Aggregate Cycle Performance ===")
	names := make([]string, 0, len(cycleAggs))
	for name := range cycleAggs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		ag := cycleAggs[name]
		fmt.Printf("  %-4s avg_dist=%.0f  survival=%.0f%%  crashes=%d\n",
			name, ag.distSum/float64(ag.count), float64(ag.survived)/float64(ag.count)*100, ag.crashes)
	}
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func joinCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, counts[k])
	}
	return strings.Join(parts, " ")
}
