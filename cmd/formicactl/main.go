package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"formica/internal/platform"
	"formica/internal/stats"
	"formica/internal/storage"
	formicaapi "formica/pkg/formica"
)

const (
	benchmarksDir = "benchmarks"
	exportsDir    = "exports"
	defaultDBPath = "formica.db"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "init":
		return runInit(ctx, args[1:])
	case "reset":
		return runReset(ctx, args[1:])
	case "run":
		return runRun(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "history":
		return runHistory(ctx, args[1:])
	case "diagnostics":
		return runDiagnostics(ctx, args[1:])
	case "objectives":
		return runObjectives(ctx, args[1:])
	case "plot":
		return runPlot(ctx, args[1:])
	case "export":
		return runExport(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func runInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := storage.NewStore(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = storage.CloseIfSupported(store)
	}()

	lab := platform.NewLab(platform.Config{Store: store})
	if err := lab.Init(ctx); err != nil {
		return err
	}

	fmt.Printf("initialized store=%s\n", *storeKind)
	return nil
}

func runReset(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := storage.NewStore(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = storage.CloseIfSupported(store)
	}()

	lab := platform.NewLab(platform.Config{Store: store})
	if err := lab.Reset(ctx); err != nil {
		return err
	}

	fmt.Printf("reset store=%s\n", *storeKind)
	return nil
}

func runRun(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	configPath := fs.String("config", "", "optional run config JSON path")
	runID := fs.String("run-id", "", "explicit run id (optional)")
	objectiveName := fs.String("objective", "ackley", "objective surface name")
	ants := fs.Int("ants", 30, "ant count per iteration")
	iterations := fs.Int("iterations", 100, "iteration count")
	antSteps := fs.Int("ant-steps", 20, "transition steps per ant walk")
	gridSteps := fs.Int("grid-steps", 100, "grid resolution per axis")
	alpha := fs.Float64("alpha", 1, "pheromone influence exponent")
	beta := fs.Float64("beta", 2, "heuristic influence exponent")
	evaporation := fs.Float64("evaporation", 0.1, "pheromone evaporation rate in (0,1)")
	pheromone := fs.Float64("pheromone", 1, "initial pheromone level")
	depositFactor := fs.Float64("q", 100, "deposit factor Q")
	lowerBound := fs.Float64("lo", 0, "domain lower bound (0 with -hi 0 uses objective default)")
	upperBound := fs.Float64("hi", 0, "domain upper bound (0 with -lo 0 uses objective default)")
	seed := fs.Int64("seed", 1, "rng seed")
	workers := fs.Int("workers", 4, "worker count")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	quiet := fs.Bool("quiet", false, "suppress per-iteration progress output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	setFlags := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		setFlags[f.Name] = true
	})

	var req formicaapi.RunRequest
	if *configPath != "" {
		loaded, err := loadRunRequestFromConfig(*configPath)
		if err != nil {
			return err
		}
		req = loaded
		overrideFromFlags(&req, setFlags, map[string]any{
			"run-id":      *runID,
			"objective":   *objectiveName,
			"ants":        *ants,
			"iterations":  *iterations,
			"ant-steps":   antSteps,
			"grid-steps":  *gridSteps,
			"alpha":       alpha,
			"beta":        beta,
			"evaporation": evaporation,
			"pheromone":   *pheromone,
			"q":           *depositFactor,
			"lo":          *lowerBound,
			"hi":          *upperBound,
			"seed":        *seed,
			"workers":     *workers,
		})
	} else {
		req = formicaapi.RunRequest{
			RunID:            *runID,
			Objective:        *objectiveName,
			Ants:             *ants,
			Iterations:       *iterations,
			AntSteps:         antSteps,
			GridSteps:        *gridSteps,
			Alpha:            alpha,
			Beta:             beta,
			EvaporationRate:  evaporation,
			InitialPheromone: *pheromone,
			Q:                *depositFactor,
			LowerBound:       *lowerBound,
			UpperBound:       *upperBound,
			Seed:             *seed,
			Workers:          *workers,
		}
	}

	if !*quiet && isatty.IsTerminal(os.Stderr.Fd()) {
		req.Progress = func(iteration int, bestValue float64) {
			fmt.Fprintf(os.Stderr, "\riteration %d best %.6g", iteration, bestValue)
		}
	}

	client, err := formicaapi.New(formicaapi.Options{
		StoreKind:     *storeKind,
		DBPath:        *dbPath,
		BenchmarksDir: benchmarksDir,
		ExportsDir:    exportsDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Run(ctx, req)
	if req.Progress != nil {
		fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		return err
	}

	fmt.Printf("run %s finished\n", summary.RunID)
	fmt.Printf("best value %.6g at (%.6g, %.6g)\n", summary.Best.Value, summary.Best.X, summary.Best.Y)
	fmt.Printf("artifacts written to %s\n", summary.ArtifactsDir)
	return nil
}

func runRuns(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "max runs to list")
	jsonOut := fs.Bool("json", false, "emit runs list as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return errors.New("limit must be > 0")
	}

	entries, err := stats.ListRunIndex(benchmarksDir)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	if len(entries) > *limit {
		entries = entries[:*limit]
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	for _, e := range entries {
		age := e.CreatedAtUTC
		if created, err := time.Parse(time.RFC3339Nano, e.CreatedAtUTC); err == nil {
			age = humanize.Time(created)
		}
		fmt.Printf("%s  objective=%s ants=%d iterations=%d seed=%d best=%.6g  %s\n",
			e.RunID, e.Objective, e.Ants, e.Iterations, e.Seed, e.FinalBestValue, age)
	}
	return nil
}

func runHistory(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "use the most recent run")
	limit := fs.Int("limit", 0, "max entries to print (0 prints all)")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := formicaapi.New(formicaapi.Options{
		StoreKind:     *storeKind,
		DBPath:        *dbPath,
		BenchmarksDir: benchmarksDir,
		ExportsDir:    exportsDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	history, err := client.History(ctx, formicaapi.HistoryRequest{RunID: *runID, Latest: *latest, Limit: *limit})
	if err != nil {
		return err
	}
	for i, v := range history {
		fmt.Printf("%d\t%.6g\n", i, v)
	}
	return nil
}

func runDiagnostics(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("diagnostics", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "use the most recent run")
	limit := fs.Int("limit", 0, "max entries to print (0 prints all)")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	jsonOut := fs.Bool("json", false, "emit diagnostics as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := formicaapi.New(formicaapi.Options{
		StoreKind:     *storeKind,
		DBPath:        *dbPath,
		BenchmarksDir: benchmarksDir,
		ExportsDir:    exportsDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	diagnostics, err := client.Diagnostics(ctx, formicaapi.DiagnosticsRequest{RunID: *runID, Latest: *latest, Limit: *limit})
	if err != nil {
		return err
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(diagnostics)
	}
	for _, d := range diagnostics {
		fmt.Printf("iteration=%d best=%.6g iteration_best=%.6g mean=%.6g worst=%.6g pheromone=%.6g\n",
			d.Iteration, d.BestValue, d.IterationBestValue, d.MeanValue, d.WorstValue, d.PheromoneTotal)
	}
	return nil
}

func runObjectives(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("objectives", flag.ContinueOnError)
	name := fs.String("name", "", "print the summary of one objective")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := formicaapi.New(formicaapi.Options{
		StoreKind:     *storeKind,
		DBPath:        *dbPath,
		BenchmarksDir: benchmarksDir,
		ExportsDir:    exportsDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if *name != "" {
		summary, err := client.ObjectiveSummary(ctx, *name)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %s\n", summary.Name, summary.Description)
		fmt.Printf("runs=%d best=%.6g at (%.6g, %.6g)\n", summary.Runs, summary.Best.Value, summary.Best.X, summary.Best.Y)
		return nil
	}

	names, err := client.Objectives(ctx)
	if err != nil {
		return err
	}
	for _, n := range names {
		fmt.Println(n)
	}
	return nil
}

func runPlot(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("plot", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "use the most recent run")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := formicaapi.New(formicaapi.Options{
		StoreKind:     *storeKind,
		DBPath:        *dbPath,
		BenchmarksDir: benchmarksDir,
		ExportsDir:    exportsDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.RenderPlots(ctx, formicaapi.PlotRequest{RunID: *runID, Latest: *latest})
	if err != nil {
		return err
	}
	fmt.Printf("convergence plot %s\n", summary.ConvergencePath)
	fmt.Printf("surface plot %s\n", summary.SurfacePath)
	return nil
}

func runExport(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "export the most recent run from run index")
	outDir := fs.String("out", exportsDir, "export output directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID != "" && *latest {
		return errors.New("use either --run-id or --latest, not both")
	}
	if *runID == "" && !*latest {
		return errors.New("export requires --run-id or --latest")
	}
	if *latest {
		entries, err := stats.ListRunIndex(benchmarksDir)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return errors.New("no runs available to export")
		}
		*runID = entries[0].RunID
	}

	exportedDir, err := stats.ExportRunArtifacts(benchmarksDir, *runID, *outDir)
	if err != nil {
		return err
	}

	fmt.Printf("exported run_id=%s to=%s\n", *runID, exportedDir)
	return nil
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: formicactl <init|reset|run|runs|history|diagnostics|objectives|plot|export> [flags]", msg)
}
