package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/osland/kerneldeps/internal/config"
	"github.com/osland/kerneldeps/internal/depgraph"
	"github.com/osland/kerneldeps/internal/depviz"
	"github.com/osland/kerneldeps/internal/gate"
	"github.com/osland/kerneldeps/internal/graph/neo4j"
	"github.com/osland/kerneldeps/internal/kernel"
	"github.com/osland/kerneldeps/internal/observability"
	"github.com/osland/kerneldeps/internal/vector"
	"github.com/osland/kerneldeps/internal/vector/qdrant"
	"github.com/spf13/cobra"
)

func main() {
	var (
		configPath string
		verbose    bool
	)

	rootCmd := &cobra.Command{
		Use:   "kerneldeps",
		Short: "Kernel component dependency analyzer",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")

	var (
		analyzeInput  string
		analyzeOutput string
		analyzeJSON   bool
	)
	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze component dependencies and produce a report",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(configPath, verbose, analyzeInput, analyzeOutput, analyzeJSON)
		},
	}
	analyzeCmd.Flags().StringVar(&analyzeInput, "input", "", "Component manifest path")
	analyzeCmd.Flags().StringVar(&analyzeOutput, "output", "", "Report file path (stdout when empty)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Emit the analysis result as JSON")
	_ = analyzeCmd.MarkFlagRequired("input")

	var (
		exportInput  string
		exportFormat string
		exportOutput string
	)
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export the dependency graph as dot, mermaid or json",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(configPath, verbose, exportInput, exportFormat, exportOutput)
		},
	}
	exportCmd.Flags().StringVar(&exportInput, "input", "", "Component manifest path")
	exportCmd.Flags().StringVar(&exportFormat, "format", "dot", "Output format: dot, mermaid or json")
	exportCmd.Flags().StringVar(&exportOutput, "output", "", "Output file path")
	_ = exportCmd.MarkFlagRequired("input")
	_ = exportCmd.MarkFlagRequired("output")

	var (
		insightInput  string
		insightOutput string
	)
	insightCmd := &cobra.Command{
		Use:   "insight",
		Short: "Compute dependency strengths, centrality and clusters",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInsight(configPath, verbose, insightInput, insightOutput)
		},
	}
	insightCmd.Flags().StringVar(&insightInput, "input", "", "Component manifest path")
	insightCmd.Flags().StringVar(&insightOutput, "output", "", "Analysis JSON path (stdout when empty)")
	_ = insightCmd.MarkFlagRequired("input")

	var (
		checkInput         string
		checkMaxDependents int
	)
	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Evaluate structural gates and fail on violations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(configPath, verbose, checkInput, checkMaxDependents)
		},
	}
	checkCmd.Flags().StringVar(&checkInput, "input", "", "Component manifest path")
	checkCmd.Flags().IntVar(&checkMaxDependents, "max-dependents", 0, "Fail when a component has more dependents (0 = use config)")
	_ = checkCmd.MarkFlagRequired("input")

	var (
		storeInput string
		storeURI   string
	)
	storeCmd := &cobra.Command{
		Use:   "store",
		Short: "Persist the dependency graph to the graph database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStore(configPath, verbose, storeInput, storeURI)
		},
	}
	storeCmd.Flags().StringVar(&storeInput, "input", "", "Component manifest path")
	storeCmd.Flags().StringVar(&storeURI, "uri", "", "Neo4j URI (overrides config)")
	_ = storeCmd.MarkFlagRequired("input")

	var (
		similarInput     string
		similarComponent string
		similarTopK      int
	)
	similarCmd := &cobra.Command{
		Use:   "similar",
		Short: "Find components with a similar structural profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimilar(configPath, verbose, similarInput, similarComponent, similarTopK)
		},
	}
	similarCmd.Flags().StringVar(&similarInput, "input", "", "Component manifest path")
	similarCmd.Flags().StringVar(&similarComponent, "component", "", "Component to compare against")
	similarCmd.Flags().IntVar(&similarTopK, "top-k", 5, "Number of matches to return")
	_ = similarCmd.MarkFlagRequired("input")
	_ = similarCmd.MarkFlagRequired("component")

	rootCmd.AddCommand(analyzeCmd, exportCmd, insightCmd, checkCmd, storeCmd, similarCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration, configures logging and initializes tracing and
// the audit trail. The returned provider must be shut down by the caller.
func setup(ctx context.Context, configPath string, verbose bool) (*config.Config, *observability.TracerProvider, error) {
	cfg := loadConfig(configPath)
	setupLogging(cfg, verbose)

	tc := observability.DefaultTracingConfig()
	tc.OTLPEndpoint = cfg.Tracing.Endpoint
	tc.SampleRate = cfg.Tracing.SampleRate
	tp, err := observability.InitTracing(ctx, tc)
	if err != nil {
		return nil, nil, fmt.Errorf("init tracing: %w", err)
	}

	if cfg.Audit.Enabled {
		if err := observability.InitGlobalAuditLogger(&observability.AuditConfig{
			Enabled:    true,
			OutputPath: cfg.Audit.Path,
		}); err != nil {
			tp.Shutdown(ctx)
			return nil, nil, fmt.Errorf("init audit trail: %w", err)
		}
	}
	return cfg, tp, nil
}

func loadConfig(configPath string) *config.Config {
	if configPath == "" {
		return config.Default()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: config load failed (%v), using defaults\n", err)
		return config.Default()
	}
	return cfg
}

func setupLogging(cfg *config.Config, verbose bool) {
	level := slog.LevelInfo
	switch cfg.Log.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func runAnalyze(configPath string, verbose bool, inputPath, outputPath string, jsonOut bool) error {
	ctx := context.Background()
	cfg, tp, err := setup(ctx, configPath, verbose)
	if err != nil {
		return err
	}
	defer tp.Shutdown(ctx)

	st, err := kernel.Load(inputPath)
	if err != nil {
		return err
	}

	ctx, span := observability.StartAnalysisSpan(ctx, st.Name, len(st.Components))
	defer span.End()
	observability.Audit().LogAnalysisStart(ctx, st.Name, len(st.Components))
	start := time.Now()

	result := depgraph.New(cfg.Analysis.Options()).Analyze(st.Components)

	complete := len(result.TopologicalOrder) == len(result.Graph.Names)
	observability.RecordAnalysisResult(span, len(result.MissingDependencies), len(result.Cycles), complete)
	observability.Audit().LogAnalysisComplete(ctx, st.Name, time.Since(start),
		len(result.MissingDependencies), len(result.Cycles))

	var data []byte
	if jsonOut {
		data, err = depgraph.ExportJSON(result)
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		data = append(data, '\n')
	} else {
		data = []byte(depgraph.FormatReport(result))
	}

	if outputPath == "" {
		fmt.Print(string(data))
		return nil
	}
	if err := depgraph.WriteFile(outputPath, data); err != nil {
		observability.RecordError(span, err)
		return err
	}
	observability.Audit().LogExport(ctx, "report", outputPath, len(data))
	fmt.Printf("Report written to %s\n", outputPath)
	return nil
}

func runExport(configPath string, verbose bool, inputPath, format, outputPath string) error {
	ctx := context.Background()
	cfg, tp, err := setup(ctx, configPath, verbose)
	if err != nil {
		return err
	}
	defer tp.Shutdown(ctx)

	st, err := kernel.Load(inputPath)
	if err != nil {
		return err
	}

	result := depgraph.New(cfg.Analysis.Options()).Analyze(st.Components)

	ctx, span := observability.StartExportSpan(ctx, format)
	defer span.End()

	var data []byte
	switch format {
	case "dot":
		data = []byte(depgraph.ExportDOT(result.Graph))
	case "mermaid":
		data = []byte(depgraph.ExportMermaid(result))
	case "json":
		data, err = depgraph.ExportJSON(result)
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		data = append(data, '\n')
	default:
		return fmt.Errorf("unknown format %q (want dot, mermaid or json)", format)
	}

	if err := depgraph.WriteFile(outputPath, data); err != nil {
		observability.RecordError(span, err)
		return err
	}
	observability.RecordExportResult(span, outputPath, len(data))
	observability.Audit().LogExport(ctx, format, outputPath, len(data))
	fmt.Printf("Exported %s to %s (%d bytes)\n", format, outputPath, len(data))
	return nil
}

func runInsight(configPath string, verbose bool, inputPath, outputPath string) error {
	ctx := context.Background()
	cfg, tp, err := setup(ctx, configPath, verbose)
	if err != nil {
		return err
	}
	defer tp.Shutdown(ctx)

	st, err := kernel.Load(inputPath)
	if err != nil {
		return err
	}
	edges := st.Edges()

	ctx, span := observability.StartInsightSpan(ctx, st.Name, len(edges))
	defer span.End()
	start := time.Now()

	analysis := depviz.New(cfg.Insight.Options()).Analyze(st)
	stats := depviz.BuildStatistics(analysis)

	observability.RecordInsightResult(span, stats.CycleCount, stats.ClusterCount, stats.MostCentral)
	observability.Audit().LogInsight(ctx, st.Name, time.Since(start),
		stats.CycleCount, stats.ClusterCount, stats.MostCentral)

	payload := struct {
		Analysis   *depviz.Analysis  `json:"analysis"`
		Statistics depviz.Statistics `json:"statistics"`
	}{analysis, stats}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}
	data = append(data, '\n')

	if outputPath == "" {
		fmt.Print(string(data))
		return nil
	}
	if err := depgraph.WriteFile(outputPath, data); err != nil {
		observability.RecordError(span, err)
		return err
	}

	fmt.Printf("Insight written to %s\n", outputPath)
	fmt.Printf("  Components:   %d\n", len(st.Components))
	fmt.Printf("  Dependencies: %d (%d unique)\n", stats.TotalDependencies, stats.UniqueDependencies)
	fmt.Printf("  Cycles:       %d\n", stats.CycleCount)
	fmt.Printf("  Clusters:     %d\n", stats.ClusterCount)
	if stats.MostCentral != "" {
		fmt.Printf("  Most central: %s\n", stats.MostCentral)
	}
	return nil
}

func runCheck(configPath string, verbose bool, inputPath string, maxDependents int) error {
	ctx := context.Background()
	cfg, tp, err := setup(ctx, configPath, verbose)
	if err != nil {
		return err
	}
	defer tp.Shutdown(ctx)

	if !cfg.Gates.Enabled {
		fmt.Println("Structural gates are disabled in configuration")
		return nil
	}

	st, err := kernel.Load(inputPath)
	if err != nil {
		return err
	}

	// Gates judge the full analysis regardless of which checks the
	// analysis section enables.
	result := depgraph.New(depgraph.DefaultOptions()).Analyze(st.Components)

	gcfg := cfg.Gates
	if maxDependents > 0 {
		gcfg.MaxDependents = maxDependents
	}
	pipeline := gate.BuildPipeline(&gcfg)

	ctx, span := observability.StartGateSpan(ctx, pipeline.Len())
	defer span.End()

	pres := pipeline.Run(&gate.EvalContext{Result: result})

	observability.RecordGateResult(span, string(pres.Status),
		pres.PassedCount, pres.FailedCount, pres.SkippedCount)
	observability.Audit().LogGateRun(ctx, string(pres.Status),
		pres.PassedCount, pres.FailedCount, pres.SkippedCount, pres.Duration)

	fmt.Print(gate.FormatReport(pres))
	if pres.Status == gate.GateFailed {
		return fmt.Errorf("structural gates failed")
	}
	return nil
}

func runStore(configPath string, verbose bool, inputPath, uri string) error {
	ctx := context.Background()
	cfg, tp, err := setup(ctx, configPath, verbose)
	if err != nil {
		return err
	}
	defer tp.Shutdown(ctx)

	if uri != "" {
		cfg.Graph.URI = uri
	}
	if cfg.Graph.URI == "" {
		return fmt.Errorf("no graph database configured (set graph.uri or pass --uri)")
	}

	st, err := kernel.Load(inputPath)
	if err != nil {
		return err
	}

	ctx, span := observability.StartGraphSpan(ctx, "store")
	defer span.End()

	repo, err := neo4j.NewNeo4j(ctx, cfg.Graph.URI, cfg.Graph.Username, cfg.Graph.Password)
	if err != nil {
		observability.RecordError(span, err)
		return err
	}
	defer repo.Close(ctx)

	start := time.Now()
	if err := repo.StoreStructure(ctx, st); err != nil {
		observability.RecordError(span, err)
		return fmt.Errorf("store structure: %w", err)
	}
	observability.Audit().LogGraphStore(ctx, cfg.Graph.URI, st.Name,
		len(st.Components), len(st.Edges()), time.Since(start))

	fmt.Printf("Stored %d components and %d dependencies in %s\n",
		len(st.Components), len(st.Edges()), cfg.Graph.URI)
	return nil
}

func runSimilar(configPath string, verbose bool, inputPath, component string, topK int) error {
	ctx := context.Background()
	cfg, tp, err := setup(ctx, configPath, verbose)
	if err != nil {
		return err
	}
	defer tp.Shutdown(ctx)

	st, err := kernel.Load(inputPath)
	if err != nil {
		return err
	}

	result := depgraph.New(cfg.Analysis.Options()).Analyze(st.Components)
	analysis := depviz.New(cfg.Insight.Options()).Analyze(st)
	docs := vector.BuildProfiles(st, result, analysis)

	doc, ok := vector.ProfileFor(docs, component)
	if !ok {
		return fmt.Errorf("component %q is not in the manifest", component)
	}

	ctx, span := observability.StartVectorSpan(ctx, "search")
	defer span.End()

	repo, err := qdrant.NewQdrant(ctx, cfg.Vector.Host, cfg.Vector.Port, cfg.Vector.Collection)
	if err != nil {
		observability.RecordError(span, err)
		return err
	}
	defer repo.Close()

	if err := repo.EnsureCollection(ctx, vector.ProfileDim); err != nil {
		observability.RecordError(span, err)
		return err
	}

	start := time.Now()
	if err := repo.Upsert(ctx, docs); err != nil {
		observability.RecordError(span, err)
		return fmt.Errorf("index profiles: %w", err)
	}
	observability.Audit().LogVectorIndex(ctx, cfg.Vector.Collection, len(docs), time.Since(start))

	// The query component comes back as its own best match; fetch one
	// extra result and drop it.
	start = time.Now()
	matches, err := repo.Search(ctx, doc.Vector, topK+1)
	if err != nil {
		observability.RecordError(span, err)
		return fmt.Errorf("search profiles: %w", err)
	}
	observability.RecordSearchResult(span, component, topK, len(matches), time.Since(start))
	observability.Audit().LogVectorSearch(ctx, component, topK, len(matches), time.Since(start))

	fmt.Printf("Components similar to %s:\n", component)
	shown := 0
	for _, m := range matches {
		if m.Component == component {
			continue
		}
		shown++
		fmt.Printf("  %d. %-24s score %.3f\n", shown, m.Component, m.Score)
		if shown == topK {
			break
		}
	}
	if shown == 0 {
		fmt.Println("  None")
	}
	return nil
}
