package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/lintang-b-s/roadgraph/pkg/config"
	"github.com/lintang-b-s/roadgraph/pkg/engine/routingalgorithm"
	"github.com/lintang-b-s/roadgraph/pkg/graph"
	"github.com/lintang-b-s/roadgraph/pkg/graphcheck"
	"github.com/lintang-b-s/roadgraph/pkg/index"
	"github.com/lintang-b-s/roadgraph/pkg/logging"
	"github.com/lintang-b-s/roadgraph/pkg/util"
	"github.com/lintang-b-s/roadgraph/pkg/weighting"
)

var errViolations = errors.New("cross check found violations")

var (
	rootCmd = &cobra.Command{
		Use:   "crosscheck",
		Short: "Compare A* and bidirectional Dijkstra against Dijkstra on a road graph",
		Long: `crosscheck builds a road graph, either a seeded random grid or an imported .osm.pbf file,
validates it and routes random node pairs with every algorithm. Any path that differs from the
Dijkstra reference in weight, distance, time or structure is reported.`,
		SilenceUsage: true,
		RunE:         runCrossCheck,
	}
	routeCmd = &cobra.Command{
		Use:   "route",
		Short: "Route between the graph nodes closest to two coordinates",
		RunE:  runRoute,
	}

	gf graphFlags

	logLevel    string
	jsonLogs    bool
	metricsAddr string

	queries      int
	workers      int
	weightingArg string
	profilesFile string
	jsonOut      bool

	fromLat, fromLon, toLat, toLon float64
	algorithm                      string
	maxVisitedNodes                int
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	pf.BoolVar(&jsonLogs, "json-logs", false, "log as JSON")
	pf.StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address, e.g. :9090")

	pf.StringVarP(&gf.osmFile, "file", "f", "", "openstreetmap .osm.pbf file, a random grid is generated when empty")
	pf.Int32Var(&gf.rows, "rows", 40, "rows of the random grid")
	pf.Int32Var(&gf.cols, "cols", 40, "columns of the random grid")
	pf.Uint64Var(&gf.seed, "seed", 1, "seed of the random grid and the query pairs")
	pf.Float64Var(&gf.oneWayRatio, "one-way-ratio", 0.1, "share of one-way roads in the random grid")
	pf.BoolVar(&gf.urbanDensity, "urban-density", false, "classify edges as rural, residential or city")
	pf.Float64Var(&gf.residentialRadius, "residential-radius", 400, "residential area radius in meters")
	pf.Float64Var(&gf.residentialSensitivity, "residential-sensitivity", 6000, "residential area sensitivity")
	pf.Float64Var(&gf.cityRadius, "city-radius", 1500, "city area radius in meters, <= 1 skips the city pass")
	pf.Float64Var(&gf.citySensitivity, "city-sensitivity", 1000, "city area sensitivity")
	pf.IntVar(&gf.threads, "threads", 4, "urban density workers")
	pf.StringVarP(&weightingArg, "weighting", "w", weighting.FASTEST, "fastest, speed or shortest")

	rootCmd.Flags().IntVarP(&queries, "queries", "n", 1000, "random queries per profile")
	rootCmd.Flags().IntVar(&workers, "workers", 4, "concurrent queries")
	rootCmd.Flags().StringVar(&profilesFile, "profiles", "", "YAML file with profiles to check, overrides --weighting")
	rootCmd.Flags().BoolVar(&jsonOut, "json", false, "print the report as JSON")

	routeCmd.Flags().Float64Var(&fromLat, "from-lat", 0, "start latitude")
	routeCmd.Flags().Float64Var(&fromLon, "from-lon", 0, "start longitude")
	routeCmd.Flags().Float64Var(&toLat, "to-lat", 0, "destination latitude")
	routeCmd.Flags().Float64Var(&toLon, "to-lon", 0, "destination longitude")
	routeCmd.Flags().StringVarP(&algorithm, "algorithm", "a", routingalgorithm.DIJKSTRA_BI, "dijkstra, astar or dijkstrabi")
	routeCmd.Flags().IntVar(&maxVisitedNodes, "max-visited-nodes", 0, "give up after this many settled nodes, 0 is unlimited")
	for _, name := range []string{"from-lat", "from-lon", "to-lat", "to-lon"} {
		_ = routeCmd.MarkFlagRequired(name)
	}

	rootCmd.AddCommand(routeCmd)
}

func newLogger() *slog.Logger {
	return logging.New(logging.Config{
		Level:   logging.ParseLevel(logLevel),
		Service: "crosscheck",
		JSON:    jsonLogs,
	})
}

// newMetrics. search metrics on a private registry, served over HTTP when --metrics-addr is set.
func newMetrics(logger *slog.Logger) *routingalgorithm.Metrics {
	reg := prometheus.NewRegistry()
	metrics := routingalgorithm.NewMetrics(reg)
	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(metricsAddr, mux); err != nil {
				logger.Error("metrics server stopped", "error", err)
			}
		}()
		logger.Info("serving metrics", "addr", metricsAddr)
	}
	return metrics
}

func loadProfiles() ([]*config.Profile, error) {
	if profilesFile == "" {
		p, err := config.NewProfile(vehicle)
		if err != nil {
			return nil, err
		}
		p.SetVehicle(vehicle).SetWeighting(weightingArg)
		return []*config.Profile{p}, p.Validate()
	}
	f, err := os.Open(profilesFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return config.LoadProfiles(f)
}

type profileReport struct {
	Profile     string   `json:"profile"`
	Weighting   string   `json:"weighting"`
	Queries     int      `json:"queries"`
	Subnetworks int      `json:"subnetworks"`
	Largest     int      `json:"largest_subnetwork"`
	Violations  []string `json:"violations"`
}

type report struct {
	Nodes            int32           `json:"nodes"`
	Edges            int32           `json:"edges"`
	GraphDiagnostics []string        `json:"graph_diagnostics"`
	Profiles         []profileReport `json:"profiles"`
}

func runCrossCheck(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := newLogger()
	slog.SetDefault(logger)

	profiles, err := loadProfiles()
	if err != nil {
		return err
	}

	g, err := buildGraph(ctx, gf, logger)
	if err != nil {
		return err
	}
	defer g.Close()

	rep := report{Nodes: g.Nodes(), Edges: g.Edges(), GraphDiagnostics: graphcheck.ValidateGraph(g)}
	for _, d := range rep.GraphDiagnostics {
		logger.Warn("graph diagnostic", "problem", d)
	}

	metrics := newMetrics(logger)
	violations := 0
	for _, p := range profiles {
		w, err := p.CreateWeighting(g.EncodingManager())
		if err != nil {
			return err
		}
		components := graphcheck.Subnetworks(g, w)
		pr := profileReport{Profile: p.Name, Weighting: w.Name(), Queries: queries, Subnetworks: len(components)}
		if len(components) > 0 {
			pr.Largest = len(components[0])
		}
		logger.Info("subnetworks", "profile", p.Name, "count", pr.Subnetworks, "largest", pr.Largest)

		pr.Violations, err = graphcheck.CrossCheck(ctx, g, w, graphcheck.CrossCheckConfig{
			Queries: queries,
			Workers: workers,
			Seed:    gf.seed,
			Metrics: metrics,
			Logger:  logger.With("profile", p.Name),
		})
		if err != nil {
			return err
		}
		violations += len(pr.Violations)
		rep.Profiles = append(rep.Profiles, pr)
	}

	if err := printReport(cmd, rep); err != nil {
		return err
	}
	if violations > 0 {
		return fmt.Errorf("%w: %d", errViolations, violations)
	}
	return nil
}

func printReport(cmd *cobra.Command, rep report) error {
	out := cmd.OutOrStdout()
	if jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	fmt.Fprintf(out, "graph: %d nodes, %d edges, %d diagnostics\n", rep.Nodes, rep.Edges, len(rep.GraphDiagnostics))
	for _, pr := range rep.Profiles {
		fmt.Fprintf(out, "profile %s (%s): %d queries, %d subnetworks (largest %d), %d violations\n",
			pr.Profile, pr.Weighting, pr.Queries, pr.Subnetworks, pr.Largest, len(pr.Violations))
		for _, v := range pr.Violations {
			fmt.Fprintf(out, "  %s\n", v)
		}
	}
	return nil
}

func newAlgorithm(name string, g *graph.BaseGraph, w weighting.Weighting, metrics *routingalgorithm.Metrics) (routingalgorithm.RoutingAlgorithm, error) {
	switch name {
	case routingalgorithm.DIJKSTRA:
		a := routingalgorithm.NewDijkstra(g, w)
		a.SetMetrics(metrics)
		a.SetMaxVisitedNodes(maxVisitedNodes)
		return a, nil
	case routingalgorithm.ASTAR:
		a := routingalgorithm.NewAStar(g, w)
		a.SetMetrics(metrics)
		a.SetMaxVisitedNodes(maxVisitedNodes)
		return a, nil
	case routingalgorithm.DIJKSTRA_BI:
		a := routingalgorithm.NewBidirectionalDijkstra(g, w)
		a.SetMetrics(metrics)
		a.SetMaxVisitedNodes(maxVisitedNodes)
		return a, nil
	default:
		return nil, fmt.Errorf("unknown algorithm %q", name)
	}
}

func runRoute(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := newLogger()
	slog.SetDefault(logger)

	g, err := buildGraph(ctx, gf, logger)
	if err != nil {
		return err
	}
	defer g.Close()

	p, err := config.NewProfile(vehicle)
	if err != nil {
		return err
	}
	w, err := p.SetWeighting(weightingArg).CreateWeighting(g.EncodingManager())
	if err != nil {
		return err
	}

	li, err := index.NewLocationIndex(g)
	if err != nil {
		return err
	}
	from, fromDist, err := li.FindClosest(fromLat, fromLon)
	if err != nil {
		return err
	}
	to, toDist, err := li.FindClosest(toLat, toLon)
	if err != nil {
		return err
	}
	logger.Debug("snapped query", "from", from, "from_dist", fromDist, "to", to, "to_dist", toDist)

	algo, err := newAlgorithm(algorithm, g, w, newMetrics(logger))
	if err != nil {
		return err
	}
	path, err := algo.CalcPath(from, to)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !path.IsFound() {
		fmt.Fprintf(out, "no route from %d to %d (%d nodes visited)\n", from, to, algo.VisitedNodes())
		return nil
	}
	fmt.Fprintf(out, "%s\n", path)
	fmt.Fprintf(out, "distance: %v m, time: %v s, weight: %v, visited nodes: %d\n",
		util.RoundFloat(path.Distance(), 1), util.RoundFloat(float64(path.Time())/1000, 1),
		util.RoundFloat(path.Weight(), 3), algo.VisitedNodes())
	fmt.Fprintf(out, "polyline: %s\n", path.Polyline(g.NodeAccess()))
	return nil
}
