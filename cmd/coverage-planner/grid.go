package main

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/MaastrichtU-BISS/benedrone-coverage-planner/graphdb"
	"github.com/MaastrichtU-BISS/benedrone-coverage-planner/hexgrid"
	"github.com/MaastrichtU-BISS/benedrone-coverage-planner/routing"
)

var (
	gridRadius   int
	gridClusters int
	gridUAVs     int
	gridSeed     int64
	gridWeight   float64
)

var gridCmd = &cobra.Command{
	Use:   "grid",
	Short: "Manage the hexagonal survey grid in Neo4j",
}

var gridSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate the hex map and persist it with UAV assignments",
	RunE:  runGridSeed,
}

var gridAssignmentsCmd = &cobra.Command{
	Use:   "assignments",
	Short: "Print each UAV's assigned cells in visiting order",
	RunE:  runGridAssignments,
}

func runGridSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	grid := cfg.Grid
	if cmd.Flags().Changed("radius") {
		grid.MapRadius = gridRadius
	}
	if cmd.Flags().Changed("clusters") {
		grid.Clusters = gridClusters
	}
	if cmd.Flags().Changed("uavs") {
		grid.UAVs = gridUAVs
	}
	if cmd.Flags().Changed("seed") {
		grid.Seed = gridSeed
	}

	seed := grid.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	cells := hexgrid.Generate(grid.MapRadius)
	hexgrid.ClusterPriorities(cells, grid.Clusters, rand.New(rand.NewSource(seed)))

	log.Println("🗺️  Seeding survey grid...")
	log.Printf("   Cells: %d (map radius %d)\n", len(cells), grid.MapRadius)
	log.Printf("   Priority clusters: %d, UAVs: %d, seed: %d\n", grid.Clusters, grid.UAVs, seed)

	store, err := graphdb.Connect(ctx, cfg.Neo4j)
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	if err := store.Reset(ctx); err != nil {
		return err
	}
	if err := store.CreateCells(ctx, cells); err != nil {
		return err
	}
	if err := store.CreateUAVs(ctx, grid.UAVs); err != nil {
		return err
	}
	if err := store.AssignCells(ctx); err != nil {
		return err
	}

	log.Printf("✅ Survey grid seeded: %d cells assigned to %d UAVs\n", len(cells), grid.UAVs)
	return nil
}

func runGridAssignments(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	weight := cfg.Routing.PriorityWeight
	if cmd.Flags().Changed("weight") {
		weight = gridWeight
	}

	store, err := graphdb.Connect(ctx, cfg.Neo4j)
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	assignments, err := store.FetchAssignments(ctx)
	if err != nil {
		return err
	}
	if len(assignments) == 0 {
		fmt.Println("No assignments found. Run 'grid seed' first.")
		return nil
	}

	for _, route := range buildRoutes(assignments, cfg.Grid.HexSize, weight) {
		fmt.Printf("UAV %d: %d cells, tour length %.2f\n", route.UAV, len(route.Cells), route.TourLength)
		for i, cell := range route.Cells {
			fmt.Printf("  %2d. cell %d (q=%d, r=%d) priority %d\n", i+1, cell.ID, cell.Q, cell.R, cell.Priority)
		}
	}

	waypoints, err := store.ListWaypointAssignments(ctx)
	if err != nil {
		return err
	}
	if len(waypoints) > 0 {
		fmt.Println("Waypoint assignments:")
		for _, a := range waypoints {
			fmt.Printf("  UAV %d -> %s\n", a.UAV, a.Waypoint)
		}
	}
	return nil
}

// uavRoute is one UAV's assigned cells in visiting order
type uavRoute struct {
	UAV        int            `json:"uav"`
	TourLength float64        `json:"tourLength"`
	Cells      []hexgrid.Cell `json:"cells"`
}

// buildRoutes groups assignments per UAV and orders each UAV's cells with the
// priority-weighted nearest-neighbor heuristic over the cell centers
func buildRoutes(assignments []graphdb.Assignment, hexSize, weight float64) []uavRoute {
	var uavs []int
	cellsByUAV := make(map[int][]hexgrid.Cell)
	for _, a := range assignments {
		if _, ok := cellsByUAV[a.UAV]; !ok {
			uavs = append(uavs, a.UAV)
		}
		cellsByUAV[a.UAV] = append(cellsByUAV[a.UAV], a.Cell)
	}

	routes := make([]uavRoute, 0, len(uavs))
	for _, uav := range uavs {
		cells := cellsByUAV[uav]

		byID := make(map[int]hexgrid.Cell, len(cells))
		sites := make([]routing.Site, len(cells))
		for i, cell := range cells {
			x, y := cell.Center(hexSize)
			sites[i] = routing.Site{ID: cell.ID, X: x, Y: y, Priority: cell.Priority}
			byID[cell.ID] = cell
		}

		tour := routing.VisitOrder(sites, weight)
		ordered := make([]hexgrid.Cell, len(tour))
		for i, site := range tour {
			ordered[i] = byID[site.ID]
		}

		routes = append(routes, uavRoute{
			UAV:        uav,
			TourLength: routing.TourLength(tour),
			Cells:      ordered,
		})
	}
	return routes
}

func init() {
	gridSeedCmd.Flags().IntVar(&gridRadius, "radius", hexgrid.DefaultMapRadius, "Map radius in hex rings")
	gridSeedCmd.Flags().IntVar(&gridClusters, "clusters", hexgrid.DefaultClusters, "Number of high-priority regions")
	gridSeedCmd.Flags().IntVar(&gridUAVs, "uavs", 3, "Fleet size")
	gridSeedCmd.Flags().Int64Var(&gridSeed, "seed", 0, "Priority RNG seed (0 = time-based)")

	gridAssignmentsCmd.Flags().Float64Var(&gridWeight, "weight", routing.DefaultPriorityWeight, "Priority weight for the visiting order")

	gridCmd.AddCommand(gridSeedCmd)
	gridCmd.AddCommand(gridAssignmentsCmd)
}
