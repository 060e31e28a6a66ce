package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/planweave/wallgeom"
	"github.com/planweave/wallgeom/internal/planfile"
)

var (
	// Global flags
	verbose   bool
	precision float64
	noRepair  bool
)

var rootCmd = &cobra.Command{
	Use:   "wallplan",
	Short: "Wall plan geometry builder",
	Long: `Builds manufacturable wall solids from plan files: baseline
centerlines plus thicknesses in, offset outlines, resolved junctions
and quality reports out.

Examples:
  wallplan build plan.wp                     # Build and summarize a plan
  wallplan validate plan.wp                  # Validate without exporting
  wallplan export plan.wp -o plan.dxf        # Export geometry to DXF`,
	Version: "0.3.0",
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().Float64Var(&precision, "precision", 0, "document precision in mm (overrides plan)")
	rootCmd.PersistentFlags().BoolVar(&noRepair, "no-repair", false, "disable automatic geometry repair")
}

// newEngine builds an engine from the global flags and plan precision.
func newEngine(planPrecision float64) *wallgeom.Engine {
	if verbose {
		wallgeom.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}
	var opts []wallgeom.Option
	switch {
	case precision > 0:
		opts = append(opts, wallgeom.WithDocumentPrecision(precision))
	case planPrecision > 0:
		opts = append(opts, wallgeom.WithDocumentPrecision(planPrecision))
	}
	opts = append(opts, wallgeom.WithRepair(!noRepair))
	return wallgeom.NewEngine(opts...)
}

// loadNetwork parses a plan file and builds every declared wall.
func loadNetwork(path string) (*wallgeom.Engine, *wallgeom.WallNetwork, error) {
	parser, err := planfile.NewParser()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create parser: %w", err)
	}
	plan, err := parser.ParseFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse plan: %w", err)
	}

	walls := plan.Walls()
	if len(walls) == 0 {
		return nil, nil, fmt.Errorf("plan %s declares no walls", path)
	}

	eng := newEngine(plan.DocumentPrecision())
	network := &wallgeom.WallNetwork{}
	for _, decl := range walls {
		pts := make([]wallgeom.Point, len(decl.Points))
		for i, c := range decl.Points {
			pts[i] = wallgeom.Pt(c.X, c.Y)
		}
		baseline := wallgeom.NewCurve(pts...)
		baseline.Closed = decl.Closed

		wt := wallgeom.WallArea
		switch wallgeom.WallType(decl.Type) {
		case wallgeom.WallLayout, wallgeom.WallZone, wallgeom.WallArea:
			wt = wallgeom.WallType(decl.Type)
		case "":
		default:
			return nil, nil, fmt.Errorf("wall %s: unknown type %q", decl.Name, decl.Type)
		}

		thickness := eng.ThicknessFor(wt)
		if decl.Thickness != nil {
			thickness = *decl.Thickness
		}

		res, err := eng.BuildWall(baseline, thickness, wt)
		if err != nil {
			return nil, nil, fmt.Errorf("wall %s: %w", decl.Name, err)
		}
		res.Solid.ID = decl.Name
		network.Walls = append(network.Walls, res.Solid)

		if verbose {
			for _, w := range res.Warnings {
				fmt.Fprintf(os.Stderr, "wall %s: %s\n", decl.Name, w)
			}
		}
	}
	return eng, network, nil
}
