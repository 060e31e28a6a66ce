package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/planweave/wallgeom/export"
)

var (
	exportOutput string
	exportReport string
)

var exportCmd = &cobra.Command{
	Use:   "export <plan-file>",
	Short: "Export built geometry to DXF and PDF",
	Long: `Parse a plan file, build and resolve the network, then write the
geometry as DXF. With --report a quality report PDF is written too.

Examples:
  wallplan export plan.wp -o plan.dxf
  wallplan export plan.wp -o plan.dxf --report plan.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "",
		"DXF output path (default: plan name with .dxf)")
	exportCmd.Flags().StringVar(&exportReport, "report", "",
		"also write a quality report PDF to this path")
}

func runExport(cmd *cobra.Command, args []string) error {
	eng, network, err := loadNetwork(args[0])
	if err != nil {
		return err
	}

	result := eng.ResolveNetwork(network)

	out := exportOutput
	if out == "" {
		base := strings.TrimSuffix(args[0], filepath.Ext(args[0]))
		out = base + ".dxf"
	}
	if err := export.ExportDXF(out, network); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", out)

	if exportReport != "" {
		if err := export.ExportReportPDF(exportReport, network, result.Report); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", exportReport)
	}
	return nil
}
