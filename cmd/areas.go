package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/poi-cli/internal/geo"
)

var areasOutput string

var areasCmd = &cobra.Command{
	Use:   "areas",
	Short: "Export the configured areas and stops as GeoJSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("areas"); err != nil {
			return err
		}

		layout, err := loadLayout()
		if err != nil {
			return err
		}

		if areasOutput == "" || areasOutput == "-" {
			return writeAreas(cmd.OutOrStdout(), layout)
		}

		f, err := os.Create(areasOutput)
		if err != nil {
			return eris.Wrapf(err, "create %s", areasOutput)
		}
		defer f.Close() //nolint:errcheck

		if err := writeAreas(f, layout); err != nil {
			return err
		}
		zap.L().Info("areas exported", zap.String("path", areasOutput), zap.Int("boxes", len(layout.Boxes)))
		return nil
	},
}

func writeAreas(w io.Writer, layout *geo.Layout) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(layout.FeatureCollection()); err != nil {
		return eris.Wrap(err, "encode geojson")
	}
	return nil
}

func init() {
	areasCmd.Flags().StringVarP(&areasOutput, "output", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(areasCmd)
}
