package main

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/poi-cli/internal/annotate"
	"github.com/sells-group/poi-cli/internal/geo"
)

var (
	annotateLat      float64
	annotateLon      float64
	annotateLocation string
)

var annotateCmd = &cobra.Command{
	Use:   "annotate",
	Short: "Annotate a single geotag and print the record as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		c := geo.NewCoordinate(annotateLat, annotateLon)
		if err := c.Validate(); err != nil {
			return err
		}

		env, err := initEnv(ctx, "annotate", false)
		if err != nil {
			return err
		}
		defer env.Close()

		return writeRecord(cmd.OutOrStdout(), env.Annotator.Annotate(ctx, c, annotateLocation))
	},
}

func writeRecord(w io.Writer, rec *annotate.Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return eris.Wrap(err, "encode record")
	}
	return nil
}

func init() {
	annotateCmd.Flags().Float64Var(&annotateLat, "lat", 0, "latitude in decimal degrees")
	annotateCmd.Flags().Float64Var(&annotateLon, "lon", 0, "longitude in decimal degrees")
	annotateCmd.Flags().StringVar(&annotateLocation, "location", "", "free-text location used for keyword classification")
	_ = annotateCmd.MarkFlagRequired("lat")
	_ = annotateCmd.MarkFlagRequired("lon")
	rootCmd.AddCommand(annotateCmd)
}
