package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var (
	dimensionsStart string
	dimensionsEnd   string
)

// dimensionsCmd lists the distinct values of a dimension
var dimensionsCmd = &cobra.Command{
	Use:   "dimensions KEY",
	Short: "List distinct dimension values (REGION, INSTANCE_TYPE, INSTANCE_FAMILY, USAGE_TYPE)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := buildEngine()
		if err != nil {
			return err
		}
		values, err := eng.GetDimensionValues(context.Background(), args[0], dimensionsStart, dimensionsEnd)
		if err != nil {
			return err
		}
		return printJSON(values)
	},
}

// tagsCmd lists the distinct non-empty values of a tag key
var tagsCmd = &cobra.Command{
	Use:   "tags KEY",
	Short: "List distinct tag values",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := buildEngine()
		if err != nil {
			return err
		}
		values, err := eng.GetTagValues(context.Background(), args[0])
		if err != nil {
			return err
		}
		return printJSON(values)
	},
}

func init() {
	dimensionsCmd.Flags().StringVar(&dimensionsStart, "start", "", "range start (YYYY-MM-DD)")
	dimensionsCmd.Flags().StringVar(&dimensionsEnd, "end", "", "range end (YYYY-MM-DD)")
}
