package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/spf13/cobra"

	awsadapter "fleet-cost/adapters/aws"
	"fleet-cost/core/engine"
	"fleet-cost/core/filter"
	"fleet-cost/core/types"
	"fleet-cost/internal/config"
)

var (
	queryStart         string
	queryEnd           string
	queryGranularity   string
	queryMetric        string
	queryGroupBy       []string
	queryTagFilters    []string
	queryIncludeFuture bool
	queryLive          bool
)

// queryCmd evaluates one cost/usage query and prints the result as JSON
var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query cost and usage over a date range",
	RunE: func(cmd *cobra.Command, args []string) error {
		q := engine.Query{
			Start:         queryStart,
			End:           queryEnd,
			Granularity:   types.Granularity(queryGranularity),
			Metric:        types.Metric(queryMetric),
			GroupBy:       queryGroupBy,
			IncludeFuture: queryIncludeFuture,
		}

		if len(queryTagFilters) > 0 {
			var children []filter.Expr
			for _, spec := range queryTagFilters {
				key, value, ok := splitTagFilter(spec)
				if !ok {
					return fmt.Errorf("invalid tag filter %q, want Key=Value", spec)
				}
				children = append(children, filter.TagIn(key, value))
			}
			q.Filter = filter.AllOf(children...)
		}

		ctx := context.Background()
		var result types.CostAndUsageResult
		if queryLive {
			cfg := config.Get()
			awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
				awsconfig.WithRegion(cfg.AWS.Region),
				awsconfig.WithSharedConfigProfile(cfg.AWS.Profile),
			)
			if err != nil {
				return err
			}
			result, err = awsadapter.NewCostExplorer(awsCfg).GetCostAndUsage(ctx, q)
			if err != nil {
				return err
			}
		} else {
			eng, err := buildEngine()
			if err != nil {
				return err
			}
			result, err = eng.GetCostAndUsage(ctx, q)
			if err != nil {
				return err
			}
		}

		return printJSON(result)
	},
}

func splitTagFilter(spec string) (key, value string, ok bool) {
	for i := 0; i < len(spec); i++ {
		if spec[i] == '=' {
			return spec[:i], spec[i+1:], i > 0
		}
	}
	return "", "", false
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	queryCmd.Flags().StringVar(&queryStart, "start", "", "range start (YYYY-MM-DD, inclusive)")
	queryCmd.Flags().StringVar(&queryEnd, "end", "", "range end (YYYY-MM-DD, exclusive)")
	queryCmd.Flags().StringVar(&queryGranularity, "granularity", string(types.GranularityDaily), "DAILY or MONTHLY")
	queryCmd.Flags().StringVar(&queryMetric, "metric", string(types.MetricUnblendedCost), "UnblendedCost, AmortizedCost or UsageQuantity")
	queryCmd.Flags().StringArrayVar(&queryGroupBy, "group-by", nil, "group-by key (repeatable, max 2)")
	queryCmd.Flags().StringArrayVar(&queryTagFilters, "tag", nil, "tag filter Key=Value (repeatable, conjunctive)")
	queryCmd.Flags().BoolVar(&queryIncludeFuture, "include-future", false, "accrue cost for future days")
	queryCmd.Flags().BoolVar(&queryLive, "live", false, "query the real Cost Explorer API")

	_ = queryCmd.MarkFlagRequired("start")
	_ = queryCmd.MarkFlagRequired("end")
}
