package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"grocy-planner/internal/planner"
	"grocy-planner/internal/shopping"
	"grocy-planner/internal/storage"
)

func shoppingListCmd() *cobra.Command {
	var (
		startFlag    string
		endFlag      string
		snapshotFile string
		record       bool
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "shopping-list",
		Short: "Generate the shopping list for a date range",
		Long: `Generate the shopping list for a date range (default: next Monday to Sunday).

With --snapshot the inventory is read from a recorded snapshot file instead of
the Grocy API. With --record the fetched snapshot is written to SNAPSHOT_DIR.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, err := resolveRange(startFlag, endFlag, time.Now())
			if err != nil {
				return err
			}

			rt, err := openDeps()
			if err != nil {
				return err
			}
			defer rt.close()

			source := rt.grocySource()
			if snapshotFile != "" {
				snap, err := storage.LoadFile(snapshotFile)
				if err != nil {
					return err
				}
				source = storage.NewStaticSource(snap)
			}

			var snapshots *storage.SnapshotStore
			if record {
				if snapshots, err = storage.NewSnapshotStore(rt.cfg.SnapshotDir); err != nil {
					return err
				}
			}

			list, err := rt.newApp(source, snapshots).GenerateShoppingList(cmd.Context(), start, end)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(list)
			}
			printList(list)
			return nil
		},
	}

	cmd.Flags().StringVar(&startFlag, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endFlag, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&snapshotFile, "snapshot", "", "Read inventory from a snapshot file")
	cmd.Flags().BoolVar(&record, "record", false, "Record the fetched snapshot")
	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "Output as JSON")

	return cmd
}

// resolveRange parses --start/--end. Both empty means next week; a lone
// --start spans a week from it.
func resolveRange(startFlag, endFlag string, now time.Time) (time.Time, time.Time, error) {
	if startFlag == "" && endFlag == "" {
		start, end := planner.WeekRange(planner.GetNextMonday(now))
		return start, end, nil
	}
	if startFlag == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("--end requires --start")
	}

	start, err := time.Parse(planner.DateLayout, startFlag)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --start %q: %w", startFlag, err)
	}
	if endFlag == "" {
		_, end := planner.WeekRange(start)
		return start, end, nil
	}
	end, err := time.Parse(planner.DateLayout, endFlag)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --end %q: %w", endFlag, err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, shopping.ErrInvalidRange
	}
	return start, end, nil
}

func printList(list *shopping.List) {
	fmt.Printf("\n=== SHOPPING LIST %s .. %s ===\n", list.StartDate, list.EndDate)
	if len(list.Items) == 0 {
		fmt.Println("Everything is in stock.")
	} else {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "PRODUCT\tTO BUY\tUNIT\tNEEDED\tIN STOCK")
		for _, item := range list.Items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				item.ProductName,
				formatAmount(item.ToBuyAmount),
				item.QuName,
				formatAmount(item.NeededAmount),
				formatAmount(item.StockAmount),
			)
		}
		w.Flush()
	}
	fmt.Printf("\nRecipes processed: %d, homemade products resolved: %d\n",
		list.RecipesProcessed, list.HomemadeProductsResolved)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
