package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently generated shopping lists",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openDeps()
			if err != nil {
				return err
			}
			defer rt.close()

			lists, err := rt.newApp(rt.grocySource(), nil).History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(lists) == 0 {
				fmt.Println("No shopping lists generated yet.")
				return nil
			}
			for _, l := range lists {
				fmt.Printf("#%d  %s .. %s  %d items  (%s)\n",
					l.ID, l.StartDate, l.EndDate, len(l.Items), l.CreatedAt.Local().Format("2006-01-02 15:04"))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum lists")
	return cmd
}

func metricsCleanupCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "metrics-cleanup",
		Short: "Remove generation metrics and stored lists older than --days",
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 0 {
				return fmt.Errorf("--days must not be negative")
			}
			rt, err := openDeps()
			if err != nil {
				return err
			}
			defer rt.close()

			metricRows, listRows, err := rt.newApp(rt.grocySource(), nil).Cleanup(cmd.Context(), days)
			if err != nil {
				return err
			}
			fmt.Printf("Removed %d metrics and %d shopping lists older than %d days.\n", metricRows, listRows, days)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 30, "Retention in days")
	return cmd
}
