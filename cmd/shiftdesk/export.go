package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/thanhvo/shiftdesk/internal/config"
	"github.com/thanhvo/shiftdesk/internal/controller"
	"github.com/thanhvo/shiftdesk/internal/schedule"
	"github.com/thanhvo/shiftdesk/internal/sheets"
)

var (
	exportWeek string
	exportTeam string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print a week's company shift summary",
	Long:  "Fetches one week's schedule from the backend and prints the part-time company summary to stdout. The week must be finalized to have a summary.",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportWeek, "week", "", "week start date YYYY-MM-DD (default: this Monday)")
	exportCmd.Flags().StringVar(&exportTeam, "team", "", "restrict to one team (cs or mo)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	week := exportWeek
	if week == "" {
		week = schedule.CurrentMonday(time.Now())
	} else {
		monday, ok := schedule.MondayOf(week)
		if !ok {
			return fmt.Errorf("invalid --week %q: must be a YYYY-MM-DD date", week)
		}
		week = monday
	}
	if exportTeam != "" && exportTeam != schedule.TeamCS && exportTeam != schedule.TeamMO {
		return fmt.Errorf("invalid --team %q: must be cs or mo", exportTeam)
	}

	client := sheets.New(cfg.Backend.URL, cfg.Backend.Timeout, cfg.Backend.Retries)
	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.Backend.Timeout)
	defer cancel()

	summary, err := controller.LoadCompanySummary(ctx, client, week, exportTeam, schedule.NewPalette())
	if err != nil {
		return fmt.Errorf("loading week %s: %w", week, err)
	}

	fmt.Printf("week %s", week)
	if exportTeam != "" {
		fmt.Printf(" team %s", exportTeam)
	}
	fmt.Printf(" status %s\n", summary.Status)

	if !summary.Finalized {
		fmt.Println("week is not finalized; no summary to export")
		return nil
	}

	for _, day := range summary.Days {
		fmt.Printf("\n%s\n", day.Date)
		for _, slot := range day.Slots {
			names := make([]string, 0, len(slot.Tags))
			for _, tag := range slot.Tags {
				names = append(names, tag.Name)
			}
			fmt.Printf("  %s  %s\n", slot.Shift, strings.Join(names, ", "))
		}
	}
	return nil
}
