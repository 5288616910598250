package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kushalkp88/whatsapp-scheduler/internal/model"
	"github.com/kushalkp88/whatsapp-scheduler/internal/repo"
	"github.com/kushalkp88/whatsapp-scheduler/internal/report"
)

var (
	attemptsDB     string
	attemptsStatus string
	attemptsLimit  int
	attemptsOffset int
)

var attemptsCmd = &cobra.Command{
	Use:          "attempts",
	Short:        "List recorded delivery attempts",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := repo.NewSQLiteAttemptRepo(attemptsDB)
		if err != nil {
			return err
		}
		defer r.Close()

		atts, err := r.List(cmd.Context(), model.Status(attemptsStatus), attemptsLimit, attemptsOffset)
		if err != nil {
			return err
		}

		if len(atts) == 0 {
			fmt.Println("no recorded attempts")
			return nil
		}
		for _, att := range atts {
			fmt.Println(report.FormatLine(att))
		}
		return nil
	},
}

func init() {
	attemptsCmd.Flags().StringVar(&attemptsDB, "db", "data/attempts.db", "path to the attempts database")
	attemptsCmd.Flags().StringVar(&attemptsStatus, "status", "", "filter by status (sent, failed, skipped)")
	attemptsCmd.Flags().IntVar(&attemptsLimit, "limit", 50, "maximum attempts to list")
	attemptsCmd.Flags().IntVar(&attemptsOffset, "offset", 0, "attempts to skip")

	rootCmd.AddCommand(attemptsCmd)
}
