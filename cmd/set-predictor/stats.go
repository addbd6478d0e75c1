package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/set-predictor/internal/models"
)

var playersGender string

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List players with stats on at least one surface",
	RunE: func(cmd *cobra.Command, args []string) error {
		gender, err := models.ParseGender(valueOr(playersGender, cfg.Model.DefaultGender))
		if err != nil {
			return err
		}
		players, err := svc.Players(cmd.Context(), gender)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, p := range players {
			fmt.Fprintln(out, p)
		}
		if len(players) == 0 {
			fmt.Fprintf(out, "No %s players with enough matches\n", gender.Tour())
		}
		return nil
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Download the match logs and rebuild the stat table",
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := svc.RefreshStats(cmd.Context())
		if report != nil {
			printReport(cmd.OutOrStdout(), report)
		}
		return err
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the stat table",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Building the table populates the cache
		if _, _, err := svc.StatTable(cmd.Context()); err != nil {
			return err
		}
		status := svc.Status(cmd.Context())

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Source:     %s\n", cfg.DataSource.Type)
		fmt.Fprintf(out, "Rows:       %d\n", status.Rows)
		fmt.Fprintf(out, "Overrides:  %d\n", status.Overrides)
		if !status.BuiltAt.IsZero() {
			fmt.Fprintf(out, "Built at:   %s\n", status.BuiltAt.Format(time.RFC3339))
		}
		fmt.Fprintf(out, "Fresh:      %v\n", status.Fresh)
		fmt.Fprintf(out, "Degraded:   %v\n", status.Degraded)
		if status.LastError != nil {
			fmt.Fprintf(out, "Last error: %v\n", status.LastError)
		}
		return nil
	},
}

var overrideFlags struct {
	player  string
	surface string
	gender  string
	serve   float64
	ret     float64
	matches int
}

var overridesCmd = &cobra.Command{
	Use:   "overrides",
	Short: "Manage manual stat overrides",
	Long: `Manual overrides replace the aggregated serve and return rates of a player
on a surface. They are stored in PostgreSQL when the database is enabled and
in memory otherwise.`,
}

var overridesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List manual overrides",
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := svc.ListOverrides(cmd.Context())
		if err != nil {
			return err
		}
		printStats(cmd.OutOrStdout(), stats)
		return nil
	},
}

var overridesSetCmd = &cobra.Command{
	Use:     "set",
	Short:   "Create or replace an override",
	Example: `  set-predictor overrides set --player "Jannik Sinner" --surface Grass --gender M --serve 0.74 --return 0.36`,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := overrideKey()
		if err != nil {
			return err
		}
		stat := &models.PlayerSurfaceStat{
			Key:          key,
			ServePtsWon:  overrideFlags.serve,
			ReturnPtsWon: overrideFlags.ret,
			Matches:      overrideFlags.matches,
		}
		if err := svc.SetOverride(cmd.Context(), stat); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Override saved for %s on %s (%s)\n", stat.Key.Player, stat.Key.Surface, stat.Key.Gender.Tour())
		return nil
	},
}

var overridesDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete an override",
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := overrideKey()
		if err != nil {
			return err
		}
		if err := svc.DeleteOverride(cmd.Context(), key); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Override deleted for %s on %s (%s)\n", key.Player, key.Surface, key.Gender.Tour())
		return nil
	},
}

func overrideKey() (models.StatKey, error) {
	surface, err := models.ParseSurface(overrideFlags.surface)
	if err != nil {
		return models.StatKey{}, err
	}
	gender, err := models.ParseGender(valueOr(overrideFlags.gender, cfg.Model.DefaultGender))
	if err != nil {
		return models.StatKey{}, err
	}
	return models.StatKey{Player: strings.TrimSpace(overrideFlags.player), Surface: surface, Gender: gender}, nil
}

func init() {
	playersCmd.Flags().StringVarP(&playersGender, "gender", "g", "", "Tour: M (ATP) or F (WTA)")

	for _, c := range []*cobra.Command{overridesSetCmd, overridesDeleteCmd} {
		c.Flags().StringVarP(&overrideFlags.player, "player", "p", "", "Player name")
		c.Flags().StringVarP(&overrideFlags.surface, "surface", "s", "", "Surface: Hard, Clay or Grass")
		c.Flags().StringVarP(&overrideFlags.gender, "gender", "g", "", "Tour: M (ATP) or F (WTA)")
		_ = c.MarkFlagRequired("player")
		_ = c.MarkFlagRequired("surface")
	}
	overridesSetCmd.Flags().Float64Var(&overrideFlags.serve, "serve", 0, "First-serve points won ratio")
	overridesSetCmd.Flags().Float64Var(&overrideFlags.ret, "return", 0, "Opponent first-serve points won ratio")
	overridesSetCmd.Flags().IntVar(&overrideFlags.matches, "matches", 0, "Matches behind the numbers, for reference")
	_ = overridesSetCmd.MarkFlagRequired("serve")
	_ = overridesSetCmd.MarkFlagRequired("return")

	overridesCmd.AddCommand(overridesListCmd, overridesSetCmd, overridesDeleteCmd)
}
