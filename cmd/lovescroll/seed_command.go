package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ramedia/lovescroll/model"
	"github.com/ramedia/lovescroll/store"
)

func newSeedCommand(ctx *commandContext) *cobra.Command {
	var tier string
	var from string
	var to string
	var export string

	cmd := &cobra.Command{
		Use:   "seed [slug]",
		Short: "Create a demo experience in the local store",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug := "demo"
			if len(args) == 1 {
				slug = strings.TrimSpace(args[0])
			}

			exp, err := model.Sample(slug, model.TierName(strings.ToLower(tier)), time.Now())
			if err != nil {
				return err
			}
			if from != "" {
				exp.FromName = from
			}
			if to != "" {
				exp.ToName = to
			}

			if export != "" {
				if err := model.WriteFile(export, exp); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s experience to %s\n", exp.Tier, export)
				return nil
			}

			return ctx.withStore(func(st *store.Store) error {
				if err := st.Put(cmd.Context(), exp); err != nil {
					return fmt.Errorf("save experience: %w", err)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Seeded %s experience %q with %d memories\n", exp.Tier, exp.Slug, len(exp.Photos))
				fmt.Fprintf(out, "Expires %s\n", exp.ExpiresAt.Format(time.DateOnly))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&tier, "tier", "t", string(model.TierClassic), "Tier: lite, classic or forever")
	cmd.Flags().StringVar(&from, "from", "", "Sender name")
	cmd.Flags().StringVar(&to, "to", "", "Recipient name")
	cmd.Flags().StringVar(&export, "export", "", "Write the experience to a TOML file instead of the store")
	return cmd
}
