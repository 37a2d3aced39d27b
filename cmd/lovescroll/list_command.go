package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/ramedia/lovescroll/store"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List experiences in the local store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				summaries, err := st.List(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(summaries) == 0 {
					fmt.Fprintln(out, "No experiences stored")
					return nil
				}

				now := time.Now()
				rows := make([][]string, 0, len(summaries))
				for _, s := range summaries {
					rows = append(rows, []string{
						s.Slug,
						string(s.Tier),
						s.FromName + " → " + s.ToName,
						strconv.Itoa(s.Photos),
						strconv.Itoa(s.Views),
						expiryLabel(s.ExpiresAt, now),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Slug", "Tier", "Names", "Memories", "Views", "Expires"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
}

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <slug>",
		Short: "Remove an experience from the local store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				if err := st.Delete(cmd.Context(), args[0]); err != nil {
					return describeLoadError(args[0], err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func expiryLabel(expires, now time.Time) string {
	switch {
	case expires.IsZero():
		return "never"
	case now.After(expires):
		return "expired"
	default:
		return expires.Format(time.DateOnly)
	}
}
