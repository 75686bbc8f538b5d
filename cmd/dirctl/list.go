package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sakif/team-directory/internal/directory"
	"github.com/sakif/team-directory/internal/model"
)

// listState turns --sort/--desc into a sort state the same way the
// dashboard gets there: one header activation for ascending, a second one
// on the same header for descending.
func listState(sortKey string, desc bool) (directory.SortState, error) {
	var state directory.SortState
	if sortKey == "" {
		if desc {
			return state, errors.New("--desc needs --sort")
		}
		return state, nil
	}

	f, ok := directory.ParseField(sortKey)
	if !ok {
		keys := make([]string, 0, len(directory.Fields()))
		for _, f := range directory.Fields() {
			keys = append(keys, f.Key())
		}
		return state, fmt.Errorf("unknown sort field %q (one of: %s)", sortKey, strings.Join(keys, ", "))
	}

	state = state.Activate(f)
	if desc {
		state = state.Activate(f)
	}
	return state, nil
}

// writeTable prints the directory table with the dashboard's headers,
// indicator and placeholders.
func writeTable(w io.Writer, profiles []*model.Profile, state directory.SortState, loc *time.Location) error {
	t := directory.BuildTable(profiles, state, loc)
	if t.Empty() {
		_, err := fmt.Fprintln(w, directory.EmptyMessage)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	labels := make([]string, 0, len(t.Headers))
	for _, h := range t.Headers {
		label := h.Label
		if h.Indicator != "" {
			label += " " + h.Indicator
		}
		labels = append(labels, label)
	}
	fmt.Fprintln(tw, strings.Join(labels, "\t"))
	for _, r := range t.Rows {
		fmt.Fprintln(tw, strings.Join(r.Cells, "\t"))
	}
	return tw.Flush()
}

func newListCmd(f *rootFlags) *cobra.Command {
	var (
		sortKey string
		desc    bool
		tz      string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the team directory table",
		Example: `  dirctl list
  dirctl list --sort last_updated --desc`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := listState(sortKey, desc)
			if err != nil {
				return err
			}
			loc, err := time.LoadLocation(tz)
			if err != nil {
				return fmt.Errorf("--tz: %w", err)
			}

			store, err := f.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			profiles, err := store.ListProfiles(cmd.Context())
			if err != nil {
				return err
			}
			return writeTable(cmd.OutOrStdout(), profiles, state, loc)
		},
	}

	cmd.Flags().StringVarP(&sortKey, "sort", "s", "", "column to sort by (e.g. last_name, team, last_updated)")
	cmd.Flags().BoolVar(&desc, "desc", false, "sort descending")
	cmd.Flags().StringVar(&tz, "tz", envOr("DISPLAY_TIMEZONE", "UTC"), "time zone for dates")
	return cmd
}
