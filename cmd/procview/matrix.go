package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/Sternrassler/medshield-admin/pkg/model"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func newMatrixCmd(a *app) *cobra.Command {
	var filter model.FilterCriteria

	cmd := &cobra.Command{
		Use:   "matrix",
		Short: "Print cluster counts per phase and role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(a.tokenContext(cmd.Context()), a.cfg.RequestTimeout)
			defer cancel()

			m, err := a.client.Matrix(ctx, filter)
			if err != nil {
				return fmt.Errorf("matrix: %w", err)
			}
			return writeMatrix(cmd.OutOrStdout(), m)
		},
	}

	filterFlags(cmd, &filter, false)
	return cmd
}

var matrixHeader = lipgloss.NewStyle().Bold(true)

// writeMatrix prints phases as rows and roles as columns. Empty cells
// print as "-".
func writeMatrix(w io.Writer, m model.Matrix) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprint(tw, matrixHeader.Render("Phase"))
	for _, role := range model.Roles {
		fmt.Fprint(tw, "\t", matrixHeader.Render(role))
	}
	fmt.Fprintln(tw)

	for _, phase := range model.Phases {
		fmt.Fprint(tw, phase)
		for _, role := range model.Roles {
			cell := "-"
			if n := m.Count(phase, role); n > 0 {
				cell = strconv.Itoa(n)
			}
			fmt.Fprint(tw, "\t", cell)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}
