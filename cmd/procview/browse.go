package main

import (
	"context"

	"github.com/Sternrassler/medshield-admin/internal/tui"
	"github.com/Sternrassler/medshield-admin/pkg/model"
	"github.com/Sternrassler/medshield-admin/pkg/procview"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newBrowseCmd(a *app) *cobra.Command {
	var (
		filter model.FilterCriteria
		page   int
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse process details in the terminal",
		Long: `Browse the clusters of one phase/role combination.

Keys: ↑/↓ (k/j) move, enter/space expand a cluster, ←/→ (h/l) change
page, q quits. The bearer token comes from --token, MEDSHIELD_TOKEN or
the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := a.tokenContext(cmd.Context())

			ctrl := procview.NewController(a.client, filter, page)
			ctrl.SetTimeout(a.cfg.RequestTimeout)

			m := tui.New(ctx, ctrl, a.currentUser)
			_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}

	filterFlags(cmd, &filter, true)
	cmd.Flags().IntVar(&page, "page", 1, "Initial page")
	return cmd
}

// currentUser resolves the token in ctx through /me. Disabled accounts
// count as signed out.
func (a *app) currentUser(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.RequestTimeout)
	defer cancel()

	user, err := a.client.Me(ctx)
	if err != nil {
		a.logger.Debug().Err(err).Msg("Failed to resolve current user")
		return "", err
	}
	if user.Disabled {
		return "", nil
	}
	return user.Username, nil
}
