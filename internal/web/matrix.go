package web

import (
	"errors"
	"net/http"

	"github.com/Sternrassler/medshield-admin/pkg/client"
	"github.com/Sternrassler/medshield-admin/pkg/model"
	"github.com/Sternrassler/medshield-admin/pkg/procview"
	"golang.org/x/sync/errgroup"
)

// MsgMatrixFailed is shown when the matrix page cannot be built.
const MsgMatrixFailed = "Failed to load process matrix"

type matrixCell struct {
	Count int
	URL   string
}

type matrixRow struct {
	Phase string
	Cells []matrixCell
}

type matrixPage struct {
	Error      string
	Filter     model.FilterCriteria
	Roles      []string
	Rows       []matrixRow
	Subjects   []string
	Categories []string
	Standards  []string
	Priorities []string
}

func (s *Server) handleMatrix(w http.ResponseWriter, r *http.Request) {
	filter := procview.ReadFilter(r.URL.Query())
	filter.Phase, filter.Role = "", ""

	page := matrixPage{
		Filter:     filter,
		Roles:      model.Roles,
		Subjects:   model.Subjects,
		Priorities: model.Priorities,
	}

	session, ctx, err := s.session(r)
	if err != nil {
		page.Error = MsgMatrixFailed
		s.render(w, r, "matrix", http.StatusBadGateway, "matrix", page)
		return
	}
	if session.User == "" {
		page.Error = procview.MsgAuthRequired
		s.render(w, r, "matrix", http.StatusUnauthorized, "matrix", page)
		return
	}

	ctx, cancel := s.withRequestTimeout(ctx)
	defer cancel()

	var matrix model.Matrix
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		matrix, err = s.api.Matrix(gctx, filter)
		return err
	})
	g.Go(func() (err error) {
		page.Standards, err = s.api.Standards(gctx)
		return err
	})
	g.Go(func() (err error) {
		page.Categories, err = s.api.Categories(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Msg("Failed to load process matrix")
		page.Error = MsgMatrixFailed
		status := http.StatusBadGateway
		if errors.Is(err, client.ErrUnauthorized) {
			page.Error = procview.MsgAuthRequired
			status = http.StatusUnauthorized
		}
		s.render(w, r, "matrix", status, "matrix", page)
		return
	}

	for _, phase := range model.Phases {
		row := matrixRow{Phase: phase}
		for _, role := range model.Roles {
			cell := matrixCell{Count: matrix.Count(phase, role)}
			if cell.Count > 0 {
				f := filter
				f.Phase, f.Role = phase, role
				cell.URL = processURL(f, 1, nil)
			}
			row.Cells = append(row.Cells, cell)
		}
		page.Rows = append(page.Rows, row)
	}

	s.render(w, r, "matrix", http.StatusOK, "matrix", page)
}
