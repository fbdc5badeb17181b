package web

import (
	"errors"
	"net/http"

	"github.com/Sternrassler/medshield-admin/pkg/model"
	"github.com/Sternrassler/medshield-admin/pkg/pagination"
	"github.com/Sternrassler/medshield-admin/pkg/procview"
)

type clusterView struct {
	Key       string
	RepText   string
	Count     int
	Expanded  bool
	ToggleURL string
	Documents []model.Document
}

type pageLink struct {
	Number  int
	URL     string
	Current bool
}

type processPage struct {
	User       string
	Filter     model.FilterCriteria
	Error      string
	TotalCount int
	Clusters   []clusterView
	ShowPager  bool
	Pager      pagination.Pager
	Pages      []pageLink
	PrevURL    string
	NextURL    string
}

func processURL(f model.FilterCriteria, page int, e *procview.Expansion) string {
	q := procview.Query(f, page, e)
	if len(q) == 0 {
		return "/process"
	}
	return "/process?" + q.Encode()
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := procview.ReadFilter(q)

	ctrl := procview.NewController(s.api, filter, procview.ReadPage(q))
	ctrl.SetTimeout(s.config.RequestTimeout)
	ctrl.SetExpansion(procview.ReadExpansion(q))

	session, ctx, err := s.session(r)
	if err != nil {
		page := processPage{Filter: filter, Error: procview.Message(err)}
		s.render(w, r, "process", http.StatusBadGateway, "process", page)
		return
	}
	state := ctrl.Load(ctx, session)

	page := processPage{
		User:       session.User,
		Filter:     filter,
		Error:      state.ErrorMessage(),
		TotalCount: state.TotalCount,
	}

	status := http.StatusOK
	switch {
	case errors.Is(state.Err, procview.ErrAuthRequired):
		status = http.StatusUnauthorized
	case errors.Is(state.Err, procview.ErrMissingParams):
		status = http.StatusBadRequest
	case errors.Is(state.Err, procview.ErrFetchFailed):
		status = http.StatusBadGateway
	}

	if state.Err == nil {
		expansion := ctrl.Expansion()
		for _, c := range state.Clusters {
			key := procview.ClusterKey(c)
			page.Clusters = append(page.Clusters, clusterView{
				Key:       key,
				RepText:   c.RepText,
				Count:     len(c.Documents),
				Expanded:  expansion.IsExpanded(key),
				ToggleURL: processURL(filter, state.Page, expansion.Toggled(key)) + "#cluster-" + key,
				Documents: c.Documents,
			})
		}

		page.Pager, page.ShowPager = state.Pager()
		if page.ShowPager {
			for _, n := range page.Pager.Pages {
				page.Pages = append(page.Pages, pageLink{
					Number:  n,
					URL:     processURL(filter, n, expansion),
					Current: n == state.Page,
				})
			}
			page.PrevURL = processURL(filter, page.Pager.Prev(), expansion)
			page.NextURL = processURL(filter, page.Pager.Next(), expansion)
		}
	}

	s.render(w, r, "process", status, "process", page)
}
