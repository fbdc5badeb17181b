package procview

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Sternrassler/medshield-admin/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listCall struct {
	filter      model.FilterCriteria
	skip, limit int
}

type fakeSource struct {
	total    int
	clusters []model.DocumentCluster
	countErr error
	listErr  error

	countCalls int
	listCalls  []listCall
	deadlines  []time.Duration
}

func (f *fakeSource) CountClusters(ctx context.Context, _ model.FilterCriteria) (int, error) {
	f.countCalls++
	if dl, ok := ctx.Deadline(); ok {
		f.deadlines = append(f.deadlines, time.Until(dl))
	}
	return f.total, f.countErr
}

func (f *fakeSource) ListClusters(ctx context.Context, filter model.FilterCriteria, skip, limit int) ([]model.DocumentCluster, error) {
	f.listCalls = append(f.listCalls, listCall{filter, skip, limit})
	if dl, ok := ctx.Deadline(); ok {
		f.deadlines = append(f.deadlines, time.Until(dl))
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.clusters, nil
}

func clustersN(n int) []model.DocumentCluster {
	out := make([]model.DocumentCluster, n)
	for i := range out {
		out[i] = model.DocumentCluster{ClusterID: model.ClusterID(fmt.Sprint(i)), RepText: fmt.Sprint("rep ", i)}
	}
	return out
}

var (
	signedIn    = Session{User: "alice"}
	designOther = model.FilterCriteria{Phase: "Design", Role: "Engineer"}
)

func TestLoad_AuthLoadingIssuesNoRequest(t *testing.T) {
	src := &fakeSource{}
	c := NewController(src, designOther, 1)

	state := c.Load(context.Background(), Session{Loading: true})

	assert.True(t, state.Loading)
	assert.NoError(t, state.Err)
	assert.Zero(t, src.countCalls)
	assert.Empty(t, src.listCalls)
}

func TestLoad_NoUser(t *testing.T) {
	src := &fakeSource{}
	c := NewController(src, designOther, 1)

	state := c.Load(context.Background(), Session{})

	assert.False(t, state.Loading)
	assert.ErrorIs(t, state.Err, ErrAuthRequired)
	assert.Equal(t, "Authentication required", state.ErrorMessage())
	assert.Zero(t, src.countCalls)
}

func TestLoad_MissingParams(t *testing.T) {
	tests := []struct {
		name   string
		filter model.FilterCriteria
	}{
		{"no phase", model.FilterCriteria{Role: "Engineer"}},
		{"no role", model.FilterCriteria{Phase: "Design"}},
		{"neither", model.FilterCriteria{Subject: "SBOM"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fakeSource{}
			c := NewController(src, tt.filter, 1)

			state := c.Load(context.Background(), signedIn)

			assert.Equal(t, "Phase and role parameters are required", state.ErrorMessage())
			assert.False(t, state.Loading)
			assert.Zero(t, src.countCalls)
			assert.Empty(t, src.listCalls)
		})
	}
}

func TestLoad_PageThreeWindowing(t *testing.T) {
	src := &fakeSource{total: 120, clusters: clustersN(20)}
	c := NewController(src, designOther, 3)

	state := c.Load(context.Background(), signedIn)
	require.NoError(t, state.Err)

	require.Len(t, src.listCalls, 1)
	assert.Equal(t, listCall{designOther, 100, 50}, src.listCalls[0])
	assert.Equal(t, 1, src.countCalls)
	assert.Equal(t, 120, state.TotalCount)
	assert.Equal(t, 3, state.TotalPages())
	assert.Len(t, state.Clusters, 20)
	assert.False(t, state.Loading)
}

func TestLoad_RequestTimeout(t *testing.T) {
	src := &fakeSource{total: 1, clusters: clustersN(1)}
	c := NewController(src, designOther, 1)

	c.Load(context.Background(), signedIn)

	require.Len(t, src.deadlines, 2)
	for _, d := range src.deadlines {
		assert.InDelta(t, RequestTimeout.Seconds(), d.Seconds(), 1)
	}
}

func TestLoad_SuccessReplacesDataAndClearsError(t *testing.T) {
	src := &fakeSource{countErr: errors.New("timeout")}
	c := NewController(src, designOther, 1)

	state := c.Load(context.Background(), signedIn)
	require.Error(t, state.Err)

	src.countErr = nil
	src.total = 2
	src.clusters = clustersN(2)
	state = c.Load(context.Background(), signedIn)

	assert.NoError(t, state.Err)
	assert.Empty(t, state.ErrorMessage())
	assert.Equal(t, 2, state.TotalCount)
	assert.Len(t, state.Clusters, 2)
}

func TestLoad_FailureKeepsPreviousData(t *testing.T) {
	src := &fakeSource{total: 60, clusters: clustersN(50)}
	c := NewController(src, designOther, 1)
	c.Load(context.Background(), signedIn)

	src.listErr = errors.New("connection reset")
	src.total = 999
	state := c.Load(context.Background(), signedIn)

	assert.ErrorIs(t, state.Err, ErrFetchFailed)
	assert.Equal(t, "Failed to load detailed data", state.ErrorMessage())
	assert.Equal(t, 60, state.TotalCount, "count and list are replaced together")
	assert.Len(t, state.Clusters, 50)
}

func TestLoad_CountFailureSkipsList(t *testing.T) {
	src := &fakeSource{countErr: errors.New("502")}
	c := NewController(src, designOther, 1)

	state := c.Load(context.Background(), signedIn)

	assert.ErrorIs(t, state.Err, ErrFetchFailed)
	assert.Empty(t, src.listCalls)
}

func TestLoad_CountListDriftIsApplied(t *testing.T) {
	// list answers more than the count allows; shown as returned
	src := &fakeSource{total: 10, clusters: clustersN(12)}
	c := NewController(src, designOther, 1)

	state := c.Load(context.Background(), signedIn)

	assert.NoError(t, state.Err)
	assert.Len(t, state.Clusters, 12)
	assert.Equal(t, 10, state.TotalCount)
}

func TestApply_DiscardsStaleResults(t *testing.T) {
	src := &fakeSource{}
	c := NewController(src, designOther, 1)

	first, ok := c.SetPage(2, signedIn)
	require.True(t, ok)
	second, ok := c.SetPage(3, signedIn)
	require.True(t, ok)
	assert.Greater(t, second.Seq, first.Seq)

	// the slower first cycle resolves last
	assert.True(t, c.Apply(Result{Seq: second.Seq, TotalCount: 150, Clusters: clustersN(50), Skip: 100}))
	assert.False(t, c.Apply(Result{Seq: first.Seq, TotalCount: 1, Clusters: clustersN(1), Skip: 50}))

	state := c.State()
	assert.Equal(t, 3, state.Page)
	assert.Equal(t, 150, state.TotalCount)
	assert.Len(t, state.Clusters, 50)
	assert.False(t, state.Loading)
}

func TestApply_StaleErrorIgnored(t *testing.T) {
	c := NewController(&fakeSource{}, designOther, 1)

	old, _ := c.Begin(signedIn)
	latest, _ := c.Begin(signedIn)

	assert.False(t, c.Apply(Result{Seq: old.Seq, Err: ErrFetchFailed}))
	assert.True(t, c.State().Loading, "latest cycle still outstanding")
	assert.True(t, c.Apply(Result{Seq: latest.Seq}))
	assert.NoError(t, c.State().Err)
}

func TestSetPage_RefetchesEstablishedFilter(t *testing.T) {
	src := &fakeSource{total: 300, clusters: clustersN(50)}
	c := NewController(src, designOther, 1)
	c.Load(context.Background(), signedIn)

	cycle, ok := c.SetPage(4, signedIn)
	require.True(t, ok)
	assert.Equal(t, designOther, cycle.Filter)
	assert.Equal(t, 4, cycle.Page)
	assert.True(t, c.State().Loading)

	c.Apply(c.Fetch(context.Background(), cycle))

	require.Len(t, src.listCalls, 2)
	assert.Equal(t, 150, src.listCalls[1].skip)
	assert.Equal(t, 4, c.State().Page)
}

func TestSetPage_ClampsBelowOne(t *testing.T) {
	c := NewController(&fakeSource{}, designOther, 1)
	cycle, _ := c.SetPage(0, signedIn)
	assert.Equal(t, 1, cycle.Page)
}

func TestState_Pager(t *testing.T) {
	tests := []struct {
		name       string
		totalCount int
		page       int
		visible    bool
		prev, next bool
	}{
		{"empty", 0, 1, false, false, false},
		{"single page", 50, 1, false, false, false},
		{"first of many", 51, 1, true, false, true},
		{"last of many", 120, 3, true, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := State{TotalCount: tt.totalCount, Page: tt.page}
			pager, visible := s.Pager()
			assert.Equal(t, tt.visible, visible)
			assert.Equal(t, tt.prev, pager.HasPrev)
			assert.Equal(t, tt.next, pager.HasNext)
		})
	}
}
