package services

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/dmitrijs2005/matchmaker/internal/logging"
	"github.com/dmitrijs2005/matchmaker/internal/server/metrics"
	"github.com/dmitrijs2005/matchmaker/internal/server/models"
	"github.com/dmitrijs2005/matchmaker/internal/server/objectstore"
	"github.com/dmitrijs2005/matchmaker/internal/server/store"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPredicate(t *testing.T) {
	tests := []struct {
		name string
		in   SearchCriteria
		want []store.Condition
	}{
		{
			name: "empty criteria",
			want: []store.Condition{{Field: "approved", Value: true}},
		},
		{
			name: "strings are normalized",
			in:   SearchCriteria{City: " London ", Gender: "MALE"},
			want: []store.Condition{
				{Field: "approved", Value: true},
				{Field: "gender", Value: "male"},
				{Field: "city", Value: "london"},
			},
		},
		{
			name: "zero values are omitted",
			in:   SearchCriteria{Age: 0, Height: 180, HasChildren: false, WantChildren: true, Religion: "  "},
			want: []store.Condition{
				{Field: "approved", Value: true},
				{Field: "height", Value: 180},
				{Field: "wantChildren", Value: true},
			},
		},
		{
			name: "every criterion",
			in: SearchCriteria{Gender: "f", City: "c", Age: 30, Religion: "r", Ethnicity: "e", Height: 170,
				HasChildren: true, WantChildren: true, Profession: "p", Education: "ed", UniversityDegree: "u"},
			want: []store.Condition{
				{Field: "approved", Value: true},
				{Field: "gender", Value: "f"},
				{Field: "city", Value: "c"},
				{Field: "age", Value: 30},
				{Field: "religion", Value: "r"},
				{Field: "ethnicity", Value: "e"},
				{Field: "height", Value: 170},
				{Field: "hasChildren", Value: true},
				{Field: "wantChildren", Value: true},
				{Field: "profession", Value: "p"},
				{Field: "education", Value: "ed"},
				{Field: "universityDegree", Value: "u"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildPredicate(tt.in).Conditions()
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("conditions mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func seedApplications(t *testing.T, m interface {
	Put(context.Context, *models.Application) error
}, apps ...models.Application) {
	t.Helper()
	for i := range apps {
		require.NoError(t, m.Put(context.Background(), &apps[i]))
	}
}

func ids(views []models.ApplicationView) []string {
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, v.ApplicationID)
	}
	sort.Strings(out)
	return out
}

func TestSearchService_Search(t *testing.T) {
	ctx := context.Background()
	m := newManager(testConfig())
	objects := objectstore.NewMemoryStore()
	seedApplications(t, m.Applications(),
		models.Application{ApplicationID: "a1", UserID: "u1", City: "london", Gender: "female", Age: 30, Approved: true},
		models.Application{ApplicationID: "a2", UserID: "u2", City: "london", Gender: "male", Age: 30, Approved: true, HasChildren: true},
		models.Application{ApplicationID: "a3", UserID: "u3", City: "london", Gender: "female", Age: 30},
		models.Application{ApplicationID: "a4", UserID: "u4", City: "paris", Gender: "female", Age: 41, Approved: true},
	)
	require.NoError(t, objects.PutObject(ctx, "a1", []byte("photo"), "image/jpeg"))

	s := NewSearchService(m, objects, metrics.NewRegistry(), logging.Nop{})

	tests := []struct {
		in   SearchCriteria
		want []string
	}{
		{SearchCriteria{}, []string{"a1", "a2", "a4"}},
		{SearchCriteria{City: "London"}, []string{"a1", "a2"}},
		{SearchCriteria{City: "london", Gender: "female"}, []string{"a1"}},
		{SearchCriteria{Age: 41}, []string{"a4"}},
		{SearchCriteria{HasChildren: true}, []string{"a2"}},
		{SearchCriteria{City: "rome"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%+v", tt.in), func(t *testing.T) {
			got, err := s.Search(ctx, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}

	got, err := s.Search(ctx, SearchCriteria{Gender: "female", City: "london"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].Photo)
}

func TestSearchService_PhotoFetchError(t *testing.T) {
	m := newManager(testConfig())
	s := NewSearchService(m, brokenObjects{}, metrics.NewRegistry(), logging.Nop{})
	seedApplications(t, m.Applications(), models.Application{ApplicationID: "a1", UserID: "u1", Approved: true})

	got, err := s.Search(context.Background(), SearchCriteria{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].Photo, "a failed photo fetch degrades to nil")
}
