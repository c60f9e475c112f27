package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/matchmaker/internal/common"
	"github.com/dmitrijs2005/matchmaker/internal/logging"
	"github.com/dmitrijs2005/matchmaker/internal/server/metrics"
	"github.com/dmitrijs2005/matchmaker/internal/server/models"
	"github.com/dmitrijs2005/matchmaker/internal/server/objectstore"
	"github.com/dmitrijs2005/matchmaker/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/matchmaker/internal/server/store"
)

// SearchCriteria is a sparse filter. Zero values (empty string, 0, false) are
// left out of the query, so there is no way to search for an empty field or
// for hasChildren=false.
type SearchCriteria struct {
	Gender           string `json:"gender"`
	City             string `json:"city"`
	Age              int    `json:"age"`
	Religion         string `json:"religion"`
	Ethnicity        string `json:"ethnicity"`
	Height           int    `json:"height"`
	HasChildren      bool   `json:"hasChildren"`
	WantChildren     bool   `json:"wantChildren"`
	Profession       string `json:"profession"`
	Education        string `json:"education"`
	UniversityDegree string `json:"universityDegree"`
}

// BuildPredicate compiles criteria into exact-match conditions. The first
// condition is always approved = true.
func BuildPredicate(c SearchCriteria) store.Predicate {
	p := store.Where(models.AttrApproved, true)

	str := func(field, v string) {
		if v = common.Normalize(v); v != "" {
			p = p.And(field, v)
		}
	}
	num := func(field string, v int) {
		if v != 0 {
			p = p.And(field, v)
		}
	}
	flag := func(field string, v bool) {
		if v {
			p = p.And(field, true)
		}
	}

	str("gender", c.Gender)
	str("city", c.City)
	num("age", c.Age)
	str("religion", c.Religion)
	str("ethnicity", c.Ethnicity)
	num("height", c.Height)
	flag("hasChildren", c.HasChildren)
	flag("wantChildren", c.WantChildren)
	str("profession", c.Profession)
	str("education", c.Education)
	str("universityDegree", c.UniversityDegree)

	return p
}

type SearchService struct {
	repomanager repomanager.RepositoryManager
	photos      *photoLoader
	metrics     *metrics.Registry
	logger      logging.Logger
}

func NewSearchService(m repomanager.RepositoryManager, objects objectstore.ObjectStore, reg *metrics.Registry, logger logging.Logger) *SearchService {
	logger = logger.With("module", "search")
	return &SearchService{
		repomanager: m,
		photos:      newPhotoLoader(objects, logger),
		metrics:     reg,
		logger:      logger,
	}
}

// Search returns approved applications matching every present criterion,
// each joined with its photo.
func (s *SearchService) Search(ctx context.Context, c SearchCriteria) (views []models.ApplicationView, err error) {
	defer track(s.metrics, "search", time.Now(), &err)

	apps, err := s.repomanager.Applications().List(ctx, BuildPredicate(c))
	if err != nil {
		return nil, logFailure(ctx, s.logger, "application scan failed", err)
	}
	return s.photos.views(ctx, apps), nil
}
