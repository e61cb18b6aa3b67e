package application

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/apexfit/booking-api/internal/domain/entity"
	repo "github.com/apexfit/booking-api/internal/domain/repository"
	"github.com/apexfit/booking-api/pkg/helpers"
)

// Cache keys for class list queries. Invalidated whenever a booking
// changes a class's booked_count.
const (
	cacheKeyAllClasses      = "classes:all"
	cacheKeyUpcomingClasses = "classes:upcoming"

	classCacheTTL = 60 * time.Second
)

// ClassService serves the class catalog: Postgres is the source of truth,
// Redis caches list queries and Elasticsearch powers text search.
type ClassService struct {
	Repo    repo.ClassRepository
	Redis   *redis.Client
	ES      *elasticsearch.Client
	ESIndex string
	Logger  *logrus.Logger
	Now     func() time.Time
}

func NewClassService(r repo.ClassRepository, rdb *redis.Client, es *elasticsearch.Client, esIndex string, logger *logrus.Logger) *ClassService {
	return &ClassService{Repo: r, Redis: rdb, ES: es, ESIndex: esIndex, Logger: logger, Now: time.Now}
}

func (s *ClassService) List(ctx context.Context) ([]*entity.Class, error) {
	return s.listCached(ctx, cacheKeyAllClasses, func() ([]*entity.Class, error) {
		return s.Repo.List(ctx)
	})
}

func (s *ClassService) ListUpcoming(ctx context.Context) ([]*entity.Class, error) {
	return s.listCached(ctx, cacheKeyUpcomingClasses, func() ([]*entity.Class, error) {
		return s.Repo.ListUpcoming(ctx, s.Now())
	})
}

func (s *ClassService) GetByID(ctx context.Context, id string) (*entity.Class, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *ClassService) listCached(ctx context.Context, key string, load func() ([]*entity.Class, error)) ([]*entity.Class, error) {
	if s.Redis != nil {
		var cached []*entity.Class
		if hit, err := helpers.RedisGetJSON(ctx, s.Redis, key, &cached); err == nil && hit {
			return cached, nil
		} else if err != nil {
			s.Logger.WithError(err).WithField("key", key).Warn("class cache read failed")
		}
	}

	classes, err := load()
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, key, classes, classCacheTTL); err != nil {
			s.Logger.WithError(err).WithField("key", key).Warn("class cache write failed")
		}
	}
	return classes, nil
}

// classDoc is the Elasticsearch document shape for a class.
type classDoc struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Instructor string    `json:"instructor"`
	LocationID string    `json:"location_id"`
	StartTime  time.Time `json:"start_time"`
}

// Search runs a multi_match query over class name and instructor. Results
// are re-fetched from Postgres so booked counts are current.
func (s *ClassService) Search(ctx context.Context, query string, size int) ([]*entity.Class, error) {
	if s.ES == nil {
		return nil, fmt.Errorf("search is not configured")
	}
	if size <= 0 || size > 50 {
		size = 20
	}

	body := map[string]any{
		"size": size,
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  query,
				"fields": []string{"name^2", "instructor"},
			},
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, err
	}

	res, err := s.ES.Search(
		s.ES.Search.WithContext(ctx),
		s.ES.Search.WithIndex(s.ESIndex),
		s.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("search failed: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source classDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]*entity.Class, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		c, cErr := s.Repo.GetByID(ctx, h.Source.ID)
		if cErr != nil {
			s.Logger.WithField("class_id", h.Source.ID).Warn("search hit missing from database")
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// IndexClass upserts a class document into the search index.
func (s *ClassService) IndexClass(ctx context.Context, c *entity.Class) error {
	if s.ES == nil {
		return nil
	}
	doc := classDoc{ID: c.ID, Name: c.Name, Instructor: c.Instructor, LocationID: c.LocationID, StartTime: c.StartTime}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	res, err := s.ES.Index(s.ESIndex, bytes.NewReader(b),
		s.ES.Index.WithContext(ctx),
		s.ES.Index.WithDocumentID(c.ID),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index class %s: %s", c.ID, res.Status())
	}
	return nil
}

// ReindexAll pushes every class into the search index. Called at startup;
// failures are logged per document and do not stop the sweep.
func (s *ClassService) ReindexAll(ctx context.Context) error {
	if s.ES == nil {
		return nil
	}
	classes, err := s.Repo.List(ctx)
	if err != nil {
		return err
	}
	for _, c := range classes {
		if err := s.IndexClass(ctx, c); err != nil {
			s.Logger.WithError(err).WithField("class_id", c.ID).Warn("reindex failed")
		}
	}
	s.Logger.WithField("count", len(classes)).Info("class search index refreshed")
	return nil
}
