// AngelaMos | 2026
// courses.go

package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/carterperez-dev/instaiq-backend/internal/course"
)

const (
	requestTimeout = 3 * time.Second
	maxHits        = 50
)

const coursesMapping = `{
  "mappings": {
    "properties": {
      "title":       {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "description": {"type": "text"},
      "details":     {"type": "text"},
      "price":       {"type": "scaled_float", "scaling_factor": 100},
      "rating":      {"type": "half_float"},
      "updated_at":  {"type": "date"}
    }
  }
}`

// CourseIndex mirrors catalog entries into Elasticsearch and answers
// full-text queries with course ids ranked by relevance.
type CourseIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewCourseIndex(es *elasticsearch.Client, index string) *CourseIndex {
	return &CourseIndex{es: es, index: index}
}

type courseDocument struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Details     []string `json:"details"`
	Price       float64  `json:"price"`
	Rating      float64  `json:"rating"`
	UpdatedAt   string   `json:"updated_at"`
}

// EnsureIndex creates the courses index with its mapping when missing.
func (i *CourseIndex) EnsureIndex(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := i.es.Indices.Exists([]string{i.index}, i.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index %s: %w", i.index, err)
	}
	_ = res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = i.es.Indices.Create(
		i.index,
		i.es.Indices.Create.WithContext(ctx),
		i.es.Indices.Create.WithBody(strings.NewReader(coursesMapping)),
	)
	if err != nil {
		return fmt.Errorf("create index %s: %w", i.index, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() && !strings.Contains(readBody(res.Body), "resource_already_exists_exception") {
		return fmt.Errorf("create index %s: %s", i.index, res.Status())
	}

	return nil
}

func (i *CourseIndex) IndexCourse(ctx context.Context, c *course.Course) error {
	doc := courseDocument{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Details:     []string(c.Details),
		Price:       c.Price,
		Rating:      c.Rating,
		UpdatedAt:   c.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode course %s: %w", c.ID, err)
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req := esapi.IndexRequest{
		Index:      i.index,
		DocumentID: c.ID,
		Body:       bytes.NewReader(body),
		Refresh:    "false",
	}

	res, err := req.Do(ctx, i.es)
	if err != nil {
		return fmt.Errorf("index course %s: %w", c.ID, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return fmt.Errorf("index course %s: %s", c.ID, res.Status())
	}

	return nil
}

// DeleteCourse removes the document; a document that is already gone is
// not an error.
func (i *CourseIndex) DeleteCourse(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req := esapi.DeleteRequest{Index: i.index, DocumentID: id}

	res, err := req.Do(ctx, i.es)
	if err != nil {
		return fmt.Errorf("delete course %s: %w", id, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete course %s: %s", id, res.Status())
	}

	return nil
}

func (i *CourseIndex) SearchCourses(ctx context.Context, q string) ([]string, error) {
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     q,
				"fields":    []string{"title^3", "description", "details"},
				"fuzziness": "AUTO",
			},
		},
		"size":    maxHits,
		"_source": false,
	}

	body, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("encode search: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := i.es.Search(
		i.es.Search.WithContext(ctx),
		i.es.Search.WithIndex(i.index),
		i.es.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("search courses: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return nil, fmt.Errorf("search courses: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		ids = append(ids, hit.ID)
	}

	return ids, nil
}

// Ping lets the index participate in readiness checks.
func (i *CourseIndex) Ping(ctx context.Context) error {
	res, err := i.es.Ping(i.es.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch ping: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping: %s", res.Status())
	}
	return nil
}

func readBody(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 4096))
	return string(b)
}

var _ course.Indexer = (*CourseIndex)(nil)
