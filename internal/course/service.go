// AngelaMos | 2026
// service.go

package course

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/instaiq-backend/internal/core"
)

var (
	ErrTitleExists = core.NewAppError(
		core.ErrDuplicateKey,
		"a course with this title already exists",
		http.StatusConflict,
		"DUPLICATE",
	)
	ErrImageRequired = core.ValidationError("image is required")

	// ErrSearchUnavailable is returned by an Indexer that cannot serve
	// queries; the service then falls back to a database search.
	ErrSearchUnavailable = errors.New("search unavailable")
)

// Indexer mirrors the catalog into a full-text search engine.
type Indexer interface {
	IndexCourse(ctx context.Context, course *Course) error
	DeleteCourse(ctx context.Context, id string) error
	SearchCourses(ctx context.Context, query string) ([]string, error)
}

type Service struct {
	repo    Repository
	cache   Cache
	indexer Indexer
}

// NewService accepts a nil cache or indexer when those backends are
// disabled.
func NewService(repo Repository, cache Cache, indexer Indexer) *Service {
	if cache == nil {
		cache = noopCache{}
	}
	if indexer == nil {
		indexer = noopIndexer{}
	}
	return &Service{repo: repo, cache: cache, indexer: indexer}
}

func (s *Service) List(ctx context.Context, search string) ([]Course, error) {
	if q := strings.TrimSpace(search); q != "" {
		return s.search(ctx, q)
	}

	courses, err := s.cache.GetCatalog(ctx)
	if err == nil {
		return courses, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		slog.WarnContext(ctx, "catalog cache read failed", "error", err)
	}

	courses, err = s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetCatalog(ctx, courses); err != nil {
		slog.WarnContext(ctx, "catalog cache write failed", "error", err)
	}

	return courses, nil
}

func (s *Service) search(ctx context.Context, q string) ([]Course, error) {
	ids, err := s.indexer.SearchCourses(ctx, q)
	if err == nil {
		return s.repo.ListByIDs(ctx, ids)
	}
	if !errors.Is(err, ErrSearchUnavailable) {
		slog.WarnContext(ctx, "search index query failed, using database",
			"query", q,
			"error", err,
		)
	}

	return s.repo.Search(ctx, q)
}

func (s *Service) Get(ctx context.Context, id string) (*Course, error) {
	return s.repo.GetByID(ctx, id)
}

// Create stores a new course. uploadedImage, when set, takes precedence
// over an image URL supplied in the request.
func (s *Service) Create(
	ctx context.Context,
	req CreateCourseRequest,
	uploadedImage string,
) (*Course, error) {
	image := req.ImageURL
	if uploadedImage != "" {
		image = uploadedImage
	}
	if image == "" {
		return nil, ErrImageRequired
	}

	course := &Course{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Price:       *req.Price,
		ImageURL:    image,
		Details:     Details(req.Details),
	}
	if course.Details == nil {
		course.Details = Details{}
	}

	if err := s.repo.Create(ctx, course); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrTitleExists
		}
		return nil, err
	}

	s.afterWrite(ctx, course)
	return course, nil
}

func (s *Service) Update(
	ctx context.Context,
	id string,
	req UpdateCourseRequest,
	uploadedImage string,
) (*Course, error) {
	course, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		course.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		course.Description = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		course.Price = *req.Price
	}
	if req.ImageURL != nil {
		course.ImageURL = *req.ImageURL
	}
	if uploadedImage != "" {
		course.ImageURL = uploadedImage
	}
	if req.Details != nil {
		course.Details = Details(*req.Details)
		if course.Details == nil {
			course.Details = Details{}
		}
	}

	if err := s.repo.Update(ctx, course); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrTitleExists
		}
		return nil, err
	}

	s.afterWrite(ctx, course)
	return course, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx)
	if err := s.indexer.DeleteCourse(ctx, id); err != nil &&
		!errors.Is(err, ErrSearchUnavailable) {
		slog.WarnContext(ctx, "search index delete failed",
			"course_id", id,
			"error", err,
		)
	}

	return nil
}

func (s *Service) Purchasers(
	ctx context.Context,
	id string,
) (*Course, []Purchaser, error) {
	course, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	purchasers, err := s.repo.ListPurchasers(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return course, purchasers, nil
}

// Reindex pushes every stored course to the search index.
func (s *Service) Reindex(ctx context.Context) (int, error) {
	courses, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}

	for i := range courses {
		if err := s.indexer.IndexCourse(ctx, &courses[i]); err != nil {
			return i, fmt.Errorf("reindex course %s: %w", courses[i].ID, err)
		}
	}

	return len(courses), nil
}

func (s *Service) afterWrite(ctx context.Context, course *Course) {
	s.invalidate(ctx)

	if err := s.indexer.IndexCourse(ctx, course); err != nil &&
		!errors.Is(err, ErrSearchUnavailable) {
		slog.WarnContext(ctx, "search index update failed",
			"course_id", course.ID,
			"error", err,
		)
	}
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		slog.WarnContext(ctx, "catalog cache invalidation failed", "error", err)
	}
}

type noopIndexer struct{}

func (noopIndexer) IndexCourse(context.Context, *Course) error { return ErrSearchUnavailable }
func (noopIndexer) DeleteCourse(context.Context, string) error { return ErrSearchUnavailable }

func (noopIndexer) SearchCourses(context.Context, string) ([]string, error) {
	return nil, ErrSearchUnavailable
}
