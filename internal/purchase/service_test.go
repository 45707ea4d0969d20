// AngelaMos | 2026
// service_test.go

package purchase

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/instaiq-backend/internal/core"
	"github.com/carterperez-dev/instaiq-backend/internal/course"
	"github.com/carterperez-dev/instaiq-backend/internal/notify"
	"github.com/carterperez-dev/instaiq-backend/internal/user"
)

const (
	learnerID = "7a6b5c4d-3e2f-4a1b-9c8d-7e6f5a4b3c2d"
	goID      = "1f0c6a52-5b1e-4c4f-9a55-2d1c5c7c0001"
	rustID    = "1f0c6a52-5b1e-4c4f-9a55-2d1c5c7c0002"
	missingID = "00000000-0000-4000-8000-000000000000"
)

type pair struct {
	userID   string
	courseID string
}

// world is an in-memory database shared by the fake repositories.
type world struct {
	users      map[string]*user.User
	courses    map[string]*course.Course
	userSide   map[pair]time.Time
	courseSide map[pair]time.Time

	addPurchaserErr error
	writes          int
}

func newWorld() *world {
	return &world{
		users: map[string]*user.User{
			learnerID: {ID: learnerID, Name: "Ada", Email: "ada@example.com", Role: user.RoleUser},
		},
		courses: map[string]*course.Course{
			goID:   {ID: goID, Title: "Go Fundamentals", Price: 49},
			rustID: {ID: rustID, Title: "Rust in Practice", Price: 59},
		},
		userSide:   map[pair]time.Time{},
		courseSide: map[pair]time.Time{},
	}
}

type worldUsers struct{ w *world }

func (s worldUsers) GetForUpdate(_ context.Context, id string) (*user.User, error) {
	u, ok := s.w.users[id]
	if !ok {
		return nil, fmt.Errorf("lock user: %w", core.ErrNotFound)
	}
	return u, nil
}

func (s worldUsers) HasPurchased(_ context.Context, userID, courseID string) (bool, error) {
	_, ok := s.w.userSide[pair{userID, courseID}]
	return ok, nil
}

func (s worldUsers) AddPurchasedCourse(_ context.Context, userID, courseID string) error {
	s.w.writes++
	s.w.userSide[pair{userID, courseID}] = time.Now()
	return nil
}

type worldCourses struct{ w *world }

func (s worldCourses) GetForUpdate(_ context.Context, id string) (*course.Course, error) {
	c, ok := s.w.courses[id]
	if !ok {
		return nil, fmt.Errorf("lock course: %w", core.ErrNotFound)
	}
	return c, nil
}

func (s worldCourses) HasPurchaser(_ context.Context, courseID, userID string) (bool, error) {
	_, ok := s.w.courseSide[pair{userID, courseID}]
	return ok, nil
}

func (s worldCourses) AddPurchaser(_ context.Context, courseID, userID string) error {
	if s.w.addPurchaserErr != nil {
		return s.w.addPurchaserErr
	}
	s.w.writes++
	s.w.courseSide[pair{userID, courseID}] = time.Now()
	return nil
}

type worldLedger struct{ w *world }

func (s worldLedger) Mismatches(context.Context) ([]Mismatch, error) {
	out := []Mismatch{}
	for p := range s.w.userSide {
		if _, ok := s.w.courseSide[p]; !ok {
			out = append(out, Mismatch{UserID: p.userID, CourseID: p.courseID, Side: SideUserOnly})
		}
	}
	for p := range s.w.courseSide {
		if _, ok := s.w.userSide[p]; !ok {
			out = append(out, Mismatch{UserID: p.userID, CourseID: p.courseID, Side: SideCourseOnly})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CourseID < out[j].CourseID })
	return out, nil
}

func (s worldLedger) Repair(_ context.Context, m Mismatch) (bool, error) {
	p := pair{m.UserID, m.CourseID}
	switch m.Side {
	case SideUserOnly:
		s.w.courseSide[p] = s.w.userSide[p]
	case SideCourseOnly:
		s.w.userSide[p] = s.w.courseSide[p]
	}
	return true, nil
}

// fakeTx snapshots both purchase sides and restores them when fn fails.
type fakeTx struct {
	w         *world
	commits   int
	rollbacks int
}

func (f *fakeTx) InTx(_ context.Context, fn func(tx core.DBTX) error) error {
	userSnap := maps.Clone(f.w.userSide)
	courseSnap := maps.Clone(f.w.courseSide)

	if err := fn(nil); err != nil {
		f.w.userSide = userSnap
		f.w.courseSide = courseSnap
		f.rollbacks++
		return err
	}

	f.commits++
	return nil
}

type fakePublisher struct {
	events []notify.CoursePurchased
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, key string, event any) error {
	if p.err != nil {
		return p.err
	}
	if key == notify.KeyCoursePurchased {
		p.events = append(p.events, event.(notify.CoursePurchased))
	}
	return nil
}

func newTestService(w *world, pub notify.Publisher) (*Service, *fakeTx) {
	tx := &fakeTx{w: w}
	stores := func(core.DBTX) Stores {
		return Stores{
			Users:   worldUsers{w},
			Courses: worldCourses{w},
			Ledger:  worldLedger{w},
		}
	}
	return NewService(tx, stores, pub), tx
}

func TestPurchase_WritesBothSides(t *testing.T) {
	w := newWorld()
	pub := &fakePublisher{}
	svc, tx := newTestService(w, pub)

	receipt, err := svc.Purchase(context.Background(), learnerID, goID)
	require.NoError(t, err)

	assert.Equal(t, "Go Fundamentals", receipt.Course.Title)
	assert.Contains(t, w.userSide, pair{learnerID, goID})
	assert.Contains(t, w.courseSide, pair{learnerID, goID})
	assert.Equal(t, 1, tx.commits)

	require.Len(t, pub.events, 1)
	assert.Equal(t, "ada@example.com", pub.events[0].UserEmail)
	assert.Equal(t, goID, pub.events[0].CourseID)
}

func TestPurchase_TwiceConflictsWithoutChanges(t *testing.T) {
	w := newWorld()
	svc, tx := newTestService(w, nil)

	_, err := svc.Purchase(context.Background(), learnerID, goID)
	require.NoError(t, err)
	writes := w.writes

	_, err = svc.Purchase(context.Background(), learnerID, goID)

	require.ErrorIs(t, err, ErrAlreadyPurchased)
	assert.ErrorIs(t, err, core.ErrConflict)
	assert.Equal(t, writes, w.writes)
	assert.Len(t, w.userSide, 1)
	assert.Len(t, w.courseSide, 1)
	assert.Equal(t, 1, tx.commits)
}

func TestPurchase_MissingCourseIsNotFound(t *testing.T) {
	w := newWorld()
	svc, tx := newTestService(w, nil)

	_, err := svc.Purchase(context.Background(), learnerID, missingID)

	require.ErrorIs(t, err, ErrCourseNotFound)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.Zero(t, w.writes)
	assert.Zero(t, tx.commits)
}

func TestPurchase_MissingUserIsNotFound(t *testing.T) {
	w := newWorld()
	svc, _ := newTestService(w, nil)

	_, err := svc.Purchase(context.Background(), missingID, goID)

	require.ErrorIs(t, err, ErrUserNotFound)
	assert.Zero(t, w.writes)
}

func TestPurchase_OneSidedPurchaserIsInconsistent(t *testing.T) {
	w := newWorld()
	w.courseSide[pair{learnerID, goID}] = time.Now()
	svc, _ := newTestService(w, nil)

	_, err := svc.Purchase(context.Background(), learnerID, goID)

	require.ErrorIs(t, err, ErrPurchaseInconsistent)
	assert.NotContains(t, w.userSide, pair{learnerID, goID})
	assert.Zero(t, w.writes)
}

func TestPurchase_SecondWriteFailureRollsBack(t *testing.T) {
	w := newWorld()
	w.addPurchaserErr = errors.New("connection reset")
	pub := &fakePublisher{}
	svc, tx := newTestService(w, pub)

	_, err := svc.Purchase(context.Background(), learnerID, goID)

	require.Error(t, err)
	assert.Zero(t, tx.commits)
	assert.Equal(t, 1, tx.rollbacks)
	assert.Empty(t, w.userSide)
	assert.Empty(t, w.courseSide)
	assert.Empty(t, pub.events)
}

func TestPurchase_PublishFailureDoesNotFail(t *testing.T) {
	w := newWorld()
	svc, tx := newTestService(w, &fakePublisher{err: errors.New("broker down")})

	_, err := svc.Purchase(context.Background(), learnerID, rustID)

	require.NoError(t, err)
	assert.Equal(t, 1, tx.commits)
	assert.Contains(t, w.courseSide, pair{learnerID, rustID})
}

func TestReconcile_RepairsBothDirections(t *testing.T) {
	w := newWorld()
	w.userSide[pair{learnerID, goID}] = time.Now()
	w.courseSide[pair{learnerID, rustID}] = time.Now()
	svc, _ := newTestService(w, nil)

	mismatches, err := svc.Consistency(context.Background())
	require.NoError(t, err)
	require.Len(t, mismatches, 2)

	repaired, err := svc.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, repaired)

	mismatches, err = svc.Consistency(context.Background())
	require.NoError(t, err)
	assert.Empty(t, mismatches)
	assert.Contains(t, w.courseSide, pair{learnerID, goID})
	assert.Contains(t, w.userSide, pair{learnerID, rustID})
}
