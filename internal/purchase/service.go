// AngelaMos | 2026
// service.go

package purchase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/instaiq-backend/internal/core"
	"github.com/carterperez-dev/instaiq-backend/internal/course"
	"github.com/carterperez-dev/instaiq-backend/internal/notify"
	"github.com/carterperez-dev/instaiq-backend/internal/user"
)

const publishTimeout = 3 * time.Second

// Receipt describes a committed purchase.
type Receipt struct {
	User        *user.User
	Course      *course.Course
	PurchasedAt time.Time
}

type Service struct {
	tx        core.Transactor
	stores    StoreFactory
	publisher notify.Publisher
}

func NewService(
	tx core.Transactor,
	stores StoreFactory,
	publisher notify.Publisher,
) *Service {
	if publisher == nil {
		publisher = notify.NopPublisher{}
	}
	return &Service{tx: tx, stores: stores, publisher: publisher}
}

// Purchase records that userID bought courseID. Both sides of the record
// are written in one transaction with the user row locked, so concurrent
// purchases by the same user serialize and a failed write leaves neither
// side behind.
func (s *Service) Purchase(ctx context.Context, userID, courseID string) (*Receipt, error) {
	ctx, span := core.StartSpan(ctx, "purchase.Purchase",
		attribute.String("user.id", userID),
		attribute.String("course.id", courseID),
	)
	defer span.End()

	var receipt Receipt
	err := s.tx.InTx(ctx, func(tx core.DBTX) error {
		st := s.stores(tx)

		u, err := st.Users.GetForUpdate(ctx, userID)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		c, err := st.Courses.GetForUpdate(ctx, courseID)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				return ErrCourseNotFound
			}
			return err
		}

		owned, err := st.Users.HasPurchased(ctx, u.ID, c.ID)
		if err != nil {
			return err
		}
		if owned {
			return ErrAlreadyPurchased
		}

		listed, err := st.Courses.HasPurchaser(ctx, c.ID, u.ID)
		if err != nil {
			return err
		}
		if listed {
			slog.WarnContext(ctx, "purchase desync detected",
				"user_id", u.ID,
				"course_id", c.ID,
				"side", SideCourseOnly,
			)
			return ErrPurchaseInconsistent
		}

		if err := st.Users.AddPurchasedCourse(ctx, u.ID, c.ID); err != nil {
			return duplicateAsPurchased(err)
		}
		if err := st.Courses.AddPurchaser(ctx, c.ID, u.ID); err != nil {
			return duplicateAsPurchased(err)
		}

		receipt = Receipt{User: u, Course: c, PurchasedAt: time.Now().UTC()}
		return nil
	})
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, err
	}

	slog.InfoContext(ctx, "purchase completed",
		"user_id", receipt.User.ID,
		"course_id", receipt.Course.ID,
		"price", receipt.Course.Price,
	)
	core.AddSpanEvent(ctx, "purchase.committed")

	s.publish(ctx, &receipt)
	return &receipt, nil
}

// Consistency lists every (user, course) pair recorded on one side only.
func (s *Service) Consistency(ctx context.Context) ([]Mismatch, error) {
	var mismatches []Mismatch
	err := s.tx.InTx(ctx, func(tx core.DBTX) error {
		var err error
		mismatches, err = s.stores(tx).Ledger.Mismatches(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mismatches, nil
}

// Reconcile writes the missing side of every one-sided pair in a single
// transaction and returns how many pairs were repaired.
func (s *Service) Reconcile(ctx context.Context) (int, error) {
	ctx, span := core.StartSpan(ctx, "purchase.Reconcile")
	defer span.End()

	repaired := 0
	err := s.tx.InTx(ctx, func(tx core.DBTX) error {
		ledger := s.stores(tx).Ledger

		mismatches, err := ledger.Mismatches(ctx)
		if err != nil {
			return err
		}

		for _, m := range mismatches {
			wrote, err := ledger.Repair(ctx, m)
			if err != nil {
				return err
			}
			if wrote {
				repaired++
			}
		}
		return nil
	})
	if err != nil {
		core.SetSpanError(ctx, err)
		return 0, err
	}

	if repaired > 0 {
		slog.InfoContext(ctx, "purchase records reconciled", "repaired", repaired)
	}
	return repaired, nil
}

func (s *Service) publish(ctx context.Context, r *Receipt) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	err := s.publisher.Publish(ctx, notify.KeyCoursePurchased, notify.CoursePurchased{
		UserID:      r.User.ID,
		UserName:    r.User.Name,
		UserEmail:   r.User.Email,
		CourseID:    r.Course.ID,
		CourseTitle: r.Course.Title,
		Price:       r.Course.Price,
		PurchasedAt: r.PurchasedAt,
	})
	if err != nil {
		slog.WarnContext(ctx, "purchase notification failed",
			"user_id", r.User.ID,
			"course_id", r.Course.ID,
			"error", err,
		)
	}
}

func duplicateAsPurchased(err error) error {
	if errors.Is(err, core.ErrDuplicateKey) {
		return ErrAlreadyPurchased
	}
	return err
}
