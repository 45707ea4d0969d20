// AngelaMos | 2026
// errors.go

package purchase

import (
	"github.com/carterperez-dev/instaiq-backend/internal/core"
)

var (
	ErrUserNotFound   = core.NotFoundError("user")
	ErrCourseNotFound = core.NotFoundError("course")

	ErrAlreadyPurchased = core.ConflictError(
		"ALREADY_PURCHASED",
		"you have already purchased this course",
	)

	// ErrPurchaseInconsistent means the course already lists the user as a
	// purchaser while the user side has no record of it.
	ErrPurchaseInconsistent = core.ConflictError(
		"PURCHASE_INCONSISTENT",
		"purchase records are inconsistent for this course",
	)
)
