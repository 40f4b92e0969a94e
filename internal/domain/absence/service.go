package absence

import (
	"context"

	"github.com/chub-app/chub-backend-go/internal/domain/attendance"
)

// Detector finds members whose consecutive-missed streak against the service
// calendar reached the caller's threshold. The result is recomputed on every
// call; nothing about absence is ever stored.
type Detector interface {
	FindAbsentMembers(ctx context.Context, consecutiveMissed int) ([]attendance.AbsentMemberResponse, error)
}
