package services

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// taskIDSeq disambiguates task IDs generated within the same clock second.
// A timestamp-plus-owner scheme alone cannot guarantee uniqueness under rapid
// creation by the same user; the unique index on tasks.task_id backs this up
// across process restarts.
var taskIDSeq atomic.Uint64

// generateTaskID derives the external task correlation key from the creation
// timestamp, a fragment of the owner ID and a process-wide counter.
func generateTaskID(now time.Time, ownerID uuid.UUID) string {
	seq := taskIDSeq.Add(1)
	return fmt.Sprintf("%s-%s-%d", now.UTC().Format("20060102150405"), ownerID.String()[:8], seq)
}
