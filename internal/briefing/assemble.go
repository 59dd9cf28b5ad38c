package briefing

import (
	"time"

	"github.com/google/uuid"
)

// Assemble normalizes card identities and timestamps, tags provenance and
// emits the final result envelope. Values already present from upstream are
// never overwritten, so assembling an already-normalized set is a no-op.
// Success is always true at this layer: only the outermost request handler
// may report failure, and only when even the static catalog is unreachable.
func Assemble(cards []BriefingCard, tier string, newsCount, ragCount int, note string) PipelineResult {
	now := time.Now().UTC()
	for i := range cards {
		if cards[i].ID == "" {
			cards[i].ID = uuid.NewString()
		}
		if cards[i].Timestamp.IsZero() {
			cards[i].Timestamp = now
		}
	}
	return PipelineResult{
		Success:       true,
		Cards:         cards,
		GeneratedAt:   now,
		NewsItemsUsed: newsCount,
		RagDocsUsed:   ragCount,
		Source:        tier,
		Note:          note,
	}
}
