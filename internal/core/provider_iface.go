package core

import "github.com/dkeye/Stage/internal/domain"

// MediaProvider is the capability surface the attention core consumes from
// the real-time media layer. Every call is advisory and fire-and-forget: the
// core never awaits confirmation, never retries, and never surfaces provider
// failures to its caller. A request the provider fails to apply is simply
// re-issued by the next triggering event.
type MediaProvider interface {
	// RequestVideoQuality asks the provider to deliver the participant's
	// video at the given tier.
	RequestVideoQuality(id domain.ParticipantID, tier domain.QualityTier)
	// Disconnect tears the media session down. Must be safe to call from
	// a best-effort unload path.
	Disconnect()
}
