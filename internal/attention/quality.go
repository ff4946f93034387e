package attention

import "github.com/dkeye/Stage/internal/domain"

// Assignment is one per-participant video-quality instruction for the media
// provider.
type Assignment struct {
	Participant domain.ParticipantID
	Tier        domain.QualityTier
}

// QualityAllocator maps the current active-speakers set into quality tiers.
// It deliberately reacts to the raw detector signal, not the decayed score:
// quality must flip as fast as the detector does, with no dwell.
//
// Assignments are recomputed from scratch on every roster or speaking change
// and re-issued wholesale, so a request the provider dropped is healed by the
// next triggering event. The only remembered bit per participant is whether
// any speaking signal has been seen since they appeared, which backs the
// neutral Medium default before prioritization has run once.
type QualityAllocator struct {
	signaled map[domain.ParticipantID]bool
}

func NewQualityAllocator() *QualityAllocator {
	return &QualityAllocator{signaled: make(map[domain.ParticipantID]bool)}
}

// NoteSpeakingSignal records that an active-speakers report has been applied
// while the given roster was present.
func (a *QualityAllocator) NoteSpeakingSignal(roster []domain.ParticipantID) {
	for _, id := range roster {
		a.signaled[id] = true
	}
}

// Allocate computes the tier for every remote participant: High while in the
// active-speakers set, Low otherwise, Medium until the first speaking signal
// has arrived for them.
func (a *QualityAllocator) Allocate(
	roster []domain.ParticipantID,
	local domain.ParticipantID,
	active map[domain.ParticipantID]bool,
) []Assignment {
	out := make([]Assignment, 0, len(roster))
	for _, id := range roster {
		if id == local {
			continue
		}
		tier := domain.QualityLow
		switch {
		case !a.signaled[id]:
			tier = domain.QualityMedium
		case active[id]:
			tier = domain.QualityHigh
		}
		out = append(out, Assignment{Participant: id, Tier: tier})
	}
	return out
}

// Remove forgets a departed participant.
func (a *QualityAllocator) Remove(id domain.ParticipantID) {
	delete(a.signaled, id)
}

// Reset drops all remembered state.
func (a *QualityAllocator) Reset() {
	a.signaled = make(map[domain.ParticipantID]bool)
}
