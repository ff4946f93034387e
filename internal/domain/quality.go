package domain

// QualityTier is a coarse bandwidth/resolution class requested for a remote
// video stream.
type QualityTier int

const (
	QualityLow QualityTier = iota
	QualityMedium
	QualityHigh
)

func (t QualityTier) String() string {
	switch t {
	case QualityHigh:
		return "high"
	case QualityMedium:
		return "medium"
	default:
		return "low"
	}
}
