package progression

// PointsPerLevel is the score span of a single level.
const PointsPerLevel = 500

// DefaultScore is the score of a user with no persisted state.
const DefaultScore = 1250

// LevelFor returns the level reached at score. Level 1 starts at zero.
func LevelFor(score int) int {
	return score/PointsPerLevel + 1
}

// ProgressFor returns the percentage progress through the current level,
// in [0, 100).
func ProgressFor(score int) float64 {
	return float64(score%PointsPerLevel) * 100 / PointsPerLevel
}

// ThresholdFor returns the score at which the next level begins.
func ThresholdFor(score int) int {
	return LevelFor(score) * PointsPerLevel
}

// SourceLabel names an award source for display.
func SourceLabel(source string) string {
	switch source {
	case SourceMemoryTrial:
		return "Memory test"
	case SourceSleepLog:
		return "Sleep log"
	case SourceMedication:
		return "Medication"
	case SourceSpeech:
		return "Read aloud"
	case SourceAssessment:
		return "Monthly checkup"
	}
	return source
}
