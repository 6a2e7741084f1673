package points

// Point thresholds gating profile features.
const (
	ProfilePictureUnlock  = 100
	CustomTitleUnlock     = 100
	LeaderboardVisibility = 10
)

// Unlocked reports whether a balance meets a threshold.
func Unlocked(balance, threshold int) bool {
	return balance >= threshold
}
