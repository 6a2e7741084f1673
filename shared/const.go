package shared

const (
	UserID = "user_id"

	LeaderboardToday     = "today"
	LeaderboardYesterday = "yesterday"
	LeaderboardMonth     = "this_month"
	LeaderboardOverall   = "overall"
)
