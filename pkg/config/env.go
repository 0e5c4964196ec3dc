package config

// EnvPrefix is passed to envconfig; individual fields carry fully qualified
// names so the prefix only matters for fields without explicit tags.
const EnvPrefix = "CLUBSYNC"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names, exported for tests and operational docs.
const (
	EnvAppEnv    = "CLUBSYNC_APP_ENV"
	EnvAppPort   = "CLUBSYNC_APP_PORT"
	EnvLogLevel  = "CLUBSYNC_LOG_LEVEL"
	EnvLogFormat = "CLUBSYNC_LOG_FORMAT"

	EnvRemoteBaseURL          = "CLUBSYNC_REMOTE_BASE_URL"
	EnvRemoteTimeout          = "CLUBSYNC_REMOTE_TIMEOUT"
	EnvRemotePageSize         = "CLUBSYNC_REMOTE_PAGE_SIZE"
	EnvRemoteLeaderboardLimit = "CLUBSYNC_REMOTE_LEADERBOARD_LIMIT"

	EnvPollClubList = "CLUBSYNC_POLL_CLUB_LIST"
	EnvPollClubData = "CLUBSYNC_POLL_CLUB_DATA"
	EnvPollStats    = "CLUBSYNC_POLL_STATS"

	EnvViewportNearBottom = "CLUBSYNC_VIEWPORT_NEAR_BOTTOM"
	EnvStateDBPath        = "CLUBSYNC_STATE_DB_PATH"
)
