package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	Remote   RemoteConfig
	Poll     PollConfig
	Viewport ViewportConfig
	State    StateConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Remote.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env       string `envconfig:"CLUBSYNC_APP_ENV" default:"dev"`
	Port      string `envconfig:"CLUBSYNC_APP_PORT" default:"7420"`
	LogLevel  string `envconfig:"CLUBSYNC_LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"CLUBSYNC_LOG_FORMAT" default:"json"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// RemoteConfig points the gateway at the habit-club service.
type RemoteConfig struct {
	BaseURL          string        `envconfig:"CLUBSYNC_REMOTE_BASE_URL" required:"true"`
	Timeout          time.Duration `envconfig:"CLUBSYNC_REMOTE_TIMEOUT" default:"10s"`
	PageSize         int           `envconfig:"CLUBSYNC_REMOTE_PAGE_SIZE" default:"50"`
	LeaderboardLimit int           `envconfig:"CLUBSYNC_REMOTE_LEADERBOARD_LIMIT" default:"50"`
}

func (r RemoteConfig) validate() error {
	if r.PageSize <= 0 {
		return fmt.Errorf("%s must be positive", EnvRemotePageSize)
	}
	if r.LeaderboardLimit <= 0 {
		return fmt.Errorf("%s must be positive", EnvRemoteLeaderboardLimit)
	}
	return nil
}

// PollConfig sets the per-purpose refresh cadences. They are independent on
// purpose: the club list is cheap and slow, club data is the hot path.
type PollConfig struct {
	ClubList time.Duration `envconfig:"CLUBSYNC_POLL_CLUB_LIST" default:"15s"`
	ClubData time.Duration `envconfig:"CLUBSYNC_POLL_CLUB_DATA" default:"3s"`
	Stats    time.Duration `envconfig:"CLUBSYNC_POLL_STATS" default:"30s"`
}

type ViewportConfig struct {
	// Distance from the bottom edge, in viewport units, within which new
	// messages still auto-stick the view to the newest entry.
	NearBottomThreshold float64 `envconfig:"CLUBSYNC_VIEWPORT_NEAR_BOTTOM" default:"40"`
}

type StateConfig struct {
	// Path of the local sqlite file holding session, theme, and pending-join
	// state across restarts.
	DBPath string `envconfig:"CLUBSYNC_STATE_DB_PATH" default:"clubsync.db"`
}
