package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Persistence struct {
	FilePath     string        `yaml:"filePath" validate:"required|unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

// VotingRoundConfig holds the timed phase durations of the voting round.
type VotingRoundConfig struct {
	Pitching  time.Duration `yaml:"pitching" validate:"required|min:1"`
	Preparing time.Duration `yaml:"preparing" validate:"required|min:1"`
	Voting    time.Duration `yaml:"voting" validate:"required|min:1"`
}

// FinalRoundConfig holds the timed phase durations of the final round.
// The Q&A pause between pitching and the rating warning is unbounded and
// therefore carries no duration here.
type FinalRoundConfig struct {
	Pitching      time.Duration `yaml:"pitching" validate:"required|min:1"`
	RatingWarning time.Duration `yaml:"ratingWarning" validate:"required|min:1"`
	RatingActive  time.Duration `yaml:"ratingActive" validate:"required|min:1"`
}

type RoundsConfig struct {
	Voting       VotingRoundConfig `yaml:"voting"`
	Final        FinalRoundConfig  `yaml:"final"`
	SyncInterval time.Duration     `yaml:"syncInterval" validate:"required|min:1"`
}

type ScoringConfig struct {
	PeerMin          float64 `yaml:"peerMin" validate:"required"`
	PeerMax          float64 `yaml:"peerMax" validate:"required"`
	PeerDefaultScore float64 `yaml:"peerDefaultScore" validate:"required"`
	JudgeFinalMin    float64 `yaml:"judgeFinalMin"`
	JudgeFinalMax    float64 `yaml:"judgeFinalMax" validate:"required"`
	JudgeLiveMin     float64 `yaml:"judgeLiveMin"`
	JudgeLiveMax     float64 `yaml:"judgeLiveMax" validate:"required"`
}

type VotingConfig struct {
	MaxNoVotes     int `yaml:"maxNoVotes" validate:"required|min:1"`
	StartingTokens int `yaml:"startingTokens" validate:"required|min:0"`
	MaxRetries     int `yaml:"maxRetries"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
	TTL     int  `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	Rounds      RoundsConfig  `yaml:"rounds"`
	Scoring     ScoringConfig `yaml:"scoring"`
	Voting      VotingConfig  `yaml:"voting"`
	WebServer   Server        `yaml:"webServer"`
	Persistence Persistence   `yaml:"persistence"`
	Logger      LoggerConfig  `yaml:"logger"`
	Cache       CacheConfig   `yaml:"cache"`
	Metrics     MetricsConfig `yaml:"metrics"`
}
