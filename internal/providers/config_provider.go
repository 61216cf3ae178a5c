package providers

import (
	"fmt"
	"github.com/spf13/viper"
	"path/filepath"
	"pcd/internal/structures"
	"strings"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "PCD_LOG_LEVEL")
	viper.BindEnv("persistence.saveInterval", "PCD_SAVE_INTERVAL")
	viper.BindEnv("rounds.syncInterval", "PCD_SYNC_INTERVAL")
	viper.BindEnv("cache.enabled", "PCD_CACHE_ENABLED")
	viper.BindEnv("cache.size", "PCD_CACHE_SIZE")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	if conf.Voting.MaxRetries <= 0 {
		conf.Voting.MaxRetries = 5
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "PitchCycleDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
