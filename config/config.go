package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"schedsim/internal/schedulers"
)

// SchedulerConfig holds server-wide settings and the default policy
// parameters used when a request leaves them unset.
type SchedulerConfig struct {
	Port      int
	DBPath    string
	LogLevel  string
	LogFormat string
	Defaults  schedulers.Config
}

// Load reads config.yaml from the working directory, falling back to
// built-in defaults when the file is absent.
func Load() (*SchedulerConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./")

	def := schedulers.DefaultConfig()
	v.SetDefault("port", 9095)
	v.SetDefault("db_path", "schedsim.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("scheduler.round_robin.time_quantum", def.Quantum)
	v.SetDefault("scheduler.multilevel_feedback_queue.levels_time_quantum", def.MLFQQuantums)
	v.SetDefault("scheduler.priority.high_is_best", def.PriorityHighIsBest)
	v.SetDefault("scheduler.intelligent.weights.waiting", def.Weights.Waiting)
	v.SetDefault("scheduler.intelligent.weights.remaining", def.Weights.Remaining)
	v.SetDefault("scheduler.intelligent.weights.priority", def.Weights.Priority)
	v.SetDefault("scheduler.intelligent.starvation_threshold", def.StarvationThreshold)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &SchedulerConfig{
		Port:      v.GetInt("port"),
		DBPath:    v.GetString("db_path"),
		LogLevel:  v.GetString("log.level"),
		LogFormat: v.GetString("log.format"),
		Defaults: schedulers.Config{
			Quantum:             v.GetInt("scheduler.round_robin.time_quantum"),
			MLFQQuantums:        v.GetIntSlice("scheduler.multilevel_feedback_queue.levels_time_quantum"),
			PriorityHighIsBest:  v.GetBool("scheduler.priority.high_is_best"),
			StarvationThreshold: v.GetInt("scheduler.intelligent.starvation_threshold"),
			Weights: schedulers.Weights{
				Waiting:   v.GetFloat64("scheduler.intelligent.weights.waiting"),
				Remaining: v.GetFloat64("scheduler.intelligent.weights.remaining"),
				Priority:  v.GetFloat64("scheduler.intelligent.weights.priority"),
			},
		},
	}
	return cfg, nil
}
