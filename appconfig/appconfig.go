package appconfig

import (
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type AppConfig struct {
	NumWorkers    int           `env:"A3C_WORKERS" env-default:"4"`
	Variant       string        `env:"A3C_VARIANT" env-default:"beta"`
	SegmentLength int           `env:"A3C_SEGMENT_LENGTH" env-default:"20"`
	FrameStack    int           `env:"A3C_FRAME_STACK" env-default:"4"`
	HiddenSize    int           `env:"A3C_HIDDEN_SIZE" env-default:"32"`
	QueueCapacity int           `env:"A3C_QUEUE_CAPACITY" env-default:"5"`
	QueueTimeout  time.Duration `env:"A3C_QUEUE_TIMEOUT" env-default:"600s"`
	Gamma         float64       `env:"A3C_GAMMA" env-default:"0.99"`
	Lambda        float64       `env:"A3C_LAMBDA" env-default:"1.0"`
	GradClip      float64       `env:"A3C_GRAD_CLIP" env-default:"40.0"`
	LearningRate  float64       `env:"A3C_LEARNING_RATE" env-default:"0.0001"`
	SummaryPeriod int           `env:"A3C_SUMMARY_PERIOD" env-default:"11"`
	TotalSteps    int64         `env:"A3C_TOTAL_STEPS" env-default:"2000000"`
	RandomSeed    int64         `env:"A3C_RANDOM_SEED" env-default:"44"`
	Render        bool          `env:"A3C_RENDER" env-default:"false"`

	// Websocket URL of a remote environment server; empty runs the
	// bundled cartpole.
	EnvAddr string `env:"A3C_ENV_ADDR" env-default:""`

	MaxEpisodeSteps int `env:"A3C_MAX_EPISODE_STEPS" env-default:"500"`
}

// Load environment variables to AppConfig instance
func LoadAppConfig() (*AppConfig, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, err
		}
	}
	cfg := &AppConfig{}
	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
