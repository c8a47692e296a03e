package store

import (
	"log"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

type Config interface {
	BasePath() string
}

// LoadConfig resolves the store location from a .gantt config file, GANTT_*
// environment variables, or the default of ~/.gantt.db.
func LoadConfig() (Config, error) {
	viper.SetDefault("path", "~/.gantt.db")
	viper.SetConfigName(".gantt") // .yaml is implicit
	viper.SetEnvPrefix("GANTT")
	viper.AutomaticEnv()

	if override := os.Getenv("GANTT_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}

	viper.AddConfigPath("./")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatalf("error reading config file: %v", err)
			return nil, err
		}
	}

	path := viper.GetString("path")
	if expanded, err := homedir.Expand(path); err == nil {
		path = expanded
	}

	return &fileConfig{Path: path}, nil
}

type fileConfig struct {
	Path string `json:"path"`
}

func (f *fileConfig) BasePath() string {
	return f.Path
}
