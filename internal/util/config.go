package util

import (
	"os"

	"github.com/BurntSushi/toml"
)

// DefaultConfigFile is looked for in the working directory; a missing file
// just means defaults.
const DefaultConfigFile = "zac.toml"

type Configuration struct {
	Version   string `toml:"-"`
	BuildDate string `toml:"-"`
	Commit    string `toml:"-"`

	LogLevel        string `toml:"log_level"`
	LogFile         string `toml:"log_file"`
	WritebackPolicy string `toml:"writeback_policy"` // pad | truncate | fault
	ReplHistory     string `toml:"repl_history"`
}

func DefaultConfiguration() Configuration {
	return Configuration{
		LogLevel:        "none",
		WritebackPolicy: "pad",
		ReplHistory:     ".zac_history",
	}
}

// LoadConfiguration reads a TOML config file over the defaults.
func LoadConfiguration(path string) (Configuration, error) {
	cfg := DefaultConfiguration()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	return cfg, nil
}
