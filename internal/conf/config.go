// config.go: settings struct for trackcutter and functions to load and save
// the settings through viper.
package conf

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// RawInputSettings describes a headerless PCM input stream. All fields are
// mandatory when Enabled is set; there are no presumed defaults.
type RawInputSettings struct {
	Enabled   bool   // input is raw (headerless) audio
	Rate      int    // sampling rate in Hz
	Channels  int    // number of channels
	Bits      int    // bits per sample: 8, 16, 24, 32 or 64
	Encoding  string // "signed", "unsigned" or "float"
	BigEndian bool   // sample words are big-endian
}

// InputSettings contains settings for the input recording.
type InputSettings struct {
	Path       string           // input file path, "-" for standard input
	TimeRange  string           // optional "H:M:S.s-H:M:S.s" bounds
	FrameRange string           // optional "start-end" frame bounds
	Raw        RawInputSettings // raw input parameters
}

// CutSettings contains settings for cutting mode.
type CutSettings struct {
	Action           string  // "log" or "extract"
	CutsFile         string  // cut list destination, "-" for standard output
	ExtractDir       string  // directory where extracted tracks are written
	TrackNamesFile   string  // text file with one track name per line
	MinSilencePeriod int     // minimum silence period between tracks (ms)
	MinSignalPeriod  int     // minimum non-silence period starting a track (ms)
	MinTrackLength   int     // minimum track length (s)
	NoiseFloorDbfs   float64 // noise floor discriminating signal from silence
	Format           string  // cut point format: "frames", "time" or "seconds"
	NoHeader         bool    // suppress the cuts file header
	TrackRange       string  // optional "start-end" track number bounds
}

// SignalSettings contains per-run signal conditioning settings.
type SignalSettings struct {
	DCOffset []float64 // per-channel DC offset correction, within [-1, +1]
	HighPass bool      // run the signal through the 20 Hz high-pass filter
}

// LogSettings contains settings for the optional log file.
type LogSettings struct {
	Enabled bool   // write a structured log file
	Path    string // log file path
}

// Settings is the complete configuration for a run.
type Settings struct {
	Debug  bool // enable debug output
	Log    LogSettings
	Input  InputSettings
	Cut    CutSettings
	Signal SignalSettings
}

var (
	settingsInstance *Settings
	settingsOnce     sync.Once
	settingsMutex    sync.RWMutex
)

// Load reads configuration into a Settings struct: defaults first, then an
// optional config file, then environment variables. Command-line flags are
// bound by the cmd package and take precedence through viper.
func Load() (*Settings, error) {
	settings := &Settings{}

	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling settings: %w", err)
	}

	settingsMutex.Lock()
	settingsInstance = settings
	settingsMutex.Unlock()
	return settings, nil
}

func initViper() error {
	viper.SetConfigType("yaml")
	viper.SetConfigName("trackcutter")
	viper.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		viper.AddConfigPath(filepath.Join(dir, "trackcutter"))
	}
	viper.SetEnvPrefix("trackcutter")
	viper.AutomaticEnv()

	setDefaultConfig()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// No config file is fine, defaults and flags cover everything.
	}
	return nil
}

// Setting returns the current settings instance, loading defaults if Load has
// not been called. Used by packages that only need read access.
func Setting() *Settings {
	settingsOnce.Do(func() {
		settingsMutex.RLock()
		loaded := settingsInstance != nil
		settingsMutex.RUnlock()
		if !loaded {
			if _, err := Load(); err != nil {
				log.Fatalf("error loading settings: %v", err)
			}
		}
	})
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// SaveSettings writes the given settings as YAML to the given path, creating
// parent directories as needed. Used by `trackcutter cut --save-config`.
func SaveSettings(settings *Settings, path string) error {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("error marshaling settings: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}
