// conf/defaults.go default values for settings
package conf

import (
	"github.com/spf13/viper"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("log.enabled", false)
	viper.SetDefault("log.path", "trackcutter.log")

	viper.SetDefault("input.path", "")
	viper.SetDefault("input.timerange", "")
	viper.SetDefault("input.framerange", "")
	viper.SetDefault("input.raw.enabled", false)
	viper.SetDefault("input.raw.rate", 0)
	viper.SetDefault("input.raw.channels", 0)
	viper.SetDefault("input.raw.bits", 0)
	viper.SetDefault("input.raw.encoding", "")
	viper.SetDefault("input.raw.bigendian", false)

	viper.SetDefault("cut.action", ActionLog)
	viper.SetDefault("cut.cutsfile", "-")
	viper.SetDefault("cut.extractdir", "")
	viper.SetDefault("cut.tracknamesfile", "")
	viper.SetDefault("cut.minsilenceperiod", 2000)
	viper.SetDefault("cut.minsignalperiod", 100)
	viper.SetDefault("cut.mintracklength", 40)
	viper.SetDefault("cut.noisefloordbfs", -48.0)
	viper.SetDefault("cut.format", FormatTime)
	viper.SetDefault("cut.noheader", false)
	viper.SetDefault("cut.trackrange", "")

	viper.SetDefault("signal.dcoffset", []float64{})
	viper.SetDefault("signal.highpass", false)
}
