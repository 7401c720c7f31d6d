// consts.go: fixed processing constants shared across the application
package conf

const (
	// RMSWindowMs is the window length in milliseconds for computing RMS volume
	RMSWindowMs = 50

	// MaxChannels is the maximum number of channels the segmenter handles
	MaxChannels = 8

	// HighPassCornerHz is the corner frequency of the high-pass conditioner
	HighPassCornerHz = 20.0

	// Cut actions
	ActionLog     = "log"
	ActionExtract = "extract"

	// Cut point formats
	FormatFrames  = "frames"
	FormatTime    = "time"
	FormatSeconds = "seconds"

	// Raw sample encodings
	EncodingSigned   = "signed"
	EncodingUnsigned = "unsigned"
	EncodingFloat    = "float"
)
