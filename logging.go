package havn

import (
	auzerolog "github.com/StephanHCB/go-autumn-logging-zerolog"
	"github.com/rs/zerolog"
)

// SetupLogging configures the SDK's structured logging. Applications that
// already set up go-autumn-logging themselves can skip this; the SDK then
// logs through whatever implementation is installed.
//
// severity is one of DEBUG, INFO, WARN, ERROR. plaintext selects
// human-readable output instead of json.
func SetupLogging(severity string, plaintext bool) {
	if plaintext {
		auzerolog.SetupPlaintextLogging()
	} else {
		auzerolog.SetupJsonLogging("havn-sdk")
	}

	switch severity {
	case "DEBUG":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "WARN":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "ERROR":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
