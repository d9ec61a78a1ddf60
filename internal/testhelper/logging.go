// Package testhelper silences the global logger while tests run. Import it
// for side effects from any package's tests.
package testhelper

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
)

func init() {
	if testing.Testing() && os.Getenv("MIMIC_TEST_LOG") == "" {
		zerolog.SetGlobalLevel(zerolog.Disabled)
	}
}
