// Package testing puts the binaries into test mode. Import it for side effects
// from tests that exercise main packages.
package testing

import (
	"os"

	"github.com/cotacao-hub/cotacao/internal/app"
)

func init() {
	if os.Getenv(app.TestModeEnv) == "" {
		_ = os.Setenv(app.TestModeEnv, "1")
	}
}
