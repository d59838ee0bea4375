package app

import (
	"os"
	"strings"
)

// TestModeEnv makes the binaries wire their dependencies without serving.
const TestModeEnv = "COTACAO_TEST_MODE"

// InTestMode reports whether the application should skip runtime side effects.
func InTestMode() bool {
	v := strings.TrimSpace(os.Getenv(TestModeEnv))
	return v == "1" || strings.EqualFold(v, "true")
}
