package config

import "os"

func IsDebug() bool {
	return os.Getenv("SHOWEASY_DEBUG") == "1"
}

// GetRuntimePath resolves the runtime directory before any config struct is
// parsed, for bootstrap tasks like the setup wizard.
func GetRuntimePath() string {
	if p := os.Getenv("SHOWEASY_RUNTIME_PATH"); p != "" {
		return p
	}
	return ".showeasy"
}
