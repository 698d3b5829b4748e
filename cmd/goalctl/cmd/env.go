package cmd

import "os"

// envOr must be called from RunE, never at flag definition, so the .env
// loaded by the root command's PersistentPreRun is visible.
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
