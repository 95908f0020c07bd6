package instance

import "os"

// GetID identifies the running process in logs: MOONPOS_INSTANCE_ID, then the
// hostname, then fallback.
func GetID(fallback string) string {
	if id := os.Getenv("MOONPOS_INSTANCE_ID"); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return fallback
}
