package models

// APIKey is a shared third-party credential distributed to clients.
type APIKey struct {
	Name  string
	Key   string
	Model string
}
