package models

// APIKey is a shared generative-AI credential distributed by the server.
type APIKey struct {
	Key   string `json:"key"`
	Model string `json:"model"`
}

// ServerConfig is the admin-published record every account pulls on login:
// the canonical server URL plus shared AI credentials keyed by provider.
// Non-admin accounts only ever pull this record.
type ServerConfig struct {
	ManagedServerURL string            `json:"managed_server_url"`
	SharedAPIKeys    map[string]APIKey `json:"shared_api_keys"`
}
