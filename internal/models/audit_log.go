package models

// AuditLog records a mutating ledger operation.
type AuditLog struct {
	Namespace    string `json:"namespace"`
	Action       string `json:"action"`
	ResourceType string `json:"resource_type"`
	ResourceID   string `json:"resource_id"`
	IPAddress    string `json:"ip_address"`
	Changes      string `json:"changes,omitempty"`
}
