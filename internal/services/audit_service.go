package services

import (
	"encoding/json"

	"expensert/internal/logger"
	"expensert/internal/models"
)

// auditService writes audit entries to the structured log.
type auditService struct{}

// NewAuditService creates a new AuditServicer.
func NewAuditService() AuditServicer {
	return &auditService{}
}

// Log records an audit event. Errors are logged but never propagate
// to avoid disrupting the main operation.
func (s *auditService) Log(namespace, action, resourceType, resourceID, ipAddress string, changes map[string]any) {
	var changesJSON string
	if changes != nil {
		data, err := json.Marshal(changes)
		if err != nil {
			logger.Get().Errorw("failed to marshal audit log changes", "error", err, "action", action)
			changesJSON = "{}"
		} else {
			changesJSON = string(data)
		}
	}

	entry := models.AuditLog{
		Namespace:    namespace,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      changesJSON,
	}

	logger.Get().Infow("audit",
		"namespace", entry.Namespace,
		"action", entry.Action,
		"resource_type", entry.ResourceType,
		"resource_id", entry.ResourceID,
		"ip_address", entry.IPAddress,
		"changes", entry.Changes,
	)
}
