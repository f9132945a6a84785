package module

import "careview/internal/services/api/comments/domain"

// Ports is the comments port set other modules can look up
type Ports struct {
	Comments domain.ServicePort
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
