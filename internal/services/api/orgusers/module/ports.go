package module

import "careview/internal/services/api/orgusers/domain"

// Ports is the directory port set other modules can look up
type Ports struct {
	Directory domain.ServicePort
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
