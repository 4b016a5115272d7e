package dto

import (
	"time"

	"github.com/jhoicas/partner-commissions/internal/domain/entity"
)

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=1,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Viewer usuario autenticado (extraído del token) que ejecuta la consulta o acción.
// Un revendedor solo ve sus propios recursos.
type Viewer struct {
	UserID string
	Role   string
}

// IsAdmin indica si el viewer es admin.
func (v Viewer) IsAdmin() bool { return v.Role == entity.RoleAdmin }

// IsReseller indica si el viewer es revendedor.
func (v Viewer) IsReseller() bool { return v.Role == entity.RoleReseller }

// CanSee indica si el viewer puede ver recursos del revendedor dado.
func (v Viewer) CanSee(resellerID string) bool {
	return v.IsAdmin() || (v.IsReseller() && v.UserID == resellerID)
}

// AuditFactResponse hecho de la bitácora.
type AuditFactResponse struct {
	ID          string         `json:"id"`
	Action      string         `json:"action"`
	PerformedBy string         `json:"performed_by"`
	EntityType  string         `json:"entity_type"`
	EntityID    string         `json:"entity_id"`
	Changes     map[string]any `json:"changes,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// NewAuditFactResponses mapea la bitácora a respuestas.
func NewAuditFactResponses(list []*entity.AuditFact) []AuditFactResponse {
	out := make([]AuditFactResponse, 0, len(list))
	for _, f := range list {
		out = append(out, AuditFactResponse{
			ID:          f.ID,
			Action:      f.Action,
			PerformedBy: f.PerformedBy,
			EntityType:  f.EntityType,
			EntityID:    f.EntityID,
			Changes:     f.Changes,
			Metadata:    f.Metadata,
			CreatedAt:   f.CreatedAt,
		})
	}
	return out
}
