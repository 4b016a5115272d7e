package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/partner-commissions/internal/application/commission"
	"github.com/jhoicas/partner-commissions/internal/application/usecase"
	"github.com/jhoicas/partner-commissions/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	DealUC       *commission.DealClosureUseCase
	TransitionUC *commission.TransitionUseCase
	QueryUC      *commission.QueryUseCase
	RuleUC       *commission.RuleUseCase
	CustomerUC   *usecase.CustomerUseCase
	ResellerUC   *usecase.ResellerUseCase
	AuditUC      *usecase.AuditUseCase
	JWTSecret    string
	JWTIssuer    string
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	anyRole := RequireRole(entity.RoleAdmin, entity.RoleReseller)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Customers + ciclo de vida del contrato
	customers := api.Group("/customers", anyRole)
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	dealHandler := NewDealHandler(deps.DealUC)
	commissionHandler := NewCommissionHandler(deps.QueryUC, deps.TransitionUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Patch("/:id/status", customerHandler.UpdateStatus)
	customers.Get("/:id/commissions", commissionHandler.ListByCustomer)
	customers.Get("/:id/commissions/statement", commissionHandler.Statement)
	customers.Post("/:id/close-deal", adminOnly, dealHandler.CloseDeal)
	customers.Post("/:id/end-contract", adminOnly, dealHandler.EndContract)

	// Commissions
	commissions := api.Group("/commissions", anyRole)
	commissions.Get("/", commissionHandler.List)
	commissions.Get("/summary", commissionHandler.Summary)
	commissions.Post("/bulk-status", adminOnly, commissionHandler.BulkTransition)
	commissions.Get("/:id", commissionHandler.GetByID)
	commissions.Patch("/:id/status", adminOnly, commissionHandler.Transition)

	// Auto-approval rules (admin)
	rules := api.Group("/auto-approval-rules", adminOnly)
	ruleHandler := NewRuleHandler(deps.RuleUC)
	rules.Post("/", ruleHandler.Create)
	rules.Get("/", ruleHandler.List)
	rules.Get("/:id", ruleHandler.GetByID)
	rules.Patch("/:id", ruleHandler.Update)
	rules.Delete("/:id", ruleHandler.Delete)

	// Resellers
	resellers := api.Group("/resellers", anyRole)
	resellerHandler := NewResellerHandler(deps.ResellerUC)
	resellers.Get("/", adminOnly, resellerHandler.List)
	resellers.Get("/:id", resellerHandler.GetByID)
	resellers.Patch("/:id/settings", adminOnly, resellerHandler.UpdateSettings)

	// Audit (admin)
	audit := api.Group("/audit", adminOnly)
	auditHandler := NewAuditHandler(deps.AuditUC)
	audit.Get("/:entity_type/:entity_id", auditHandler.History)
}
