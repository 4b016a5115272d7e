package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/partner-commissions/internal/application/commission"
	"github.com/jhoicas/partner-commissions/internal/application/dto"
	"github.com/jhoicas/partner-commissions/internal/application/ports"
	"github.com/jhoicas/partner-commissions/internal/application/usecase"
	"github.com/jhoicas/partner-commissions/internal/domain/entity"
	"github.com/jhoicas/partner-commissions/internal/infrastructure/memory"
	"github.com/jhoicas/partner-commissions/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/partner-commissions/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// API completa sobre el almacén en memoria
// ──────────────────────────────────────────────────────────────────────────────

type apiEnv struct {
	app    *fiber.App
	store  *memory.Store
	audit  *memory.AuditLog
	outbox *memory.Outbox
}

func newAPI(t *testing.T) *apiEnv {
	t.Helper()
	env := &apiEnv{store: memory.NewStore(), audit: &memory.AuditLog{}, outbox: &memory.Outbox{}}
	env.store.PutUser(entity.User{ID: testAdminID, Name: "Admin", Role: entity.RoleAdmin})
	env.store.PutUser(entity.User{
		ID: testResellerID, Name: "Partner", Role: entity.RoleReseller,
		CommissionRate: decimal.NewFromInt(20), CommissionYears: 3, Currency: "USD",
	})

	emitter := ports.NewEmitter(env.audit, env.outbox, zerolog.Nop())
	env.app = fiber.New()
	apphttp.Router(env.app, apphttp.RouterDeps{
		DealUC:       commission.NewDealClosureUseCase(env.store, emitter, zerolog.Nop()),
		TransitionUC: commission.NewTransitionUseCase(env.store, emitter, zerolog.Nop()),
		QueryUC:      commission.NewQueryUseCase(env.store.Commissions(), env.store.Customers(), env.store.Users(), pdf.NewStatementGenerator()),
		RuleUC:       commission.NewRuleUseCase(env.store.Rules(), emitter),
		CustomerUC:   usecase.NewCustomerUseCase(env.store.Customers(), env.store.Users(), emitter),
		ResellerUC:   usecase.NewResellerUseCase(env.store.Users(), emitter),
		AuditUC:      usecase.NewAuditUseCase(env.audit),
		JWTSecret:    testJWTSecret,
		JWTIssuer:    testIssuer,
	})
	return env
}

// call lanza la petición y decodifica el cuerpo JSON en out (si no es nil).
func (e *apiEnv) call(t *testing.T, method, path, auth string, body any, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (e *apiEnv) createCustomer(t *testing.T) string {
	t.Helper()
	var out dto.CustomerResponse
	status := e.call(t, http.MethodPost, "/api/customers/", resellerToken(t),
		map[string]any{"company_name": "Acme S.A.S."}, &out)
	require.Equal(t, http.StatusCreated, status)
	return out.ID
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_CierreDeNegocio(t *testing.T) {
	env := newAPI(t)
	id := env.createCustomer(t)

	var res dto.CloseDealResponse
	status := env.call(t, http.MethodPost, "/api/customers/"+id+"/close-deal", adminToken(t),
		map[string]any{"contract_value": "12000", "contract_duration": 3}, &res)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, 3, res.CommissionsCreated)
	assert.Equal(t, entity.CustomerStatusActive, res.Customer.Status)
	assert.True(t, res.TotalCommissionValue.Equal(decimal.NewFromInt(7200)))
	require.Len(t, res.Commissions, 3)
	assert.Equal(t, "Year 1", res.Commissions[0].Period)

	var errBody dto.ErrorResponse
	status = env.call(t, http.MethodPost, "/api/customers/"+id+"/close-deal", adminToken(t),
		map[string]any{"contract_value": "12000", "contract_duration": 3}, &errBody)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DEAL_ALREADY_CLOSED", errBody.Code)
}

func TestAPI_CierreSinDuracionUsaLaDelRevendedor(t *testing.T) {
	env := newAPI(t)
	id := env.createCustomer(t)

	var res dto.CloseDealResponse
	status := env.call(t, http.MethodPost, "/api/customers/"+id+"/close-deal", adminToken(t),
		map[string]any{"contract_value": "1000"}, &res)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, 3, res.CommissionsCreated)
}

func TestAPI_CierreTerminosInvalidos(t *testing.T) {
	env := newAPI(t)
	id := env.createCustomer(t)

	var errBody dto.ErrorResponse
	status := env.call(t, http.MethodPost, "/api/customers/"+id+"/close-deal", adminToken(t),
		map[string]any{"contract_value": "0", "contract_duration": 3}, &errBody)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_CONTRACT_TERMS", errBody.Code)
}

func TestAPI_RevendedorNoCierraNiAprueba(t *testing.T) {
	env := newAPI(t)
	id := env.createCustomer(t)

	status := env.call(t, http.MethodPost, "/api/customers/"+id+"/close-deal", resellerToken(t),
		map[string]any{"contract_value": "12000", "contract_duration": 3}, nil)
	assert.Equal(t, http.StatusForbidden, status)

	var res dto.CloseDealResponse
	require.Equal(t, http.StatusCreated, env.call(t, http.MethodPost, "/api/customers/"+id+"/close-deal", adminToken(t),
		map[string]any{"contract_value": "12000", "contract_duration": 3}, &res))

	status = env.call(t, http.MethodPatch, "/api/commissions/"+res.Commissions[0].ID+"/status", resellerToken(t),
		map[string]any{"status": "APPROVED"}, nil)
	assert.Equal(t, http.StatusForbidden, status)

	// El revendedor sí ve su calendario.
	var list []dto.CommissionResponse
	require.Equal(t, http.StatusOK, env.call(t, http.MethodGet, "/api/customers/"+id+"/commissions", resellerToken(t), nil, &list))
	assert.Len(t, list, 3)
}

func TestAPI_TransicionesYLote(t *testing.T) {
	env := newAPI(t)
	id := env.createCustomer(t)
	var res dto.CloseDealResponse
	require.Equal(t, http.StatusCreated, env.call(t, http.MethodPost, "/api/customers/"+id+"/close-deal", adminToken(t),
		map[string]any{"contract_value": "12000", "contract_duration": 3}, &res))
	first := res.Commissions[0].ID

	var errBody dto.ErrorResponse
	status := env.call(t, http.MethodPatch, "/api/commissions/"+first+"/status", adminToken(t),
		map[string]any{"status": "REJECTED"}, &errBody)
	assert.Equal(t, http.StatusBadRequest, status, "rechazo sin motivo")

	status = env.call(t, http.MethodPatch, "/api/commissions/"+first+"/status", adminToken(t),
		map[string]any{"status": "PAID"}, &errBody)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INVALID_STATE_TRANSITION", errBody.Code)

	var bulk dto.BulkTransitionResponse
	status = env.call(t, http.MethodPost, "/api/commissions/bulk-status", adminToken(t), map[string]any{
		"ids":    []string{first, res.Commissions[1].ID, "9b2e6a1c-3f4d-4e5a-8b7c-1d2e3f4a5b6c"},
		"status": "APPROVED",
	}, &bulk)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2, bulk.Succeeded)
	assert.Equal(t, 1, bulk.Failed)
	assert.Equal(t, "error", bulk.Results[2].Result)

	var paid dto.CommissionResponse
	status = env.call(t, http.MethodPatch, "/api/commissions/"+first+"/status", adminToken(t),
		map[string]any{"status": "PAID", "payment_reference": "TRX-7"}, &paid)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, entity.CommissionStatusPaid, paid.Status)
	require.NotNil(t, paid.PaymentReference)
	assert.Equal(t, "TRX-7", *paid.PaymentReference)

	status = env.call(t, http.MethodPost, "/api/commissions/bulk-status", adminToken(t),
		map[string]any{"ids": []string{}, "status": "APPROVED"}, &errBody)
	assert.Equal(t, http.StatusBadRequest, status)

	errBody = dto.ErrorResponse{}
	status = env.call(t, http.MethodPost, "/api/commissions/bulk-status", adminToken(t),
		map[string]any{"ids": []string{first, "abc"}, "status": "APPROVED"}, &errBody)
	assert.Equal(t, http.StatusBadRequest, status, "IDs que no son UUID")
	assert.Equal(t, "VALIDATION", errBody.Code)
}

func TestAPI_TerminarContrato(t *testing.T) {
	env := newAPI(t)
	id := env.createCustomer(t)
	require.Equal(t, http.StatusCreated, env.call(t, http.MethodPost, "/api/customers/"+id+"/close-deal", adminToken(t),
		map[string]any{"contract_value": "12000", "contract_duration": 3}, nil))

	var res dto.EndContractResponse
	require.Equal(t, http.StatusOK, env.call(t, http.MethodPost, "/api/customers/"+id+"/end-contract", adminToken(t), nil, &res))
	assert.Equal(t, 3, res.CommissionsEnded)
	assert.Equal(t, entity.CustomerStatusNoDeal, res.Customer.Status)

	var errBody dto.ErrorResponse
	status := env.call(t, http.MethodPost, "/api/customers/"+id+"/end-contract", adminToken(t), nil, &errBody)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "NOT_ACTIVE_CONTRACT", errBody.Code)

	var history []dto.AuditFactResponse
	require.Equal(t, http.StatusOK, env.call(t, http.MethodGet, "/api/audit/CUSTOMER/"+id, adminToken(t), nil, &history))
	require.Len(t, history, 2)
	assert.Equal(t, entity.AuditActionDealClosed, history[0].Action)
	assert.Equal(t, entity.AuditActionContractEnded, history[1].Action)
}

func TestAPI_ReglasSoloAdmin(t *testing.T) {
	env := newAPI(t)

	status := env.call(t, http.MethodGet, "/api/auto-approval-rules/", resellerToken(t), nil, nil)
	assert.Equal(t, http.StatusForbidden, status)

	var rule dto.RuleResponse
	status = env.call(t, http.MethodPost, "/api/auto-approval-rules/", adminToken(t), map[string]any{
		"name": "hasta 3000", "enabled": true, "priority": 10, "max_amount": "3000",
	}, &rule)
	require.Equal(t, http.StatusCreated, status)
	require.NotNil(t, rule.MaxAmount)
	assert.Equal(t, "3000", rule.MaxAmount.String())

	id := env.createCustomer(t)
	var res dto.CloseDealResponse
	require.Equal(t, http.StatusCreated, env.call(t, http.MethodPost, "/api/customers/"+id+"/close-deal", adminToken(t),
		map[string]any{"contract_value": "12000", "contract_duration": 3}, &res))
	assert.Equal(t, 3, res.AutoApproved)
	require.NotNil(t, res.Commissions[0].AutoApprovalRuleID)
	assert.Equal(t, rule.ID, *res.Commissions[0].AutoApprovalRuleID)

	status = env.call(t, http.MethodDelete, "/api/auto-approval-rules/"+rule.ID, adminToken(t), nil, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status = env.call(t, http.MethodGet, "/api/auto-approval-rules/"+rule.ID, adminToken(t), nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAPI_EstadoDeCuentaPDF(t *testing.T) {
	env := newAPI(t)
	id := env.createCustomer(t)

	status := env.call(t, http.MethodGet, "/api/customers/"+id+"/commissions/statement", resellerToken(t), nil, nil)
	assert.Equal(t, http.StatusConflict, status)

	require.Equal(t, http.StatusCreated, env.call(t, http.MethodPost, "/api/customers/"+id+"/close-deal", adminToken(t),
		map[string]any{"contract_value": "12000", "contract_duration": 3}, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/customers/"+id+"/commissions/statement", nil)
	req.Header.Set("Authorization", resellerToken(t))
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}
