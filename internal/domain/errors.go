package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// Motor de comisiones.
	ErrInvalidContractTerms   = errors.New("términos de contrato inválidos: valor > 0 y duración >= 1")
	ErrDealAlreadyClosed      = errors.New("el negocio del cliente ya fue cerrado")
	ErrNotActiveContract      = errors.New("el cliente no tiene un contrato activo")
	ErrInvalidStateTransition = errors.New("transición de estado no permitida")
)
