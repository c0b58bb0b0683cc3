package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInactive           = errors.New("entidad inactiva")
	ErrDeleted            = errors.New("entidad eliminada")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrNegativeResult     = errors.New("el ajuste dejaría el stock en negativo")
	ErrAlreadyDepleted    = errors.New("la unidad ya está agotada")
	ErrHasDependencies    = errors.New("la entidad tiene dependientes activos")
	ErrLockTimeout        = errors.New("no se pudo bloquear la entidad a tiempo")
)
