package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicateKey       = errors.New("clave duplicada")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
)

// Errores del registro de módulos y del cambio de empresa activa.
var (
	// ErrMutationInProgress indica que ya hay una mutación en vuelo para la
	// misma tripleta (empresa, módulo, campo). La segunda petición se rechaza.
	ErrMutationInProgress = errors.New("mutación en progreso para el mismo campo")

	// ErrStaleResponse marca una respuesta que llegó después de que el contexto
	// de empresa que la originó dejó de ser el activo. Se descarta internamente;
	// nunca se muestra al usuario.
	ErrStaleResponse = errors.New("respuesta obsoleta: la empresa activa cambió")

	// ErrSwitchFailed es el error agregado de un cambio de empresa fallido.
	// El coordinador ya revirtió a la empresa anterior cuando se reporta.
	ErrSwitchFailed = errors.New("cambio de empresa fallido")

	// ErrWrongCompany indica un acceso a datos de una empresa distinta a la activa.
	ErrWrongCompany = errors.New("empresa distinta a la activa")
)
