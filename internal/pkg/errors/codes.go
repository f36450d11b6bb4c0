package errors

import (
	"fmt"
	"net/http"
)

const (
	CodeSchema            = "SCHEMA_ERROR"
	CodeRange             = "INVALID_COORDINATES"
	CodeEmptyReferenceSet = "EMPTY_REFERENCE_SET"
	CodeStore             = "DATABASE_ERROR"
	CodeTileNotFound      = "TILE_NOT_FOUND"
	CodeInvalidTile       = "INVALID_TILE_COORDINATES"
	CodeInvalidInput      = "INVALID_INPUT"
)

var (
	ErrTileNotFound = New(
		CodeTileNotFound,
		"No tile is served at this zoom level",
		http.StatusNotFound,
	)

	ErrInvalidTileCoordinates = New(
		CodeInvalidTile,
		"Tile coordinates out of range for zoom level",
		http.StatusBadRequest,
	)

	ErrInvalidCoordinates = New(
		CodeRange,
		"Coordinates outside valid latitude/longitude domain",
		http.StatusBadRequest,
	)

	ErrEmptyReferenceSet = New(
		CodeEmptyReferenceSet,
		"Reference point set is empty, nothing to match against",
		http.StatusBadRequest,
	)

	// Тайловый сервис отдаёт 503, когда хранилище недоступно
	ErrDatabaseError = New(
		CodeStore,
		"Store operation failed",
		http.StatusServiceUnavailable,
	)

	ErrInvalidRequest = New(
		CodeInvalidInput,
		"Invalid request parameters",
		http.StatusBadRequest,
	)
)

// SchemaError создает ошибку канонизации для конкретной записи
func SchemaError(format string, args ...interface{}) *AppError {
	return New(CodeSchema, fmt.Sprintf(format, args...), http.StatusBadRequest)
}

// RangeError создает ошибку диапазона координат для конкретной записи
func RangeError(format string, args ...interface{}) *AppError {
	return New(CodeRange, fmt.Sprintf(format, args...), http.StatusBadRequest)
}
