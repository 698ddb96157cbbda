package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMissingInput = errors.New("input obligatorio ausente")
	ErrUnknownStore = errors.New("tienda desconocida")
	ErrNotFound     = errors.New("no encontrado")
)

// MissingColumnError indica que un export no trae una columna requerida.
type MissingColumnError struct {
	Source Source
	Column Field
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("required column %q absent in source %q", e.Column, e.Source)
}
