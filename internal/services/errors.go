package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrValidation         = errors.New("données invalides")
	ErrEmptyOrder         = errors.New("la commande doit contenir au moins une ligne")
	ErrNotFound           = errors.New("introuvable")
	ErrDuplicateEmail     = errors.New("email déjà enregistré")
	ErrInvalidCredentials = errors.New("email ou mot de passe incorrect")
	ErrTemplateMissing    = errors.New("modèle de facture introuvable")
	ErrAlreadyPaid        = errors.New("commande déjà payée")
	ErrForbidden          = errors.New("accès refusé")
)

// ValidationError porte les messages par champ, remontés tels quels au formulaire
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%v (%s)", ErrValidation, strings.Join(parts, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

type fieldErrors map[string]string

func (f fieldErrors) require(field, value, message string) {
	if strings.TrimSpace(value) == "" {
		f[field] = message
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}
