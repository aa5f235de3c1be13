package services

import (
	"strings"

	domainerrors "flightsurety/contexts/insurance-pool/admission-ledger/domain/errors"
)

func NormalizeIdentity(raw string) (string, error) {
	identity := strings.TrimSpace(raw)
	if identity == "" {
		return "", domainerrors.ErrInvalidIdentity
	}
	return identity, nil
}

func NormalizeName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", domainerrors.ErrInvalidName
	}
	return name, nil
}
