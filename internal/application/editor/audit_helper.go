package editor

import (
	"errors"

	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/domain"
)

func asDomain(err error) *domain.Error {
	var de *domain.Error
	if errors.As(err, &de) {
		return de
	}
	return nil
}

func domainCode(err error) string {
	if err == nil {
		return ""
	}
	if de := asDomain(err); de != nil {
		return de.Code
	}
	return "non_domain_error"
}
