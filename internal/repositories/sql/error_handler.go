package sql

import (
	"github.com/fsdevblog/linkboard/internal/repositories"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ConvertErrorType переводит ошибки gorm в ошибки слоя репозиториев.
// Подключение открыто с TranslateError, поэтому нарушение уникального
// индекса приходит как gorm.ErrDuplicatedKey независимо от драйвера.
func ConvertErrorType(err error) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repositories.ErrDuplicateKey
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repositories.ErrNotFound
	default:
		return repositories.ErrUnknown
	}
}
