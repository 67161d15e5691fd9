package models

import "time"

// Статусы DNS проверки домена. Переход только вперед: pending -> verified.
const (
	DomainStatusPending  = 1
	DomainStatusVerified = 2
)

// Типы домена: полноценный домен либо поддомен сервиса.
const (
	DomainTypeDomain    = "dom"
	DomainTypeSubdomain = "sub"
)

// Domain структура модели домена. URI глобально уникален и задает
// область видимости коротких токенов.
type Domain struct {
	ID        uint      `json:"ID"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	CreatorID *uint `json:"creatorId" gorm:"index"`

	URI        string `json:"uri" gorm:"size:255;not null;uniqueIndex"`
	DomainType string `json:"domainType" gorm:"size:8"`

	Status        int        `json:"status" gorm:"not null;default:1"`
	Validated     bool       `json:"validated" gorm:"not null;default:false"`
	DateValidated *time.Time `json:"dateValidated"`

	Archived      bool           `json:"archived" gorm:"not null;default:false"`
	ArchiveEvents []ArchiveEvent `json:"archiveEvents" gorm:"polymorphic:Owner"`
}
