package models

import "time"

// LinkTypeWebsite пока единственный поддерживаемый тип ссылки.
const LinkTypeWebsite = "website"

// Link структура модели короткой ссылки. Короткий токен уникален в рамках
// домена (составной индекс domain_id + short_token), сам по себе токен
// может повторяться под разными доменами.
type Link struct {
	ID        uint      `json:"ID"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// CreatorID владелец ссылки. nil — анонимная ссылка.
	CreatorID   *uint  `json:"creatorId" gorm:"index"`
	VisitorUUID string `json:"visitorUUID" gorm:"size:36;index"`

	URL        string `json:"url" gorm:"size:2048;not null"`
	Type       string `json:"type" gorm:"size:32;not null;default:website"`
	DomainID   uint   `json:"domainId" gorm:"not null;uniqueIndex:idx_links_domain_token"`
	ShortToken string `json:"shortToken" gorm:"size:32;not null;uniqueIndex:idx_links_domain_token"`
	// PageTitle заголовок целевой страницы. Заполняется по возможности,
	// пустая строка — валидное состояние.
	PageTitle string `json:"pageTitle" gorm:"size:512"`

	Archived      bool           `json:"archived" gorm:"not null;default:false"`
	ArchiveEvents []ArchiveEvent `json:"archiveEvents" gorm:"polymorphic:Owner"`
}
