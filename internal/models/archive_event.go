package models

import "time"

// ArchiveEvent запись в истории архивации. Направление хранится явно:
// true — объект заархивировали, false — вернули из архива.
type ArchiveEvent struct {
	ID        uint      `json:"ID"`
	CreatedAt time.Time `json:"createdAt"`

	OwnerID   uint   `json:"ownerId" gorm:"index:idx_archive_events_owner"`
	OwnerType string `json:"ownerType" gorm:"size:16;index:idx_archive_events_owner"`

	Archived bool  `json:"archived" gorm:"not null"`
	ActorID  *uint `json:"actorId"`
}
