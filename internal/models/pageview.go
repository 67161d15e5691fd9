package models

import "time"

// Device нормализованный класс устройства посетителя.
type Device string

// Ранее класс устройства хранился вразнобой (вложенные объекты, разные
// имена полей) — теперь это единственное перечисление.
const (
	DeviceMobile  Device = "mobile"
	DeviceDesktop Device = "desktop"
	DeviceBot     Device = "bot"
	DeviceUnknown Device = "unknown"
)

// LocationUnknown значение по умолчанию для гео-полей. Запись просмотра
// никогда не ждет гео-поиска: сначала пишем unknown, потом обновляем.
const LocationUnknown = "unknown"

// ReferenceCountry страна, по которой дашборд раскрывает разбивку по
// регионам. Отслеживаются субрегионы только одной страны.
const ReferenceCountry = "US"

// Location гео-данные просмотра, результат поиска по IP.
type Location struct {
	City        string `json:"city"`
	StateRegion string `json:"stateRegion"`
	Country     string `json:"country"`
	Postal      string `json:"postal"`
	Timezone    string `json:"timezone"`
}

// PageView один просмотр (переход по короткой ссылке).
// После гео-обновления запись неизменяема.
type PageView struct {
	ID        uint      `json:"ID"`
	CreatedAt time.Time `json:"createdAt"`

	LinkID uint `json:"linkId" gorm:"not null;index"`

	IP       string `json:"ip" gorm:"size:64;not null"`
	Referrer string `json:"referrer" gorm:"size:512"`

	// Разбор User-Agent на момент запроса.
	IsMobile       bool   `json:"isMobile"`
	IsDesktop      bool   `json:"isDesktop"`
	IsBot          bool   `json:"isBot"`
	Browser        string `json:"browser" gorm:"size:64"`
	BrowserVersion string `json:"browserVersion" gorm:"size:32"`
	OS             string `json:"os" gorm:"size:64"`
	Platform       string `json:"platform" gorm:"size:64"`
	Device         Device `json:"device" gorm:"size:16;not null;default:unknown"`

	// Гео-данные. Заполняются асинхронно после вставки, до этого момента
	// держат LocationUnknown.
	City        string `json:"city" gorm:"size:128"`
	StateRegion string `json:"stateRegion" gorm:"size:128"`
	Country     string `json:"country" gorm:"size:64"`
	Postal      string `json:"postal" gorm:"size:16"`
	Timezone    string `json:"timezone" gorm:"size:64"`
}

// NewPageView создает просмотр с гео-полями заполненными значением unknown.
func NewPageView(linkID uint, ip string) *PageView {
	return &PageView{
		LinkID:      linkID,
		IP:          ip,
		Device:      DeviceUnknown,
		City:        LocationUnknown,
		StateRegion: LocationUnknown,
		Country:     LocationUnknown,
		Postal:      LocationUnknown,
		Timezone:    LocationUnknown,
	}
}
