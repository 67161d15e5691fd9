// Package uaparse разбирает заголовок User-Agent в плоский набор полей
// модели просмотра.
package uaparse

import (
	"github.com/fsdevblog/linkboard/internal/models"
	"github.com/mssola/useragent"
)

// Classification результат разбора User-Agent.
type Classification struct {
	IsMobile  bool
	IsDesktop bool
	IsBot     bool
	Browser   string
	Version   string
	OS        string
	Platform  string
	Device    models.Device
}

// Parse классифицирует строку User-Agent. Пустая или мусорная строка
// дает Device = unknown, ошибки тут не бывает.
func Parse(uaString string) Classification {
	ua := useragent.New(uaString)
	browser, version := ua.Browser()

	c := Classification{
		IsMobile: ua.Mobile(),
		IsBot:    ua.Bot(),
		Browser:  browser,
		Version:  version,
		OS:       ua.OS(),
		Platform: ua.Platform(),
	}
	c.IsDesktop = !c.IsMobile && !c.IsBot && (c.Browser != "" || c.OS != "")
	c.Device = classify(c)
	return c
}

// classify сводит флаги к одному значению. Бот имеет приоритет: боты
// часто прикидываются мобильными браузерами.
func classify(c Classification) models.Device {
	switch {
	case c.IsBot:
		return models.DeviceBot
	case c.IsMobile:
		return models.DeviceMobile
	case c.Browser != "" || c.OS != "":
		return models.DeviceDesktop
	default:
		return models.DeviceUnknown
	}
}

// Apply переносит классификацию на запись просмотра.
func (c Classification) Apply(view *models.PageView) {
	view.IsMobile = c.IsMobile
	view.IsDesktop = c.IsDesktop
	view.IsBot = c.IsBot
	view.Browser = c.Browser
	view.BrowserVersion = c.Version
	view.OS = c.OS
	view.Platform = c.Platform
	view.Device = c.Device
}
