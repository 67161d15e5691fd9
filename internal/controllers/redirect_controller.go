package controllers

import (
	"net/http"
	"net/url"

	"github.com/fsdevblog/linkboard/internal/services"
	"github.com/gin-gonic/gin"
)

// RedirectController горячий путь: разрешение токена и редирект.
type RedirectController struct {
	links       LinkManager
	clicks      ClickTracker
	notFoundURL *url.URL
}

func NewRedirectController(links LinkManager, clicks ClickTracker, notFoundURL *url.URL) *RedirectController {
	return &RedirectController{
		links:       links,
		clicks:      clicks,
		notFoundURL: notFoundURL,
	}
}

// Redirect обрабатывает GET /:token. Ответ уходит сразу после
// разрешения ссылки; просмотр пишется уже после, в отдельной горутине
// на собственном контексте — обрыв клиента или сбой аналитики на
// редирект не влияют. Битый токен это ожидаемое клиентское состояние:
// отвечаем редиректом на страницу "не найдено", никогда 5xx.
func (r *RedirectController) Redirect(c *gin.Context) {
	token := c.Param("token")
	host := services.StripPort(c.Request.Host)

	target, err := r.links.Resolve(c.Request.Context(), host, token)
	if err != nil {
		r.redirectNotFound(c)
		return
	}

	c.Redirect(http.StatusMovedPermanently, target.URL)

	visit := services.Visit{
		LinkID:    target.LinkID,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Referrer:  c.Request.Referer(),
	}
	go r.clicks.Track(visit)
}

func (r *RedirectController) redirectNotFound(c *gin.Context) {
	if r.notFoundURL != nil {
		c.Redirect(http.StatusFound, r.notFoundURL.String())
		return
	}
	c.String(http.StatusNotFound, ErrRecordNotFound.Error())
}
