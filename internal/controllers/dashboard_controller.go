package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DashboardController сводная статистика кликов для кабинета.
type DashboardController struct {
	links  LinkManager
	clicks ClickTracker
}

func NewDashboardController(links LinkManager, clicks ClickTracker) *DashboardController {
	return &DashboardController{
		links:  links,
		clicks: clicks,
	}
}

// LinkInfo отдает ссылку вместе со сводкой: независимые разбивки по
// странам, штатам, источникам переходов, устройствам, платформам и
// браузерам. Ссылка без единого клика дает пустые разбивки, не ошибку.
func (d *DashboardController) LinkInfo(c *gin.Context) {
	linkID, ok := paramUint(c, "linkID")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid link id"})
		return
	}

	link, linkErr := d.links.GetByID(c.Request.Context(), linkID)
	if linkErr != nil {
		respondServiceError(c, linkErr)
		return
	}

	summary, sumErr := d.clicks.Summarize(c.Request.Context(), linkID)
	if sumErr != nil {
		respondServiceError(c, sumErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"link":    link,
		"summary": summary,
	})
}
