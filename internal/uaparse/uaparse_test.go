package uaparse

import (
	"testing"

	"github.com/fsdevblog/linkboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	chromeLinuxUA = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	iphoneUA = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 " +
		"(KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	googlebotUA = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		uaString   string
		wantDevice models.Device
		wantMobile bool
		wantBot    bool
	}{
		{name: "desktop chrome", uaString: chromeLinuxUA, wantDevice: models.DeviceDesktop},
		{name: "iphone", uaString: iphoneUA, wantDevice: models.DeviceMobile, wantMobile: true},
		{name: "googlebot", uaString: googlebotUA, wantDevice: models.DeviceBot, wantBot: true},
		{name: "empty", uaString: "", wantDevice: models.DeviceUnknown},
		{name: "garbage", uaString: "-", wantDevice: models.DeviceUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Parse(tt.uaString)
			assert.Equal(t, tt.wantDevice, c.Device)
			assert.Equal(t, tt.wantMobile, c.IsMobile)
			assert.Equal(t, tt.wantBot, c.IsBot)
		})
	}
}

func TestParse_BrowserFields(t *testing.T) {
	c := Parse(chromeLinuxUA)
	require.Equal(t, "Chrome", c.Browser)
	require.NotEmpty(t, c.Version)
	require.Equal(t, "Linux x86_64", c.OS)
}

func TestClassification_Apply(t *testing.T) {
	view := models.NewPageView(1, "203.0.113.7")
	Parse(chromeLinuxUA).Apply(view)

	require.True(t, view.IsDesktop)
	require.False(t, view.IsMobile)
	require.Equal(t, models.DeviceDesktop, view.Device)
	require.Equal(t, "Chrome", view.Browser)
}
