package services

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/fsdevblog/linkboard/internal/db"
	"github.com/fsdevblog/linkboard/internal/models"
	"github.com/fsdevblog/linkboard/internal/repositories"
	"github.com/fsdevblog/linkboard/internal/repositories/sql"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// stubGeoResolver отдает фиксированную локацию либо ошибку.
type stubGeoResolver struct {
	loc *models.Location
	err error
}

func (g *stubGeoResolver) Lookup(_ string) (*models.Location, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.loc, nil
}

type PageViewServiceSuite struct {
	suite.Suite
	conn      *gorm.DB
	pageViews *sql.PageViewRepo
	geo       *stubGeoResolver
	service   *PageViewService
	link      models.Link
}

func (s *PageViewServiceSuite) SetupTest() {
	conn, connErr := db.NewSQLite(":memory:", testDefaultDomain)
	s.Require().NoError(connErr)

	logger := logrus.New()
	s.conn = conn
	s.pageViews = sql.NewPageViewRepo(conn, logger)
	s.geo = &stubGeoResolver{loc: &models.Location{
		City:        "Austin",
		StateRegion: "Texas",
		Country:     "US",
		Postal:      "78701",
		Timezone:    "America/Chicago",
	}}
	s.service = NewPageViewService(s.pageViews, s.geo, logger)

	domainRepo := sql.NewDomainRepo(conn, logger)
	domain, domainErr := domainRepo.GetByURI(context.Background(), testDefaultDomain)
	s.Require().NoError(domainErr)

	s.link = models.Link{
		VisitorUUID: gofakeit.UUID(),
		URL:         gofakeit.URL(),
		Type:        models.LinkTypeWebsite,
		DomainID:    domain.ID,
		ShortToken:  gofakeit.LetterN(7),
	}
	s.Require().NoError(conn.Create(&s.link).Error)
}

// seedView вставляет просмотр с заполненными измерениями.
func (s *PageViewServiceSuite) seedView(country, stateRegion string) {
	view := models.NewPageView(s.link.ID, gofakeit.IPv4Address())
	view.Country = country
	view.StateRegion = stateRegion
	view.Device = models.DeviceDesktop
	view.Browser = "Chrome"
	view.Platform = "Linux x86_64"
	s.Require().NoError(s.pageViews.Create(context.Background(), view))
}

func (s *PageViewServiceSuite) TestTrack() {
	chromeUA := "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	s.service.Track(Visit{
		LinkID:    s.link.ID,
		IP:        "203.0.113.7",
		UserAgent: chromeUA,
		Referrer:  "https://news.example.com/",
	})

	ctx := context.Background()
	count, countErr := s.pageViews.CountByLink(ctx, s.link.ID)
	s.Require().NoError(countErr)
	s.Require().Equal(int64(1), count)

	view, viewErr := s.pageViews.LastByLink(ctx, s.link.ID)
	s.Require().NoError(viewErr)
	s.Equal("203.0.113.7", view.IP)
	s.Equal("https://news.example.com/", view.Referrer)
	s.Equal(models.DeviceDesktop, view.Device)
	s.Equal("Chrome", view.Browser)

	// гео-данные дописаны после вставки
	s.Equal("US", view.Country)
	s.Equal("Texas", view.StateRegion)
}

func (s *PageViewServiceSuite) TestTrack_GeoFailureKeepsRecord() {
	s.geo.err = errors.New("mmdb lookup failed")

	s.service.Track(Visit{LinkID: s.link.ID, IP: "203.0.113.7"})

	view, viewErr := s.pageViews.LastByLink(context.Background(), s.link.ID)
	s.Require().NoError(viewErr)

	// запись на месте, гео-поля остались сентинелами
	s.Equal(models.LocationUnknown, view.Country)
	s.Equal(models.LocationUnknown, view.City)
}

func (s *PageViewServiceSuite) TestSummarize_NoClicks() {
	summary, err := s.service.Summarize(context.Background(), s.link.ID)
	s.Require().NoError(err)

	s.Equal(int64(0), summary.TotalClicks)
	s.Nil(summary.MostRecentClick)
	s.False(summary.JustUSA)

	// разбивки пустые, но не nil: в JSON уходят [] а не null
	s.NotNil(summary.Countries)
	s.Empty(summary.Countries)
	s.NotNil(summary.States)
	s.NotNil(summary.Devices)
}

func (s *PageViewServiceSuite) TestSummarize_MixedCountries() {
	s.seedView("US", "Texas")
	s.seedView("US", "California")
	s.seedView("CA", "Ontario")

	summary, err := s.service.Summarize(context.Background(), s.link.ID)
	s.Require().NoError(err)

	s.Equal(int64(3), summary.TotalClicks)
	s.Require().NotNil(summary.MostRecentClick)
	s.False(summary.JustUSA)

	s.Equal([]repositories.DimensionCount{
		{Key: "US", Count: 2},
		{Key: "CA", Count: 1},
	}, summary.Countries)

	// штаты считаются, раз опорная страна присутствует; чужие регионы мимо
	s.Equal([]repositories.DimensionCount{
		{Key: "California", Count: 1},
		{Key: "Texas", Count: 1},
	}, summary.States)
}

func (s *PageViewServiceSuite) TestSummarize_JustUSA() {
	s.seedView("US", "Texas")
	s.seedView("US", "Texas")

	summary, err := s.service.Summarize(context.Background(), s.link.ID)
	s.Require().NoError(err)
	s.True(summary.JustUSA)
	s.Equal([]repositories.DimensionCount{{Key: "Texas", Count: 2}}, summary.States)
}

func (s *PageViewServiceSuite) TestSummarize_NoReferenceCountry() {
	s.seedView("DE", "Bavaria")

	summary, err := s.service.Summarize(context.Background(), s.link.ID)
	s.Require().NoError(err)
	s.False(summary.JustUSA)
	s.Empty(summary.States)
}

func TestPageViewServiceSuite(t *testing.T) {
	suite.Run(t, new(PageViewServiceSuite))
}
