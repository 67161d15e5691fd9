package sql

import (
	"context"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/fsdevblog/linkboard/internal/db"
	"github.com/fsdevblog/linkboard/internal/models"
	"github.com/fsdevblog/linkboard/internal/repositories"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type PageViewRepoSuite struct {
	suite.Suite
	conn *gorm.DB
	repo *PageViewRepo
	link models.Link
}

func (s *PageViewRepoSuite) SetupTest() {
	conn, connErr := db.NewSQLite(":memory:", "lnk.test")
	s.Require().NoError(connErr)

	logger := logrus.New()
	s.conn = conn
	s.repo = NewPageViewRepo(conn, logger)

	domainRepo := NewDomainRepo(conn, logger)
	domain, domainErr := domainRepo.GetByURI(context.Background(), "lnk.test")
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

// seedView вставляет просмотр с заданной страной/регионом.
func (s *PageViewRepoSuite) seedView(country, stateRegion string) *models.PageView {
	view := models.NewPageView(s.link.ID, gofakeit.IPv4Address())
	view.Country = country
	view.StateRegion = stateRegion
	s.Require().NoError(s.repo.Create(context.Background(), view))
	return view
}

func (s *PageViewRepoSuite) TestUpdateLocation() {
	ctx := context.Background()
	view := s.seedView(models.LocationUnknown, models.LocationUnknown)

	loc := models.Location{
		City:        "Austin",
		StateRegion: "Texas",
		Country:     "US",
		Postal:      "78701",
		Timezone:    "America/Chicago",
	}
	s.Require().NoError(s.repo.UpdateLocation(ctx, view.ID, loc))

	got, getErr := s.repo.GetByID(ctx, view.ID)
	s.Require().NoError(getErr)
	s.Equal("Austin", got.City)
	s.Equal("Texas", got.StateRegion)
	s.Equal("US", got.Country)
}

func (s *PageViewRepoSuite) TestCountByLink() {
	ctx := context.Background()

	count, countErr := s.repo.CountByLink(ctx, s.link.ID)
	s.Require().NoError(countErr)
	s.Equal(int64(0), count)

	s.seedView("US", "Texas")
	s.seedView("CA", "Ontario")

	count, countErr = s.repo.CountByLink(ctx, s.link.ID)
	s.Require().NoError(countErr)
	s.Equal(int64(2), count)
}

func (s *PageViewRepoSuite) TestLastByLink() {
	ctx := context.Background()

	_, missErr := s.repo.LastByLink(ctx, s.link.ID)
	s.Require().ErrorIs(missErr, repositories.ErrNotFound)

	first := models.NewPageView(s.link.ID, gofakeit.IPv4Address())
	first.CreatedAt = time.Now().Add(-time.Hour)
	s.Require().NoError(s.repo.Create(ctx, first))

	last := s.seedView("US", "Texas")

	got, getErr := s.repo.LastByLink(ctx, s.link.ID)
	s.Require().NoError(getErr)
	s.Equal(last.ID, got.ID)
}

func (s *PageViewRepoSuite) TestGroupCount_Ordering() {
	ctx := context.Background()
	s.seedView("US", "Texas")
	s.seedView("US", "Texas")
	s.seedView("CA", "Ontario")
	s.seedView("BR", models.LocationUnknown)

	rows, err := s.repo.GroupCount(ctx, s.link.ID, repositories.DimensionCountry)
	s.Require().NoError(err)

	// по убыванию количества, при равенстве по ключу
	want := []repositories.DimensionCount{
		{Key: "US", Count: 2},
		{Key: "BR", Count: 1},
		{Key: "CA", Count: 1},
	}
	s.Equal(want, rows)
}

func (s *PageViewRepoSuite) TestGroupCount_StatesOnlyReferenceCountry() {
	ctx := context.Background()
	s.seedView("US", "Texas")
	s.seedView("US", "California")
	// регион другой страны в разбивку не попадает
	s.seedView("CA", "Ontario")

	rows, err := s.repo.GroupCount(ctx, s.link.ID, repositories.DimensionStateRegion)
	s.Require().NoError(err)

	want := []repositories.DimensionCount{
		{Key: "California", Count: 1},
		{Key: "Texas", Count: 1},
	}
	s.Equal(want, rows)
}

func (s *PageViewRepoSuite) TestGroupCount_UnknownDimension() {
	_, err := s.repo.GroupCount(context.Background(), s.link.ID, repositories.Dimension("ip"))
	s.Require().Error(err)
}

func TestPageViewRepoSuite(t *testing.T) {
	suite.Run(t, new(PageViewRepoSuite))
}
