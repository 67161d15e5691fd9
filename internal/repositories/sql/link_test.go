package sql

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/fsdevblog/linkboard/internal/db"
	"github.com/fsdevblog/linkboard/internal/models"
	"github.com/fsdevblog/linkboard/internal/repositories"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type LinkRepoSuite struct {
	suite.Suite
	conn          *gorm.DB
	repo          *LinkRepo
	pageViews     *PageViewRepo
	defaultDomain models.Domain
}

func (s *LinkRepoSuite) SetupTest() {
	conn, connErr := db.NewSQLite(":memory:", "lnk.test")
	s.Require().NoError(connErr)

	logger := logrus.New()
	s.conn = conn
	s.repo = NewLinkRepo(conn, logger)
	s.pageViews = NewPageViewRepo(conn, logger)

	domainRepo := NewDomainRepo(conn, logger)
	domain, domainErr := domainRepo.GetByURI(context.Background(), "lnk.test")
	s.Require().NoError(domainErr)
	s.defaultDomain = *domain
}

// makeLink создает валидную ссылку под доменом по умолчанию.
func (s *LinkRepoSuite) makeLink() *models.Link {
	link := &models.Link{
		VisitorUUID: gofakeit.UUID(),
		URL:         gofakeit.URL(),
		Type:        models.LinkTypeWebsite,
		DomainID:    s.defaultDomain.ID,
		ShortToken:  gofakeit.LetterN(7),
	}
	s.Require().NoError(s.repo.Create(context.Background(), link))
	return link
}

func (s *LinkRepoSuite) TestCreate_TokenScopedByDomain() {
	ctx := context.Background()
	link := s.makeLink()

	// тот же токен в том же домене — конфликт индекса
	clash := &models.Link{
		VisitorUUID: gofakeit.UUID(),
		URL:         gofakeit.URL(),
		Type:        models.LinkTypeWebsite,
		DomainID:    s.defaultDomain.ID,
		ShortToken:  link.ShortToken,
	}
	err := s.repo.Create(ctx, clash)
	s.Require().ErrorIs(err, repositories.ErrDuplicateKey)

	// под другим доменом та же строка валидна
	otherDomain := models.Domain{URI: gofakeit.DomainName(), DomainType: models.DomainTypeDomain}
	s.Require().NoError(s.conn.Create(&otherDomain).Error)

	clash.DomainID = otherDomain.ID
	s.Require().NoError(s.repo.Create(ctx, clash))
}

func (s *LinkRepoSuite) TestGetByToken() {
	ctx := context.Background()
	link := s.makeLink()

	got, err := s.repo.GetByToken(ctx, link.DomainID, link.ShortToken)
	s.Require().NoError(err)
	s.Equal(link.ID, got.ID)

	_, missErr := s.repo.GetByToken(ctx, link.DomainID, "no-such-token")
	s.Require().ErrorIs(missErr, repositories.ErrNotFound)
}

func (s *LinkRepoSuite) TestGetDuplicate() {
	ctx := context.Background()
	link := s.makeLink()

	got, err := s.repo.GetDuplicate(ctx, nil, link.VisitorUUID, link.URL, link.DomainID)
	s.Require().NoError(err)
	s.Equal(link.ID, got.ID)

	// чужой посетитель дубликата не видит
	_, missErr := s.repo.GetDuplicate(ctx, nil, gofakeit.UUID(), link.URL, link.DomainID)
	s.Require().ErrorIs(missErr, repositories.ErrNotFound)

	// запрос вовсе без личности дубликатом не считается
	_, anonErr := s.repo.GetDuplicate(ctx, nil, "", link.URL, link.DomainID)
	s.Require().ErrorIs(anonErr, repositories.ErrNotFound)
}

func (s *LinkRepoSuite) TestArchive_KeepsHistory() {
	ctx := context.Background()
	link := s.makeLink()
	actorID := uint(42)

	archived, archiveErr := s.repo.Archive(ctx, link.ID, &actorID)
	s.Require().NoError(archiveErr)
	s.True(archived.Archived)
	s.Require().Len(archived.ArchiveEvents, 1)
	s.True(archived.ArchiveEvents[0].Archived)

	// повторный вызов возвращает из архива и дописывает историю
	restored, restoreErr := s.repo.Archive(ctx, link.ID, &actorID)
	s.Require().NoError(restoreErr)
	s.False(restored.Archived)
	s.Require().Len(restored.ArchiveEvents, 2)
	s.False(restored.ArchiveEvents[1].Archived)
}

func (s *LinkRepoSuite) TestDelete_CascadesPageViews() {
	ctx := context.Background()
	link := s.makeLink()

	for i := 0; i < 3; i++ {
		view := models.NewPageView(link.ID, gofakeit.IPv4Address())
		s.Require().NoError(s.pageViews.Create(ctx, view))
	}

	result, delErr := s.repo.Delete(ctx, link.ID)
	s.Require().NoError(delErr)
	s.Equal(int64(1), result.LinksRemoved)
	s.Equal(int64(3), result.PageViewsRemoved)

	_, getErr := s.repo.GetByID(ctx, link.ID)
	s.Require().ErrorIs(getErr, repositories.ErrNotFound)
}

func (s *LinkRepoSuite) TestList_FilterByOwner() {
	ctx := context.Background()
	first := s.makeLink()
	s.makeLink()

	links, listErr := s.repo.List(
		ctx,
		repositories.LinksFilter{VisitorUUID: first.VisitorUUID},
		repositories.Pagination{},
	)
	s.Require().NoError(listErr)
	s.Require().Len(links, 1)
	s.Equal(first.ID, links[0].ID)
}

func TestLinkRepoSuite(t *testing.T) {
	suite.Run(t, new(LinkRepoSuite))
}
