package controllers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/fsdevblog/linkboard/internal/config"
	"github.com/fsdevblog/linkboard/internal/controllers/mocks"
	"github.com/fsdevblog/linkboard/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type RedirectControllerSuite struct {
	suite.Suite
	linksMock   *mocks.LinkManagerMock
	domainsMock *mocks.DomainManagerMock
	clicksMock  *mocks.ClickTrackerMock
	router      *gin.Engine
}

func (s *RedirectControllerSuite) SetupTest() {
	s.buildRouter(nil)
}

// buildRouter пересобирает роутер; notFoundURL задает редирект для промахов.
func (s *RedirectControllerSuite) buildRouter(notFoundURL *url.URL) {
	s.linksMock = new(mocks.LinkManagerMock)
	s.domainsMock = new(mocks.DomainManagerMock)
	s.clicksMock = new(mocks.ClickTrackerMock)

	s.router = SetupRouter(RouterParams{
		LinkService:     s.linksMock,
		DomainService:   s.domainsMock,
		PageViewService: s.clicksMock,
		AppConf: config.Config{
			JWTSecret:           "test-secret",
			NotFoundRedirectURL: notFoundURL,
		},
		Logger: logrus.New(),
	})
}

func (s *RedirectControllerSuite) TestRedirect_Hit() {
	s.linksMock.On("Resolve", mock.Anything, "lnk.test", "abc1234").
		Return(&services.RedirectTarget{LinkID: 7, URL: "https://example.com/page"}, nil)

	tracked := make(chan services.Visit, 1)
	s.clicksMock.On("Track", mock.Anything).Run(func(args mock.Arguments) {
		tracked <- args.Get(0).(services.Visit) //nolint:errcheck
	}).Return()

	res := s.makeRequest(http.MethodGet, "http://lnk.test/abc1234")
	defer res.Body.Close()

	s.Equal(http.StatusMovedPermanently, res.StatusCode)
	s.Equal("https://example.com/page", res.Header.Get("Location"))

	// просмотр пишется в отдельной горутине уже после ответа
	select {
	case visit := <-tracked:
		s.Equal(uint(7), visit.LinkID)
	case <-time.After(time.Second):
		s.Fail("pageview was not tracked")
	}
}

func (s *RedirectControllerSuite) TestRedirect_Miss() {
	s.linksMock.On("Resolve", mock.Anything, "lnk.test", "missing").
		Return(nil, errors.Wrap(services.ErrRecordNotFound, "token missing not found"))

	res := s.makeRequest(http.MethodGet, "http://lnk.test/missing")
	defer res.Body.Close()

	s.Equal(http.StatusNotFound, res.StatusCode)
	s.Empty(res.Header.Get("Location"))
	s.clicksMock.AssertNotCalled(s.T(), "Track", mock.Anything)
}

func (s *RedirectControllerSuite) TestRedirect_MissWithFallbackURL() {
	notFoundURL, _ := url.Parse("https://app.lnk.test/not-found")
	s.buildRouter(notFoundURL)

	s.linksMock.On("Resolve", mock.Anything, "lnk.test", "missing").
		Return(nil, errors.Wrap(services.ErrRecordNotFound, "token missing not found"))

	res := s.makeRequest(http.MethodGet, "http://lnk.test/missing")
	defer res.Body.Close()

	s.Equal(http.StatusFound, res.StatusCode)
	s.Equal("https://app.lnk.test/not-found", res.Header.Get("Location"))
}

func (s *RedirectControllerSuite) TestRedirect_StripsPortFromHost() {
	s.linksMock.On("Resolve", mock.Anything, "lnk.test", "abc1234").
		Return(&services.RedirectTarget{LinkID: 7, URL: "https://example.com"}, nil)
	s.clicksMock.On("Track", mock.Anything).Return()

	res := s.makeRequest(http.MethodGet, "http://lnk.test:8080/abc1234")
	defer res.Body.Close()

	s.Equal(http.StatusMovedPermanently, res.StatusCode)
	s.linksMock.AssertCalled(s.T(), "Resolve", mock.Anything, "lnk.test", "abc1234")
}

func (s *RedirectControllerSuite) makeRequest(method, target string) *http.Response {
	request := httptest.NewRequest(method, target, nil)
	recorder := httptest.NewRecorder()

	s.router.ServeHTTP(recorder, request)

	return recorder.Result()
}

func TestRedirectControllerSuite(t *testing.T) {
	suite.Run(t, new(RedirectControllerSuite))
}
