package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fsdevblog/linkboard/internal/config"
	"github.com/fsdevblog/linkboard/internal/controllers/mocks"
	"github.com/fsdevblog/linkboard/internal/models"
	"github.com/fsdevblog/linkboard/internal/repositories"
	"github.com/fsdevblog/linkboard/internal/services"
	"github.com/fsdevblog/linkboard/internal/tokens"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type DashboardControllerSuite struct {
	suite.Suite
	linksMock   *mocks.LinkManagerMock
	domainsMock *mocks.DomainManagerMock
	clicksMock  *mocks.ClickTrackerMock
	router      *gin.Engine
}

func (s *DashboardControllerSuite) SetupTest() {
	s.linksMock = new(mocks.LinkManagerMock)
	s.domainsMock = new(mocks.DomainManagerMock)
	s.clicksMock = new(mocks.ClickTrackerMock)

	s.router = SetupRouter(RouterParams{
		LinkService:     s.linksMock,
		DomainService:   s.domainsMock,
		PageViewService: s.clicksMock,
		AppConf:         config.Config{JWTSecret: testJWTSecret},
		Logger:          logrus.New(),
	})
}

func (s *DashboardControllerSuite) TestLinkInfo() {
	s.linksMock.On("GetByID", mock.Anything, uint(1)).
		Return(&models.Link{ID: 1, ShortToken: "abc1234", URL: "https://example.com"}, nil)
	s.clicksMock.On("Summarize", mock.Anything, uint(1)).
		Return(&services.LinkSummary{
			TotalClicks: 3,
			JustUSA:     true,
			Countries:   []repositories.DimensionCount{{Key: "US", Count: 3}},
			States: []repositories.DimensionCount{
				{Key: "California", Count: 2},
				{Key: "Texas", Count: 1},
			},
			Referrers: []repositories.DimensionCount{},
			Devices:   []repositories.DimensionCount{},
			Platforms: []repositories.DimensionCount{},
			Browsers:  []repositories.DimensionCount{},
		}, nil)

	res := s.makeRequest("/api/v1/dashboard/1")
	defer res.Body.Close()

	s.Require().Equal(http.StatusOK, res.StatusCode)

	var body struct {
		Link    models.Link          `json:"link"`
		Summary services.LinkSummary `json:"summary"`
	}
	s.Require().NoError(json.NewDecoder(res.Body).Decode(&body))
	s.Equal("abc1234", body.Link.ShortToken)
	s.Equal(int64(3), body.Summary.TotalClicks)
	s.True(body.Summary.JustUSA)
	s.Len(body.Summary.States, 2)
}

func (s *DashboardControllerSuite) TestLinkInfo_NotFound() {
	s.linksMock.On("GetByID", mock.Anything, uint(99)).
		Return(nil, errors.Wrap(services.ErrRecordNotFound, "link 99 not found"))

	res := s.makeRequest("/api/v1/dashboard/99")
	defer res.Body.Close()

	s.Equal(http.StatusNotFound, res.StatusCode)
	s.clicksMock.AssertNotCalled(s.T(), "Summarize", mock.Anything, mock.Anything)
}

func (s *DashboardControllerSuite) makeRequest(target string) *http.Response {
	token, tokenErr := tokens.GenerateUserJWT(10, time.Hour, []byte(testJWTSecret))
	s.Require().NoError(tokenErr)

	request := httptest.NewRequest(http.MethodGet, target, nil)
	request.Header.Set("Authorization", "Bearer "+token)

	recorder := httptest.NewRecorder()
	s.router.ServeHTTP(recorder, request)

	return recorder.Result()
}

func TestDashboardControllerSuite(t *testing.T) {
	suite.Run(t, new(DashboardControllerSuite))
}
