package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/cims_finance/internal/apperrors"
	"github.com/SscSPs/cims_finance/internal/core/domain"
	portssvc "github.com/SscSPs/cims_finance/internal/core/ports/services"
	"github.com/SscSPs/cims_finance/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ExchangeRateServiceTestSuite struct {
	suite.Suite
	mockRepo      *MockExchangeRateRepository
	mockProvider  *MockRateQuoteProvider
	mockPublisher *MockEventPublisher
	service       portssvc.ExchangeRateSvcFacade
	ctx           context.Context
}

func (suite *ExchangeRateServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockExchangeRateRepository)
	suite.mockProvider = new(MockRateQuoteProvider)
	suite.mockPublisher = new(MockEventPublisher)
	suite.service = services.NewExchangeRateService(suite.mockRepo,
		services.WithRateQuoteProvider(suite.mockProvider),
		services.WithExchangeRateClock(fixedClock()),
		services.WithExchangeRatePublisher(suite.mockPublisher))
	suite.ctx = context.Background()
}

func (suite *ExchangeRateServiceTestSuite) TestGetCurrentRate_Latest() {
	suite.mockRepo.On("FindLatestExchangeRate", suite.ctx).Return(&domain.ExchangeRate{Rate: dec("12850.50")}, nil).Once()

	rate, isFallback, err := suite.service.GetCurrentRate(suite.ctx)

	suite.Require().NoError(err)
	suite.False(isFallback)
	suite.True(rate.Equal(dec("12850.50")))
	suite.mockProvider.AssertNotCalled(suite.T(), "FetchUSDToUZS", mock.Anything)
}

func (suite *ExchangeRateServiceTestSuite) TestGetCurrentRate_FallbackWhenEmpty() {
	suite.mockRepo.On("FindLatestExchangeRate", suite.ctx).Return(nil, apperrors.NewNotFoundError("no exchange rate recorded")).Once()

	rate, isFallback, err := suite.service.GetCurrentRate(suite.ctx)

	suite.Require().NoError(err)
	suite.True(isFallback)
	suite.True(rate.Equal(services.DefaultExchangeRate))
}

func (suite *ExchangeRateServiceTestSuite) TestGetCurrentRate_ConfiguredFallback() {
	svc := services.NewExchangeRateService(suite.mockRepo, services.WithFallbackRate(dec("13000")))
	suite.mockRepo.On("FindLatestExchangeRate", suite.ctx).Return(nil, apperrors.ErrNotFound).Once()

	rate, isFallback, err := svc.GetCurrentRate(suite.ctx)

	suite.Require().NoError(err)
	suite.True(isFallback)
	suite.True(rate.Equal(dec("13000")))
}

func (suite *ExchangeRateServiceTestSuite) TestGetCurrentRate_StorageError() {
	suite.mockRepo.On("FindLatestExchangeRate", suite.ctx).Return(nil, errors.New("connection reset")).Once()

	_, _, err := suite.service.GetCurrentRate(suite.ctx)

	suite.Require().Error(err)
	suite.Contains(err.Error(), "connection reset")
}

func (suite *ExchangeRateServiceTestSuite) TestRecordRate_RoundsAndPublishes() {
	suite.mockRepo.On("SaveExchangeRate", suite.ctx, mock.MatchedBy(func(r domain.ExchangeRate) bool {
		return r.Rate.Equal(dec("12801.13")) &&
			r.Source == domain.RateSourceManual &&
			r.RecordedBy == "user-1" &&
			r.RecordedAt.Equal(fixedNow)
	})).Return(nil).Once()
	suite.mockPublisher.On("Publish", suite.ctx, mock.MatchedBy(func(ev portssvc.LedgerEvent) bool {
		return ev.Type == portssvc.EventRateRecorded && ev.Amount.Equal(dec("12801.13"))
	})).Return(nil).Once()

	rate, err := suite.service.RecordRate(suite.ctx, dec("12801.125"), domain.Actor{UserID: "user-1"})

	suite.Require().NoError(err)
	suite.NotEmpty(rate.ExchangeRateID)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockPublisher.AssertExpectations(suite.T())
}

func (suite *ExchangeRateServiceTestSuite) TestRecordRate_SystemActor() {
	suite.mockRepo.On("SaveExchangeRate", suite.ctx, mock.MatchedBy(func(r domain.ExchangeRate) bool {
		return r.RecordedBy == domain.SystemActorID
	})).Return(nil).Once()
	suite.mockPublisher.On("Publish", suite.ctx, mock.Anything).Return(nil).Once()

	_, err := suite.service.RecordRate(suite.ctx, dec("12700"), domain.Actor{})

	suite.Require().NoError(err)
}

func (suite *ExchangeRateServiceTestSuite) TestRecordRate_RejectsNonPositive() {
	for _, r := range []decimal.Decimal{dec("0"), dec("-1"), dec("0.004")} {
		_, err := suite.service.RecordRate(suite.ctx, r, domain.Actor{UserID: "user-1"})
		suite.ErrorIs(err, apperrors.ErrValidation)
	}
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveExchangeRate", mock.Anything, mock.Anything)
}

func (suite *ExchangeRateServiceTestSuite) TestFetchLiveRate_PassesRateFetchErrorThrough() {
	fetchErr := apperrors.NewRateFetchError(401, "invalid API key", nil)
	suite.mockProvider.On("FetchUSDToUZS", suite.ctx).Return(decimal.Zero, fetchErr).Once()

	_, err := suite.service.FetchLiveRate(suite.ctx)

	var rfe *apperrors.RateFetchError
	suite.Require().ErrorAs(err, &rfe)
	suite.Equal(401, rfe.StatusCode)
}

func (suite *ExchangeRateServiceTestSuite) TestFetchLiveRate_WrapsOtherErrors() {
	suite.mockProvider.On("FetchUSDToUZS", suite.ctx).Return(decimal.Zero, errors.New("boom")).Once()

	_, err := suite.service.FetchLiveRate(suite.ctx)

	suite.ErrorIs(err, apperrors.ErrRateFetch)
}

func (suite *ExchangeRateServiceTestSuite) TestFetchLiveRate_NoProvider() {
	svc := services.NewExchangeRateService(suite.mockRepo)

	_, err := svc.FetchLiveRate(suite.ctx)

	suite.ErrorIs(err, apperrors.ErrRateFetch)
}

func (suite *ExchangeRateServiceTestSuite) TestSyncLiveRate_RecordsLiveSource() {
	suite.mockProvider.On("FetchUSDToUZS", suite.ctx).Return(dec("12655.40"), nil).Once()
	suite.mockRepo.On("SaveExchangeRate", suite.ctx, mock.MatchedBy(func(r domain.ExchangeRate) bool {
		return r.Source == domain.RateSourceLive && r.Rate.Equal(dec("12655.40"))
	})).Return(nil).Once()
	suite.mockPublisher.On("Publish", suite.ctx, mock.Anything).Return(nil).Once()

	rate, err := suite.service.SyncLiveRate(suite.ctx, domain.Actor{UserID: "user-1"})

	suite.Require().NoError(err)
	suite.Equal(domain.RateSourceLive, rate.Source)
}

func (suite *ExchangeRateServiceTestSuite) TestSyncLiveRate_FetchFailureWritesNothing() {
	suite.mockProvider.On("FetchUSDToUZS", suite.ctx).Return(decimal.Zero, apperrors.NewRateFetchError(403, "plan or usage limit restriction", nil)).Once()

	_, err := suite.service.SyncLiveRate(suite.ctx, domain.Actor{UserID: "user-1"})

	suite.ErrorIs(err, apperrors.ErrRateFetch)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveExchangeRate", mock.Anything, mock.Anything)
	suite.mockPublisher.AssertNotCalled(suite.T(), "Publish", mock.Anything, mock.Anything)
}

func (suite *ExchangeRateServiceTestSuite) TestListRates() {
	suite.mockRepo.On("ListExchangeRates", suite.ctx, 10).Return([]domain.ExchangeRate{{Rate: dec("1")}, {Rate: dec("2")}}, nil).Once()

	rates, err := suite.service.ListRates(suite.ctx, 10)

	suite.Require().NoError(err)
	suite.Len(rates, 2)

	_, err = suite.service.ListRates(suite.ctx, 0)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestExchangeRateServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExchangeRateServiceTestSuite))
}
