package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/cims_finance/internal/apperrors"
	"github.com/SscSPs/cims_finance/internal/core/domain"
	portssvc "github.com/SscSPs/cims_finance/internal/core/ports/services"
	"github.com/SscSPs/cims_finance/internal/core/services"
	"github.com/SscSPs/cims_finance/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type LedgerServiceTestSuite struct {
	suite.Suite
	mockRepo      *MockLedgerEntryRepository
	mockRates     *MockRateReader
	mockPublisher *MockEventPublisher
	service       portssvc.LedgerSvcFacade
	actor         domain.Actor
	ctx           context.Context
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockLedgerEntryRepository)
	suite.mockRates = new(MockRateReader)
	suite.mockPublisher = new(MockEventPublisher)
	suite.service = services.NewLedgerService(suite.mockRepo, suite.mockRates,
		services.WithLedgerClock(fixedClock()),
		services.WithLedgerPublisher(suite.mockPublisher))
	suite.actor = domain.Actor{UserID: "user-1", Role: "ceo"}
	suite.ctx = context.Background()
}

func (suite *LedgerServiceTestSuite) expectRate(rate string) {
	suite.mockRates.On("GetCurrentRate", suite.ctx).Return(dec(rate), false, nil).Once()
}

func incomeRequest(account domain.Account, amount, pct string) dto.LedgerEntryRequest {
	return dto.LedgerEntryRequest{
		EntryType:          domain.Income,
		Recurrence:         domain.OneTime,
		Account:            account,
		ServiceLabel:       "Consulting",
		Amount:             dec(amount),
		DonationPercentage: dec(pct),
		TransactionStatus:  domain.StatusReal,
		EventDate:          "2024-03-10",
	}
}

func (suite *LedgerServiceTestSuite) TestCreateEntry_IncomeWithDonation() {
	suite.expectRate("12700")
	suite.mockRepo.On("SaveEntry", suite.ctx, mock.MatchedBy(func(e domain.LedgerEntry) bool {
		return e.DonationAmount.Equal(dec("10000")) &&
			e.Currency == domain.CurrencyUZS &&
			e.ExchangeRateSnapshot.Equal(dec("12700")) &&
			e.InitialDate == nil &&
			e.CreatedBy == "user-1"
	})).Return(nil).Once()
	suite.mockPublisher.On("Publish", suite.ctx, mock.MatchedBy(func(ev portssvc.LedgerEvent) bool {
		return ev.Type == portssvc.EventEntryCreated && ev.Donation.Equal(dec("10000"))
	})).Return(nil).Once()

	entry, err := suite.service.CreateEntry(suite.ctx, incomeRequest(domain.Account1, "100000", "10"), suite.actor)

	suite.Require().NoError(err)
	suite.NotEmpty(entry.EntryID)
	suite.Equal(day(2024, 3, 10), entry.EventDate)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockPublisher.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestCreateEntry_USDDonationConvertedAtCurrentRate() {
	suite.expectRate("12700")
	suite.mockRepo.On("SaveEntry", suite.ctx, mock.AnythingOfType("domain.LedgerEntry")).Return(nil).Once()
	suite.mockPublisher.On("Publish", suite.ctx, mock.Anything).Return(nil).Once()

	entry, err := suite.service.CreateEntry(suite.ctx, incomeRequest(domain.Account3, "100", "10"), suite.actor)

	suite.Require().NoError(err)
	suite.Equal(domain.CurrencyUSD, entry.Currency)
	suite.True(entry.DonationAmount.Equal(dec("127000")), entry.DonationAmount.String())
}

func (suite *LedgerServiceTestSuite) TestCreateEntry_OutcomeNeverDonates() {
	suite.expectRate("12700")
	suite.mockRepo.On("SaveEntry", suite.ctx, mock.AnythingOfType("domain.LedgerEntry")).Return(nil).Once()
	suite.mockPublisher.On("Publish", suite.ctx, mock.Anything).Return(nil).Once()
	req := incomeRequest(domain.Account2, "5000", "50")
	req.EntryType = domain.Outcome

	entry, err := suite.service.CreateEntry(suite.ctx, req, suite.actor)

	suite.Require().NoError(err)
	suite.True(entry.DonationAmount.IsZero())
}

func (suite *LedgerServiceTestSuite) TestCreateEntry_MonthlySetsInitialDate() {
	suite.expectRate("12700")
	suite.mockRepo.On("SaveEntry", suite.ctx, mock.AnythingOfType("domain.LedgerEntry")).Return(nil).Once()
	suite.mockPublisher.On("Publish", suite.ctx, mock.Anything).Return(nil).Once()
	req := incomeRequest(domain.Account1, "1000", "0")
	req.Recurrence = domain.Monthly

	entry, err := suite.service.CreateEntry(suite.ctx, req, suite.actor)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry.InitialDate)
	suite.Equal(day(2024, 3, 10), *entry.InitialDate)
}

func (suite *LedgerServiceTestSuite) TestCreateEntry_ValidationBeforeAnyWrite() {
	tests := []struct {
		name   string
		mutate func(*dto.LedgerEntryRequest)
	}{
		{"zero amount", func(r *dto.LedgerEntryRequest) { r.Amount = dec("0") }},
		{"negative amount", func(r *dto.LedgerEntryRequest) { r.Amount = dec("-1") }},
		{"donation over 100", func(r *dto.LedgerEntryRequest) { r.DonationPercentage = dec("100.01") }},
		{"negative donation", func(r *dto.LedgerEntryRequest) { r.DonationPercentage = dec("-5") }},
		{"tax over 100", func(r *dto.LedgerEntryRequest) { r.TaxPercentage = decPtr("101") }},
		{"unknown account", func(r *dto.LedgerEntryRequest) { r.Account = "ACCOUNT_9" }},
		{"unknown type", func(r *dto.LedgerEntryRequest) { r.EntryType = "REFUND" }},
		{"bad date", func(r *dto.LedgerEntryRequest) { r.EventDate = "15/03/2024" }},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			req := incomeRequest(domain.Account1, "1000", "10")
			tt.mutate(&req)

			entry, err := suite.service.CreateEntry(suite.ctx, req, suite.actor)

			suite.Require().Error(err)
			suite.Nil(entry)
			suite.ErrorIs(err, apperrors.ErrValidation)
		})
	}
	suite.mockRates.AssertNotCalled(suite.T(), "GetCurrentRate", mock.Anything)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestCreateEntry_RepositoryErrorNotPublished() {
	suite.expectRate("12700")
	suite.mockRepo.On("SaveEntry", suite.ctx, mock.Anything).Return(errors.New("db down")).Once()

	_, err := suite.service.CreateEntry(suite.ctx, incomeRequest(domain.Account1, "1000", "10"), suite.actor)

	suite.Require().Error(err)
	suite.Contains(err.Error(), "db down")
	suite.mockPublisher.AssertNotCalled(suite.T(), "Publish", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestCreateEntry_PublishFailureDoesNotFailWrite() {
	suite.expectRate("12700")
	suite.mockRepo.On("SaveEntry", suite.ctx, mock.Anything).Return(nil).Once()
	suite.mockPublisher.On("Publish", suite.ctx, mock.Anything).Return(errors.New("broker down")).Once()

	entry, err := suite.service.CreateEntry(suite.ctx, incomeRequest(domain.Account1, "1000", "10"), suite.actor)

	suite.Require().NoError(err)
	suite.NotNil(entry)
}

func (suite *LedgerServiceTestSuite) TestUpdateEntry_PreservesInitialDateAndResnapshots() {
	initial := day(2024, 1, 31)
	existing := &domain.LedgerEntry{
		EntryID:              "entry-1",
		EntryType:            domain.Income,
		Recurrence:           domain.Monthly,
		Account:              domain.Account1,
		Currency:             domain.CurrencyUZS,
		Amount:               dec("1000"),
		DonationAmount:       dec("100"),
		DonationPercentage:   dec("10"),
		ExchangeRateSnapshot: dec("12000"),
		TransactionStatus:    domain.StatusReal,
		EventDate:            initial,
		InitialDate:          &initial,
		AuditFields:          domain.AuditFields{CreatedBy: "creator"},
	}
	suite.expectRate("12700")
	suite.mockRepo.On("UpdateEntry", suite.ctx, "entry-1").Return(existing, nil).Once()
	suite.mockPublisher.On("Publish", suite.ctx, mock.Anything).Return(nil).Once()
	req := incomeRequest(domain.Account1, "2000", "5")
	req.Recurrence = domain.Monthly
	req.EventDate = "2024-03-01"

	updated, err := suite.service.UpdateEntry(suite.ctx, "entry-1", req, suite.actor)

	suite.Require().NoError(err)
	suite.Require().NotNil(updated.InitialDate)
	suite.Equal(initial, *updated.InitialDate)
	suite.True(updated.DonationAmount.Equal(dec("100")))
	suite.True(updated.ExchangeRateSnapshot.Equal(dec("12700")))
	suite.Equal("creator", updated.CreatedBy)
	suite.Equal("user-1", updated.LastUpdatedBy)
}

func (suite *LedgerServiceTestSuite) TestUpdateEntry_FillsMissingInitialDate() {
	existing := &domain.LedgerEntry{
		EntryID:    "entry-2",
		EntryType:  domain.Outcome,
		Recurrence: domain.OneTime,
		Account:    domain.Account2,
		Currency:   domain.CurrencyUZS,
		Amount:     dec("500"),
	}
	suite.expectRate("12700")
	suite.mockRepo.On("UpdateEntry", suite.ctx, "entry-2").Return(existing, nil).Once()
	suite.mockPublisher.On("Publish", suite.ctx, mock.Anything).Return(nil).Once()
	req := incomeRequest(domain.Account2, "500", "0")
	req.Recurrence = domain.Monthly

	updated, err := suite.service.UpdateEntry(suite.ctx, "entry-2", req, suite.actor)

	suite.Require().NoError(err)
	suite.Require().NotNil(updated.InitialDate)
	suite.Equal(day(2024, 3, 10), *updated.InitialDate)
}

func (suite *LedgerServiceTestSuite) TestUpdateEntry_NotFound() {
	suite.expectRate("12700")
	suite.mockRepo.On("UpdateEntry", suite.ctx, "missing").Return(nil, apperrors.NewNotFoundError("ledger entry missing")).Once()

	_, err := suite.service.UpdateEntry(suite.ctx, "missing", incomeRequest(domain.Account1, "1", "0"), suite.actor)

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockPublisher.AssertNotCalled(suite.T(), "Publish", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestDeleteEntry() {
	deleted := &domain.LedgerEntry{EntryID: "entry-3", Account: domain.Account1, DonationAmount: dec("250")}
	suite.mockRepo.On("DeleteEntry", suite.ctx, "entry-3").Return(deleted, nil).Once()
	suite.mockPublisher.On("Publish", suite.ctx, mock.MatchedBy(func(ev portssvc.LedgerEvent) bool {
		return ev.Type == portssvc.EventEntryDeleted && ev.EntryIDs[0] == "entry-3"
	})).Return(nil).Once()

	err := suite.service.DeleteEntry(suite.ctx, "entry-3", suite.actor)

	suite.Require().NoError(err)
	suite.mockPublisher.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestDeleteEntry_NotFound() {
	suite.mockRepo.On("DeleteEntry", suite.ctx, "missing").Return(nil, apperrors.NewNotFoundError("ledger entry missing")).Once()

	err := suite.service.DeleteEntry(suite.ctx, "missing", suite.actor)

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LedgerServiceTestSuite) TestTopUp_DatedTodayInBusinessZone() {
	suite.expectRate("12700")
	suite.mockRepo.On("SaveEntry", suite.ctx, mock.MatchedBy(func(e domain.LedgerEntry) bool {
		return e.ServiceLabel == services.TopUpServiceLabel &&
			e.EntryType == domain.Income &&
			e.Recurrence == domain.OneTime &&
			e.EventDate.Equal(day(2024, 3, 15)) &&
			e.TaxPercentage != nil && e.TaxPercentage.IsZero()
	})).Return(nil).Once()
	suite.mockPublisher.On("Publish", suite.ctx, mock.Anything).Return(nil).Once()

	entry, err := suite.service.TopUp(suite.ctx, dto.TopUpRequest{
		Account:            domain.Account2,
		Amount:             dec("300000"),
		DonationPercentage: dec("10"),
		TransactionStatus:  domain.StatusReal,
	}, suite.actor)

	suite.Require().NoError(err)
	suite.True(entry.DonationAmount.Equal(dec("30000")))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestTransfer_LocalToUSDWithTax() {
	suite.expectRate("12700")
	suite.mockRepo.On("SaveTransfer", suite.ctx,
		mock.MatchedBy(func(d domain.LedgerEntry) bool {
			return d.EntryType == domain.Outcome && d.Account == domain.Account1 && d.Amount.Equal(dec("127000")) &&
				d.TransactionStatus == domain.StatusReal && d.DonationAmount.IsZero()
		}),
		mock.MatchedBy(func(c domain.LedgerEntry) bool {
			return c.EntryType == domain.Income && c.Account == domain.Account3 && c.Amount.Equal(dec("9")) &&
				c.Currency == domain.CurrencyUSD && c.TransactionStatus == domain.StatusReal
		}),
	).Return(nil).Once()
	suite.mockPublisher.On("Publish", suite.ctx, mock.MatchedBy(func(ev portssvc.LedgerEvent) bool {
		return ev.Type == portssvc.EventTransfer && len(ev.EntryIDs) == 2
	})).Return(nil).Once()

	result, err := suite.service.Transfer(suite.ctx, dto.TransferRequest{
		FromAccount:   domain.Account1,
		ToAccount:     domain.Account3,
		Amount:        dec("127000"),
		TaxPercentage: decPtr("10"),
	}, suite.actor)

	suite.Require().NoError(err)
	suite.True(result.ConvertedAmount.Equal(dec("9")))
	suite.True(result.TaxAmount.Equal(dec("12700")))
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockPublisher.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestTransfer_USDToLocal() {
	suite.expectRate("12700")
	suite.mockRepo.On("SaveTransfer", suite.ctx, mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockPublisher.On("Publish", suite.ctx, mock.Anything).Return(nil).Once()

	result, err := suite.service.Transfer(suite.ctx, dto.TransferRequest{
		FromAccount: domain.Account3,
		ToAccount:   domain.Account2,
		Amount:      dec("10"),
	}, suite.actor)

	suite.Require().NoError(err)
	suite.True(result.ConvertedAmount.Equal(dec("127000")))
	suite.True(result.TaxAmount.IsZero())
}

func (suite *LedgerServiceTestSuite) TestTransfer_Rejections() {
	tests := []struct {
		name string
		req  dto.TransferRequest
	}{
		{"same account", dto.TransferRequest{FromAccount: domain.Account1, ToAccount: domain.Account1, Amount: dec("10")}},
		{"zero amount", dto.TransferRequest{FromAccount: domain.Account1, ToAccount: domain.Account2, Amount: dec("0")}},
		{"tax over 100", dto.TransferRequest{FromAccount: domain.Account1, ToAccount: domain.Account2, Amount: dec("10"), TaxPercentage: decPtr("150")}},
		{"unknown account", dto.TransferRequest{FromAccount: "ACCOUNT_0", ToAccount: domain.Account2, Amount: dec("10")}},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			result, err := suite.service.Transfer(suite.ctx, tt.req, suite.actor)

			suite.Nil(result)
			suite.ErrorIs(err, apperrors.ErrValidation)
		})
	}
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveTransfer", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestListEntries_BuildsFilter() {
	account := "ACCOUNT_3"
	from := "2024-01-01"
	token := "next"
	suite.mockRepo.On("ListEntries", suite.ctx, mock.MatchedBy(func(f domain.LedgerEntryFilter) bool {
		return f.Account != nil && *f.Account == domain.Account3 &&
			f.DateFrom != nil && f.DateFrom.Equal(day(2024, 1, 1)) &&
			f.ServiceSearch == "rent"
	}), 5, (*string)(nil)).Return([]domain.LedgerEntry{{EntryID: "e1", Account: domain.Account3}}, &token, nil).Once()

	resp, err := suite.service.ListEntries(suite.ctx, dto.ListLedgerEntriesParams{
		Limit:    5,
		Account:  &account,
		DateFrom: &from,
		Search:   " rent ",
	})

	suite.Require().NoError(err)
	suite.Len(resp.Entries, 1)
	suite.Equal("Company Account US", resp.Entries[0].AccountName)
	suite.Equal(&token, resp.NextToken)
}

func (suite *LedgerServiceTestSuite) TestListEntries_InvertedRange() {
	from, to := "2024-02-01", "2024-01-01"

	_, err := suite.service.ListEntries(suite.ctx, dto.ListLedgerEntriesParams{Limit: 5, DateFrom: &from, DateTo: &to})

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
