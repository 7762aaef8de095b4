package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"budget-reconciler/internal/domain"
	"budget-reconciler/internal/usecase"
	mock_usecase "budget-reconciler/internal/usecase/mocks"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBalanceUseCase_UpdateAccountBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	today := day(2024, 5, 10)
	savings := domain.Account{ID: "acct-sav", Name: "Savings"}
	helperFilter := domain.TransactionFilter{
		AccountID:     savings.ID,
		To:            today,
		NotesContains: usecase.HelperTag,
		Limit:         1,
		Descending:    true,
	}

	t.Run("no difference posts nothing", func(t *testing.T) {
		ledger := mock_usecase.NewMockLedger(ctrl)
		uc := usecase.NewBalanceUseCase(ledger, fixedClock(today))

		ledger.EXPECT().Balance(gomock.Any(), domain.TransactionFilter{AccountID: savings.ID}).Return(int64(12345), nil)

		diff, err := uc.UpdateAccountBalance(context.Background(), usecase.BalanceUpdate{
			Account:    savings,
			NewBalance: decimal.RequireFromString("123.45"),
		})
		assert.NoError(t, err)
		assert.Zero(t, diff)
	})

	t.Run("amends helper transaction posted today", func(t *testing.T) {
		ledger := mock_usecase.NewMockLedger(ctrl)
		uc := usecase.NewBalanceUseCase(ledger, fixedClock(today.Add(15*time.Hour)))

		ledger.EXPECT().Balance(gomock.Any(), gomock.Any()).Return(int64(10000), nil)
		ledger.EXPECT().Transactions(gomock.Any(), helperFilter).
			Return([]domain.Transaction{{ID: "tx-1", Date: today, Amount: 2000}}, nil)
		amount := int64(7050)
		note := "Update balance to 150.5 #helper-script"
		ledger.EXPECT().UpdateTransaction(gomock.Any(), "tx-1", domain.TransactionUpdate{Amount: &amount, Notes: &note}).Return(nil)

		diff, err := uc.UpdateAccountBalance(context.Background(), usecase.BalanceUpdate{
			Account:    savings,
			NewBalance: decimal.RequireFromString("150.50"),
			Payee:      "Balance Adjustment",
		})
		assert.NoError(t, err)
		assert.Equal(t, int64(5050), diff)
	})

	t.Run("imports a new cleared adjustment otherwise", func(t *testing.T) {
		ledger := mock_usecase.NewMockLedger(ctrl)
		uc := usecase.NewBalanceUseCase(ledger, fixedClock(today))

		ledger.EXPECT().Balance(gomock.Any(), gomock.Any()).Return(int64(10000), nil)
		ledger.EXPECT().Transactions(gomock.Any(), helperFilter).
			Return([]domain.Transaction{{ID: "tx-old", Date: day(2024, 5, 9), Amount: 2000}}, nil)
		ledger.EXPECT().EnsurePayee(gomock.Any(), "Bank").Return("payee-bank", nil)
		ledger.EXPECT().EnsureCategoryGroup(gomock.Any(), "Income").Return("grp-income", nil)
		ledger.EXPECT().EnsureCategory(gomock.Any(), "Interest", "grp-income", true).Return("cat-interest", nil)
		ledger.EXPECT().ImportTransaction(gomock.Any(), savings.ID, domain.NewTransaction{
			Date:       today,
			Amount:     -2500,
			PayeeID:    "payee-bank",
			CategoryID: "cat-interest",
			Notes:      "Monthly interest #helper-script",
			Cleared:    true,
		}).Return("tx-new", nil)

		diff, err := uc.UpdateAccountBalance(context.Background(), usecase.BalanceUpdate{
			Account:    savings,
			NewBalance: decimal.RequireFromString("75"),
			Payee:      "Bank",
			Category:   &usecase.CategoryRef{Name: "Interest", Group: "Income", Income: true},
			Note:       "Monthly interest",
		})
		assert.NoError(t, err)
		assert.Equal(t, int64(-2500), diff)
	})

	t.Run("ledger errors are wrapped", func(t *testing.T) {
		ledger := mock_usecase.NewMockLedger(ctrl)
		uc := usecase.NewBalanceUseCase(ledger, fixedClock(today))

		boom := errors.New("boom")
		ledger.EXPECT().Balance(gomock.Any(), gomock.Any()).Return(int64(0), nil)
		ledger.EXPECT().Transactions(gomock.Any(), gomock.Any()).Return(nil, nil)
		ledger.EXPECT().EnsurePayee(gomock.Any(), "Balance Adjustment").Return("p", nil)
		ledger.EXPECT().ImportTransaction(gomock.Any(), savings.ID, gomock.Any()).Return("", boom)

		_, err := uc.UpdateAccountBalance(context.Background(), usecase.BalanceUpdate{
			Account:    savings,
			NewBalance: decimal.NewFromInt(1),
			Payee:      "Balance Adjustment",
		})
		assert.ErrorIs(t, err, boom)
	})
}
