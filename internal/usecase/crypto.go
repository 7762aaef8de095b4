package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"budget-reconciler/internal/domain"
	"budget-reconciler/internal/notes"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CryptoAccountPrefix selects the accounts TrackCrypto looks at.
const CryptoAccountPrefix = "Crypto - "

var (
	validatorTag = regexp.MustCompile(`validator:(\d+):(1|0?\.\d+)`)
	ethTag       = regexp.MustCompile(`eth:(0x[a-fA-F0-9]{40})`)
)

// CryptoUseCase values staking validators and wallets held in crypto accounts.
type CryptoUseCase struct {
	base
	notes      NoteStore
	validators ValidatorBalances
	wallets    WalletBalances
	prices     PriceSource
	balances   *BalanceUseCase
}

// NewCryptoUseCase creates a new instance of the usecase.
func NewCryptoUseCase(store NoteStore, validators ValidatorBalances, wallets WalletBalances, prices PriceSource, balances *BalanceUseCase, options ...Option) *CryptoUseCase {
	return &CryptoUseCase{
		base:       newBase(options),
		notes:      store,
		validators: validators,
		wallets:    wallets,
		prices:     prices,
		balances:   balances,
	}
}

// checkResult is what a checker produced for one note.
type checkResult struct {
	strip *regexp.Regexp
	lines []string
	eth   decimal.Decimal
}

type checker func(ctx context.Context, note string) (*checkResult, error)

// TrackCrypto revalues every open "Crypto - " account. The first checker that
// recognises the note wins.
func (uc *CryptoUseCase) TrackCrypto(ctx context.Context, accounts []domain.Account) (*domain.RunReport, error) {
	report := &domain.RunReport{ID: uuid.NewString(), Job: "trackCrypto", StartedAt: uc.now().UTC()}
	checkers := []checker{uc.checkValidators, uc.checkEth}

	for _, account := range accounts {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if account.Closed || !strings.HasPrefix(account.Name, CryptoAccountPrefix) {
			continue
		}
		outcome := uc.trackAccount(ctx, account, checkers)
		if outcome.Status == domain.StatusFailed {
			uc.accountLog(account).WithField("error", outcome.Reason).Error("crypto valuation failed")
		}
		report.Add(outcome)
	}
	report.FinishedAt = uc.now().UTC()
	return report, nil
}

func (uc *CryptoUseCase) trackAccount(ctx context.Context, account domain.Account, checkers []checker) domain.AccountOutcome {
	note, err := uc.notes.Note(ctx, account.NoteID())
	if err != nil {
		return domain.Failed(account, fmt.Errorf("could not get account note: %w", err))
	}
	if note == "" {
		return domain.Skipped(account, "no note")
	}

	for _, check := range checkers {
		res, err := check(ctx, note)
		if err != nil {
			return domain.Failed(account, err)
		}
		if res == nil {
			continue
		}

		price, err := uc.prices.USDPrice(ctx, "ETH")
		if err != nil {
			return domain.Failed(account, fmt.Errorf("could not fetch ETH price: %w", err))
		}
		diff, err := uc.balances.UpdateAccountBalance(ctx, BalanceUpdate{
			Account:    account,
			NewBalance: res.eth.Mul(price).Round(2),
			Payee:      "Balance Adjustment",
		})
		if err != nil {
			return domain.Failed(account, err)
		}

		if err := uc.notes.SetNote(ctx, account.NoteID(), notes.ReplaceHelperBlock(note, res.strip, res.lines)); err != nil {
			return domain.Failed(account, fmt.Errorf("could not save account note: %w", err))
		}
		outcome := domain.Updated(account)
		outcome.Adjustment = &diff
		return outcome
	}
	return domain.Skipped(account, "no crypto tags")
}

var errValidatorMissing = errors.New("validator balance missing")

func (uc *CryptoUseCase) checkValidators(ctx context.Context, note string) (*checkResult, error) {
	matches := validatorTag.FindAllStringSubmatch(note, -1)
	if len(matches) == 0 {
		return nil, nil
	}

	indices := make([]string, 0, len(matches))
	shares := make([]decimal.Decimal, 0, len(matches))
	for _, m := range matches {
		share, err := decimal.NewFromString(m[2])
		if err != nil {
			return nil, fmt.Errorf("validator %s share %q: %w", m[1], m[2], err)
		}
		indices = append(indices, m[1])
		shares = append(shares, share)
	}

	balances, err := uc.validators.ValidatorBalances(ctx, indices)
	if err != nil {
		return nil, fmt.Errorf("could not fetch validator balances: %w", err)
	}

	lines := []string{"[comment]: <> (Only edit the comments below!)"}
	for i, index := range indices {
		lines = append(lines, fmt.Sprintf("[comment]: <> (validator:%s:%s)", index, shares[i].String()))
	}
	lines = append(lines, "", "| Validator | Balance |", "|-|-:|")

	total := decimal.Zero
	for i, index := range indices {
		gwei, ok := balances[index]
		if !ok {
			return nil, fmt.Errorf("validator %s: %w", index, errValidatorMissing)
		}
		owned := gwei.Mul(shares[i]).Truncate(0)
		total = total.Add(owned)
		lines = append(lines, fmt.Sprintf("| %s | %s |", index, gweiToEth(owned).String()))
	}
	eth := gweiToEth(total)
	lines = append(lines, "", "ETH Balance: "+eth.String())

	return &checkResult{strip: validatorTag, lines: lines, eth: eth}, nil
}

func (uc *CryptoUseCase) checkEth(ctx context.Context, note string) (*checkResult, error) {
	m := ethTag.FindStringSubmatch(note)
	if m == nil {
		return nil, nil
	}
	wei, err := uc.wallets.WalletBalance(ctx, m[1])
	if err != nil {
		return nil, fmt.Errorf("could not fetch balance of %s: %w", m[1], err)
	}
	eth := wei.Shift(-18)
	return &checkResult{
		strip: ethTag,
		lines: []string{"eth:" + m[1], "ETH Balance: " + eth.String()},
		eth:   eth,
	}, nil
}

func gweiToEth(gwei decimal.Decimal) decimal.Decimal {
	return gwei.Shift(-9)
}
