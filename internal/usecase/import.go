package usecase

import (
	"context"
	"fmt"

	"budget-reconciler/internal/domain"
)

// ImportUseCase loads exported transactions into a ledger account.
type ImportUseCase struct {
	base
	ledger Ledger
}

// NewImportUseCase creates a new instance of the usecase.
func NewImportUseCase(ledger Ledger, options ...Option) *ImportUseCase {
	return &ImportUseCase{base: newBase(options), ledger: ledger}
}

// ImportTransactions posts rows to accountID as cleared transactions. Category
// names are created under group when missing; the payment category keeps the
// group it already has. It returns the number of rows posted.
func (uc *ImportUseCase) ImportTransactions(ctx context.Context, accountID string, rows []domain.ImportRow, group string) (int, error) {
	var groupID string
	categories := map[string]string{}

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return i, err
		}

		var categoryID string
		if row.Category != "" {
			id, ok := categories[row.Category]
			if !ok {
				if groupID == "" {
					var err error
					if groupID, err = uc.ledger.EnsureCategoryGroup(ctx, group); err != nil {
						return i, fmt.Errorf("could not ensure category group %q: %w", group, err)
					}
				}
				var err error
				if id, err = uc.ledger.EnsureCategory(ctx, row.Category, groupID, false); err != nil {
					return i, fmt.Errorf("could not ensure category %q: %w", row.Category, err)
				}
				categories[row.Category] = id
			}
			categoryID = id
		}

		_, err := uc.ledger.ImportTransaction(ctx, accountID, domain.NewTransaction{
			Date:       row.Date,
			Amount:     row.Amount,
			CategoryID: categoryID,
			Notes:      row.Notes,
			Cleared:    true,
			ImportedID: row.ID,
		})
		if err != nil {
			return i, fmt.Errorf("could not import row %s: %w", row.ID, err)
		}
	}
	uc.log.WithField("account_id", accountID).WithField("rows", len(rows)).Info("imported transactions")
	return len(rows), nil
}
