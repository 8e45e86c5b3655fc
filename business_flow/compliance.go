package businessflow

import (
	"context"

	"github.com/promolane/promolane/models"
	"github.com/promolane/promolane/repository"
	"github.com/promolane/promolane/utils"
	"github.com/shopspring/decimal"
)

// enforceEarningsCeiling flags a promoter for verification once lifetime
// earnings pass the regulatory ceiling. Invoked after every wallet credit,
// not only the crossing one, so a missed write self-heals on the next
// payout. Promoters already flagged or verified are left alone.
func enforceEarningsCeiling(ctx context.Context, promoterRepo repository.PromoterRepository, promoterID uint, totalEarned decimal.Decimal) error {
	if totalEarned.Cmp(utils.ComplianceEarningsCeiling) <= 0 {
		return nil
	}

	promoter, err := promoterRepo.ByID(ctx, promoterID)
	if err != nil {
		return err
	}
	if promoter == nil {
		return ErrPromoterNotFound
	}
	if promoter.ComplianceStatus == models.ComplianceStatusRequired ||
		promoter.ComplianceStatus == models.ComplianceStatusVerified {
		return nil
	}

	return promoterRepo.UpdateComplianceStatus(ctx, promoterID, models.ComplianceStatusRequired)
}
