// Package businessflow contains the core business logic and use cases for ledger workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Promoter-related errors
	ErrPromoterNotFound = errors.New("promoter not found")
	ErrWalletNotFound   = errors.New("wallet not found")

	// Campaign-related errors
	ErrCampaignNotFound  = errors.New("campaign not found")
	ErrCampaignNotActive = errors.New("campaign is not active")

	// Budget guard errors
	ErrDailyQuotaExceeded = errors.New("daily action quota exceeded for this campaign")
	ErrBudgetExhausted    = errors.New("campaign budget exhausted")

	// Link errors
	ErrLinkNotFound          = errors.New("tracked link not found")
	ErrInvalidDestinationURL = errors.New("destination URL must use http or https")
	ErrLinkUIDCollision      = errors.New("could not allocate a unique link token")

	// Filter errors
	ErrInvalidPage     = errors.New("page must be at least 1")
	ErrInvalidPageSize = errors.New("page size must be between 1 and 100")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func IsPromoterNotFound(err error) bool {
	return errors.Is(err, ErrPromoterNotFound)
}

func IsWalletNotFound(err error) bool {
	return errors.Is(err, ErrWalletNotFound)
}

func IsCampaignNotFound(err error) bool {
	return errors.Is(err, ErrCampaignNotFound)
}

func IsCampaignNotActive(err error) bool {
	return errors.Is(err, ErrCampaignNotActive)
}

func IsDailyQuotaExceeded(err error) bool {
	return errors.Is(err, ErrDailyQuotaExceeded)
}

func IsBudgetExhausted(err error) bool {
	return errors.Is(err, ErrBudgetExhausted)
}

func IsLinkNotFound(err error) bool {
	return errors.Is(err, ErrLinkNotFound)
}

func IsLinkUIDCollision(err error) bool {
	return errors.Is(err, ErrLinkUIDCollision)
}

func IsInvalidDestinationURL(err error) bool {
	return errors.Is(err, ErrInvalidDestinationURL)
}

func IsInvalidPage(err error) bool {
	return errors.Is(err, ErrInvalidPage)
}

func IsInvalidPageSize(err error) bool {
	return errors.Is(err, ErrInvalidPageSize)
}
