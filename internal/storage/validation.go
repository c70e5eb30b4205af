package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/verdantlabs/ecocycle/internal/model"
)

// Validation errors.
var (
	ErrNilContext        = errors.New("context cannot be nil")
	ErrEmptyString       = errors.New("string parameter cannot be empty")
	ErrNilParameter      = errors.New("parameter cannot be nil")
	ErrInvalidCategory   = errors.New("invalid waste category")
	ErrInvalidMethod     = errors.New("invalid disposal method")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrInvalidRedemption = errors.New("invalid redemption request")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateLogEntry checks the fields of a waste log before it is written.
func validateLogEntry(owner string, category model.WasteCategory, method model.DisposalMethod, quantity float64) error {
	if err := validateString(owner, "owner"); err != nil {
		return err
	}
	if !category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}
	if !method.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMethod, method)
	}
	if quantity <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidQuantity, quantity)
	}
	return nil
}

// validateRedemption checks a redemption request before the debit.
func validateRedemption(req *model.RedemptionRequest) error {
	if req == nil {
		return fmt.Errorf("%w: redemption", ErrNilParameter)
	}
	if err := validateString(req.Owner, "owner"); err != nil {
		return err
	}
	if strings.TrimSpace(req.CryptoType) == "" {
		return fmt.Errorf("%w: missing crypto type", ErrInvalidRedemption)
	}
	if req.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidRedemption)
	}
	if req.ExchangeRate <= 0 {
		return fmt.Errorf("%w: exchange rate must be positive", ErrInvalidRedemption)
	}
	return nil
}

// validateProfile checks a user profile before it is saved.
func validateProfile(profile *model.UserProfile) error {
	if profile == nil {
		return fmt.Errorf("%w: profile", ErrNilParameter)
	}
	if err := validateString(profile.Principal, "principal"); err != nil {
		return err
	}
	if err := validateString(profile.Name, "name"); err != nil {
		return err
	}
	return nil
}
