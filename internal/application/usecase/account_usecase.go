// internal/application/usecase/account_usecase.go
package usecase

import (
	"context"
	"errors"
	"strings"

	userdom "boutique/internal/domain/user"
)

var (
	ErrAccountInvalidArgument = errors.New("account_usecase: invalid argument")
)

// AccountUsecase manages per-user profile records.
type AccountUsecase struct {
	repo  userdom.Repository
	clock Clock
}

func NewAccountUsecase(repo userdom.Repository) *AccountUsecase {
	return &AccountUsecase{repo: repo, clock: systemClock{}}
}

// NewAccountUsecaseWithClock is useful for tests.
func NewAccountUsecaseWithClock(repo userdom.Repository, clock Clock) *AccountUsecase {
	if clock == nil {
		clock = systemClock{}
	}
	return &AccountUsecase{repo: repo, clock: clock}
}

// EnsureProfile returns the profile for uid, creating a customer profile on
// first sign-in. New profiles are always created as customer; promotion to
// admin happens out of band.
func (uc *AccountUsecase) EnsureProfile(ctx context.Context, uid, email string) (*userdom.Profile, error) {
	if uc == nil || uc.repo == nil {
		return nil, ErrAccountInvalidArgument
	}
	u := strings.TrimSpace(uid)
	if u == "" {
		return nil, ErrAccountInvalidArgument
	}

	p, err := uc.repo.GetByUID(ctx, u)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, userdom.ErrNotFound) {
		return nil, err
	}

	p, err = userdom.New(u, email, "", uc.clock.Now().UTC())
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// IsAdmin reports whether uid's profile grants elevated operations. Looked
// up per request; any failure answers false.
func (uc *AccountUsecase) IsAdmin(ctx context.Context, uid string) bool {
	if uc == nil || uc.repo == nil {
		return false
	}
	u := strings.TrimSpace(uid)
	if u == "" {
		return false
	}
	p, err := uc.repo.GetByUID(ctx, u)
	if err != nil {
		return false
	}
	return p.IsAdmin()
}
