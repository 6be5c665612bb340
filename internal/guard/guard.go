// Package guard is the cross-cutting ownership policy: every query or
// mutation touching a Client or Order confirms the acting salesperson
// owns the record.
package guard

import (
	"fmt"

	"github.com/cooscarhuerta/CRMGrapHQL/internal/auth"
	"github.com/cooscarhuerta/CRMGrapHQL/internal/domain"
)

// RequireIdentity rejects anonymous access.
func RequireIdentity(ident *auth.Identity) error {
	if ident == nil {
		return fmt.Errorf("%w: authentication required", domain.ErrUnauthorized)
	}
	return nil
}

// AssertOwns fails with Forbidden unless ident owns the record. Pure
// policy check, no side effects.
func AssertOwns(ident *auth.Identity, ownerID int64) error {
	if err := RequireIdentity(ident); err != nil {
		return err
	}
	if ident.ID != ownerID {
		return fmt.Errorf("%w: record belongs to another seller", domain.ErrForbidden)
	}
	return nil
}
