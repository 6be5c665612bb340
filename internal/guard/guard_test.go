package guard

import (
	"errors"
	"testing"

	"github.com/cooscarhuerta/CRMGrapHQL/internal/auth"
	"github.com/cooscarhuerta/CRMGrapHQL/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestRequireIdentity(t *testing.T) {
	require.True(t, errors.Is(RequireIdentity(nil), domain.ErrUnauthorized))
	require.NoError(t, RequireIdentity(&auth.Identity{ID: 1}))
}

func TestAssertOwns(t *testing.T) {
	ident := &auth.Identity{ID: 42}

	require.NoError(t, AssertOwns(ident, 42))
	require.True(t, errors.Is(AssertOwns(ident, 43), domain.ErrForbidden))
	require.True(t, errors.Is(AssertOwns(nil, 42), domain.ErrUnauthorized))
}
