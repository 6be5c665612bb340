package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cooscarhuerta/CRMGrapHQL/internal/domain"
	"github.com/cooscarhuerta/CRMGrapHQL/pkg/common"
	"github.com/stretchr/testify/require"
)

func TestCreateClientDuplicateEmailConflict(t *testing.T) {
	db := openTestDB(t)
	repo := NewGormClientRepository(db)
	ctx := context.Background()

	sellerID := common.UUIDint64()
	first := &domain.Client{
		ID:        common.UUIDint64(),
		Name:      "Ana",
		Email:     "ana@client.test",
		SellerID:  sellerID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, repo.Create(ctx, first))

	second := &domain.Client{
		ID:        common.UUIDint64(),
		Name:      "Impostor",
		Email:     "ana@client.test",
		SellerID:  sellerID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	err := repo.Create(ctx, second)
	require.True(t, errors.Is(err, domain.ErrConflict), "got %v", err)

	got, err := repo.GetByEmail(ctx, "ana@client.test")
	require.NoError(t, err)
	require.Equal(t, "Ana", got.Name)
}
