package integration

import (
	"context"
	"testing"

	investorapp "github.com/ngochangjelly/rental-management-platform-sub000/internal/application/investor"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// staleIDs hides every existing investor id, like a replica that has not caught up
type staleIDs struct {
	*persistence.GormInvestorRepository
}

func (staleIDs) ListIDs(context.Context) ([]string, error) {
	return []string{}, nil
}

func TestRosterService_CreateWithStaleIDsKeepsExistingInvestor(t *testing.T) {
	tdb := NewSharedTestDB(t)
	tdb.CleanTables()
	ctx := context.Background()
	repo := persistence.NewGormInvestorRepository(tdb.DB)

	first := investorapp.NewRosterService(repo, zap.NewNop())
	alice, err := first.AddToProperty(ctx, "p1", investorapp.AddToPropertyRequest{
		ProfileRequest: investorapp.ProfileRequest{Name: "Alice"},
		Percentage:     decimal.NewFromInt(40),
	})
	require.NoError(t, err)
	assert.Equal(t, "1", alice.Investor.InvestorID)

	second := investorapp.NewRosterService(staleIDs{repo}, zap.NewNop())
	bob, err := second.Create(ctx, investorapp.CreateInvestorRequest{
		ProfileRequest: investorapp.ProfileRequest{Name: "Bob"},
	})
	require.NoError(t, err)
	assert.Equal(t, "2", bob.InvestorID)

	stored, err := repo.FindByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", stored.Name)
	pct, ok := stored.ShareFor("p1")
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(40).Equal(pct))
}
