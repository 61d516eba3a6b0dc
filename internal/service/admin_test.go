package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/events"
	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrantCredits(t *testing.T) {
	f := newFixture(t)
	admin := f.addAdmin(t, "a1")
	f.addClient(t, "u1", 2)

	profile, err := f.svc.GrantCredits(context.Background(), &admin, "u1", " 25 ")
	require.NoError(t, err)
	assert.Equal(t, 27, profile.Credits)
	assert.Equal(t, 27, f.store.Profile("u1").Credits)

	ledger := f.store.Ledger()
	require.Len(t, ledger, 1)
	assert.Equal(t, 25, ledger[0].Amount)
	assert.Equal(t, models.TransactionGrant, ledger[0].Type)
	assert.Equal(t, "Admin grant of 25 credits by a1@verifiedmeasure.com", ledger[0].Description)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, grantMail{"u1@acme.com", "Client u1", 25, 27}, f.notifier.sent[0])

	published := f.events.all()
	require.Len(t, published, 1)
	assert.Equal(t, events.TypeGrant, published[0].Type)
}

func TestGrantCreditsNegativeMayGoBelowZero(t *testing.T) {
	f := newFixture(t)
	admin := f.addAdmin(t, "a1")
	f.addClient(t, "u1", 2)

	profile, err := f.svc.GrantCredits(context.Background(), &admin, "u1", "-5")
	require.NoError(t, err)
	assert.Equal(t, -3, profile.Credits)
}

func TestGrantCreditsRejectsBadAmounts(t *testing.T) {
	f := newFixture(t)
	admin := f.addAdmin(t, "a1")
	f.addClient(t, "u1", 2)

	for _, amount := range []string{"", "abc", "0", "1.5"} {
		_, err := f.svc.GrantCredits(context.Background(), &admin, "u1", amount)
		require.ErrorIs(t, err, ErrInvalidAmount, amount)
	}
	assert.Zero(t, f.store.Calls["InTx"])
}

func TestGrantCreditsRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	client := f.addClient(t, "u1", 2)

	_, err := f.svc.GrantCredits(context.Background(), &client, "u1", "5")
	require.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, 2, f.store.Profile("u1").Credits)
}

func TestGrantCreditsUnknownUser(t *testing.T) {
	f := newFixture(t)
	admin := f.addAdmin(t, "a1")

	_, err := f.svc.GrantCredits(context.Background(), &admin, "ghost", "5")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, f.store.Ledger())
}

func TestGrantCreditsNotificationFailureIsLogged(t *testing.T) {
	f := newFixture(t)
	admin := f.addAdmin(t, "a1")
	f.addClient(t, "u1", 0)
	f.notifier.err = errors.New("smtp down")

	_, err := f.svc.GrantCredits(context.Background(), &admin, "u1", "5")
	require.NoError(t, err)
	assert.Equal(t, 5, f.store.Profile("u1").Credits)
}

func TestAdminOverview(t *testing.T) {
	f := newFixture(t)
	seedLeads(f)
	sold := lead("L4", "Umbrella", "Pharma", "Raccoon City")
	sold.Status = "sold"
	f.store.AddLeads(sold)
	f.addAdmin(t, "a1")
	f.addClient(t, "u1", 4)
	f.addClient(t, "u2", 6)

	o, err := f.svc.AdminOverview(context.Background())
	require.NoError(t, err)
	assert.Len(t, o.Leads, 4)
	assert.Len(t, o.Profiles, 3)
	assert.Equal(t, OverviewStats{TotalLeads: 4, AvailableLeads: 3, Clients: 2, TotalCredits: 10}, o.Stats)
}

func TestAdminOverviewFailure(t *testing.T) {
	f := newFixture(t)
	f.store.Fail = func(op string) error {
		if op == "ListProfiles" {
			return errors.New("timeout")
		}
		return nil
	}
	_, err := f.svc.AdminOverview(context.Background())
	require.Error(t, err)
}

func TestSetProfileStatus(t *testing.T) {
	f := newFixture(t)
	f.addAdmin(t, "a1")
	f.addClient(t, "u1", 0)
	ctx := context.Background()

	require.NoError(t, f.svc.SetProfileStatus(ctx, "a1", "u1", models.StatusSuspended))
	assert.Equal(t, models.StatusSuspended, f.store.Profile("u1").Status)

	require.ErrorIs(t, f.svc.SetProfileStatus(ctx, "a1", "a1", models.StatusSuspended), ErrForbidden)
	require.ErrorIs(t, f.svc.SetProfileStatus(ctx, "a1", "ghost", models.StatusActive), ErrNotFound)

	var verr *ValidationError
	require.ErrorAs(t, f.svc.SetProfileStatus(ctx, "a1", "u1", "banned"), &verr)
}
