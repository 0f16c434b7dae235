package services

import (
	"testing"
	"time"

	"blaze-rewards-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveInviteCreditsExactlyOnce(t *testing.T) {
	db := openTestDB(t)
	users := NewUserService(db)
	engine := NewProgressionService(db, users)

	inviter, err := users.EnsureUser(1, "og")
	require.NoError(t, err)

	require.NoError(t, engine.ResolveInvite(inviter.ReferralCode, 2, "newbie"))

	reloaded, err := users.GetUser(1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), reloaded.InvitedFrens)
	assert.Equal(t, int64(InviteBonus), reloaded.Coins)

	invited, err := users.GetUser(2)
	require.NoError(t, err)
	require.NotNil(t, invited.InvitedByID)
	assert.Equal(t, int64(1), *invited.InvitedByID)
	assert.Equal(t, models.LevelBronze, invited.Level)

	// page reload: same token, same invited user — silent no-op
	require.NoError(t, engine.ResolveInvite(inviter.ReferralCode, 2, "newbie"))

	reloaded, err = users.GetUser(1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), reloaded.InvitedFrens)
	assert.Equal(t, int64(InviteBonus), reloaded.Coins)
}

func TestResolveInviteOwnLinkIsNoop(t *testing.T) {
	db := openTestDB(t)
	users := NewUserService(db)
	engine := NewProgressionService(db, users)

	inviter, err := users.EnsureUser(1, "og")
	require.NoError(t, err)

	require.NoError(t, engine.ResolveInvite(inviter.ReferralCode, 1, "og"))

	reloaded, err := users.GetUser(1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), reloaded.InvitedFrens)
	assert.Equal(t, int64(0), reloaded.Coins)
}

func TestResolveInviteUnknownCode(t *testing.T) {
	db := openTestDB(t)
	users := NewUserService(db)
	engine := NewProgressionService(db, users)

	err := engine.ResolveInvite("not-a-code", 2, "newbie")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = users.GetUser(2)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestResolveInviteExistingOrganicUser(t *testing.T) {
	db := openTestDB(t)
	users := NewUserService(db)
	engine := NewProgressionService(db, users)

	inviter, err := users.EnsureUser(1, "og")
	require.NoError(t, err)
	_, err = users.EnsureUser(3, "organic")
	require.NoError(t, err)

	require.NoError(t, engine.ResolveInvite(inviter.ReferralCode, 3, "organic"))

	invited, err := users.GetUser(3)
	require.NoError(t, err)
	require.NotNil(t, invited.InvitedByID)
	assert.Equal(t, int64(1), *invited.InvitedByID)

	reloaded, err := users.GetUser(1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), reloaded.InvitedFrens)
}

func TestResolveInviteSecondInviterNotCredited(t *testing.T) {
	db := openTestDB(t)
	users := NewUserService(db)
	engine := NewProgressionService(db, users)

	first, err := users.EnsureUser(1, "first")
	require.NoError(t, err)
	second, err := users.EnsureUser(4, "second")
	require.NoError(t, err)

	require.NoError(t, engine.ResolveInvite(first.ReferralCode, 2, "newbie"))
	// the invited user is already someone's fren
	require.NoError(t, engine.ResolveInvite(second.ReferralCode, 2, "newbie"))

	reloaded, err := users.GetUser(4)
	require.NoError(t, err)
	assert.Equal(t, int64(0), reloaded.InvitedFrens)
	assert.Equal(t, int64(0), reloaded.Coins)
}

func TestInviteLinkStable(t *testing.T) {
	db := openTestDB(t)
	users := NewUserService(db)
	referrals := NewReferralService(db, "blaze_bot")

	user, err := users.EnsureUser(1, "og")
	require.NoError(t, err)

	link := referrals.InviteLink(user)
	assert.Equal(t, "https://t.me/blaze_bot?start="+user.ReferralCode, link)

	again, err := users.EnsureUser(1, "og")
	require.NoError(t, err)
	assert.Equal(t, link, referrals.InviteLink(again))
}

func TestListFrens(t *testing.T) {
	db := openTestDB(t)
	users := NewUserService(db)
	engine := NewProgressionService(db, users)
	referrals := NewReferralService(db, "blaze_bot")

	inviter, err := users.EnsureUser(1, "og")
	require.NoError(t, err)

	require.NoError(t, engine.ResolveInvite(inviter.ReferralCode, 2, "first_fren"))
	time.Sleep(5 * time.Millisecond) // distinct join timestamps for ordering
	require.NoError(t, engine.ResolveInvite(inviter.ReferralCode, 3, "second_fren"))

	frens, err := referrals.ListFrens(1)
	require.NoError(t, err)
	require.Len(t, frens, 2)
	assert.Equal(t, "second_fren", frens[0].Username)
	assert.Equal(t, "first_fren", frens[1].Username)

	// no frens yet for the invited users themselves
	empty, err := referrals.ListFrens(2)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
