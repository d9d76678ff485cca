package middleware_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courier-backend/constants"
	"courier-backend/internal/testutil"
	"courier-backend/middleware"
	"courier-backend/models/user"
)

func restoreClock(t *testing.T) {
	t.Cleanup(func() { middleware.Now = time.Now })
}

func TestMissingTokenRejected(t *testing.T) {
	db := testutil.NewDB(t)
	app := testutil.NewApp(t, db)

	code, body := testutil.DoJSON(t, app, "GET", "/api/profile", "", nil)
	assert.Equal(t, 401, code)
	assert.Equal(t, "token needed", body["error"])
}

func TestUnknownTokenRejected(t *testing.T) {
	db := testutil.NewDB(t)
	app := testutil.NewApp(t, db)

	code, body := testutil.DoJSON(t, app, "GET", "/api/profile", "no-such-token", nil)
	assert.Equal(t, 401, code)
	assert.Equal(t, "invalid token", body["error"])
}

func TestExpiredTokenDeleted(t *testing.T) {
	restoreClock(t)
	db := testutil.NewDB(t)
	app := testutil.NewApp(t, db)
	_, token := testutil.NewOperator(t, db, "branch1", constants.TypeBranch, "110001")

	middleware.Now = func() time.Time { return time.Now().Add(middleware.TokenTTL() + time.Hour) }

	code, body := testutil.DoJSON(t, app, "GET", "/api/profile", token, nil)
	assert.Equal(t, 401, code)
	assert.Equal(t, "token expired", body["error"])

	// The dead credential is gone, not just rejected.
	var count int64
	db.Model(&user.Token{}).Where("token = ?", token).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestTokenRotationNearExpiry(t *testing.T) {
	restoreClock(t)
	db := testutil.NewDB(t)
	app := testutil.NewApp(t, db)
	profile, token := testutil.NewOperator(t, db, "branch2", constants.TypeBranch, "110002")

	// One hour of validity left, inside the renewal window.
	middleware.Now = func() time.Time { return time.Now().Add(middleware.TokenTTL() - time.Hour) }

	code, body := testutil.DoJSON(t, app, "GET", "/api/profile", token, nil)
	require.Equal(t, 200, code)
	fresh, _ := body["new_token"].(string)
	require.NotEmpty(t, fresh)
	require.NotEqual(t, "none", fresh)
	assert.NotEqual(t, token, fresh)

	// Exactly one live token, and it is the fresh one.
	var tokens []user.Token
	require.NoError(t, db.Where("user_id = ?", profile.UserID).Find(&tokens).Error)
	require.Len(t, tokens, 1)
	assert.Equal(t, fresh, tokens[0].Token)

	code, _ = testutil.DoJSON(t, app, "GET", "/api/profile", token, nil)
	assert.Equal(t, 401, code)
	code, _ = testutil.DoJSON(t, app, "GET", "/api/profile", fresh, nil)
	assert.Equal(t, 200, code)
}

func TestFreshTokenNotRotated(t *testing.T) {
	db := testutil.NewDB(t)
	app := testutil.NewApp(t, db)
	_, token := testutil.NewOperator(t, db, "branch3", constants.TypeBranch, "110003")

	code, body := testutil.DoJSON(t, app, "GET", "/api/profile", token, nil)
	require.Equal(t, 200, code)
	assert.Equal(t, "none", body["new_token"])
}

func TestIssueTokenKeepsSingleLiveToken(t *testing.T) {
	db := testutil.NewDB(t)
	profile, _ := testutil.NewOperator(t, db, "branch4", constants.TypeBranch, "110004")

	_, err := middleware.IssueToken(db, profile.UserID)
	require.NoError(t, err)
	_, err = middleware.IssueToken(db, profile.UserID)
	require.NoError(t, err)

	var count int64
	db.Model(&user.Token{}).Where("user_id = ?", profile.UserID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestPublicPathsBypassGate(t *testing.T) {
	db := testutil.NewDB(t)
	app := testutil.NewApp(t, db)

	code, body := testutil.DoJSON(t, app, "GET", "/api/track/NOSUCHAWB", "", nil)
	assert.Equal(t, 200, code)
	assert.Equal(t, "not found", body["status"])
}

func TestRequireTypeGatesByProfile(t *testing.T) {
	db := testutil.NewDB(t)
	app := testutil.NewApp(t, db)
	_, token := testutil.NewOperator(t, db, "branch5", constants.TypeBranch, "110005")

	code, _ := testutil.DoJSON(t, app, "POST", "/api/hubonboard", token, map[string]string{"hubname": "North Hub"})
	assert.Equal(t, 403, code)
}
