package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courier-backend/constants"
	"courier-backend/internal/testutil"
	"courier-backend/models/user"
	"courier-backend/types"
)

func TestLoginIssuesToken(t *testing.T) {
	db := testutil.NewDB(t)
	app := testutil.NewApp(t, db)
	profile, _ := testutil.NewOperator(t, db, "counter1", constants.TypeBranch, "110001")

	code, body := testutil.DoJSON(t, app, "POST", "/api/login", "", types.LoginRequest{
		Username: "counter1",
		Password: testutil.TestPassword,
	})
	require.Equal(t, 202, code)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	// The issued token passes the gate.
	code, body = testutil.DoJSON(t, app, "GET", "/api/profile", token, nil)
	require.Equal(t, 200, code)
	assert.Equal(t, constants.TypeBranch, body["type"])
	assert.Equal(t, profile.CodeName, body["code_name"])
}

func TestReloginRotatesToken(t *testing.T) {
	db := testutil.NewDB(t)
	app := testutil.NewApp(t, db)
	profile, first := testutil.NewOperator(t, db, "counter2", constants.TypeBranch, "110002")

	code, body := testutil.DoJSON(t, app, "POST", "/api/login", "", types.LoginRequest{
		Username: "counter2",
		Password: testutil.TestPassword,
	})
	require.Equal(t, 202, code)
	second, _ := body["token"].(string)
	require.NotEmpty(t, second)
	assert.NotEqual(t, first, second)

	var count int64
	db.Model(&user.Token{}).Where("user_id = ?", profile.UserID).Count(&count)
	assert.Equal(t, int64(1), count)

	code, _ = testutil.DoJSON(t, app, "GET", "/api/profile", first, nil)
	assert.Equal(t, 401, code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := testutil.NewDB(t)
	app := testutil.NewApp(t, db)
	testutil.NewOperator(t, db, "counter3", constants.TypeBranch, "110003")

	code, _ := testutil.DoJSON(t, app, "POST", "/api/login", "", types.LoginRequest{
		Username: "counter3",
		Password: "wrong",
	})
	assert.Equal(t, 401, code)

	code, _ = testutil.DoJSON(t, app, "POST", "/api/login", "", types.LoginRequest{
		Username: "nobody",
		Password: "wrong",
	})
	assert.Equal(t, 401, code)
}

func TestLogoutDeletesToken(t *testing.T) {
	db := testutil.NewDB(t)
	app := testutil.NewApp(t, db)
	_, token := testutil.NewOperator(t, db, "counter4", constants.TypeBranch, "110004")

	code, _ := testutil.DoJSON(t, app, "POST", "/api/logout", token, nil)
	require.Equal(t, 200, code)

	var count int64
	db.Model(&user.Token{}).Where("token = ?", token).Count(&count)
	assert.Equal(t, int64(0), count)

	code, _ = testutil.DoJSON(t, app, "GET", "/api/profile", token, nil)
	assert.Equal(t, 401, code)
}
