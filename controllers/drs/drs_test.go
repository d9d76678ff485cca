package drs_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courier-backend/constants"
	"courier-backend/internal/testutil"
	"courier-backend/models/network"
	"courier-backend/models/shipment"
)

func TestCreateDRS(t *testing.T) {
	db := testutil.NewDB(t)
	app := testutil.NewApp(t, db)
	profile, token := testutil.NewOperator(t, db, "branch1", constants.TypeBranch, "110001")

	require.NoError(t, db.Create(&network.DeliveryAgent{Name: "Ravi", BranchCode: "110001"}).Error)

	code, body := testutil.DoJSON(t, app, "POST", "/api/drs", token, map[string]interface{}{
		"awbno":        []string{"AWB1001", "AWB1002"},
		"delivery_boy": "Ravi",
		"date":         "15-08-2026, 09:00:00",
	})
	require.Equal(t, 201, code)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, strconv.FormatInt(profile.NextDRSSeq, 10), body["drsno"])

	drsNo := body["drsno"].(string)
	var lines int64
	db.Model(&shipment.DRSLine{}).Where("drs_no = ?", drsNo).Count(&lines)
	assert.Equal(t, int64(2), lines)

	// Both AWBs are gated against a second run.
	var gated int64
	db.Model(&shipment.DeliveryGate{}).Count(&gated)
	assert.Equal(t, int64(2), gated)
}

func TestCreateDRSGateConflict(t *testing.T) {
	db := testutil.NewDB(t)
	app := testutil.NewApp(t, db)
	_, token := testutil.NewOperator(t, db, "branch2", constants.TypeBranch, "110002")

	require.NoError(t, db.Create(&network.DeliveryAgent{Name: "Sanjay", BranchCode: "110002"}).Error)

	code, _ := testutil.DoJSON(t, app, "POST", "/api/drs", token, map[string]interface{}{
		"awbno":        []string{"AWB2001"},
		"delivery_boy": "Sanjay",
		"date":         "15-08-2026, 09:00:00",
	})
	require.Equal(t, 201, code)

	code, body := testutil.DoJSON(t, app, "POST", "/api/drs", token, map[string]interface{}{
		"awbno":        []string{"AWB2002", "AWB2001"},
		"delivery_boy": "Sanjay",
		"date":         "15-08-2026, 10:00:00",
	})
	require.Equal(t, 409, code)
	assert.Equal(t, "exists", body["status"])
	assert.Equal(t, "AWB2001", body["awbno"])

	// Nothing from the rejected run landed.
	var runs int64
	db.Model(&shipment.DRS{}).Count(&runs)
	assert.Equal(t, int64(1), runs)
	var gate int64
	db.Model(&shipment.DeliveryGate{}).Where("awb_no = ?", "AWB2002").Count(&gate)
	assert.Equal(t, int64(0), gate)
}

func TestCreateDRSUnknownAgent(t *testing.T) {
	db := testutil.NewDB(t)
	app := testutil.NewApp(t, db)
	_, token := testutil.NewOperator(t, db, "branch3", constants.TypeBranch, "110003")

	code, _ := testutil.DoJSON(t, app, "POST", "/api/drs", token, map[string]interface{}{
		"awbno":        []string{"AWB3001"},
		"delivery_boy": "Ghost",
		"date":         "15-08-2026, 09:00:00",
	})
	assert.Equal(t, 400, code)
}

func TestDRSListByDate(t *testing.T) {
	db := testutil.NewDB(t)
	app := testutil.NewApp(t, db)
	_, token := testutil.NewOperator(t, db, "branch4", constants.TypeBranch, "110004")

	require.NoError(t, db.Create(&network.DeliveryAgent{Name: "Mohan", BranchCode: "110004"}).Error)
	require.NoError(t, db.Create(&network.Area{Code: "A1", Name: "Old Town", BranchCode: "110004"}).Error)
	require.NoError(t, db.Create(&shipment.Booking{AwbNo: "AWB4001", Pcs: 2, Wt: "1.0", ReceiverName: "Leela", DestinationCode: "110004"}).Error)

	code, _ := testutil.DoJSON(t, app, "POST", "/api/drs", token, map[string]interface{}{
		"awbno":        []string{"AWB4001"},
		"delivery_boy": "Mohan",
		"date":         "15-08-2026, 09:00:00",
		"location":     "A1",
	})
	require.Equal(t, 201, code)

	code, body := testutil.DoJSON(t, app, "GET", "/api/drs/2026-08-15", token, nil)
	require.Equal(t, 200, code)
	rows := body["data"].([]interface{})
	require.Len(t, rows, 1)

	run := rows[0].(map[string]interface{})
	assert.Equal(t, "Mohan", run["boy"])
	assert.Equal(t, "Old Town", run["location"])

	awbData := run["awbdata"].([]interface{})
	require.Len(t, awbData, 1)
	line := awbData[0].(map[string]interface{})
	assert.Equal(t, constants.StatusOutForDelivery, line["status"])
	assert.Equal(t, "Leela", line["receiver"])
	assert.Equal(t, "2", line["pcs"])
}
