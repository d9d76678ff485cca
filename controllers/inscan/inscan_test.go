package inscan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courier-backend/constants"
	"courier-backend/internal/testutil"
	"courier-backend/models/shipment"
)

func TestInscanBatch(t *testing.T) {
	db := testutil.NewDB(t)
	app := testutil.NewApp(t, db)
	_, token := testutil.NewOperator(t, db, "branch1", constants.TypeBranch, "110001")

	code, body := testutil.DoJSON(t, app, "POST", "/api/inscan", token, map[string]interface{}{
		"awbno": [][]string{
			{"15-08-2026, 09:12:00", "AWB1001"},
			{"15-08-2026, 09:13:30", "AWB1002"},
		},
	})
	require.Equal(t, 201, code)
	assert.Equal(t, "success", body["status"])

	var events []shipment.InscanEvent
	require.NoError(t, db.Where("branch_code = ?", "110001").Order("scanned_at asc").Find(&events).Error)
	require.Len(t, events, 2)
	assert.Equal(t, "AWB1001", events[0].AwbNo)
	assert.Equal(t, 9, events[0].ScannedAt.Hour())
}

func TestInscanBadTimestampRollsBack(t *testing.T) {
	db := testutil.NewDB(t)
	app := testutil.NewApp(t, db)
	_, token := testutil.NewOperator(t, db, "branch2", constants.TypeBranch, "110002")

	code, _ := testutil.DoJSON(t, app, "POST", "/api/inscan", token, map[string]interface{}{
		"awbno": [][]string{
			{"15-08-2026, 09:12:00", "AWB2001"},
			{"not-a-timestamp", "AWB2002"},
		},
	})
	require.Equal(t, 400, code)

	// The valid first entry rolled back with the batch.
	var count int64
	db.Model(&shipment.InscanEvent{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestInscanUnbookedAwbAccepted(t *testing.T) {
	db := testutil.NewDB(t)
	app := testutil.NewApp(t, db)
	_, token := testutil.NewOperator(t, db, "branch3", constants.TypeBranch, "110003")

	// No booking exists for this AWB; the ledger takes it anyway.
	code, _ := testutil.DoJSON(t, app, "POST", "/api/inscan", token, map[string]interface{}{
		"awbno": [][]string{{"15-08-2026, 10:00:00", "NEVERBOOKED1"}},
	})
	require.Equal(t, 201, code)
}

func TestInscanMobileSharedTimestamp(t *testing.T) {
	db := testutil.NewDB(t)
	app := testutil.NewApp(t, db)
	_, token := testutil.NewOperator(t, db, "branch4", constants.TypeBranch, "110004")

	code, _ := testutil.DoJSON(t, app, "POST", "/api/inscan/mobile", token, map[string]interface{}{
		"awbno": []string{"AWB4001", "AWB4002", "AWB4003"},
		"date":  "15-08-2026, 11:45:00",
	})
	require.Equal(t, 201, code)

	var events []shipment.InscanEvent
	require.NoError(t, db.Where("branch_code = ?", "110004").Find(&events).Error)
	require.Len(t, events, 3)
	for _, ev := range events {
		assert.Equal(t, 11, ev.ScannedAt.Hour())
		assert.Equal(t, 45, ev.ScannedAt.Minute())
	}
}

func TestInscanListByDate(t *testing.T) {
	db := testutil.NewDB(t)
	app := testutil.NewApp(t, db)
	_, token := testutil.NewOperator(t, db, "branch5", constants.TypeBranch, "110005")

	require.NoError(t, db.Create(&shipment.Booking{AwbNo: "AWB5001", Pcs: 2, Wt: "1.2", DocType: "parcel", DestinationCode: "200001"}).Error)

	code, _ := testutil.DoJSON(t, app, "POST", "/api/inscan", token, map[string]interface{}{
		"awbno": [][]string{
			{"15-08-2026, 09:00:00", "AWB5001"},
			{"15-08-2026, 09:01:00", "UNBOOKED5"},
		},
	})
	require.Equal(t, 201, code)

	code, body := testutil.DoJSON(t, app, "GET", "/api/inscan/2026-08-15", token, nil)
	require.Equal(t, 200, code)
	rows := body["data"].([]interface{})
	require.Len(t, rows, 2)

	byAwb := map[string]map[string]interface{}{}
	for _, r := range rows {
		row := r.(map[string]interface{})
		byAwb[row["awbno"].(string)] = row
	}
	assert.Equal(t, "parcel", byAwb["AWB5001"]["type"])
	assert.Equal(t, "2", byAwb["AWB5001"]["pcs"])
	// Unbooked AWBs list with blanks.
	assert.Equal(t, "", byAwb["UNBOOKED5"]["type"])
}
