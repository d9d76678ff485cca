package booking_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courier-backend/constants"
	"courier-backend/internal/testutil"
	"courier-backend/models/network"
	"courier-backend/models/shipment"
	"courier-backend/types"
)

func bookingReq(awb string) types.BookingRequest {
	return types.BookingRequest{
		AwbNo:           awb,
		Date:            "2026-08-15",
		DocType:         "parcel",
		Pcs:             1,
		Wt:              "2.5",
		SenderName:      "Asha Traders",
		ReceiverName:    "Rahul Mehta",
		ReceiverAddress: "14 Link Road",
		DestinationCode: "200001",
	}
}

func TestCreateBooking(t *testing.T) {
	db := testutil.NewDB(t)
	app := testutil.NewApp(t, db)
	_, token := testutil.NewOperator(t, db, "branch1", constants.TypeBranch, "110001")

	code, body := testutil.DoJSON(t, app, "POST", "/api/booking", token, bookingReq("AWB1001"))
	require.Equal(t, 201, code)
	assert.Equal(t, "success", body["status"])

	var row shipment.Booking
	require.NoError(t, db.Where("awb_no = ?", "AWB1001").First(&row).Error)
	assert.Equal(t, "110001", row.BookedCode)
	assert.Equal(t, "200001", row.DestinationCode)
}

func TestCreateBookingDuplicateIsNoOp(t *testing.T) {
	db := testutil.NewDB(t)
	app := testutil.NewApp(t, db)
	_, token := testutil.NewOperator(t, db, "branch2", constants.TypeBranch, "110002")

	code, _ := testutil.DoJSON(t, app, "POST", "/api/booking", token, bookingReq("AWB2001"))
	require.Equal(t, 201, code)

	code, body := testutil.DoJSON(t, app, "POST", "/api/booking", token, bookingReq("AWB2001"))
	require.Equal(t, 200, code)
	assert.Equal(t, "exists", body["status"])

	var count int64
	db.Model(&shipment.Booking{}).Where("awb_no = ?", "AWB2001").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreateBookingMultiPieceChildren(t *testing.T) {
	db := testutil.NewDB(t)
	app := testutil.NewApp(t, db)
	_, token := testutil.NewOperator(t, db, "branch3", constants.TypeBranch, "110003")

	req := bookingReq("AWB3001")
	req.Pcs = 3
	req.ChildAwbSeed = "CH0098"

	code, body := testutil.DoJSON(t, app, "POST", "/api/booking", token, req)
	require.Equal(t, 201, code)
	assert.Equal(t, "success", body["status"])

	// pcs-1 children, contiguous from the seed, zero padding kept.
	var children []shipment.ChildPiece
	require.NoError(t, db.Where("parent_awb = ?", "AWB3001").Order("id asc").Find(&children).Error)
	require.Len(t, children, 2)
	assert.Equal(t, "CH0098", children[0].ChildAwb)
	assert.Equal(t, "CH0099", children[1].ChildAwb)
}

func TestCreateBookingChildCollisionRollsBack(t *testing.T) {
	db := testutil.NewDB(t)
	app := testutil.NewApp(t, db)
	_, token := testutil.NewOperator(t, db, "branch4", constants.TypeBranch, "110004")

	require.NoError(t, db.Create(&shipment.ChildPiece{ChildAwb: "CH0200", ParentAwb: "OTHER"}).Error)

	req := bookingReq("AWB4001")
	req.Pcs = 2
	req.ChildAwbSeed = "CH0200"

	code, body := testutil.DoJSON(t, app, "POST", "/api/booking", token, req)
	require.Equal(t, 409, code)
	assert.Equal(t, "child exists", body["status"])

	// The parent row rolled back with the conflict.
	var count int64
	db.Model(&shipment.Booking{}).Where("awb_no = ?", "AWB4001").Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCreateBookingValidation(t *testing.T) {
	db := testutil.NewDB(t)
	app := testutil.NewApp(t, db)
	_, token := testutil.NewOperator(t, db, "branch5", constants.TypeBranch, "110005")

	req := bookingReq("AWB5001")
	req.Pcs = 2 // no child seed
	code, _ := testutil.DoJSON(t, app, "POST", "/api/booking", token, req)
	assert.Equal(t, 400, code)

	req = bookingReq("")
	code, _ = testutil.DoJSON(t, app, "POST", "/api/booking", token, req)
	assert.Equal(t, 400, code)
}

func TestListByDate(t *testing.T) {
	db := testutil.NewDB(t)
	app := testutil.NewApp(t, db)
	_, token := testutil.NewOperator(t, db, "branch6", constants.TypeBranch, "110006")

	require.NoError(t, db.Create(&network.Hub{HubCode: "200001", HubName: "Central Hub"}).Error)

	code, _ := testutil.DoJSON(t, app, "POST", "/api/booking", token, bookingReq("AWB6001"))
	require.Equal(t, 201, code)

	code, body := testutil.DoJSON(t, app, "GET", "/api/booking/2026-08-15", token, nil)
	require.Equal(t, 200, code)
	assert.EqualValues(t, 1, body["count"])

	rows := body["data"].([]interface{})
	row := rows[0].(map[string]interface{})
	assert.Equal(t, "AWB6001", row["awbno"])
	assert.Equal(t, "15-08-2026", row["date"])
	assert.Equal(t, "Central Hub", row["destination"])

	// Another day comes back empty.
	code, body = testutil.DoJSON(t, app, "GET", "/api/booking/2026-08-16", token, nil)
	require.Equal(t, 200, code)
	assert.EqualValues(t, 0, body["count"])
}

func TestBookingDetailStaging(t *testing.T) {
	db := testutil.NewDB(t)
	app := testutil.NewApp(t, db)
	_, token := testutil.NewOperator(t, db, "branch7", constants.TypeBranch, "110007")

	code, body := testutil.DoJSON(t, app, "POST", "/api/bookingdetails/check", token, map[string]string{"awbno": "AWB7001"})
	require.Equal(t, 200, code)
	assert.Equal(t, "not found", body["status"])

	code, body = testutil.DoJSON(t, app, "POST", "/api/bookingdetails", token, map[string]interface{}{
		"awbno": "AWB7001", "doctype": "dox", "pcs": 2, "wt": "0.5",
	})
	require.Equal(t, 200, code)
	assert.Equal(t, "added", body["status"])

	code, body = testutil.DoJSON(t, app, "POST", "/api/bookingdetails/check", token, map[string]string{"awbno": "AWB7001"})
	require.Equal(t, 200, code)
	assert.Equal(t, "found", body["status"])
	assert.Equal(t, "dox", body["type"])
	assert.EqualValues(t, 2, body["pcs"])
}
