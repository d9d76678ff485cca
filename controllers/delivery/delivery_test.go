package delivery_test

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courier-backend/constants"
	"courier-backend/internal/testutil"
	"courier-backend/models/shipment"
)

func TestResolveDelivered(t *testing.T) {
	db := testutil.NewDB(t)
	app := testutil.NewApp(t, db)
	_, token := testutil.NewOperator(t, db, "branch1", constants.TypeBranch, "110001")

	require.NoError(t, db.Create(&shipment.DRSLine{DRSNo: "900001", AwbNo: "AWB1001"}).Error)
	require.NoError(t, db.Create(&shipment.DeliveryGate{AwbNo: "AWB1001"}).Error)

	code, body := testutil.DoJSON(t, app, "POST", "/api/delivery", token, map[string]interface{}{
		"awbno":         []string{"AWB1001"},
		"status":        "delivered",
		"receivername":  "Leela",
		"receiverphone": "9800000001",
	})
	require.Equal(t, 201, code)
	assert.Equal(t, "success", body["status"])

	var outcome shipment.DeliveryOutcome
	require.NoError(t, db.Where("awb_no = ?", "AWB1001").First(&outcome).Error)
	assert.Equal(t, constants.StatusDelivered, outcome.Status)
	assert.Equal(t, "Leela", outcome.ReceiverName)

	var line shipment.DRSLine
	require.NoError(t, db.Where("awb_no = ?", "AWB1001").First(&line).Error)
	assert.True(t, line.Resolved)

	// A delivered AWB stays gated; it never rides another run.
	var gated int64
	db.Model(&shipment.DeliveryGate{}).Where("awb_no = ?", "AWB1001").Count(&gated)
	assert.Equal(t, int64(1), gated)
}

func TestResolveUndeliveredFreesGate(t *testing.T) {
	db := testutil.NewDB(t)
	app := testutil.NewApp(t, db)
	_, token := testutil.NewOperator(t, db, "branch2", constants.TypeBranch, "110002")

	require.NoError(t, db.Create(&shipment.DRSLine{DRSNo: "900002", AwbNo: "AWB2001"}).Error)
	require.NoError(t, db.Create(&shipment.DeliveryGate{AwbNo: "AWB2001"}).Error)

	code, _ := testutil.DoJSON(t, app, "POST", "/api/delivery", token, map[string]interface{}{
		"awbno":  []string{"AWB2001"},
		"status": "undelivered",
		"reason": "door locked",
	})
	require.Equal(t, 201, code)

	var outcome shipment.DeliveryOutcome
	require.NoError(t, db.Where("awb_no = ?", "AWB2001").First(&outcome).Error)
	assert.Equal(t, constants.StatusUndelivered, outcome.Status)
	assert.Equal(t, "door locked", outcome.Reason)

	// The gate freed; the AWB can ride a later run.
	var gated int64
	db.Model(&shipment.DeliveryGate{}).Where("awb_no = ?", "AWB2001").Count(&gated)
	assert.Equal(t, int64(0), gated)
}

func TestResolveAlreadyDeliveredShortCircuits(t *testing.T) {
	db := testutil.NewDB(t)
	app := testutil.NewApp(t, db)
	_, token := testutil.NewOperator(t, db, "branch3", constants.TypeBranch, "110003")

	require.NoError(t, db.Create(&shipment.DeliveryOutcome{AwbNo: "AWB3001", Status: constants.StatusDelivered}).Error)

	code, body := testutil.DoJSON(t, app, "POST", "/api/delivery", token, map[string]interface{}{
		"awbno":  []string{"AWB3002", "AWB3001"},
		"status": "delivered",
	})
	require.Equal(t, 409, code)
	assert.Equal(t, "already delivered", body["status"])
	assert.Equal(t, "AWB3001", body["awbno"])

	// The whole batch rolled back: no outcome for the first AWB either.
	var count int64
	db.Model(&shipment.DeliveryOutcome{}).Where("awb_no = ?", "AWB3002").Count(&count)
	assert.Equal(t, int64(0), count)
	db.Model(&shipment.DeliveryOutcome{}).Where("awb_no = ?", "AWB3001").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestResolveInvalidStatus(t *testing.T) {
	db := testutil.NewDB(t)
	app := testutil.NewApp(t, db)
	_, token := testutil.NewOperator(t, db, "branch4", constants.TypeBranch, "110004")

	code, body := testutil.DoJSON(t, app, "POST", "/api/delivery", token, map[string]interface{}{
		"awbno":  []string{"AWB4001"},
		"status": "misplaced",
	})
	require.Equal(t, 400, code)
	assert.Equal(t, "invalid status", body["status"])
}

func TestResolveDeliveredWithProofImage(t *testing.T) {
	db := testutil.NewDB(t)
	app := testutil.NewApp(t, db)
	_, token := testutil.NewOperator(t, db, "branch6", constants.TypeBranch, "110006")

	require.NoError(t, db.Create(&shipment.DeliveryGate{AwbNo: "AWB6001"}).Error)

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(t, form.WriteField("awbno", "AWB6001"))
	require.NoError(t, form.WriteField("status", "delivered"))
	require.NoError(t, form.WriteField("receivername", "Leela"))
	fw, err := form.CreateFormFile("image", "pod.jpg")
	require.NoError(t, err)
	_, err = fw.Write([]byte("jpeg-bytes"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest("POST", "/api/delivery", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Token "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, 201, resp.StatusCode)

	var outcome shipment.DeliveryOutcome
	require.NoError(t, db.Where("awb_no = ?", "AWB6001").First(&outcome).Error)
	require.True(t, strings.HasPrefix(outcome.ImageURL, "/media/pod/"))

	// The file actually landed under the media root.
	onDisk := filepath.Join(os.Getenv("MEDIA_ROOT"), "pod", filepath.Base(outcome.ImageURL))
	data, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))
}

func TestResolveRTOAccumulatesOutcomes(t *testing.T) {
	db := testutil.NewDB(t)
	app := testutil.NewApp(t, db)
	_, token := testutil.NewOperator(t, db, "branch5", constants.TypeBranch, "110005")

	require.NoError(t, db.Create(&shipment.DeliveryOutcome{AwbNo: "AWB5001", Status: constants.StatusUndelivered, Reason: "address not found"}).Error)
	require.NoError(t, db.Create(&shipment.DeliveryGate{AwbNo: "AWB5001"}).Error)

	// A failed attempt does not block the return leg.
	code, _ := testutil.DoJSON(t, app, "POST", "/api/delivery", token, map[string]interface{}{
		"awbno":  []string{"AWB5001"},
		"status": "rto",
		"reason": "returned to origin",
	})
	require.Equal(t, 201, code)

	var count int64
	db.Model(&shipment.DeliveryOutcome{}).Where("awb_no = ?", "AWB5001").Count(&count)
	assert.Equal(t, int64(2), count)
}
