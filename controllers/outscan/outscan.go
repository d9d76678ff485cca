package outscan

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"courier-backend/logger"
	"courier-backend/middleware"
	"courier-backend/models/network"
	"courier-backend/models/shipment"
	"courier-backend/types"
	"courier-backend/utils"
)

type OutscanController struct {
	db             *gorm.DB
	loggerInstance *logger.AsyncLogger
}

func NewOutscanController(db *gorm.DB, loggerInstance *logger.AsyncLogger) *OutscanController {
	return &OutscanController{db: db, loggerInstance: loggerInstance}
}

// Create builds one manifest for the listed AWBs. The manifest number is
// claimed from the operator's counter inside the transaction, so a failed
// creation rolls the counter back with the manifest and its lines; the number
// is never reused.
func (o *OutscanController) Create(c *fiber.Ctx) error {
	var req types.OutscanRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing outscan request", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "invalid request body"})
	}
	if v := req.Validate(); v != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": v})
	}

	profile, err := middleware.Operator(c)
	if err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"status": "error", "message": "operator profile required"})
	}

	date, perr := utils.ParseScanTime(req.Date)
	if perr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": perr.Error()})
	}

	toCode, rerr := utils.ResolveUnitCode(o.db, req.ToHub)
	if rerr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": rerr.Error()})
	}

	// A vehicle that isn't registered is never a hard failure; the manifest
	// just goes out without one.
	var vehicleID *uint
	if req.VehicleNumber != "" {
		var v network.Vehicle
		if err := o.db.Where("vehicle_number = ?", req.VehicleNumber).First(&v).Error; err == nil {
			vehicleID = &v.ID
		}
	}

	var manifestNumber string
	err = o.db.Transaction(func(tx *gorm.DB) error {
		var cerr error
		manifestNumber, cerr = utils.ClaimManifestNumber(tx, profile.ID)
		if cerr != nil {
			return cerr
		}

		manifest := shipment.Manifest{
			ManifestNumber: manifestNumber,
			FromCode:       profile.Code,
			ToCode:         toCode,
			Date:           date,
			VehicleID:      vehicleID,
		}
		if err := tx.Create(&manifest).Error; err != nil {
			return err
		}
		for _, awb := range req.AwbNo {
			line := shipment.OutscanLine{AwbNo: awb, ManifestID: manifest.ID}
			if err := tx.Create(&line).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Manifest creation failed", err)
		return c.Status(fiber.StatusNotAcceptable).JSON(fiber.Map{"status": "error"})
	}

	o.loggerInstance.Log(types.LogEntry{
		Method:     c.Method(),
		URL:        c.OriginalURL(),
		StatusCode: fiber.StatusCreated,
		CreatedAt:  time.Now(),
	})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":          "success",
		"manifest_number": manifestNumber,
	})
}

// ListByDate lists the unit's outbound manifests for a day.
func (o *OutscanController) ListByDate(c *fiber.Ctx) error {
	start, end, err := utils.DayRange(c.Params("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date required"})
	}
	profile, err := middleware.Operator(c)
	if err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "operator profile required"})
	}

	var manifests []shipment.Manifest
	if err := o.db.Preload("Vehicle").
		Where("from_code = ? AND date BETWEEN ? AND ?", profile.Code, start, end).
		Find(&manifests).Error; err != nil {
		logger.Error("Manifest list query failed", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	data := make([]fiber.Map, 0, len(manifests))
	for _, m := range manifests {
		vehicleNum := ""
		if m.Vehicle != nil {
			vehicleNum = m.Vehicle.VehicleNumber
		}
		toName, _ := utils.ResolveUnitName(o.db, m.ToCode)
		data = append(data, fiber.Map{
			"date":           m.Date,
			"manifestnumber": m.ManifestNumber,
			"tohub":          toName,
			"vehicle_number": vehicleNum,
		})
	}

	return c.JSON(fiber.Map{"status": "success", "data": data})
}

// ManifestData returns one manifest with its lines, each enriched with
// pieces/weight from the booking or the staged detail row, blank when neither
// is known.
func (o *OutscanController) ManifestData(c *fiber.Ctx) error {
	number := c.Params("manifest_number")
	if number == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "manifest number required"})
	}

	var manifest shipment.Manifest
	if err := o.db.Preload("Vehicle").Where("manifest_number = ?", number).First(&manifest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "not found"})
		}
		logger.Error("Manifest detail query failed", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var lines []shipment.OutscanLine
	if err := o.db.Where("manifest_id = ?", manifest.ID).Find(&lines).Error; err != nil {
		logger.Error("Outscan line query failed", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	data := make([]fiber.Map, 0, len(lines))
	for _, line := range lines {
		pcs, wt := "", ""
		var b shipment.Booking
		if err := o.db.Where("awb_no = ?", line.AwbNo).First(&b).Error; err == nil {
			pcs, wt = fmt.Sprint(b.Pcs), b.Wt
		} else {
			var d shipment.BookingDetail
			if err := o.db.Where("awb_no = ?", line.AwbNo).First(&d).Error; err == nil {
				pcs, wt = fmt.Sprint(d.Pcs), d.Wt
			}
		}
		data = append(data, fiber.Map{"awbno": line.AwbNo, "pcs": pcs, "wt": wt})
	}

	vehicleNum := ""
	if manifest.Vehicle != nil {
		vehicleNum = manifest.Vehicle.VehicleNumber
	}
	toName, _ := utils.ResolveUnitName(o.db, manifest.ToCode)

	return c.JSON(fiber.Map{
		"status":         "success",
		"date":           manifest.Date,
		"tohub":          toName,
		"vehicle_number": vehicleNum,
		"awbno":          data,
	})
}

// GetManifestNumber peeks the next manifest number without claiming it; the
// authoritative number is still assigned at creation.
func (o *OutscanController) GetManifestNumber(c *fiber.Ctx) error {
	profile, err := middleware.Operator(c)
	if err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "operator profile required"})
	}
	return c.JSON(fiber.Map{
		"status":          "success",
		"manifest_number": strconv.FormatInt(profile.NextManifestSeq, 10),
	})
}
