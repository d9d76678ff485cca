package inscan

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"courier-backend/logger"
	"courier-backend/middleware"
	"courier-backend/models/shipment"
	"courier-backend/types"
	"courier-backend/utils"
)

type InscanController struct {
	db             *gorm.DB
	loggerInstance *logger.AsyncLogger
}

func NewInscanController(db *gorm.DB, loggerInstance *logger.AsyncLogger) *InscanController {
	return &InscanController{db: db, loggerInstance: loggerInstance}
}

// Create appends arrival events for the caller's unit. The ledger is
// deliberately tolerant: no check that the AWB was ever booked. The batch is
// one transaction so a bad timestamp mid-list leaves nothing behind.
func (i *InscanController) Create(c *fiber.Ctx) error {
	var req types.InscanRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing inscan request", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "invalid request body"})
	}
	if len(req.AwbNo) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "awbno list is required"})
	}

	profile, err := middleware.Operator(c)
	if err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"status": "error", "message": "operator profile required"})
	}

	err = i.db.Transaction(func(tx *gorm.DB) error {
		for _, pair := range req.AwbNo {
			if len(pair) < 2 {
				return fiber.NewError(fiber.StatusBadRequest, "each entry must be [timestamp, awbno]")
			}
			scannedAt, perr := utils.ParseScanTime(pair[0])
			if perr != nil {
				return fiber.NewError(fiber.StatusBadRequest, perr.Error())
			}
			event := shipment.InscanEvent{
				AwbNo:      pair[1],
				BranchCode: profile.Code,
				ScannedAt:  scannedAt,
			}
			if err := tx.Create(&event).Error; err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{"status": "error", "message": fiberErr.Message})
		}
		logger.Error("Inscan batch failed", err)
		return c.Status(fiber.StatusNotAcceptable).JSON(fiber.Map{"status": "error"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success"})
}

// CreateMobile records a list of AWBs under one shared scan timestamp.
func (i *InscanController) CreateMobile(c *fiber.Ctx) error {
	var req types.InscanMobileRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing mobile inscan request", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "invalid request body"})
	}
	if len(req.AwbNo) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "awbno list is required"})
	}

	profile, err := middleware.Operator(c)
	if err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"status": "error", "message": "operator profile required"})
	}

	scannedAt, perr := utils.ParseScanTime(req.Date)
	if perr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": perr.Error()})
	}

	err = i.db.Transaction(func(tx *gorm.DB) error {
		for _, awb := range req.AwbNo {
			event := shipment.InscanEvent{
				AwbNo:      awb,
				BranchCode: profile.Code,
				ScannedAt:  scannedAt,
			}
			if err := tx.Create(&event).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Mobile inscan batch failed", err)
		return c.Status(fiber.StatusNotAcceptable).JSON(fiber.Map{"status": "error"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success"})
}

// ListByDate lists the unit's inscan events for a day, enriched best-effort
// with pieces/weight/doc type from the booking; an unbooked AWB gets blanks.
func (i *InscanController) ListByDate(c *fiber.Ctx) error {
	start, end, err := utils.DayRange(c.Params("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date required"})
	}
	profile, err := middleware.Operator(c)
	if err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "operator profile required"})
	}

	var events []shipment.InscanEvent
	if err := i.db.Where("branch_code = ? AND scanned_at BETWEEN ? AND ?", profile.Code, start, end).
		Find(&events).Error; err != nil {
		logger.Error("Inscan list query failed", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	data := make([]fiber.Map, 0, len(events))
	for _, ev := range events {
		docType, pcs, wt := "", "", ""
		var b shipment.Booking
		if err := i.db.Where("awb_no = ?", ev.AwbNo).First(&b).Error; err == nil {
			docType = b.DocType
			pcs = fmt.Sprint(b.Pcs)
			wt = b.Wt
		}
		data = append(data, fiber.Map{
			"awbno": ev.AwbNo,
			"date":  ev.ScannedAt,
			"type":  docType,
			"pcs":   pcs,
			"wt":    wt,
		})
	}

	return c.JSON(fiber.Map{"status": "success", "data": data})
}
