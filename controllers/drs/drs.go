package drs

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"courier-backend/constants"
	"courier-backend/logger"
	"courier-backend/middleware"
	"courier-backend/models/network"
	"courier-backend/models/shipment"
	"courier-backend/types"
	"courier-backend/utils"
)

type DRSController struct {
	db             *gorm.DB
	loggerInstance *logger.AsyncLogger
}

func NewDRSController(db *gorm.DB, loggerInstance *logger.AsyncLogger) *DRSController {
	return &DRSController{db: db, loggerInstance: loggerInstance}
}

// Create cuts a delivery run sheet. Precondition: none of the AWBs may sit in
// the delivery gate (already out for delivery, unresolved) — the first gated
// AWB aborts with a conflict and nothing is written. The DRS number claim, the
// run row, the line items and the gate rows all share one transaction.
func (d *DRSController) Create(c *fiber.Ctx) error {
	var req types.DRSRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing DRS request", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "invalid request body"})
	}
	if v := req.Validate(); v != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": v})
	}

	profile, err := middleware.Operator(c)
	if err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"status": "error", "message": "operator profile required"})
	}

	runAt, perr := utils.ParseScanTime(req.Date)
	if perr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": perr.Error()})
	}

	var agent network.DeliveryAgent
	if err := d.db.Where("name = ? AND branch_code = ?", req.DeliveryBoy, profile.Code).First(&agent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "unknown delivery agent"})
		}
		logger.Error("Delivery agent lookup failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error"})
	}

	var drsNumber string
	var gatedAwb string
	err = d.db.Transaction(func(tx *gorm.DB) error {
		for _, awb := range req.AwbNo {
			var gated int64
			if err := tx.Model(&shipment.DeliveryGate{}).Where("awb_no = ?", awb).Count(&gated).Error; err != nil {
				return err
			}
			if gated > 0 {
				gatedAwb = awb
				return fiber.NewError(fiber.StatusConflict, "awb already out for delivery")
			}
		}

		var cerr error
		drsNumber, cerr = utils.ClaimDRSNumber(tx, profile.ID)
		if cerr != nil {
			return cerr
		}

		run := shipment.DRS{
			DRSNo:      drsNumber,
			AgentID:    agent.ID,
			BranchCode: profile.Code,
			Date:       runAt,
			AreaCode:   req.Location,
		}
		if err := tx.Create(&run).Error; err != nil {
			return err
		}
		for _, awb := range req.AwbNo {
			line := shipment.DRSLine{DRSNo: drsNumber, AwbNo: awb}
			if err := tx.Create(&line).Error; err != nil {
				return err
			}
			gate := shipment.DeliveryGate{AwbNo: awb}
			if err := tx.Create(&gate).Error; err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) && fiberErr.Code == fiber.StatusConflict {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"status": "exists", "awbno": gatedAwb})
		}
		logger.Error("DRS creation failed", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error"})
	}

	d.loggerInstance.Log(types.LogEntry{
		Method:     c.Method(),
		URL:        c.OriginalURL(),
		StatusCode: fiber.StatusCreated,
		CreatedAt:  time.Now(),
	})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "drsno": drsNumber})
}

// ListByDate lists the unit's delivery runs for a day with agent name, area
// name and per-AWB status: "ofd" until the line resolves, then the recorded
// outcome.
func (d *DRSController) ListByDate(c *fiber.Ctx) error {
	start, end, err := utils.DayRange(c.Params("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "not allowed"})
	}
	profile, err := middleware.Operator(c)
	if err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"status": "error", "message": "operator profile required"})
	}

	var runs []shipment.DRS
	if err := d.db.Preload("Agent").
		Where("branch_code = ? AND date BETWEEN ? AND ?", profile.Code, start, end).
		Find(&runs).Error; err != nil {
		logger.Error("DRS list query failed", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	data := make([]fiber.Map, 0, len(runs))
	for _, run := range runs {
		var lines []shipment.DRSLine
		if err := d.db.Where("drs_no = ?", run.DRSNo).Find(&lines).Error; err != nil {
			logger.Error("DRS line query failed", err)
			continue
		}

		awbData := make([]fiber.Map, 0, len(lines))
		for _, line := range lines {
			status := constants.StatusOutForDelivery
			if line.Resolved {
				var outcome shipment.DeliveryOutcome
				if err := d.db.Where("awb_no = ?", line.AwbNo).
					Order("resolved_at DESC").First(&outcome).Error; err == nil {
					status = outcome.Status
				}
			}
			pcs, wt, receiver := "", "", ""
			var b shipment.Booking
			if err := d.db.Where("awb_no = ?", line.AwbNo).First(&b).Error; err == nil {
				pcs, wt, receiver = fmt.Sprint(b.Pcs), b.Wt, b.ReceiverName
			}
			awbData = append(awbData, fiber.Map{
				"awbno":    line.AwbNo,
				"status":   status,
				"pcs":      pcs,
				"wt":       wt,
				"receiver": receiver,
			})
		}

		areaName := run.AreaCode
		var area network.Area
		if err := d.db.Where("code = ? AND branch_code = ?", run.AreaCode, profile.Code).First(&area).Error; err == nil {
			areaName = area.Name
		}

		data = append(data, fiber.Map{
			"date":     run.Date,
			"drsno":    run.DRSNo,
			"boy":      run.Agent.Name,
			"location": areaName,
			"awbdata":  awbData,
		})
	}

	return c.JSON(fiber.Map{"status": "success", "data": data})
}
