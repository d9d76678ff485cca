package booking

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"courier-backend/logger"
	"courier-backend/middleware"
	"courier-backend/models/shipment"
	"courier-backend/types"
	"courier-backend/utils"
)

type BookingController struct {
	db             *gorm.DB
	loggerInstance *logger.AsyncLogger
}

func NewBookingController(db *gorm.DB, loggerInstance *logger.AsyncLogger) *BookingController {
	return &BookingController{db: db, loggerInstance: loggerInstance}
}

// Create books a shipment under the caller's unit. Duplicate AWBs are an
// idempotent no-op; for multi-piece shipments the children share the booking
// transaction, so a child identifier collision leaves no parent row behind.
func (b *BookingController) Create(c *fiber.Ctx) error {
	var req types.BookingRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing booking request", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "invalid request body"})
	}
	if v := req.Validate(); v != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": v})
	}

	profile, err := middleware.Operator(c)
	if err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"status": "error", "message": "operator profile required"})
	}

	var exists int64
	if err := b.db.Model(&shipment.Booking{}).Where("awb_no = ?", req.AwbNo).Count(&exists).Error; err != nil {
		logger.Error("Booking existence check failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error"})
	}
	if exists > 0 {
		return c.JSON(fiber.Map{"status": "exists"})
	}

	bookedAt := time.Now()
	if req.Date != "" {
		if t, perr := time.ParseInLocation("2006-01-02", req.Date, time.Local); perr == nil {
			bookedAt = t
		}
	}

	err = b.db.Transaction(func(tx *gorm.DB) error {
		row := shipment.Booking{
			AwbNo:           req.AwbNo,
			RefNo:           req.RefNo,
			Date:            bookedAt,
			DocType:         req.DocType,
			Pcs:             req.Pcs,
			Wt:              req.Wt,
			SenderName:      req.SenderName,
			SenderPhone:     req.SenderPhone,
			SenderAddress:   req.SenderAddress,
			ReceiverName:    req.ReceiverName,
			ReceiverPhone:   req.ReceiverPhone,
			ReceiverAddress: req.ReceiverAddress,
			Pincode:         req.Pincode,
			DestinationCode: req.DestinationCode,
			BookedCode:      profile.Code,
			Mode:            req.Mode,
			Contents:        req.Contents,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}

		if req.Pcs > 1 {
			prefix, suffix, width, serr := utils.SplitAwbSuffix(req.ChildAwbSeed)
			if serr != nil {
				return fiber.NewError(fiber.StatusBadRequest, serr.Error())
			}
			for i := 0; i < req.Pcs-1; i++ {
				childID := utils.JoinAwbSuffix(prefix, suffix+int64(i), width)
				var taken int64
				if err := tx.Model(&shipment.ChildPiece{}).Where("child_awb = ?", childID).Count(&taken).Error; err != nil {
					return err
				}
				if taken > 0 {
					return fiber.NewError(fiber.StatusConflict, "child exists")
				}
				child := shipment.ChildPiece{ChildAwb: childID, ParentAwb: req.AwbNo}
				if err := tx.Create(&child).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})

	if err != nil {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			if fiberErr.Code == fiber.StatusConflict {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"status": "child exists"})
			}
			return c.Status(fiberErr.Code).JSON(fiber.Map{"status": "error", "message": fiberErr.Message})
		}
		logger.Error("Booking creation failed", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error"})
	}

	b.loggerInstance.Log(types.LogEntry{
		Method:     c.Method(),
		URL:        c.OriginalURL(),
		StatusCode: fiber.StatusCreated,
		CreatedAt:  time.Now(),
	})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success"})
}

// ListByDate lists the caller's bookings for a calendar day with destination
// display names resolved against the hub and branch tables.
func (b *BookingController) ListByDate(c *fiber.Ctx) error {
	date := c.Params("date")
	start, end, err := utils.DayRange(date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date required"})
	}
	profile, err := middleware.Operator(c)
	if err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "operator profile required"})
	}

	var bookings []shipment.Booking
	if err := b.db.Where("booked_code = ? AND date BETWEEN ? AND ?", profile.Code, start, end).
		Order("date DESC").Find(&bookings).Error; err != nil {
		logger.Error("Booking list query failed", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	hubNames, branchNames := utils.UnitNameMaps(b.db)

	data := make([]fiber.Map, 0, len(bookings))
	for _, row := range bookings {
		destination := hubNames[row.DestinationCode]
		if destination == "" {
			destination = branchNames[row.DestinationCode]
		}
		data = append(data, fiber.Map{
			"awbno":       row.AwbNo,
			"date":        row.Date.Format("02-01-2006"),
			"sender":      row.SenderName,
			"receiver":    row.ReceiverName,
			"destination": destination,
			"doc_type":    row.DocType,
			"wt":          row.Wt,
			"pcs":         row.Pcs,
		})
	}

	return c.JSON(fiber.Map{"status": "success", "count": len(data), "data": data})
}

// LookupDetail probes the staged booking-detail rows by AWB.
func (b *BookingController) LookupDetail(c *fiber.Ctx) error {
	var req struct {
		AwbNo string `json:"awbno"`
	}
	if err := c.BodyParser(&req); err != nil || req.AwbNo == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "awbno required"})
	}

	var detail shipment.BookingDetail
	if err := b.db.Where("awb_no = ?", req.AwbNo).First(&detail).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(fiber.Map{"status": "not found"})
		}
		logger.Error("Booking detail lookup failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error"})
	}
	return c.JSON(fiber.Map{
		"status": "found",
		"type":   detail.DocType,
		"pcs":    detail.Pcs,
		"wt":     detail.Wt,
	})
}

// AddDetail stages doc type / pieces / weight for an AWB ahead of booking.
func (b *BookingController) AddDetail(c *fiber.Ctx) error {
	var req struct {
		AwbNo   string `json:"awbno"`
		DocType string `json:"doctype"`
		Pcs     int    `json:"pcs"`
		Wt      string `json:"wt"`
	}
	if err := c.BodyParser(&req); err != nil || req.AwbNo == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "awbno required"})
	}

	detail := shipment.BookingDetail{
		AwbNo:   req.AwbNo,
		DocType: req.DocType,
		Pcs:     req.Pcs,
		Wt:      req.Wt,
	}
	if err := b.db.Create(&detail).Error; err != nil {
		logger.Error("Failed to stage booking detail", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error"})
	}
	return c.JSON(fiber.Map{"status": "added"})
}
