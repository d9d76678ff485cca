package delivery

import (
	"errors"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"courier-backend/constants"
	"courier-backend/logger"
	"courier-backend/models/shipment"
	"courier-backend/storage"
	"courier-backend/types"
)

type DeliveryController struct {
	db             *gorm.DB
	store          storage.Store
	loggerInstance *logger.AsyncLogger
}

func NewDeliveryController(db *gorm.DB, store storage.Store, loggerInstance *logger.AsyncLogger) *DeliveryController {
	return &DeliveryController{db: db, store: store, loggerInstance: loggerInstance}
}

// parseRequest accepts either a JSON body or a multipart form (used when a
// proof-of-delivery image rides along).
func parseRequest(c *fiber.Ctx) (types.DeliveryRequest, *multipart.FileHeader, error) {
	var req types.DeliveryRequest

	if form, err := c.MultipartForm(); err == nil && form != nil {
		req.AwbNo = form.Value["awbno"]
		if len(req.AwbNo) == 1 && strings.Contains(req.AwbNo[0], ",") {
			req.AwbNo = strings.Split(req.AwbNo[0], ",")
		}
		first := func(key string) string {
			if v := form.Value[key]; len(v) > 0 {
				return v[0]
			}
			return ""
		}
		req.Status = first("status")
		req.ReceiverName = first("receivername")
		req.ReceiverPhone = first("receiverphone")
		req.Reason = first("reason")

		var image *multipart.FileHeader
		if files := form.File["image"]; len(files) > 0 {
			image = files[0]
		}
		return req, image, nil
	}

	if err := c.BodyParser(&req); err != nil {
		return req, nil, err
	}
	return req, nil, nil
}

// Resolve records the terminal outcome of a delivery attempt for each AWB.
// delivered is non-overwritable: an AWB with a delivered outcome fails the
// whole batch before anything is written. undelivered/rto free the AWB from
// the delivery gate for a future run. The batch is one transaction.
func (d *DeliveryController) Resolve(c *fiber.Ctx) error {
	req, image, err := parseRequest(c)
	if err != nil {
		logger.Error("Error parsing delivery request", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "invalid request body"})
	}
	if len(req.AwbNo) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "awbno list is required"})
	}

	awbStatus := strings.ToLower(strings.TrimSpace(req.Status))
	switch awbStatus {
	case constants.StatusDelivered, constants.StatusUndelivered, constants.StatusRTO:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "invalid status"})
	}

	// The image is written before the transaction; a URL pointing at a file
	// with no outcome row is harmless, the reverse is not.
	imageURL := ""
	if awbStatus == constants.StatusDelivered && image != nil {
		imageURL, err = d.store.SaveProofImage(c, image, req.AwbNo[0])
		if err != nil {
			logger.Error("Failed to store proof image", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "image upload failed"})
		}
	}

	var conflictAwb string
	err = d.db.Transaction(func(tx *gorm.DB) error {
		for _, awb := range req.AwbNo {
			var delivered int64
			if err := tx.Model(&shipment.DeliveryOutcome{}).
				Where("awb_no = ? AND status = ?", awb, constants.StatusDelivered).
				Count(&delivered).Error; err != nil {
				return err
			}
			if delivered > 0 {
				conflictAwb = awb
				return fiber.NewError(fiber.StatusConflict, "already delivered")
			}

			outcome := shipment.DeliveryOutcome{
				AwbNo:  awb,
				Status: awbStatus,
			}
			if awbStatus == constants.StatusDelivered {
				outcome.ReceiverName = req.ReceiverName
				outcome.ReceiverPhone = req.ReceiverPhone
				outcome.ImageURL = imageURL
			} else {
				outcome.Reason = req.Reason
				// Free the AWB for a future run.
				if err := tx.Where("awb_no = ?", awb).Delete(&shipment.DeliveryGate{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Create(&outcome).Error; err != nil {
				return err
			}

			if err := tx.Model(&shipment.DRSLine{}).
				Where("awb_no = ? AND resolved = ?", awb, false).
				Update("resolved", true).Error; err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) && fiberErr.Code == fiber.StatusConflict {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"status": "already delivered", "awbno": conflictAwb})
		}
		logger.Error("Delivery resolution failed", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error"})
	}

	d.loggerInstance.Log(types.LogEntry{
		Method:     c.Method(),
		URL:        c.OriginalURL(),
		StatusCode: fiber.StatusCreated,
		CreatedAt:  time.Now(),
	})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success"})
}
