package tracking

import (
	"errors"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"courier-backend/constants"
	"courier-backend/logger"
	"courier-backend/models/shipment"
	"courier-backend/utils"
)

type TrackingController struct {
	db *gorm.DB
}

func NewTrackingController(db *gorm.DB) *TrackingController {
	return &TrackingController{db: db}
}

type timelineEvent struct {
	Type     string    `json:"type"`
	Date     time.Time `json:"date"`
	Unit     string    `json:"unit"`
	UnitType string    `json:"unit_type"`
	ToHub    string    `json:"tohub,omitempty"`
}

// Track resolves an AWB, a child-piece identifier or a reference number into
// an ordered event timeline plus delivery status and booking summary. Legs are
// tracked per physical piece, so a child lookup keeps all sub-queries keyed by
// the child identifier even though the booking belongs to the parent.
func (t *TrackingController) Track(c *fiber.Ctx) error {
	key := c.Params("awbno")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "awbno required"})
	}

	trackKey := key
	var booking *shipment.Booking

	var direct shipment.Booking
	err := t.db.Where("awb_no = ?", key).First(&direct).Error
	switch {
	case err == nil:
		booking = &direct
	case errors.Is(err, gorm.ErrRecordNotFound):
		var child shipment.ChildPiece
		if cerr := t.db.Where("child_awb = ?", key).First(&child).Error; cerr == nil {
			var parent shipment.Booking
			if perr := t.db.Where("awb_no = ?", child.ParentAwb).First(&parent).Error; perr == nil {
				booking = &parent
			}
		} else {
			var byRef shipment.Booking
			if rerr := t.db.Where("ref_no = ?", key).First(&byRef).Error; rerr == nil {
				booking = &byRef
				trackKey = byRef.AwbNo
			} else if !errors.Is(rerr, gorm.ErrRecordNotFound) {
				logger.Error("Tracking reference lookup failed", rerr)
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error"})
			}
		}
	default:
		logger.Error("Tracking booking lookup failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error"})
	}

	timeline, terr := t.buildTimeline(trackKey)
	if terr != nil {
		logger.Error("Tracking timeline query failed", terr)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error"})
	}

	deliveryData, derr := t.deliveryStatus(trackKey)
	if derr != nil {
		logger.Error("Tracking delivery query failed", derr)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error"})
	}

	if booking == nil && len(timeline) == 0 && len(deliveryData) == 0 {
		return c.JSON(fiber.Map{"status": "not found"})
	}

	resp := fiber.Map{
		"status":        "success",
		"awbno":         trackKey,
		"timeline":      timeline,
		"delivery_data": deliveryData,
	}
	if booking != nil {
		resp["booking"] = t.bookingSummary(booking)
	}
	return c.JSON(resp)
}

func (t *TrackingController) buildTimeline(trackKey string) ([]timelineEvent, error) {
	var events []timelineEvent

	var inscans []shipment.InscanEvent
	if err := t.db.Where("awb_no = ?", trackKey).Find(&inscans).Error; err != nil {
		return nil, err
	}
	for _, ev := range inscans {
		name, kind := utils.ResolveUnitName(t.db, ev.BranchCode)
		events = append(events, timelineEvent{
			Type:     "Inscan",
			Date:     ev.ScannedAt,
			Unit:     name,
			UnitType: kind,
		})
	}

	var lines []shipment.OutscanLine
	if err := t.db.Preload("Manifest").Where("awb_no = ?", trackKey).Find(&lines).Error; err != nil {
		return nil, err
	}
	for _, line := range lines {
		fromName, fromKind := utils.ResolveUnitName(t.db, line.Manifest.FromCode)
		toName, _ := utils.ResolveUnitName(t.db, line.Manifest.ToCode)
		events = append(events, timelineEvent{
			Type:     "Outscan",
			Date:     line.Manifest.Date,
			Unit:     fromName,
			UnitType: fromKind,
			ToHub:    toName,
		})
	}

	sort.Slice(events, func(i, j int) bool { return events[i].Date.Before(events[j].Date) })
	return events, nil
}

func (t *TrackingController) deliveryStatus(trackKey string) ([]fiber.Map, error) {
	var line shipment.DRSLine
	err := t.db.Where("awb_no = ?", trackKey).Order("created_at DESC").First(&line).Error
	if err == nil {
		if !line.Resolved {
			return []fiber.Map{{"status": constants.StatusOutForDelivery, "drsno": line.DRSNo}}, nil
		}
		var outcome shipment.DeliveryOutcome
		if oerr := t.db.Where("awb_no = ?", trackKey).Order("resolved_at DESC").First(&outcome).Error; oerr == nil {
			return []fiber.Map{outcomeMap(outcome)}, nil
		}
		return []fiber.Map{{"status": constants.StatusOutForDelivery, "drsno": line.DRSNo}}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// No run sheet (e.g. direct hub delivery); a direct outcome still counts.
	var outcome shipment.DeliveryOutcome
	if oerr := t.db.Where("awb_no = ?", trackKey).Order("resolved_at DESC").First(&outcome).Error; oerr == nil {
		return []fiber.Map{outcomeMap(outcome)}, nil
	}
	return []fiber.Map{}, nil
}

func outcomeMap(o shipment.DeliveryOutcome) fiber.Map {
	return fiber.Map{
		"status":           o.Status,
		"date":             o.ResolvedAt,
		"deliveryrecname":  o.ReceiverName,
		"deliveryrecphone": o.ReceiverPhone,
		"reason":           o.Reason,
		"image":            o.ImageURL,
	}
}

func (t *TrackingController) bookingSummary(b *shipment.Booking) fiber.Map {
	destName, _ := utils.ResolveUnitName(t.db, b.DestinationCode)
	originName, _ := utils.ResolveUnitName(t.db, b.BookedCode)

	childIDs := []string{}
	var children []shipment.ChildPiece
	if err := t.db.Where("parent_awb = ?", b.AwbNo).Find(&children).Error; err == nil {
		for _, ch := range children {
			childIDs = append(childIDs, ch.ChildAwb)
		}
	}

	return fiber.Map{
		"awbno":         b.AwbNo,
		"pcs":           b.Pcs,
		"wt":            b.Wt,
		"doc_type":      b.DocType,
		"destination":   destName,
		"origin":        originName,
		"sender":        b.SenderName,
		"senderphone":   b.SenderPhone,
		"receiver":      b.ReceiverName,
		"receiverphone": b.ReceiverPhone,
		"contents":      b.Contents,
		"mode":          b.Mode,
		"child_awbs":    childIDs,
	}
}
