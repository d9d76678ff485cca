package documents

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"courier-backend/logger"
	"courier-backend/models/network"
	"courier-backend/models/shipment"
	"courier-backend/pdfgen"
	"courier-backend/utils"
)

// DocumentController serves rendered PDFs for manifests, delivery run sheets
// and booking receipts. The routes are public so printed documents can carry
// scannable links; everything here is read-only.
type DocumentController struct {
	db             *gorm.DB
	loggerInstance *logger.AsyncLogger
}

func NewDocumentController(db *gorm.DB, loggerInstance *logger.AsyncLogger) *DocumentController {
	return &DocumentController{db: db, loggerInstance: loggerInstance}
}

func sendPDF(c *fiber.Ctx, data []byte, filename string, inline bool) error {
	disposition := "attachment"
	if inline {
		disposition = "inline"
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("%s; filename=%q", disposition, filename))
	return c.Send(data)
}

func (d *DocumentController) manifestPDF(c *fiber.Ctx, inline bool) error {
	number := c.Params("manifest_number")

	var manifest shipment.Manifest
	if err := d.db.Preload("Vehicle").Where("manifest_number = ?", number).First(&manifest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "not found"})
		}
		logger.Error("Manifest lookup failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch manifest"})
	}

	var outscans []shipment.OutscanLine
	if err := d.db.Where("manifest_id = ?", manifest.ID).Order("id asc").Find(&outscans).Error; err != nil {
		logger.Error("Manifest line query failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch manifest lines"})
	}

	lines := make([]pdfgen.ManifestLine, 0, len(outscans))
	for _, line := range outscans {
		entry := pdfgen.ManifestLine{AwbNo: line.AwbNo}
		var booking shipment.Booking
		if err := d.db.Where("awb_no = ?", line.AwbNo).First(&booking).Error; err == nil {
			entry.DocType = booking.DocType
			entry.Pcs = fmt.Sprint(booking.Pcs)
			entry.Wt = booking.Wt
		} else {
			var detail shipment.BookingDetail
			if err := d.db.Where("awb_no = ?", line.AwbNo).Order("id desc").First(&detail).Error; err == nil {
				entry.DocType = detail.DocType
				entry.Pcs = fmt.Sprint(detail.Pcs)
				entry.Wt = detail.Wt
			}
		}
		lines = append(lines, entry)
	}

	fromName, _ := utils.ResolveUnitName(d.db, manifest.FromCode)
	toName, _ := utils.ResolveUnitName(d.db, manifest.ToCode)
	if fromName == "" {
		fromName = manifest.FromCode
	}
	if toName == "" {
		toName = manifest.ToCode
	}

	data, err := pdfgen.Manifest(manifest, fromName, toName, lines)
	if err != nil {
		logger.Error("Manifest PDF render failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to render manifest"})
	}
	return sendPDF(c, data, "manifest_"+manifest.ManifestNumber+".pdf", inline)
}

func (d *DocumentController) DownloadManifest(c *fiber.Ctx) error {
	return d.manifestPDF(c, false)
}

func (d *DocumentController) ViewManifest(c *fiber.Ctx) error {
	return d.manifestPDF(c, true)
}

func (d *DocumentController) drsPDF(c *fiber.Ctx, inline bool) error {
	number := c.Params("drs_number")

	var run shipment.DRS
	if err := d.db.Preload("Agent").Where("drs_no = ?", number).First(&run).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "not found"})
		}
		logger.Error("DRS lookup failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch DRS"})
	}

	var drsLines []shipment.DRSLine
	if err := d.db.Where("drs_no = ?", run.DRSNo).Order("id asc").Find(&drsLines).Error; err != nil {
		logger.Error("DRS line query failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch DRS lines"})
	}

	lines := make([]pdfgen.DRSDocLine, 0, len(drsLines))
	for _, line := range drsLines {
		entry := pdfgen.DRSDocLine{AwbNo: line.AwbNo, Status: "ofd"}
		var booking shipment.Booking
		if err := d.db.Where("awb_no = ?", line.AwbNo).First(&booking).Error; err == nil {
			entry.ReceiverName = booking.ReceiverName
			entry.Address = booking.ReceiverAddress
			entry.Pcs = fmt.Sprint(booking.Pcs)
		}
		var outcome shipment.DeliveryOutcome
		if err := d.db.Where("awb_no = ?", line.AwbNo).Order("id desc").First(&outcome).Error; err == nil {
			entry.Status = outcome.Status
		}
		lines = append(lines, entry)
	}

	branchName, _ := utils.ResolveUnitName(d.db, run.BranchCode)
	if branchName == "" {
		branchName = run.BranchCode
	}
	areaName := ""
	if run.AreaCode != "" {
		var area network.Area
		if err := d.db.Where("code = ?", run.AreaCode).First(&area).Error; err == nil {
			areaName = area.Name
		}
	}

	data, err := pdfgen.DRS(run, branchName, areaName, lines)
	if err != nil {
		logger.Error("DRS PDF render failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to render DRS"})
	}
	return sendPDF(c, data, "drs_"+run.DRSNo+".pdf", inline)
}

func (d *DocumentController) DownloadDRS(c *fiber.Ctx) error {
	return d.drsPDF(c, false)
}

func (d *DocumentController) ViewDRS(c *fiber.Ctx) error {
	return d.drsPDF(c, true)
}

// BookingPDF streams the consignment note for an AWB, inline.
func (d *DocumentController) BookingPDF(c *fiber.Ctx) error {
	awbNo := c.Params("awb_no")

	var booking shipment.Booking
	if err := d.db.Where("awb_no = ?", awbNo).First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "not found"})
		}
		logger.Error("Booking lookup failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch booking"})
	}

	var children []shipment.ChildPiece
	d.db.Where("parent_awb = ?", booking.AwbNo).Order("id asc").Find(&children)
	childAwbs := make([]string, 0, len(children))
	for _, child := range children {
		childAwbs = append(childAwbs, child.ChildAwb)
	}

	destinationName, _ := utils.ResolveUnitName(d.db, booking.DestinationCode)
	if destinationName == "" {
		destinationName = booking.DestinationCode
	}

	data, err := pdfgen.BookingReceipt(booking, destinationName, childAwbs)
	if err != nil {
		logger.Error("Booking PDF render failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to render booking receipt"})
	}
	return sendPDF(c, data, "booking_"+booking.AwbNo+".pdf", true)
}
