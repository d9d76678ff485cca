package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"courier-backend/constants"
	"courier-backend/controllers/auth"
	"courier-backend/controllers/booking"
	"courier-backend/controllers/delivery"
	"courier-backend/controllers/documents"
	"courier-backend/controllers/drs"
	"courier-backend/controllers/inscan"
	"courier-backend/controllers/onboarding"
	"courier-backend/controllers/outscan"
	"courier-backend/controllers/tracking"
	"courier-backend/logger"
	"courier-backend/middleware"
	"courier-backend/storage"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, mediaStore *storage.MediaStore) {
	asyncLogger := logger.NewAsyncLogger(db)

	authController := auth.NewAuthController(db, asyncLogger)
	bookingController := booking.NewBookingController(db, asyncLogger)
	inscanController := inscan.NewInscanController(db, asyncLogger)
	outscanController := outscan.NewOutscanController(db, asyncLogger)
	drsController := drs.NewDRSController(db, asyncLogger)
	deliveryController := delivery.NewDeliveryController(db, mediaStore, asyncLogger)
	trackingController := tracking.NewTrackingController(db)
	documentController := documents.NewDocumentController(db, asyncLogger)
	onboardingController := onboarding.NewOnboardingController(db, asyncLogger)

	// Start the async logger processing goroutine
	go asyncLogger.ProcessLog()

	// Proof-of-delivery images
	app.Static("/media", mediaStore.Root())

	// Every /api route passes through the token gate; the middleware itself
	// exempts the public prefixes (login, tracking, documents, media).
	api := app.Group("/api", middleware.TokenAuth(db))

	api.Get("/test", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	/*=============================================================================
	| Auth
	===============================================================================*/
	api.Post("/login", authController.Login)
	api.Post("/logout", authController.Logout)
	api.Get("/verify-token", authController.VerifyToken)
	api.Get("/profile", authController.Profile)

	/*=============================================================================
	| Booking
	===============================================================================*/
	api.Post("/booking", bookingController.Create)
	api.Get("/booking/:date", bookingController.ListByDate)
	api.Post("/bookingdetails/check", bookingController.LookupDetail)
	api.Post("/bookingdetails", bookingController.AddDetail)
	api.Get("/booking/pdf/:awb_no", documentController.BookingPDF)

	/*=============================================================================
	| Inscan
	===============================================================================*/
	api.Post("/inscan", inscanController.Create)
	api.Post("/inscan/mobile", inscanController.CreateMobile)
	api.Get("/inscan/:date", inscanController.ListByDate)

	/*=============================================================================
	| Outscan / Manifest
	===============================================================================*/
	api.Post("/outscan", middleware.RequireType(constants.OperationalTypes...), outscanController.Create)
	api.Get("/outscan/:date", outscanController.ListByDate)
	api.Get("/manifestdata/:manifest_number", outscanController.ManifestData)
	api.Get("/getmanifestnumber", outscanController.GetManifestNumber)
	api.Get("/manifest/download/:manifest_number", documentController.DownloadManifest)
	api.Get("/manifest/view/:manifest_number", documentController.ViewManifest)

	/*=============================================================================
	| DRS and delivery
	===============================================================================*/
	api.Post("/drs", middleware.RequireType(constants.OperationalTypes...), drsController.Create)
	api.Get("/drs/:date", drsController.ListByDate)
	api.Get("/drs/download/:drs_number", documentController.DownloadDRS)
	api.Get("/drs/view/:drs_number", documentController.ViewDRS)
	api.Post("/delivery", deliveryController.Resolve)

	/*=============================================================================
	| Tracking (public)
	===============================================================================*/
	api.Get("/track/:awbno", trackingController.Track)

	/*=============================================================================
	| Onboarding (admin) and network master data
	===============================================================================*/
	api.Post("/hubonboard", middleware.RequireType(constants.OnboardingTypes...), onboardingController.CreateHub)
	api.Get("/gethublist", onboardingController.ListHubs)
	api.Post("/branchonboard", middleware.RequireType(constants.OnboardingTypes...), onboardingController.CreateBranch)
	api.Get("/getbranch/:branch_code", onboardingController.GetBranch)
	api.Post("/useronboard", middleware.RequireType(constants.OnboardingTypes...), onboardingController.CreateUser)

	api.Post("/vehicledetails", onboardingController.CreateVehicle)
	api.Get("/vehicledetails", onboardingController.ListVehicles)
	api.Post("/adddelboy", onboardingController.CreateDeliveryAgent)
	api.Post("/addloc", onboardingController.CreateArea)
	api.Get("/get_boy_loc", onboardingController.ListAgentsAndAreas)
}
