package onboarding

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"courier-backend/logger"
	"courier-backend/middleware"
	"courier-backend/models/network"
	"courier-backend/models/user"
	"courier-backend/types"
	"courier-backend/utils"
)

type OnboardingController struct {
	db             *gorm.DB
	loggerInstance *logger.AsyncLogger
}

func NewOnboardingController(db *gorm.DB, loggerInstance *logger.AsyncLogger) *OnboardingController {
	return &OnboardingController{db: db, loggerInstance: loggerInstance}
}

// generateUnitCode draws 6-digit codes until one is free in the given column.
func generateUnitCode(db *gorm.DB, model interface{}, column string) string {
	for {
		code := utils.RandomDigits(6)
		var count int64
		db.Model(model).Where(column+" = ?", code).Count(&count)
		if count == 0 {
			return code
		}
	}
}

func (o *OnboardingController) CreateHub(c *fiber.Ctx) error {
	var req struct {
		HubName      string `json:"hubname"`
		Location     string `json:"location"`
		Address      string `json:"address"`
		PhoneNumber  string `json:"phone_number"`
		InchargeName string `json:"incharge_name"`
		State        string `json:"state"`
		Region       string `json:"region"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{Message: "Invalid request body", Status: fiber.StatusBadRequest})
	}
	if req.HubName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{Message: "hubname is required", Status: fiber.StatusBadRequest})
	}

	hub := network.Hub{
		HubCode:      generateUnitCode(o.db, &network.Hub{}, "hub_code"),
		HubName:      req.HubName,
		Location:     req.Location,
		Address:      req.Address,
		PhoneNumber:  req.PhoneNumber,
		InchargeName: req.InchargeName,
		State:        req.State,
		Region:       req.Region,
	}
	if err := o.db.Create(&hub).Error; err != nil {
		logger.Error("Hub creation failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ErrorResponse{Message: "Failed to create hub", Status: fiber.StatusInternalServerError})
	}

	logger.Success("Hub onboarded: " + hub.HubName + " (" + hub.HubCode + ")")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Hub created successfully",
		"hub_code": hub.HubCode,
	})
}

func (o *OnboardingController) ListHubs(c *fiber.Ctx) error {
	var hubs []network.Hub
	if err := o.db.Find(&hubs).Error; err != nil {
		logger.Error("Hub list query failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ErrorResponse{Message: "Failed to fetch hubs", Status: fiber.StatusInternalServerError})
	}
	return c.JSON(types.ApiResponse{Message: "success", Status: fiber.StatusOK, Data: hubs})
}

func (o *OnboardingController) CreateBranch(c *fiber.Ctx) error {
	var req struct {
		BranchName   string `json:"branchname"`
		Location     string `json:"location"`
		Address      string `json:"address"`
		PhoneNumber  string `json:"phone_number"`
		InchargeName string `json:"incharge_name"`
		Hub          string `json:"hub"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{Message: "Invalid request body", Status: fiber.StatusBadRequest})
	}

	var hub network.Hub
	if err := o.db.Where("hub_code = ?", req.Hub).First(&hub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid hub code"})
		}
		logger.Error("Hub lookup failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch hub"})
	}

	branch := network.Branch{
		BranchCode:   generateUnitCode(o.db, &network.Branch{}, "branch_code"),
		BranchName:   req.BranchName,
		Location:     req.Location,
		Address:      req.Address,
		PhoneNumber:  req.PhoneNumber,
		InchargeName: req.InchargeName,
		HubCode:      hub.HubCode,
	}
	if err := o.db.Create(&branch).Error; err != nil {
		logger.Error("Branch creation failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create branch"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Branch onboarded successfully",
		"hub_details": fiber.Map{
			"hub_code":    hub.HubCode,
			"hubname":     hub.HubName,
			"location":    hub.Location,
			"state":       hub.State,
			"region":      hub.Region,
			"branch_code": branch.BranchCode,
		},
	})
}

func (o *OnboardingController) GetBranch(c *fiber.Ctx) error {
	code := c.Params("branch_code")

	var branch network.Branch
	if err := o.db.Where("branch_code = ?", code).First(&branch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Branch not found"})
		}
		logger.Error("Branch lookup failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch branch"})
	}

	resp := fiber.Map{
		"branch_code":   branch.BranchCode,
		"branch_name":   branch.BranchName,
		"location":      branch.Location,
		"address":       branch.Address,
		"phone_number":  branch.PhoneNumber,
		"incharge_name": branch.InchargeName,
	}
	var hub network.Hub
	if err := o.db.Where("hub_code = ?", branch.HubCode).First(&hub).Error; err == nil {
		resp["state"] = hub.State
		resp["region"] = hub.Region
		resp["hub_code"] = hub.HubCode
		resp["hub_name"] = hub.HubName
	}
	return c.JSON(resp)
}

// CreateUser onboards an operator: login credentials plus the profile carrying
// the unit binding and freshly seeded manifest/DRS counters.
func (o *OnboardingController) CreateUser(c *fiber.Ctx) error {
	var req struct {
		Username    string `json:"username"`
		Password    string `json:"password"`
		Type        string `json:"type"`
		Code        string `json:"code"`
		CodeName    string `json:"code_name"`
		FirstName   string `json:"firstname"`
		LastName    string `json:"lastname"`
		PhoneNumber string `json:"phone_number"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{Message: "Invalid request body", Status: fiber.StatusBadRequest})
	}
	if req.Username == "" || req.Password == "" || req.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{Message: "username, password and code are required", Status: fiber.StatusBadRequest})
	}

	var count int64
	if err := o.db.Model(&user.User{}).Where("username = ?", req.Username).Count(&count).Error; err != nil {
		logger.Error("Username check failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to check username"})
	}
	if count > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Username already exists"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("Password hashing failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create user"})
	}

	manifestSeq := utils.SeedManifestNumber(req.Code)
	drsSeq := utils.SeedDRSNumber(req.Code)

	var created user.User
	err = o.db.Transaction(func(tx *gorm.DB) error {
		created = user.User{Username: req.Username, PasswordHash: string(hash)}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}
		profile := user.OperatorProfile{
			UserID:          created.ID,
			Type:            req.Type,
			Code:            req.Code,
			CodeName:        req.CodeName,
			FirstName:       req.FirstName,
			LastName:        req.LastName,
			PhoneNumber:     req.PhoneNumber,
			NextManifestSeq: manifestSeq,
			NextDRSSeq:      drsSeq,
		}
		return tx.Create(&profile).Error
	})
	if err != nil {
		logger.Error("User onboarding failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to onboard user"})
	}

	logger.Success("User onboarded: " + req.Username)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":         "User onboarded successfully",
		"username":        req.Username,
		"drs_number":      drsSeq,
		"manifest_number": manifestSeq,
	})
}

func (o *OnboardingController) CreateVehicle(c *fiber.Ctx) error {
	var req struct {
		VehicleNumber string `json:"vehiclenumber"`
		VehicleType   string `json:"vehicle_type"`
	}
	if err := c.BodyParser(&req); err != nil || req.VehicleNumber == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "vehiclenumber is required"})
	}
	profile, err := middleware.Operator(c)
	if err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "operator profile required"})
	}

	vehicle := network.Vehicle{
		VehicleNumber: req.VehicleNumber,
		VehicleType:   req.VehicleType,
		BranchCode:    profile.Code,
	}
	if err := o.db.Create(&vehicle).Error; err != nil {
		logger.Error("Vehicle creation failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create vehicle"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": vehicle})
}

func (o *OnboardingController) ListVehicles(c *fiber.Ctx) error {
	profile, err := middleware.Operator(c)
	if err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "operator profile required"})
	}
	var vehicles []network.Vehicle
	if err := o.db.Where("branch_code = ?", profile.Code).Find(&vehicles).Error; err != nil {
		logger.Error("Vehicle list query failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch vehicles"})
	}
	return c.JSON(fiber.Map{"status": "success", "data": vehicles})
}

func (o *OnboardingController) CreateDeliveryAgent(c *fiber.Ctx) error {
	var req struct {
		Name        string `json:"name"`
		PhoneNumber string `json:"phone_number"`
	}
	if err := c.BodyParser(&req); err != nil || req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}
	profile, err := middleware.Operator(c)
	if err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "operator profile required"})
	}

	agent := network.DeliveryAgent{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		BranchCode:  profile.Code,
	}
	if err := o.db.Create(&agent).Error; err != nil {
		logger.Error("Delivery agent creation failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create delivery agent"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": agent})
}

func (o *OnboardingController) CreateArea(c *fiber.Ctx) error {
	var req struct {
		Code string `json:"code"`
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil || req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}
	profile, err := middleware.Operator(c)
	if err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "operator profile required"})
	}

	if req.Code == "" {
		req.Code = utils.RandomDigits(4)
	}
	area := network.Area{Code: req.Code, Name: req.Name, BranchCode: profile.Code}
	if err := o.db.Create(&area).Error; err != nil {
		logger.Error("Area creation failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create area"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": area})
}

// ListAgentsAndAreas feeds the DRS builder UI: the unit's delivery agents and
// delivery areas in one call.
func (o *OnboardingController) ListAgentsAndAreas(c *fiber.Ctx) error {
	profile, err := middleware.Operator(c)
	if err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "operator profile required"})
	}

	var agents []network.DeliveryAgent
	if err := o.db.Where("branch_code = ?", profile.Code).Find(&agents).Error; err != nil {
		logger.Error("Agent list query failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch agents"})
	}
	var areas []network.Area
	if err := o.db.Where("branch_code = ?", profile.Code).Find(&areas).Error; err != nil {
		logger.Error("Area list query failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch areas"})
	}

	return c.JSON(fiber.Map{"status": "success", "boys": agents, "locations": areas})
}
