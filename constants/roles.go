package constants

// Operator profile types
const (
	TypeHub    = "hub"
	TypeBranch = "branch"
	TypeAdmin  = "admin"
)

// Delivery outcome statuses
const (
	StatusDelivered   = "delivered"
	StatusUndelivered = "undelivered"
	StatusRTO         = "rto"

	// StatusOutForDelivery is reported for a DRS line with no resolved outcome.
	StatusOutForDelivery = "ofd"
)

// Unit roles that may onboard network entities
var OnboardingTypes = []string{TypeAdmin}

// Unit roles that may build manifests and delivery runs
var OperationalTypes = []string{TypeHub, TypeBranch}
