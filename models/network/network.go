package network

import "time"

// Organizational units of the distribution network. A branch references its
// parent hub by code only; codes are generated at onboarding and never reused.

type Hub struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	HubCode      string `gorm:"size:10;not null;unique" json:"hub_code"`
	HubName      string `gorm:"size:100;not null;index" json:"hubname"`
	Location     string `gorm:"size:100" json:"location"`
	Address      string `gorm:"size:200" json:"address"`
	PhoneNumber  string `gorm:"size:20" json:"phone_number"`
	InchargeName string `gorm:"size:100" json:"incharge_name"`
	State        string `gorm:"size:50" json:"state"`
	Region       string `gorm:"size:50" json:"region"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type Branch struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	BranchCode   string `gorm:"size:10;not null;unique" json:"branch_code"`
	BranchName   string `gorm:"size:100;not null;index" json:"branchname"`
	Location     string `gorm:"size:100" json:"location"`
	Address      string `gorm:"size:200" json:"address"`
	PhoneNumber  string `gorm:"size:20" json:"phone_number"`
	InchargeName string `gorm:"size:100" json:"incharge_name"`
	HubCode      string `gorm:"size:10;index" json:"hub_code"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type Vehicle struct {
	ID            uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	VehicleNumber string `gorm:"size:20;not null;unique" json:"vehiclenumber"`
	VehicleType   string `gorm:"size:50" json:"vehicle_type"`
	BranchCode    string `gorm:"size:10;index" json:"branch_code"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type DeliveryAgent struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"size:100;not null;index" json:"name"`
	PhoneNumber string `gorm:"size:20" json:"phone_number"`
	BranchCode  string `gorm:"size:10;index" json:"branch_code"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Area is a delivery locality served by a branch; DRS runs are cut per area.
type Area struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Code       string `gorm:"size:20;not null;index" json:"code"`
	Name       string `gorm:"size:100;not null" json:"name"`
	BranchCode string `gorm:"size:10;index" json:"branch_code"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
