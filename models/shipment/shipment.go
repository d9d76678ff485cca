package shipment

import (
	"time"

	"courier-backend/models/network"
)

// Shipment lifecycle: booking -> inscan -> outscan/manifest -> DRS -> delivery
// outcome. Every transition is a synchronous write within one request; all
// multi-row writes go through a transaction.

type Booking struct {
	ID      uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	AwbNo   string    `gorm:"size:50;not null;unique" json:"awbno"`
	RefNo   string    `gorm:"size:50;index" json:"refno"`
	Date    time.Time `gorm:"index" json:"date"`
	DocType string    `gorm:"size:20" json:"doc_type"`
	Pcs     int       `gorm:"not null;default:1" json:"pcs"`
	Wt      string    `gorm:"size:20" json:"wt"`

	SenderName      string `gorm:"size:100" json:"sendername"`
	SenderPhone     string `gorm:"size:20" json:"senderphonenumber"`
	SenderAddress   string `gorm:"size:300" json:"senderaddress"`
	ReceiverName    string `gorm:"size:100" json:"recievername"`
	ReceiverPhone   string `gorm:"size:20" json:"recieverphonenumber"`
	ReceiverAddress string `gorm:"size:300" json:"recieveraddress"`
	Pincode         string `gorm:"size:10" json:"pincode"`

	DestinationCode string `gorm:"size:10;index" json:"destination_code"`
	BookedCode      string `gorm:"size:10;index" json:"booked_code"`
	Mode            string `gorm:"size:20" json:"mode"`
	Contents        string `gorm:"size:200" json:"contents"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// ChildPiece is one extra physical piece of a multi-piece booking. Child AWBs
// form a contiguous numeric run from the caller-supplied seed and are tracked
// per piece.
type ChildPiece struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ChildAwb  string `gorm:"size:50;not null;unique" json:"child_awb"`
	ParentAwb string `gorm:"size:50;not null;index" json:"parent_awb"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// BookingDetail is the staging row captured at the counter before the full
// booking entry (doc type / pieces / weight by AWB). Manifest detail queries
// fall back to it when the booking has not been keyed in yet.
type BookingDetail struct {
	ID      uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	AwbNo   string `gorm:"size:50;not null;index" json:"awbno"`
	DocType string `gorm:"size:20" json:"doc_type"`
	Pcs     int    `json:"pcs"`
	Wt      string `gorm:"size:20" json:"wt"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// InscanEvent is append-only: rows are never updated or deleted, and an inscan
// may exist for an AWB that was never booked.
type InscanEvent struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	AwbNo      string    `gorm:"size:50;not null;index" json:"awbno"`
	BranchCode string    `gorm:"size:10;not null;index" json:"inscaned_branch_code"`
	ScannedAt  time.Time `gorm:"index" json:"date"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type Manifest struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ManifestNumber string    `gorm:"size:30;not null;unique" json:"manifestnumber"`
	FromCode       string    `gorm:"size:10;not null;index" json:"from_code"`
	ToCode         string    `gorm:"size:10;not null;index" json:"tohub_branch_code"`
	Date           time.Time `gorm:"index" json:"date"`
	VehicleID      *uint     `gorm:"index" json:"vehicle_id,omitempty"`

	Vehicle *network.Vehicle `gorm:"foreignKey:VehicleID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"vehicle,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type OutscanLine struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	AwbNo      string `gorm:"size:50;not null;index" json:"awbno"`
	ManifestID uint   `gorm:"not null;index" json:"manifest_id"`

	Manifest Manifest `gorm:"foreignKey:ManifestID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"manifest"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type DRS struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	DRSNo      string    `gorm:"size:30;not null;unique" json:"drsno"`
	AgentID    uint      `gorm:"not null;index" json:"agent_id"`
	BranchCode string    `gorm:"size:10;not null;index" json:"branch"`
	Date       time.Time `gorm:"index" json:"date"`
	AreaCode   string    `gorm:"size:20" json:"location"`

	Agent network.DeliveryAgent `gorm:"foreignKey:AgentID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"agent"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type DRSLine struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	DRSNo    string `gorm:"size:30;not null;index" json:"drsno"`
	AwbNo    string `gorm:"size:50;not null;index" json:"awbno"`
	Resolved bool   `gorm:"not null;default:false" json:"resolved"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// DeliveryGate records AWBs currently committed to an unresolved delivery run.
// A gated AWB cannot be placed on another DRS; the row is removed when the
// outcome resolves as undelivered or rto.
type DeliveryGate struct {
	ID    uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	AwbNo string `gorm:"size:50;not null;unique" json:"awbno"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (DeliveryGate) TableName() string {
	return "deliverdordrs"
}

// DeliveryOutcome is terminal per attempt. A delivered outcome is never
// overwritten; undelivered/rto outcomes free the AWB for a later run, so an
// AWB can accumulate several outcome rows across attempts.
type DeliveryOutcome struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	AwbNo         string    `gorm:"size:50;not null;index" json:"awbno"`
	Status        string    `gorm:"size:15;not null;index" json:"status"` // delivered, undelivered, rto
	ResolvedAt    time.Time `gorm:"autoCreateTime" json:"date"`
	ReceiverName  string    `gorm:"size:100" json:"deliveryrecname"`
	ReceiverPhone string    `gorm:"size:20" json:"deliveryrecphone"`
	Reason        string    `gorm:"size:300" json:"reason"`
	ImageURL      string    `gorm:"size:300" json:"image"`
}
