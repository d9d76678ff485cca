package types

import "time"

// ApiResponse is the uniform response envelope. Status mirrors the HTTP status
// code; clients inspect the body rather than relying on transport codes alone.
type ApiResponse struct {
	Message string      `json:"message"`
	Status  int         `json:"status"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// LogEntry is what handlers hand to the AsyncLogger.
type LogEntry struct {
	Method       string
	URL          string
	RequestBody  string
	ResponseBody string
	StatusCode   int
	CreatedAt    time.Time
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() string {
	if r.Username == "" {
		return "Username is required"
	}
	if r.Password == "" {
		return "Password is required"
	}
	return ""
}

type BookingRequest struct {
	AwbNo           string `json:"awbno"`
	Date            string `json:"date"`
	DocType         string `json:"doc_type"`
	Pcs             int    `json:"pcs"`
	Wt              string `json:"wt"`
	SenderName      string `json:"sendername"`
	ReceiverName    string `json:"receivername"`
	SenderPhone     string `json:"senderphone"`
	ReceiverPhone   string `json:"receiverphone"`
	SenderAddress   string `json:"senderaddress"`
	ReceiverAddress string `json:"receiveraddress"`
	DestinationCode string `json:"destination_code"`
	Mode            string `json:"mode"`
	Contents        string `json:"contents"`
	Pincode         string `json:"pincode"`
	RefNo           string `json:"refno"`
	ChildAwbSeed    string `json:"child_awb"`
}

func (r BookingRequest) Validate() string {
	if r.AwbNo == "" {
		return "awbno is required"
	}
	if r.Pcs < 1 {
		return "pcs must be at least 1"
	}
	if r.Pcs > 1 && r.ChildAwbSeed == "" {
		return "child_awb seed is required when pcs > 1"
	}
	if r.DestinationCode == "" {
		return "destination_code is required"
	}
	return ""
}

// InscanRequest carries [timestamp, awbno] pairs; the timestamp format is
// "DD-MM-YYYY, HH:MM:SS".
type InscanRequest struct {
	AwbNo [][]string `json:"awbno"`
}

// InscanMobileRequest shares a single scan timestamp across the listed AWBs.
type InscanMobileRequest struct {
	AwbNo []string `json:"awbno"`
	Date  string   `json:"date"`
}

type OutscanRequest struct {
	AwbNo         []string `json:"awbno"`
	ToHub         string   `json:"tohub"`
	VehicleNumber string   `json:"vehicle_number"`
	Date          string   `json:"date"`
}

func (r OutscanRequest) Validate() string {
	if len(r.AwbNo) == 0 {
		return "awbno list is required"
	}
	if r.ToHub == "" {
		return "tohub is required"
	}
	if r.Date == "" {
		return "date is required"
	}
	return ""
}

type DRSRequest struct {
	AwbNo       []string `json:"awbno"`
	DeliveryBoy string   `json:"delivery_boy"`
	Date        string   `json:"date"`
	Location    string   `json:"location"`
}

func (r DRSRequest) Validate() string {
	if len(r.AwbNo) == 0 {
		return "awbno list is required"
	}
	if r.DeliveryBoy == "" {
		return "delivery_boy is required"
	}
	if r.Date == "" {
		return "date is required"
	}
	return ""
}

type DeliveryRequest struct {
	AwbNo         []string `json:"awbno"`
	Status        string   `json:"status"`
	ReceiverName  string   `json:"receivername"`
	ReceiverPhone string   `json:"receiverphone"`
	Reason        string   `json:"reason"`
}
