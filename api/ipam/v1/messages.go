package ipamv1

import "time"

// Address is an inventory row as seen by clients.
type Address struct {
	Id            string     `json:"id"`
	Ip            string     `json:"ip"`
	Status        string     `json:"status"`
	RoomId        string     `json:"room_id"`
	CompanyId     string     `json:"company_id,omitempty"`
	MacAddress    string     `json:"mac_address,omitempty"`
	HolderName    string     `json:"holder_name,omitempty"`
	Temporary     bool       `json:"temporary"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	LastRenewedAt *time.Time `json:"last_renewed_at,omitempty"`
	AssignedAt    *time.Time `json:"assigned_at,omitempty"`
}

// IPRequest is a lifecycle request with its company, room and address resolved.
type IPRequest struct {
	Id              string     `json:"id"`
	Type            string     `json:"type"`
	Status          string     `json:"status"`
	CompanyId       string     `json:"company_id"`
	CompanyName     string     `json:"company_name,omitempty"`
	RoomId          string     `json:"room_id,omitempty"`
	AddressId       string     `json:"address_id,omitempty"`
	Address         *Address   `json:"address,omitempty"`
	RequestedBy     string     `json:"requested_by"`
	Justification   string     `json:"justification,omitempty"`
	MacAddress      string     `json:"mac_address,omitempty"`
	HolderName      string     `json:"holder_name,omitempty"`
	Temporary       bool       `json:"temporary"`
	RequestedExpiry *time.Time `json:"requested_expiry,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	ApprovedBy      string     `json:"approved_by,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	RespondedAt     *time.Time `json:"responded_at,omitempty"`
}

// HistoryEntry is one audit trail record.
type HistoryEntry struct {
	Id          string     `json:"id"`
	AddressId   string     `json:"address_id"`
	CompanyId   string     `json:"company_id,omitempty"`
	Action      string     `json:"action"`
	PerformedBy string     `json:"performed_by"`
	MacAddress  string     `json:"mac_address,omitempty"`
	HolderName  string     `json:"holder_name,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type CreateRequestRequest struct {
	Type            string     `json:"type"`
	AddressId       string     `json:"address_id,omitempty"`
	Justification   string     `json:"justification,omitempty"`
	MacAddress      string     `json:"mac_address,omitempty"`
	HolderName      string     `json:"holder_name,omitempty"`
	Temporary       bool       `json:"temporary,omitempty"`
	RequestedExpiry *time.Time `json:"requested_expiry,omitempty"`
}

type ApproveRequestRequest struct {
	RequestId string `json:"request_id"`
}

type RejectRequestRequest struct {
	RequestId string `json:"request_id"`
	Reason    string `json:"reason"`
}

type CancelRequestRequest struct {
	RequestId string `json:"request_id"`
}

type GetRequestRequest struct {
	RequestId string `json:"request_id"`
}

// RequestResponse is returned by every single-request RPC.
type RequestResponse struct {
	Request *IPRequest `json:"request"`
}

type ListRequestsRequest struct {
	CompanyId string `json:"company_id,omitempty"`
	Status    string `json:"status,omitempty"`
	Type      string `json:"type,omitempty"`
	PageSize  int32  `json:"page_size,omitempty"`
	Offset    int32  `json:"offset,omitempty"`
}

type ListRequestsResponse struct {
	Requests []*IPRequest `json:"requests"`
}

type ListHistoryRequest struct {
	CompanyId string     `json:"company_id,omitempty"`
	AddressId string     `json:"address_id,omitempty"`
	Action    string     `json:"action,omitempty"`
	From      *time.Time `json:"from,omitempty"`
	To        *time.Time `json:"to,omitempty"`
	PageSize  int32      `json:"page_size,omitempty"`
	Offset    int32      `json:"offset,omitempty"`
}

type ListAddressHistoryRequest struct {
	AddressId string `json:"address_id"`
}

type ListHistoryResponse struct {
	Entries []*HistoryEntry `json:"entries"`
}

// ServingStatus mirrors grpc.health.v1 serving states.
type ServingStatus string

const (
	ServingStatusServing    ServingStatus = "SERVING"
	ServingStatusNotServing ServingStatus = "NOT_SERVING"
)

type HealthCheckRequest struct{}

type HealthCheckResponse struct {
	Status ServingStatus `json:"status"`
	// Failures names the dependencies that failed the check.
	Failures []string `json:"failures,omitempty"`
}

func (r *CreateRequestRequest) GetType() string {
	if r == nil {
		return ""
	}
	return r.Type
}

func (r *ApproveRequestRequest) GetRequestId() string {
	if r == nil {
		return ""
	}
	return r.RequestId
}

func (r *RejectRequestRequest) GetRequestId() string {
	if r == nil {
		return ""
	}
	return r.RequestId
}

func (r *CancelRequestRequest) GetRequestId() string {
	if r == nil {
		return ""
	}
	return r.RequestId
}

func (r *GetRequestRequest) GetRequestId() string {
	if r == nil {
		return ""
	}
	return r.RequestId
}

func (r *ListAddressHistoryRequest) GetAddressId() string {
	if r == nil {
		return ""
	}
	return r.AddressId
}

func (r *HealthCheckResponse) GetStatus() ServingStatus {
	if r == nil {
		return ""
	}
	return r.Status
}
