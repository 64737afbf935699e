package entity

import "time"

// MaintenanceRequest is a reported machine problem. It closes either when a
// technician's record resolves it (completed) or when it is declined.
type MaintenanceRequest struct {
	ID          string     `json:"id" gorm:"primaryKey;size:32"`
	MachineID   string     `json:"machine_id" gorm:"size:32;not null;index"`
	Description string     `json:"description" gorm:"size:500;not null"`
	Status      string     `json:"status" gorm:"size:20;default:open;index"`
	OpenedBy    string     `json:"opened_by" gorm:"size:32;not null"`
	OpenedAt    time.Time  `json:"opened_at"`
	ClosedAt    *time.Time `json:"closed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Machine     *Machine                `json:"machine,omitempty" gorm:"foreignKey:MachineID"`
	Records     []MaintenanceRecord     `json:"records,omitempty" gorm:"foreignKey:RequestID"`
	Attachments []MaintenanceAttachment `json:"attachments,omitempty" gorm:"foreignKey:RequestID"`
}

func (MaintenanceRequest) TableName() string {
	return "maintenance_requests"
}

const (
	RequestStatusOpen      = "open"
	RequestStatusWaiting   = "waiting"
	RequestStatusResolved  = "resolved"
	RequestStatusCompleted = "completed"
	RequestStatusDeclined  = "declined"
)

// MaintenanceRecord is a technician's intervention on a request. Resolving a
// record completes the request.
type MaintenanceRecord struct {
	ID          string     `json:"id" gorm:"primaryKey;size:32"`
	RequestID   string     `json:"request_id" gorm:"size:32;not null;index"`
	Technician  string     `json:"technician" gorm:"size:32;not null"`
	Status      string     `json:"status" gorm:"size:20;default:in_progress"`
	Notes       string     `json:"notes" gorm:"size:1000"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (MaintenanceRecord) TableName() string {
	return "maintenance_records"
}

const (
	RecordStatusInProgress = "in_progress"
	RecordStatusResolved   = "resolved"
)

// MaintenanceAttachment references a file stored in object storage (photos
// of the fault, reports).
type MaintenanceAttachment struct {
	ID         string    `json:"id" gorm:"primaryKey;size:32"`
	RequestID  string    `json:"request_id" gorm:"size:32;not null;index"`
	FileName   string    `json:"file_name" gorm:"size:255;not null"`
	FilePath   string    `json:"file_path" gorm:"size:500;not null"`
	FileSize   int64     `json:"file_size"`
	MimeType   string    `json:"mime_type" gorm:"size:100"`
	UploadedBy string    `json:"uploaded_by" gorm:"size:32;not null"`
	CreatedAt  time.Time `json:"created_at"`
}

func (MaintenanceAttachment) TableName() string {
	return "maintenance_attachments"
}
