package repository

import (
	"errors"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

type Repositories struct {
	Machine    *MachineRepository
	Request    *RequestRepository
	Record     *RecordRepository
	Attachment *AttachmentRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Machine:    NewMachineRepository(db),
		Request:    NewRequestRepository(db),
		Record:     NewRecordRepository(db),
		Attachment: NewAttachmentRepository(db),
	}
}
