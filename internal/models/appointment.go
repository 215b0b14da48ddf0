package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	AppointmentPending   = "pending"
	AppointmentConfirmed = "confirmed"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Appointment references a patient and a doctor by id. The Patient and Doctor
// fields are filled by the read-side populate step only and are never stored;
// a dangling reference populates to null.
type Appointment struct {
	Base      `bson:",inline"`
	PatientID primitive.ObjectID `bson:"patientId" json:"patientId"`
	DoctorID  primitive.ObjectID `bson:"doctorId" json:"doctorId"`
	Date      time.Time          `bson:"date" json:"date"`
	Reason    string             `bson:"reason,omitempty" json:"reason,omitempty"`
	Status    string             `bson:"status" json:"status"`
	Priority  string             `bson:"priority" json:"priority"`
	Notes     string             `bson:"notes,omitempty" json:"notes,omitempty"`

	Patient *Patient `bson:"patient,omitempty" json:"patient,omitempty"`
	Doctor  *Doctor  `bson:"doctor,omitempty" json:"doctor,omitempty"`
}

type AppointmentRequest struct {
	PatientID primitive.ObjectID `json:"patientId" binding:"required"`
	DoctorID  primitive.ObjectID `json:"doctorId" binding:"required"`
	Date      time.Time          `json:"date" binding:"required"`
	Reason    string             `json:"reason"`
	Status    string             `json:"status" binding:"omitempty,oneof=pending confirmed completed cancelled"`
	Priority  string             `json:"priority" binding:"omitempty,oneof=low medium high"`
	Notes     string             `json:"notes"`
}

func (r AppointmentRequest) Model() Appointment {
	status := r.Status
	if status == "" {
		status = AppointmentPending
	}

	priority := r.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	return Appointment{
		PatientID: r.PatientID,
		DoctorID:  r.DoctorID,
		Date:      r.Date,
		Reason:    r.Reason,
		Status:    status,
		Priority:  priority,
		Notes:     r.Notes,
	}
}
