package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MedicalRecord struct {
	Base        `bson:",inline"`
	PatientID   primitive.ObjectID `bson:"patientId" json:"patientId"`
	DoctorID    primitive.ObjectID `bson:"doctorId" json:"doctorId"`
	Diagnosis   string             `bson:"diagnosis" json:"diagnosis"`
	Treatment   string             `bson:"treatment,omitempty" json:"treatment,omitempty"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	FollowUp    *time.Time         `bson:"followUp,omitempty" json:"followUp,omitempty"`
	Attachments []string           `bson:"attachments,omitempty" json:"attachments,omitempty"`

	Patient *Patient `bson:"patient,omitempty" json:"patient,omitempty"`
	Doctor  *Doctor  `bson:"doctor,omitempty" json:"doctor,omitempty"`
}

type MedicalRecordRequest struct {
	PatientID   primitive.ObjectID `json:"patientId" binding:"required"`
	DoctorID    primitive.ObjectID `json:"doctorId" binding:"required"`
	Diagnosis   string             `json:"diagnosis" binding:"required"`
	Treatment   string             `json:"treatment"`
	Notes       string             `json:"notes"`
	FollowUp    *time.Time         `json:"followUp"`
	Attachments []string           `json:"attachments" binding:"omitempty,dive,uri"`
}

func (r MedicalRecordRequest) Model() MedicalRecord {
	return MedicalRecord{
		PatientID:   r.PatientID,
		DoctorID:    r.DoctorID,
		Diagnosis:   r.Diagnosis,
		Treatment:   r.Treatment,
		Notes:       r.Notes,
		FollowUp:    r.FollowUp,
		Attachments: r.Attachments,
	}
}
