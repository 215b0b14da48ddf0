package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	BillPending = "pending"
	BillPaid    = "paid"
	BillOverdue = "overdue"
)

type Bill struct {
	Base        `bson:",inline"`
	PatientID   primitive.ObjectID `bson:"patientId" json:"patientId"`
	Amount      float64            `bson:"amount" json:"amount"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Status      string             `bson:"status" json:"status"`
	DueDate     time.Time          `bson:"dueDate" json:"dueDate"`

	Patient *Patient `bson:"patient,omitempty" json:"patient,omitempty"`
}

type BillRequest struct {
	PatientID   primitive.ObjectID `json:"patientId" binding:"required"`
	Amount      float64            `json:"amount" binding:"required,gt=0"`
	Description string             `json:"description"`
	Status      string             `json:"status" binding:"omitempty,oneof=pending paid overdue"`
	DueDate     time.Time          `json:"dueDate" binding:"required"`
}

func (r BillRequest) Model() Bill {
	status := r.Status
	if status == "" {
		status = BillPending
	}

	return Bill{
		PatientID:   r.PatientID,
		Amount:      r.Amount,
		Description: r.Description,
		Status:      status,
		DueDate:     r.DueDate,
	}
}
