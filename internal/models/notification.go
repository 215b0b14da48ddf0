package models

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	NotifyInfo    = "info"
	NotifyWarning = "warning"
	NotifySuccess = "success"
	NotifyError   = "error"
)

type Notification struct {
	Base    `bson:",inline"`
	UserID  primitive.ObjectID `bson:"userId" json:"userId"`
	Type    string             `bson:"type" json:"type"`
	Title   string             `bson:"title" json:"title"`
	Message string             `bson:"message" json:"message"`
	Read    bool               `bson:"read" json:"read"`
}

type NotificationRequest struct {
	Type    string `json:"type" binding:"omitempty,oneof=info warning success error"`
	Title   string `json:"title" binding:"required"`
	Message string `json:"message" binding:"required"`
}

func (r NotificationRequest) Model(userID primitive.ObjectID) Notification {
	kind := r.Type
	if kind == "" {
		kind = NotifyInfo
	}

	return Notification{
		UserID:  userID,
		Type:    kind,
		Title:   r.Title,
		Message: r.Message,
	}
}
