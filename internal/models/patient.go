package models

import "time"

type Patient struct {
	Base      `bson:",inline"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email,omitempty" json:"email,omitempty"`
	Phone     string    `bson:"phone" json:"phone"`
	Gender    string    `bson:"gender,omitempty" json:"gender,omitempty"`
	BirthDate time.Time `bson:"birthDate,omitempty" json:"birthDate,omitempty"`
	Address   string    `bson:"address,omitempty" json:"address,omitempty"`
	BloodType string    `bson:"bloodType,omitempty" json:"bloodType,omitempty"`
	Allergies []string  `bson:"allergies,omitempty" json:"allergies,omitempty"`
	Notes     string    `bson:"notes,omitempty" json:"notes,omitempty"`
}

type PatientRequest struct {
	Name      string    `json:"name" binding:"required"`
	Email     string    `json:"email" binding:"omitempty,email"`
	Phone     string    `json:"phone" binding:"required"`
	Gender    string    `json:"gender" binding:"omitempty,oneof=male female other"`
	BirthDate time.Time `json:"birthDate"`
	Address   string    `json:"address"`
	BloodType string    `json:"bloodType"`
	Allergies []string  `json:"allergies"`
	Notes     string    `json:"notes"`
}

func (r PatientRequest) Model() Patient {
	return Patient{
		Name:      r.Name,
		Email:     r.Email,
		Phone:     r.Phone,
		Gender:    r.Gender,
		BirthDate: r.BirthDate,
		Address:   r.Address,
		BloodType: r.BloodType,
		Allergies: r.Allergies,
		Notes:     r.Notes,
	}
}
