package models

type Doctor struct {
	Base           `bson:",inline"`
	Name           string `bson:"name" json:"name"`
	Email          string `bson:"email,omitempty" json:"email,omitempty"`
	Phone          string `bson:"phone" json:"phone"`
	Specialization string `bson:"specialization" json:"specialization"`
	Department     string `bson:"department,omitempty" json:"department,omitempty"`
	Qualification  string `bson:"qualification,omitempty" json:"qualification,omitempty"`
	ExperienceYrs  int    `bson:"experienceYears,omitempty" json:"experienceYears,omitempty"`
	Schedule       string `bson:"schedule,omitempty" json:"schedule,omitempty"`
}

type DoctorRequest struct {
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email" binding:"omitempty,email"`
	Phone          string `json:"phone" binding:"required"`
	Specialization string `json:"specialization" binding:"required"`
	Department     string `json:"department"`
	Qualification  string `json:"qualification"`
	ExperienceYrs  int    `json:"experienceYears" binding:"omitempty,min=0"`
	Schedule       string `json:"schedule"`
}

func (r DoctorRequest) Model() Doctor {
	return Doctor{
		Name:           r.Name,
		Email:          r.Email,
		Phone:          r.Phone,
		Specialization: r.Specialization,
		Department:     r.Department,
		Qualification:  r.Qualification,
		ExperienceYrs:  r.ExperienceYrs,
		Schedule:       r.Schedule,
	}
}
