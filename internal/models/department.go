package models

type Department struct {
	Base        `bson:",inline"`
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	Head        string `bson:"head,omitempty" json:"head,omitempty"`
	Location    string `bson:"location,omitempty" json:"location,omitempty"`
}

type DepartmentRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Head        string `json:"head"`
	Location    string `json:"location"`
}

func (r DepartmentRequest) Model() Department {
	return Department{
		Name:        r.Name,
		Description: r.Description,
		Head:        r.Head,
		Location:    r.Location,
	}
}
