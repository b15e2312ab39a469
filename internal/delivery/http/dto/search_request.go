package dto

type SearchRequest struct {
	Profession     string   `json:"profession" validate:"required"`
	Specialization string   `json:"specialization" validate:"required"`
	Location       string   `json:"location" validate:"required"`
	Companies      []string `json:"companies" validate:"omitempty,max=3,unique,dive,required"`
}
