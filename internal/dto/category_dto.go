package dto

type CategoryRequest struct {
	Name string `json:"name" validate:"required,min=1"`
}

type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
