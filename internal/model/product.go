package model

type Product struct {
	ID          string   `json:"_id" validate:"required"`
	Name        string   `json:"name"`
	Code        string   `json:"code"`
	Description string   `json:"description"`
	Size        string   `json:"size"`
	Color       string   `json:"color"`
	Price       Money    `json:"price"`
	Images      []string `json:"images"`
	Category    string   `json:"category"`
}
