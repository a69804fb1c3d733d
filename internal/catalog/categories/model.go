package categories

type Category struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

const (
	StatusCreated    = "category created"
	StatusNotCreated = "category not created"
)
