package books

// ===== Requests =====

// BookRequest is used for PUT /book and PATCH /book. Key is ignored on create.
type BookRequest struct {
	Key       int64   `json:"key"`
	Title     string  `json:"title" binding:"required"`
	Author    string  `json:"author" binding:"required"`
	Publisher string  `json:"publisher" binding:"required"`
	Number    int64   `json:"number" binding:"required"`
	Shorthand string  `json:"shorthand" binding:"required"`
	Category  string  `json:"category" binding:"required"`
	ISBN      *string `json:"isbn,omitempty"`
}

// ===== Responses =====

type BookResponse struct {
	Key       int64   `json:"key"`
	Title     string  `json:"title"`
	Author    string  `json:"author"`
	Publisher string  `json:"publisher"`
	Number    int64   `json:"number"`
	Shorthand string  `json:"shorthand"`
	Category  string  `json:"category"`
	ISBN      *string `json:"isbn"`
}

type StatusResponse struct {
	Status Status `json:"status"`
}

type Status string

const (
	StatusCreated       Status = "book created"
	StatusNotCreated    Status = "book not created"
	StatusUpdated       Status = "book updated"
	StatusNotUpdated    Status = "book not updated"
	StatusDeleted       Status = "book deleted"
	StatusStillBorrowed Status = "book still borrowed"
	StatusNotDeleted    Status = "book not deleted"
)

func ToResponse(b Book) BookResponse {
	return BookResponse{
		Key:       b.Key,
		Title:     b.Title,
		Author:    b.Author,
		Publisher: b.Publisher,
		Number:    b.Number,
		Shorthand: b.Shorthand,
		Category:  b.Category,
		ISBN:      nullToPtr(b.ISBN),
	}
}

func ToResponses(in []Book) []BookResponse {
	out := make([]BookResponse, 0, len(in))
	for _, b := range in {
		out = append(out, ToResponse(b))
	}
	return out
}

func (r BookRequest) toModel() Book {
	return Book{
		Key:       r.Key,
		Title:     r.Title,
		Author:    r.Author,
		Publisher: r.Publisher,
		Number:    r.Number,
		Shorthand: r.Shorthand,
		Category:  r.Category,
		ISBN:      toNullString(r.ISBN),
	}
}
