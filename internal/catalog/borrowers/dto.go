package borrowers

// UserRequest is the body of PUT /user and PATCH /user.
type UserRequest struct {
	Key       int64   `json:"key"`
	Firstname string  `json:"firstname" binding:"required"`
	Lastname  string  `json:"lastname" binding:"required"`
	Classname *string `json:"classname,omitempty"`
}

type UserResponse struct {
	Key       int64   `json:"key"`
	Firstname string  `json:"firstname"`
	Lastname  string  `json:"lastname"`
	Classname *string `json:"classname"`
}

// UserWithBookCount is one row of GET /users.
type UserWithBookCount struct {
	UserResponse
	BorrowedBooks int64 `json:"borrowed_books"`
}

type StatusResponse struct {
	Status Status `json:"status"`
}

type Status string

const (
	StatusCreated        Status = "user created"
	StatusNotCreated     Status = "user not created"
	StatusUpdated        Status = "user updated"
	StatusNotUpdated     Status = "user not updated"
	StatusDeleted        Status = "user deleted"
	StatusStillBorrowing Status = "user is still borrowing books"
	StatusNotDeleted     Status = "user not deleted"
)

func ToResponse(b Borrower) UserResponse {
	return UserResponse{
		Key:       b.Key,
		Firstname: b.Firstname,
		Lastname:  b.Lastname,
		Classname: nullToPtr(b.Classname),
	}
}

func (r UserRequest) toModel() Borrower {
	return Borrower{
		Key:       r.Key,
		Firstname: r.Firstname,
		Lastname:  r.Lastname,
		Classname: toNullString(r.Classname),
	}
}
