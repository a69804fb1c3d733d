package ledger

import "bibler-backend/internal/platform/clock"

type LoanResponse struct {
	Key            int64   `json:"key"`
	LoanULID       string  `json:"loan_ulid"`
	BookKey        int64   `json:"book_key"`
	UserKey        int64   `json:"user_key"`
	StartDate      string  `json:"start_date"`
	ExpirationDate string  `json:"expiration_date"`
	ReturnDate     *string `json:"return_date"`
}

type ListLoansResult struct {
	Items      []LoanResponse `json:"items"`
	Total      int64          `json:"total"`
	NextOffset int            `json:"next_offset"`
}

func toResponse(l Loan) LoanResponse {
	r := LoanResponse{
		Key:            l.Key,
		LoanULID:       l.ULID,
		BookKey:        l.BookKey,
		UserKey:        l.BorrowerKey,
		StartDate:      clock.FormatDate(l.Start),
		ExpirationDate: clock.FormatDate(l.Expiration),
	}
	if l.Return != nil {
		v := clock.FormatDate(*l.Return)
		r.ReturnDate = &v
	}
	return r
}
