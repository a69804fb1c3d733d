package books

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLoans struct{ n int64 }

func (f fakeLoans) CountForBook(context.Context, int64) (int64, error) { return f.n, nil }

type fakeBorrowed struct{ got int64 }

func (f *fakeBorrowed) BooksForBorrower(_ context.Context, key int64) ([]Book, error) {
	f.got = key
	return []Book{{Key: 7, Title: "Lirael"}}, nil
}

func newTestRouter(t *testing.T, loans fakeLoans, borrowed *fakeBorrowed) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	_, conn := newTestStore(t)
	r := gin.New()
	RegisterRoutes(r, NewService(conn, loans, borrowed))
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

const sabrielJSON = `{"key":-1,"title":"Sabriel","author":"Garth Nix","publisher":"Carlsen","number":1,"shorthand":"Car","category":"Fantasy","isbn":"3-551-58128-2"}`

func TestHandler_CreateListDelete(t *testing.T) {
	r := newTestRouter(t, fakeLoans{}, &fakeBorrowed{})

	w := do(r, http.MethodPut, "/book", sabrielJSON)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.JSONEq(t, `{"status":"book created"}`, w.Body.String())
	loc := w.Header().Get("Location")

	w = do(r, http.MethodPut, "/book", sabrielJSON)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"status":"book not created"}`, w.Body.String())

	w = do(r, http.MethodGet, "/books", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []BookResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "/book/"+itoa(list[0].Key), loc)

	w = do(r, http.MethodDelete, loc, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"book deleted"}`, w.Body.String())

	w = do(r, http.MethodDelete, loc, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"status":"book not deleted"}`, w.Body.String())
}

func TestHandler_DeleteRefusedWithLoanHistory(t *testing.T) {
	r := newTestRouter(t, fakeLoans{n: 1}, &fakeBorrowed{})

	w := do(r, http.MethodDelete, "/book/1", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"status":"book still borrowed"}`, w.Body.String())
}

func TestHandler_ListByBorrowerDelegates(t *testing.T) {
	fb := &fakeBorrowed{}
	r := newTestRouter(t, fakeLoans{}, fb)

	w := do(r, http.MethodGet, "/books?user_key=4", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(4), fb.got)
	assert.Contains(t, w.Body.String(), "Lirael")

	w = do(r, http.MethodGet, "/books?user_key=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_UpdateUnknownAndInvalid(t *testing.T) {
	r := newTestRouter(t, fakeLoans{}, &fakeBorrowed{})

	w := do(r, http.MethodPatch, "/book", strings.Replace(sabrielJSON, `"key":-1`, `"key":42`, 1))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"status":"book not updated"}`, w.Body.String())

	w = do(r, http.MethodPut, "/book", `{"title":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_ARGUMENT")

	w = do(r, http.MethodGet, "/book/42", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func itoa(k int64) string {
	b, _ := json.Marshal(k)
	return string(b)
}
