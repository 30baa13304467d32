package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/joestump/joe-stock/internal/tags"
)

func TestWriteTagError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"not found", &tags.NotFoundError{Entity: "tag", ID: "t1"}, http.StatusNotFound, "NOT_FOUND", `tag "t1" not found`},
		{"invalid name", fmt.Errorf("%w: name is required", tags.ErrInvalidName), http.StatusBadRequest, "BAD_REQUEST", "invalid tag name: name is required"},
		{"in use", fmt.Errorf("%w: 2 linked item(s)", tags.ErrTagInUse), http.StatusBadRequest, "TAG_IN_USE", tags.ErrTagInUse.Error()},
		{"not linked", tags.ErrNotLinked, http.StatusConflict, "NOT_LINKED", tags.ErrNotLinked.Error()},
		{
			"persistence",
			&tags.PersistenceError{Op: "CreateTag", Err: errors.New(`pq: relation "tags" does not exist`)},
			http.StatusInternalServerError, "INTERNAL_ERROR", "failed to create tag",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeTagError(rec, tc.err, "failed to create tag")

			if rec.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			if strings.Contains(rec.Body.String(), "pq:") {
				t.Errorf("body leaks storage detail: %s", rec.Body.String())
			}
			var body ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Code != tc.wantCode {
				t.Errorf("code = %q, want %q", body.Code, tc.wantCode)
			}
			if body.Error != tc.wantMsg {
				t.Errorf("error = %q, want %q", body.Error, tc.wantMsg)
			}
		})
	}
}
