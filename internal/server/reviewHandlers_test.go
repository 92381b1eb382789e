package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ananyev/craftmarket/internal/lib/jwt"
	"github.com/ananyev/craftmarket/internal/model"
	"github.com/ananyev/craftmarket/internal/services/review"
)

type fakeReviewSvc struct {
	submitResp *model.SubmitReviewResponse
	submitErr  error

	listResp *model.VendorReviewsResponse
	listErr  error
}

func (f *fakeReviewSvc) Submit(ctx context.Context, authorID string, dto model.SubmitReviewDTO) (*model.SubmitReviewResponse, error) {
	return f.submitResp, f.submitErr
}

func (f *fakeReviewSvc) ListForVendor(ctx context.Context, vendorID string) (*model.VendorReviewsResponse, error) {
	return f.listResp, f.listErr
}

func submitRequest(t *testing.T, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/reviews", bytes.NewReader([]byte(body)))
	ctx := context.WithValue(req.Context(), jwt.CtxKeyClaims, model.UserClaim{ID: "a1", Role: model.Customer})
	return req.WithContext(ctx)
}

const validSubmitBody = `{"vendorId":"v1","rating":4,"comment":"Arrived on time and exactly as described."}`

func TestSubmitReviewHandlerSuccess(t *testing.T) {
	rec := &model.Review{ID: "r1", VendorID: "v1", Rating: 4}
	s := &Server{review: &fakeReviewSvc{submitResp: &model.SubmitReviewResponse{Review: rec, Published: true}}}

	w := httptest.NewRecorder()
	s.submitReviewHandler(w, submitRequest(t, validSubmitBody))

	if w.Code != http.StatusCreated {
		t.Fatalf("want 201, got %d, body=%s", w.Code, w.Body.String())
	}

	var res model.SubmitReviewResponse
	if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if !res.Published || res.Review.ID != "r1" {
		t.Fatalf("unexpected response: %+v", res)
	}
}

func TestSubmitReviewHandlerValidation(t *testing.T) {
	s := &Server{review: &fakeReviewSvc{}}

	w := httptest.NewRecorder()
	s.submitReviewHandler(w, submitRequest(t, `{"vendorId":"v1","rating":9}`))

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("want 422, got %d", w.Code)
	}
}

func TestSubmitReviewHandlerErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"rate limited", review.ErrRateLimited, http.StatusTooManyRequests, "RATE_LIMITED"},
		{"duplicate", review.ErrDuplicateReview, http.StatusBadRequest, ErrDuplicateReview},
		{"self review", review.ErrSelfReview, http.StatusBadRequest, ErrSelfReview},
		{"unknown vendor", review.ErrVendorNotFound, http.StatusBadRequest, ErrVendorNotFound},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := &Server{review: &fakeReviewSvc{submitErr: c.err}}

			w := httptest.NewRecorder()
			s.submitReviewHandler(w, submitRequest(t, validSubmitBody))

			if w.Code != c.wantStatus {
				t.Fatalf("want %d, got %d", c.wantStatus, w.Code)
			}

			var body struct {
				Code string `json:"code"`
			}
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body.Code != c.wantCode {
				t.Fatalf("want code %s, got %s", c.wantCode, body.Code)
			}
		})
	}
}

func TestSubmitReviewHandlerNoClaims(t *testing.T) {
	s := &Server{review: &fakeReviewSvc{}}

	req := httptest.NewRequest("POST", "/api/v1/reviews", bytes.NewReader([]byte(validSubmitBody)))
	w := httptest.NewRecorder()
	s.submitReviewHandler(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", w.Code)
	}
}
