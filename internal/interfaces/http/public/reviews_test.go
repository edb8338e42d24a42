package public

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	locapp "github.com/loc8r/loc8r-services/api/internal/locations/application"
	"github.com/loc8r/loc8r-services/api/internal/locations/domain"
)

// fakeReviewService records the last input and replays canned results.
type fakeReviewService struct {
	lastInput  locapp.ReviewInput
	review     *domain.Review
	read       *locapp.ReviewWithLocation
	fieldErrs  domain.FieldErrors
	err        error
	deleteErr  error
	deleteDone bool
}

func (f *fakeReviewService) Create(ctx context.Context, locationID string, input locapp.ReviewInput) (*domain.Review, domain.FieldErrors, error) {
	f.lastInput = input
	return f.review, f.fieldErrs, f.err
}

func (f *fakeReviewService) Get(ctx context.Context, locationID, reviewID string) (*locapp.ReviewWithLocation, error) {
	return f.read, f.err
}

func (f *fakeReviewService) Update(ctx context.Context, locationID, reviewID string, input locapp.ReviewInput) (*domain.Review, domain.FieldErrors, error) {
	f.lastInput = input
	return f.review, f.fieldErrs, f.err
}

func (f *fakeReviewService) Delete(ctx context.Context, locationID, reviewID string) error {
	f.deleteDone = true
	return f.deleteErr
}

type fakeLocationQueries struct {
	results []locapp.LocationDistance
	detail  *domain.Location
	err     error
}

func (f *fakeLocationQueries) Near(ctx context.Context, query locapp.NearQuery) ([]locapp.LocationDistance, error) {
	return f.results, f.err
}

func (f *fakeLocationQueries) Detail(ctx context.Context, id string) (*domain.Location, error) {
	return f.detail, f.err
}

func noAuth(next http.Handler) http.Handler {
	return next
}

func newTestRouter(t *testing.T, reviews locapp.ReviewService, queries locapp.LocationQueryService) *chi.Mux {
	t.Helper()
	handler := NewHandler(Config{
		Logger:          log.New(os.Stdout, "[test] ", log.LstdFlags),
		LocationQueries: queries,
		Reviews:         reviews,
	})
	router := chi.NewRouter()
	handler.Register(router, noAuth)
	return router
}

func TestReviewCreateHandler_Created(t *testing.T) {
	review := &domain.Review{
		ID:         "abc123",
		Author:     "A",
		Rating:     5,
		ReviewText: "Great",
		CreatedOn:  time.Date(2025, 7, 16, 12, 0, 0, 0, time.UTC),
	}
	svc := &fakeReviewService{review: review}
	router := newTestRouter(t, svc, &fakeLocationQueries{})

	body := bytes.NewBufferString(`{"author":"A","rating":5,"reviewText":"Great"}`)
	req := httptest.NewRequest(http.MethodPost, "/locations/loc-1/reviews", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "abc123", got["id"])
	assert.Equal(t, float64(5), got["rating"])
	// JSON number arrives at the validator as its text form.
	require.NotNil(t, svc.lastInput.Rating)
	assert.Equal(t, "5", *svc.lastInput.Rating)
}

func TestReviewCreateHandler_RatingAsString(t *testing.T) {
	svc := &fakeReviewService{review: &domain.Review{ID: "r", Rating: 4}}
	router := newTestRouter(t, svc, &fakeLocationQueries{})

	body := bytes.NewBufferString(`{"author":"A","rating":"4","reviewText":"Great"}`)
	req := httptest.NewRequest(http.MethodPost, "/locations/loc-1/reviews", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, svc.lastInput.Rating)
	assert.Equal(t, "4", *svc.lastInput.Rating)
}

func TestReviewCreateHandler_ValidationFailure(t *testing.T) {
	svc := &fakeReviewService{fieldErrs: domain.FieldErrors{"author": "author is required"}}
	router := newTestRouter(t, svc, &fakeLocationQueries{})

	body := bytes.NewBufferString(`{"author":"   ","rating":5,"reviewText":"Great"}`)
	req := httptest.NewRequest(http.MethodPost, "/locations/loc-1/reviews", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var got struct {
		Message string            `json:"message"`
		Errors  map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "validation failed", got.Message)
	assert.Contains(t, got.Errors, "author")
}

func TestReviewCreateHandler_LocationMissing(t *testing.T) {
	svc := &fakeReviewService{err: locapp.ErrLocationNotFound}
	router := newTestRouter(t, svc, &fakeLocationQueries{})

	body := bytes.NewBufferString(`{"author":"A","rating":5,"reviewText":"Great"}`)
	req := httptest.NewRequest(http.MethodPost, "/locations/missing/reviews", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "location not found")
}

func TestReviewDetailHandler_OK(t *testing.T) {
	svc := &fakeReviewService{read: &locapp.ReviewWithLocation{
		LocationID:   "loc-1",
		LocationName: "Starcups",
		Review:       domain.Review{ID: "r-1", Author: "A", Rating: 4, ReviewText: "nice"},
	}}
	router := newTestRouter(t, svc, &fakeLocationQueries{})

	req := httptest.NewRequest(http.MethodGet, "/locations/loc-1/reviews/r-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Location struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"location"`
		Review struct {
			ID string `json:"id"`
		} `json:"review"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Starcups", got.Location.Name)
	assert.Equal(t, "r-1", got.Review.ID)
}

func TestReviewUpdateHandler_PartialRatingOnly(t *testing.T) {
	svc := &fakeReviewService{review: &domain.Review{ID: "r-1", Author: "A", Rating: 4, ReviewText: "meh"}}
	router := newTestRouter(t, svc, &fakeLocationQueries{})

	body := bytes.NewBufferString(`{"rating":4}`)
	req := httptest.NewRequest(http.MethodPut, "/locations/loc-1/reviews/r-1", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, svc.lastInput.Author)
	assert.Nil(t, svc.lastInput.ReviewText)
	require.NotNil(t, svc.lastInput.Rating)
	assert.Equal(t, "4", *svc.lastInput.Rating)
}

func TestReviewUpdateHandler_EmptyRatingMeansUnchanged(t *testing.T) {
	svc := &fakeReviewService{review: &domain.Review{ID: "r-1", Rating: 3}}
	router := newTestRouter(t, svc, &fakeLocationQueries{})

	body := bytes.NewBufferString(`{"rating":""}`)
	req := httptest.NewRequest(http.MethodPut, "/locations/loc-1/reviews/r-1", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, svc.lastInput.Rating)
}

func TestReviewDeleteHandler(t *testing.T) {
	svc := &fakeReviewService{}
	router := newTestRouter(t, svc, &fakeLocationQueries{})

	req := httptest.NewRequest(http.MethodDelete, "/locations/loc-1/reviews/r-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.True(t, svc.deleteDone)
}

func TestReviewDeleteHandler_AbsentReview(t *testing.T) {
	svc := &fakeReviewService{deleteErr: locapp.ErrReviewNotFound}
	router := newTestRouter(t, svc, &fakeLocationQueries{})

	req := httptest.NewRequest(http.MethodDelete, "/locations/loc-1/reviews/r-9", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "review not found")
}
