package public

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/loc8r/loc8r-services/api/internal/interfaces/http/common"
	locapp "github.com/loc8r/loc8r-services/api/internal/locations/application"
)

func (h *Handler) decodeReviewRequest(w http.ResponseWriter, r *http.Request) (reviewRequest, bool) {
	defer r.Body.Close()
	var req reviewRequest
	decoder := json.NewDecoder(io.LimitReader(r.Body, common.MaxRequestBody))
	if err := decoder.Decode(&req); err != nil {
		common.WriteMessage(h.logger, w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return reviewRequest{}, false
	}
	return req, true
}

// toReviewInput はリクエストボディをユースケース入力へ詰め替える。
// 部分更新では空の rating を「未指定」として扱う（既存値を維持）。
func toReviewInput(req reviewRequest, partial bool) locapp.ReviewInput {
	input := locapp.ReviewInput{
		Author:     req.Author,
		ReviewText: req.ReviewText,
	}
	if req.Rating != nil {
		raw := string(*req.Rating)
		if partial && strings.TrimSpace(raw) == "" {
			return input
		}
		input.Rating = &raw
	}
	return input
}

// writeReviewError は NotFound 系エラーをリソース別メッセージへ変換する。
func (h *Handler) writeReviewError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, locapp.ErrLocationNotFound):
		common.WriteMessage(h.logger, w, http.StatusNotFound, "location not found")
	case errors.Is(err, locapp.ErrReviewNotFound):
		common.WriteMessage(h.logger, w, http.StatusNotFound, "review not found")
	default:
		h.logger.Printf("レビュー%sに失敗: %v", operation, err)
		common.WriteMessage(h.logger, w, http.StatusInternalServerError, "review "+operation+" failed")
	}
}

func (h *Handler) reviewCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		req, ok := h.decodeReviewRequest(w, r)
		if !ok {
			return
		}

		locationID := strings.TrimSpace(chi.URLParam(r, "locationid"))
		review, fieldErrs, err := h.reviews.Create(ctx, locationID, toReviewInput(req, false))
		if err != nil {
			h.writeReviewError(w, err, "create")
			return
		}
		if len(fieldErrs) > 0 {
			common.WriteValidationErrors(h.logger, w, fieldErrs)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusCreated, buildReviewResponse(*review))
	}
}

func (h *Handler) reviewDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		locationID := strings.TrimSpace(chi.URLParam(r, "locationid"))
		reviewID := strings.TrimSpace(chi.URLParam(r, "reviewid"))

		result, err := h.reviews.Get(ctx, locationID, reviewID)
		if err != nil {
			h.writeReviewError(w, err, "fetch")
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, reviewReadResponse{
			Location: locationSummaryPayload{ID: result.LocationID, Name: result.LocationName},
			Review:   buildReviewResponse(result.Review),
		})
	}
}

func (h *Handler) reviewUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		req, ok := h.decodeReviewRequest(w, r)
		if !ok {
			return
		}

		locationID := strings.TrimSpace(chi.URLParam(r, "locationid"))
		reviewID := strings.TrimSpace(chi.URLParam(r, "reviewid"))

		review, fieldErrs, err := h.reviews.Update(ctx, locationID, reviewID, toReviewInput(req, true))
		if err != nil {
			h.writeReviewError(w, err, "update")
			return
		}
		if len(fieldErrs) > 0 {
			common.WriteValidationErrors(h.logger, w, fieldErrs)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, buildReviewResponse(*review))
	}
}

func (h *Handler) reviewDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		locationID := strings.TrimSpace(chi.URLParam(r, "locationid"))
		reviewID := strings.TrimSpace(chi.URLParam(r, "reviewid"))

		if err := h.reviews.Delete(ctx, locationID, reviewID); err != nil {
			h.writeReviewError(w, err, "delete")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
