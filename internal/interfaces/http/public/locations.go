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
	"github.com/loc8r/loc8r-services/api/internal/locations/domain"
)

// locationListHandler は指定座標の近傍ロケーションを距離つきで返す。
// lng/lat は必須。maxDistance 省略時は既定半径で検索する。
func (h *Handler) locationListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		query := r.URL.Query()
		lng, lngOK := common.ParseFloatParam(query.Get("lng"))
		lat, latOK := common.ParseFloatParam(query.Get("lat"))
		if !lngOK || !latOK {
			common.WriteMessage(h.logger, w, http.StatusBadRequest, "lng and lat query parameters are required")
			return
		}
		maxDistance, _ := common.ParseNonNegativeFloat(query.Get("maxDistance"), common.DefaultMaxDistanceMeters)

		results, err := h.locationQueries.Near(ctx, locapp.NearQuery{
			Lng:         lng,
			Lat:         lat,
			MaxDistance: maxDistance,
		})
		if err != nil {
			h.logger.Printf("近傍検索に失敗 lng=%f lat=%f: %v", lng, lat, err)
			common.WriteMessage(h.logger, w, http.StatusInternalServerError, "location lookup failed")
			return
		}

		items := make([]locationSummaryResponse, 0, len(results))
		for _, result := range results {
			items = append(items, locationSummaryResponse{
				ID:             result.Location.ID,
				Name:           result.Location.Name,
				Address:        result.Location.Address,
				Rating:         result.Location.Rating,
				Facilities:     append([]string{}, result.Location.Facilities...),
				DistanceMeters: result.DistanceMeters,
				Distance:       formatDistance(result.DistanceMeters),
			})
		}
		common.WriteJSON(h.logger, w, http.StatusOK, items)
	}
}

func (h *Handler) locationDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		idParam := strings.TrimSpace(chi.URLParam(r, "locationid"))
		location, err := h.locationQueries.Detail(ctx, idParam)
		if err != nil {
			if errors.Is(err, locapp.ErrLocationNotFound) {
				common.WriteMessage(h.logger, w, http.StatusNotFound, "location not found")
				return
			}
			h.logger.Printf("ロケーション詳細の取得に失敗 id=%q: %v", idParam, err)
			common.WriteMessage(h.logger, w, http.StatusInternalServerError, "location lookup failed")
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, buildLocationDetailResponse(*location))
	}
}

// locationCreateHandler は新規ロケーションを登録する。name と座標が必須。
func (h *Handler) locationCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		defer r.Body.Close()
		var req createLocationRequest
		decoder := json.NewDecoder(io.LimitReader(r.Body, common.MaxRequestBody))
		if err := decoder.Decode(&req); err != nil {
			common.WriteMessage(h.logger, w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}

		openingTimes := make([]domain.OpeningTime, 0, len(req.OpeningTimes))
		for _, ot := range req.OpeningTimes {
			openingTimes = append(openingTimes, domain.OpeningTime{
				Days:    ot.Days,
				Opening: ot.Opening,
				Closing: ot.Closing,
				Closed:  ot.Closed,
			})
		}

		location, fieldErrs, err := h.locationCommands.Create(ctx, locapp.CreateLocationCommand{
			Name:         req.Name,
			Address:      req.Address,
			Facilities:   req.Facilities,
			Lng:          req.Lng,
			Lat:          req.Lat,
			OpeningTimes: openingTimes,
		})
		if err != nil {
			h.logger.Printf("ロケーション登録に失敗: %v", err)
			common.WriteMessage(h.logger, w, http.StatusInternalServerError, "location create failed")
			return
		}
		if len(fieldErrs) > 0 {
			common.WriteValidationErrors(h.logger, w, fieldErrs)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusCreated, buildLocationDetailResponse(*location))
	}
}
