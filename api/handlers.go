package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/rushteam/prodsim/core"
	"github.com/rushteam/prodsim/filter"
)

// RecommendationResponse 是推荐/相似商品接口的响应体。
type RecommendationResponse struct {
	ProductID       int64                 `json:"product_id"`
	Title           string                `json:"title,omitempty"`
	Category        string                `json:"category,omitempty"`
	Recommendations []core.Recommendation `json:"recommendations"`
}

type errorBody struct {
	Detail string `json:"detail"`
}

// errBadRequest 标记参数错误
var errBadRequest = errors.New("bad request")

func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Marketplace Analysis API v1.0"})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	st := h.engine.Status()
	code := http.StatusOK
	if !st.Trained {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, st)
}

// Recommendations: GET /products/{id}/recommendations?n_recommendations=5
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	id, k, err := h.productParams(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	src, recs, err := h.engine.GetRecommendationsWithSource(id, k)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, RecommendationResponse{
		ProductID:       src.ProductID,
		Title:           src.Title,
		Category:        src.Category,
		Recommendations: recs,
	})
}

// Similar: GET /products/{id}/similar?by_category=true&n_recommendations=5&filter=<cel>&exclude=1,2
func (h *Handler) Similar(w http.ResponseWriter, r *http.Request) {
	id, k, err := h.productParams(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	q := r.URL.Query()

	byCategory := true
	if v := q.Get("by_category"); v != "" {
		if byCategory, err = strconv.ParseBool(v); err != nil {
			h.writeError(w, r, fmt.Errorf("%w: by_category must be a boolean", errBadRequest))
			return
		}
	}

	var filters []filter.Filter
	if expr := q.Get("filter"); expr != "" {
		f, err := filter.NewExprFilter(expr)
		if err != nil {
			h.writeError(w, r, fmt.Errorf("%w: filter: %v", errBadRequest, err))
			return
		}
		filters = append(filters, f)
	}
	if v := q.Get("exclude"); v != "" {
		ids, err := parseIDs(v)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		filters = append(filters, filter.NewBlacklistFilter(ids...))
	}

	src, recs, err := h.engine.GetSimilarProductsWithSource(id, byCategory, k, filters...)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, RecommendationResponse{
		ProductID:       src.ProductID,
		Title:           src.Title,
		Category:        src.Category,
		Recommendations: recs,
	})
}

func (h *Handler) CategoryDistribution(w http.ResponseWriter, r *http.Request) {
	dist, err := h.engine.GetCategoryDistribution()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dist)
}

func (h *Handler) productParams(r *http.Request) (int64, int, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: product id must be an integer", errBadRequest)
	}
	k := 0
	if v := r.URL.Query().Get("n_recommendations"); v != "" {
		if k, err = strconv.Atoi(v); err != nil || k < 1 {
			return 0, 0, fmt.Errorf("%w: n_recommendations must be a positive integer", errBadRequest)
		}
		if k > h.maxResults {
			return 0, 0, fmt.Errorf("%w: n_recommendations must not exceed %d", errBadRequest, h.maxResults)
		}
	}
	return id, k, nil
}

func parseIDs(s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: exclude must be a comma separated id list", errBadRequest)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// writeError 把错误映射为状态码：NotFound -> 404，参数错误 -> 400，未训练 -> 503，其余 -> 500。
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case core.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, errorBody{Detail: err.Error()})
	case errors.Is(err, errBadRequest):
		writeJSON(w, http.StatusBadRequest, errorBody{Detail: err.Error()})
	case core.IsUntrained(err):
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Detail: err.Error()})
	default:
		h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, errorBody{Detail: "internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
