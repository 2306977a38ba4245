package http

import (
	"log/slog"
	"strings"

	nethttp "net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gradekit/gradescale/internal/audit"
	"github.com/gradekit/gradescale/internal/gradescale"
	"github.com/gradekit/gradescale/internal/rbac"
)

// Handlers only — routes remain in main.go.

type rangePayload struct {
	ID          string   `json:"id,omitempty"`
	MinValue    float64  `json:"min_value"`
	MaxValue    float64  `json:"max_value" validate:"gtefield=MinValue"`
	Label       string   `json:"label" validate:"required"`
	Description string   `json:"description,omitempty"`
	Color       string   `json:"color,omitempty"`
	GPAEquiv    *float64 `json:"gpa_equivalent,omitempty" validate:"omitempty,gte=0,lte=4"`
	IsPassing   bool     `json:"is_passing"`
	Order       int      `json:"order"`
}

func (p rangePayload) toRange() gradescale.Range {
	return gradescale.Range{
		ID:          p.ID,
		MinValue:    p.MinValue,
		MaxValue:    p.MaxValue,
		Label:       p.Label,
		Description: p.Description,
		Color:       p.Color,
		GPAEquiv:    p.GPAEquiv,
		IsPassing:   p.IsPassing,
		Order:       p.Order,
	}
}

func toRanges(ps []rangePayload) []gradescale.Range {
	out := make([]gradescale.Range, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.toRange())
	}
	return out
}

type createScaleReq struct {
	Name            string         `json:"name" validate:"required"`
	Type            string         `json:"scale_type" validate:"required,oneof=letter percentage points standards"`
	SchoolID        string         `json:"school_id" validate:"required"`
	GradingSystemID string         `json:"grading_system_id" validate:"required"`
	Ranges          []rangePayload `json:"ranges" validate:"required,min=1,dive"`
}

// POST /scales
func CreateScaleHandler(store gradescale.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var req createScaleReq
		if !decodeJSON(w, r, &req) {
			return
		}
		ranges := toRanges(req.Ranges)
		if vs := gradescale.ValidateRanges(ranges); len(vs) > 0 {
			writeJSON(w, nethttp.StatusUnprocessableEntity, map[string]interface{}{"violations": vs})
			return
		}
		s, err := store.PutScale(r.Context(), gradescale.Scale{
			Name:            req.Name,
			Type:            gradescale.ScaleType(req.Type),
			SchoolID:        req.SchoolID,
			GradingSystemID: req.GradingSystemID,
			Ranges:          ranges,
		})
		if err != nil {
			storeErr(w, err)
			return
		}
		writeJSON(w, nethttp.StatusCreated, s)
	}
}

// GET /scales
func ListScalesHandler(store gradescale.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		q := r.URL.Query()
		scales, err := store.ListScales(r.Context(), gradescale.ListOpts{
			SchoolID:        q.Get("school_id"),
			GradingSystemID: q.Get("grading_system_id"),
			Type:            gradescale.ScaleType(q.Get("scale_type")),
			Limit:           intParam(q.Get("limit")),
			Offset:          intParam(q.Get("offset")),
		})
		if err != nil {
			storeErr(w, err)
			return
		}
		if scales == nil {
			scales = []gradescale.Scale{}
		}
		writeJSON(w, nethttp.StatusOK, scales)
	}
}

// GET /scales/{scaleID}
func GetScaleHandler(store gradescale.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "scaleID"))
		if id == "" {
			nethttp.Error(w, "scaleID required", nethttp.StatusBadRequest)
			return
		}
		s, err := store.GetScale(r.Context(), id)
		if err != nil {
			storeErr(w, err)
			return
		}
		writeJSON(w, nethttp.StatusOK, s)
	}
}

// DELETE /scales/{scaleID}
func DeleteScaleHandler(store gradescale.Store, events *audit.EventRepo) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "scaleID"))
		if id == "" {
			nethttp.Error(w, "scaleID required", nethttp.StatusBadRequest)
			return
		}
		if err := store.DeleteScale(r.Context(), id); err != nil {
			storeErr(w, err)
			return
		}
		if events != nil {
			if err := events.Record(r.Context(), rbac.SubjectFromContext(r.Context()),
				audit.TypeScaleDeleted, id, nil); err != nil {
				slog.Warn("audit append failed", "type", audit.TypeScaleDeleted, "scale_id", id, "err", err)
			}
		}
		w.WriteHeader(nethttp.StatusNoContent)
	}
}

type rangeSetReq struct {
	Ranges []rangePayload `json:"ranges" validate:"required,min=1,dive"`
}

// PUT /scales/{scaleID}/ranges
func ReplaceRangesHandler(store gradescale.Store, events *audit.EventRepo) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "scaleID"))
		if id == "" {
			nethttp.Error(w, "scaleID required", nethttp.StatusBadRequest)
			return
		}
		var req rangeSetReq
		if !decodeJSON(w, r, &req) {
			return
		}
		ranges := toRanges(req.Ranges)
		if vs := gradescale.ValidateRanges(ranges); len(vs) > 0 {
			writeJSON(w, nethttp.StatusUnprocessableEntity, map[string]interface{}{"violations": vs})
			return
		}
		s, err := store.ReplaceRanges(r.Context(), id, ranges)
		if err != nil {
			storeErr(w, err)
			return
		}
		if events != nil {
			if err := events.Record(r.Context(), rbac.SubjectFromContext(r.Context()),
				audit.TypeRangesReplaced, id, map[string]int{"count": len(ranges)}); err != nil {
				slog.Warn("audit append failed", "type", audit.TypeRangesReplaced, "scale_id", id, "err", err)
			}
		}
		writeJSON(w, nethttp.StatusOK, s)
	}
}

// POST /scales/{scaleID}/ranges
func PutRangeHandler(store gradescale.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "scaleID"))
		if id == "" {
			nethttp.Error(w, "scaleID required", nethttp.StatusBadRequest)
			return
		}
		var req rangePayload
		if !decodeJSON(w, r, &req) {
			return
		}
		rg, err := store.PutRange(r.Context(), id, req.toRange())
		if err != nil {
			storeErr(w, err)
			return
		}
		writeJSON(w, nethttp.StatusCreated, rg)
	}
}

// DELETE /scales/{scaleID}/ranges/{rangeID}
func DeleteRangeHandler(store gradescale.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		scaleID := strings.TrimSpace(chi.URLParam(r, "scaleID"))
		rangeID := strings.TrimSpace(chi.URLParam(r, "rangeID"))
		if scaleID == "" || rangeID == "" {
			nethttp.Error(w, "scaleID and rangeID required", nethttp.StatusBadRequest)
			return
		}
		if err := store.DeleteRange(r.Context(), scaleID, rangeID); err != nil {
			storeErr(w, err)
			return
		}
		w.WriteHeader(nethttp.StatusNoContent)
	}
}

// POST /scales/validate-ranges
// Advisory overlap check for a candidate set; nothing is persisted.
func ValidateRangesHandler() nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var req rangeSetReq
		if !decodeJSON(w, r, &req) {
			return
		}
		vs := gradescale.ValidateRanges(toRanges(req.Ranges))
		if vs == nil {
			vs = []gradescale.Violation{}
		}
		writeJSON(w, nethttp.StatusOK, map[string]interface{}{
			"valid":      len(vs) == 0,
			"violations": vs,
		})
	}
}

// POST /scales/{scaleID}/default
func SetDefaultScaleHandler(store gradescale.Store, events *audit.EventRepo) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "scaleID"))
		if id == "" {
			nethttp.Error(w, "scaleID required", nethttp.StatusBadRequest)
			return
		}
		if err := store.SetDefault(r.Context(), id); err != nil {
			storeErr(w, err)
			return
		}
		if events != nil {
			if err := events.Record(r.Context(), rbac.SubjectFromContext(r.Context()),
				audit.TypeDefaultSet, id, nil); err != nil {
				slog.Warn("audit append failed", "type", audit.TypeDefaultSet, "scale_id", id, "err", err)
			}
		}
		s, err := store.GetScale(r.Context(), id)
		if err != nil {
			storeErr(w, err)
			return
		}
		writeJSON(w, nethttp.StatusOK, s)
	}
}

// GET /scales/default?school_id=...&grading_system_id=...
func GetDefaultScaleHandler(store gradescale.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		q := r.URL.Query()
		schoolID := q.Get("school_id")
		systemID := q.Get("grading_system_id")
		if schoolID == "" || systemID == "" {
			nethttp.Error(w, "school_id and grading_system_id required", nethttp.StatusBadRequest)
			return
		}
		s, err := store.GetDefaultScale(r.Context(), schoolID, systemID)
		if err != nil {
			storeErr(w, err)
			return
		}
		writeJSON(w, nethttp.StatusOK, s)
	}
}

// GET /scales/{scaleID}/events
func ListScaleEventsHandler(events *audit.EventRepo) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "scaleID"))
		if id == "" {
			nethttp.Error(w, "scaleID required", nethttp.StatusBadRequest)
			return
		}
		evs, err := events.List(r.Context(), id, 0)
		if err != nil {
			nethttp.Error(w, "events: "+err.Error(), nethttp.StatusInternalServerError)
			return
		}
		if evs == nil {
			evs = []audit.Event{}
		}
		writeJSON(w, nethttp.StatusOK, evs)
	}
}
