package http

import (
	"errors"

	nethttp "net/http"

	"github.com/gradekit/gradescale/internal/gradescale"
)

type convertReq struct {
	Score   float64 `json:"score"`
	ScaleID string  `json:"scale_id" validate:"required"`
}

// POST /convert
func ConvertScoreHandler(store gradescale.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var req convertReq
		if !decodeJSON(w, r, &req) {
			return
		}
		scale, err := store.GetScale(r.Context(), req.ScaleID)
		if err != nil {
			storeErr(w, err)
			return
		}
		g, err := gradescale.ConvertScoreToGrade(req.Score, scale)
		if err != nil {
			if errors.Is(err, gradescale.ErrOutOfRange) {
				writeJSON(w, nethttp.StatusUnprocessableEntity, map[string]interface{}{
					"error": "score out of range",
					"score": req.Score,
				})
				return
			}
			storeErr(w, err)
			return
		}
		writeJSON(w, nethttp.StatusOK, g)
	}
}

type crossConvertReq struct {
	Score       *float64 `json:"score,omitempty"`
	Label       string   `json:"label,omitempty"`
	FromScaleID string   `json:"from_scale_id" validate:"required"`
	ToScaleID   string   `json:"to_scale_id" validate:"required"`
}

// POST /convert/cross
func CrossConvertHandler(store gradescale.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var req crossConvertReq
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Score == nil && req.Label == "" {
			nethttp.Error(w, "score or label required", nethttp.StatusBadRequest)
			return
		}
		from, err := store.GetScale(r.Context(), req.FromScaleID)
		if err != nil {
			storeErr(w, err)
			return
		}
		to, err := store.GetScale(r.Context(), req.ToScaleID)
		if err != nil {
			storeErr(w, err)
			return
		}
		score := gradescale.LetterScore(req.Label)
		if req.Score != nil {
			score = gradescale.NumericScore(*req.Score)
		}
		res, err := gradescale.ConvertBetweenScales(score, from, to)
		if err != nil {
			if errors.Is(err, gradescale.ErrOutOfRange) {
				// keep the intermediate percentage for the caller
				writeJSON(w, nethttp.StatusUnprocessableEntity, map[string]interface{}{
					"error":      "normalized score out of range for target scale",
					"percentage": res.Percentage,
				})
				return
			}
			storeErr(w, err)
			return
		}
		writeJSON(w, nethttp.StatusOK, res)
	}
}

type gpaReq struct {
	ScaleID string             `json:"scale_id" validate:"required"`
	Grades  []gradescale.Grade `json:"grades" validate:"required"`
}

// POST /gpa
func CalculateGPAHandler(store gradescale.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var req gpaReq
		if !decodeJSON(w, r, &req) {
			return
		}
		scale, err := store.GetScale(r.Context(), req.ScaleID)
		if err != nil {
			storeErr(w, err)
			return
		}
		gpa, err := gradescale.CalculateGPA(req.Grades, scale)
		if err != nil {
			storeErr(w, err)
			return
		}
		writeJSON(w, nethttp.StatusOK, map[string]interface{}{
			"gpa":      gpa,
			"scale_id": scale.ID,
			"graded":   len(req.Grades),
		})
	}
}

// POST /convert/label — label-only lookup, mirrors GradeLabel.
func GradeLabelHandler(store gradescale.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var req convertReq
		if !decodeJSON(w, r, &req) {
			return
		}
		scale, err := store.GetScale(r.Context(), req.ScaleID)
		if err != nil {
			storeErr(w, err)
			return
		}
		label, ok := gradescale.GradeLabel(req.Score, scale)
		writeJSON(w, nethttp.StatusOK, map[string]interface{}{
			"label": label,
			"found": ok,
		})
	}
}
