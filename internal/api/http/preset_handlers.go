package http

import (
	nethttp "net/http"

	"github.com/gradekit/gradescale/internal/gradescale"
)

// GET /scales/presets
func ListPresetsHandler() nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		writeJSON(w, nethttp.StatusOK, gradescale.ListPresets())
	}
}

type fromPresetReq struct {
	Preset          string `json:"preset" validate:"required"`
	SchoolID        string `json:"school_id" validate:"required"`
	GradingSystemID string `json:"grading_system_id" validate:"required"`
	Name            string `json:"name,omitempty"` // optional override
}

// POST /scales/from-preset
func CreateScaleFromPresetHandler(store gradescale.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var req fromPresetReq
		if !decodeJSON(w, r, &req) {
			return
		}
		p, ok := gradescale.PresetFor(req.Preset)
		if !ok {
			nethttp.Error(w, "unknown preset", nethttp.StatusNotFound)
			return
		}
		scale := p.Scale(req.SchoolID, req.GradingSystemID)
		if req.Name != "" {
			scale.Name = req.Name
		}
		s, err := store.PutScale(r.Context(), scale)
		if err != nil {
			storeErr(w, err)
			return
		}
		writeJSON(w, nethttp.StatusCreated, s)
	}
}
