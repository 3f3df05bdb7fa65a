package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/diagnosis/taipei-trip/internal/http/response"
	"github.com/diagnosis/taipei-trip/internal/repo/postgres"
)

type AttractionsHandler struct {
	Repo postgres.AttractionsRepo
}

func NewAttractionsHandler(repo postgres.AttractionsRepo) *AttractionsHandler {
	return &AttractionsHandler{Repo: repo}
}

func (h *AttractionsHandler) list(w http.ResponseWriter, r *http.Request) {
	page := 0
	if v := r.URL.Query().Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			response.Fail(w, http.StatusBadRequest, "page must be a non-negative integer")
			return
		}
		page = n
	}
	keyword := r.URL.Query().Get("keyword")

	attractions, nextPage, err := h.Repo.List(r.Context(), page, keyword)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"nextPage": nextPage,
		"data":     attractions,
	})
}

func (h *AttractionsHandler) getByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "attraction id must be an integer")
		return
	}

	a, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	if a == nil {
		response.Fail(w, http.StatusBadRequest, "attraction not found")
		return
	}
	response.Data(w, a)
}

func (h *AttractionsHandler) mrts(w http.ResponseWriter, r *http.Request) {
	names, err := h.Repo.ListMRTs(r.Context())
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, names)
}
