package user

import (
	"encoding/json"
	"net/http"
)

type UserDTO struct {
	Email string `json:"gmail"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// CurrentUser godoc
// @Summary Get the signed-in user
// @Tags User
// @Produce json
// @Success 200 {object} UserDTO
// @Failure 401 {string} string "Unauthenticated"
// @Router /api/user/current [get]
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	u, err := CurrentUser(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(UserDTO{Email: u.Email, Name: u.Name, Role: string(u.Role)}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
