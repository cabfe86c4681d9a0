package handler

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"

	"github.com/mmynk/receipts/internal/models"
)

// credentials are accepted as query/form parameters or as a JSON body.
type credentials struct {
	Username string `json:"username"`
	Login    string `json:"login"`
	Password string `json:"password"`
}

func readCredentials(r *http.Request) (credentials, error) {
	var c credentials

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" && r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			return c, fmt.Errorf("%w: invalid request body", models.ErrValidation)
		}
	}

	if err := r.ParseForm(); err != nil {
		return c, fmt.Errorf("%w: invalid form", models.ErrValidation)
	}
	if v := r.Form.Get("username"); v != "" {
		c.Username = v
	}
	if v := r.Form.Get("login"); v != "" {
		c.Login = v
	}
	if v := r.Form.Get("password"); v != "" {
		c.Password = v
	}
	return c, nil
}

// Register handles POST /registration/.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	c, err := readCredentials(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	user, err := h.auth.Register(r.Context(), c.Username, c.Login, c.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"login": user.Login})
}

// Authorize handles GET /authorize/.
func (h *Handler) Authorize(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	login, password := q.Get("login"), q.Get("password")
	if login == "" || password == "" {
		writeDetail(w, http.StatusBadRequest, "login and password are required")
		return
	}

	token, err := h.auth.Authorize(r.Context(), login, password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
