package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	authmw "github.com/revisia/revisia-backend/internal/auth/middleware"
)

// POST /users/change-password lets a signed-in user rotate their own password.
func ChangePasswordHandler(db *sql.DB) http.HandlerFunc {
	type req struct {
		Current string `json:"current_password"`
		New     string `json:"new_password"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		uid := authmw.SubjectFromContext(r.Context())
		if uid == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		var body req
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "bad request", 400)
			return
		}
		if len(body.New) < 8 {
			http.Error(w, "new password too short", 400)
			return
		}

		var hash string
		err := db.QueryRowContext(r.Context(), `SELECT pass_hash FROM users WHERE id=$1`, uid).Scan(&hash)
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(body.Current)) != nil {
			http.Error(w, "wrong password", http.StatusForbidden)
			return
		}
		nh, err := bcrypt.GenerateFromPassword([]byte(body.New), 12)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		if _, err := db.ExecContext(r.Context(), `UPDATE users SET pass_hash=$1 WHERE id=$2`, nh, uid); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
