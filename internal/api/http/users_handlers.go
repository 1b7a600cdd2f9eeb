package http

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type userRow struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Password string `json:"password,omitempty"`
}

// POST /users/bulk — JSON array of users; passwords are bcrypt-hashed before
// they touch the database.
func BulkUpsertUsersHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var rows []userRow
		if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
			http.Error(w, "expected JSON array", http.StatusBadRequest)
			return
		}
		upserted := 0
		for _, u := range rows {
			if u.Username == "" || u.Password == "" {
				continue
			}
			if u.Role == "" {
				u.Role = "student"
			}
			if u.ID == "" {
				u.ID = uuid.NewString()
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
			if err != nil {
				http.Error(w, "hash password: "+err.Error(), http.StatusInternalServerError)
				return
			}
			_, err = db.ExecContext(r.Context(), `INSERT INTO users (id,username,pass_hash,role)
				VALUES ($1,$2,$3,$4)
				ON CONFLICT (username) DO UPDATE SET pass_hash=EXCLUDED.pass_hash, role=EXCLUDED.role`,
				u.ID, u.Username, string(hash), u.Role)
			if err != nil {
				http.Error(w, "upsert user: "+err.Error(), http.StatusInternalServerError)
				return
			}
			upserted++
		}
		_ = json.NewEncoder(w).Encode(map[string]int{"upserted": upserted})
	}
}
