package middleware

import (
	"net/http"

	"github.com/budgetwise/budgetwise-go/internal/httputil"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	httputil.WriteJSON(w, status, data)
}
