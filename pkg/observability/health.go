package observability

import (
	"encoding/json"
	"net/http"
)

const healthStatusOK = "ok"

// HealthHandler serves liveness checks; it always answers 200 {"status":"ok"}.
func HealthHandler() http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		rw.Header().Set("Content-Type", "application/json")
		rw.WriteHeader(http.StatusOK)

		err := json.NewEncoder(rw).Encode(map[string]string{"status": healthStatusOK})
		if err != nil {
			return
		}
	})
}
