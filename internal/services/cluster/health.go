package cluster

import (
	"encoding/json"
	"net/http"
)

// StatsFunc devolve os contadores expostos no health check.
type StatsFunc func() map[string]int

// NewHealthHandler devolve o handler do /health que o Consul consulta.
// Sempre 200 enquanto o processo responde; os contadores (sessões, fila,
// salas) vão junto para facilitar a vida de quem opera.
func NewHealthHandler(stats StatsFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := map[string]any{"status": "healthy"}
		if stats != nil {
			for k, v := range stats() {
				body[k] = v
			}
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(body)
	}
}
