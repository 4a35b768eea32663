package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Start serves the hosting platform's uptime check. It carries no
// business semantics and is intentionally unauthenticated.
func Start(port int) {
	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("Bot is Alive"))
	})

	addr := fmt.Sprintf(":%d", port)
	log.Printf("Liveness server listening on %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Printf("Liveness server stopped: %v", err)
	}
}
