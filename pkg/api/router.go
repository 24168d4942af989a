package api

import "net/http"

type Handler interface {
	Handle(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	CreateConversation Handler
	GetConversation    Handler
	SubmitTurn         Handler
	ClearConversation  Handler
	ExportConversation Handler
	StreamUpdates      Handler
}

// NewMux routes the API surface. The auth middleware guards the /api/v1
// routes only; /healthz stays open for liveness probes.
func NewMux(h Handlers, auth func(http.Handler) http.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	guarded := func(fn http.HandlerFunc) http.Handler { return auth(fn) }

	mux.Handle("POST /api/v1/conversations", guarded(h.CreateConversation.Handle))
	mux.Handle("GET /api/v1/conversations/{id}", guarded(h.GetConversation.Handle))
	mux.Handle("POST /api/v1/conversations/{id}/turns", guarded(h.SubmitTurn.Handle))
	mux.Handle("DELETE /api/v1/conversations/{id}", guarded(h.ClearConversation.Handle))
	mux.Handle("GET /api/v1/conversations/{id}/export", guarded(h.ExportConversation.Handle))
	mux.Handle("GET /api/v1/conversations/{id}/events", guarded(h.StreamUpdates.Handle))

	return mux
}
