package lifecycle

import "github.com/go-chi/chi/v5"

// Mount registers the lifecycle routes. The literal "statuses" segment wins over {id}.
func Mount(r chi.Router, h Handlers) {
	r.Get("/{domain}/statuses", h.Statuses)
	r.Get("/{domain}/statuses/{status}", h.Status)
	r.Get("/{domain}", h.List)
	r.Get("/{domain}/{id}", h.Detail)
	r.Get("/{domain}/{id}/history", h.History)
	r.Get("/{domain}/{id}/journal", h.Journal)
	r.Post("/{domain}/{id}/transitions", h.Transition)
}
