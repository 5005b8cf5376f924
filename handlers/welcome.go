package handlers

import (
	_ "embed"
	"net/http"

	"github.com/dmitrymomot/mailrelay/internal"
)

//go:embed static/welcome.html
var welcomePage []byte

// Welcome serves the static landing page describing the API.
type Welcome struct{}

// NewWelcome creates the landing page handler.
func NewWelcome() *Welcome {
	return &Welcome{}
}

func (h *Welcome) Routes(r internal.Router) {
	r.GET("/", h.index)
}

func (h *Welcome) index(c internal.Context) error {
	c.SetHeader("Cache-Control", "public, max-age=3600")
	return c.HTML(http.StatusOK, welcomePage)
}
