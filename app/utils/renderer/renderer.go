package renderer

import (
	"github.com/unrolled/render"
)

// New returns the JSON renderer used by every API handler.
func New(indent bool) *render.Render {
	return render.New(render.Options{
		IndentJSON:    indent,
		UnEscapeHTML:  false,
		StreamingJSON: false,
	})
}
