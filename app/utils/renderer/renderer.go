package renderer

import (
	"log"
	"net/http"

	"github.com/devrodri-com/mutter-games-dev/app/utils/httperr"
	"github.com/unrolled/render"
)

func New() *render.Render {
	return render.New(render.Options{
		IndentJSON: false,
	})
}

// JSONError writes a taxonomy error as the structured {"error": ...} body
// every endpoint uses.
func JSONError(rnd *render.Render, w http.ResponseWriter, err error) {
	he := httperr.FromError(err)
	if he.Kind == httperr.Internal && he.Err != nil {
		log.Printf("internal error: %v", he.Err)
	}
	body := map[string]interface{}{"error": he.Message}
	if he.Kind == httperr.Upstream && he.Err != nil {
		body["details"] = he.Err.Error()
	}
	if rErr := rnd.JSON(w, he.Status(), body); rErr != nil {
		log.Printf("failed to render error response: %v", rErr)
	}
}
