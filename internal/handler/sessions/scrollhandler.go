package sessions

import (
	"net/http"

	"github.com/novaagent/nova/internal/httputil"
	"github.com/novaagent/nova/internal/svc"
	"github.com/novaagent/nova/internal/types"
)

// ScrollHandler scrolls the page. Directions: down, up, top, bottom.
// Route: POST /api/v1/sessions/{id}/scroll
func ScrollHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ScrollRequest
		if err := httputil.Parse(r, &req); err != nil {
			httputil.Error(w, err)
			return
		}
		if req.Direction == "" {
			req.Direction = "down"
		}

		sess, err := svcCtx.Browser.GetSession(req.SessionId)
		if err != nil {
			httputil.NotFound(w, "session not found")
			return
		}

		httputil.OkJSON(w, actionResponse(sess.Scroll(r.Context(), req.Direction)))
	}
}
