package sessions

import (
	"net/http"

	"github.com/novaagent/nova/internal/httputil"
	"github.com/novaagent/nova/internal/svc"
	"github.com/novaagent/nova/internal/types"
)

// ClickHandler clicks an element by CSS selector.
// Route: POST /api/v1/sessions/{id}/click
func ClickHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ClickRequest
		if err := httputil.Parse(r, &req); err != nil {
			httputil.Error(w, err)
			return
		}
		if req.Selector == "" {
			httputil.ErrorWithCode(w, http.StatusBadRequest, "selector is required")
			return
		}

		sess, err := svcCtx.Browser.GetSession(req.SessionId)
		if err != nil {
			httputil.NotFound(w, "session not found")
			return
		}

		httputil.OkJSON(w, actionResponse(sess.Click(r.Context(), req.Selector)))
	}
}
