package sessions

import (
	"net/http"

	"github.com/novaagent/nova/internal/httputil"
	"github.com/novaagent/nova/internal/svc"
	"github.com/novaagent/nova/internal/types"
)

// NavigateHandler loads a URL in a session.
// Route: POST /api/v1/sessions/{id}/navigate
func NavigateHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.NavigateRequest
		if err := httputil.Parse(r, &req); err != nil {
			httputil.Error(w, err)
			return
		}
		if req.Url == "" {
			httputil.ErrorWithCode(w, http.StatusBadRequest, "url is required")
			return
		}

		sess, err := svcCtx.Browser.GetSession(req.SessionId)
		if err != nil {
			httputil.NotFound(w, "session not found")
			return
		}

		httputil.OkJSON(w, actionResponse(sess.Navigate(r.Context(), req.Url)))
	}
}
