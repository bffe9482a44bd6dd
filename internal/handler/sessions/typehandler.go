package sessions

import (
	"net/http"

	"github.com/novaagent/nova/internal/httputil"
	"github.com/novaagent/nova/internal/svc"
	"github.com/novaagent/nova/internal/types"
)

// TypeHandler clears a field and types text into it.
// Route: POST /api/v1/sessions/{id}/type
func TypeHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.TypeRequest
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

		httputil.OkJSON(w, actionResponse(sess.Type(r.Context(), req.Selector, req.Text)))
	}
}
