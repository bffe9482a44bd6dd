package sessions

import (
	"net/http"

	"github.com/novaagent/nova/internal/httputil"
	"github.com/novaagent/nova/internal/svc"
	"github.com/novaagent/nova/internal/types"
)

// CloseHandler closes a session and releases its browser resources.
// Route: DELETE /api/v1/sessions/{id}
func CloseHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httputil.PathVar(r, "id")
		if err := svcCtx.Browser.CloseSession(id); err != nil {
			httputil.NotFound(w, "session not found")
			return
		}

		httputil.OkJSON(w, &types.ActionResponse{
			Success: true,
			Message: "Session closed",
		})
	}
}
