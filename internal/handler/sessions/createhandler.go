package sessions

import (
	"net/http"

	"github.com/novaagent/nova/internal/httputil"
	"github.com/novaagent/nova/internal/svc"
	"github.com/novaagent/nova/internal/types"
)

// CreateHandler opens a new browser session.
// Route: POST /api/v1/sessions
func CreateHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := svcCtx.Browser.CreateSession(r.Context())
		if err != nil {
			httputil.InternalError(w, "failed to create browser session: "+err.Error())
			return
		}

		httputil.OkJSON(w, &types.CreateSessionResponse{
			SessionId: sess.ID(),
			Message:   "Session created successfully",
		})
	}
}
