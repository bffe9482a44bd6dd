package sessions

import (
	"net/http"

	"github.com/novaagent/nova/internal/httputil"
	"github.com/novaagent/nova/internal/svc"
)

// GetHandler returns one live session's summary.
// Route: GET /api/v1/sessions/{id}
func GetHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := svcCtx.Browser.GetSession(httputil.PathVar(r, "id"))
		if err != nil {
			httputil.NotFound(w, "session not found")
			return
		}

		info := sessionInfo(sess)
		httputil.OkJSON(w, &info)
	}
}
