package sessions

import (
	"net/http"
	"sort"

	"github.com/novaagent/nova/internal/httputil"
	"github.com/novaagent/nova/internal/svc"
	"github.com/novaagent/nova/internal/types"
)

// ListHandler lists all live browser sessions.
// Route: GET /api/v1/sessions
func ListHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		live := svcCtx.Browser.ListSessions()
		sort.Slice(live, func(i, j int) bool {
			return live[i].CreatedAt().Before(live[j].CreatedAt())
		})

		infos := make([]types.SessionInfo, 0, len(live))
		for _, s := range live {
			infos = append(infos, sessionInfo(s))
		}

		httputil.OkJSON(w, &types.ListSessionsResponse{Sessions: infos})
	}
}
