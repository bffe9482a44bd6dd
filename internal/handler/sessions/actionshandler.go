package sessions

import (
	"net/http"
	"time"

	"github.com/novaagent/nova/internal/browser"
	"github.com/novaagent/nova/internal/httputil"
	"github.com/novaagent/nova/internal/svc"
	"github.com/novaagent/nova/internal/types"
)

// ActionsHandler returns a session's action log, oldest first. For
// closed sessions the persisted history is served.
// Route: GET /api/v1/sessions/{id}/actions
func ActionsHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httputil.PathVar(r, "id")

		if sess, err := svcCtx.Browser.GetSession(id); err == nil {
			records := make([]types.ActionRecord, 0, sess.ActionCount())
			for _, act := range sess.Actions() {
				records = append(records, liveActionRecord(act))
			}
			httputil.OkJSON(w, &types.ListActionsResponse{Actions: records})
			return
		}

		rows, err := svcCtx.DB.ListActions(id)
		if err != nil {
			httputil.InternalError(w, "failed to load action history")
			return
		}
		if len(rows) == 0 {
			httputil.NotFound(w, "session not found")
			return
		}

		records := make([]types.ActionRecord, 0, len(rows))
		for _, row := range rows {
			records = append(records, types.ActionRecord{
				Id:            row.ID,
				Type:          row.Type,
				Selector:      row.Selector,
				Text:          row.Text,
				Timestamp:     row.CreatedAt.UTC().Format(time.RFC3339),
				Success:       row.Success,
				ErrorMessage:  row.ErrorMessage,
				ScreenshotUrl: screenshotURL(row.ScreenshotPath),
			})
		}
		httputil.OkJSON(w, &types.ListActionsResponse{Actions: records})
	}
}

func liveActionRecord(act browser.Action) types.ActionRecord {
	return types.ActionRecord{
		Id:            act.ID,
		Type:          act.Type,
		Selector:      act.Selector,
		Text:          act.Text,
		Timestamp:     act.CreatedAt.UTC().Format(time.RFC3339),
		Success:       act.Success,
		ErrorMessage:  act.Error,
		ScreenshotUrl: screenshotURL(act.ScreenshotPath),
	}
}
