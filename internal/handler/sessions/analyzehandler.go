package sessions

import (
	"net/http"

	"github.com/novaagent/nova/internal/httputil"
	"github.com/novaagent/nova/internal/markdown"
	"github.com/novaagent/nova/internal/svc"
	"github.com/novaagent/nova/internal/types"
)

// AnalyzeHandler captures a screenshot and sends it to the vision
// model. Analysis failures come back as success=false, not as HTTP
// errors.
// Route: POST /api/v1/sessions/{id}/analyze
func AnalyzeHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.AnalyzeRequest
		if err := httputil.Parse(r, &req); err != nil {
			httputil.Error(w, err)
			return
		}

		sess, err := svcCtx.Browser.GetSession(req.SessionId)
		if err != nil {
			httputil.NotFound(w, "session not found")
			return
		}

		analyzer := svcCtx.Analyzer()
		if analyzer == nil {
			sess.RecordAnalyze(false, "no vision analyzer configured")
			httputil.OkJSON(w, &types.AnalyzeResponse{
				Success: false,
				Message: "no vision analyzer configured",
			})
			return
		}

		png, err := sess.Screenshot(r.Context())
		if err != nil {
			sess.RecordAnalyze(false, err.Error())
			httputil.OkJSON(w, &types.AnalyzeResponse{
				Success: false,
				Message: "screenshot failed: " + err.Error(),
			})
			return
		}

		result, err := analyzer.Analyze(r.Context(), png, req.Prompt)
		if err != nil {
			sess.RecordAnalyze(false, err.Error())
			httputil.OkJSON(w, &types.AnalyzeResponse{
				Success: false,
				Message: err.Error(),
			})
			return
		}

		sess.RecordAnalyze(true, "")
		httputil.OkJSON(w, &types.AnalyzeResponse{
			Success:      true,
			Analysis:     result.Analysis,
			AnalysisHtml: markdown.Render(result.Analysis),
			Elements:     result.Elements,
			Message:      "Analysis complete",
		})
	}
}
