package sessions

import (
	"path/filepath"
	"time"

	"github.com/novaagent/nova/internal/browser"
	"github.com/novaagent/nova/internal/types"
)

// screenshotURL maps an on-disk screenshot path to its serving URL.
func screenshotURL(path string) string {
	if path == "" {
		return ""
	}
	return "/api/v1/files/" + filepath.Base(path)
}

// actionResponse converts a browser result into the wire shape.
func actionResponse(res *browser.ActionResult) *types.ActionResponse {
	return &types.ActionResponse{
		Success:       res.Success,
		Message:       res.Message,
		ScreenshotUrl: screenshotURL(res.ScreenshotPath),
	}
}

// sessionInfo summarizes a live session.
func sessionInfo(s *browser.Session) types.SessionInfo {
	return types.SessionInfo{
		SessionId:    s.ID(),
		CurrentUrl:   s.CurrentURL(),
		Driver:       s.DriverName(),
		Active:       true,
		ActionsCount: s.ActionCount(),
		CreatedAt:    s.CreatedAt().UTC().Format(time.RFC3339),
		LastAction:   s.LastUsed().UTC().Format(time.RFC3339),
	}
}
