package visionkey

import (
	"net/http"

	"github.com/novaagent/nova/internal/httputil"
	"github.com/novaagent/nova/internal/svc"
	"github.com/novaagent/nova/internal/types"
)

// SetKeyHandler swaps in a new vision API key at runtime. With persist
// set, the key also lands in the OS keychain.
// Route: PUT /api/v1/vision/key
func SetKeyHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.SetVisionKeyRequest
		if err := httputil.Parse(r, &req); err != nil {
			httputil.Error(w, err)
			return
		}
		if req.ApiKey == "" {
			httputil.ErrorWithCode(w, http.StatusBadRequest, "apiKey is required")
			return
		}

		if err := svcCtx.SetVisionKey(req.ApiKey, req.Persist); err != nil {
			httputil.InternalError(w, err.Error())
			return
		}

		msg := "Vision API key updated"
		if req.Persist {
			msg = "Vision API key updated and saved to keychain"
		}
		httputil.OkJSON(w, &types.SetVisionKeyResponse{Message: msg})
	}
}
