package types

type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

type CreateSessionResponse struct {
	SessionId string `json:"sessionId"`
	Message   string `json:"message"`
}

type SessionInfo struct {
	SessionId    string `json:"sessionId"`
	CurrentUrl   string `json:"currentUrl,omitempty"`
	Driver       string `json:"driver"`
	Active       bool   `json:"active"`
	ActionsCount int    `json:"actionsCount"`
	CreatedAt    string `json:"createdAt"`
	LastAction   string `json:"lastAction,omitempty"`
}

type ListSessionsResponse struct {
	Sessions []SessionInfo `json:"sessions"`
}

type NavigateRequest struct {
	SessionId string `path:"id" json:"-"`
	Url       string `json:"url"`
}

type ClickRequest struct {
	SessionId string `path:"id" json:"-"`
	Selector  string `json:"selector"`
}

type TypeRequest struct {
	SessionId string `path:"id" json:"-"`
	Selector  string `json:"selector"`
	Text      string `json:"text"`
}

type ScrollRequest struct {
	SessionId string `path:"id" json:"-"`
	Direction string `json:"direction"`
}

type AnalyzeRequest struct {
	SessionId string `path:"id" json:"-"`
	Prompt    string `json:"prompt,omitempty"`
}

// ActionResponse is the success/message/screenshot triple every browser
// action returns.
type ActionResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	ScreenshotUrl string `json:"screenshotUrl,omitempty"`
}

type AnalyzeResponse struct {
	Success      bool     `json:"success"`
	Analysis     string   `json:"analysis"`
	AnalysisHtml string   `json:"analysisHtml,omitempty"`
	Elements     []string `json:"elements,omitempty"`
	Message      string   `json:"message"`
}

type ActionRecord struct {
	Id            string `json:"id"`
	Type          string `json:"type"`
	Selector      string `json:"selector,omitempty"`
	Text          string `json:"text,omitempty"`
	Timestamp     string `json:"timestamp"`
	Success       bool   `json:"success"`
	ErrorMessage  string `json:"errorMessage,omitempty"`
	ScreenshotUrl string `json:"screenshotUrl,omitempty"`
}

type ListActionsResponse struct {
	Actions []ActionRecord `json:"actions"`
}

type SetVisionKeyRequest struct {
	ApiKey  string `json:"apiKey"`
	Persist bool   `json:"persist,omitempty"`
}

type SetVisionKeyResponse struct {
	Message string `json:"message"`
}
