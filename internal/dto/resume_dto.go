package dto

type AnalyzeResumeRequest struct {
	UserID     string `json:"user_id" validate:"required"`
	ResumeText string `json:"resume_text" validate:"required"`
	TargetRole string `json:"target_role"`
	Improve    bool   `json:"improve"`
}

type AnalyzeResumeResponse struct {
	Analysis    map[string]interface{} `json:"analysis"`
	Suggestions map[string]interface{} `json:"suggestions,omitempty"`
}

type ImproveResumeRequest struct {
	UserID     string `json:"user_id" validate:"required"`
	ResumeText string `json:"resume_text" validate:"required"`
	TargetRole string `json:"target_role"`
}

type ImproveResumeResponse struct {
	Analysis    map[string]interface{} `json:"analysis"`
	Suggestions map[string]interface{} `json:"suggestions"`
}
