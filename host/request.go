package host

//ScanRequest carries the host page's visible text for keyword detection
type ScanRequest struct {
	PageText string `json:"page_text"`
}

//SendRequest is a visitor message to post to the active conversation
type SendRequest struct {
	Content string `json:"content"`
}

//CloseCaseRequest resolves the active conversation with optional notes
type CloseCaseRequest struct {
	Notes string `json:"notes,omitempty"`
}
