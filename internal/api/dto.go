package api

// ActionResponse acknowledges an issued action. Results arrive on the event
// stream.
type ActionResponse struct {
	Status string `json:"status" example:"accepted" validate:"required"`
}

// MenuResponse reports the menu visibility after a toggle.
type MenuResponse struct {
	Status  string `json:"status" example:"accepted" validate:"required"`
	Visible bool   `json:"visible" example:"true"`
}

// SearchRequest is the JSON body of a search submit.
type SearchRequest struct {
	Query string `json:"q" example:"arrabiata" validate:"required"`
}

func accepted() ActionResponse {
	return ActionResponse{Status: "accepted"}
}
