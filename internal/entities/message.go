package entities

type MessageResponse struct {
	Message string `json:"message"`
}
