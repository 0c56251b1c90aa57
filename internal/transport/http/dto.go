package http

type chatRequest struct {
	UserInput  string `json:"user_input" validate:"required,min=1,max=4000"`
	UserID     string `json:"user_id" validate:"required"`
	SessionID  string `json:"session_id" validate:"required"`
	CurrentURL string `json:"current_url" validate:"omitempty,url"`
}

type chatResponse struct {
	Message string `json:"message"`
	HTML    string `json:"html"`
}

type messagesRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}

type messageDTO struct {
	ID      string `json:"id"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Messages []messageDTO `json:"messages"`
}

type enquiryReplyRequest struct {
	EnquiryID    int64  `json:"enquiry_id" validate:"required,gt=0"`
	ReplyMessage string `json:"reply_message" validate:"required,min=1,max=10000"`
	ReplyChannel string `json:"reply_channel" validate:"required,oneof=email whatsapp api"`
}

type enquiryReplyResponse struct {
	Success bool   `json:"success"`
	Channel string `json:"channel"`
}

type errorResponse struct {
	Error string `json:"error"`
}
