package handler

import (
	"net/http"

	"medibook/internal/delivery/dto"
	"medibook/internal/delivery/http/middleware"
	"medibook/internal/usecase"
	"medibook/pkg/response"
	"medibook/pkg/validator"
)

type ChatHandler struct {
	chatUsecase usecase.ChatUsecase
	validator   *validator.CustomValidator
}

func NewChatHandler(chatUsecase usecase.ChatUsecase, validator *validator.CustomValidator) *ChatHandler {
	return &ChatHandler{
		chatUsecase: chatUsecase,
		validator:   validator,
	}
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req dto.ChatRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	reply, err := h.chatUsecase.Chat(r.Context(), userID, &req)
	if err != nil {
		writeError(w, err, "Failed to process chat request")
		return
	}

	response.Success(w, http.StatusOK, "Chat response generated", reply)
}
