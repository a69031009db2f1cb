package usecase

import (
	"context"
	"errors"
	"fmt"

	"medibook/internal/delivery/dto"
	"medibook/internal/domain/entity"
	"medibook/internal/domain/repository"
	"medibook/pkg/llm"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrAssistantUnavailable = errors.New("assistant is unavailable, please try again later")

const baseSystemPrompt = `You are a helpful medical assistant for a doctor appointment booking platform.
You can help users with:
- Finding doctors by specialization
- Booking appointments
- Understanding medical procedures
- General health information
- Platform navigation

Always be professional, empathetic, and remind users that you cannot provide medical diagnosis or replace professional medical advice.`

const doctorPromptAddendum = `

The user is a doctor. You can also help them with:
- Managing their schedule and availability
- Understanding appointment management features
- Patient communication best practices`

const patientPromptAddendum = `

The user is a patient. Focus on helping them find doctors and book appointments.`

type ChatUsecase interface {
	Chat(ctx context.Context, callerID uuid.UUID, req *dto.ChatRequest) (*dto.ChatResponse, error)
}

type chatUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	profileRepo repository.ProfileRepository
	llm         llm.Completer
}

func NewChatUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	profileRepo repository.ProfileRepository,
	completer llm.Completer,
) ChatUsecase {
	return &chatUsecase{
		db:          db,
		log:         log,
		profileRepo: profileRepo,
		llm:         completer,
	}
}

func (u *chatUsecase) Chat(ctx context.Context, callerID uuid.UUID, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("%w: messages are required", ErrValidation)
	}

	profile, err := u.profileRepo.FindByID(u.db.WithContext(ctx), callerID)
	if err != nil {
		// the prompt degrades to the generic one rather than failing the chat
		u.log.Warnf("Failed to load profile %s for chat: %+v", callerID, err)
	}

	messages := make([]llm.Message, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = llm.Message{Role: m.Role, Content: m.Content}
	}

	reply, err := u.llm.Complete(ctx, SystemPrompt(profile), messages)
	if err != nil {
		u.log.Errorf("Chat completion failed for %s: %+v", callerID, err)
		return nil, ErrAssistantUnavailable
	}

	return &dto.ChatResponse{Message: reply}, nil
}

// SystemPrompt builds the role-aware prompt. A nil profile yields the generic prompt.
func SystemPrompt(profile *entity.Profile) string {
	if profile == nil {
		return baseSystemPrompt
	}
	if profile.IsDoctor() {
		return baseSystemPrompt + doctorPromptAddendum
	}
	return baseSystemPrompt + patientPromptAddendum
}
