package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"hazel-marketplace/internal/domain"
	"hazel-marketplace/internal/logger"
	"hazel-marketplace/internal/repository"
)

const MaxMessageLength = 2000

type chatService struct {
	chatRepo    repository.ChatRepository
	userRepo    repository.UserRepository
	listingRepo repository.ListingRepository
	notifySvc   NotificationService
}

func NewChatService(
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
	listingRepo repository.ListingRepository,
	notifySvc NotificationService,
) ChatService {
	return &chatService{
		chatRepo:    chatRepo,
		userRepo:    userRepo,
		listingRepo: listingRepo,
		notifySvc:   notifySvc,
	}
}

// OpenThread returns the conversation between actor and partner about a
// listing, creating it on first contact. With a listing its owner takes the
// owner side; without one the roles follow the actor's account role.
func (s *chatService) OpenThread(ctx context.Context, actor domain.Actor, partnerID int32, listingID *int32) (*domain.ChatThread, error) {
	logger.EnterMethod("chatService.OpenThread", "userID", actor.UserID, "partnerID", partnerID)

	if partnerID == actor.UserID {
		return nil, ErrChatWithSelf
	}
	if _, err := s.userRepo.GetByID(ctx, partnerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	renterID, ownerID := actor.UserID, partnerID
	if actor.Role == domain.UserRoleOwner {
		renterID, ownerID = partnerID, actor.UserID
	}
	if listingID != nil {
		listing, err := s.listingRepo.GetByID(ctx, *listingID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrListingNotFound
			}
			return nil, err
		}
		if listing.OwnerID != actor.UserID && listing.OwnerID != partnerID {
			return nil, invalid("listing %d does not belong to either participant", *listingID)
		}
		ownerID = listing.OwnerID
		renterID = actor.UserID
		if ownerID == actor.UserID {
			renterID = partnerID
		}
	}

	thread, err := s.chatRepo.FindThread(ctx, renterID, ownerID, listingID)
	if err == nil {
		logger.ExitMethod("chatService.OpenThread", "threadID", thread.ID, "created", false)
		return thread, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	thread = &domain.ChatThread{RenterID: renterID, OwnerID: ownerID, ListingID: listingID}
	if err := s.chatRepo.CreateThread(ctx, thread); err != nil {
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, err
		}
		// a concurrent request created it first
		existing, findErr := s.chatRepo.FindThread(ctx, renterID, ownerID, listingID)
		if findErr != nil {
			return nil, findErr
		}
		logger.ExitMethod("chatService.OpenThread", "threadID", existing.ID, "created", false)
		return existing, nil
	}
	logger.ExitMethod("chatService.OpenThread", "threadID", thread.ID, "created", true)
	return thread, nil
}

func (s *chatService) participantThread(ctx context.Context, userID, threadID int32) (*domain.ChatThread, error) {
	thread, err := s.chatRepo.GetThread(ctx, threadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrThreadNotFound
		}
		return nil, err
	}
	if !thread.HasParticipant(userID) {
		return nil, ErrThreadNotFound
	}
	return thread, nil
}

func (s *chatService) SendMessage(ctx context.Context, actor domain.Actor, threadID int32, content string) (*domain.ChatMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}
	if utf8.RuneCountInString(content) > MaxMessageLength {
		return nil, ErrMessageTooLong
	}

	thread, err := s.participantThread(ctx, actor.UserID, threadID)
	if err != nil {
		return nil, err
	}

	msg := &domain.ChatMessage{ThreadID: thread.ID, SenderID: actor.UserID, Content: content}
	if err := s.chatRepo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	title := "New message"
	if sender, err := s.userRepo.GetByID(ctx, actor.UserID); err == nil {
		title = "New message from " + sender.FullName()
	}
	attrs := map[string]string{"thread_id": strconv.Itoa(int(thread.ID))}
	if err := s.notifySvc.Notify(ctx, thread.Partner(actor.UserID), title, preview(content), attrs); err != nil {
		logger.Warn("Failed to notify chat partner", "threadID", thread.ID, "error", err)
	}
	return msg, nil
}

func preview(content string) string {
	const max = 80
	if utf8.RuneCountInString(content) <= max {
		return content
	}
	return string([]rune(content)[:max]) + "..."
}

func (s *chatService) ListThreads(ctx context.Context, userID int32) ([]domain.ThreadSummary, error) {
	threads, err := s.chatRepo.ListThreadSummaries(ctx, userID)
	if threads == nil {
		threads = []domain.ThreadSummary{}
	}
	return threads, err
}

// Messages returns the thread history and marks the partner's messages read.
func (s *chatService) Messages(ctx context.Context, userID, threadID int32) ([]domain.ChatMessage, error) {
	if _, err := s.participantThread(ctx, userID, threadID); err != nil {
		return nil, err
	}
	msgs, err := s.chatRepo.ListMessages(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if _, err := s.chatRepo.MarkRead(ctx, threadID, userID); err != nil {
		logger.Warn("Failed to mark messages read", "threadID", threadID, "userID", userID, "error", err)
	}
	if msgs == nil {
		msgs = []domain.ChatMessage{}
	}
	return msgs, nil
}
