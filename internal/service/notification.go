package service

import (
	"context"
	"errors"

	"hazel-marketplace/internal/domain"
	"hazel-marketplace/internal/logger"
	"hazel-marketplace/internal/repository"
)

const maxNotificationPageSize = 100

type notificationService struct {
	notificationRepo repository.NotificationRepository
	push             PushSender
}

func NewNotificationService(notificationRepo repository.NotificationRepository, push PushSender) NotificationService {
	return &notificationService{notificationRepo: notificationRepo, push: push}
}

func (s *notificationService) Notify(ctx context.Context, userID int32, title, message string, attrs map[string]string) error {
	n := &domain.Notification{UserID: userID, Title: title, Message: message, Attributes: attrs}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return err
	}
	if s.push != nil {
		if err := s.push.Send(ctx, userID, title, message, attrs); err != nil {
			logger.Warn("Push delivery failed", "userID", userID, "notificationID", n.ID, "error", err)
		}
	}
	return nil
}

func (s *notificationService) GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > maxNotificationPageSize {
		pageSize = maxNotificationPageSize
	}
	items, total, err := s.notificationRepo.List(ctx, userID, pageSize, (page-1)*pageSize)
	if items == nil {
		items = []domain.Notification{}
	}
	return items, total, err
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, notificationID int32) error {
	err := s.notificationRepo.MarkAsRead(ctx, notificationID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotificationNotFound
	}
	return err
}
