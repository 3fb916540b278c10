package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"hazel-marketplace/internal/domain"
	"hazel-marketplace/internal/service"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) UpdatePassword(ctx context.Context, id int32, hash string) error {
	args := m.Called(ctx, id, hash)
	return args.Error(0)
}
func (m *MockUserRepo) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockUserRepo) Count(ctx context.Context) (int32, error) {
	args := m.Called(ctx)
	return args.Get(0).(int32), args.Error(1)
}

// MockCategoryRepo
type MockCategoryRepo struct {
	mock.Mock
}

func (m *MockCategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Category), args.Error(1)
}
func (m *MockCategoryRepo) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

// MockListingRepo
type MockListingRepo struct {
	mock.Mock
}

func (m *MockListingRepo) Create(ctx context.Context, listing *domain.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}
func (m *MockListingRepo) GetByID(ctx context.Context, id int32) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}
func (m *MockListingRepo) GetByIDs(ctx context.Context, ids []int32) ([]domain.Listing, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]domain.Listing), args.Error(1)
}
func (m *MockListingRepo) Update(ctx context.Context, listing *domain.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}
func (m *MockListingRepo) SetAvailability(ctx context.Context, id int32, available bool) error {
	args := m.Called(ctx, id, available)
	return args.Error(0)
}
func (m *MockListingRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockListingRepo) Search(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Listing), args.Get(1).(int32), args.Error(2)
}
func (m *MockListingRepo) Count(ctx context.Context) (int32, error) {
	args := m.Called(ctx)
	return args.Get(0).(int32), args.Error(1)
}

// MockFavoriteRepo
type MockFavoriteRepo struct {
	mock.Mock
}

func (m *MockFavoriteRepo) Add(ctx context.Context, userID, listingID int32) error {
	args := m.Called(ctx, userID, listingID)
	return args.Error(0)
}
func (m *MockFavoriteRepo) Remove(ctx context.Context, userID, listingID int32) error {
	args := m.Called(ctx, userID, listingID)
	return args.Error(0)
}
func (m *MockFavoriteRepo) ListIDs(ctx context.Context, userID int32) ([]int32, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]int32), args.Error(1)
}

// MockReviewRepo
type MockReviewRepo struct {
	mock.Mock
}

func (m *MockReviewRepo) Create(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}
func (m *MockReviewRepo) ListByListing(ctx context.Context, listingID int32) ([]domain.Review, error) {
	args := m.Called(ctx, listingID)
	return args.Get(0).([]domain.Review), args.Error(1)
}

// MockTransactionRepo
type MockTransactionRepo struct {
	mock.Mock
}

func (m *MockTransactionRepo) CreateOrder(ctx context.Context, txs []domain.Transaction) error {
	args := m.Called(ctx, txs)
	return args.Error(0)
}
func (m *MockTransactionRepo) GetByID(ctx context.Context, id int32) (*domain.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionRepo) ListByOrderRef(ctx context.Context, orderRef string) ([]domain.Transaction, error) {
	args := m.Called(ctx, orderRef)
	return args.Get(0).([]domain.Transaction), args.Error(1)
}
func (m *MockTransactionRepo) ListByRenter(ctx context.Context, renterID int32) ([]domain.Transaction, error) {
	args := m.Called(ctx, renterID)
	return args.Get(0).([]domain.Transaction), args.Error(1)
}
func (m *MockTransactionRepo) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Transaction, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.Transaction), args.Error(1)
}
func (m *MockTransactionRepo) UpdateStatus(ctx context.Context, id int32, status domain.RentalStatus, completedOn *time.Time) error {
	args := m.Called(ctx, id, status, completedOn)
	return args.Error(0)
}
func (m *MockTransactionRepo) MarkOverdue(ctx context.Context, today string) (int64, error) {
	args := m.Called(ctx, today)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockTransactionRepo) ListActiveEndingOn(ctx context.Context, date string) ([]domain.Transaction, error) {
	args := m.Called(ctx, date)
	return args.Get(0).([]domain.Transaction), args.Error(1)
}
func (m *MockTransactionRepo) CountActive(ctx context.Context) (int32, error) {
	args := m.Called(ctx)
	return args.Get(0).(int32), args.Error(1)
}

// MockChatRepo
type MockChatRepo struct {
	mock.Mock
}

func (m *MockChatRepo) FindThread(ctx context.Context, renterID, ownerID int32, listingID *int32) (*domain.ChatThread, error) {
	args := m.Called(ctx, renterID, ownerID, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatThread), args.Error(1)
}
func (m *MockChatRepo) CreateThread(ctx context.Context, thread *domain.ChatThread) error {
	args := m.Called(ctx, thread)
	return args.Error(0)
}
func (m *MockChatRepo) GetThread(ctx context.Context, id int32) (*domain.ChatThread, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatThread), args.Error(1)
}
func (m *MockChatRepo) ListThreadSummaries(ctx context.Context, userID int32) ([]domain.ThreadSummary, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.ThreadSummary), args.Error(1)
}
func (m *MockChatRepo) CreateMessage(ctx context.Context, msg *domain.ChatMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
func (m *MockChatRepo) ListMessages(ctx context.Context, threadID int32) ([]domain.ChatMessage, error) {
	args := m.Called(ctx, threadID)
	return args.Get(0).([]domain.ChatMessage), args.Error(1)
}
func (m *MockChatRepo) MarkRead(ctx context.Context, threadID, readerID int32) (int64, error) {
	args := m.Called(ctx, threadID, readerID)
	return args.Get(0).(int64), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockContentRepo
type MockContentRepo struct {
	mock.Mock
}

func (m *MockContentRepo) Get(ctx context.Context, key string) (*domain.SiteContent, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SiteContent), args.Error(1)
}
func (m *MockContentRepo) Upsert(ctx context.Context, c *domain.SiteContent) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

// MockCartStore
type MockCartStore struct {
	mock.Mock
}

func (m *MockCartStore) Lines(ctx context.Context, userID int32) ([]domain.CartLine, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.CartLine), args.Error(1)
}
func (m *MockCartStore) Add(ctx context.Context, userID int32, line domain.CartLine) error {
	args := m.Called(ctx, userID, line)
	return args.Error(0)
}
func (m *MockCartStore) Remove(ctx context.Context, userID, listingID int32) error {
	args := m.Called(ctx, userID, listingID)
	return args.Error(0)
}
func (m *MockCartStore) Clear(ctx context.Context, userID int32) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockNotificationService
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) Notify(ctx context.Context, userID int32, title, message string, attrs map[string]string) error {
	args := m.Called(ctx, userID, title, message, attrs)
	return args.Error(0)
}
func (m *MockNotificationService) GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationService) MarkAsRead(ctx context.Context, userID, notificationID int32) error {
	args := m.Called(ctx, userID, notificationID)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendWelcome(ctx context.Context, to, name string, role domain.UserRole) error {
	args := m.Called(ctx, to, name, role)
	return args.Error(0)
}
func (m *MockEmailService) SendReceipt(ctx context.Context, to, name string, receipt *domain.Receipt) error {
	args := m.Called(ctx, to, name, receipt)
	return args.Error(0)
}
func (m *MockEmailService) SendReturnReminder(ctx context.Context, to, name string, tx *domain.Transaction) error {
	args := m.Called(ctx, to, name, tx)
	return args.Error(0)
}

// MockPushSender
type MockPushSender struct {
	mock.Mock
}

func (m *MockPushSender) Send(ctx context.Context, userID int32, title, body string, data map[string]string) error {
	args := m.Called(ctx, userID, title, body, data)
	return args.Error(0)
}

// MockMailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, msg service.Email) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// MockChatModel
type MockChatModel struct {
	mock.Mock
}

func (m *MockChatModel) Reply(ctx context.Context, history []service.AssistantTurn, prompt string) (string, error) {
	args := m.Called(ctx, history, prompt)
	return args.String(0), args.Error(1)
}
