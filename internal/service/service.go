package service

import (
	"context"
	"io"
	"time"

	"hazel-marketplace/internal/domain"
	"hazel-marketplace/internal/pricing"
	"hazel-marketplace/internal/security"
)

type SignupInput struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
	Role            domain.UserRole
	Phone           string
	Address         string
}

// AuthResult is returned by signup and login.
type AuthResult struct {
	User   *domain.User        `json:"user"`
	Tokens *security.TokenPair `json:"tokens"`
}

type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*AuthResult, error)
	// Login rejects accounts whose role differs from the portal they use.
	Login(ctx context.Context, email, password string, portal domain.UserRole) (*AuthResult, error)
	RefreshToken(ctx context.Context, refresh string) (*security.TokenPair, error)
	Logout(ctx context.Context, refresh string) error
	ChangePassword(ctx context.Context, userID int32, newPassword, confirm string) error
}

// ProfileUpdate carries editable profile fields. When FullName is set it
// replaces FirstName and LastName, split on the first space.
type ProfileUpdate struct {
	FullName      string
	FirstName     string
	LastName      string
	Phone         string
	Location      string
	Address       string
	ProfilePicURL string
}

type ProfileService interface {
	GetProfile(ctx context.Context, userID int32) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID int32, in ProfileUpdate) (*domain.User, error)
	ListProfiles(ctx context.Context, actor domain.Actor) ([]domain.User, error)
}

type BrowseQuery struct {
	Category string
	Term     string
	Page     int32
	PageSize int32
}

type ListingPage struct {
	Items      []domain.Listing `json:"items"`
	Page       int32            `json:"page"`
	TotalCount int32            `json:"total_count"`
	TotalPages int32            `json:"total_pages"`
}

// ListingDetail is a listing with its duration price options.
type ListingDetail struct {
	domain.Listing
	PriceOptions []pricing.DurationOption `json:"price_options"`
}

type ListingInput struct {
	Title            string
	FullTitle        string
	Category         string
	Description      string
	PricePerDayCents int64
	ImageURL         string
	Tags             []string
	TrackingTagID    string
	OwnerTerms       string
}

type ListingService interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	Browse(ctx context.Context, viewer domain.Actor, q BrowseQuery) (*ListingPage, error)
	QuickSearch(ctx context.Context, viewer domain.Actor, term string) ([]domain.Listing, error)
	Get(ctx context.Context, viewer domain.Actor, id int32) (*ListingDetail, error)
	ListMine(ctx context.Context, actor domain.Actor) ([]domain.Listing, error)
	// ListAll is the admin listing management view, unavailable items included.
	ListAll(ctx context.Context, actor domain.Actor) ([]domain.Listing, error)
	Create(ctx context.Context, actor domain.Actor, in ListingInput) (*domain.Listing, error)
	Update(ctx context.Context, actor domain.Actor, id int32, in ListingInput) (*domain.Listing, error)
	Delete(ctx context.Context, actor domain.Actor, id int32) error
	SetAvailability(ctx context.Context, actor domain.Actor, id int32, available bool) (*domain.Listing, error)
	// StageImage stores an image before its listing exists and returns its URL.
	StageImage(ctx context.Context, actor domain.Actor, contentType string, r io.Reader) (string, error)
	UploadImage(ctx context.Context, actor domain.Actor, id int32, contentType string, r io.Reader) (*domain.Listing, error)
}

type FavoriteService interface {
	Add(ctx context.Context, userID, listingID int32) error
	Remove(ctx context.Context, userID, listingID int32) error
	List(ctx context.Context, userID int32) ([]domain.Listing, error)
}

type AddToCartInput struct {
	ListingID      int32
	DurationDays   int32
	StartDate      string
	DeliveryOption domain.DeliveryOption
}

type CartService interface {
	Get(ctx context.Context, actor domain.Actor) (*domain.Cart, error)
	AddItem(ctx context.Context, actor domain.Actor, in AddToCartInput) (*domain.Cart, error)
	RemoveItem(ctx context.Context, actor domain.Actor, listingID int32) (*domain.Cart, error)
	Clear(ctx context.Context, actor domain.Actor) error
}

type PaymentDetails struct {
	CardholderName string
	CardNumber     string
	Expiry         string // MM/YY
	CVV            string
}

type CheckoutInput struct {
	Agreed  bool
	Payment PaymentDetails
}

type CheckoutService interface {
	PreviewAgreement(ctx context.Context, actor domain.Actor) (string, error)
	Checkout(ctx context.Context, actor domain.Actor, in CheckoutInput) (*domain.Receipt, error)
	Receipt(ctx context.Context, actor domain.Actor, orderRef string) (*domain.Receipt, error)
}

type RentalService interface {
	ListRentals(ctx context.Context, renterID int32) (*domain.RentalHistory, error)
	ListLendings(ctx context.Context, ownerID int32) (*domain.RentalHistory, error)
	MarkReturned(ctx context.Context, actor domain.Actor, transactionID int32) (*domain.Transaction, error)
	MarkOverdueRentals(ctx context.Context, now time.Time) (int64, error)
	SendReturnReminders(ctx context.Context, now time.Time) (int, error)
}

type ChatService interface {
	OpenThread(ctx context.Context, actor domain.Actor, partnerID int32, listingID *int32) (*domain.ChatThread, error)
	SendMessage(ctx context.Context, actor domain.Actor, threadID int32, content string) (*domain.ChatMessage, error)
	ListThreads(ctx context.Context, userID int32) ([]domain.ThreadSummary, error)
	Messages(ctx context.Context, userID, threadID int32) ([]domain.ChatMessage, error)
}

// AssistantTurn is one earlier exchange in a support conversation.
type AssistantTurn struct {
	Role string `json:"role"` // "user" or "model"
	Text string `json:"text"`
}

type AssistantService interface {
	Greeting(ctx context.Context, user *domain.User) string
	// Ask never fails on model errors; it answers with a fallback message.
	Ask(ctx context.Context, history []AssistantTurn, prompt string) (string, error)
}

type ReviewList struct {
	Reviews       []domain.Review `json:"reviews"`
	Count         int             `json:"count"`
	AverageRating float64         `json:"average_rating"`
}

type ReviewService interface {
	Submit(ctx context.Context, actor domain.Actor, listingID, rating int32, text string) (*domain.Review, error)
	List(ctx context.Context, listingID int32) (*ReviewList, error)
}

type ContentService interface {
	GetAgreementTemplate(ctx context.Context) (*domain.SiteContent, error)
	UpdateAgreementTemplate(ctx context.Context, actor domain.Actor, body string) (*domain.SiteContent, error)
}

type AdminService interface {
	Overview(ctx context.Context, actor domain.Actor) (*domain.AdminOverview, error)
}

type NotificationService interface {
	// Notify stores an in-app notification and pushes it when push is configured.
	Notify(ctx context.Context, userID int32, title, message string, attrs map[string]string) error
	GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}

type EmailService interface {
	SendWelcome(ctx context.Context, to, name string, role domain.UserRole) error
	SendReceipt(ctx context.Context, to, name string, receipt *domain.Receipt) error
	SendReturnReminder(ctx context.Context, to, name string, tx *domain.Transaction) error
}

// PushSender delivers a push message to every device of a user.
type PushSender interface {
	Send(ctx context.Context, userID int32, title, body string, data map[string]string) error
}
