package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"hazel-marketplace/internal/security"
	"hazel-marketplace/internal/service"
	"hazel-marketplace/internal/storage"
)

// Services bundles what the HTTP layer calls into.
type Services struct {
	Auth         service.AuthService
	Profile      service.ProfileService
	Listing      service.ListingService
	Favorite     service.FavoriteService
	Cart         service.CartService
	Checkout     service.CheckoutService
	Rental       service.RentalService
	Chat         service.ChatService
	Assistant    service.AssistantService
	Review       service.ReviewService
	Content      service.ContentService
	Admin        service.AdminService
	Notification service.NotificationService
	Events       EventStream
}

// EventStream upgrades a request to a live notification feed.
type EventStream interface {
	ServeWS(w http.ResponseWriter, r *http.Request, userID int32)
}

// NewRouter registers every route. Path templates must match the keys in
// config.EndpointSecurityConfig.
func NewRouter(svcs Services, tokens security.TokenManager, images storage.ImageStore, maxUploadBytes int64) *mux.Router {
	auth := NewAuthHandler(svcs.Auth)
	profile := NewProfileHandler(svcs.Profile, svcs.Favorite)
	listing := NewListingHandler(svcs.Listing, svcs.Review, maxUploadBytes)
	cart := NewCartHandler(svcs.Cart, svcs.Checkout)
	rental := NewRentalHandler(svcs.Rental)
	chat := NewChatHandler(svcs.Chat)
	support := NewSupportHandler(svcs.Assistant, svcs.Profile)
	notes := NewNotificationHandler(svcs.Notification)
	admin := NewAdminHandler(svcs.Admin, svcs.Profile, svcs.Listing, svcs.Content)
	image := NewImageHandler(images)

	r := mux.NewRouter()
	r.Use(RecoveryMiddleware, LoggingMiddleware, NewAuthMiddleware(tokens).Middleware)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	r.HandleFunc("/images/{key:.+}", image.Serve).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/auth/signup", auth.Signup).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", auth.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", auth.Refresh).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", auth.Logout).Methods(http.MethodPost)

	api.HandleFunc("/me", profile.GetMe).Methods(http.MethodGet)
	api.HandleFunc("/me", profile.UpdateMe).Methods(http.MethodPut)
	api.HandleFunc("/me/password", auth.ChangePassword).Methods(http.MethodPut)
	api.HandleFunc("/me/favorites", profile.ListFavorites).Methods(http.MethodGet)
	api.HandleFunc("/me/favorites", profile.AddFavorite).Methods(http.MethodPost)
	api.HandleFunc("/me/favorites/{itemId}", profile.RemoveFavorite).Methods(http.MethodDelete)

	api.HandleFunc("/categories", listing.ListCategories).Methods(http.MethodGet)
	api.HandleFunc("/listings", listing.Browse).Methods(http.MethodGet)
	api.HandleFunc("/listings", listing.Create).Methods(http.MethodPost)
	api.HandleFunc("/listings/search", listing.QuickSearch).Methods(http.MethodGet)
	api.HandleFunc("/listings/{id}", listing.Get).Methods(http.MethodGet)
	api.HandleFunc("/listings/{id}", listing.Update).Methods(http.MethodPut)
	api.HandleFunc("/listings/{id}", listing.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/listings/{id}/image", listing.UploadImage).Methods(http.MethodPost)
	api.HandleFunc("/listings/{id}/reviews", listing.ListReviews).Methods(http.MethodGet)
	api.HandleFunc("/listings/{id}/reviews", listing.SubmitReview).Methods(http.MethodPost)
	api.HandleFunc("/images", listing.StageImage).Methods(http.MethodPost)
	api.HandleFunc("/my/listings", listing.ListMine).Methods(http.MethodGet)

	api.HandleFunc("/cart", cart.Get).Methods(http.MethodGet)
	api.HandleFunc("/cart", cart.Clear).Methods(http.MethodDelete)
	api.HandleFunc("/cart/items", cart.AddItem).Methods(http.MethodPost)
	api.HandleFunc("/cart/items/{itemId}", cart.RemoveItem).Methods(http.MethodDelete)
	api.HandleFunc("/checkout/agreement", cart.Agreement).Methods(http.MethodGet)
	api.HandleFunc("/checkout", cart.Checkout).Methods(http.MethodPost)
	api.HandleFunc("/orders/{ref}/receipt", cart.Receipt).Methods(http.MethodGet)

	api.HandleFunc("/rentals", rental.ListRentals).Methods(http.MethodGet)
	api.HandleFunc("/lendings", rental.ListLendings).Methods(http.MethodGet)
	api.HandleFunc("/rentals/{id}/return", rental.MarkReturned).Methods(http.MethodPost)

	api.HandleFunc("/threads", chat.ListThreads).Methods(http.MethodGet)
	api.HandleFunc("/threads", chat.OpenThread).Methods(http.MethodPost)
	api.HandleFunc("/threads/{id}/messages", chat.Messages).Methods(http.MethodGet)
	api.HandleFunc("/threads/{id}/messages", chat.SendMessage).Methods(http.MethodPost)

	api.HandleFunc("/support/greeting", support.Greeting).Methods(http.MethodGet)
	api.HandleFunc("/support/chat", support.Chat).Methods(http.MethodPost)

	api.HandleFunc("/notifications", notes.List).Methods(http.MethodGet)
	api.HandleFunc("/notifications/{id}/read", notes.MarkAsRead).Methods(http.MethodPost)
	if svcs.Events != nil {
		api.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
			svcs.Events.ServeWS(w, r, ActorFromContext(r.Context()).UserID)
		}).Methods(http.MethodGet)
	}

	api.HandleFunc("/admin/overview", admin.Overview).Methods(http.MethodGet)
	api.HandleFunc("/admin/users", admin.ListUsers).Methods(http.MethodGet)
	api.HandleFunc("/admin/listings", admin.ListListings).Methods(http.MethodGet)
	api.HandleFunc("/admin/listings/{id}/availability", admin.SetAvailability).Methods(http.MethodPut)
	api.HandleFunc("/admin/listings/{id}", admin.DeleteListing).Methods(http.MethodDelete)
	api.HandleFunc("/admin/content/agreement", admin.GetAgreement).Methods(http.MethodGet)
	api.HandleFunc("/admin/content/agreement", admin.UpdateAgreement).Methods(http.MethodPut)

	return r
}
