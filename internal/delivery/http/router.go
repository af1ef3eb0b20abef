package http

import (
	"net/http"

	"petid/internal/delivery/http/handler"
	"petid/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router         *mux.Router
	authHandler    *handler.AuthHandler
	petHandler     *handler.PetHandler
	grantHandler   *handler.GrantHandler
	recordHandler  *handler.MedicalRecordHandler
	alertHandler   *handler.AlertHandler
	mediaHandler   *handler.MediaHandler
	authMiddleware *middleware.AuthMiddleware
	corsMiddleware *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	petHandler *handler.PetHandler,
	grantHandler *handler.GrantHandler,
	recordHandler *handler.MedicalRecordHandler,
	alertHandler *handler.AlertHandler,
	mediaHandler *handler.MediaHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:         mux.NewRouter(),
		authHandler:    authHandler,
		petHandler:     petHandler,
		grantHandler:   grantHandler,
		recordHandler:  recordHandler,
		alertHandler:   alertHandler,
		mediaHandler:   mediaHandler,
		authMiddleware: authMiddleware,
		corsMiddleware: corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register/owner", r.authHandler.RegisterOwner).Methods(http.MethodPost)
	auth.HandleFunc("/register/doctor", r.authHandler.RegisterDoctor).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)
	authProtected.HandleFunc("/profile", r.authHandler.UpdateProfile).Methods(http.MethodPut)
	authProtected.HandleFunc("/change-password", r.authHandler.ChangePassword).Methods(http.MethodPut)

	// Public card and alert routes. These are reachable by whoever scanned a
	// pet's QR tag, so none of them carry authentication.
	api.HandleFunc("/pets/card/{slug}", r.petHandler.GetCard).Methods(http.MethodGet)
	api.HandleFunc("/pets/{id}/location-alert", r.alertHandler.SendLocationAlert).Methods(http.MethodPost)
	api.HandleFunc("/pets/{id}/manual-location-alert", r.alertHandler.SendManualAlert).Methods(http.MethodPost)

	// Media (public, cacheable)
	api.HandleFunc("/media/{key:.+}", r.mediaHandler.Serve).Methods(http.MethodGet)

	// Medical records. Reads are shared between the pet's owner and granted
	// doctors; writes are doctor-only and enforced in the usecase through
	// the permission table.
	records := api.NewRoute().Subrouter()
	records.Use(r.authMiddleware.Authenticate)
	records.HandleFunc("/pets/{id}/medical-records", r.recordHandler.ListByPet).Methods(http.MethodGet)
	records.HandleFunc("/pets/{id}/medical-records", r.recordHandler.Create).Methods(http.MethodPost)
	records.HandleFunc("/medical-records/{recordID}", r.recordHandler.Update).Methods(http.MethodPut)
	records.HandleFunc("/medical-records/{recordID}", r.recordHandler.Delete).Methods(http.MethodDelete)

	// Owner routes
	owner := api.PathPrefix("/pets").Subrouter()
	owner.Use(r.authMiddleware.Authenticate)
	owner.Use(middleware.RequireOwner)
	owner.HandleFunc("", r.petHandler.CreatePet).Methods(http.MethodPost)
	owner.HandleFunc("", r.petHandler.ListPets).Methods(http.MethodGet)
	owner.HandleFunc("/{id}", r.petHandler.GetPet).Methods(http.MethodGet)
	owner.HandleFunc("/{id}", r.petHandler.UpdatePet).Methods(http.MethodPut)
	owner.HandleFunc("/{id}/toggle-lost", r.petHandler.ToggleLost).Methods(http.MethodPost)
	owner.HandleFunc("/{id}/qr", r.petHandler.DownloadQR).Methods(http.MethodGet)
	owner.HandleFunc("/{id}/avatar", r.petHandler.UploadAvatar).Methods(http.MethodPost)

	// Grant management (owner)
	owner.HandleFunc("/{id}/doctors", r.grantHandler.GrantDoctor).Methods(http.MethodPost)
	owner.HandleFunc("/{id}/doctors", r.grantHandler.ListPetDoctors).Methods(http.MethodGet)
	owner.HandleFunc("/{id}/doctors/{doctorID}", r.grantHandler.RevokeDoctor).Methods(http.MethodDelete)

	// Doctor directory (any authenticated user)
	directory := api.PathPrefix("/doctors").Subrouter()
	directory.Use(r.authMiddleware.Authenticate)
	directory.HandleFunc("", r.grantHandler.ListDoctors).Methods(http.MethodGet)

	// Doctor dashboard (doctor only)
	doctor := api.PathPrefix("/doctor").Subrouter()
	doctor.Use(r.authMiddleware.Authenticate)
	doctor.Use(middleware.RequireDoctor)
	doctor.HandleFunc("/pets", r.grantHandler.Dashboard).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
