package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"playlist-courses-backend/config"
	"playlist-courses-backend/controllers"
	"playlist-courses-backend/controllers/authentication"
	"playlist-courses-backend/controllers/courses"
	"playlist-courses-backend/controllers/httpCors"
	"playlist-courses-backend/controllers/middleware"
	"playlist-courses-backend/controllers/notes"
	"playlist-courses-backend/controllers/progress"
	"playlist-courses-backend/services"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "path to a YAML or JSON config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := config.InitDB(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database handle: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Printf("Connected to %s database", cfg.DBDriver)

	ctx := context.Background()

	var provider services.MetadataProvider
	if cfg.YouTubeAPIKey != "" {
		yt, err := services.NewYouTubeProvider(ctx, cfg.YouTubeAPIKey, cfg.YouTubeEndpoint)
		if err != nil {
			log.Fatalf("Failed to create YouTube client: %v", err)
		}
		provider = yt
	} else {
		log.Println("WARNING: YOUTUBE_API_KEY not set, course import is disabled")
		provider = unconfiguredProvider{}
	}

	sessionStore := authentication.NewSessionStore(db, cfg.SessionTTL)
	gate := &authentication.Gate{Sessions: sessionStore}
	if cfg.OIDC.IssuerURL != "" {
		verifier, err := authentication.NewTokenVerifier(ctx, cfg.OIDC.IssuerURL, cfg.OIDC.ClientID, db)
		if err != nil {
			// Session ids keep working without the token strategy.
			log.Printf("WARNING: identity tokens disabled: %v", err)
		} else {
			gate.Tokens = verifier
		}
	}

	courseHandler := courses.NewCourseHandler(services.NewImportService(db, provider), services.NewCourseService(db))
	progressHandler := progress.NewProgressHandler(services.NewProgressService(db))
	noteHandler := notes.NewNoteHandler(services.NewNoteService(db))
	importLimiter := middleware.NewUserRateLimiter(cfg.ImportRatePerMinute)

	r := mux.NewRouter()
	r.Use(middleware.Logging)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/", controllers.Root).Methods("GET")
	api.HandleFunc("/test", controllers.StatusHandler(cfg.YouTubeAPIKey != "")).Methods("GET")

	if cfg.Google.ClientID != "" {
		if cfg.SessionSecret == "" {
			log.Fatal("SESSION_SECRET is required for Google login")
		}
		login := authentication.NewGoogleLogin(cfg.Google, cfg.SessionSecret, db, sessionStore)
		api.HandleFunc("/auth/google/login", login.HandleLogin).Methods("GET")
		api.HandleFunc("/auth/google/callback", login.HandleCallback).Methods("GET")
	}

	protected := api.NewRoute().Subrouter()
	protected.Use(gate.RequireAuth)

	protected.HandleFunc("/auth/profile", authentication.GetProfile).Methods("GET")
	protected.HandleFunc("/auth/logout", sessionStore.Logout).Methods("POST")

	protected.HandleFunc("/courses", importLimiter.Limit(courseHandler.CreateCourse)).Methods("POST")
	protected.HandleFunc("/courses", courseHandler.ListCourses).Methods("GET")
	protected.HandleFunc("/courses/{id}", courseHandler.GetCourse).Methods("GET")
	protected.HandleFunc("/courses/{id}", courseHandler.UpdateCourse).Methods("PUT")
	protected.HandleFunc("/courses/{id}", courseHandler.DeleteCourse).Methods("DELETE")

	protected.HandleFunc("/progress", progressHandler.UpdateProgress).Methods("POST")
	protected.HandleFunc("/progress/{course_id}", progressHandler.GetCourseProgress).Methods("GET")

	protected.HandleFunc("/notes", noteHandler.CreateNote).Methods("POST")
	protected.HandleFunc("/notes/{video_id}", noteHandler.ListVideoNotes).Methods("GET")
	protected.HandleFunc("/notes/{id}", noteHandler.UpdateNote).Methods("PUT")
	protected.HandleFunc("/notes/{id}", noteHandler.DeleteNote).Methods("DELETE")

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpCors.CorsSettings(cfg.AllowedOrigins).Handler(r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server listening on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	if err := sqlDB.Close(); err != nil {
		log.Printf("Closing database: %v", err)
	}
	log.Println("Server stopped")
}

// unconfiguredProvider fails every call; it stands in when no API key is set.
type unconfiguredProvider struct{}

func (unconfiguredProvider) GetPlaylist(context.Context, string) (*services.PlaylistInfo, error) {
	return nil, &services.ProviderError{Op: "playlists.list", Err: errors.New("YouTube API key not configured")}
}

func (unconfiguredProvider) ListPlaylistItems(context.Context, string, string) (*services.PlaylistPage, error) {
	return nil, &services.ProviderError{Op: "playlistItems.list", Err: errors.New("YouTube API key not configured")}
}
