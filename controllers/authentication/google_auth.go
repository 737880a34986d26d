package authentication

import (
	"context"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
	"gorm.io/gorm"

	"playlist-courses-backend/config"
	"playlist-courses-backend/controllers/respond"
)

const (
	oauthCookieName = "oauth-state"
	stateKey        = "state"
)

// userInfoFetcher returns the profile of the account behind token.
type userInfoFetcher func(ctx context.Context, ts oauth2.TokenSource) (*oauth2api.Userinfo, error)

// GoogleLogin runs the Google OAuth authorization-code flow and issues a
// server-side session on success.
type GoogleLogin struct {
	oauth    *oauth2.Config
	cookies  sessions.Store
	db       *gorm.DB
	sessions *SessionStore
	userInfo userInfoFetcher
}

func NewGoogleLogin(cfg config.GoogleConfig, cookieSecret string, db *gorm.DB, store *SessionStore) *GoogleLogin {
	cookies := sessions.NewCookieStore([]byte(cookieSecret))
	cookies.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   true,
		// Lax so the cookie survives the redirect back from Google.
		SameSite: http.SameSiteLaxMode,
	}

	return &GoogleLogin{
		oauth: &oauth2.Config{
			RedirectURL:  cfg.RedirectURL,
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		cookies:  cookies,
		db:       db,
		sessions: store,
		userInfo: fetchGoogleUserInfo,
	}
}

// HandleLogin redirects to Google's consent page.
func (g *GoogleLogin) HandleLogin(w http.ResponseWriter, r *http.Request) {
	session, _ := g.cookies.Get(r, oauthCookieName)
	state := uuid.NewString()
	session.Values[stateKey] = state
	if err := session.Save(r, w); err != nil {
		log.Printf("[auth] save oauth state: %v", err)
		respond.Message(w, http.StatusInternalServerError, "failed to start login")
		return
	}
	http.Redirect(w, r, g.oauth.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// HandleCallback exchanges the authorization code, provisions the user and
// returns a session id for the X-Session-ID header.
func (g *GoogleLogin) HandleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session, _ := g.cookies.Get(r, oauthCookieName)
	expected, _ := session.Values[stateKey].(string)
	if expected == "" || r.FormValue("state") != expected {
		log.Println("[auth] invalid OAuth state")
		respond.Message(w, http.StatusUnauthorized, "invalid OAuth state")
		return
	}
	delete(session.Values, stateKey)
	session.Options.MaxAge = -1
	if err := session.Save(r, w); err != nil {
		log.Printf("[auth] clear oauth state: %v", err)
	}

	token, err := g.oauth.Exchange(ctx, r.FormValue("code"))
	if err != nil {
		log.Printf("[auth] exchange code: %v", err)
		respond.Message(w, http.StatusUnauthorized, "failed to exchange authorization code")
		return
	}

	info, err := g.userInfo(ctx, g.oauth.TokenSource(ctx, token))
	if err != nil {
		log.Printf("[auth] fetch user info: %v", err)
		respond.Message(w, http.StatusBadGateway, "failed to fetch user info")
		return
	}
	if info.Email == "" {
		respond.Message(w, http.StatusUnauthorized, "Google account has no email")
		return
	}
	if info.VerifiedEmail != nil && !*info.VerifiedEmail {
		respond.Message(w, http.StatusUnauthorized, "Google account email is not verified")
		return
	}

	user, err := ProvisionUser(ctx, g.db, Identity{
		Subject:  info.Id,
		Email:    info.Email,
		Name:     info.Name,
		Picture:  info.Picture,
		Provider: "google",
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	s, err := g.sessions.Issue(ctx, user.ID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]interface{}{
		"user":          user,
		"session_token": s.Token,
		"expires_at":    s.ExpiresAt,
	})
}

func fetchGoogleUserInfo(ctx context.Context, ts oauth2.TokenSource) (*oauth2api.Userinfo, error) {
	service, err := oauth2api.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, err
	}
	return service.Userinfo.Get().Context(ctx).Do()
}
