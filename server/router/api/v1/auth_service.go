package v1

import (
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hrygo/studybuddy/plugin/idp/oauth2"
	"github.com/hrygo/studybuddy/server/service/study"
)

const (
	oauthStateCookie = "studybuddy_oauth_state"
	oauthStateMaxAge = 10 * time.Minute
)

type signUpRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
}

type signInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	User        *userResponse `json:"user"`
	AccessToken string        `json:"accessToken"`
	ExpiresAt   int64         `json:"expiresAt"`
}

func convertAuthResponse(resp *study.AuthResponse) *authResponse {
	return &authResponse{
		User:        convertUser(resp.User),
		AccessToken: resp.AccessToken,
		ExpiresAt:   resp.ExpiresAt.Unix(),
	}
}

func (s *APIV1Service) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	resp, err := s.StudyService.SignUp(c.Request().Context(), req.Username, req.Password, req.Nickname)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, convertAuthResponse(resp))
}

func (s *APIV1Service) SignIn(c echo.Context) error {
	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	resp, err := s.StudyService.SignIn(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, convertAuthResponse(resp))
}

func (s *APIV1Service) SignInAnonymously(c echo.Context) error {
	resp, err := s.StudyService.SignInAnonymously(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, convertAuthResponse(resp))
}

// StartGoogleSignIn redirects to Google's consent screen with a fresh state bound to a cookie.
func (s *APIV1Service) StartGoogleSignIn(c echo.Context) error {
	if s.IdentityProvider == nil {
		return status.Errorf(codes.FailedPrecondition, "google sign-in is not configured")
	}
	state, err := oauth2.GenerateState()
	if err != nil {
		return status.Errorf(codes.Internal, "failed to generate state: %v", err)
	}
	c.SetCookie(&http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/api/v1/auth/oauth/google",
		MaxAge:   int(oauthStateMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.IsTLS(),
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusFound, s.IdentityProvider.AuthCodeURL(state))
}

// FinishGoogleSignIn exchanges the code and hands the access token to the web app in the URL fragment.
func (s *APIV1Service) FinishGoogleSignIn(c echo.Context) error {
	if s.IdentityProvider == nil {
		return status.Errorf(codes.FailedPrecondition, "google sign-in is not configured")
	}
	cookie, err := c.Cookie(oauthStateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != c.QueryParam("state") {
		return status.Errorf(codes.InvalidArgument, "invalid oauth state")
	}
	// The state is single use.
	c.SetCookie(&http.Cookie{Name: oauthStateCookie, Path: cookie.Path, MaxAge: -1})

	code := c.QueryParam("code")
	if code == "" {
		return status.Errorf(codes.InvalidArgument, "missing authorization code")
	}
	userInfo, err := s.IdentityProvider.ExchangeToken(c.Request().Context(), code)
	if err != nil {
		return status.Errorf(codes.Unauthenticated, "failed to sign in with google: %v", err)
	}
	resp, err := s.StudyService.SignInWithGoogle(c.Request().Context(), userInfo)
	if err != nil {
		return err
	}

	redirect := s.Profile.OAuthFinalRedirectURL
	if redirect == "" {
		redirect = "/"
	}
	fragment := url.Values{}
	fragment.Set("access_token", resp.AccessToken)
	fragment.Set("expires_at", resp.ExpiresAt.Format(time.RFC3339))
	return c.Redirect(http.StatusFound, redirect+"#"+fragment.Encode())
}
