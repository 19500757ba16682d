package v1

import (
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hrygo/studybuddy/plugin/avatar"
)

type updateUserRequest struct {
	Nickname *string `json:"nickname"`
	Username *string `json:"username"`
}

func (s *APIV1Service) GetCurrentUser(c echo.Context) error {
	user, err := s.StudyService.GetCurrentUser(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, convertUser(user))
}

func (s *APIV1Service) UpdateCurrentUser(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	user, err := s.StudyService.UpdateProfile(c.Request().Context(), req.Nickname, req.Username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, convertUser(user))
}

// SetAvatar accepts either a multipart form with a "file" field or the raw image as the body.
func (s *APIV1Service) SetAvatar(c echo.Context) error {
	data, err := readAvatarUpload(c)
	if err != nil {
		return err
	}
	user, err := s.StudyService.SetAvatar(c.Request().Context(), data)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, convertUser(user))
}

func readAvatarUpload(c echo.Context) ([]byte, error) {
	var reader io.Reader = c.Request().Body
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return nil, badRequest("missing file field")
		}
		if fileHeader.Size > avatar.MaxUploadSize {
			return nil, status.Errorf(codes.InvalidArgument, "avatar must be at most %d bytes", avatar.MaxUploadSize)
		}
		file, err := fileHeader.Open()
		if err != nil {
			return nil, badRequest("failed to open upload")
		}
		defer file.Close()
		reader = file
	}
	// One byte over the limit is enough for the processor to reject it.
	data, err := io.ReadAll(io.LimitReader(reader, avatar.MaxUploadSize+1))
	if err != nil {
		return nil, badRequest("failed to read upload")
	}
	return data, nil
}

func (s *APIV1Service) GetUserAvatar(c echo.Context) error {
	user, err := s.StudyService.GetUserByUID(c.Request().Context(), c.Param("uid"))
	if err != nil {
		return err
	}
	if data, ok := avatar.ParseDataURL(user.AvatarURL); ok {
		c.Response().Header().Set(echo.HeaderCacheControl, "public, max-age=3600")
		return c.Blob(http.StatusOK, "image/png", data)
	}
	if strings.HasPrefix(user.AvatarURL, "https://") || strings.HasPrefix(user.AvatarURL, "http://") {
		return c.Redirect(http.StatusFound, user.AvatarURL)
	}
	return status.Errorf(codes.NotFound, "user has no avatar")
}
