package handlers

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/anycompany/carmarket/internal/application"
	"github.com/anycompany/carmarket/internal/domain/entity"
	"github.com/anycompany/carmarket/internal/domain/policy"
	"github.com/anycompany/carmarket/internal/interface/middleware"
	"github.com/anycompany/carmarket/pkg/apperror"
	"github.com/anycompany/carmarket/pkg/pagination"
	"github.com/anycompany/carmarket/pkg/response"
	"github.com/anycompany/carmarket/pkg/validation"
)

func fail(c *gin.Context, logger *logrus.Logger, err error) {
	response.FromError(c, logger, err)
}

// bindBody binds JSON, urlencoded or multipart bodies according to Content-Type.
func bindBody(c *gin.Context, dst any) bool {
	if err := c.ShouldBind(dst); err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeValidation, validation.FirstMessage(err), validation.ToDetails(err))
		return false
	}
	return true
}

// uuidParam rejects ids that are not UUIDs, so names never reach id lookups.
func uuidParam(c *gin.Context, name string) (string, bool) {
	raw := c.Param(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeValidation, "invalid "+name, nil)
		return "", false
	}
	return id.String(), true
}

func pageParams(c *gin.Context) pagination.Params {
	return pagination.Parse(c.Query("limit"), c.Query("offset"))
}

// writeList answers with the bare array and reports the full count in X-Total-Count.
func writeList[T any](c *gin.Context, items []T, total int64) {
	c.Header("X-Total-Count", strconv.FormatInt(total, 10))
	c.JSON(http.StatusOK, items)
}

// deleted answers 200 with an empty body.
func deleted(c *gin.Context) {
	c.Status(http.StatusOK)
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/")
}

// formFiles opens the files uploaded under field. close must be called once the files are consumed.
func formFiles(c *gin.Context, field string) (files []*application.File, closeAll func(), err error) {
	closeAll = func() {}
	if !isMultipart(c) {
		return nil, closeAll, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, closeAll, apperror.Wrap(apperror.CodeValidation, err, "invalid multipart form")
	}
	var opened []multipart.File
	closeAll = func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}
	for _, fh := range form.File[field] {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, apperror.Wrap(apperror.CodeValidation, err, "unreadable file")
		}
		opened = append(opened, f)
		files = append(files, &application.File{Name: fh.Filename, ContentType: fh.Header.Get("Content-Type"), Body: f})
	}
	return files, closeAll, nil
}

// formFile returns the first file under field, or nil.
func formFile(c *gin.Context, field string) (*application.File, func(), error) {
	files, closeAll, err := formFiles(c, field)
	if err != nil || len(files) == 0 {
		return nil, closeAll, err
	}
	return files[0], closeAll, nil
}

// canActFor lets the account owner through, plus platform staff.
func canActFor(c *gin.Context, ownerUserID string) bool {
	actor := middleware.ActorFrom(c)
	if actor.UserID != "" && actor.UserID == ownerUserID {
		return true
	}
	return policy.CanManageAccounts(actor)
}

func forbid(c *gin.Context) {
	response.Error(c, http.StatusForbidden, apperror.CodeForbidden, "You do not have permission to perform this action", nil)
}

func parseRole(raw string) entity.Role {
	return entity.Role(strings.ToLower(strings.TrimSpace(raw)))
}
