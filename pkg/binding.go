package pkg

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RequiredQuery returns the query parameter name or a MissingParameterError when it was not sent or is empty.
func RequiredQuery(c *gin.Context, name string) (string, error) {
	v, ok := c.GetQuery(name)
	if !ok || IsEmpty(v) {
		return "", &MissingParameterError{Name: name}
	}
	return v, nil
}

// QueryInt64 parses an optional integer query parameter, falling back to def when absent.
func QueryInt64(c *gin.Context, name string, def int64) (int64, error) {
	raw, ok := c.GetQuery(name)
	if !ok || IsEmpty(raw) {
		return def, nil
	}
	return parseInt64(name, raw)
}

// RequiredQueryInt64 parses a required integer query parameter.
func RequiredQueryInt64(c *gin.Context, name string) (int64, error) {
	raw, err := RequiredQuery(c, name)
	if err != nil {
		return 0, err
	}
	return parseInt64(name, raw)
}

func parseInt64(name, raw string) (int64, error) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &TypeMismatchError{Name: name, Value: raw, RequiredType: "int64", Cause: err}
	}
	return n, nil
}

// BindJSON decodes a JSON request body into dst and validates it.
// Every failure is returned as one of the request failure kinds understood by ToErrorResponse.
func BindJSON(c *gin.Context, dst any) error {
	Validator()
	if ct := c.ContentType(); ct != binding.MIMEJSON {
		return &UnsupportedMediaTypeError{ContentType: ct, Supported: []string{binding.MIMEJSON}}
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return &ObjectValidationError{Errors: verrs}
		}
		if sizeErr := uploadSizeError(err); sizeErr != nil {
			return sizeErr
		}
		return &MalformedBodyError{Cause: err}
	}
	return nil
}

// FormFile returns the uploaded file of the multipart part name.
func FormFile(c *gin.Context, name string) (*multipart.FileHeader, error) {
	fh, err := c.FormFile(name)
	if err == nil {
		return fh, nil
	}
	if sizeErr := uploadSizeError(err); sizeErr != nil {
		return nil, sizeErr
	}
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return nil, &MissingPartError{PartName: name}
	case errors.Is(err, http.ErrNotMultipart):
		return nil, &UnsupportedMediaTypeError{ContentType: c.ContentType(), Supported: []string{binding.MIMEMultipartPOSTForm}}
	default:
		return nil, &MalformedBodyError{Cause: err}
	}
}

func uploadSizeError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return &UploadSizeExceededError{Limit: maxErr.Limit, Cause: err}
	}
	return nil
}
