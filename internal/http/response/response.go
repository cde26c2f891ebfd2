package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/profileforms-backend/internal/modules/profiles/schema"
	"github.com/yungbote/profileforms-backend/internal/modules/profiles/validation"
	"github.com/yungbote/profileforms-backend/internal/platform/apierr"
)

type APIError struct {
	Message string            `json:"message"`
	Code    string            `json:"code,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
			Fields:  fieldsOf(err),
		},
	})
}

// RespondServiceError maps a service error to its status and code.
func RespondServiceError(c *gin.Context, err error) {
	e := FromError(err)
	RespondError(c, e.Status, e.Code, err)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

// FromError classifies err by its aggregate error code.
func FromError(err error) *apierr.Error {
	return apierr.Classify(err)
}

func fieldsOf(err error) map[string]string {
	if err == nil {
		return nil
	}
	var fe validation.FieldErrors
	if errors.As(err, &fe) {
		return fe.ByField()
	}
	var des schema.DefinitionErrors
	if errors.As(err, &des) {
		out := make(map[string]string, len(des))
		for _, e := range des {
			addDefinitionField(out, e)
		}
		return out
	}
	out := map[string]string{}
	addDefinitionField(out, err)
	if len(out) == 0 {
		return nil
	}
	return out
}

func addDefinitionField(out map[string]string, err error) {
	var rx *schema.RegexConfigError
	var de *schema.DefinitionError
	switch {
	case errors.As(err, &rx):
		out[rx.Path] = "invalid pattern"
	case errors.As(err, &de):
		if prev, ok := out[de.Path]; ok {
			out[de.Path] = prev + "; " + de.Reason
			return
		}
		out[de.Path] = de.Reason
	}
}
