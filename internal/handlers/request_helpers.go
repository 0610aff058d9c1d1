package handlers

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

var tagNameOnce sync.Once

// useJSONFieldNames makes validation errors report json names, so the
// missing field list matches the request body.
func useJSONFieldNames() {
	tagNameOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
}

// bindJSON decodes the body and answers 400 on failure. Missing required
// fields are listed by name.
func bindJSON(c *gin.Context, req any) bool {
	useJSONFieldNames()

	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		var missing, invalid []string
		for _, fe := range ve {
			if fe.Tag() == "required" {
				missing = append(missing, fe.Field())
			} else {
				invalid = append(invalid, fe.Field())
			}
		}
		if len(missing) > 0 {
			httperr.WriteError(c, httperr.ErrValidation("missing_required_fields", missing...))
			return false
		}
		httperr.WriteError(c, httperr.ErrValidation("invalid_request", invalid...))
		return false
	}

	httperr.BadRequest(c, "invalid_request", httperr.Message("invalid_request"))
	return false
}

// idParam reads a positive :id path parameter.
func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", httperr.Message("invalid_id"))
		return 0, false
	}
	return uint(id), true
}

// respondError renders business errors with their status; anything else is
// logged and hidden behind a 500.
func respondError(c *gin.Context, err error, code string) {
	if httperr.WriteError(c, err) {
		return
	}
	zerolog.Ctx(c.Request.Context()).Error().
		Err(err).
		Str("error_code", code).
		Msg("request failed")
	httperr.Internal(c, code, httperr.Message("internal_error"))
}
