// Package httpx holds the JSON response helpers shared by the gin handlers.
package httpx

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/fekuna/omnipos-billing-service/internal/apierr"
	"github.com/fekuna/omnipos-billing-service/internal/auth"
	"github.com/fekuna/omnipos-billing-service/internal/validation"
	"github.com/fekuna/omnipos-billing-service/pkg/locale"
	"github.com/fekuna/omnipos-billing-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var jsonNamesOnce sync.Once

// useJSONFieldNames makes binding errors report the json name of a field.
func useJSONFieldNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// Responder writes localized error bodies. The language comes from the
// request's Accept-Language header.
type Responder struct {
	tr     *locale.Translator
	logger logger.ZapLogger
}

func NewResponder(tr *locale.Translator, log logger.ZapLogger) *Responder {
	jsonNamesOnce.Do(useJSONFieldNames)
	return &Responder{tr: tr, logger: log}
}

func (r *Responder) t(c *gin.Context, id string, data map[string]any) string {
	return r.tr.T(c.GetHeader("Accept-Language"), id, data)
}

// PropertyID returns the caller's property or writes 401 and returns "".
func (r *Responder) PropertyID(c *gin.Context) string {
	id := auth.GetPropertyID(c.Request.Context())
	if id == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: r.t(c, apierr.MsgUnauthenticated, nil)})
	}
	return id
}

// BadRequest reports a body or query that could not be bound. Failed binding
// tags are answered like use case violations.
func (r *Responder) BadRequest(c *gin.Context, err error) {
	var fields validator.ValidationErrors
	if errors.As(err, &fields) {
		v := validation.Violations{}
		for _, fe := range fields {
			rule := validation.Invalid
			if fe.Tag() == "required" {
				rule = validation.Required
			}
			v.Add(fe.Field(), rule, nil)
		}
		r.Fail(c, nil, v)
		return
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error: r.t(c, validation.Invalid, map[string]any{"Field": "body"}),
		Details: map[string]string{
			"decode": err.Error(),
		},
	})
}

// Fail maps err through table and writes the matching response.
func (r *Responder) Fail(c *gin.Context, table apierr.Table, err error) {
	var v validation.Violations
	if errors.As(err, &v) {
		details := make(map[string]string, len(v))
		for field, viol := range v {
			details[field] = r.t(c, viol.Rule, viol.Data)
		}
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   r.t(c, validation.Invalid, map[string]any{"Field": "request"}),
			Details: details,
		})
		return
	}

	if rule, ok := table.Lookup(err); ok {
		var data map[string]any
		if rule.Data != nil {
			data = rule.Data(err)
		}
		c.JSON(rule.HTTPStatus(), ErrorResponse{Error: r.t(c, rule.MessageID, data)})
		return
	}

	r.logger.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: r.t(c, apierr.MsgInternal, nil)})
}
