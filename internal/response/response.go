// Package response builds the {code, msg, data?} envelope shared by every
// endpoint. Errors are signaled inside the envelope body while the transport
// status stays 200; clients of this API dispatch on the envelope code, not
// on HTTP status.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/surdiana/userhub/internal/constants"
	apperrors "github.com/surdiana/userhub/internal/errors"
	"github.com/surdiana/userhub/internal/i18n"
)

type Envelope struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
}

// Lang resolves the locale for a request from the lang query parameter.
func Lang(c *gin.Context) string {
	return c.DefaultQuery(constants.QueryParamLang, constants.DefaultLang)
}

// OK writes a success envelope. A nil data yields {code, msg} only.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{
		Code: apperrors.SuccessCode,
		Msg:  i18n.Message(apperrors.SuccessKey, Lang(c)),
		Data: data,
	})
}

// Fail writes an error envelope. Unknown errors are mapped to the generic
// internal kind so no raw error text reaches the client.
func Fail(c *gin.Context, err error) {
	appErr := apperrors.AsAppError(err)
	c.JSON(http.StatusOK, Envelope{
		Code: appErr.Code,
		Msg:  i18n.Message(appErr.Key, Lang(c)),
	})
}

// FailWithDetails writes an error envelope carrying extra detail in data,
// used for request-validation feedback.
func FailWithDetails(c *gin.Context, err error, details any) {
	appErr := apperrors.AsAppError(err)
	c.JSON(http.StatusOK, Envelope{
		Code: appErr.Code,
		Msg:  i18n.Message(appErr.Key, Lang(c)),
		Data: details,
	})
}
