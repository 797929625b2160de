package auth

import (
	"net/http"

	dto "github.com/dohkar/dohkar-api/internal/http/dto/auth"
	httperrors "github.com/dohkar/dohkar-api/internal/http/errors"
	"github.com/dohkar/dohkar-api/internal/http/helpers"
	svc "github.com/dohkar/dohkar-api/internal/http/services/auth"
	"github.com/dohkar/dohkar-api/internal/observability/logger"
)

const msgCodeSent = "Код отправлен"

// CodeController maneja el login por código SMS.
type CodeController struct {
	session svc.Session
}

func NewCodeController(session svc.Session) *CodeController {
	return &CodeController{session: session}
}

// SendCode maneja POST /api/auth/send-code
func (c *CodeController) SendCode(w http.ResponseWriter, r *http.Request) {
	var req dto.SendCodeRequest
	if err := helpers.BindJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, r, err)
		return
	}
	if err := c.session.SendCode(r.Context(), req.Phone, helpers.ClientIP(r)); err != nil {
		writeAuthError(w, r, err, c.session.CodeWindow())
		return
	}
	helpers.WriteData(w, http.StatusOK, dto.SendCodeResponse{Message: msgCodeSent})
}

// VerifyCode maneja POST /api/auth/phone/verify
func (c *CodeController) VerifyCode(w http.ResponseWriter, r *http.Request) {
	log := logger.From(r.Context()).With(logger.Layer("controller"), logger.Op("CodeController.VerifyCode"))

	var req dto.VerifyCodeRequest
	if err := helpers.BindJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, r, err)
		return
	}
	res, err := c.session.VerifyCode(r.Context(), req.Phone, req.Code)
	if err != nil {
		log.Debug("verify failed", logger.Phone(req.Phone), logger.Err(err))
		writeAuthError(w, r, err, 0)
		return
	}
	helpers.WriteData(w, http.StatusOK, res)
}
