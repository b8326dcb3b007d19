package chi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/odhiyaty/odhiyaty/internal/domain"
	logpkg "github.com/odhiyaty/odhiyaty/internal/logger"
	registrationuc "github.com/odhiyaty/odhiyaty/internal/usecase/registration"
)

type pendingRegistrationRequest struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	Role             string `json:"role"`
	Phone            string `json:"phone"`
	VerificationCode string `json:"verificationCode"`
	TokenExpiry      int64  `json:"tokenExpiry"`
}

type emailCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

// PendingRegistration handles POST /api/auth/pending-registration.
func (s *Server) PendingRegistration(w http.ResponseWriter, r *http.Request) {
	var req pendingRegistrationRequest
	if !s.decode(w, r, &req, arabic) {
		return
	}
	if rejectEmpty(w, arabic, req.Email, req.Password, req.Role) {
		return
	}

	err := s.svc.Registration.Pending(r.Context(), registrationuc.PendingRequest{
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Phone:    req.Phone,
		Code:     req.VerificationCode,
		Expiry:   req.TokenExpiry,
	})
	if err != nil {
		s.handleDomainError(w, err, arabic)
		return
	}
	logpkg.FromContext(r.Context()).Info("Pending registration stored", zap.String("email", req.Email))
	writeJSON(w, http.StatusOK, envelope{Success: true})
}

// CompleteRegistration handles POST /api/auth/complete-registration.
func (s *Server) CompleteRegistration(w http.ResponseWriter, r *http.Request) {
	var req emailCodeRequest
	if !s.decode(w, r, &req, english) {
		return
	}
	if req.Email == "" || req.Code == "" {
		writeError(w, http.StatusBadRequest, "Code and email required")
		return
	}

	u, err := s.svc.Registration.Complete(r.Context(), req.Email, req.Code)
	if err != nil {
		s.handleDomainError(w, err, english)
		return
	}
	logpkg.FromContext(r.Context()).Info("Registration completed", zap.String("uid", u.UID))
	writeSuccess(w, "Registration completed successfully")
}

// ResendPendingVerification handles POST /api/auth/resend-pending-verification.
func (s *Server) ResendPendingVerification(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !s.decode(w, r, &req, english) {
		return
	}
	if err := s.svc.Registration.ResendPending(r.Context(), req.Email); err != nil {
		s.handleDomainError(w, err, english)
		return
	}
	writeSuccess(w, "New verification code sent")
}

// CancelPendingRegistration handles POST /api/auth/cancel-pending-registration.
func (s *Server) CancelPendingRegistration(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !s.decode(w, r, &req, english) {
		return
	}
	if err := s.svc.Registration.CancelPending(r.Context(), req.Email); err != nil {
		s.handleDomainError(w, err, english)
		return
	}
	writeSuccess(w, "Pending registration canceled")
}

// SendVerification handles POST /api/auth/send-verification.
func (s *Server) SendVerification(w http.ResponseWriter, r *http.Request) {
	var req emailCodeRequest
	if !s.decode(w, r, &req, english) {
		return
	}
	if err := s.svc.Registration.SendVerification(r.Context(), req.Email, req.Code); err != nil {
		s.handleDomainError(w, err, english)
		return
	}
	writeSuccess(w, "Verification code sent")
}

// ResendVerification handles POST /api/auth/resend-verification.
func (s *Server) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !s.decode(w, r, &req, english) {
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "Email required")
		return
	}

	out, err := s.svc.Registration.ResendVerification(r.Context(), req.Email)
	if err != nil {
		s.handleDomainError(w, err, english)
		return
	}
	if out == registrationuc.AlreadyVerified {
		writeSuccess(w, "Email already verified")
		return
	}
	writeSuccess(w, "New verification code sent")
}

// VerifyEmail handles POST /api/auth/verify-email.
func (s *Server) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req emailCodeRequest
	if !s.decode(w, r, &req, english) {
		return
	}
	if req.Email == "" || req.Code == "" {
		writeError(w, http.StatusBadRequest, "Code and email required")
		return
	}

	out, err := s.svc.Registration.VerifyEmail(r.Context(), req.Email, req.Code)
	if err != nil {
		s.handleDomainError(w, err, english)
		return
	}
	if out == registrationuc.AlreadyVerified {
		writeSuccess(w, "Email already verified")
		return
	}
	writeSuccess(w, "Email verified successfully")
}

// DeleteUnverified handles POST /api/auth/delete-unverified.
func (s *Server) DeleteUnverified(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !s.decode(w, r, &req, english) {
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "Email required")
		return
	}

	out, err := s.svc.Registration.DeleteUnverified(r.Context(), req.Email)
	if err != nil {
		s.handleDomainError(w, err, english)
		return
	}
	if out == registrationuc.Cleared {
		writeSuccess(w, "Account cleared")
		return
	}
	writeSuccess(w, "Account deleted successfully")
}

// RequestPasswordReset handles POST /api/auth/request-password-reset.
func (s *Server) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	s.requestReset(w, r,
		"تم إرسال كود التحقق إلى بريدك الإلكتروني",
		"إذا كان البريد الإلكتروني مسجلاً، سيتم إرسال كود التحقق")
}

// ResendResetCode handles POST /api/auth/resend-reset-code.
func (s *Server) ResendResetCode(w http.ResponseWriter, r *http.Request) {
	s.requestReset(w, r,
		"تم إرسال كود جديد",
		"إذا كان البريد الإلكتروني مسجلاً، سيتم إرسال كود جديد")
}

func (s *Server) requestReset(w http.ResponseWriter, r *http.Request, sentMsg, unknownMsg string) {
	var req emailRequest
	if !s.decode(w, r, &req, arabic) {
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		writeError(w, http.StatusBadRequest, "البريد الإلكتروني مطلوب")
		return
	}

	sent, err := s.svc.Password.RequestReset(r.Context(), req.Email)
	if err != nil {
		s.handleDomainError(w, err, arabic)
		return
	}
	if !sent {
		writeSuccess(w, unknownMsg)
		return
	}
	writeSuccess(w, sentMsg)
}

// ResetPassword handles POST /api/auth/reset-password.
func (s *Server) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !s.decode(w, r, &req, arabic) {
		return
	}
	if rejectEmpty(w, arabic, req.Email, req.Code, req.NewPassword) {
		return
	}

	if err := s.svc.Password.Reset(r.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		s.handleDomainError(w, err, arabic)
		return
	}
	writeSuccess(w, "تم تغيير كلمة المرور بنجاح")
}

// rejectEmpty reports a missing field with the catalog's message.
func rejectEmpty(w http.ResponseWriter, lang catalog, fields ...string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			writeError(w, http.StatusBadRequest, lang.messages[domain.ErrInvalidRequest])
			return true
		}
	}
	return false
}
