package chi

import (
	"errors"
	"net/http"

	"github.com/odhiyaty/odhiyaty/internal/domain"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// catalog maps sentinels to client-facing messages. Routes answer in the
// language the web client expects for them.
type catalog struct {
	messages   map[error]string
	unexpected string
}

var english = catalog{
	messages: map[error]string{
		domain.ErrInvalidRequest:     "Missing required fields",
		domain.ErrEmailInUse:         "Email already in use",
		domain.ErrUserNotFound:       "User not found",
		domain.ErrPendingNotFound:    "Pending registration not found",
		domain.ErrNotFound:           "Not found",
		domain.ErrInvalidCode:        "Invalid verification code",
		domain.ErrCodeExpired:        "Verification code expired. Please request a new verification code.",
		domain.ErrNoResetRequested:   "No password reset was requested",
		domain.ErrWeakPassword:       "Password must be at least 6 characters",
		domain.ErrForbidden:          "Cannot delete verified account",
		domain.ErrListingUnavailable: "This listing is not available",
		domain.ErrRateLimited:        "Too many requests. Please try again later.",
		domain.ErrEmailDelivery:      "Failed to send email",
		domain.ErrNotConfigured:      "Firebase Admin not configured. Please contact administrator.",
	},
	unexpected: "An error occurred. Please try again.",
}

var arabic = catalog{
	messages: map[error]string{
		domain.ErrInvalidRequest:     "جميع الحقول مطلوبة",
		domain.ErrEmailInUse:         "البريد الإلكتروني مستخدم بالفعل",
		domain.ErrUserNotFound:       "المستخدم غير موجود",
		domain.ErrPendingNotFound:    "لم يتم العثور على طلب التسجيل",
		domain.ErrNotFound:           "غير موجود",
		domain.ErrInvalidCode:        "كود التحقق غير صحيح",
		domain.ErrCodeExpired:        "انتهت صلاحية كود التحقق. يرجى طلب كود جديد.",
		domain.ErrNoResetRequested:   "لم يتم طلب إعادة تعيين كلمة المرور. يرجى طلب كود جديد.",
		domain.ErrWeakPassword:       "كلمة المرور يجب أن تكون 6 أحرف على الأقل",
		domain.ErrForbidden:          "غير مسموح",
		domain.ErrListingUnavailable: "هذا الإعلان غير متاح",
		domain.ErrRateLimited:        "طلبات كثيرة. يرجى المحاولة لاحقاً.",
		domain.ErrEmailDelivery:      "فشل في إرسال البريد الإلكتروني",
		domain.ErrNotConfigured:      "الخدمة غير متاحة حالياً",
	},
	unexpected: "حدث خطأ غير متوقع",
}

// sentinelOrder fixes the match order; a wrapped error may carry more than one sentinel.
var sentinelOrder = []error{
	domain.ErrInvalidRequest,
	domain.ErrEmailInUse,
	domain.ErrUserNotFound,
	domain.ErrPendingNotFound,
	domain.ErrNotFound,
	domain.ErrInvalidCode,
	domain.ErrCodeExpired,
	domain.ErrNoResetRequested,
	domain.ErrWeakPassword,
	domain.ErrForbidden,
	domain.ErrListingUnavailable,
	domain.ErrRateLimited,
	domain.ErrEmailDelivery,
	domain.ErrNotConfigured,
}

// message returns a sentinel message for the client without exposing internals.
func (c catalog) message(err error) string {
	for _, s := range sentinelOrder {
		if errors.Is(err, s) {
			return c.messages[s]
		}
	}
	return c.unexpected
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, msg)
		return true
	}
}

func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest),
		sentinelHandler(domain.ErrEmailInUse, http.StatusBadRequest),
		sentinelHandler(domain.ErrUserNotFound, http.StatusNotFound),
		sentinelHandler(domain.ErrPendingNotFound, http.StatusNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound),
		sentinelHandler(domain.ErrInvalidCode, http.StatusBadRequest),
		sentinelHandler(domain.ErrCodeExpired, http.StatusBadRequest),
		sentinelHandler(domain.ErrNoResetRequested, http.StatusBadRequest),
		sentinelHandler(domain.ErrWeakPassword, http.StatusBadRequest),
		sentinelHandler(domain.ErrForbidden, http.StatusForbidden),
		sentinelHandler(domain.ErrListingUnavailable, http.StatusForbidden),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests),
		sentinelHandler(domain.ErrEmailDelivery, http.StatusInternalServerError),
		sentinelHandler(domain.ErrNotConfigured, http.StatusServiceUnavailable),
	}
}
