package chi

import (
	"fmt"
	"net/http"

	"github.com/odhiyaty/odhiyaty/internal/domain"
)

type sendConfirmationRequest struct {
	Email     string         `json:"email"`
	OrderData map[string]any `json:"orderData"`
}

type sendConfirmationResponse struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
	Provider  string `json:"provider,omitempty"`
}

// SendOrderConfirmation handles POST /api/orders/send-confirmation.
func (s *Server) SendOrderConfirmation(w http.ResponseWriter, r *http.Request) {
	var req sendConfirmationRequest
	if !s.decode(w, r, &req, english) {
		return
	}
	if req.Email == "" || req.OrderData == nil {
		writeError(w, http.StatusBadRequest, "Email and order data required")
		return
	}

	res, err := s.svc.Orders.SendConfirmation(r.Context(), req.Email, orderFromRequest(req.OrderData))
	if err != nil {
		s.handleDomainError(w, err, english)
		return
	}
	writeJSON(w, http.StatusOK, sendConfirmationResponse{
		Success:   true,
		MessageID: res.MessageID,
		Provider:  res.Provider,
	})
}

func orderFromRequest(data map[string]any) domain.Order {
	var id string
	switch v := data["orderId"].(type) {
	case string:
		id = v
	case float64:
		id = fmt.Sprintf("%.0f", v)
	}
	return domain.Order{ID: id, Details: data}
}
