package explain

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/clinicware/clinic-api/internal/handler"
	"github.com/clinicware/clinic-api/internal/service/explain"
)

type Handler struct {
	svc *explain.Service
	log zerolog.Logger
}

func NewHandler(svc *explain.Service, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, log: log.With().Str("component", "explain_handler").Logger()}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/ai/explain", h.Explain)
}

type explainRequest struct {
	Prescription json.RawMessage `json:"prescription"`
}

type explainResponse struct {
	Explanation string `json:"explanation"`
}

// Explain rejects only a request with no prescription payload at all.
// Anything else answers 200: provider failures and unexpected payload
// shapes degrade to the template explanation rather than an error.
func (h *Handler) Explain(c *gin.Context) {
	var req explainRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Prescription) == 0 || string(req.Prescription) == "null" {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("prescription data is required"))
		return
	}

	explanation := h.explain(c, req.Prescription)
	c.JSON(http.StatusOK, explainResponse{Explanation: explanation})
}

func (h *Handler) explain(c *gin.Context, raw json.RawMessage) (explanation string) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error().Interface("panic", r).Msg("explain pipeline panicked")
			explanation = explain.Fallback
		}
	}()

	input := explain.ParseInput(raw)
	return h.svc.Explain(c.Request.Context(), input)
}
