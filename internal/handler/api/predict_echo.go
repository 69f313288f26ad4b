package api

import (
	"TargetCast/internal/domain/models"
	"TargetCast/internal/usecase"
	xhttp "TargetCast/pkg/http"
	xlogger "TargetCast/pkg/logger"

	"github.com/labstack/echo/v4"
)

const (
	missingParamsMessage = "Target price and date must be provided"
	invalidPriceMessage  = "Target price must be a positive number"
)

// PredictEchoHandler serves the price-target forecast endpoint.
type PredictEchoHandler struct {
	logger *xlogger.Logger
	orch   *usecase.ForecastOrchestrator
}

func NewPredictEchoHandler(logger *xlogger.Logger, orch *usecase.ForecastOrchestrator) *PredictEchoHandler {
	if logger == nil {
		logger = xlogger.NewNop()
	}
	return &PredictEchoHandler{logger: logger, orch: orch}
}

func (h *PredictEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/predict", h.Predict)
}

// Predict handles GET /predict?coin_id=&target_price=&target_date=.
func (h *PredictEchoHandler) Predict(c echo.Context) error {
	req := &models.PredictRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.ErrorResponse(c, xhttp.BadRequestError(rejectionMessage(c)).WithDetails(verr))
	}

	report, err := h.orch.Forecast(c.Request().Context(), usecase.ForecastRequest{
		CoinID:      req.CoinID,
		TargetPrice: req.TargetPrice,
		TargetDate:  req.TargetDate,
	})
	if err != nil {
		if models.KindOf(err) != models.KindInvalidInput {
			h.logger.Error("predict usecase error",
				xlogger.String("coin_id", req.CoinID),
				xlogger.Error(err),
			)
		}
		return xhttp.ErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, report)
}

// rejectionMessage distinguishes absent parameters from a target price that was
// sent but does not parse as a positive number. target_date is only checked for
// presence here; its format is checked downstream.
func rejectionMessage(c echo.Context) string {
	if c.QueryParam("target_price") == "" || c.QueryParam("target_date") == "" {
		return missingParamsMessage
	}
	return invalidPriceMessage
}
