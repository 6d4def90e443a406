package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"weddingbudget/internal/allocation"
	apperrors "weddingbudget/internal/errors"
	"weddingbudget/internal/middleware"
	"weddingbudget/internal/pagination"
	"weddingbudget/internal/services"
)

// BudgetHandler handles wedding budget wizard and calculation requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
	auditService  services.AuditServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer, auditService services.AuditServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService, auditService: auditService}
}

// CalculateRequest represents the completed wizard sent for calculation.
type CalculateRequest struct {
	TotalBudget int64  `json:"total_budget" binding:"required,gt=0"`
	GuestCount  int    `json:"guest_count" binding:"required,gt=0"`
	VenueType   string `json:"venue_type" binding:"required,venue_type"`
	Style       string `json:"style" binding:"required,wedding_style"`
	Season      string `json:"season" binding:"required,season"`
}

func (r CalculateRequest) input() allocation.Input {
	return allocation.Input{
		TotalBudget: r.TotalBudget,
		GuestCount:  r.GuestCount,
		VenueType:   r.VenueType,
		Style:       r.Style,
		Season:      r.Season,
	}
}

// StepPath binds the wizard step path parameter.
type StepPath struct {
	Step string `uri:"step" binding:"required,wizard_step"`
}

// StepResponse reports a validated wizard step.
type StepResponse struct {
	Step  allocation.StepKey `json:"step"`
	Valid bool               `json:"valid"`
	Value allocation.Step    `json:"value"`
}

// CalculationResponse wraps a calculation result.
type CalculationResponse struct {
	Result *allocation.Result `json:"result"`
}

// GetOptions lists what the wizard can offer.
// @Summary     Get budget options
// @Description List spending categories, venue types, styles, seasons and efficiency thresholds
// @Tags        budget
// @Produce     json
// @Success     200 {object} services.BudgetOptions "Wizard options"
// @Router      /budget/options [get]
func (h *BudgetHandler) GetOptions(c *gin.Context) {
	c.JSON(http.StatusOK, h.budgetService.Options())
}

// ValidateStep validates a single wizard step.
// @Summary     Validate a wizard step
// @Description Validate one step of the budget wizard (budget, guests, venue, style or season)
// @Tags        budget
// @Accept      json
// @Produce     json
// @Param       step path string true "Wizard step" Enums(budget, guests, venue, style, season)
// @Success     200 {object} StepResponse "Step is valid"
// @Failure     400 {object} ErrorResponse "Invalid step value"
// @Failure     404 {object} ErrorResponse "Unknown step"
// @Router      /budget/steps/{step} [post]
func (h *BudgetHandler) ValidateStep(c *gin.Context) {
	var path StepPath
	if err := c.ShouldBindUri(&path); err != nil {
		respondWithError(c, apperrors.ErrUnknownWizardStep)
		return
	}

	payload, err := c.GetRawData()
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	step, err := h.budgetService.ValidateStep(path.Step, payload)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, StepResponse{Step: step.Key(), Valid: true, Value: step})
}

// Calculate allocates a wedding budget. Authentication is optional; only
// calculations by a signed-in user are stored.
// @Summary     Calculate a budget
// @Description Distribute the total budget across categories, classify the budget per guest and return advice. A bearer token is optional and only tags the stored result with its owner.
// @Tags        budget
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CalculateRequest true "Wizard answers"
// @Success     200 {object} CalculationResponse "Calculation result"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid token"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget/calculate [post]
func (h *BudgetHandler) Calculate(c *gin.Context) {
	userID := c.GetString("userID")

	var req CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidBudgetInput, err.Error()))
		return
	}

	result, err := h.budgetService.Calculate(c.Request.Context(), userID, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.Set(middleware.EfficiencyKey, string(result.Efficiency))
	c.JSON(http.StatusOK, CalculationResponse{Result: result})
}

// ListCalculations lists the user's stored calculations.
// @Summary     List calculations
// @Description Get a paginated list of the authenticated user's calculations, newest first
// @Tags        budget
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number" minimum(1)
// @Param       page_size query int false "Items per page" minimum(1) maximum(100)
// @Success     200 {object} pagination.PageResponse[models.BudgetCalculation] "Calculations"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget/calculations [get]
func (h *BudgetHandler) ListCalculations(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	page.Defaults()

	resp, err := h.budgetService.ListCalculations(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetCalculation returns one stored calculation.
// @Summary     Get a calculation
// @Description Get a stored calculation with its full result
// @Tags        budget
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Calculation ID"
// @Success     200 {object} services.CalculationDetail "Calculation"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Calculation not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget/calculations/{id} [get]
func (h *BudgetHandler) GetCalculation(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.Set(middleware.CalculationIDKey, id)

	detail, err := h.budgetService.GetCalculation(userID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// DeleteCalculation removes a stored calculation.
// @Summary     Delete a calculation
// @Description Soft-delete one of the authenticated user's calculations
// @Tags        budget
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Calculation ID"
// @Success     200 {object} map[string]string "Calculation deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Calculation not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget/calculations/{id} [delete]
func (h *BudgetHandler) DeleteCalculation(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.Set(middleware.CalculationIDKey, id)

	if err := h.budgetService.DeleteCalculation(userID, id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionDeleteCalculation, services.AuditResourceCalculation, id, c.ClientIP(), nil)
	c.JSON(http.StatusOK, gin.H{"message": "Calculation deleted successfully"})
}
