package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"weddingbudget/internal/allocation"
	apperrors "weddingbudget/internal/errors"
	"weddingbudget/internal/logger"
	"weddingbudget/internal/metrics"
	"weddingbudget/internal/models"
	"weddingbudget/internal/pagination"
	"weddingbudget/internal/textgen"
)

const (
	defaultRecommendationTimeout = 4 * time.Second
	defaultPersistTimeout        = 10 * time.Second
)

// Fallback reasons reported when generated advice is discarded.
const (
	FallbackTimeout = "timeout"
	FallbackError   = "error"
	FallbackEmpty   = "empty"
)

// BudgetServiceConfig holds the optional collaborators of the budget service.
// A nil Generator keeps rule-based advice; a nil Metrics disables counters
// and a nil Audit skips audit entries for stored calculations.
type BudgetServiceConfig struct {
	Generator             textgen.Generator
	Metrics               *metrics.Metrics
	Audit                 AuditServicer
	RecommendationTimeout time.Duration
	PersistTimeout        time.Duration
}

// NamedFactor is one selectable option with its multiplier.
type NamedFactor struct {
	Key        string  `json:"key"`
	Multiplier float64 `json:"multiplier"`
}

// StyleOption lists the per-category overrides of a style.
type StyleOption struct {
	Key         string             `json:"key"`
	Multipliers map[string]float64 `json:"multipliers"`
}

// BudgetOptions describes everything the wizard can offer.
type BudgetOptions struct {
	Categories    []allocation.CategoryWeight `json:"categories"`
	VenueTypes    []NamedFactor               `json:"venue_types"`
	Styles        []StyleOption               `json:"styles"`
	Seasons       []NamedFactor               `json:"seasons"`
	Efficiency    allocation.Thresholds       `json:"efficiency"`
	Normalization allocation.Normalization    `json:"normalization"`
	Steps         []allocation.StepKey        `json:"steps"`
}

// CalculationDetail is a stored calculation with its decoded result.
type CalculationDetail struct {
	Calculation *models.BudgetCalculation `json:"calculation"`
	Result      *allocation.Result        `json:"result"`
}

// budgetService orchestrates the allocation engine, optional text
// generation and background persistence.
type budgetService struct {
	db                    *gorm.DB
	engine                *allocation.Engine
	tables                allocation.Tables
	generator             textgen.Generator
	metrics               *metrics.Metrics
	audit                 AuditServicer
	recommendationTimeout time.Duration
	persistTimeout        time.Duration
	inflight              sync.WaitGroup
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB, engine *allocation.Engine, cfg BudgetServiceConfig) BudgetServicer {
	if cfg.RecommendationTimeout <= 0 {
		cfg.RecommendationTimeout = defaultRecommendationTimeout
	}
	if cfg.PersistTimeout <= 0 {
		cfg.PersistTimeout = defaultPersistTimeout
	}
	return &budgetService{
		db:                    db,
		engine:                engine,
		tables:                engine.Tables(),
		generator:             cfg.Generator,
		metrics:               cfg.Metrics,
		audit:                 cfg.Audit,
		recommendationTimeout: cfg.RecommendationTimeout,
		persistTimeout:        cfg.PersistTimeout,
	}
}

// Options lists categories and the selectable factors in a stable order.
func (s *budgetService) Options() BudgetOptions {
	t := s.engine.Tables()

	opts := BudgetOptions{
		Categories:    t.Categories,
		VenueTypes:    sortedFactors(t.VenueTypes),
		Seasons:       sortedFactors(t.Seasons),
		Efficiency:    t.Efficiency,
		Normalization: t.Normalization,
		Steps:         append([]allocation.StepKey(nil), allocation.StepOrder...),
	}
	for key, profile := range t.Styles {
		m := make(map[string]float64, len(profile))
		for cat, v := range profile {
			m[cat] = v
		}
		opts.Styles = append(opts.Styles, StyleOption{Key: key, Multipliers: m})
	}
	sort.Slice(opts.Styles, func(i, j int) bool { return opts.Styles[i].Key < opts.Styles[j].Key })
	return opts
}

func sortedFactors(m map[string]float64) []NamedFactor {
	out := make([]NamedFactor, 0, len(m))
	for k, v := range m {
		out = append(out, NamedFactor{Key: k, Multiplier: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// ValidateStep decodes and validates one wizard step.
func (s *budgetService) ValidateStep(key string, payload []byte) (allocation.Step, error) {
	step, err := allocation.ParseStep(key, payload)
	if err != nil {
		if errors.Is(err, allocation.ErrUnknownStep) {
			return nil, apperrors.ErrUnknownWizardStep
		}
		return nil, apperrors.WithMessage(apperrors.ErrInvalidBudgetInput, "Invalid "+key+" payload")
	}
	if err := step.Validate(s.tables); err != nil {
		return nil, validationError(err)
	}
	return step, nil
}

// Calculate validates the input, runs the engine, optionally replaces the
// advice with generated text and stores the result in the background. The
// numeric result never depends on text generation or storage succeeding.
func (s *budgetService) Calculate(ctx context.Context, userID string, in allocation.Input) (*allocation.Result, error) {
	start := time.Now()

	var draft allocation.Draft
	var errs []error
	for _, step := range allocation.StepsFromInput(in) {
		if err := draft.Apply(s.tables, step); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, validationError(errors.Join(errs...))
	}
	in, err := draft.Build()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := s.engine.Calculate(in)
	s.generateAdvice(ctx, in, result)

	if s.metrics != nil {
		s.metrics.Calculations.WithLabelValues(string(result.Efficiency)).Inc()
		s.metrics.RecommendationSource.WithLabelValues(result.RecommendationSource).Inc()
		s.metrics.CalculationDuration.Observe(time.Since(start).Seconds())
	}

	if userID != "" {
		s.persist(userID, in, result)
	}
	return result, nil
}

type generation struct {
	text string
	err  error
}

// generateAdvice makes a single bounded attempt at generated advice. Any
// failure leaves the rule-based recommendations in place.
func (s *budgetService) generateAdvice(ctx context.Context, in allocation.Input, result *allocation.Result) {
	if s.generator == nil {
		return
	}

	genCtx, cancel := context.WithTimeout(ctx, s.recommendationTimeout)
	defer cancel()

	prompt := textgen.BuildPrompt(in, result)
	done := make(chan generation, 1)
	go func() {
		text, err := s.generator.Generate(genCtx, prompt)
		done <- generation{text: text, err: err}
	}()

	var g generation
	select {
	case g = <-done:
	case <-genCtx.Done():
		g.err = genCtx.Err()
	}

	var lines []string
	if g.err == nil {
		lines, g.err = textgen.ParseLines(g.text)
	}
	if g.err != nil {
		reason := fallbackReason(g.err)
		logger.Get().Warnw("text generation failed, using rule-based recommendations",
			"reason", reason,
			"error", g.err.Error(),
			"timeout", s.recommendationTimeout.String(),
		)
		if s.metrics != nil {
			s.metrics.RecommendationFallbacks.WithLabelValues(reason).Inc()
		}
		return
	}

	result.Recommendations = lines
	result.RecommendationSource = allocation.SourceGenerated
}

func fallbackReason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return FallbackTimeout
	case errors.Is(err, textgen.ErrEmptyResponse):
		return FallbackEmpty
	default:
		return FallbackError
	}
}

// persist snapshots the result and writes it without blocking the caller.
// Failures are logged and counted, never returned.
func (s *budgetService) persist(userID string, in allocation.Input, result *allocation.Result) {
	calc, err := models.NewBudgetCalculation(userID, in, result)
	if err != nil {
		s.persistFailed(userID, err)
		return
	}

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.persistTimeout)
		defer cancel()

		if err := s.db.WithContext(ctx).Create(calc).Error; err != nil {
			s.persistFailed(userID, err)
			return
		}
		logger.Get().Debugw("stored budget calculation",
			"user_id", userID,
			"calculation_id", calc.ID,
			"efficiency", calc.Efficiency,
		)
		if s.audit != nil {
			s.audit.Log(userID, AuditActionCalculateBudget, AuditResourceCalculation, calc.ID, "", map[string]any{
				"total_budget":          calc.TotalBudget,
				"guest_count":           calc.GuestCount,
				"efficiency":            calc.Efficiency,
				"recommendation_source": calc.RecommendationSource,
			})
		}
	}()
}

func (s *budgetService) persistFailed(userID string, err error) {
	logger.Get().Errorw("failed to store budget calculation", "error", err, "user_id", userID)
	if s.metrics != nil {
		s.metrics.PersistFailures.Inc()
	}
}

// Wait blocks until all background writes have finished.
func (s *budgetService) Wait() {
	s.inflight.Wait()
}

// ListCalculations returns the user's stored calculations, newest first.
func (s *budgetService) ListCalculations(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.BudgetCalculation], error) {
	page.Defaults()

	var total int64
	query := s.db.Model(&models.BudgetCalculation{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var calculations []models.BudgetCalculation
	if err := query.Order("created_at DESC, id DESC").Scopes(pagination.Paginate(page)).Find(&calculations).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(calculations, page.Page, page.PageSize, total)
	return &resp, nil
}

// GetCalculation loads one calculation owned by the user.
func (s *budgetService) GetCalculation(userID, calculationID string) (*CalculationDetail, error) {
	calc, err := s.findCalculation(userID, calculationID)
	if err != nil {
		return nil, err
	}
	result, err := calc.Decode()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &CalculationDetail{Calculation: calc, Result: result}, nil
}

// DeleteCalculation soft-deletes a calculation owned by the user.
func (s *budgetService) DeleteCalculation(userID, calculationID string) error {
	calc, err := s.findCalculation(userID, calculationID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(calc).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *budgetService) findCalculation(userID, calculationID string) (*models.BudgetCalculation, error) {
	var calc models.BudgetCalculation
	if err := s.db.Where("id = ? AND user_id = ?", calculationID, userID).First(&calc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCalculationNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &calc, nil
}

// validationError turns field errors into a single client-facing message.
func validationError(err error) error {
	fields := allocation.FieldErrors(err)
	if len(fields) == 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidBudgetInput, err.Error())
	}
	msgs := make([]string, len(fields))
	for i, f := range fields {
		msgs[i] = f.Error()
	}
	return apperrors.WithMessage(apperrors.ErrInvalidBudgetInput, strings.Join(msgs, "; "))
}
