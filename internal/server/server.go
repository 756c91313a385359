// Package server exposes the engine over a small JSON API. The UI layer is an
// external collaborator; this surface only accepts a plan payload plus an
// optional reference date and returns the derived figures.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mrosner/paycycle/internal/config"
	"github.com/mrosner/paycycle/internal/engine"
	"github.com/mrosner/paycycle/pkg/constants"
	"github.com/mrosner/paycycle/pkg/mathutil"
	"github.com/mrosner/paycycle/pkg/output"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type handler struct {
	logger      *zap.Logger
	maxBodySize int64
	version     string
}

// NewHandler constructs the HTTP handler that serves the plan API.
func NewHandler(logger *zap.Logger, maxBodySize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodyBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, maxBodySize: maxBodySize, version: trimmedVersion}

	mux := http.NewServeMux()

	// Aggregate statistics for a plan at a reference date
	mux.HandleFunc("/api/plan/stats", h.handleStats)

	// Cycle-by-cycle projection for a plan
	mux.HandleFunc("/api/plan/projection", h.handleProjection)

	// Plan normalization endpoint for editor downloads
	mux.HandleFunc("/api/plan/export", h.handleExport)

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	return mux
}

type statsResponse struct {
	PayDay          int          `json:"payDay"`
	ReferenceDate   string       `json:"referenceDate"`
	TotalIncome     float64      `json:"totalIncome"`
	TotalExpenses   float64      `json:"totalExpenses"`
	Remaining       float64      `json:"remaining"`
	RemainingCycle  float64      `json:"remainingThisCycle"`
	CurrentPosition int          `json:"currentPosition"`
	ActiveCredits   creditTotals `json:"activeCredits"`
	Items           []itemValue  `json:"items"`
	Warnings        []string     `json:"warnings,omitempty"`
	Duration        string       `json:"duration"`
}

type creditTotals struct {
	Count          int     `json:"count"`
	TotalMonthly   float64 `json:"totalMonthly"`
	TotalRemaining float64 `json:"totalRemaining"`
}

type itemValue struct {
	Name           string       `json:"name"`
	Kind           string       `json:"kind"`
	DayOfMonth     int          `json:"dayOfMonth"`
	Position       int          `json:"position"`
	ResolvedAmount float64      `json:"resolvedAmount"`
	Credit         *creditValue `json:"credit,omitempty"`
}

type creditValue struct {
	MonthlyAmount     float64 `json:"monthlyAmount"`
	TotalAmount       float64 `json:"totalAmount"`
	RemainingAmount   float64 `json:"remainingAmount"`
	RemainingPayments int     `json:"remainingPayments"`
	PaymentsMade      int     `json:"paymentsMade"`
	Active            bool    `json:"active"`
	ProgressPercent   float64 `json:"progressPercent"`
	StartDate         string  `json:"startDate"`
	EndDate           string  `json:"endDate"`
}

type projectionResponse struct {
	PayDay        int          `json:"payDay"`
	ReferenceDate string       `json:"referenceDate"`
	Cycles        []cycleValue `json:"cycles"`
	CSV           string       `json:"csv"`
	Warnings      []string     `json:"warnings,omitempty"`
	Duration      string       `json:"duration"`
}

type cycleValue struct {
	Index         int      `json:"index"`
	Month         string   `json:"month"`
	Income        float64  `json:"income"`
	Expenses      float64  `json:"expenses"`
	Balance       float64  `json:"balance"`
	EndingCredits []string `json:"endingCredits,omitempty"`
}

func (h *handler) handleStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	plan, at, ok := h.readPlan(w, r, "server.handleStats")
	if !ok {
		return
	}

	warnings := plan.Validate()
	items, err := plan.Items()
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), "server.handleStats")
		return
	}

	payDay := plan.PayDayOrDefault()
	stats := engine.MonthlyStats(items, at, payDay)

	// Currency figures are rounded at this boundary so installments with
	// repeating decimals serialize as clean two-decimal values.
	response := statsResponse{
		PayDay:          payDay,
		ReferenceDate:   at.Format(constants.DateLayout),
		TotalIncome:     mathutil.Round(stats.TotalIncome),
		TotalExpenses:   mathutil.Round(stats.TotalExpenses),
		Remaining:       mathutil.Round(stats.Remaining),
		RemainingCycle:  mathutil.Round(stats.RemainingThisCycle),
		CurrentPosition: stats.CurrentPosition,
		ActiveCredits: creditTotals{
			Count:          stats.ActiveCredits.Count,
			TotalMonthly:   mathutil.Round(stats.ActiveCredits.TotalMonthly),
			TotalRemaining: mathutil.Round(stats.ActiveCredits.TotalRemaining),
		},
		Items:    buildItemValues(stats.Items, at, payDay),
		Warnings: warnings,
		Duration: time.Since(start).String(),
	}

	h.logger.Info("stats computed",
		zap.String("op", "server.handleStats"),
		zap.Int("items", len(items)),
		zap.Duration("duration", time.Since(start)),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleProjection(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	plan, at, ok := h.readPlan(w, r, "server.handleProjection")
	if !ok {
		return
	}

	warnings := plan.Validate()
	items, err := plan.Items()
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), "server.handleProjection")
		return
	}

	cycles := plan.CyclesOrDefault()
	if raw := r.URL.Query().Get("cycles"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid cycles parameter %q", raw), "server.handleProjection")
			return
		}
		cycles = parsed
	}

	payDay := plan.PayDayOrDefault()
	projection := engine.Project(h.logger, items, at, cycles, payDay)

	response := projectionResponse{
		PayDay:        payDay,
		ReferenceDate: at.Format(constants.DateLayout),
		Cycles:        buildCycleValues(projection),
		CSV:           output.ProjectionCSVString(projection),
		Warnings:      warnings,
		Duration:      time.Since(start).String(),
	}

	h.logger.Info("projection computed",
		zap.String("op", "server.handleProjection"),
		zap.Int("items", len(items)),
		zap.Int("cycles", cycles),
		zap.Duration("duration", time.Since(start)),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	body, ok := h.readBody(w, r, "server.handleExport")
	if !ok {
		return
	}

	var payload map[string]interface{}
	if err := yaml.Unmarshal(body, &payload); err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode plan: %v", err), "server.handleExport")
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	yamlBytes, err := yaml.Marshal(payload)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to encode plan: %v", err), "server.handleExport")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"planYaml": string(yamlBytes),
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// readPlan reads and decodes the request body as a plan (YAML or JSON) and
// resolves the reference date from the optional at query parameter.
func (h *handler) readPlan(w http.ResponseWriter, r *http.Request, op string) (*config.Plan, time.Time, bool) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return nil, time.Time{}, false
	}

	body, ok := h.readBody(w, r, op)
	if !ok {
		return nil, time.Time{}, false
	}

	plan, err := config.LoadPlanFromReader(bytes.NewReader(body))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), op)
		return nil, time.Time{}, false
	}

	at := time.Now()
	if raw := r.URL.Query().Get("at"); raw != "" {
		parsed, err := time.Parse(constants.DateLayout, raw)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid at parameter %q, expected %s", raw, constants.DateLayout), op)
			return nil, time.Time{}, false
		}
		// Anchor at midday so date-level comparisons behave like every other
		// constructed date.
		at = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), constants.MiddayHour, 0, 0, 0, time.UTC)
	}

	return plan, at, true
}

func (h *handler) readBody(w http.ResponseWriter, r *http.Request, op string) ([]byte, bool) {
	if h.maxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxBodySize), op)
			return nil, false
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to read request: %v", err), op)
		return nil, false
	}

	return body, true
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("plan request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func buildItemValues(items []engine.Item, at time.Time, payDay int) []itemValue {
	values := make([]itemValue, 0, len(items))
	for _, item := range items {
		value := itemValue{
			Name:           item.Name,
			Kind:           item.Kind.String(),
			DayOfMonth:     item.DayOfMonth,
			Position:       engine.CyclePosition(item.DayOfMonth, payDay),
			ResolvedAmount: mathutil.Round(engine.AmountAt(item, at)),
		}
		if info, ok := engine.CreditInfoAt(item, at); ok {
			value.Credit = &creditValue{
				MonthlyAmount:     mathutil.Round(info.MonthlyAmount),
				TotalAmount:       mathutil.Round(info.TotalAmount),
				RemainingAmount:   mathutil.Round(info.RemainingAmount),
				RemainingPayments: info.RemainingPayments,
				PaymentsMade:      info.PaymentsMade,
				Active:            info.Active,
				ProgressPercent:   mathutil.Round(info.ProgressPercent),
				StartDate:         info.StartDate.Format(constants.DateLayout),
				EndDate:           info.EndDate.Format(constants.DateLayout),
			}
		}
		values = append(values, value)
	}
	return values
}

func buildCycleValues(cycles []engine.Cycle) []cycleValue {
	values := make([]cycleValue, 0, len(cycles))
	for _, cycle := range cycles {
		values = append(values, cycleValue{
			Index:         cycle.Index,
			Month:         cycle.Month.Format(constants.MonthLayout),
			Income:        mathutil.Round(cycle.Income),
			Expenses:      mathutil.Round(cycle.Expenses),
			Balance:       mathutil.Round(cycle.Balance),
			EndingCredits: cycle.EndingCredits,
		})
	}
	return values
}
