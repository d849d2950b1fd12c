package financialhandler

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"hrcalc/internal/domain/auth"
	"hrcalc/internal/domain/payroll"
	"hrcalc/internal/platform/metrics"
	"hrcalc/internal/transport/http/api"
	"hrcalc/internal/transport/http/middleware"
	"hrcalc/internal/transport/http/shared"
)

const (
	kindIncomeTax = "income_tax"
	kindLumpSum   = "social_insurance_one_time"
	kindPayroll   = "payroll"
	kindImport    = "payroll_import"
	kindPDF       = "income_tax_pdf"

	outcomeOK      = "ok"
	outcomeInvalid = "invalid"
	outcomeError   = "error"
)

// Handler serves the financial calculators. Perms may be nil, in which case
// the routes are public.
type Handler struct {
	Engine  *payroll.Engine
	Perms   middleware.PermissionStore
	Metrics *metrics.Collector
}

func NewHandler(engine *payroll.Engine, perms middleware.PermissionStore, collector *metrics.Collector) *Handler {
	return &Handler{Engine: engine, Perms: perms, Metrics: collector}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/financial/calculators", func(r chi.Router) {
		r.With(h.guard(auth.PermFinancialCalculate)).Post("/income-tax", h.handleIncomeTax)
		r.With(h.guard(auth.PermFinancialExport)).Post("/income-tax/pdf", h.handleIncomeTaxPDF)
		r.With(h.guard(auth.PermFinancialCalculate)).Post("/social-insurance/one-time", h.handleOneTimeSocialInsurance)
		r.With(h.guard(auth.PermFinancialCalculate)).Post("/payroll", h.handlePayroll)
		r.With(h.guard(auth.PermFinancialExport)).Post("/payroll/import", h.handlePayrollImport)
		r.With(h.guard(auth.PermFinancialRates)).Get("/rates", h.handleRates)
	})
}

func (h *Handler) guard(permission string) func(http.Handler) http.Handler {
	if h.Perms == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return middleware.RequirePermission(permission, h.Perms)
}

type salaryRequest struct {
	Amount        *decimal.Decimal `json:"amount"`
	Mode          string           `json:"mode"`
	Currency      string           `json:"currency"`
	Dependents    int              `json:"dependents"`
	TaxMethod     string           `json:"taxMethod"`
	InsuranceBase string           `json:"insuranceBase"`
	Nationality   string           `json:"nationality"`
	Zone          zoneValue        `json:"zone"`
}

func (req salaryRequest) validate() *shared.Validator {
	v := shared.NewValidator()
	if req.Amount == nil {
		v.Add("amount", "is required")
	} else {
		v.NonNegative("amount", *req.Amount)
	}
	v.IntRange("dependents", req.Dependents, 0, payroll.MaxDependents)
	v.Enum("mode", req.Mode, payroll.Modes, "must be gross_to_net or net_to_gross")
	v.Enum("currency", req.Currency, payroll.Currencies, "must be VND or USD")
	v.Enum("taxMethod", req.TaxMethod, payroll.TaxMethods, "must be progressive or fixed")
	v.Enum("insuranceBase", req.InsuranceBase, payroll.InsuranceBases, "must be full or other")
	v.Enum("nationality", req.Nationality, payroll.Nationalities, "must be local or expat")
	v.Enum("zone", string(req.Zone), payroll.Zones, "must be 1, 2, 3 or 4")
	return v
}

func (req salaryRequest) input() payroll.SalaryInput {
	return payroll.SalaryInput{
		Amount:        *req.Amount,
		Mode:          payroll.Mode(normalize(req.Mode)),
		Currency:      currency(req.Currency),
		Dependents:    req.Dependents,
		TaxMethod:     payroll.TaxMethod(normalize(req.TaxMethod)),
		InsuranceBase: payroll.InsuranceBase(normalize(req.InsuranceBase)),
		Nationality:   payroll.Nationality(normalize(req.Nationality)),
		Zone:          payroll.Zone(strings.TrimSpace(string(req.Zone))),
	}
}

// zoneValue accepts the zone as either "2" or 2.
type zoneValue string

func (z *zoneValue) UnmarshalJSON(b []byte) error {
	raw := bytes.TrimSpace(b)
	if bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		*z = zoneValue(s)
		return nil
	}
	n, err := strconv.Atoi(string(raw))
	if err != nil {
		return fmt.Errorf("zone must be a string or integer, got %s", raw)
	}
	*z = zoneValue(strconv.Itoa(n))
	return nil
}

type salaryResponse struct {
	payroll.SalaryBreakdown
	Display map[string]string `json:"display"`
}

type phaseRequest struct {
	FromMonth     int              `json:"fromMonth"`
	FromYear      int              `json:"fromYear"`
	ToMonth       int              `json:"toMonth"`
	ToYear        int              `json:"toYear"`
	MonthlySalary *decimal.Decimal `json:"monthlySalary"`
}

type lumpSumRequest struct {
	Currency string         `json:"currency"`
	Phases   []phaseRequest `json:"phases"`
}

func (req lumpSumRequest) validate() *shared.Validator {
	v := shared.NewValidator()
	v.Enum("currency", req.Currency, payroll.Currencies, "must be VND or USD")
	if len(req.Phases) == 0 {
		v.Add("phases", "at least one phase is required")
	}
	for i, p := range req.Phases {
		prefix := fmt.Sprintf("phases[%d].", i)
		v.IntRange(prefix+"fromMonth", p.FromMonth, 1, 12)
		v.IntRange(prefix+"toMonth", p.ToMonth, 1, 12)
		v.IntRange(prefix+"fromYear", p.FromYear, payroll.MinPhaseYear, payroll.MaxPhaseYear)
		v.IntRange(prefix+"toYear", p.ToYear, payroll.MinPhaseYear, payroll.MaxPhaseYear)
		v.MonthYearOrder(prefix+"from", p.FromYear, p.FromMonth, prefix+"to", p.ToYear, p.ToMonth)
		if p.MonthlySalary == nil {
			v.Add(prefix+"monthlySalary", "is required")
		} else {
			v.NonNegative(prefix+"monthlySalary", *p.MonthlySalary)
		}
	}
	return v
}

type lumpSumResponse struct {
	payroll.LumpSumResult
	Currency payroll.Currency `json:"currency"`
	Display  string           `json:"display"`
}

type employeeRequest struct {
	Name       string          `json:"name"`
	Position   string          `json:"position"`
	BaseSalary decimal.Decimal `json:"baseSalary"`
	Bonus      decimal.Decimal `json:"bonus"`
	Overtime   decimal.Decimal `json:"overtime"`
	Deductions decimal.Decimal `json:"deductions"`
}

type payrollRequest struct {
	Currency  string            `json:"currency"`
	Employees []employeeRequest `json:"employees"`
}

func (req payrollRequest) validate() *shared.Validator {
	v := shared.NewValidator()
	v.Enum("currency", req.Currency, payroll.Currencies, "must be VND or USD")
	if len(req.Employees) == 0 {
		v.Add("employees", "at least one employee is required")
	}
	for i, e := range req.Employees {
		prefix := fmt.Sprintf("employees[%d].", i)
		v.NonNegative(prefix+"baseSalary", e.BaseSalary)
		v.NonNegative(prefix+"bonus", e.Bonus)
		v.NonNegative(prefix+"overtime", e.Overtime)
		v.NonNegative(prefix+"deductions", e.Deductions)
	}
	return v
}

type importRequest struct {
	Currency string `json:"currency"`
	Text     string `json:"text"`
}

type payrollResponse struct {
	payroll.PayrollRun
	Display string `json:"display"`
}

func (h *Handler) handleIncomeTax(w http.ResponseWriter, r *http.Request) {
	breakdown, ok := h.calculateSalary(w, r, kindIncomeTax)
	if !ok {
		return
	}
	h.Metrics.RecordCalculation(kindIncomeTax, outcomeOK)
	api.Success(w, salaryResponse{SalaryBreakdown: breakdown, Display: displayBreakdown(breakdown)}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleIncomeTaxPDF(w http.ResponseWriter, r *http.Request) {
	breakdown, ok := h.calculateSalary(w, r, kindPDF)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := payroll.RenderBreakdownPDF(&buf, breakdown); err != nil {
		h.Metrics.RecordCalculation(kindPDF, outcomeError)
		slog.Error("render breakdown pdf failed", "err", err, "requestId", middleware.GetRequestID(r.Context()))
		api.Fail(w, http.StatusInternalServerError, "pdf_render_failed", "failed to render pdf", middleware.GetRequestID(r.Context()))
		return
	}
	h.Metrics.RecordCalculation(kindPDF, outcomeOK)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="salary-breakdown.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// calculateSalary decodes, validates and evaluates a salary request, writing
// the failure response itself when it returns false.
func (h *Handler) calculateSalary(w http.ResponseWriter, r *http.Request, kind string) (payroll.SalaryBreakdown, bool) {
	var req salaryRequest
	if !h.decode(w, r, kind, &req) {
		return payroll.SalaryBreakdown{}, false
	}
	if v := req.validate(); v.Reject(w, middleware.GetRequestID(r.Context())) {
		h.Metrics.RecordCalculation(kind, outcomeInvalid)
		return payroll.SalaryBreakdown{}, false
	}
	breakdown, err := h.Engine.Calculate(req.input())
	if err != nil {
		h.failCalculation(w, r, kind, err)
		return payroll.SalaryBreakdown{}, false
	}
	return breakdown, true
}

func (h *Handler) handleOneTimeSocialInsurance(w http.ResponseWriter, r *http.Request) {
	var req lumpSumRequest
	if !h.decode(w, r, kindLumpSum, &req) {
		return
	}
	if v := req.validate(); v.Reject(w, middleware.GetRequestID(r.Context())) {
		h.Metrics.RecordCalculation(kindLumpSum, outcomeInvalid)
		return
	}

	phases := make([]payroll.ContributionPhase, 0, len(req.Phases))
	for _, p := range req.Phases {
		phases = append(phases, payroll.ContributionPhase{
			FromMonth:     p.FromMonth,
			FromYear:      p.FromYear,
			ToMonth:       p.ToMonth,
			ToYear:        p.ToYear,
			MonthlySalary: *p.MonthlySalary,
		})
	}
	result, err := h.Engine.OneTimeSocialInsurance(phases)
	if err != nil {
		h.failCalculation(w, r, kindLumpSum, err)
		return
	}
	h.Metrics.RecordCalculation(kindLumpSum, outcomeOK)
	cur := currency(req.Currency)
	api.Success(w, lumpSumResponse{
		LumpSumResult: result,
		Currency:      cur,
		Display:       payroll.FormatAmount(result.Total, cur),
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePayroll(w http.ResponseWriter, r *http.Request) {
	var req payrollRequest
	if !h.decode(w, r, kindPayroll, &req) {
		return
	}
	if v := req.validate(); v.Reject(w, middleware.GetRequestID(r.Context())) {
		h.Metrics.RecordCalculation(kindPayroll, outcomeInvalid)
		return
	}

	employees := make([]payroll.EmployeePay, 0, len(req.Employees))
	for _, e := range req.Employees {
		employees = append(employees, payroll.EmployeePay(e))
	}
	h.respondPayroll(w, r, kindPayroll, currency(req.Currency), employees)
}

func (h *Handler) handlePayrollImport(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if !h.decode(w, r, kindImport, &req) {
		return
	}
	v := shared.NewValidator()
	v.Required("text", req.Text, "is required")
	v.Enum("currency", req.Currency, payroll.Currencies, "must be VND or USD")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		h.Metrics.RecordCalculation(kindImport, outcomeInvalid)
		return
	}

	employees, err := payroll.ParseBulkEmployees(req.Text)
	if err != nil {
		h.failCalculation(w, r, kindImport, err)
		return
	}
	h.respondPayroll(w, r, kindImport, currency(req.Currency), employees)
}

func (h *Handler) respondPayroll(w http.ResponseWriter, r *http.Request, kind string, cur payroll.Currency, employees []payroll.EmployeePay) {
	run, err := payroll.RunPayroll(cur, employees)
	if err != nil {
		h.failCalculation(w, r, kind, err)
		return
	}
	h.Metrics.RecordCalculation(kind, outcomeOK)
	api.Success(w, payrollResponse{PayrollRun: run, Display: payroll.FormatAmount(run.Total, run.Currency)}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRates(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Engine.Rates(), middleware.GetRequestID(r.Context()))
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, kind string, dst any) bool {
	err := api.Decode(r.Body, dst)
	if err == nil {
		return true
	}
	h.Metrics.RecordCalculation(kind, outcomeInvalid)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", middleware.GetRequestID(r.Context()))
		return false
	}
	api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
	return false
}

func (h *Handler) failCalculation(w http.ResponseWriter, r *http.Request, kind string, err error) {
	if errors.Is(err, payroll.ErrInvalidInput) {
		h.Metrics.RecordCalculation(kind, outcomeInvalid)
		api.Fail(w, http.StatusBadRequest, "invalid_input", err.Error(), middleware.GetRequestID(r.Context()))
		return
	}
	h.Metrics.RecordCalculation(kind, outcomeError)
	slog.Error("calculation failed", "kind", kind, "err", err, "requestId", middleware.GetRequestID(r.Context()))
	api.Fail(w, http.StatusUnprocessableEntity, "calculation_failed", "calculation could not be completed", middleware.GetRequestID(r.Context()))
}

func displayBreakdown(b payroll.SalaryBreakdown) map[string]string {
	insurance := b.EmployeeSocialInsurance.Add(b.EmployeeHealthInsurance).Add(b.EmployeeUnemploymentInsurance)
	return map[string]string{
		"grossSalary":       payroll.FormatAmount(b.GrossSalary, b.Currency),
		"employeeInsurance": payroll.FormatAmount(insurance, b.Currency),
		"salaryBeforeTax":   payroll.FormatAmount(b.SalaryBeforeTax, b.Currency),
		"taxableSalary":     payroll.FormatAmount(b.TaxableSalary, b.Currency),
		"personalIncomeTax": payroll.FormatAmount(b.PersonalIncomeTax, b.Currency),
		"netSalary":         payroll.FormatAmount(b.NetSalary, b.Currency),
		"totalEmployerCost": payroll.FormatAmount(b.TotalEmployerCost, b.Currency),
	}
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func currency(value string) payroll.Currency {
	if strings.TrimSpace(value) == "" {
		return payroll.CurrencyVND
	}
	return payroll.Currency(strings.ToUpper(strings.TrimSpace(value)))
}
