package apihttp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"math"
	"net/http"
	"sort"
	"strconv"
	"time"

	"energy-backtest/internal/audit"
	backtestapp "energy-backtest/internal/backtest/application"
	backtest "energy-backtest/internal/backtest/domain"
	"energy-backtest/internal/observability/metrics"
	tariff "energy-backtest/internal/tariff/domain"
	upload "energy-backtest/internal/upload/domain"
)

const maxUploadBytes = 32 << 20

// UploadParser runs the ingestion pipeline.
type UploadParser interface {
	Parse(data []byte, originalName string) (*upload.ParsedUpload, error)
}

// BacktestRunner prices a consumption series and builds the report.
type BacktestRunner interface {
	Run(consumption []tariff.ConsumptionRecord, referencePrice float64, period backtest.Period) (backtestapp.Result, error)
}

// UploadRepository persists validated uploads; optional.
type UploadRepository interface {
	Save(ctx context.Context, parsed *upload.ParsedUpload, originalName string) (string, error)
}

// UploadHandler serves POST /api/upload and POST /api/upload/export.
type UploadHandler struct {
	uploads        UploadParser
	runner         BacktestRunner
	repo           UploadRepository
	auditLogger    audit.Logger
	logger         *log.Logger
	referencePrice float64
}

// Option configures the handler.
type Option func(*UploadHandler)

// WithRepository enables upload persistence.
func WithRepository(repo UploadRepository) Option {
	return func(h *UploadHandler) { h.repo = repo }
}

// WithAuditLogger enables the upload audit trail.
func WithAuditLogger(logger audit.Logger) Option {
	return func(h *UploadHandler) { h.auditLogger = logger }
}

// WithDefaultReferencePrice overrides the default flat reference price.
func WithDefaultReferencePrice(price float64) Option {
	return func(h *UploadHandler) { h.referencePrice = price }
}

// NewUploadHandler constructs the handler.
func NewUploadHandler(uploads UploadParser, runner BacktestRunner, logger *log.Logger, opts ...Option) (*UploadHandler, error) {
	if uploads == nil {
		return nil, errors.New("upload handler: nil upload parser")
	}
	if runner == nil {
		return nil, errors.New("upload handler: nil backtest runner")
	}
	h := &UploadHandler{uploads: uploads, runner: runner, logger: logger, referencePrice: 0.30}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// ServeHTTP routes the upload endpoints.
func (h *UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	switch r.URL.Path {
	case "/api/upload":
		h.handleUpload(w, r)
	case "/api/upload/export":
		h.handleExport(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *UploadHandler) handleUpload(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	outcome, parsed, result, filename := h.runPipeline(w, r)
	metrics.ObserveUpload(outcome, time.Since(start))
	if outcome != metrics.ResultSuccess {
		return
	}

	h.persist(r, parsed, filename)

	monthly := formatMonthly(result.Report)
	respondJSON(w, http.StatusOK, map[string]any{
		"summary": buildSummary(result, monthly),
		"monthly": monthly,
	})
}

func (h *UploadHandler) handleExport(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "xlsx"
	}
	if format != "xlsx" && format != "pdf" {
		respondJSON(w, http.StatusBadRequest, map[string]any{"error": "format must be xlsx or pdf"})
		return
	}

	outcome, parsed, result, filename := h.runPipeline(w, r)
	if outcome != metrics.ResultSuccess {
		metrics.ObserveExport(format, outcome, time.Since(start))
		return
	}
	h.persist(r, parsed, filename)

	monthly := formatMonthly(result.Report)
	var data []byte
	var contentType, name string
	var err error
	switch format {
	case "xlsx":
		data, err = BuildReportXLSX(result, monthly)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		name = "backtest-report.xlsx"
	case "pdf":
		data, err = BuildReportPDF(result, monthly)
		contentType = "application/pdf"
		name = "backtest-report.pdf"
	}
	if err != nil {
		metrics.ObserveExport(format, metrics.ResultError, time.Since(start))
		respondJSON(w, http.StatusInternalServerError, map[string]any{"error": "report export failed"})
		return
	}

	metrics.ObserveExport(format, metrics.ResultSuccess, time.Since(start))
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	_, _ = w.Write(data)
}

// runPipeline reads the multipart upload, parses and validates it, and runs
// the backtest. It writes the error response itself and reports the outcome.
func (h *UploadHandler) runPipeline(w http.ResponseWriter, r *http.Request) (string, *upload.ParsedUpload, backtestapp.Result, string) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid multipart request"})
		return metrics.ResultError, nil, backtestapp.Result{}, ""
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]any{"error": "no file received"})
		return metrics.ResultError, nil, backtestapp.Result{}, ""
	}
	defer file.Close()
	if header.Filename == "" {
		respondJSON(w, http.StatusBadRequest, map[string]any{"error": "filename missing"})
		return metrics.ResultError, nil, backtestapp.Result{}, ""
	}

	referencePrice := h.referencePrice
	if raw := r.FormValue("reference_price"); raw != "" {
		referencePrice, err = strconv.ParseFloat(raw, 64)
		if err != nil || referencePrice < 0 {
			respondJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid reference price"})
			return metrics.ResultError, nil, backtestapp.Result{}, ""
		}
	}

	data, err := io.ReadAll(file)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]any{"error": "unreadable upload"})
		return metrics.ResultError, nil, backtestapp.Result{}, ""
	}

	parsed, err := h.uploads.Parse(data, header.Filename)
	if err != nil {
		var verr *upload.ValidationError
		if errors.As(err, &verr) {
			h.audit(r, audit.EntryForRejection("upload.parse", header.Filename, verr))
			for _, item := range verr.Errors {
				metrics.IncValidationError(item.Code)
			}
			respondJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":   "upload validation failed",
				"details": errorDetails(verr.Errors),
			})
			return metrics.ResultRejected, nil, backtestapp.Result{}, ""
		}
		h.logf("upload parse error: %v", err)
		respondJSON(w, http.StatusInternalServerError, map[string]any{"error": "upload processing failed"})
		return metrics.ResultError, nil, backtestapp.Result{}, ""
	}

	result, err := h.runner.Run(consumptionRecords(parsed), referencePrice, backtest.PeriodMonth)
	if err != nil {
		h.logf("backtest error: %v", err)
		respondJSON(w, http.StatusInternalServerError, map[string]any{"error": "cost calculation failed"})
		return metrics.ResultError, nil, backtestapp.Result{}, ""
	}
	return metrics.ResultSuccess, parsed, result, header.Filename
}

// persist stores the upload and audit entry best-effort; failures are logged,
// not surfaced.
func (h *UploadHandler) persist(r *http.Request, parsed *upload.ParsedUpload, filename string) {
	if h.repo != nil {
		if _, err := h.repo.Save(r.Context(), parsed, filename); err != nil {
			h.logf("upload persist error: %v", err)
		}
	}
	h.audit(r, audit.Entry{
		Action:     "upload.parse",
		Filename:   filename,
		RawPath:    parsed.RawPath,
		Result:     "ok",
		ErrorCount: 0,
	})
}

func (h *UploadHandler) audit(r *http.Request, entry audit.Entry) {
	if h.auditLogger == nil {
		return
	}
	entry.IP = r.RemoteAddr
	entry.UserAgent = r.UserAgent()
	if err := h.auditLogger.Log(r.Context(), entry); err != nil {
		h.logf("audit log error: %v", err)
	}
}

func (h *UploadHandler) logf(format string, args ...any) {
	if h.logger != nil {
		h.logger.Printf(format, args...)
	}
}

func consumptionRecords(parsed *upload.ParsedUpload) []tariff.ConsumptionRecord {
	records := make([]tariff.ConsumptionRecord, 0, len(parsed.Series))
	for _, item := range parsed.Series {
		records = append(records, tariff.ConsumptionRecord{
			Timestamp:      item.TimestampUTC,
			ConsumptionKWh: item.Value,
		})
	}
	return records
}

func errorDetails(errs []upload.ParsingError) []map[string]any {
	details := make([]map[string]any, 0, len(errs))
	for _, item := range errs {
		details = append(details, map[string]any{
			"code":    item.Code,
			"message": item.Message,
			"row":     item.Row,
		})
	}
	return details
}

// monthlyRow is one line of the monthly breakdown.
type monthlyRow struct {
	Period       string  `json:"period"`
	CostEUR      float64 `json:"cost_eur"`
	ReferenceEUR float64 `json:"reference_cost_eur"`
}

func formatMonthly(report backtest.Report) []monthlyRow {
	keys := make([]string, 0, len(report.Costs))
	for key := range report.Costs {
		keys = append(keys, string(key))
	}
	sort.Strings(keys)

	rows := make([]monthlyRow, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, monthlyRow{
			Period:       key,
			CostEUR:      round2(report.Costs[backtest.PeriodKey(key)]),
			ReferenceEUR: round2(report.ReferenceCosts[backtest.PeriodKey(key)]),
		})
	}
	return rows
}

func buildSummary(result backtestapp.Result, monthly []monthlyRow) map[string]any {
	months := len(monthly)
	if months == 0 {
		months = 1
	}
	report := result.Report
	return map[string]any{
		"total_cost_eur":           round2(report.TotalCost),
		"reference_cost_eur":       round2(report.ReferenceCost),
		"difference_eur":           round2(report.Difference),
		"difference_pct":           round1(report.DifferencePct),
		"average_monthly_cost_eur": round2(report.TotalCost / float64(months)),
		"peak_share_pct":           round1(result.PeakShare * 100),
	}
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round1(v float64) float64 { return math.Round(v*10) / 10 }
