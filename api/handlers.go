/*
handlers.go - HTTP API handlers for the factory traceability system

PURPOSE:
  Exposes the aggregation, traceability, and metrics engines via REST.
  Handles HTTP request/response, JSON serialization, and delegates all
  domain logic to the engines.

ENDPOINTS:
  Setup:
    POST   /api/setup                     Generate and persist a snapshot
    GET    /api/health                    Liveness and data presence

  Suppliers:
    GET    /api/suppliers                 List (optional ?status=)
    GET    /api/suppliers/{id}            Supplier details
    GET    /api/suppliers/{id}/impact     Cost-focused impact analysis (dates)
    GET    /api/suppliers/{id}/scorecard  Graded scorecard

  Batches:
    GET    /api/batches                   List (machine_id, order_id, dates, limit)
    GET    /api/batches/{id}              Batch details

  Orders:
    GET    /api/orders                    List (optional ?status=, ?limit=)
    GET    /api/orders/{id}               Order details
    GET    /api/orders/{id}/batches       Batches fulfilling the order

  Traceability:
    GET    /api/traceability/backward/{batchID}
    GET    /api/traceability/forward/{supplierID}
    GET    /api/traceability/lot/{lotNumber}
    GET    /api/traceability/serial/{serial}

  Metrics:
    GET    /api/metrics/oee               start_date, end_date, machine
    GET    /api/metrics/scrap
    GET    /api/metrics/quality-issues    + severity
    GET    /api/metrics/downtime

  Production:
    GET    /api/production                The raw rollup view

ARCHITECTURE:
  Handler holds the store, config, and the current snapshot generation
  (snapshot + index + engines) behind a RWMutex. POST /api/setup swaps
  in a new generation atomically; queries share the old one until then.

ERROR HANDLING:
  - 400: invalid dates, invalid query parameters
  - 404: unknown supplier/batch/order/lot/serial, or no data generated
  - 500: storage and generation failures

SEE ALSO:
  - dto.go: Request/response envelope types
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/warp/factory-trace/config"
	"github.com/warp/factory-trace/metrics"
	"github.com/warp/factory-trace/model"
	"github.com/warp/factory-trace/synth"
	"github.com/warp/factory-trace/trace"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store model.Store
	Cfg   *config.Config
	Log   zerolog.Logger

	// Current snapshot generation, swapped atomically on setup.
	mu     sync.RWMutex
	snap   *model.Snapshot
	tracer *trace.Engine
	meter  *metrics.Engine
}

// NewHandler creates a handler over a snapshot store.
func NewHandler(store model.Store, cfg *config.Config, log zerolog.Logger) *Handler {
	return &Handler{Store: store, Cfg: cfg, Log: log}
}

// Bootstrap loads any persisted snapshot into the handler. No stored
// snapshot is fine; queries return 404 until POST /api/setup runs.
func (h *Handler) Bootstrap(ctx context.Context) error {
	snap, err := h.Store.Load(ctx)
	if err != nil {
		return err
	}
	if snap == nil {
		h.Log.Info().Msg("no persisted snapshot, waiting for setup")
		return nil
	}
	h.install(snap)
	h.Log.Info().
		Str("start", snap.StartDate).
		Str("end", snap.EndDate).
		Int("batches", len(snap.ProductionBatches)).
		Msg("loaded persisted snapshot")
	return nil
}

// install swaps in a new snapshot generation.
func (h *Handler) install(snap *model.Snapshot) {
	idx := model.NewIndex(snap)
	tracer := trace.NewEngine(idx, trace.Config{
		DefectCost:            h.Cfg.Trace.DefectCost,
		PartsPerBatchEstimate: h.Cfg.Trace.PartsPerBatch,
	}, h.Log)
	meter := metrics.New(snap.Production, metrics.Config{
		Performance: h.Cfg.Metrics.PerformanceFactor,
	})

	h.mu.Lock()
	h.snap = snap
	h.tracer = tracer
	h.meter = meter
	h.mu.Unlock()
}

// current returns the active generation, or false when no data exists.
func (h *Handler) current() (*model.Snapshot, *trace.Engine, *metrics.Engine, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.snap == nil {
		return nil, nil, nil, false
	}
	return h.snap, h.tracer, h.meter, true
}

// requireData writes the no-data error when nothing is generated yet.
func (h *Handler) requireData(w http.ResponseWriter) (*model.Snapshot, *trace.Engine, *metrics.Engine, bool) {
	snap, tracer, meter, ok := h.current()
	if !ok {
		writeError(w, http.StatusNotFound, "No data available - run POST /api/setup first", nil)
	}
	return snap, tracer, meter, ok
}

// =============================================================================
// SETUP AND HEALTH
// =============================================================================

// Setup generates a fresh snapshot, persists it, and makes it current.
// POST /api/setup
func (h *Handler) Setup(w http.ResponseWriter, r *http.Request) {
	genCfg := synth.Config{
		Seed: h.Cfg.Generate.Seed,
		Days: h.Cfg.Generate.Days,
	}

	// Body is optional; an empty body keeps the configured defaults.
	var req SetupRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body", err)
			return
		}
		if req.Days < 0 {
			writeError(w, http.StatusBadRequest, "days must be positive", nil)
			return
		}
		if req.Days > 0 {
			genCfg.Days = req.Days
		}
		if req.Seed != 0 {
			genCfg.Seed = req.Seed
		}
	}

	snap, err := synth.New(genCfg, h.Log).Generate()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to generate data", err)
		return
	}

	if err := h.Store.Save(r.Context(), snap); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to persist snapshot", err)
		return
	}
	h.install(snap)

	writeJSON(w, http.StatusCreated, SetupResponse{
		Message:   "Snapshot generated",
		StartDate: snap.StartDate,
		EndDate:   snap.EndDate,
		Suppliers: len(snap.Suppliers),
		Lots:      len(snap.MaterialLots),
		Orders:    len(snap.Orders),
		Batches:   len(snap.ProductionBatches),
	})
}

// Health reports liveness.
// GET /api/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	_, _, _, ok := h.current()
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", HasData: ok})
}

// Production returns the raw rollup view.
// GET /api/production
func (h *Handler) Production(w http.ResponseWriter, r *http.Request) {
	snap, _, _, ok := h.requireData(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snap.Production)
}

// =============================================================================
// SUPPLIER ENDPOINTS
// =============================================================================

// ListSuppliers returns suppliers sorted by quality rating.
// GET /api/suppliers?status=Active
func (h *Handler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	_, tracer, _, ok := h.requireData(w)
	if !ok {
		return
	}
	status := model.SupplierStatus(r.URL.Query().Get("status"))
	writeJSON(w, http.StatusOK, tracer.ListSuppliers(status))
}

// GetSupplier returns one supplier.
// GET /api/suppliers/{id}
func (h *Handler) GetSupplier(w http.ResponseWriter, r *http.Request) {
	_, tracer, _, ok := h.requireData(w)
	if !ok {
		return
	}
	sup, err := tracer.Supplier(model.SupplierID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sup)
}

// SupplierImpact returns the cost-focused impact analysis.
// GET /api/suppliers/{id}/impact?start_date=...&end_date=...
func (h *Handler) SupplierImpact(w http.ResponseWriter, r *http.Request) {
	_, tracer, _, ok := h.requireData(w)
	if !ok {
		return
	}
	result, err := tracer.SupplierImpact(
		model.SupplierID(chi.URLParam(r, "id")),
		queryDateRange(r),
	)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// SupplierScorecard returns the graded scorecard.
// GET /api/suppliers/{id}/scorecard?start_date=...&end_date=...
func (h *Handler) SupplierScorecard(w http.ResponseWriter, r *http.Request) {
	_, tracer, _, ok := h.requireData(w)
	if !ok {
		return
	}
	result, err := tracer.Scorecard(
		model.SupplierID(chi.URLParam(r, "id")),
		queryDateRange(r),
	)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// =============================================================================
// BATCH ENDPOINTS
// =============================================================================

// ListBatches returns batches matching the query filters.
// GET /api/batches?machine_id=1&order_id=ORD-001&start_date=...&end_date=...&limit=50
func (h *Handler) ListBatches(w http.ResponseWriter, r *http.Request) {
	_, tracer, _, ok := h.requireData(w)
	if !ok {
		return
	}

	filter := trace.BatchFilter{
		OrderID: model.OrderID(r.URL.Query().Get("order_id")),
		Range:   queryDateRange(r),
	}
	if raw := r.URL.Query().Get("machine_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid machine_id", err)
			return
		}
		filter.MachineID = &id
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		filter.Limit = limit
	}

	batches, err := tracer.ListBatches(filter)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, batches)
}

// GetBatch returns one production batch.
// GET /api/batches/{id}
func (h *Handler) GetBatch(w http.ResponseWriter, r *http.Request) {
	_, tracer, _, ok := h.requireData(w)
	if !ok {
		return
	}
	batch, err := tracer.Batch(model.BatchID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, batch)
}

// =============================================================================
// ORDER ENDPOINTS
// =============================================================================

// ListOrders returns orders.
// GET /api/orders?status=Pending&limit=20
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	_, tracer, _, ok := h.requireData(w)
	if !ok {
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = n
	}
	status := model.OrderStatus(r.URL.Query().Get("status"))
	writeJSON(w, http.StatusOK, tracer.ListOrders(status, limit))
}

// GetOrder returns one order.
// GET /api/orders/{id}
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	_, tracer, _, ok := h.requireData(w)
	if !ok {
		return
	}
	order, err := tracer.Order(model.OrderID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// OrderBatches returns the batches fulfilling an order.
// GET /api/orders/{id}/batches
func (h *Handler) OrderBatches(w http.ResponseWriter, r *http.Request) {
	_, tracer, _, ok := h.requireData(w)
	if !ok {
		return
	}
	result, err := tracer.OrderBatches(model.OrderID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// =============================================================================
// TRACEABILITY ENDPOINTS
// =============================================================================

// BackwardTrace traces a batch back to its materials and suppliers.
// GET /api/traceability/backward/{batchID}
func (h *Handler) BackwardTrace(w http.ResponseWriter, r *http.Request) {
	_, tracer, _, ok := h.requireData(w)
	if !ok {
		return
	}
	result, err := tracer.BackwardTrace(model.BatchID(chi.URLParam(r, "batchID")))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ForwardTrace traces a supplier forward to batches and orders.
// GET /api/traceability/forward/{supplierID}?start_date=...&end_date=...
func (h *Handler) ForwardTrace(w http.ResponseWriter, r *http.Request) {
	_, tracer, _, ok := h.requireData(w)
	if !ok {
		return
	}
	result, err := tracer.ForwardTrace(
		model.SupplierID(chi.URLParam(r, "supplierID")),
		queryDateRange(r),
	)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// LotTrace reports everything a received lot touched.
// GET /api/traceability/lot/{lotNumber}
func (h *Handler) LotTrace(w http.ResponseWriter, r *http.Request) {
	_, tracer, _, ok := h.requireData(w)
	if !ok {
		return
	}
	result, err := tracer.LotTrace(model.LotNumber(chi.URLParam(r, "lotNumber")))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// SerialTrace reconstructs one serialized part's history.
// GET /api/traceability/serial/{serial}
func (h *Handler) SerialTrace(w http.ResponseWriter, r *http.Request) {
	_, tracer, _, ok := h.requireData(w)
	if !ok {
		return
	}
	serial, err := strconv.Atoi(chi.URLParam(r, "serial"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Serial number must be an integer", err)
		return
	}
	result, err := tracer.SerialTrace(serial)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// =============================================================================
// METRICS ENDPOINTS
// =============================================================================

// OEE returns the OEE breakdown for a window.
// GET /api/metrics/oee?start_date=...&end_date=...&machine=CNC-001
func (h *Handler) OEE(w http.ResponseWriter, r *http.Request) {
	_, _, meter, ok := h.requireData(w)
	if !ok {
		return
	}
	result, err := meter.OEE(queryDateRange(r), r.URL.Query().Get("machine"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ScrapMetrics returns the scrap summary for a window.
// GET /api/metrics/scrap?start_date=...&end_date=...&machine=...
func (h *Handler) ScrapMetrics(w http.ResponseWriter, r *http.Request) {
	_, _, meter, ok := h.requireData(w)
	if !ok {
		return
	}
	result, err := meter.Scrap(queryDateRange(r), r.URL.Query().Get("machine"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// QualityIssues lists issues for a window.
// GET /api/metrics/quality-issues?start_date=...&end_date=...&severity=High&machine=...
func (h *Handler) QualityIssues(w http.ResponseWriter, r *http.Request) {
	_, _, meter, ok := h.requireData(w)
	if !ok {
		return
	}
	result, err := meter.QualityIssues(
		queryDateRange(r),
		model.Severity(r.URL.Query().Get("severity")),
		r.URL.Query().Get("machine"),
	)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// DowntimeAnalysis returns the downtime analysis for a window.
// GET /api/metrics/downtime?start_date=...&end_date=...&machine=...
func (h *Handler) DowntimeAnalysis(w http.ResponseWriter, r *http.Request) {
	_, _, meter, ok := h.requireData(w)
	if !ok {
		return
	}
	result, err := meter.Downtime(queryDateRange(r), r.URL.Query().Get("machine"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// =============================================================================
// HELPERS
// =============================================================================

// queryDateRange reads the optional start_date/end_date parameters.
// Validation happens in the engines, which own the range semantics.
func queryDateRange(r *http.Request) model.DateRange {
	return model.DateRange{
		Start: r.URL.Query().Get("start_date"),
		End:   r.URL.Query().Get("end_date"),
	}
}

// writeDomainError maps engine errors onto HTTP statuses.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case model.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case model.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid request", err)
	default:
		h.Log.Error().Err(err).Msg("internal error handling request")
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
