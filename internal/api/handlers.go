package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"cloud.google.com/go/civil"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dsuarezv/bankledger/internal/domain"
	"github.com/dsuarezv/bankledger/internal/ledger"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bank_http_requests_total",
		Help: "Total HTTP requests processed, labeled by status code",
	}, []string{"method", "endpoint", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bank_http_request_duration_seconds",
		Help:    "Latency distribution of HTTP requests",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"method", "endpoint"})

	transactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bank_transactions_total",
		Help: "Ledger registrations by transaction type and outcome",
	}, []string{"type", "outcome"})
)

// Handler serves the accounts, transactions and reports API.
type Handler struct {
	ledger *ledger.Service
	log    zerolog.Logger
}

func NewHandler(svc *ledger.Service, log zerolog.Logger) *Handler {
	return &Handler{ledger: svc, log: log}
}

func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(Recovery(h.log), RequestLogger(h.log))
	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")

	apiV1 := r.PathPrefix("/api/v1").Subrouter()
	apiV1.HandleFunc("/accounts", h.OpenAccount).Methods("POST")
	apiV1.HandleFunc("/accounts", h.ListAccounts).Methods("GET")
	apiV1.HandleFunc("/accounts/{accountNumber}", h.GetAccount).Methods("GET")
	apiV1.HandleFunc("/transactions", h.RegisterTransaction).Methods("POST")
	apiV1.HandleFunc("/transactions", h.ListTransactions).Methods("GET")
	apiV1.HandleFunc("/reports", h.GetReport).Methods("GET")
	return r
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"}, "GET", "/health")
}

type openAccountRequest struct {
	AccountType    string          `json:"account_type"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	CustomerID     string          `json:"customer_id"`
}

func (h *Handler) OpenAccount(w http.ResponseWriter, r *http.Request) {
	var req openAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Malformed JSON body", "POST", "/accounts")
		return
	}
	if req.CustomerID == "" {
		h.respondError(w, http.StatusBadRequest, "customer_id is required", "POST", "/accounts")
		return
	}

	acc, err := h.ledger.OpenAccount(r.Context(), domain.AccountType(req.AccountType), req.InitialBalance, req.CustomerID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAccountType):
			h.respondError(w, http.StatusBadRequest, "Unknown account type", "POST", "/accounts")
		case errors.Is(err, domain.ErrInvalidAmount):
			h.respondError(w, http.StatusUnprocessableEntity, "Initial balance cannot be negative", "POST", "/accounts")
		default:
			h.log.Error().Err(err).Msg("open account failed")
			h.respondError(w, http.StatusInternalServerError, "Internal Server Error", "POST", "/accounts")
		}
		return
	}
	h.respondJSON(w, http.StatusCreated, acc, "POST", "/accounts")
}

func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	accountNumber := mux.Vars(r)["accountNumber"]

	acc, err := h.ledger.GetAccount(r.Context(), accountNumber)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			h.respondError(w, http.StatusNotFound, "Account not found", "GET", "/accounts/{accountNumber}")
			return
		}
		h.log.Error().Err(err).Msg("get account failed")
		h.respondError(w, http.StatusInternalServerError, "Internal Server Error", "GET", "/accounts/{accountNumber}")
		return
	}
	h.respondJSON(w, http.StatusOK, acc, "GET", "/accounts/{accountNumber}")
}

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.ledger.ListAccounts(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list accounts failed")
		h.respondError(w, http.StatusInternalServerError, "Internal Server Error", "GET", "/accounts")
		return
	}
	h.respondJSON(w, http.StatusOK, accounts, "GET", "/accounts")
}

type registerTransactionRequest struct {
	AccountNumber string          `json:"account_number"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
}

func (h *Handler) RegisterTransaction(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(httpRequestDuration.WithLabelValues("POST", "/transactions"))
	defer timer.ObserveDuration()

	var req registerTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Malformed JSON body", "POST", "/transactions")
		return
	}

	txType, err := domain.ParseTransactionType(req.Type)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Unknown transaction type", "POST", "/transactions")
		return
	}

	tx, err := h.ledger.RegisterTransaction(r.Context(), req.AccountNumber, txType, req.Amount)
	if err != nil {
		transactionsTotal.WithLabelValues(string(txType), "rejected").Inc()
		switch {
		case errors.Is(err, domain.ErrAccountNotFound):
			h.respondError(w, http.StatusNotFound, "Account not found", "POST", "/transactions")
		case errors.Is(err, domain.ErrInsufficientBalance):
			h.respondError(w, http.StatusUnprocessableEntity, "Insufficient balance", "POST", "/transactions")
		case errors.Is(err, domain.ErrInvalidAmount):
			h.respondError(w, http.StatusUnprocessableEntity, "Positive amount required", "POST", "/transactions")
		case errors.Is(err, domain.ErrAccountInactive):
			h.respondError(w, http.StatusUnprocessableEntity, "Account is inactive", "POST", "/transactions")
		default:
			h.log.Error().Err(err).Msg("register transaction failed")
			h.respondError(w, http.StatusInternalServerError, "Internal Server Error", "POST", "/transactions")
		}
		return
	}

	transactionsTotal.WithLabelValues(string(txType), "registered").Inc()
	h.respondJSON(w, http.StatusCreated, tx, "POST", "/transactions")
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	accountNumber := q.Get("account_number")
	if accountNumber == "" {
		h.respondError(w, http.StatusBadRequest, "account_number is required", "GET", "/transactions")
		return
	}
	from, to, err := parseDateRange(q.Get("from"), q.Get("to"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Dates must use the 2006-01-02 format", "GET", "/transactions")
		return
	}

	txs, err := h.ledger.ListTransactions(r.Context(), accountNumber, from, to)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			h.respondError(w, http.StatusNotFound, "Account not found", "GET", "/transactions")
			return
		}
		h.log.Error().Err(err).Msg("list transactions failed")
		h.respondError(w, http.StatusInternalServerError, "Internal Server Error", "GET", "/transactions")
		return
	}
	h.respondJSON(w, http.StatusOK, txs, "GET", "/transactions")
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(httpRequestDuration.WithLabelValues("GET", "/reports"))
	defer timer.ObserveDuration()

	q := r.URL.Query()
	customerID := q.Get("customer")
	if customerID == "" {
		h.respondError(w, http.StatusBadRequest, "customer is required", "GET", "/reports")
		return
	}
	from, to, err := parseDateRange(q.Get("from"), q.Get("to"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Dates must use the 2006-01-02 format", "GET", "/reports")
		return
	}

	report, err := h.ledger.BuildReport(r.Context(), customerID, from, to)
	if err != nil {
		h.log.Error().Err(err).Msg("build report failed")
		h.respondError(w, http.StatusInternalServerError, "Internal Server Error", "GET", "/reports")
		return
	}
	h.respondJSON(w, http.StatusOK, report, "GET", "/reports")
}

func parseDateRange(fromStr, toStr string) (from, to civil.Date, err error) {
	if fromStr != "" {
		if from, err = civil.ParseDate(fromStr); err != nil {
			return
		}
	}
	if toStr != "" {
		to, err = civil.ParseDate(toStr)
	}
	return
}

func (h *Handler) respondJSON(w http.ResponseWriter, code int, payload interface{}, method, endpoint string) {
	httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(code)).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, code int, message, method, endpoint string) {
	h.respondJSON(w, code, map[string]string{"error": message}, method, endpoint)
}
