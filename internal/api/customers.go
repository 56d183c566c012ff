package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/dsuarezv/bankledger/internal/customers"
	"github.com/dsuarezv/bankledger/internal/domain"
)

// CustomerHandler serves the customers service API.
type CustomerHandler struct {
	customers *customers.Service
	log       zerolog.Logger
}

func NewCustomerHandler(svc *customers.Service, log zerolog.Logger) *CustomerHandler {
	return &CustomerHandler{customers: svc, log: log}
}

func (h *CustomerHandler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(Recovery(h.log), RequestLogger(h.log))
	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")

	apiV1 := r.PathPrefix("/api/v1").Subrouter()
	apiV1.HandleFunc("/customers", h.Create).Methods("POST")
	apiV1.HandleFunc("/customers", h.List).Methods("GET")
	apiV1.HandleFunc("/customers/{customerId}", h.Get).Methods("GET")
	apiV1.HandleFunc("/customers/{customerId}", h.Update).Methods("PUT")
	apiV1.HandleFunc("/customers/{customerId}", h.Delete).Methods("DELETE")
	return r
}

func (h *CustomerHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"}, "GET", "/health")
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var c domain.Customer
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		h.respondError(w, http.StatusBadRequest, "Malformed JSON body", "POST", "/customers")
		return
	}
	if c.Name == "" {
		h.respondError(w, http.StatusBadRequest, "name is required", "POST", "/customers")
		return
	}

	saved, err := h.customers.Create(r.Context(), c)
	if err != nil {
		h.log.Error().Err(err).Msg("create customer failed")
		h.respondError(w, http.StatusInternalServerError, "Internal Server Error", "POST", "/customers")
		return
	}
	h.respondJSON(w, http.StatusCreated, saved, "POST", "/customers")
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	customerID := mux.Vars(r)["customerId"]

	c, err := h.customers.Get(r.Context(), customerID)
	if err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			h.respondError(w, http.StatusNotFound, "Customer not found", "GET", "/customers/{customerId}")
			return
		}
		h.log.Error().Err(err).Msg("get customer failed")
		h.respondError(w, http.StatusInternalServerError, "Internal Server Error", "GET", "/customers/{customerId}")
		return
	}
	h.respondJSON(w, http.StatusOK, c, "GET", "/customers/{customerId}")
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.customers.List(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list customers failed")
		h.respondError(w, http.StatusInternalServerError, "Internal Server Error", "GET", "/customers")
		return
	}
	h.respondJSON(w, http.StatusOK, list, "GET", "/customers")
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	customerID := mux.Vars(r)["customerId"]

	var c domain.Customer
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		h.respondError(w, http.StatusBadRequest, "Malformed JSON body", "PUT", "/customers/{customerId}")
		return
	}

	saved, err := h.customers.Update(r.Context(), customerID, c)
	if err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			h.respondError(w, http.StatusNotFound, "Customer not found", "PUT", "/customers/{customerId}")
			return
		}
		h.log.Error().Err(err).Msg("update customer failed")
		h.respondError(w, http.StatusInternalServerError, "Internal Server Error", "PUT", "/customers/{customerId}")
		return
	}
	h.respondJSON(w, http.StatusOK, saved, "PUT", "/customers/{customerId}")
}

func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	customerID := mux.Vars(r)["customerId"]

	if err := h.customers.Delete(r.Context(), customerID); err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			h.respondError(w, http.StatusNotFound, "Customer not found", "DELETE", "/customers/{customerId}")
			return
		}
		h.log.Error().Err(err).Msg("delete customer failed")
		h.respondError(w, http.StatusInternalServerError, "Internal Server Error", "DELETE", "/customers/{customerId}")
		return
	}
	httpRequestsTotal.WithLabelValues("DELETE", "/customers/{customerId}", "204").Inc()
	w.WriteHeader(http.StatusNoContent)
}

func (h *CustomerHandler) respondJSON(w http.ResponseWriter, code int, payload interface{}, method, endpoint string) {
	httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(code)).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

func (h *CustomerHandler) respondError(w http.ResponseWriter, code int, message, method, endpoint string) {
	h.respondJSON(w, code, map[string]string{"error": message}, method, endpoint)
}
