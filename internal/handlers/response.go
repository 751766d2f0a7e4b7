package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/internal/receipt"
	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/internal/repository"
	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/internal/service"
	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/internal/validation"
)

// maxBodyBytes bounds JSON request bodies
const maxBodyBytes = 1 << 20

var errInvalidBody = errors.New("invalid request body")

// ErrorResponse is the JSON body of every failed request
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data interface{}, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes an error response in JSON format
func WriteError(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	WriteJSON(w, status, ErrorResponse{Error: message}, logger)
}

// WritePDF writes a finished receipt document
func WritePDF(w http.ResponseWriter, filename string, doc []byte, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(doc)))
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(doc); err != nil {
		logger.Error("failed to write PDF response", "error", err)
	}
}

// decodeBody reads and validates a JSON request body. An empty body is
// accepted when allowEmpty is set and leaves dst at its zero value.
func decodeBody(r *http.Request, dst interface{}, validate *validatorv10.Validate, allowEmpty bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if !(allowEmpty && errors.Is(err, io.EOF)) {
			return errInvalidBody
		}
	}
	return validate.Struct(dst)
}

// writeDecodeError reports a body that failed to parse or validate
func writeDecodeError(w http.ResponseWriter, err error, logger *slog.Logger) {
	var verrs validatorv10.ValidationErrors
	if errors.As(err, &verrs) {
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:  validation.Summary(err),
			Fields: validation.FieldErrors(err),
		}, logger)
		return
	}
	WriteError(w, http.StatusBadRequest, "Invalid request body", logger)
}

// writeServiceError maps domain errors onto HTTP statuses
func writeServiceError(w http.ResponseWriter, err error, logger *slog.Logger) {
	var subErr *service.SubmissionError

	switch {
	case errors.Is(err, repository.ErrCartNotFound):
		WriteError(w, http.StatusNotFound, "Cart not found", logger)
	case errors.Is(err, repository.ErrReceiptNotFound):
		WriteError(w, http.StatusNotFound, "Receipt not found", logger)
	case errors.Is(err, service.ErrItemNotFound):
		WriteError(w, http.StatusNotFound, "Product not found", logger)
	case errors.Is(err, service.ErrOutOfStock):
		WriteError(w, http.StatusConflict, "Product is out of stock", logger)
	case errors.Is(err, service.ErrCheckoutInProgress):
		WriteError(w, http.StatusConflict, "Checkout already in progress", logger)
	case errors.Is(err, service.ErrEmptyCart):
		WriteError(w, http.StatusBadRequest, "Cart is empty", logger)
	case errors.As(err, &subErr):
		WriteError(w, http.StatusBadGateway, subErr.Message, logger)
	case errors.Is(err, service.ErrMissingOrderID):
		WriteError(w, http.StatusBadRequest, "Order ID is required", logger)
	case errors.Is(err, service.ErrOrderNotFound):
		WriteError(w, http.StatusNotFound, "Order not found", logger)
	case errors.Is(err, service.ErrOrderFetch):
		WriteError(w, http.StatusBadGateway, "Failed to load order", logger)
	case errors.Is(err, service.ErrCatalogUnavailable):
		WriteError(w, http.StatusBadGateway, "Catalog unavailable", logger)
	case errors.Is(err, receipt.ErrReceiptGeneration):
		WriteError(w, http.StatusInternalServerError, "Failed to generate receipt", logger)
	default:
		logger.Error("unhandled error", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", logger)
	}
}
