package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "expensert/internal/errors"
	"expensert/internal/services"
)

// maxImportBytes bounds the size of an import payload.
const maxImportBytes = 10 << 20

// DataHandler handles whole-ledger export, import and reset.
type DataHandler struct {
	dataService  services.DataServicer
	auditService services.AuditServicer
}

// NewDataHandler creates a new DataHandler.
func NewDataHandler(dataService services.DataServicer, auditService services.AuditServicer) *DataHandler {
	return &DataHandler{dataService: dataService, auditService: auditService}
}

// Export handles downloading the ledger as a JSON snapshot.
// @Summary     Export ledger
// @Description Download transactions, categories and budgets as one JSON document
// @Tags        data
// @Produce     json
// @Param       X-Ledger-Namespace header string false "Ledger namespace"
// @Success     200 {object} models.Snapshot "Snapshot"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /data/export [get]
func (h *DataHandler) Export(c *gin.Context) {
	ns, err := getNamespace(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	data, err := h.dataService.Export(c.Request.Context(), ns)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="expensert-%s.json"`, ns))
	c.Data(http.StatusOK, "application/json", data)
}

// Import handles replacing the ledger with an uploaded snapshot.
// @Summary     Import ledger
// @Description Replace transactions, categories and budgets with a previously exported snapshot. Invalid payloads leave the ledger untouched.
// @Tags        data
// @Accept      json
// @Produce     json
// @Param       X-Ledger-Namespace header string          false "Ledger namespace"
// @Param       request            body   models.Snapshot true  "Snapshot"
// @Success     200 {object} MessageResponse "Ledger imported"
// @Failure     400 {object} ErrorResponse "Malformed snapshot"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /data/import [post]
func (h *DataHandler) Import(c *gin.Context) {
	ns, err := getNamespace(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes+1))
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidFormat, "Failed to read import payload"))
		return
	}
	if len(body) > maxImportBytes {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidFormat, "Import payload is too large"))
		return
	}

	if err := h.dataService.Import(c.Request.Context(), ns, body); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(ns, "IMPORT_LEDGER", "ledger", ns, c.ClientIP(),
		map[string]interface{}{"bytes": len(body)})

	c.JSON(http.StatusOK, gin.H{"message": "Data imported successfully"})
}

// Clear handles wiping the ledger.
// @Summary     Clear ledger
// @Description Delete every transaction and budget and restore the default categories
// @Tags        data
// @Produce     json
// @Param       X-Ledger-Namespace header string false "Ledger namespace"
// @Success     200 {object} MessageResponse "Ledger cleared"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /data/clear [post]
func (h *DataHandler) Clear(c *gin.Context) {
	ns, err := getNamespace(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.dataService.Clear(c.Request.Context(), ns); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(ns, "CLEAR_LEDGER", "ledger", ns, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "All data cleared successfully"})
}
