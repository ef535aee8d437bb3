package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"

	apperrors "expensert/internal/errors"
	"expensert/internal/models"
	"expensert/internal/services"
)

const defaultTrendMonths = 6

// ReportHandler handles aggregated views over a ledger.
type ReportHandler struct {
	reportService services.ReportServicer
	now           func() time.Time
}

// NewReportHandler creates a new ReportHandler. Month and year parameters
// default to the month of clock.
func NewReportHandler(reportService services.ReportServicer, clock func() time.Time) *ReportHandler {
	if clock == nil {
		clock = time.Now
	}
	return &ReportHandler{reportService: reportService, now: clock}
}

// GetSummary handles totalling income and expenses over a date range.
// @Summary     Income and expense summary
// @Description Total income, expenses and balance, optionally within a date range
// @Tags        reports
// @Produce     json
// @Param       X-Ledger-Namespace header string false "Ledger namespace"
// @Param       from query string false "Earliest date (YYYY-MM-DD)"
// @Param       to   query string false "Latest date (YYYY-MM-DD)"
// @Success     200 {object} aggregate.Summary "Summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/summary [get]
func (h *ReportHandler) GetSummary(c *gin.Context) {
	ns, err := getNamespace(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	from, err := queryDate(c, "from")
	if err != nil {
		respondWithError(c, err)
		return
	}
	to, err := queryDate(c, "to")
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.reportService.Summary(c.Request.Context(), ns, from, to)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// GetMonthlyReport handles building the report for one month.
// @Summary     Monthly report
// @Description Summary, per-category breakdowns and transactions of one month. format=yaml returns a downloadable YAML document.
// @Tags        reports
// @Produce     json
// @Produce     application/x-yaml
// @Param       X-Ledger-Namespace header string false "Ledger namespace"
// @Param       month  query int    false "Month 1-12 (default current)"
// @Param       year   query int    false "Year (default current)"
// @Param       format query string false "json (default) or yaml"
// @Success     200 {object} aggregate.Report "Monthly report"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/monthly [get]
func (h *ReportHandler) GetMonthlyReport(c *gin.Context) {
	ns, err := getNamespace(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	month, year, err := queryMonth(c, h.now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	format := c.DefaultQuery("format", "json")
	if format != "json" && format != "yaml" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "format must be 'json' or 'yaml'"))
		return
	}

	report, err := h.reportService.MonthlyReport(c.Request.Context(), ns, month, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if format == "yaml" {
		out, err := yaml.Marshal(report)
		if err != nil {
			respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
			return
		}
		c.Header("Content-Disposition",
			fmt.Sprintf(`attachment; filename="report-%04d-%02d.yaml"`, year, int(month)))
		c.Data(http.StatusOK, "application/x-yaml", out)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}

// GetTrend handles per-month totals for recent months.
// @Summary     Monthly trend
// @Description Income and expense totals for each of the last N months, oldest first
// @Tags        reports
// @Produce     json
// @Param       X-Ledger-Namespace header string false "Ledger namespace"
// @Param       months query int false "Number of months (default 6, max 60)"
// @Success     200 {object} map[string][]aggregate.MonthTotals "Trend"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/trend [get]
func (h *ReportHandler) GetTrend(c *gin.Context) {
	ns, err := getNamespace(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	months, err := queryInt(c, "months", defaultTrendMonths)
	if err != nil {
		respondWithError(c, err)
		return
	}

	trend, err := h.reportService.Trend(c.Request.Context(), ns, months)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trend": trend})
}

// GetCategoryTotals handles the per-category breakdown of one month.
// @Summary     Category breakdown
// @Description Totals per category for one transaction type and month, largest first
// @Tags        reports
// @Produce     json
// @Param       X-Ledger-Namespace header string false "Ledger namespace"
// @Param       type  query string false "income or expense (default expense)"
// @Param       month query int    false "Month 1-12 (default current)"
// @Param       year  query int    false "Year (default current)"
// @Success     200 {object} map[string][]aggregate.CategoryTotal "Category totals"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/categories [get]
func (h *ReportHandler) GetCategoryTotals(c *gin.Context) {
	ns, err := getNamespace(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	month, year, err := queryMonth(c, h.now())
	if err != nil {
		respondWithError(c, err)
		return
	}
	txType := models.TransactionType(c.DefaultQuery("type", string(models.TransactionTypeExpense)))

	totals, err := h.reportService.CategoryTotals(c.Request.Context(), ns, txType, month, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": totals})
}

// GetWeek handles the report of one Sunday-to-Saturday week.
// @Summary     Weekly report
// @Description Summary and transactions of the week containing date
// @Tags        reports
// @Produce     json
// @Param       X-Ledger-Namespace header string false "Ledger namespace"
// @Param       date query string false "Any day of the week (default today)"
// @Success     200 {object} services.PeriodReport "Weekly report"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/week [get]
func (h *ReportHandler) GetWeek(c *gin.Context) {
	ns, err := getNamespace(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	ref, err := queryDate(c, "date")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if ref.IsZero() {
		ref = models.DateOf(h.now())
	}

	report, err := h.reportService.Week(c.Request.Context(), ns, ref)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}

// GetYear handles the report of one calendar year.
// @Summary     Yearly report
// @Description Summary and transactions of one calendar year
// @Tags        reports
// @Produce     json
// @Param       X-Ledger-Namespace header string false "Ledger namespace"
// @Param       year query int false "Year (default current)"
// @Success     200 {object} services.PeriodReport "Yearly report"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/year [get]
func (h *ReportHandler) GetYear(c *gin.Context) {
	ns, err := getNamespace(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	year, err := queryInt(c, "year", h.now().Year())
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.reportService.Year(c.Request.Context(), ns, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}
