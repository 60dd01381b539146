package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/maktabhq/maktab-api/internal/application/service"
	"github.com/maktabhq/maktab-api/internal/presentation/http/dto/response"
)

// ReportHandler handles financial report HTTP requests
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// reportRange reads from/to query parameters, defaulting to the current month
func reportRange(c *gin.Context) (time.Time, time.Time) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)

	if parsed := parseDateQuery(c, "from"); parsed != nil {
		from = *parsed
	}
	if parsed := parseDateQuery(c, "to"); parsed != nil {
		to = *parsed
	}
	return from, to
}

// Summary returns income, expenses, net and outstanding for a period
func (h *ReportHandler) Summary(c *gin.Context) {
	from, to := reportRange(c)

	summary, err := h.reportService.GetFinancialSummary(requestContext(c), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Financial summary retrieved successfully", summary)
}

// Cashflow returns month-by-month income and expense totals
func (h *ReportHandler) Cashflow(c *gin.Context) {
	months, _ := strconv.Atoi(c.DefaultQuery("months", "12"))

	cashflow, err := h.reportService.GetMonthlyCashflow(requestContext(c), months)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cashflow retrieved successfully", cashflow)
}

// Debtors returns students with unpaid balances, largest debt first
func (h *ReportHandler) Debtors(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	debtors, err := h.reportService.GetDebtors(requestContext(c), limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Debtors retrieved successfully", debtors)
}

// ExpensesByCategory returns expense totals grouped by category
func (h *ReportHandler) ExpensesByCategory(c *gin.Context) {
	from, to := reportRange(c)

	breakdown, err := h.reportService.GetExpensesByCategory(requestContext(c), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Expense breakdown retrieved successfully", breakdown)
}
