package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sahilgholap007/Inventory-Management/config"
	"github.com/sahilgholap007/Inventory-Management/models"
	"github.com/sahilgholap007/Inventory-Management/utils"
	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// filterFromQuery builds the conjunctive order filter from query params.
// Omitted params are not applied; the date range needs both ends.
func filterFromQuery(c *gin.Context) (models.OrderFilter, error) {
	var filter models.OrderFilter

	if v := strings.TrimSpace(c.Query("marketplace")); v != "" {
		filter.Marketplace = &v
	}
	if v := strings.TrimSpace(c.Query("status")); v != "" {
		filter.Status = &v
	}
	if v := strings.TrimSpace(c.Query("start_date")); v != "" {
		t, err := utils.ParseDate(v)
		if err != nil {
			return filter, models.NewValidationError("invalid start_date")
		}
		filter.StartDate = &t
	}
	if v := strings.TrimSpace(c.Query("end_date")); v != "" {
		t, err := utils.ParseDate(v)
		if err != nil {
			return filter, models.NewValidationError("invalid end_date")
		}
		filter.EndDate = &t
	}
	return filter, nil
}

func ordersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, err := filterFromQuery(c)
		if err != nil {
			respondError(c, err)
			return
		}

		orders, err := models.GetOrders(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.OrderViews(orders))
	}
}

func downloadHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()

		filter, err := filterFromQuery(c)
		if err != nil {
			respondError(c, err)
			return
		}

		orders, err := models.GetOrders(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err)
			return
		}

		f, err := models.WriteOrdersWorkbook(orders)
		if err != nil {
			config.LogError(logger, "exports.go", "downloadHandler", "WriteOrdersWorkbook", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not build export"})
			return
		}
		writeWorkbook(c, f, "orders_export.xlsx")
	}
}

func downloadTemplateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()

		f, err := models.TemplateWorkbook()
		if err != nil {
			config.LogError(logger, "exports.go", "downloadTemplateHandler", "TemplateWorkbook", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not build template"})
			return
		}
		writeWorkbook(c, f, "orders_template.xlsx")
	}
}

func writeWorkbook(c *gin.Context, f *excelize.File, filename string) {
	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", "attachment; filename="+filename)
	if err := f.Write(c.Writer); err != nil {
		// Headers are already out; nothing useful left to send.
		config.LogError(config.GetLogger(), "exports.go", "writeWorkbook", filename, nil, err)
	}
}
