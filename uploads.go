package main

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sahilgholap007/Inventory-Management/config"
	"github.com/sahilgholap007/Inventory-Management/models"
	"github.com/sahilgholap007/Inventory-Management/utils"
	"github.com/sirupsen/logrus"
)

// saveUpload persists an uploaded spreadsheet to the local blob area and
// returns the stored path. Client filenames are prefixed with a unique
// token so concurrent uploads with identical names cannot clobber each
// other.
func saveUpload(c *gin.Context, fh *multipart.FileHeader) (string, error) {
	dir, err := utils.UploadDir()
	if err != nil {
		return "", err
	}
	dst := filepath.Join(dir, utils.GenerateUniqueFilename()+"_"+filepath.Base(fh.Filename))
	if err := c.SaveUploadedFile(fh, dst); err != nil {
		return "", err
	}
	return dst, nil
}

func respondError(c *gin.Context, err error) {
	if models.IsValidationError(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func uploadHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()

		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no files uploaded"})
			return
		}
		files := form.File["files"]
		if len(files) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no files uploaded"})
			return
		}

		// Concatenate all workbooks into one record stream, in upload
		// order, before persistence.
		var records []*models.Order
		for _, fh := range files {
			path, err := saveUpload(c, fh)
			if err != nil {
				config.LogError(logger, "uploads.go", "uploadHandler", "saveUpload", fh.Filename, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store uploaded file"})
				return
			}

			f, err := os.Open(path)
			if err != nil {
				config.LogError(logger, "uploads.go", "uploadHandler", "open stored file", path, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read uploaded file"})
				return
			}
			fileRecords, err := models.ParseOrderWorkbook(f)
			f.Close()
			if err != nil {
				respondError(c, err)
				return
			}
			records = append(records, fileRecords...)
		}

		count, err := models.ImportOrders(c.Request.Context(), records, time.Now())
		if err != nil {
			cid, _ := utils.GetCorrelationIdFromContext(c.Request.Context())
			logger.WithFields(logrus.Fields{
				"field":          "uploadHandler",
				"records_done":   count,
				"records_total":  len(records),
				"correlation_id": cid,
			}).Error("upload aborted mid-batch: " + err.Error())
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":          "files processed successfully",
			"records_inserted": count,
		})
	}
}

type updateStatusRequest struct {
	Status string `form:"status" binding:"required,oneof=RTO Delivered"`
}

func updateStatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()

		var req updateStatusRequest
		if err := c.ShouldBind(&req); err != nil {
			if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":  "invalid status selected",
					"fields": utils.ProcessValidationErrors(err),
				})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "file and status are required"})
			return
		}

		fh, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file and status are required"})
			return
		}

		path, err := saveUpload(c, fh)
		if err != nil {
			config.LogError(logger, "uploads.go", "updateStatusHandler", "saveUpload", fh.Filename, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store uploaded file"})
			return
		}

		f, err := os.Open(path)
		if err != nil {
			config.LogError(logger, "uploads.go", "updateStatusHandler", "open stored file", path, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read uploaded file"})
			return
		}
		keys, err := models.ParseOrderKeySheet(f)
		f.Close()
		if err != nil {
			respondError(c, err)
			return
		}

		count, err := models.OverrideStatus(c.Request.Context(), keys, req.Status)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":         fmt.Sprintf("orders updated to '%s' successfully", req.Status),
			"records_updated": count,
		})
	}
}

func compareStatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()

		yourFile, err := c.FormFile("your_file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "both files are required"})
			return
		}
		partnerFile, err := c.FormFile("partner_file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "both files are required"})
			return
		}

		owner, err := parseStatusUpload(c, yourFile, logger)
		if err != nil {
			respondError(c, err)
			return
		}
		partner, err := parseStatusUpload(c, partnerFile, logger)
		if err != nil {
			respondError(c, err)
			return
		}

		mismatched := models.FindStatusMismatches(owner, partner)
		if len(mismatched) == 0 {
			c.JSON(http.StatusOK, gin.H{"message": "no status mismatches found"})
			return
		}

		count, err := models.MarkStatusMismatches(c.Request.Context(), mismatched)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("status mismatches detected and updated for %d records", count),
		})
	}
}

func parseStatusUpload(c *gin.Context, fh *multipart.FileHeader, logger *logrus.Logger) ([]models.StatusRecord, error) {
	path, err := saveUpload(c, fh)
	if err != nil {
		config.LogError(logger, "uploads.go", "parseStatusUpload", "saveUpload", fh.Filename, err)
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		config.LogError(logger, "uploads.go", "parseStatusUpload", "open stored file", path, err)
		return nil, err
	}
	defer f.Close()
	return models.ParseStatusSheet(f)
}
