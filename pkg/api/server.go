// Package api provides the REST API server for midi2json
package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/james-see/midi2json/pkg/convert"
)

// @title MIDI2JSON API
// @version 1.0
// @description API for converting MIDI files to timestamped JSON event streams
// @host localhost:8080
// @BasePath /api/v1

// StartServer starts the API server on the specified port
func StartServer(port int) error {
	r := gin.Default()

	// CORS middleware
	r.Use(corsMiddleware())

	// Health check
	r.GET("/health", healthCheck)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.POST("/convert", handleConvert)
		v1.GET("/options", listOptions)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r.Run(fmt.Sprintf(":%d", port))
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "midi2json",
	})
}

// listOptions godoc
// @Summary List conversion options
// @Description Returns the query parameters accepted by the convert endpoint
// @Tags info
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/v1/options [get]
func listOptions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"formats": []string{"midi"},
		"options": []map[string]string{
			{"name": "meta", "description": "include meta events in the output (true/false)"},
			{"name": "delta", "description": "emit delta instead of absolute timestamps (true/false)"},
		},
	})
}

// handleConvert godoc
// @Summary Convert a MIDI file to JSON
// @Description Upload a MIDI file and receive the timestamped JSON event stream
// @Tags convert
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "MIDI file to convert"
// @Param meta query bool false "Include meta events (default: false)"
// @Param delta query bool false "Emit delta timestamps (default: false)"
// @Success 200 {object} convert.Result
// @Failure 400 {object} map[string]string
// @Router /api/v1/convert [post]
func handleConvert(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}

	if !convert.IsMIDI(data) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Uploaded file is not a MIDI file"})
		return
	}

	opts := convert.Options{
		IncludeMeta: c.DefaultQuery("meta", "false") == "true",
		DeltaTimes:  c.DefaultQuery("delta", "false") == "true",
	}

	result, err := convert.Convert(data, header.Filename, opts)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
