package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/api-integration/internal/adapters/http/dto"
	"github.com/jsamuelsen/api-integration/internal/app"
	"github.com/jsamuelsen/api-integration/internal/platform/logging"
)

// MetadataRoute is the resource segment of the dataset metadata endpoints.
const MetadataRoute = "/fingrid-meta-data"

// MetadataHandler serves dataset metadata fetched from the upstream API.
type MetadataHandler struct {
	service *app.DatasetService
}

// NewMetadataHandler creates a new metadata handler.
func NewMetadataHandler(service *app.DatasetService) *MetadataHandler {
	return &MetadataHandler{service: service}
}

// GetMetadata handles GET /api/v1/fingrid-meta-data/{datasetId}.
//
// @Summary Get dataset metadata
// @Description Fetches the metadata of one dataset from the Fingrid open-data API
// @Tags datasets
// @Produce json
// @Param datasetId path int true "Dataset ID (1-999)"
// @Success 200 {object} dto.Envelope[dto.MetadataResponse]
// @Failure 400 {object} dto.ProblemDetails
// @Failure 404 {object} dto.ProblemDetails
// @Failure 429 {object} dto.ProblemDetails
// @Failure 500 {object} dto.ProblemDetails
// @Router /api/v1/fingrid-meta-data/{datasetId} [get]
func (h *MetadataHandler) GetMetadata(c *gin.Context) {
	raw := c.Param("datasetId")

	id := dto.ParseDatasetID(raw)
	if id.IsFailure() {
		logging.FromContext(c.Request.Context()).Debug("rejected dataset id",
			slog.String("dataset_id", raw),
			slog.String("error_code", id.Err().Code()),
		)
		_ = dto.RespondWithResult(c, id)

		return
	}

	res := h.service.GetMetadata(c.Request.Context(), id.Value())
	if res.IsFailure() {
		_ = dto.RespondWithResult(c, res)
		return
	}

	dto.RespondOK(c, dto.NewMetadataResponse(res.Value()))
}

// RegisterRoutes registers the metadata routes on rg. The bare and
// trailing-slash forms exist so a missing id reaches the handler and is
// reported as DatasetIDRequired rather than a 404.
func (h *MetadataHandler) RegisterRoutes(rg *gin.RouterGroup) {
	metadata := rg.Group(MetadataRoute)
	metadata.GET("", h.GetMetadata)
	metadata.GET("/", h.GetMetadata)
	metadata.GET("/:datasetId", h.GetMetadata)
}
