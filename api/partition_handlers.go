package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-voter-search/internal/engine"
)

// PartitionListResponse is the body of GET /partitions.
type PartitionListResponse struct {
	Prompt      string                 `json:"prompt"`
	Placeholder string                 `json:"placeholder"`
	Partitions  []engine.PartitionInfo `json:"partitions"`
}

// SelectPartitionRequest is the body of POST /partitions/_select.
type SelectPartitionRequest struct {
	Label string `json:"label"`
}

// ListPartitionsHandler lists every partition in display order, including unavailable ones.
func (api *API) ListPartitionsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, PartitionListResponse{
		Prompt:      api.messages.ChoosePrompt,
		Placeholder: api.messages.Placeholder,
		Partitions:  api.engine.Partitions(),
	})
}

// SelectPartitionHandler loads the chosen partition and reports its row count.
// Request Body: SelectPartitionRequest
func (api *API) SelectPartitionHandler(c *gin.Context) {
	var req SelectPartitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	if result := ValidatePartitionLabel(req.Label); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	selection, err := api.engine.SelectPartition(c.Request.Context(), req.Label)
	if err != nil {
		api.sendEngineError(c, "partition selection", err)
		return
	}

	c.JSON(http.StatusOK, selection)
}
