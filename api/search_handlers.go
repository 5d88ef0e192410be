package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-voter-search/internal/engine"
)

// SearchRequest defines the structure for search queries.
type SearchRequest struct {
	Partition    string `json:"partition"`
	Name         string `json:"name"`
	RelativeName string `json:"relative_name"`
}

// SearchHandler filters one partition by name and relative name.
// Request Body: SearchRequest
func (api *API) SearchHandler(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	if result := ValidateSearchRequest(&req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	resp, err := api.engine.Search(c.Request.Context(), engine.SearchRequest{
		Partition:    req.Partition,
		Name:         req.Name,
		RelativeName: req.RelativeName,
	})
	if err != nil {
		api.sendEngineError(c, "search", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
