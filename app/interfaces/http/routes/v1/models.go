package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"menlo.ai/chat-relay/app/domain/modelcatalog"
	"menlo.ai/chat-relay/app/interfaces/http/responses"
	"menlo.ai/chat-relay/app/utils/logger"
)

type ModelAPI struct {
	modelCatalogService *modelcatalog.ModelCatalogService
}

func NewModelAPI(modelCatalogService *modelcatalog.ModelCatalogService) *ModelAPI {
	return &ModelAPI{
		modelCatalogService: modelCatalogService,
	}
}

func (modelAPI *ModelAPI) RegisterRouter(router gin.IRouter) {
	router.GET("/models", modelAPI.GetModels)
}

type ModelsResponse struct {
	Object string               `json:"object"`
	Data   []modelcatalog.Model `json:"data"`
}

func (modelAPI *ModelAPI) GetModels(reqCtx *gin.Context) {
	models, err := modelAPI.modelCatalogService.ListModels(reqCtx.Request.Context())
	if err != nil {
		logger.GetLogger().
			WithField("error_code", "27c47e9f-4143-4691-91f7-635f87f291ec").
			Errorf("failed to list models: %v", err)
		reqCtx.AbortWithStatusJSON(http.StatusBadGateway, responses.ErrorResponse{
			Code:  "27c47e9f-4143-4691-91f7-635f87f291ec",
			Error: "Failed to retrieve models",
		})
		return
	}
	reqCtx.JSON(http.StatusOK, ModelsResponse{
		Object: "list",
		Data:   models,
	})
}
