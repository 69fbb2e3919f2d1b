package http

import (
	"github.com/gin-gonic/gin"
	"github.com/runecoins/coinstore/internal/core/port"
)

type CatalogHandler struct {
	*Handler
	service port.Service
}

func NewCatalogHandler(h *Handler, service port.Service) (*CatalogHandler, error) {
	return &CatalogHandler{Handler: h, service: service}, nil
}

// ListPackages godoc
//
//	@Summary	List active coin packages
//	@Tags		catalog
//	@Produce	json
//	@Success	200	{array}	packageResponse
//	@Router		/api/packages [get]
func (ch *CatalogHandler) ListPackages(ctx *gin.Context) {
	packages, err := ch.service.ListPackages(ctx)
	if err != nil {
		ch.handleError(ctx, err)
		return
	}

	list := make([]packageResponse, 0, len(packages))
	for _, p := range packages {
		list = append(list, newPackageResponse(p))
	}
	ch.handleSuccess(ctx, list)
}

// ListServers godoc
//
//	@Summary	List active game servers
//	@Tags		catalog
//	@Produce	json
//	@Success	200	{array}	serverResponse
//	@Router		/api/servers [get]
func (ch *CatalogHandler) ListServers(ctx *gin.Context) {
	servers, err := ch.service.ListServers(ctx)
	if err != nil {
		ch.handleError(ctx, err)
		return
	}

	list := make([]serverResponse, 0, len(servers))
	for _, s := range servers {
		list = append(list, serverResponse{ID: s.ID, Name: s.Name})
	}
	ch.handleSuccess(ctx, list)
}
