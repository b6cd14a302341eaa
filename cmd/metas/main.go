// cmd/metas/main.go
package main

import (
	"log"

	"metas-service/internal/api/handlers"
	"metas-service/internal/api/middleware"
	"metas-service/internal/api/responses"
	"metas-service/internal/config"
	"metas-service/internal/core/dashboard"
	"metas-service/internal/core/metas"
	"metas-service/internal/core/report"

	"github.com/gin-gonic/gin"
)

func main() {
	responses.InitLogger()
	logger := responses.Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Falha ao carregar a configuração: ", err)
	}

	store := metas.NewStore(metas.NewArquivoStore(cfg.StorePath), logger, cfg.Colecoes)
	relatorios := report.NewService(logger, report.OpcoesAgregacao{
		TokensAtivos: cfg.TokensAtivos,
		LayoutsData:  cfg.LayoutsData,
	})
	painel := dashboard.NewService(logger, dashboard.Limites{
		RetaFinal: cfg.LimiteRetaFinal,
		Metade:    cfg.LimiteMetade,
	})

	dashboardHandler := handlers.NewDashboardHandler(relatorios, store, painel, cfg.ExportDir)
	metasHandler := handlers.NewMetasHandler(store)

	router := gin.Default()
	router.Use(middleware.Metrics())

	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/dashboard", dashboardHandler.HandleDashboard)
		apiV1.POST("/relatorios", dashboardHandler.HandleUpload)

		apiV1.GET("/metas", metasHandler.HandleListarMetas)
		apiV1.POST("/metas", metasHandler.HandleSalvarMeta)
		apiV1.DELETE("/metas/:id", metasHandler.HandleExcluirMeta)

		apiV1.GET("/metas/historico", metasHandler.HandleListarHistorico)
		apiV1.POST("/metas/historico", metasHandler.HandleAdicionarHistorico)
		apiV1.PUT("/metas/historico/:id", metasHandler.HandleAtualizarHistorico)
		apiV1.DELETE("/metas/historico/:id", metasHandler.HandleExcluirHistorico)

		apiV1.GET("/representantes", metasHandler.HandleListarRepresentantes)
		apiV1.PUT("/representantes/:id", metasHandler.HandleAtualizarRepresentante)

		apiV1.GET("/config", metasHandler.HandleConfig)
		apiV1.PUT("/config", metasHandler.HandleSalvarConfig)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP", "service": "metas-service"})
	})
	router.GET("/metrics", middleware.Handler())

	log.Printf("🚀 Metas Service (Go) iniciado e escutando em %s", cfg.Addr)
	if err := router.Run(cfg.Addr); err != nil {
		log.Fatal("Falha ao iniciar o servidor de metas: ", err)
	}
}
