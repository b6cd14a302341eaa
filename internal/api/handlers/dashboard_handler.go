package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"metas-service/internal/api/middleware"
	"metas-service/internal/api/responses"
	"metas-service/internal/core/dashboard"
	"metas-service/internal/core/metas"
	"metas-service/internal/core/report"
	"metas-service/internal/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DashboardHandler lida com as requisições de carga de relatório e
// montagem do dashboard.
type DashboardHandler struct {
	relatorios report.Service
	store      *metas.Store
	painel     dashboard.Service
	exportDir  string
}

// NewDashboardHandler cria um novo handler de dashboard.
func NewDashboardHandler(relatorios report.Service, store *metas.Store, painel dashboard.Service, exportDir string) *DashboardHandler {
	return &DashboardHandler{
		relatorios: relatorios,
		store:      store,
		painel:     painel,
		exportDir:  exportDir,
	}
}

// HandleDashboard monta o dashboard a partir do arquivo de exportação
// mais recente do diretório configurado.
func (h *DashboardHandler) HandleDashboard(c *gin.Context) {
	periodo := h.store.PeriodoVigente(c.Query("marca"))

	relatorio, err := h.relatorios.CarregarUltimo(h.exportDir)
	if err != nil {
		middleware.FalhasDeRelatorio.Inc()
		responses.Error(c, http.StatusInternalServerError, "Erro ao processar o relatório", err.Error())
		return
	}
	if relatorio == nil {
		responses.Success(c, h.painel.Vazio(periodo),
			fmt.Sprintf("Nenhum arquivo de exportação encontrado em %s", h.exportDir))
		return
	}

	h.responder(c, relatorio, periodo)
}

// HandleUpload processa um relatório enviado por formulário multipart e
// devolve o mesmo payload do dashboard.
func (h *DashboardHandler) HandleUpload(c *gin.Context) {
	fileHeader, err := c.FormFile("relatorioFile")
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Arquivo de relatório (.csv, .xls, .xlsx) não encontrado ou inválido")
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !report.ExtensoesSuportadas[ext] {
		responses.Error(c, http.StatusBadRequest, fmt.Sprintf("Extensão de relatório não suportada: %s", ext))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Não foi possível abrir o arquivo de relatório")
		return
	}
	defer file.Close()

	relatorio, err := h.relatorios.Processar(file, fileHeader.Filename, time.Now())
	if err != nil {
		middleware.FalhasDeRelatorio.Inc()
		responses.Error(c, http.StatusInternalServerError, "Erro ao processar o relatório", err.Error())
		return
	}

	h.responder(c, relatorio, h.store.PeriodoVigente(c.PostForm("marca")))
}

func (h *DashboardHandler) responder(c *gin.Context, relatorio *domain.Relatorio, periodo domain.Periodo) {
	// primeira aparição de representantes não bloqueia o dashboard
	if err := h.store.RegistrarVendedores(relatorio.Vendedores); err != nil {
		responses.Logger().Warn("falha ao registrar representantes do relatório", zap.Error(err))
	}

	metasAtuais := h.store.MetasAtuais(periodo.Ano, periodo.Colecao)
	painel := h.painel.Montar(relatorio, metasAtuais, periodo)
	middleware.RelatoriosProcessados.Inc()
	responses.Success(c, painel, fmt.Sprintf("Relatório %s processado", relatorio.Arquivo))
}
