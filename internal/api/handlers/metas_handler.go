package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"metas-service/internal/api/middleware"
	"metas-service/internal/api/responses"
	"metas-service/internal/core/metas"
	"metas-service/internal/domain"

	"github.com/gin-gonic/gin"
)

// MetasHandler expõe o CRUD de metas, histórico, representantes e
// configuração de períodos sobre o documento versionado.
type MetasHandler struct {
	store *metas.Store
}

// NewMetasHandler cria um novo handler de metas.
func NewMetasHandler(store *metas.Store) *MetasHandler {
	return &MetasHandler{store: store}
}

type metaRequest struct {
	RepresentanteID string  `json:"representante_id" binding:"required"`
	Nome            string  `json:"nome"`
	Ano             int     `json:"ano" binding:"required"`
	Colecao         string  `json:"colecao" binding:"required"`
	Valor           float64 `json:"valor"`
}

type historicoRequest struct {
	RepresentanteID string   `json:"representante_id" binding:"required"`
	Nome            string   `json:"nome"`
	Ano             int      `json:"ano" binding:"required"`
	Colecao         string   `json:"colecao" binding:"required"`
	Valor           float64  `json:"valor"`
	Realizado       *float64 `json:"realizado"`
}

type representanteRequest struct {
	Nome   string `json:"nome"`
	Status string `json:"status"`
	Marca  string `json:"marca"`
}

type metaView struct {
	domain.Meta
	Nome string `json:"nome"`
}

// HandleListarMetas lista as metas do período informado por query. Sem
// ano e coleção, vale o período vigente da configuração.
func (h *MetasHandler) HandleListarMetas(c *gin.Context) {
	periodo := h.store.PeriodoVigente(c.Query("marca"))
	if ano, err := strconv.Atoi(c.Query("ano")); err == nil {
		periodo.Ano = ano
	}
	if colecao := c.Query("colecao"); colecao != "" {
		periodo.Colecao = colecao
	}

	representantes := h.store.Representantes()
	lista := make([]metaView, 0)
	for _, meta := range h.store.MetasAtuais(periodo.Ano, periodo.Colecao) {
		view := metaView{Meta: meta}
		if rep, ok := representantes[meta.RepresentanteID]; ok {
			view.Nome = rep.Nome
		}
		lista = append(lista, view)
	}

	responses.Success(c, gin.H{
		"periodo": periodo,
		"metas":   lista,
	}, fmt.Sprintf("%d metas para %d %s", len(lista), periodo.Ano, periodo.Colecao))
}

// HandleSalvarMeta cria ou atualiza a meta do representante no período.
func (h *MetasHandler) HandleSalvarMeta(c *gin.Context) {
	var req metaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, "Corpo da requisição inválido", err.Error())
		return
	}

	id, err := h.store.SalvarMeta(req.RepresentanteID, req.Nome, req.Ano, req.Colecao, req.Valor)
	if err != nil {
		h.tratarErro(c, err)
		return
	}

	middleware.MutacoesMeta.WithLabelValues("salvar_meta").Inc()
	responses.Success(c, gin.H{"id": id}, "Meta salva")
}

// HandleExcluirMeta remove uma meta atual pelo id.
func (h *MetasHandler) HandleExcluirMeta(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Identificador de meta inválido")
		return
	}

	if err := h.store.ExcluirMeta(id); err != nil {
		h.tratarErro(c, err)
		return
	}

	middleware.MutacoesMeta.WithLabelValues("excluir_meta").Inc()
	responses.Success(c, nil, "Meta excluída")
}

// HandleListarHistorico lista o histórico, opcionalmente filtrado por
// representante via query.
func (h *MetasHandler) HandleListarHistorico(c *gin.Context) {
	historico := h.store.Historico(c.Query("representante"))
	responses.Success(c, historico, fmt.Sprintf("%d registros de histórico", len(historico)))
}

// HandleAdicionarHistorico insere um registro de histórico respeitando o
// limite por representante.
func (h *MetasHandler) HandleAdicionarHistorico(c *gin.Context) {
	var req historicoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, "Corpo da requisição inválido", err.Error())
		return
	}

	id, err := h.store.AdicionarHistorico(req.RepresentanteID, req.Nome, req.Ano, req.Colecao, req.Valor, req.Realizado)
	if err != nil {
		h.tratarErro(c, err)
		return
	}

	middleware.MutacoesMeta.WithLabelValues("adicionar_historico").Inc()
	responses.Success(c, gin.H{"id": id}, "Histórico adicionado")
}

// HandleAtualizarHistorico edita um registro de histórico existente.
func (h *MetasHandler) HandleAtualizarHistorico(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Identificador de histórico inválido")
		return
	}

	var req historicoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, "Corpo da requisição inválido", err.Error())
		return
	}

	if err := h.store.AtualizarHistorico(id, req.Ano, req.Colecao, req.Valor, req.Realizado); err != nil {
		h.tratarErro(c, err)
		return
	}

	middleware.MutacoesMeta.WithLabelValues("atualizar_historico").Inc()
	responses.Success(c, gin.H{"id": id}, "Histórico atualizado")
}

// HandleExcluirHistorico remove um registro de histórico pelo id.
func (h *MetasHandler) HandleExcluirHistorico(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Identificador de histórico inválido")
		return
	}

	if err := h.store.ExcluirHistorico(id); err != nil {
		h.tratarErro(c, err)
		return
	}

	middleware.MutacoesMeta.WithLabelValues("excluir_historico").Inc()
	responses.Success(c, nil, "Histórico excluído")
}

// HandleListarRepresentantes devolve o cadastro de representantes.
func (h *MetasHandler) HandleListarRepresentantes(c *gin.Context) {
	representantes := h.store.Representantes()
	responses.Success(c, representantes, fmt.Sprintf("%d representantes", len(representantes)))
}

// HandleAtualizarRepresentante edita nome, status ou marca de um
// representante já registrado.
func (h *MetasHandler) HandleAtualizarRepresentante(c *gin.Context) {
	var req representanteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, "Corpo da requisição inválido", err.Error())
		return
	}

	if err := h.store.AtualizarRepresentante(c.Param("id"), req.Nome, req.Status, req.Marca); err != nil {
		h.tratarErro(c, err)
		return
	}

	middleware.MutacoesMeta.WithLabelValues("atualizar_representante").Inc()
	responses.Success(c, nil, "Representante atualizado")
}

// HandleConfig devolve a configuração de período vigente.
func (h *MetasHandler) HandleConfig(c *gin.Context) {
	responses.Success(c, h.store.Config(), "Configuração de períodos")
}

// HandleSalvarConfig substitui a configuração de período vigente.
func (h *MetasHandler) HandleSalvarConfig(c *gin.Context) {
	var cfg domain.ConfigPeriodo
	if err := c.ShouldBindJSON(&cfg); err != nil {
		responses.Error(c, http.StatusBadRequest, "Corpo da requisição inválido", err.Error())
		return
	}

	if err := h.store.SalvarConfig(cfg); err != nil {
		h.tratarErro(c, err)
		return
	}

	middleware.MutacoesMeta.WithLabelValues("salvar_config").Inc()
	responses.Success(c, h.store.Config(), "Configuração atualizada")
}

func (h *MetasHandler) tratarErro(c *gin.Context, err error) {
	var validacao *metas.ErroValidacao
	switch {
	case errors.As(err, &validacao):
		responses.Error(c, http.StatusBadRequest, "Dados inválidos", validacao.Mensagens...)
	case errors.Is(err, metas.ErrHistoricoCheio):
		middleware.HistoricoRejeitado.Inc()
		responses.Error(c, http.StatusConflict,
			fmt.Sprintf("O representante já possui %d registros de histórico", metas.MaxHistoricoPorRepresentante))
	case errors.Is(err, metas.ErrMetaNaoEncontrada), errors.Is(err, metas.ErrHistoricoNaoEncontrado):
		responses.Error(c, http.StatusNotFound, err.Error())
	default:
		responses.Error(c, http.StatusInternalServerError, "Erro ao gravar metas", err.Error())
	}
}
