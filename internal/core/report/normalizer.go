package report

import (
	"metas-service/internal/domain"

	"github.com/schollz/closestmatch"
	"go.uber.org/zap"
)

// Colunas canônicas do relatório pré-agregado por representante.
const (
	ColVendedor       = "VENDEDOR"
	ColNomeVendedor   = "NOME_VENDEDOR"
	ColQtdeItem       = "QTDEITEM"
	ColTotalPedidos   = "TOTAL_PEDIDOS"
	ColTotalClientes  = "TOTAL_CLIENTES"
	ColClientesAtivos = "CLIENTES_ATIVOS"
	ColClientesNovos  = "CLIENTES_NOVOS"
	ColVlrLiquido     = "VLR_LIQUIDO"
	ColPrecoMedio     = "PRECO_MEDIO"
	ColMediaPedidos   = "MEDIA_PEDIDOS"
	ColQtdeMedia      = "QTDE_MEDIA"
)

// Colunas canônicas presentes apenas em relatórios por pedido.
const (
	ColPedido          = "PEDIDO"
	ColCliente         = "CLIENTE"
	ColSituacaoCliente = "SITUACAO_CLIENTE"
	ColDataCadastro    = "DATA_CADASTRO"
)

// grupoAlias associa uma coluna canônica à sua lista de apelidos
// conhecidos, em ordem de prioridade. A resolução é determinística:
// vence o primeiro apelido presente, sem correspondência aproximada.
type grupoAlias struct {
	Canonica string
	Aliases  []string
}

var aliasesCanonicos = []grupoAlias{
	{ColNomeVendedor, []string{"NOME_VENDEDOR", "NOME_REPRESENTANTE", "VENDEDOR_NOME", "REPRESENTANTE_NOME", "NOME"}},
	{ColVendedor, []string{"VENDEDOR", "COD_VENDEDOR", "CODIGO_VENDEDOR", "COD_REPRESENTANTE", "REPRESENTANTE", "COD_REP", "CODIGO", "COD"}},
	{ColQtdeItem, []string{"QTDEITEM", "QTDE_ITEM", "QTD_ITENS", "QTDE_ITENS", "QUANTIDADE_ITENS", "QTDE", "QUANTIDADE"}},
	{ColTotalPedidos, []string{"TOTAL_PEDIDOS", "QTD_PEDIDOS", "QTDE_PEDIDOS", "NUM_PEDIDOS", "PEDIDOS"}},
	{ColTotalClientes, []string{"TOTAL_CLIENTES", "QTD_CLIENTES", "QTDE_CLIENTES", "CLIENTES"}},
	{ColClientesAtivos, []string{"CLIENTES_ATIVOS", "ATIVOS", "QTD_ATIVOS"}},
	{ColClientesNovos, []string{"CLIENTES_NOVOS", "NOVOS", "QTD_NOVOS"}},
	{ColVlrLiquido, []string{"VLR_LIQUIDO", "VALOR_LIQUIDO", "VL_LIQUIDO", "VLRLIQUIDO", "TOTAL_LIQUIDO", "VLR_TOTAL", "VALOR_TOTAL", "VALOR"}},
	{ColPrecoMedio, []string{"PRECO_MEDIO", "PRECO_MEDIO_ITEM", "PM"}},
	{ColMediaPedidos, []string{"MEDIA_PEDIDOS", "TICKET_MEDIO", "VALOR_MEDIO_PEDIDO"}},
	{ColQtdeMedia, []string{"QTDE_MEDIA", "MEDIA_ITENS", "ITENS_POR_PEDIDO"}},
	{ColPedido, []string{"PEDIDO", "NUM_PEDIDO", "NR_PEDIDO", "NUMERO_PEDIDO", "DOCUMENTO", "NUM_DOCTO", "NOTA", "NOTA_FISCAL"}},
	{ColCliente, []string{"CLIENTE", "COD_CLIENTE", "CODIGO_CLIENTE", "CNPJ_CLIENTE", "CPF_CNPJ"}},
	{ColSituacaoCliente, []string{"SITUACAO_CLIENTE", "SITUACAO", "STATUS_CLIENTE", "CLIENTE_ATIVO", "ATIVO"}},
	{ColDataCadastro, []string{"DATA_CADASTRO", "DT_CADASTRO", "DATA_CAD", "CADASTRO"}},
}

// apelidos genéricos demais para afirmar que a coluna é o código do
// representante quando o relatório tem cara de extrato por pedido.
var aliasesGenericosDeCodigo = map[string]bool{
	"CODIGO": true,
	"COD":    true,
}

// colunas que denunciam um relatório por pedido: um relatório já
// agregado por representante não carrega número de documento, cliente
// por linha nem total por nota.
var sinaisDePedido = map[string]bool{
	"PEDIDO": true, "NUM_PEDIDO": true, "NR_PEDIDO": true, "NUMERO_PEDIDO": true,
	"DOCUMENTO": true, "NUM_DOCTO": true, "NOTA": true, "NOTA_FISCAL": true,
	"CLIENTE": true, "COD_CLIENTE": true, "CODIGO_CLIENTE": true,
	"VLR_TOTAL": true, "VALOR_TOTAL": true, "TOTAL_NOTA": true, "VALOR_NOTA": true,
}

// Normalizador remapeia cabeçalhos arbitrários para o conjunto canônico.
type Normalizador struct {
	logger    *zap.Logger
	sugestoes *closestmatch.ClosestMatch
}

// NewNormalizador cria o normalizador de esquema. O índice de
// correspondência aproximada serve apenas para sugerir, no log, o
// apelido mais próximo de colunas não mapeadas; nunca decide mapeamento.
func NewNormalizador(logger *zap.Logger) *Normalizador {
	var todas []string
	for _, grupo := range aliasesCanonicos {
		todas = append(todas, grupo.Aliases...)
	}
	return &Normalizador{
		logger:    logger,
		sugestoes: closestmatch.New(todas, []int{2, 3}),
	}
}

// Normalizar devolve uma nova tabela com os cabeçalhos remapeados para
// o conjunto canônico. Colunas sem apelido conhecido são mantidas com o
// nome normalizado e ignoradas adiante.
func (n *Normalizador) Normalizar(t *domain.Tabela) *domain.Tabela {
	norm := make([]string, len(t.Colunas))
	for i, c := range t.Colunas {
		norm[i] = normalizarTexto(c)
	}

	atribuicao := make(map[int]string)
	usadas := make(map[int]bool)
	origem := make(map[string]string)

	encontrar := func(alias string) int {
		for i, c := range norm {
			if c == alias && !usadas[i] {
				return i
			}
		}
		return -1
	}

	resolver := func(grupo grupoAlias, pular map[string]bool) {
		for _, alias := range grupo.Aliases {
			if pular[alias] {
				continue
			}
			if idx := encontrar(alias); idx != -1 {
				atribuicao[idx] = grupo.Canonica
				usadas[idx] = true
				origem[grupo.Canonica] = alias
				return
			}
		}
	}

	for _, grupo := range aliasesCanonicos {
		resolver(grupo, nil)
	}

	// Ambiguidade CODIGO vs identificador de pedido: quando o código do
	// representante veio de um apelido genérico e o relatório carrega
	// sinais de extrato por pedido, a coluna é na verdade o número do
	// pedido. Reatribui e tenta o representante de novo sem os genéricos.
	if aliasesGenericosDeCodigo[origem[ColVendedor]] && temSinalDePedido(norm) {
		for idx, canonica := range atribuicao {
			if canonica != ColVendedor {
				continue
			}
			if _, temPedido := origem[ColPedido]; !temPedido {
				atribuicao[idx] = ColPedido
				origem[ColPedido] = origem[ColVendedor]
			} else {
				delete(atribuicao, idx)
			}
			delete(origem, ColVendedor)
			break
		}
		for _, grupo := range aliasesCanonicos {
			if grupo.Canonica == ColVendedor {
				resolver(grupo, aliasesGenericosDeCodigo)
				break
			}
		}
	}

	colunas := make([]string, len(norm))
	for i := range norm {
		if canonica, ok := atribuicao[i]; ok {
			colunas[i] = canonica
			continue
		}
		colunas[i] = norm[i]
		if norm[i] != "" && n.logger != nil {
			n.logger.Debug("coluna sem mapeamento canônico",
				zap.String("coluna", norm[i]),
				zap.String("sugestao", n.sugestoes.Closest(norm[i])))
		}
	}

	return &domain.Tabela{Colunas: colunas, Linhas: t.Linhas}
}

func temSinalDePedido(colunas []string) bool {
	for _, c := range colunas {
		if sinaisDePedido[c] {
			return true
		}
	}
	return false
}

// PreAgregada informa se a tabela já traz totais por representante.
// Sem TOTAL_PEDIDOS e TOTAL_CLIENTES o relatório é por pedido e precisa
// passar pela agregação.
func PreAgregada(t *domain.Tabela) bool {
	return t.Indice(ColTotalPedidos) != -1 || t.Indice(ColTotalClientes) != -1
}
