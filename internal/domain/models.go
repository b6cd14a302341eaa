// package domain/models.go
package domain

import (
	"time"
)

// StatusMeta define o estágio de atingimento de uma meta.
type StatusMeta string

// Constantes dos estágios de atingimento.
const (
	StatusSemMeta       StatusMeta = "SEM_META"
	StatusMetaAtingida  StatusMeta = "META_ATINGIDA"
	StatusRetaFinal     StatusMeta = "RETA_FINAL"
	StatusMetaEmAtencao StatusMeta = "ATENCAO"
)

// Classe retorna a classe de apresentação associada ao status,
// usada pelo frontend para colorir cartões e linhas.
func (s StatusMeta) Classe() string {
	switch s {
	case StatusMetaAtingida:
		return "sucesso"
	case StatusRetaFinal:
		return "alerta"
	case StatusMetaEmAtencao:
		return "perigo"
	default:
		return "neutro"
	}
}

// Status de cadastro de um representante.
const (
	RepresentanteAtivo = "ATIVO"
	RepresentanteNovo  = "NOVO"
)

// Tabela é a estrutura tabular crua produzida pelo carregador de
// relatórios: cabeçalhos nomeados e linhas de células em texto.
type Tabela struct {
	Colunas []string
	Linhas  [][]string
}

// Indice retorna a posição de uma coluna ou -1 quando ausente.
func (t *Tabela) Indice(coluna string) int {
	for i, c := range t.Colunas {
		if c == coluna {
			return i
		}
	}
	return -1
}

// Celula retorna o valor da célula na linha informada para a coluna,
// ou "" quando a coluna não existe ou a linha é curta.
func (t *Tabela) Celula(linha []string, coluna string) string {
	idx := t.Indice(coluna)
	if idx == -1 || idx >= len(linha) {
		return ""
	}
	return linha[idx]
}

// LinhaVendedor é a linha canônica por representante produzida pela
// normalização (ou pela agregação, quando o relatório é por pedido).
// Recalculada a cada carga; nunca persistida.
type LinhaVendedor struct {
	ID             string  `json:"id"`
	Codigo         string  `json:"codigo"`
	Nome           string  `json:"nome"`
	QtdeItem       float64 `json:"qtde_item"`
	TotalPedidos   float64 `json:"total_pedidos"`
	TotalClientes  float64 `json:"total_clientes"`
	ClientesAtivos float64 `json:"clientes_ativos"`
	ClientesNovos  float64 `json:"clientes_novos"`
	QtdeMedia      float64 `json:"qtde_media"`
	VlrLiquido     float64 `json:"vlr_liquido"`
	PrecoMedio     float64 `json:"preco_medio"`
	MediaPedidos   float64 `json:"media_pedidos"`
}

// Relatorio é o resultado da carga de um arquivo de exportação.
type Relatorio struct {
	Arquivo      string          `json:"arquivo"`
	AtualizadoEm time.Time       `json:"atualizado_em"`
	Agregado     bool            `json:"agregado"`
	Vendedores   []LinhaVendedor `json:"vendedores"`
}

// Representante é o cadastro de um vendedor acompanhado pelo sistema.
// Criado na primeira aparição em qualquer relatório ou edição de meta;
// nunca excluído, apenas atualizado.
type Representante struct {
	ID           string    `json:"id"`
	Nome         string    `json:"nome"`
	Status       string    `json:"status"`
	Marca        string    `json:"marca,omitempty"`
	CriadoEm     time.Time `json:"criado_em"`
	AtualizadoEm time.Time `json:"atualizado_em"`
}

// Meta é o objetivo de venda vigente de um representante para um par
// ano+coleção. Existe no máximo uma meta vigente por chave.
type Meta struct {
	ID              int       `json:"id"`
	RepresentanteID string    `json:"representante_id"`
	Ano             int       `json:"ano"`
	Colecao         string    `json:"colecao"`
	Valor           float64   `json:"valor"`
	CriadoEm        time.Time `json:"criado_em"`
	AtualizadoEm    time.Time `json:"atualizado_em"`
}

// HistoricoMeta é um registro de período encerrado: meta e valor
// realizado. Limitado a três registros por representante.
type HistoricoMeta struct {
	ID              int       `json:"id"`
	RepresentanteID string    `json:"representante_id"`
	Ano             int       `json:"ano"`
	Colecao         string    `json:"colecao"`
	Valor           float64   `json:"valor"`
	Realizado       *float64  `json:"realizado,omitempty"`
	CriadoEm        time.Time `json:"criado_em"`
	AtualizadoEm    time.Time `json:"atualizado_em"`
}

// Periodo identifica um ciclo de vendas acompanhado.
type Periodo struct {
	Ano     int    `json:"ano"`
	Colecao string `json:"colecao"`
}

// ConfigPeriodo é a configuração persistida do período vigente, com
// possíveis exceções por marca.
type ConfigPeriodo struct {
	AnoAtual     int                `json:"ano_atual"`
	ColecaoAtual string             `json:"colecao_atual"`
	Marcas       map[string]Periodo `json:"marcas,omitempty"`
}

// --- Saída do dashboard ---

// ItemRanking é uma entrada de qualquer lista ordenada do dashboard.
type ItemRanking struct {
	ID    string  `json:"id"`
	Nome  string  `json:"nome"`
	Valor float64 `json:"valor"`
}

// RankingDuplo carrega os cinco melhores e os cinco piores de uma
// mesma dimensão de ordenação.
type RankingDuplo struct {
	Melhores []ItemRanking `json:"melhores"`
	Piores   []ItemRanking `json:"piores"`
}

// Rankings agrupa as três dimensões independentes de ordenação.
type Rankings struct {
	PorVendas      RankingDuplo `json:"por_vendas"`
	PorAtingimento RankingDuplo `json:"por_atingimento"`
	PorFaltante    RankingDuplo `json:"por_faltante"`
}

// Resumo consolida os totais do relatório e a situação da meta geral.
type Resumo struct {
	TotalVendedores        int           `json:"total_vendedores"`
	TotalItens             float64       `json:"total_itens"`
	TotalVendas            float64       `json:"total_vendas"`
	TotalPedidos           float64       `json:"total_pedidos"`
	TotalClientes          float64       `json:"total_clientes"`
	ClientesAtivos         float64       `json:"clientes_ativos"`
	ClientesNovos          float64       `json:"clientes_novos"`
	MetaTotal              float64       `json:"meta_total"`
	PercentualMeta         float64       `json:"percentual_meta"`
	StatusMeta             StatusMeta    `json:"status_meta"`
	StatusClasse           string        `json:"status_classe"`
	StatusDetalhe          string        `json:"status_detalhe"`
	VendedoresComMeta      int           `json:"vendedores_com_meta"`
	VendedoresSemMeta      int           `json:"vendedores_sem_meta"`
	VendedoresAcimaMeta    int           `json:"vendedores_acima_meta"`
	VendedoresAbaixoMeta   int           `json:"vendedores_abaixo_meta"`
	VendedoresAbaixoMetade int           `json:"vendedores_abaixo_metade"`
	RankingVendas          []ItemRanking `json:"ranking_vendas"`
	PioresVendas           []ItemRanking `json:"piores_vendas"`
	MelhorVendedor         *ItemRanking  `json:"melhor_vendedor,omitempty"`
	DestaqueClientesNovos  *ItemRanking  `json:"destaque_clientes_novos,omitempty"`
}

// Insights são indicadores derivados do relatório como um todo.
type Insights struct {
	TicketMedio         float64 `json:"ticket_medio"`
	MediaItensPorPedido float64 `json:"media_itens_por_pedido"`
	TaxaClientesAtivos  float64 `json:"taxa_clientes_ativos"`
}

// VendedorDashboard é a linha canônica enriquecida com a meta vigente
// do representante. Atingimento e Faltante são nil quando não há meta.
type VendedorDashboard struct {
	LinhaVendedor
	ValorMeta    *float64   `json:"valor_meta,omitempty"`
	Atingimento  *float64   `json:"atingimento,omitempty"`
	Faltante     *float64   `json:"faltante,omitempty"`
	Status       StatusMeta `json:"status"`
	StatusClasse string     `json:"status_classe"`
}

// Grafico é o par labels/values consumido pelo gráfico de barras do
// dashboard (dez maiores por valor líquido).
type Grafico struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// Dashboard é a resposta completa montada para a camada de apresentação.
type Dashboard struct {
	DataLoaded   bool                `json:"data_loaded"`
	Arquivo      string              `json:"arquivo,omitempty"`
	AtualizadoEm *time.Time          `json:"atualizado_em,omitempty"`
	Periodo      Periodo             `json:"periodo"`
	Resumo       *Resumo             `json:"resumo,omitempty"`
	Insights     *Insights           `json:"insights,omitempty"`
	Vendedores   []VendedorDashboard `json:"vendedores,omitempty"`
	Rankings     *Rankings           `json:"rankings,omitempty"`
	Grafico      *Grafico            `json:"grafico,omitempty"`
}
