package report

import (
	"fmt"

	"metas-service/internal/domain"
)

// TokensAtivosPadrao são as grafias reconhecidas como "cliente ativo"
// nos exportadores regionais. Comparação sem caixa e sem acento.
var TokensAtivosPadrao = []string{"SIM", "S", "ATIVO", "ATIVA", "1", "TRUE", "VERDADEIRO"}

// LayoutsDataPadrao são os formatos de data dia-primeiro aceitos no
// campo de cadastro do cliente.
var LayoutsDataPadrao = []string{"02/01/2006", "02/01/06", "02-01-2006"}

// OpcoesAgregacao parametriza as heurísticas regionais da agregação.
type OpcoesAgregacao struct {
	TokensAtivos []string
	LayoutsData  []string
	AnoAtual     int
}

type acumulador struct {
	codigo  string
	nome    string
	pedidos map[string]bool
	// clientes distintos e os subconjuntos ativo/novo, por identificador
	clientes map[string]bool
	ativos   map[string]bool
	novos    map[string]bool
	valor    float64
	qtdeItem float64
}

// Agregar colapsa um relatório por pedido em uma linha por
// representante, derivando contagens distintas e médias. Os valores não
// interpretáveis entram como zero nas somas; datas não interpretáveis
// ficam de fora da contagem de clientes novos.
func Agregar(t *domain.Tabela, opts OpcoesAgregacao) []domain.LinhaVendedor {
	tokens := make(map[string]bool, len(opts.TokensAtivos))
	for _, tok := range opts.TokensAtivos {
		tokens[normalizarTexto(tok)] = true
	}

	temPedido := t.Indice(ColPedido) != -1
	temCliente := t.Indice(ColCliente) != -1
	temQtde := t.Indice(ColQtdeItem) != -1

	grupos := make(map[string]*acumulador)
	var ordem []string

	for i, linha := range t.Linhas {
		codigo := t.Celula(linha, ColVendedor)
		nome := t.Celula(linha, ColNomeVendedor)
		chave := codigo + "\x00" + nome

		grupo, ok := grupos[chave]
		if !ok {
			grupo = &acumulador{
				codigo:   codigo,
				nome:     nome,
				pedidos:  make(map[string]bool),
				clientes: make(map[string]bool),
				ativos:   make(map[string]bool),
				novos:    make(map[string]bool),
			}
			grupos[chave] = grupo
			ordem = append(ordem, chave)
		}

		// sem coluna de pedido cada linha conta como um pedido próprio
		pedido := t.Celula(linha, ColPedido)
		if !temPedido || pedido == "" {
			pedido = fmt.Sprintf("linha-%d", i)
		}
		grupo.pedidos[pedido] = true

		if temCliente {
			if cliente := t.Celula(linha, ColCliente); cliente != "" {
				grupo.clientes[cliente] = true
				if tokens[normalizarTexto(t.Celula(linha, ColSituacaoCliente))] {
					grupo.ativos[cliente] = true
				}
				if data, ok := parseDateDayFirst(t.Celula(linha, ColDataCadastro), opts.LayoutsData); ok {
					if data.Year() == opts.AnoAtual {
						grupo.novos[cliente] = true
					}
				}
			}
		}

		grupo.valor += valorOuZero(t.Celula(linha, ColVlrLiquido))
		if temQtde {
			grupo.qtdeItem += valorOuZero(t.Celula(linha, ColQtdeItem))
		}
	}

	linhas := make([]domain.LinhaVendedor, 0, len(ordem))
	for _, chave := range ordem {
		grupo := grupos[chave]
		linha := domain.LinhaVendedor{
			Codigo:         grupo.codigo,
			Nome:           grupo.nome,
			QtdeItem:       grupo.qtdeItem,
			TotalPedidos:   float64(len(grupo.pedidos)),
			TotalClientes:  float64(len(grupo.clientes)),
			ClientesAtivos: float64(len(grupo.ativos)),
			ClientesNovos:  float64(len(grupo.novos)),
			VlrLiquido:     grupo.valor,
		}
		if linha.TotalPedidos > 0 {
			linha.QtdeMedia = linha.QtdeItem / linha.TotalPedidos
			linha.MediaPedidos = linha.VlrLiquido / linha.TotalPedidos
		}
		if linha.QtdeItem > 0 {
			linha.PrecoMedio = linha.VlrLiquido / linha.QtdeItem
		}
		linhas = append(linhas, linha)
	}
	return linhas
}
