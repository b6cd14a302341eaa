package dashboard

import (
	"fmt"
	"sort"

	"metas-service/internal/core/report"
	"metas-service/internal/domain"

	"go.uber.org/zap"
)

// Limites parametriza os cortes de classificação de atingimento.
type Limites struct {
	// RetaFinal é a razão mínima para o estágio de reta final.
	RetaFinal float64
	// Metade é o corte do indicador "abaixo da metade da meta".
	Metade float64
}

// LimitesPadrao são os cortes usados quando a configuração não define
// outros.
var LimitesPadrao = Limites{RetaFinal: 0.8, Metade: 0.5}

// Classificar é função pura de (realizado, meta) para o estágio de
// atingimento. Os cortes 0.8 e 1.0 pertencem ao estágio superior.
func Classificar(realizado, meta float64, limites Limites) domain.StatusMeta {
	if meta <= 0 {
		return domain.StatusSemMeta
	}
	razao := realizado / meta
	switch {
	case razao >= 1.0:
		return domain.StatusMetaAtingida
	case razao >= limites.RetaFinal:
		return domain.StatusRetaFinal
	default:
		return domain.StatusMetaEmAtencao
	}
}

// Service define a interface do motor de métricas e atingimento: junta
// as linhas canônicas com as metas vigentes e monta a resposta completa
// do dashboard.
type Service interface {
	Montar(relatorio *domain.Relatorio, metas map[string]domain.Meta, periodo domain.Periodo) *domain.Dashboard
	Vazio(periodo domain.Periodo) *domain.Dashboard
}

type service struct {
	logger  *zap.Logger
	limites Limites
}

// NewService cria o motor do dashboard. Limites zerados assumem o padrão.
func NewService(logger *zap.Logger, limites Limites) Service {
	if limites.RetaFinal == 0 {
		limites.RetaFinal = LimitesPadrao.RetaFinal
	}
	if limites.Metade == 0 {
		limites.Metade = LimitesPadrao.Metade
	}
	return &service{logger: logger, limites: limites}
}

// Vazio é a resposta para quando não há relatório carregado.
func (s *service) Vazio(periodo domain.Periodo) *domain.Dashboard {
	return &domain.Dashboard{DataLoaded: false, Periodo: periodo}
}

func (s *service) Montar(relatorio *domain.Relatorio, metas map[string]domain.Meta, periodo domain.Periodo) *domain.Dashboard {
	vendedores := s.enriquecer(relatorio.Vendedores, metas)
	resumo := s.montarResumo(vendedores)
	insights := s.montarInsights(resumo)
	rankings := s.montarRankings(vendedores)
	grafico := montarGrafico(vendedores)

	// lista de apresentação ordenada por valor líquido
	ordenados := make([]domain.VendedorDashboard, len(vendedores))
	copy(ordenados, vendedores)
	sort.SliceStable(ordenados, func(i, j int) bool {
		return ordenados[i].VlrLiquido > ordenados[j].VlrLiquido
	})

	atualizadoEm := relatorio.AtualizadoEm
	return &domain.Dashboard{
		DataLoaded:   true,
		Arquivo:      relatorio.Arquivo,
		AtualizadoEm: &atualizadoEm,
		Periodo:      periodo,
		Resumo:       resumo,
		Insights:     insights,
		Vendedores:   ordenados,
		Rankings:     rankings,
		Grafico:      grafico,
	}
}

// enriquecer junta cada linha canônica com a meta vigente do seu
// representante. Atingimento e faltante ficam nil sem meta.
func (s *service) enriquecer(linhas []domain.LinhaVendedor, metas map[string]domain.Meta) []domain.VendedorDashboard {
	vendedores := make([]domain.VendedorDashboard, 0, len(linhas))
	for _, linha := range linhas {
		v := domain.VendedorDashboard{
			LinhaVendedor: linha,
			Status:        domain.StatusSemMeta,
		}
		if meta, ok := metas[linha.ID]; ok && meta.Valor > 0 {
			valor := meta.Valor
			atingimento := linha.VlrLiquido / valor
			faltante := valor - linha.VlrLiquido
			v.ValorMeta = &valor
			v.Atingimento = &atingimento
			v.Faltante = &faltante
			v.Status = Classificar(linha.VlrLiquido, valor, s.limites)
		}
		v.StatusClasse = v.Status.Classe()
		vendedores = append(vendedores, v)
	}
	return vendedores
}

func (s *service) montarResumo(vendedores []domain.VendedorDashboard) *domain.Resumo {
	resumo := &domain.Resumo{
		TotalVendedores: len(vendedores),
		RankingVendas:   []domain.ItemRanking{},
		PioresVendas:    []domain.ItemRanking{},
	}

	var vendasComMeta float64
	for _, v := range vendedores {
		resumo.TotalItens += v.QtdeItem
		resumo.TotalVendas += v.VlrLiquido
		resumo.TotalPedidos += v.TotalPedidos
		resumo.TotalClientes += v.TotalClientes
		resumo.ClientesAtivos += v.ClientesAtivos
		resumo.ClientesNovos += v.ClientesNovos

		if v.ValorMeta == nil {
			resumo.VendedoresSemMeta++
			continue
		}
		resumo.VendedoresComMeta++
		resumo.MetaTotal += *v.ValorMeta
		vendasComMeta += v.VlrLiquido
		if *v.Atingimento >= 1.0 {
			resumo.VendedoresAcimaMeta++
		} else {
			resumo.VendedoresAbaixoMeta++
			if *v.Atingimento < s.limites.Metade {
				resumo.VendedoresAbaixoMetade++
			}
		}
	}

	// percentual restrito aos representantes com meta cadastrada
	if resumo.MetaTotal > 0 {
		resumo.PercentualMeta = vendasComMeta / resumo.MetaTotal * 100
	}
	resumo.StatusMeta = Classificar(vendasComMeta, resumo.MetaTotal, s.limites)
	resumo.StatusClasse = resumo.StatusMeta.Classe()
	if resumo.StatusMeta == domain.StatusSemMeta {
		resumo.StatusDetalhe = "Nenhuma meta cadastrada para o período"
	} else {
		resumo.StatusDetalhe = fmt.Sprintf("Realizado %s de %s (%.1f%%)",
			report.FormatBRL(vendasComMeta), report.FormatBRL(resumo.MetaTotal), resumo.PercentualMeta)
	}

	porVendas := ordenarPor(vendedores, func(v domain.VendedorDashboard) float64 { return v.VlrLiquido })
	resumo.RankingVendas = primeiros(porVendas, 5)
	resumo.PioresVendas = ultimos(porVendas, 5)
	if len(porVendas) > 0 {
		melhor := porVendas[0]
		resumo.MelhorVendedor = &melhor
	}
	resumo.DestaqueClientesNovos = destaqueClientesNovos(vendedores)

	return resumo
}

func (s *service) montarInsights(resumo *domain.Resumo) *domain.Insights {
	insights := &domain.Insights{}
	if resumo.TotalPedidos > 0 {
		insights.TicketMedio = resumo.TotalVendas / resumo.TotalPedidos
		insights.MediaItensPorPedido = resumo.TotalItens / resumo.TotalPedidos
	}
	if resumo.TotalClientes > 0 {
		insights.TaxaClientesAtivos = resumo.ClientesAtivos / resumo.TotalClientes
	}
	return insights
}

// montarRankings produz as três dimensões independentes: valor líquido
// (todos), atingimento e faltante (só quem tem meta). Ordenação estável;
// empates seguem a ordem original das linhas.
func (s *service) montarRankings(vendedores []domain.VendedorDashboard) *domain.Rankings {
	comMeta := make([]domain.VendedorDashboard, 0, len(vendedores))
	for _, v := range vendedores {
		if v.ValorMeta != nil {
			comMeta = append(comMeta, v)
		}
	}

	porVendas := ordenarPor(vendedores, func(v domain.VendedorDashboard) float64 { return v.VlrLiquido })
	porAtingimento := ordenarPor(comMeta, func(v domain.VendedorDashboard) float64 { return *v.Atingimento })
	// faltante limitado a zero: quem já atingiu não deve "dever" negativo
	porFaltante := ordenarPorCrescente(comMeta, func(v domain.VendedorDashboard) float64 {
		if *v.Faltante < 0 {
			return 0
		}
		return *v.Faltante
	})

	return &domain.Rankings{
		PorVendas:      domain.RankingDuplo{Melhores: primeiros(porVendas, 5), Piores: ultimos(porVendas, 5)},
		PorAtingimento: domain.RankingDuplo{Melhores: primeiros(porAtingimento, 5), Piores: ultimos(porAtingimento, 5)},
		PorFaltante:    domain.RankingDuplo{Melhores: primeiros(porFaltante, 5), Piores: ultimos(porFaltante, 5)},
	}
}

func montarGrafico(vendedores []domain.VendedorDashboard) *domain.Grafico {
	porVendas := ordenarPor(vendedores, func(v domain.VendedorDashboard) float64 { return v.VlrLiquido })
	top := primeiros(porVendas, 10)

	grafico := &domain.Grafico{Labels: []string{}, Values: []float64{}}
	for _, item := range top {
		grafico.Labels = append(grafico.Labels, item.Nome)
		grafico.Values = append(grafico.Values, item.Valor)
	}
	return grafico
}

// --- auxiliares de ordenação ---

func rotulo(v domain.VendedorDashboard) (string, string) {
	nome := v.Nome
	if nome == "" {
		nome = v.ID
	}
	return v.ID, nome
}

// ordenarPor retorna os vendedores como itens de ranking em ordem
// decrescente do valor extraído.
func ordenarPor(vendedores []domain.VendedorDashboard, valor func(domain.VendedorDashboard) float64) []domain.ItemRanking {
	itens := make([]domain.ItemRanking, 0, len(vendedores))
	for _, v := range vendedores {
		id, nome := rotulo(v)
		itens = append(itens, domain.ItemRanking{ID: id, Nome: nome, Valor: valor(v)})
	}
	sort.SliceStable(itens, func(i, j int) bool { return itens[i].Valor > itens[j].Valor })
	return itens
}

func ordenarPorCrescente(vendedores []domain.VendedorDashboard, valor func(domain.VendedorDashboard) float64) []domain.ItemRanking {
	itens := make([]domain.ItemRanking, 0, len(vendedores))
	for _, v := range vendedores {
		id, nome := rotulo(v)
		itens = append(itens, domain.ItemRanking{ID: id, Nome: nome, Valor: valor(v)})
	}
	sort.SliceStable(itens, func(i, j int) bool { return itens[i].Valor < itens[j].Valor })
	return itens
}

func primeiros(itens []domain.ItemRanking, n int) []domain.ItemRanking {
	if len(itens) < n {
		n = len(itens)
	}
	return append([]domain.ItemRanking{}, itens[:n]...)
}

// ultimos retorna os n piores, do pior para o menos pior.
func ultimos(itens []domain.ItemRanking, n int) []domain.ItemRanking {
	if len(itens) < n {
		n = len(itens)
	}
	piores := make([]domain.ItemRanking, 0, n)
	for i := len(itens) - 1; i >= len(itens)-n; i-- {
		piores = append(piores, itens[i])
	}
	return piores
}

func destaqueClientesNovos(vendedores []domain.VendedorDashboard) *domain.ItemRanking {
	var destaque *domain.ItemRanking
	for _, v := range vendedores {
		if v.ClientesNovos <= 0 {
			continue
		}
		if destaque == nil || v.ClientesNovos > destaque.Valor {
			id, nome := rotulo(v)
			destaque = &domain.ItemRanking{ID: id, Nome: nome, Valor: v.ClientesNovos}
		}
	}
	return destaque
}
