package dashboard

import (
	"testing"
	"time"

	"metas-service/internal/domain"

	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/zap"
)

func TestClassificar(t *testing.T) {
	limites := LimitesPadrao

	Convey("Dada a classificação de atingimento", t, func() {
		Convey("Sem meta não há estágio", func() {
			So(Classificar(1000, 0, limites), ShouldEqual, domain.StatusSemMeta)
			So(Classificar(1000, -10, limites), ShouldEqual, domain.StatusSemMeta)
		})

		Convey("Os cortes pertencem ao estágio superior", func() {
			So(Classificar(100, 100, limites), ShouldEqual, domain.StatusMetaAtingida)
			So(Classificar(80, 100, limites), ShouldEqual, domain.StatusRetaFinal)
			So(Classificar(99.99, 100, limites), ShouldEqual, domain.StatusRetaFinal)
			So(Classificar(79.99, 100, limites), ShouldEqual, domain.StatusMetaEmAtencao)
			So(Classificar(0, 100, limites), ShouldEqual, domain.StatusMetaEmAtencao)
		})

		Convey("Acima da meta continua atingida", func() {
			So(Classificar(150, 100, limites), ShouldEqual, domain.StatusMetaAtingida)
		})
	})
}

func relatorioTeste() *domain.Relatorio {
	return &domain.Relatorio{
		Arquivo:      "export.csv",
		AtualizadoEm: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Vendedores: []domain.LinhaVendedor{
			{ID: "7", Codigo: "7", Nome: "Ana Lima", VlrLiquido: 120000, TotalPedidos: 40, QtdeItem: 200, TotalClientes: 30, ClientesAtivos: 24, ClientesNovos: 5},
			{ID: "9", Codigo: "9", Nome: "Bruno Reis", VlrLiquido: 45000, TotalPedidos: 30, QtdeItem: 150, TotalClientes: 20, ClientesAtivos: 10, ClientesNovos: 2},
			{ID: "11", Codigo: "11", Nome: "Carla Souza", VlrLiquido: 30000, TotalPedidos: 10, QtdeItem: 50, TotalClientes: 10, ClientesAtivos: 5},
		},
	}
}

func metasTeste() map[string]domain.Meta {
	return map[string]domain.Meta{
		"7": {ID: 1, RepresentanteID: "7", Ano: 2026, Colecao: "ALTO VERÃO", Valor: 100000},
		"9": {ID: 2, RepresentanteID: "9", Ano: 2026, Colecao: "ALTO VERÃO", Valor: 100000},
	}
}

func TestMontar(t *testing.T) {
	svc := NewService(zap.NewNop(), LimitesPadrao)
	periodo := domain.Periodo{Ano: 2026, Colecao: "ALTO VERÃO"}

	Convey("Dado um relatório com metas parciais", t, func() {
		painel := svc.Montar(relatorioTeste(), metasTeste(), periodo)

		Convey("O painel carrega origem e período", func() {
			So(painel.DataLoaded, ShouldBeTrue)
			So(painel.Arquivo, ShouldEqual, "export.csv")
			So(painel.Periodo, ShouldResemble, periodo)
		})

		Convey("Cada vendedor com meta ganha atingimento e estágio", func() {
			So(painel.Vendedores, ShouldHaveLength, 3)
			// ordenado por valor líquido decrescente
			ana := painel.Vendedores[0]
			So(ana.Nome, ShouldEqual, "Ana Lima")
			So(*ana.Atingimento, ShouldEqual, 1.2)
			So(*ana.Faltante, ShouldEqual, -20000)
			So(ana.Status, ShouldEqual, domain.StatusMetaAtingida)

			bruno := painel.Vendedores[1]
			So(*bruno.Atingimento, ShouldEqual, 0.45)
			So(bruno.Status, ShouldEqual, domain.StatusMetaEmAtencao)

			carla := painel.Vendedores[2]
			So(carla.ValorMeta, ShouldBeNil)
			So(carla.Status, ShouldEqual, domain.StatusSemMeta)
		})

		Convey("O resumo soma tudo mas restringe o percentual a quem tem meta", func() {
			resumo := painel.Resumo
			So(resumo.TotalVendedores, ShouldEqual, 3)
			So(resumo.TotalVendas, ShouldEqual, 195000)
			So(resumo.MetaTotal, ShouldEqual, 200000)
			// 165000 de vendas com meta sobre 200000
			So(resumo.PercentualMeta, ShouldEqual, 82.5)
			So(resumo.StatusMeta, ShouldEqual, domain.StatusRetaFinal)

			So(resumo.VendedoresComMeta, ShouldEqual, 2)
			So(resumo.VendedoresSemMeta, ShouldEqual, 1)
			So(resumo.VendedoresAcimaMeta, ShouldEqual, 1)
			So(resumo.VendedoresAbaixoMeta, ShouldEqual, 1)
			So(resumo.VendedoresAbaixoMetade, ShouldEqual, 1)
		})

		Convey("O detalhe do resumo formata em moeda brasileira", func() {
			So(painel.Resumo.StatusDetalhe, ShouldEqual, "Realizado R$ 165.000,00 de R$ 200.000,00 (82.5%)")
		})

		Convey("Os indicadores derivam das somas com divisões guardadas", func() {
			insights := painel.Insights
			So(insights.TicketMedio, ShouldEqual, 2437.5)
			So(insights.MediaItensPorPedido, ShouldEqual, 5)
			So(insights.TaxaClientesAtivos, ShouldEqual, 0.65)
		})

		Convey("Ticket médio vezes pedidos devolve as vendas totais", func() {
			resumo := painel.Resumo
			So(painel.Insights.TicketMedio*resumo.TotalPedidos, ShouldAlmostEqual, resumo.TotalVendas, 1e-6)
		})

		Convey("Os rankings separam as três dimensões", func() {
			rankings := painel.Rankings
			So(rankings.PorVendas.Melhores[0].Nome, ShouldEqual, "Ana Lima")
			So(rankings.PorVendas.Piores[0].Nome, ShouldEqual, "Carla Souza")

			// atingimento e faltante só para quem tem meta
			So(rankings.PorAtingimento.Melhores, ShouldHaveLength, 2)
			So(rankings.PorAtingimento.Melhores[0].ID, ShouldEqual, "7")

			So(rankings.PorFaltante.Melhores, ShouldHaveLength, 2)
			// faltante limitado a zero para quem ultrapassou
			So(rankings.PorFaltante.Melhores[0].ID, ShouldEqual, "7")
			So(rankings.PorFaltante.Melhores[0].Valor, ShouldEqual, 0)
			So(rankings.PorFaltante.Melhores[1].Valor, ShouldEqual, 55000)
		})

		Convey("O gráfico traz os maiores por valor líquido", func() {
			So(painel.Grafico.Labels, ShouldResemble, []string{"Ana Lima", "Bruno Reis", "Carla Souza"})
			So(painel.Grafico.Values[0], ShouldEqual, 120000)
		})

		Convey("O destaque de clientes novos ignora quem não trouxe nenhum", func() {
			So(painel.Resumo.DestaqueClientesNovos, ShouldNotBeNil)
			So(painel.Resumo.DestaqueClientesNovos.ID, ShouldEqual, "7")
		})
	})

	Convey("Dado um relatório sem meta alguma", t, func() {
		painel := svc.Montar(relatorioTeste(), map[string]domain.Meta{}, periodo)

		Convey("O resumo informa a ausência sem inventar percentual", func() {
			So(painel.Resumo.StatusMeta, ShouldEqual, domain.StatusSemMeta)
			So(painel.Resumo.PercentualMeta, ShouldEqual, 0)
			So(painel.Resumo.StatusDetalhe, ShouldEqual, "Nenhuma meta cadastrada para o período")
			So(painel.Resumo.VendedoresSemMeta, ShouldEqual, 3)
		})

		Convey("Rankings de atingimento e faltante ficam vazios", func() {
			So(painel.Rankings.PorAtingimento.Melhores, ShouldBeEmpty)
			So(painel.Rankings.PorFaltante.Melhores, ShouldBeEmpty)
			So(painel.Rankings.PorVendas.Melhores, ShouldHaveLength, 3)
		})
	})

	Convey("Dado empate de valor, a ordem original decide", t, func() {
		relatorio := &domain.Relatorio{
			Vendedores: []domain.LinhaVendedor{
				{ID: "A", Nome: "Primeiro", VlrLiquido: 100},
				{ID: "B", Nome: "Segundo", VlrLiquido: 100},
			},
		}

		painel := svc.Montar(relatorio, map[string]domain.Meta{}, periodo)
		So(painel.Rankings.PorVendas.Melhores[0].ID, ShouldEqual, "A")
		So(painel.Rankings.PorVendas.Melhores[1].ID, ShouldEqual, "B")
	})
}

func TestVazio(t *testing.T) {
	Convey("Sem relatório carregado o painel indica ausência de dados", t, func() {
		svc := NewService(zap.NewNop(), LimitesPadrao)
		painel := svc.Vazio(domain.Periodo{Ano: 2026, Colecao: "ALTO VERÃO"})

		So(painel.DataLoaded, ShouldBeFalse)
		So(painel.AtualizadoEm, ShouldBeNil)
		So(painel.Periodo.Ano, ShouldEqual, 2026)
	})
}
