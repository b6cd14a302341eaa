package metas

import (
	"errors"
	"testing"

	"metas-service/internal/domain"

	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/zap"
)

// memStore guarda o documento em memória para os testes.
type memStore struct {
	data []byte
}

func (m *memStore) Carregar() ([]byte, error) { return m.data, nil }
func (m *memStore) Salvar(d []byte) error     { m.data = d; return nil }

func novoStoreTeste() (*Store, *memStore) {
	mem := &memStore{}
	return NewStore(mem, zap.NewNop(), nil), mem
}

func TestSalvarMeta(t *testing.T) {
	Convey("Dado o armazém de metas vazio", t, func() {
		store, _ := novoStoreTeste()

		Convey("Grava uma meta nova com id 1 e registra o representante", func() {
			id, err := store.SalvarMeta("7", "Ana Lima", 2026, "ALTO VERÃO", 50000)
			So(err, ShouldBeNil)
			So(id, ShouldEqual, 1)

			metas := store.MetasAtuais(2026, "ALTO VERÃO")
			So(metas, ShouldContainKey, "7")
			So(metas["7"].Valor, ShouldEqual, 50000)

			reps := store.Representantes()
			So(reps["7"].Nome, ShouldEqual, "Ana Lima")
			So(store.Periodos(), ShouldHaveLength, 1)
		})

		Convey("Regrava a mesma chave atualizando o valor no mesmo id", func() {
			id1, err := store.SalvarMeta("7", "Ana", 2026, "ALTO VERÃO", 50000)
			So(err, ShouldBeNil)
			id2, err := store.SalvarMeta("7", "Ana", 2026, "alto verão", 60000)
			So(err, ShouldBeNil)

			So(id2, ShouldEqual, id1)
			metas := store.MetasAtuais(2026, "ALTO VERÃO")
			So(metas, ShouldHaveLength, 1)
			So(metas["7"].Valor, ShouldEqual, 60000)
		})

		Convey("Períodos diferentes geram metas independentes", func() {
			_, err := store.SalvarMeta("7", "Ana", 2026, "ALTO VERÃO", 50000)
			So(err, ShouldBeNil)
			id, err := store.SalvarMeta("7", "Ana", 2026, "OUTONO INVERNO", 40000)
			So(err, ShouldBeNil)

			So(id, ShouldEqual, 2)
			So(store.MetasAtuais(2026, "OUTONO INVERNO"), ShouldHaveLength, 1)
			So(store.MetasAtuais(2026, "ALTO VERÃO"), ShouldHaveLength, 1)
		})

		Convey("Entrada inválida acumula todas as mensagens", func() {
			_, err := store.SalvarMeta("", "", 1990, "COLEÇÃO INEXISTENTE", -5)

			var validacao *ErroValidacao
			So(errors.As(err, &validacao), ShouldBeTrue)
			So(validacao.Mensagens, ShouldHaveLength, 4)
		})
	})
}

func TestExcluirMeta(t *testing.T) {
	Convey("Dada uma meta gravada", t, func() {
		store, _ := novoStoreTeste()
		id, err := store.SalvarMeta("7", "Ana", 2026, "ALTO VERÃO", 50000)
		So(err, ShouldBeNil)

		Convey("Excluir pelo id remove a meta", func() {
			So(store.ExcluirMeta(id), ShouldBeNil)
			So(store.MetasAtuais(2026, "ALTO VERÃO"), ShouldBeEmpty)
		})

		Convey("Id inexistente devolve o erro sentinela", func() {
			So(store.ExcluirMeta(99), ShouldEqual, ErrMetaNaoEncontrada)
		})
	})
}

func TestHistorico(t *testing.T) {
	Convey("Dado o limite de registros de histórico", t, func() {
		store, _ := novoStoreTeste()
		realizado := 45000.0

		for i := 0; i < MaxHistoricoPorRepresentante; i++ {
			_, err := store.AdicionarHistorico("7", "Ana", 2023+i, "ALTO VERÃO", 40000, &realizado)
			So(err, ShouldBeNil)
		}

		Convey("A inserção além do limite falha sem gravar", func() {
			_, err := store.AdicionarHistorico("7", "Ana", 2026, "ALTO VERÃO", 50000, nil)
			So(errors.Is(err, ErrHistoricoCheio), ShouldBeTrue)
			So(store.Historico("7"), ShouldHaveLength, MaxHistoricoPorRepresentante)
		})

		Convey("Outro representante tem o próprio limite", func() {
			_, err := store.AdicionarHistorico("9", "Bruno", 2026, "ALTO VERÃO", 10000, nil)
			So(err, ShouldBeNil)
			So(store.Historico("9"), ShouldHaveLength, 1)
			So(store.Historico(""), ShouldHaveLength, MaxHistoricoPorRepresentante+1)
		})

		Convey("A edição não passa pelo limite", func() {
			registros := store.Historico("7")
			err := store.AtualizarHistorico(registros[0].ID, 2022, "OUTONO INVERNO", 35000, nil)
			So(err, ShouldBeNil)

			registros = store.Historico("7")
			So(registros, ShouldHaveLength, MaxHistoricoPorRepresentante)
			So(registros[0].Ano, ShouldEqual, 2022)
			So(registros[0].Realizado, ShouldBeNil)
		})

		Convey("Excluir libera espaço para nova inserção", func() {
			registros := store.Historico("7")
			So(store.ExcluirHistorico(registros[0].ID), ShouldBeNil)

			_, err := store.AdicionarHistorico("7", "Ana", 2026, "ALTO VERÃO", 50000, nil)
			So(err, ShouldBeNil)
		})

		Convey("Editar ou excluir id inexistente devolve o sentinela", func() {
			So(errors.Is(store.AtualizarHistorico(99, 2026, "ALTO VERÃO", 1, nil), ErrHistoricoNaoEncontrado), ShouldBeTrue)
			So(errors.Is(store.ExcluirHistorico(99), ErrHistoricoNaoEncontrado), ShouldBeTrue)
		})
	})

	Convey("Ids são únicos entre metas atuais e histórico", t, func() {
		store, _ := novoStoreTeste()

		idMeta, err := store.SalvarMeta("7", "Ana", 2026, "ALTO VERÃO", 50000)
		So(err, ShouldBeNil)
		idHist, err := store.AdicionarHistorico("7", "Ana", 2025, "ALTO VERÃO", 40000, nil)
		So(err, ShouldBeNil)

		So(idHist, ShouldEqual, idMeta+1)
	})
}

func TestDocumentoCorrompido(t *testing.T) {
	Convey("Dado um documento persistido ilegível", t, func() {
		mem := &memStore{data: []byte("{{{nada")}
		store := NewStore(mem, zap.NewNop(), nil)

		Convey("As consultas partem do documento vazio padrão", func() {
			So(store.MetasAtuais(2026, "ALTO VERÃO"), ShouldBeEmpty)
			cfg := store.Config()
			So(cfg.ColecaoAtual, ShouldEqual, ColecoesPadrao[0])
		})

		Convey("Uma gravação substitui o documento corrompido", func() {
			_, err := store.SalvarMeta("7", "Ana", 2026, "ALTO VERÃO", 50000)
			So(err, ShouldBeNil)
			So(store.MetasAtuais(2026, "ALTO VERÃO"), ShouldHaveLength, 1)
		})
	})
}

func TestRepresentantes(t *testing.T) {
	Convey("Dado o cadastro de representantes", t, func() {
		store, _ := novoStoreTeste()

		Convey("A primeira aparição registra como novo", func() {
			So(store.SalvarRepresentante("7", "Ana Lima"), ShouldBeNil)
			rep := store.Representantes()["7"]
			So(rep.Status, ShouldEqual, "NOVO")
			So(rep.Nome, ShouldEqual, "Ana Lima")
		})

		Convey("Reaparecer não sobrescreve nome já preenchido", func() {
			So(store.SalvarRepresentante("7", "Ana Lima"), ShouldBeNil)
			So(store.SalvarRepresentante("7", "Outro Nome"), ShouldBeNil)
			So(store.Representantes()["7"].Nome, ShouldEqual, "Ana Lima")
		})

		Convey("Reaparecer preenche nome que estava vazio", func() {
			So(store.SalvarRepresentante("7", ""), ShouldBeNil)
			So(store.SalvarRepresentante("7", "Ana Lima"), ShouldBeNil)
			So(store.Representantes()["7"].Nome, ShouldEqual, "Ana Lima")
		})

		Convey("A edição explícita sobrescreve status e marca", func() {
			So(store.SalvarRepresentante("7", "Ana"), ShouldBeNil)
			So(store.AtualizarRepresentante("7", "", "ATIVO", "norte"), ShouldBeNil)

			rep := store.Representantes()["7"]
			So(rep.Status, ShouldEqual, "ATIVO")
			So(rep.Marca, ShouldEqual, "norte")
			So(rep.Nome, ShouldEqual, "Ana")
		})

		Convey("Editar representante não cadastrado ou status inválido falha", func() {
			var validacao *ErroValidacao
			So(errors.As(store.AtualizarRepresentante("99", "X", "", ""), &validacao), ShouldBeTrue)

			So(store.SalvarRepresentante("7", "Ana"), ShouldBeNil)
			So(errors.As(store.AtualizarRepresentante("7", "", "QUALQUER", ""), &validacao), ShouldBeTrue)
		})
	})
}

func TestConfig(t *testing.T) {
	Convey("Dada a configuração de período vigente", t, func() {
		store, _ := novoStoreTeste()

		Convey("Sem configuração gravada valem os padrões", func() {
			cfg := store.Config()
			So(cfg.AnoAtual, ShouldBeGreaterThan, 2000)
			So(cfg.ColecaoAtual, ShouldEqual, ColecoesPadrao[0])
		})

		Convey("Gravar substitui o período vigente", func() {
			cfg := store.Config()
			cfg.AnoAtual = 2027
			cfg.ColecaoAtual = "ALTO VERÃO"
			So(store.SalvarConfig(cfg), ShouldBeNil)

			periodo := store.PeriodoVigente("")
			So(periodo.Ano, ShouldEqual, 2027)
			So(periodo.Colecao, ShouldEqual, "ALTO VERÃO")
		})

		Convey("A exceção por marca vence o período geral", func() {
			cfg := store.Config()
			cfg.AnoAtual = 2027
			cfg.ColecaoAtual = "ALTO VERÃO"
			cfg.Marcas = map[string]domain.Periodo{"sul": {Ano: 2026, Colecao: "OUTONO INVERNO"}}
			So(store.SalvarConfig(cfg), ShouldBeNil)

			So(store.PeriodoVigente("sul").Colecao, ShouldEqual, "OUTONO INVERNO")
			So(store.PeriodoVigente("outra").Colecao, ShouldEqual, "ALTO VERÃO")
		})

		Convey("Período inválido é rejeitado por inteiro", func() {
			cfg := store.Config()
			cfg.ColecaoAtual = "COLEÇÃO INEXISTENTE"
			var validacao *ErroValidacao
			So(errors.As(store.SalvarConfig(cfg), &validacao), ShouldBeTrue)
		})
	})
}
