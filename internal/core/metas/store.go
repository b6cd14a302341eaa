package metas

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"metas-service/internal/domain"

	"go.uber.org/zap"
)

// MaxHistoricoPorRepresentante limita os registros de histórico de cada
// representante. O limite vale só para inserção; edições passam direto.
const MaxHistoricoPorRepresentante = 3

// ColecoesPadrao é o conjunto de coleções aceito quando a configuração
// não define outro.
var ColecoesPadrao = []string{"OUTONO INVERNO", "PRIMAVERA VERÃO", "ALTO VERÃO"}

// Store é o armazém versionado de metas. Toda mutação relê o documento,
// altera em memória e regrava por inteiro; o mutex serializa escritores
// concorrentes dentro do processo.
type Store struct {
	docs     DocumentStore
	logger   *zap.Logger
	colecoes []string

	mu    sync.Mutex
	agora func() time.Time
}

// NewStore cria o armazém de metas sobre a fronteira de persistência.
func NewStore(docs DocumentStore, logger *zap.Logger, colecoes []string) *Store {
	if len(colecoes) == 0 {
		colecoes = ColecoesPadrao
	}
	return &Store{
		docs:     docs,
		logger:   logger,
		colecoes: colecoes,
		agora:    time.Now,
	}
}

// Colecoes devolve o conjunto de coleções válidas.
func (s *Store) Colecoes() []string {
	return s.colecoes
}

// carregar lê e migra o documento. Documento ausente ou corrompido cai
// para o vazio padrão em vez de falhar a operação.
func (s *Store) carregar() *Documento {
	data, err := s.docs.Carregar()
	if err != nil || len(data) == 0 {
		if err != nil {
			s.logger.Warn("falha ao ler documento de metas; iniciando vazio", zap.Error(err))
		}
		return s.documentoPadrao()
	}

	doc, err := DecodificarDocumento(data)
	if err != nil {
		s.logger.Warn("documento de metas corrompido; iniciando vazio", zap.Error(err))
		return s.documentoPadrao()
	}
	if doc.Config.AnoAtual == 0 {
		doc.Config.AnoAtual = s.agora().Year()
	}
	if doc.Config.ColecaoAtual == "" {
		doc.Config.ColecaoAtual = s.colecoes[0]
	}
	return doc
}

func (s *Store) documentoPadrao() *Documento {
	doc := NovoDocumento()
	doc.Config = domain.ConfigPeriodo{
		AnoAtual:     s.agora().Year(),
		ColecaoAtual: s.colecoes[0],
	}
	return doc
}

func (s *Store) salvar(doc *Documento) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("erro ao serializar documento de metas: %w", err)
	}
	return s.docs.Salvar(data)
}

// --- consultas ---

// Config retorna a configuração de período vigente.
func (s *Store) Config() domain.ConfigPeriodo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.carregar().Config
}

// PeriodoVigente resolve o período atual, considerando a exceção da
// marca quando existir.
func (s *Store) PeriodoVigente(marca string) domain.Periodo {
	cfg := s.Config()
	if marca != "" {
		if p, ok := cfg.Marcas[marca]; ok {
			return p
		}
	}
	return domain.Periodo{Ano: cfg.AnoAtual, Colecao: cfg.ColecaoAtual}
}

// MetasAtuais retorna as metas vigentes do período indexadas pelo
// identificador do representante.
func (s *Store) MetasAtuais(ano int, colecao string) map[string]domain.Meta {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.carregar()
	metas := make(map[string]domain.Meta)
	for _, m := range doc.MetasAtuais {
		if m.Ano == ano && strings.EqualFold(m.Colecao, colecao) {
			metas[m.RepresentanteID] = m
		}
	}
	return metas
}

// Representantes retorna o cadastro completo indexado por identificador.
func (s *Store) Representantes() map[string]domain.Representante {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.carregar().Representantes
}

// Historico lista os registros de período encerrado; repID vazio lista
// todos.
func (s *Store) Historico(repID string) []domain.HistoricoMeta {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.carregar()
	if repID == "" {
		return doc.HistoricoMetas
	}
	var filtrado []domain.HistoricoMeta
	for _, h := range doc.HistoricoMetas {
		if h.RepresentanteID == repID {
			filtrado = append(filtrado, h)
		}
	}
	return filtrado
}

// Periodos lista os ciclos já registrados no documento.
func (s *Store) Periodos() []domain.Periodo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.carregar().Periodos
}

// --- mutações ---

// SalvarMeta grava (upsert) a meta vigente do representante para o par
// ano+coleção. Quando já existe meta para a chave, o valor é atualizado
// na mesma entrada, mesmo id; senão uma nova entrada recebe o próximo
// id do documento. Retorna o id da meta gravada.
func (s *Store) SalvarMeta(repID, nome string, ano int, colecao string, valor float64) (int, error) {
	msgs := s.validarPeriodo(ano, colecao)
	if strings.TrimSpace(repID) == "" {
		msgs = append(msgs, "representante é obrigatório")
	}
	if valor < 0 {
		msgs = append(msgs, "valor de meta não pode ser negativo")
	}
	if len(msgs) > 0 {
		return 0, &ErroValidacao{Mensagens: msgs}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.carregar()
	agora := s.agora()
	s.upsertRepresentante(doc, repID, nome, agora)
	s.registrarPeriodo(doc, ano, colecao)

	for i, m := range doc.MetasAtuais {
		if m.RepresentanteID == repID && m.Ano == ano && strings.EqualFold(m.Colecao, colecao) {
			doc.MetasAtuais[i].Valor = valor
			doc.MetasAtuais[i].AtualizadoEm = agora
			return m.ID, s.salvar(doc)
		}
	}

	meta := domain.Meta{
		ID:              s.proximoID(doc),
		RepresentanteID: repID,
		Ano:             ano,
		Colecao:         colecao,
		Valor:           valor,
		CriadoEm:        agora,
		AtualizadoEm:    agora,
	}
	doc.MetasAtuais = append(doc.MetasAtuais, meta)
	return meta.ID, s.salvar(doc)
}

// ExcluirMeta remove a meta vigente pelo id.
func (s *Store) ExcluirMeta(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.carregar()
	for i, m := range doc.MetasAtuais {
		if m.ID == id {
			doc.MetasAtuais = append(doc.MetasAtuais[:i], doc.MetasAtuais[i+1:]...)
			return s.salvar(doc)
		}
	}
	return ErrMetaNaoEncontrada
}

// AdicionarHistorico insere um registro de período encerrado. Falha com
// ErrHistoricoCheio quando o representante já tem o máximo de registros;
// nada é gravado nesse caso.
func (s *Store) AdicionarHistorico(repID, nome string, ano int, colecao string, valor float64, realizado *float64) (int, error) {
	msgs := s.validarPeriodo(ano, colecao)
	if strings.TrimSpace(repID) == "" {
		msgs = append(msgs, "representante é obrigatório")
	}
	if valor < 0 {
		msgs = append(msgs, "valor de meta não pode ser negativo")
	}
	if len(msgs) > 0 {
		return 0, &ErroValidacao{Mensagens: msgs}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.carregar()
	existentes := 0
	for _, h := range doc.HistoricoMetas {
		if h.RepresentanteID == repID {
			existentes++
		}
	}
	if existentes >= MaxHistoricoPorRepresentante {
		return 0, ErrHistoricoCheio
	}

	agora := s.agora()
	s.upsertRepresentante(doc, repID, nome, agora)

	entrada := domain.HistoricoMeta{
		ID:              s.proximoID(doc),
		RepresentanteID: repID,
		Ano:             ano,
		Colecao:         colecao,
		Valor:           valor,
		Realizado:       realizado,
		CriadoEm:        agora,
		AtualizadoEm:    agora,
	}
	doc.HistoricoMetas = append(doc.HistoricoMetas, entrada)
	return entrada.ID, s.salvar(doc)
}

// AtualizarHistorico edita um registro existente. Edições não passam
// pelo limite de registros, que só vale para inserção.
func (s *Store) AtualizarHistorico(id, ano int, colecao string, valor float64, realizado *float64) error {
	msgs := s.validarPeriodo(ano, colecao)
	if valor < 0 {
		msgs = append(msgs, "valor de meta não pode ser negativo")
	}
	if len(msgs) > 0 {
		return &ErroValidacao{Mensagens: msgs}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.carregar()
	for i, h := range doc.HistoricoMetas {
		if h.ID == id {
			doc.HistoricoMetas[i].Ano = ano
			doc.HistoricoMetas[i].Colecao = colecao
			doc.HistoricoMetas[i].Valor = valor
			doc.HistoricoMetas[i].Realizado = realizado
			doc.HistoricoMetas[i].AtualizadoEm = s.agora()
			return s.salvar(doc)
		}
	}
	return ErrHistoricoNaoEncontrado
}

// ExcluirHistorico remove um registro de histórico pelo id.
func (s *Store) ExcluirHistorico(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.carregar()
	for i, h := range doc.HistoricoMetas {
		if h.ID == id {
			doc.HistoricoMetas = append(doc.HistoricoMetas[:i], doc.HistoricoMetas[i+1:]...)
			return s.salvar(doc)
		}
	}
	return ErrHistoricoNaoEncontrado
}

// SalvarRepresentante registra o representante na primeira aparição.
// Idempotente: quando já existe, apenas preenche o nome se estava vazio;
// nunca sobrescreve status definido em edição explícita.
func (s *Store) SalvarRepresentante(id, nome string) error {
	if strings.TrimSpace(id) == "" {
		return &ErroValidacao{Mensagens: []string{"representante é obrigatório"}}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.carregar()
	if s.upsertRepresentante(doc, id, nome, s.agora()) {
		return s.salvar(doc)
	}
	return nil
}

// RegistrarVendedores registra em lote os representantes vistos em um
// relatório normalizado, em uma única regravação do documento.
func (s *Store) RegistrarVendedores(linhas []domain.LinhaVendedor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.carregar()
	agora := s.agora()
	alterado := false
	for _, linha := range linhas {
		if linha.ID == "" {
			continue
		}
		if s.upsertRepresentante(doc, linha.ID, linha.Nome, agora) {
			alterado = true
		}
	}
	if !alterado {
		return nil
	}
	return s.salvar(doc)
}

// AtualizarRepresentante aplica uma edição explícita de cadastro:
// diferente do upsert de primeira aparição, aqui nome, status e marca
// sobrescrevem o registro.
func (s *Store) AtualizarRepresentante(id, nome, status, marca string) error {
	var msgs []string
	if strings.TrimSpace(id) == "" {
		msgs = append(msgs, "representante é obrigatório")
	}
	if status != "" && status != domain.RepresentanteAtivo && status != domain.RepresentanteNovo {
		msgs = append(msgs, fmt.Sprintf("status inválido: %q", status))
	}
	if len(msgs) > 0 {
		return &ErroValidacao{Mensagens: msgs}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.carregar()
	rep, ok := doc.Representantes[id]
	if !ok {
		return &ErroValidacao{Mensagens: []string{fmt.Sprintf("representante não cadastrado: %s", id)}}
	}
	if nome != "" {
		rep.Nome = nome
	}
	if status != "" {
		rep.Status = status
	}
	if marca != "" {
		rep.Marca = marca
	}
	rep.AtualizadoEm = s.agora()
	doc.Representantes[id] = rep
	return s.salvar(doc)
}

// SalvarConfig grava a configuração de período vigente.
func (s *Store) SalvarConfig(cfg domain.ConfigPeriodo) error {
	msgs := s.validarPeriodo(cfg.AnoAtual, cfg.ColecaoAtual)
	for marca, p := range cfg.Marcas {
		for _, msg := range s.validarPeriodo(p.Ano, p.Colecao) {
			msgs = append(msgs, fmt.Sprintf("marca %s: %s", marca, msg))
		}
	}
	if len(msgs) > 0 {
		return &ErroValidacao{Mensagens: msgs}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.carregar()
	doc.Config = cfg
	return s.salvar(doc)
}

// --- auxiliares ---

func (s *Store) validarPeriodo(ano int, colecao string) []string {
	var msgs []string
	if ano < 2000 || ano > 2100 {
		msgs = append(msgs, fmt.Sprintf("ano inválido: %d", ano))
	}
	valida := false
	for _, c := range s.colecoes {
		if strings.EqualFold(strings.TrimSpace(colecao), c) {
			valida = true
			break
		}
	}
	if !valida {
		msgs = append(msgs, fmt.Sprintf("coleção inválida: %q", colecao))
	}
	return msgs
}

// proximoID cunha um id único no documento: máximo entre metas e
// histórico mais um, ou 1 quando vazio.
func (s *Store) proximoID(doc *Documento) int {
	maior := 0
	for _, m := range doc.MetasAtuais {
		if m.ID > maior {
			maior = m.ID
		}
	}
	for _, h := range doc.HistoricoMetas {
		if h.ID > maior {
			maior = h.ID
		}
	}
	return maior + 1
}

func (s *Store) registrarPeriodo(doc *Documento, ano int, colecao string) {
	for _, p := range doc.Periodos {
		if p.Ano == ano && strings.EqualFold(p.Colecao, colecao) {
			return
		}
	}
	doc.Periodos = append(doc.Periodos, domain.Periodo{Ano: ano, Colecao: colecao})
}

func (s *Store) upsertRepresentante(doc *Documento, id, nome string, agora time.Time) bool {
	nome = strings.TrimSpace(nome)
	rep, ok := doc.Representantes[id]
	if !ok {
		doc.Representantes[id] = domain.Representante{
			ID:           id,
			Nome:         nome,
			Status:       domain.RepresentanteNovo,
			CriadoEm:     agora,
			AtualizadoEm: agora,
		}
		return true
	}
	if rep.Nome == "" && nome != "" {
		rep.Nome = nome
		rep.AtualizadoEm = agora
		doc.Representantes[id] = rep
		return true
	}
	return false
}
