package metas

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"metas-service/internal/domain"
)

// VersaoAtual é a versão vigente do esquema do documento de metas.
const VersaoAtual = 2

// Documento é o blob JSON único que persiste todo o estado de metas.
// Cada mutação relê e regrava o documento inteiro.
type Documento struct {
	Versao         int                             `json:"versao"`
	Periodos       []domain.Periodo                `json:"periodos"`
	Representantes map[string]domain.Representante `json:"representantes"`
	MetasAtuais    []domain.Meta                   `json:"metas_atuais"`
	HistoricoMetas []domain.HistoricoMeta          `json:"historico_metas"`
	Config         domain.ConfigPeriodo            `json:"config"`
}

// NovoDocumento devolve o documento vazio padrão.
func NovoDocumento() *Documento {
	return &Documento{
		Versao:         VersaoAtual,
		Representantes: make(map[string]domain.Representante),
	}
}

// --- cadeia de migração ---

// migracao transforma o documento bruto de uma versão na seguinte.
// Funções puras, aplicadas em sequência a partir da versão detectada.
type migracao func(map[string]any) map[string]any

var migracoes = map[int]migracao{
	1: migrarV1paraV2,
}

// DetectarVersao identifica a versão do esquema de um documento bruto.
// O formato legado guardava um mapa plano "metas" sob um único
// "periodo", sem os demais campos.
func DetectarVersao(bruto map[string]any) int {
	if v, ok := bruto["versao"].(float64); ok && int(v) >= 1 {
		return int(v)
	}
	if _, temLegado := bruto["metas"]; temLegado {
		if _, temAtual := bruto["metas_atuais"]; !temAtual {
			return 1
		}
	}
	return VersaoAtual
}

// Migrar leva um documento bruto até a versão atual.
func Migrar(bruto map[string]any) map[string]any {
	for versao := DetectarVersao(bruto); versao < VersaoAtual; versao++ {
		passo, ok := migracoes[versao]
		if !ok {
			break
		}
		bruto = passo(bruto)
	}
	return bruto
}

// migrarV1paraV2 converte o formato legado — {"periodo": {ano, colecao},
// "metas": {representante: valor}} — para o documento multi-chave.
func migrarV1paraV2(antigo map[string]any) map[string]any {
	novo := map[string]any{
		"versao":          2,
		"periodos":        []any{},
		"representantes":  map[string]any{},
		"metas_atuais":    []any{},
		"historico_metas": []any{},
		"config":          map[string]any{},
	}

	var ano int
	var colecao string
	if p, ok := antigo["periodo"].(map[string]any); ok {
		if a, ok := p["ano"].(float64); ok {
			ano = int(a)
		}
		colecao, _ = p["colecao"].(string)
	}
	if ano != 0 || colecao != "" {
		novo["periodos"] = []any{map[string]any{"ano": ano, "colecao": colecao}}
		novo["config"] = map[string]any{"ano_atual": ano, "colecao_atual": colecao}
	}

	metas, _ := antigo["metas"].(map[string]any)
	representantes := map[string]any{}
	var metasAtuais []any
	id := 0
	for repID, valor := range metas {
		v, ok := valor.(float64)
		if !ok {
			continue
		}
		id++
		metasAtuais = append(metasAtuais, map[string]any{
			"id":               id,
			"representante_id": repID,
			"ano":              ano,
			"colecao":          colecao,
			"valor":            v,
		})
		representantes[repID] = map[string]any{
			"id":     repID,
			"nome":   "",
			"status": domain.RepresentanteAtivo,
		}
	}
	if metasAtuais != nil {
		novo["metas_atuais"] = metasAtuais
	}
	novo["representantes"] = representantes

	return novo
}

// DecodificarDocumento interpreta os bytes persistidos, aplicando a
// cadeia de migração quando o formato é legado.
func DecodificarDocumento(data []byte) (*Documento, error) {
	var bruto map[string]any
	if err := json.Unmarshal(data, &bruto); err != nil {
		return nil, fmt.Errorf("documento de metas ilegível: %w", err)
	}

	bruto = Migrar(bruto)

	migrado, err := json.Marshal(bruto)
	if err != nil {
		return nil, err
	}
	doc := NovoDocumento()
	if err := json.Unmarshal(migrado, doc); err != nil {
		return nil, fmt.Errorf("documento de metas inválido após migração: %w", err)
	}
	if doc.Representantes == nil {
		doc.Representantes = make(map[string]domain.Representante)
	}
	doc.Versao = VersaoAtual
	return doc, nil
}

// --- fronteira de persistência ---

// DocumentStore é a fronteira com o armazenamento de documentos: o blob
// inteiro é lido e regravado a cada mutação, sem atualização parcial.
type DocumentStore interface {
	Carregar() ([]byte, error)
	Salvar(data []byte) error
}

// ArquivoStore persiste o documento em um único arquivo JSON local.
type ArquivoStore struct {
	caminho string
}

// NewArquivoStore cria o armazém de documento em arquivo.
func NewArquivoStore(caminho string) *ArquivoStore {
	return &ArquivoStore{caminho: caminho}
}

// Carregar lê o documento. Arquivo inexistente não é erro: retorna nil
// para o chamador partir do documento vazio.
func (a *ArquivoStore) Carregar() ([]byte, error) {
	data, err := os.ReadFile(a.caminho)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao ler documento de metas: %w", err)
	}
	return data, nil
}

// Salvar grava o documento por inteiro, criando o diretório se preciso.
func (a *ArquivoStore) Salvar(data []byte) error {
	if dir := filepath.Dir(a.caminho); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("erro ao criar diretório do documento: %w", err)
		}
	}
	if err := os.WriteFile(a.caminho, data, 0o644); err != nil {
		return fmt.Errorf("erro ao gravar documento de metas: %w", err)
	}
	return nil
}
