package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"metas-service/internal/domain"

	"go.uber.org/zap"
)

// Service define a interface do pipeline de normalização de relatórios:
// carga do arquivo, remapeamento de esquema, agregação quando o
// relatório é por pedido e resolução de identidade.
type Service interface {
	CarregarUltimo(dir string) (*domain.Relatorio, error)
	Processar(file io.Reader, filename string, modificadoEm time.Time) (*domain.Relatorio, error)
}

type service struct {
	logger       *zap.Logger
	normalizador *Normalizador
	opcoes       OpcoesAgregacao
}

// NewService cria o serviço de relatórios. Opções zeradas assumem os
// padrões regionais e o ano corrente.
func NewService(logger *zap.Logger, opcoes OpcoesAgregacao) Service {
	if len(opcoes.TokensAtivos) == 0 {
		opcoes.TokensAtivos = TokensAtivosPadrao
	}
	if len(opcoes.LayoutsData) == 0 {
		opcoes.LayoutsData = LayoutsDataPadrao
	}
	if opcoes.AnoAtual == 0 {
		opcoes.AnoAtual = time.Now().Year()
	}
	return &service{
		logger:       logger,
		normalizador: NewNormalizador(logger),
		opcoes:       opcoes,
	}
}

// CarregarUltimo processa o arquivo de exportação mais recente do
// diretório. Retorna nil, sem erro, quando não há arquivo.
func (s *service) CarregarUltimo(dir string) (*domain.Relatorio, error) {
	caminho, modificado, err := UltimoExport(dir)
	if err != nil {
		return nil, err
	}
	if caminho == "" {
		return nil, nil
	}

	f, err := os.Open(caminho)
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir relatório %s: %w", caminho, err)
	}
	defer f.Close()

	return s.Processar(f, filepath.Base(caminho), modificado)
}

func (s *service) Processar(file io.Reader, filename string, modificadoEm time.Time) (*domain.Relatorio, error) {
	tabela, err := CarregarTabela(file, filename)
	if err != nil {
		return nil, fmt.Errorf("erro ao carregar relatório: %w", err)
	}
	tabela = s.normalizador.Normalizar(tabela)

	var linhas []domain.LinhaVendedor
	agregado := false
	if PreAgregada(tabela) {
		linhas = montarLinhas(tabela)
	} else {
		agregado = true
		linhas = Agregar(tabela, s.opcoes)
	}

	for i := range linhas {
		linhas[i].ID = ResolveID(linhas[i].Codigo, linhas[i].Nome)
	}

	s.logger.Info("relatório processado",
		zap.String("arquivo", filename),
		zap.Int("vendedores", len(linhas)),
		zap.Bool("agregado", agregado))

	return &domain.Relatorio{
		Arquivo:      filename,
		AtualizadoEm: modificadoEm,
		Agregado:     agregado,
		Vendedores:   linhas,
	}, nil
}

// montarLinhas converte a tabela já agregada pelo exportador em linhas
// canônicas. Células numéricas não interpretáveis entram como zero.
func montarLinhas(t *domain.Tabela) []domain.LinhaVendedor {
	linhas := make([]domain.LinhaVendedor, 0, len(t.Linhas))
	for _, row := range t.Linhas {
		linhas = append(linhas, domain.LinhaVendedor{
			Codigo:         strings.TrimSpace(t.Celula(row, ColVendedor)),
			Nome:           strings.TrimSpace(t.Celula(row, ColNomeVendedor)),
			QtdeItem:       valorOuZero(t.Celula(row, ColQtdeItem)),
			TotalPedidos:   valorOuZero(t.Celula(row, ColTotalPedidos)),
			TotalClientes:  valorOuZero(t.Celula(row, ColTotalClientes)),
			ClientesAtivos: valorOuZero(t.Celula(row, ColClientesAtivos)),
			ClientesNovos:  valorOuZero(t.Celula(row, ColClientesNovos)),
			QtdeMedia:      valorOuZero(t.Celula(row, ColQtdeMedia)),
			VlrLiquido:     valorOuZero(t.Celula(row, ColVlrLiquido)),
			PrecoMedio:     valorOuZero(t.Celula(row, ColPrecoMedio)),
			MediaPedidos:   valorOuZero(t.Celula(row, ColMediaPedidos)),
		})
	}
	return linhas
}
