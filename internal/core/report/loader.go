package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"metas-service/internal/domain"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ExtensoesSuportadas lista os formatos de exportação aceitos.
var ExtensoesSuportadas = map[string]bool{".csv": true, ".xls": true, ".xlsx": true}

// UltimoExport encontra o arquivo de exportação mais recente (por data
// de modificação) no diretório. Retorna caminho vazio, sem erro, quando
// o diretório não existe ou não tem arquivo suportado.
func UltimoExport(dir string) (string, time.Time, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", time.Time{}, nil
		}
		return "", time.Time{}, fmt.Errorf("erro ao ler diretório de exportação: %w", err)
	}

	var caminho string
	var modificado time.Time
	for _, entry := range entries {
		if entry.IsDir() || !ExtensoesSuportadas[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if caminho == "" || info.ModTime().After(modificado) {
			caminho = filepath.Join(dir, entry.Name())
			modificado = info.ModTime()
		}
	}
	return caminho, modificado, nil
}

// CarregarTabela decodifica um arquivo de exportação (.csv, .xls ou
// .xlsx) para a estrutura tabular crua. A primeira linha não vazia é o
// cabeçalho.
func CarregarTabela(file io.Reader, filename string) (*domain.Tabela, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".csv":
		return carregarCSV(file)
	case ".xls", ".xlsx":
		rows, err := carregarExcel(file)
		if err != nil {
			return nil, err
		}
		return montarTabela(rows)
	default:
		return nil, fmt.Errorf("extensão de relatório não suportada: %s", ext)
	}
}

func carregarCSV(file io.Reader) (*domain.Tabela, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	data, err = decodificarBytes(data)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectarDelimitador(data)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("erro ao ler CSV: %w", err)
	}
	return montarTabela(records)
}

// decodificarBytes aplica a detecção de codificação dos exportadores:
// BOM UTF-8/UTF-16, UTF-8 puro e, por fim, cp1252.
func decodificarBytes(data []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}):
		return data[3:], nil
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}), bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		decoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		out, _, err := transform.Bytes(decoder, data)
		if err != nil {
			return nil, fmt.Errorf("erro ao decodificar UTF-16: %w", err)
		}
		return out, nil
	case utf8.Valid(data):
		return data, nil
	default:
		out, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
		if err != nil {
			return nil, fmt.Errorf("erro ao decodificar cp1252: %w", err)
		}
		return out, nil
	}
}

// detectarDelimitador conta os separadores candidatos na primeira linha.
func detectarDelimitador(data []byte) rune {
	linha := data
	if idx := bytes.IndexByte(data, '\n'); idx != -1 {
		linha = data[:idx]
	}
	melhor, ocorrencias := ';', 0
	for _, candidato := range []byte{';', ',', '\t'} {
		if n := bytes.Count(linha, []byte{candidato}); n > ocorrencias {
			melhor, ocorrencias = rune(candidato), n
		}
	}
	return melhor
}

// carregarExcel tenta xlsx e cai para o leitor de xls legado; o caminho
// inverso também vale quando um .xls renomeado chega como xlsx.
func carregarExcel(file io.Reader) ([][]string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	reader := bytes.NewReader(data)

	f, err := excelize.OpenReader(reader)
	if err == nil {
		defer f.Close()
		sheetName := f.GetSheetList()[0]
		return f.GetRows(sheetName)
	}

	reader.Seek(0, io.SeekStart)
	workbook, err := xls.OpenReader(reader)
	if err == nil {
		if len(workbook.GetSheets()) > 0 {
			sheet, err := workbook.GetSheet(0)
			if err != nil {
				return nil, fmt.Errorf("erro ao obter planilha do arquivo .xls: %w", err)
			}
			var allRows [][]string
			for _, row := range sheet.GetRows() {
				var cells []string
				for _, cell := range row.GetCols() {
					cells = append(cells, cell.GetString())
				}
				allRows = append(allRows, cells)
			}
			return allRows, nil
		}
		return nil, fmt.Errorf("o arquivo .xls não contém planilhas")
	}

	return nil, fmt.Errorf("unsupported workbook file format")
}

func montarTabela(rows [][]string) (*domain.Tabela, error) {
	inicio := -1
	for i, row := range rows {
		if !linhaVazia(row) {
			inicio = i
			break
		}
	}
	if inicio == -1 {
		return nil, fmt.Errorf("o relatório não contém linhas")
	}

	cabecalho := make([]string, len(rows[inicio]))
	for i, c := range rows[inicio] {
		cabecalho[i] = strings.TrimSpace(c)
	}

	var linhas [][]string
	for _, row := range rows[inicio+1:] {
		if linhaVazia(row) {
			continue
		}
		linhas = append(linhas, row)
	}
	return &domain.Tabela{Colunas: cabecalho, Linhas: linhas}, nil
}

func linhaVazia(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
