package report

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var naoAlfanumericoRegex = regexp.MustCompile(`[^A-Z0-9]+`)

// normalizarTexto remove acentos, caixa e pontuação de um cabeçalho ou
// token, reduzindo separadores a um único "_". "Vlr. Líquido " vira
// "VLR_LIQUIDO".
func normalizarTexto(str string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}))
	result, _, _ := transform.String(t, str)
	result = strings.ToUpper(result)
	result = naoAlfanumericoRegex.ReplaceAllString(result, "_")
	return strings.Trim(result, "_")
}

// excelSerialToDate converte um serial de data do Excel (base 1899-12-30).
func excelSerialToDate(serial float64) time.Time {
	base := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	frac := serial - float64(int64(serial))
	duration := time.Duration(int64(serial)*24) * time.Hour
	duration += time.Duration(frac * 24 * float64(time.Hour))
	return base.Add(duration)
}

// parseDateDayFirst interpreta datas no padrão brasileiro (dia primeiro),
// aceitando também ISO e serial do Excel em intervalo plausível.
func parseDateDayFirst(s string, layouts []string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if len(s) >= 10 {
		if t, err := time.Parse("2006-01-02", s[:10]); err == nil {
			return t, true
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f > 35000 && f < 47000 {
			return excelSerialToDate(f), true
		}
	}
	return time.Time{}, false
}
